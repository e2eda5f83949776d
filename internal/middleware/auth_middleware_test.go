package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"parishtasks/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

const testSecret = "test-secret-key"

func setupRouter(auth gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	// Protected route
	protected := r.Group("/protected")
	protected.Use(auth)

	protected.GET("/resource", func(c *gin.Context) {
		userID, exists := c.Get(middleware.UserIDKey)
		if !exists {
			c.JSON(http.StatusOK, gin.H{"message": "Access granted"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Access granted",
			"user_id": userID,
		})
	})

	return r
}

func signToken(t *testing.T, claims jwt.MapClaims, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(secret))
	assert.NoError(t, err)
	return tokenString
}

func request(router *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("GET", "/protected/resource", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestJWTAuthMiddleware_ValidToken(t *testing.T) {
	// Arrange
	router := setupRouter(middleware.JWTAuthMiddleware(testSecret))
	userID := uuid.New()
	token := signToken(t, jwt.MapClaims{
		"user_id": userID.String(),
		"exp":     jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
	}, testSecret)

	// Act
	resp := request(router, "Bearer "+token)

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "Access granted")
	assert.Contains(t, resp.Body.String(), userID.String())
}

func TestJWTAuthMiddleware_Rejections(t *testing.T) {
	valid := jwt.MapClaims{
		"user_id": uuid.New().String(),
		"exp":     jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}

	tests := []struct {
		name    string
		header  string
		message string
	}{
		{"no header", "", "Authorization header is required"},
		{"wrong scheme", "Token abc", "Authorization header format must be Bearer {token}"},
		{"garbage token", "Bearer invalid-token", "Invalid or expired token"},
		{"wrong secret", "Bearer " + signToken(t, valid, "other-secret"), "Invalid or expired token"},
		{"expired", "Bearer " + signToken(t, jwt.MapClaims{
			"user_id": uuid.New().String(),
			"exp":     jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		}, testSecret), "Invalid or expired token"},
		{"no expiry", "Bearer " + signToken(t, jwt.MapClaims{"user_id": uuid.New().String()}, testSecret), "Invalid or expired token"},
		{"bad user id", "Bearer " + signToken(t, jwt.MapClaims{
			"user_id": "not-a-valid-uuid",
			"exp":     jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}, testSecret), "Invalid user ID in token"},
	}

	router := setupRouter(middleware.JWTAuthMiddleware(testSecret))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			resp := request(router, tt.header)

			// Assert
			assert.Equal(t, http.StatusUnauthorized, resp.Code)
			assert.Contains(t, resp.Body.String(), tt.message)
		})
	}
}

func TestOptionalJWTAuth_NoSecretPassesThrough(t *testing.T) {
	// Arrange
	router := setupRouter(middleware.OptionalJWTAuth(""))

	// Act
	resp := request(router, "")

	// Assert
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.NotContains(t, resp.Body.String(), "user_id")
}

func TestOptionalJWTAuth_SecretEnforced(t *testing.T) {
	// Arrange
	router := setupRouter(middleware.OptionalJWTAuth(testSecret))

	// Act
	resp := request(router, "")

	// Assert
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}
