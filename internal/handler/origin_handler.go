package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"parishtasks/internal/model"
	"parishtasks/internal/service"
)

type OriginHandler struct {
	service TaskService
}

func NewOriginHandler(service TaskService) *OriginHandler {
	return &OriginHandler{service: service}
}

// List godoc
// @Summary  List task origins with counts
// @Tags     Origins
// @Produce  json
// @Param    include_archived query bool   false "Include archived tasks"
// @Param    origin_type      query string false "Origin type"
// @Success  200 {array} OriginResponse
// @Router   /task-origins [get]
func (h *OriginHandler) List(c *gin.Context) {
	filter, ok := parseFilter(c)
	if !ok {
		return
	}

	origins, err := h.service.ListOrigins(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "Failed to retrieve origins")
		return
	}

	response := make([]OriginResponse, len(origins))
	for i := range origins {
		response[i] = toOriginResponse(&origins[i])
	}
	c.JSON(http.StatusOK, response)
}

// Assign godoc
// @Summary  Move the open tasks of one origin into another
// @Tags     Origins
// @Accept   json
// @Produce  json
// @Param    body body AssignOriginRequest true "Assignment"
// @Success  200 {object} map[string]int
// @Failure  400 {object} map[string]string
// @Security BearerAuth
// @Router   /task-origins/assign [post]
func (h *OriginHandler) Assign(c *gin.Context) {
	var req AssignOriginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	fromType, okFrom := model.ParseOriginType(req.FromType)
	toType, okTo := model.ParseOriginType(req.ToType)
	if !okFrom || !okTo {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown origin type"})
		return
	}

	moved, err := h.service.AssignOrigin(c.Request.Context(),
		service.OriginRef{Type: fromType, ID: req.FromID},
		service.OriginRef{Type: toType, ID: req.ToID},
		req.Label)
	if err != nil {
		respondError(c, err, "Failed to assign origin")
		return
	}
	c.JSON(http.StatusOK, gin.H{"moved": moved})
}

// Delete godoc
// @Summary  Delete every task of an origin
// @Tags     Origins
// @Produce  json
// @Param    origin_type query string true "Origin type"
// @Param    origin_id   query string true "Origin id"
// @Success  200 {object} map[string]int
// @Failure  400 {object} map[string]string
// @Security BearerAuth
// @Router   /task-origins [delete]
func (h *OriginHandler) Delete(c *gin.Context) {
	originType, ok := model.ParseOriginType(c.Query("origin_type"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown origin type"})
		return
	}

	deleted, err := h.service.DeleteOrigin(c.Request.Context(), service.OriginRef{Type: originType, ID: c.Query("origin_id")})
	if err != nil {
		respondError(c, err, "Failed to delete origin")
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}
