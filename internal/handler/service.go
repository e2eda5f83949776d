package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"parishtasks/internal/model"
	"parishtasks/internal/seeder"
	"parishtasks/internal/service"
)

// TaskService is the engine surface the HTTP layer calls.
type TaskService interface {
	CreateInstance(ctx context.Context, def model.TaskDefinition, inst model.TaskInstance, origin model.TaskOrigin) (uuid.UUID, bool, error)
	GetInstance(ctx context.Context, id uuid.UUID) (*model.InstanceView, error)
	ListInstances(ctx context.Context, filter model.InstanceFilter) ([]model.InstanceView, error)
	Rollup(ctx context.Context, filter model.InstanceFilter) ([]model.OriginSummary, error)
	UpdateInstance(ctx context.Context, id uuid.UUID, patch model.InstancePatch) (*model.InstanceView, error)
	DeleteInstance(ctx context.Context, id uuid.UUID) (bool, error)
	SeedTemplates(ctx context.Context, originType *model.OriginType) (seeder.Result, error)

	ListOrigins(ctx context.Context, filter model.InstanceFilter) ([]service.OriginInfo, error)
	AssignOrigin(ctx context.Context, from, to service.OriginRef, label string) (int, error)
	DeleteOrigin(ctx context.Context, ref service.OriginRef) (int, error)

	ListTemplates(ctx context.Context, originType *model.OriginType, originID *string) ([]model.RecurringTaskTemplate, error)
	SaveTemplate(ctx context.Context, t *model.RecurringTaskTemplate) error
}

// respondError maps service errors to status codes. Unexpected errors are
// logged and hidden behind message.
func respondError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInstanceNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
	default:
		slog.ErrorContext(c.Request.Context(), message, "error", err, "path", c.FullPath())
		c.JSON(http.StatusInternalServerError, gin.H{"error": message})
	}
}

// parseFilter reads include_archived, origin_type and origin_id.
func parseFilter(c *gin.Context) (model.InstanceFilter, bool) {
	var filter model.InstanceFilter
	filter.IncludeArchived = c.Query("include_archived") == "true"
	if raw := c.Query("origin_type"); raw != "" {
		t, ok := model.ParseOriginType(raw)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown origin type"})
			return filter, false
		}
		filter.OriginType = &t
	}
	if id := c.Query("origin_id"); id != "" {
		filter.OriginID = &id
	}
	return filter, true
}
