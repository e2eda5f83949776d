package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"parishtasks/internal/model"
)

type TaskHandler struct {
	service TaskService
}

func NewTaskHandler(service TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

// List godoc
// @Summary  List tasks in priority order
// @Tags     Tasks
// @Produce  json
// @Param    include_archived query bool   false "Include archived tasks"
// @Param    origin_type      query string false "Origin type"
// @Param    origin_id        query string false "Origin id"
// @Success  200 {array} TaskResponse
// @Router   /tasks [get]
func (h *TaskHandler) List(c *gin.Context) {
	filter, ok := parseFilter(c)
	if !ok {
		return
	}

	views, err := h.service.ListInstances(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "Failed to retrieve tasks")
		return
	}

	response := make([]TaskResponse, len(views))
	for i := range views {
		response[i] = toTaskResponse(&views[i])
	}
	c.JSON(http.StatusOK, response)
}

// Rollup godoc
// @Summary  Next actionable task per origin
// @Tags     Tasks
// @Produce  json
// @Param    include_archived query bool   false "Include archived tasks"
// @Param    origin_type      query string false "Origin type"
// @Param    origin_id        query string false "Origin id"
// @Success  200 {array} OriginSummaryResponse
// @Router   /tasks/rollup [get]
func (h *TaskHandler) Rollup(c *gin.Context) {
	filter, ok := parseFilter(c)
	if !ok {
		return
	}

	summaries, err := h.service.Rollup(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err, "Failed to build rollup")
		return
	}

	response := make([]OriginSummaryResponse, len(summaries))
	for i := range summaries {
		response[i] = toSummaryResponse(&summaries[i])
	}
	c.JSON(http.StatusOK, response)
}

// Create godoc
// @Summary  Create a task
// @Tags     Tasks
// @Accept   json
// @Produce  json
// @Param    task body CreateTaskRequest true "Task"
// @Success  201 {object} TaskResponse
// @Success  200 {object} map[string]any "Task already existed"
// @Failure  400 {object} map[string]string
// @Security BearerAuth
// @Router   /tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	originType := model.OriginManual
	if req.OriginType != "" {
		t, ok := model.ParseOriginType(req.OriginType)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown origin type"})
			return
		}
		originType = t
	}

	dueAt, ok := parseOptionalDay(req.DueAt)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid due_at"})
		return
	}
	slaTargetAt, ok := parseOptionalDay(req.SLATargetAt)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sla_target_at"})
		return
	}
	keepUntil, ok := parseOptionalDay(req.KeepUntil)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid keep_until"})
		return
	}

	base := model.DefaultPriorityBase
	if req.PriorityBase != nil {
		base = *req.PriorityBase
	}

	def := model.TaskDefinition{
		Title:        req.Title,
		Description:  req.Description,
		PriorityBase: base,
		TaskType:     req.TaskType,
	}
	inst := model.TaskInstance{
		State:            model.State(strings.ToLower(req.State)),
		DueAt:            dueAt,
		SLATargetAt:      slaTargetAt,
		PriorityOverride: req.PriorityOverride,
		Rank:             req.Rank,
		SortOrder:        req.SortOrder,
		ArchiveAfterDue:  req.ArchiveAfterDue,
		KeepUntil:        keepUntil,
		ListKey:          req.ListKey,
		ListTitle:        req.ListTitle,
		ListMode:         model.ListMode(req.ListMode),
	}
	origin := model.TaskOrigin{
		OriginType:  originType,
		OriginID:    req.OriginID,
		OriginEvent: req.OriginEvent,
	}

	id, created, err := h.service.CreateInstance(c.Request.Context(), def, inst, origin)
	if err != nil {
		respondError(c, err, "Failed to create task")
		return
	}
	if !created {
		c.JSON(http.StatusOK, gin.H{"created": false})
		return
	}

	view, err := h.service.GetInstance(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "Failed to retrieve task")
		return
	}
	c.JSON(http.StatusCreated, toTaskResponse(view))
}

// Update godoc
// @Summary  Update a task
// @Tags     Tasks
// @Accept   json
// @Produce  json
// @Param    id   path string            true "Task ID"
// @Param    task body UpdateTaskRequest true "Changes"
// @Success  200 {object} TaskResponse
// @Failure  400 {object} map[string]string
// @Failure  404 {object} map[string]string
// @Security BearerAuth
// @Router   /tasks/{id} [patch]
func (h *TaskHandler) Update(c *gin.Context) {
	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID format"})
		return
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	patch, msg := buildPatch(&req)
	if msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	view, err := h.service.UpdateInstance(c.Request.Context(), taskID, patch)
	if err != nil {
		respondError(c, err, "Failed to update task")
		return
	}
	c.JSON(http.StatusOK, toTaskResponse(view))
}

func buildPatch(req *UpdateTaskRequest) (model.InstancePatch, string) {
	patch := model.InstancePatch{
		Completed:        req.Completed,
		PriorityOverride: req.PriorityOverride,
		ClearOverride:    req.ClearPriorityOverride,
		ClearDueAt:       req.ClearDueAt,
		Rank:             req.Rank,
		ClearRank:        req.ClearRank,
		Blocked:          req.Blocked,
		ArchiveAfterDue:  req.ArchiveAfterDue,
		ClearKeepUntil:   req.ClearKeepUntil,
		Archived:         req.Archived,
	}
	if req.State != nil {
		state := model.State(strings.ToLower(*req.State))
		patch.State = &state
	}
	for _, f := range []struct {
		name string
		raw  *string
		dst  **time.Time
	}{
		{"due_at", req.DueAt, &patch.DueAt},
		{"sla_target_at", req.SLATargetAt, &patch.SLATargetAt},
		{"keep_until", req.KeepUntil, &patch.KeepUntil},
	} {
		if f.raw == nil {
			continue
		}
		t, ok := parseOptionalDay(*f.raw)
		if !ok {
			return patch, "Invalid " + f.name
		}
		*f.dst = t
	}
	return patch, ""
}

// Delete godoc
// @Summary  Delete a task
// @Tags     Tasks
// @Param    id path string true "Task ID"
// @Success  204
// @Failure  404 {object} map[string]string
// @Security BearerAuth
// @Router   /tasks/{id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID format"})
		return
	}

	deleted, err := h.service.DeleteInstance(c.Request.Context(), taskID)
	if err != nil {
		respondError(c, err, "Failed to delete task")
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

// Seed godoc
// @Summary  Generate missing tasks from recurring templates
// @Tags     Tasks
// @Accept   json
// @Produce  json
// @Param    body body SeedRequest false "Origin type to seed"
// @Success  200 {object} map[string]int
// @Security BearerAuth
// @Router   /tasks/seed [post]
func (h *TaskHandler) Seed(c *gin.Context) {
	var req SeedRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
	}
	if req.OriginType == "" {
		req.OriginType = c.Query("origin_type")
	}

	var originType *model.OriginType
	if req.OriginType != "" {
		t, ok := model.ParseOriginType(req.OriginType)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown origin type"})
			return
		}
		originType = &t
	}

	res, err := h.service.SeedTemplates(c.Request.Context(), originType)
	if err != nil {
		respondError(c, err, "Failed to seed tasks")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"created": res.Created,
		"skipped": res.Skipped,
		"removed": res.Removed,
	})
}
