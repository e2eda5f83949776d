package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"parishtasks/internal/model"
)

type TemplateHandler struct {
	service TaskService
}

func NewTemplateHandler(service TaskService) *TemplateHandler {
	return &TemplateHandler{service: service}
}

// List godoc
// @Summary  List recurring task templates
// @Tags     Templates
// @Produce  json
// @Param    origin_type query string false "Origin type"
// @Param    origin_id   query string false "Scope"
// @Success  200 {array} TemplateResponse
// @Router   /task-templates [get]
func (h *TemplateHandler) List(c *gin.Context) {
	var originType *model.OriginType
	if raw := c.Query("origin_type"); raw != "" {
		t, ok := model.ParseOriginType(raw)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown origin type"})
			return
		}
		originType = &t
	}
	var originID *string
	if id := c.Query("origin_id"); id != "" {
		originID = &id
	}

	templates, err := h.service.ListTemplates(c.Request.Context(), originType, originID)
	if err != nil {
		respondError(c, err, "Failed to retrieve templates")
		return
	}

	response := make([]TemplateResponse, len(templates))
	for i := range templates {
		response[i] = toTemplateResponse(&templates[i])
	}
	c.JSON(http.StatusOK, response)
}

// Save godoc
// @Summary  Create or replace a recurring task template
// @Tags     Templates
// @Accept   json
// @Produce  json
// @Param    template body TemplateRequest true "Template"
// @Success  201 {object} TemplateResponse
// @Failure  400 {object} map[string]string
// @Security BearerAuth
// @Router   /task-templates [post]
func (h *TemplateHandler) Save(c *gin.Context) {
	var req TemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	originType, ok := model.ParseOriginType(req.OriginType)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown origin type"})
		return
	}

	t := model.RecurringTaskTemplate{
		OriginType:      originType,
		OriginID:        req.OriginID,
		ListKey:         req.ListKey,
		ListTitle:       req.ListTitle,
		ListMode:        model.ListMode(req.ListMode),
		StepKey:         req.StepKey,
		Title:           req.Title,
		Description:     req.Description,
		SortOrder:       req.SortOrder,
		DueOffsetDays:   req.DueOffsetDays,
		PriorityBase:    model.DefaultPriorityBase,
		ArchiveAfterDue: true,
		Active:          true,
	}
	if req.ID != "" {
		t.ID = uuid.MustParse(req.ID)
	}
	if req.PriorityBase != nil {
		t.PriorityBase = *req.PriorityBase
	}
	if req.ArchiveAfterDue != nil {
		t.ArchiveAfterDue = *req.ArchiveAfterDue
	}
	if req.Active != nil {
		t.Active = *req.Active
	}

	if err := h.service.SaveTemplate(c.Request.Context(), &t); err != nil {
		respondError(c, err, "Failed to save template")
		return
	}
	c.JSON(http.StatusCreated, toTemplateResponse(&t))
}
