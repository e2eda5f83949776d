package handler

import (
	"time"

	"parishtasks/internal/dateutil"
	"parishtasks/internal/model"
	"parishtasks/internal/service"
)

// CreateTaskRequest is the body of POST /tasks.
type CreateTaskRequest struct {
	Title            string   `json:"title" binding:"required"`
	Description      string   `json:"description"`
	PriorityBase     *int     `json:"priority_base" binding:"omitempty,min=0,max=100"`
	TaskType         *string  `json:"task_type"`
	OriginType       string   `json:"origin_type"`
	OriginID         string   `json:"origin_id"`
	OriginEvent      string   `json:"origin_event"`
	ListKey          string   `json:"list_key"`
	ListTitle        string   `json:"list_title"`
	ListMode         string   `json:"list_mode" binding:"omitempty,oneof=sequential parallel"`
	State            string   `json:"state"`
	DueAt            string   `json:"due_at"`
	SLATargetAt      string   `json:"sla_target_at"`
	PriorityOverride *float64 `json:"priority_override"`
	Rank             *int     `json:"rank"`
	SortOrder        *int     `json:"sort_order"`
	ArchiveAfterDue  *bool    `json:"archive_after_due"`
	KeepUntil        string   `json:"keep_until"`
}

// UpdateTaskRequest is the body of PATCH /tasks/:id. Absent fields are
// left alone; the clear_* flags null out optional values.
type UpdateTaskRequest struct {
	State                 *string  `json:"state"`
	Completed             *bool    `json:"completed"`
	PriorityOverride      *float64 `json:"priority_override"`
	ClearPriorityOverride bool     `json:"clear_priority_override"`
	DueAt                 *string  `json:"due_at"`
	ClearDueAt            bool     `json:"clear_due_at"`
	SLATargetAt           *string  `json:"sla_target_at"`
	Rank                  *int     `json:"rank"`
	ClearRank             bool     `json:"clear_rank"`
	Blocked               *bool    `json:"blocked"`
	ArchiveAfterDue       *bool    `json:"archive_after_due"`
	KeepUntil             *string  `json:"keep_until"`
	ClearKeepUntil        bool     `json:"clear_keep_until"`
	Archived              *bool    `json:"archived"`
}

// SeedRequest optionally narrows seeding to one origin type.
type SeedRequest struct {
	OriginType string `json:"origin_type"`
}

// AssignOriginRequest is the body of POST /task-origins/assign.
type AssignOriginRequest struct {
	FromType string `json:"from_type" binding:"required"`
	FromID   string `json:"from_id" binding:"required"`
	ToType   string `json:"to_type" binding:"required"`
	ToID     string `json:"to_id" binding:"required"`
	Label    string `json:"label"`
}

// TemplateRequest is the body of POST /task-templates.
type TemplateRequest struct {
	ID              string  `json:"id" binding:"omitempty,uuid"`
	OriginType      string  `json:"origin_type" binding:"required"`
	OriginID        *string `json:"origin_id"`
	ListKey         string  `json:"list_key"`
	ListTitle       string  `json:"list_title"`
	ListMode        string  `json:"list_mode"`
	StepKey         string  `json:"step_key" binding:"required"`
	Title           string  `json:"title" binding:"required"`
	Description     string  `json:"description"`
	SortOrder       int     `json:"sort_order"`
	DueOffsetDays   *int    `json:"due_offset_days"`
	PriorityBase    *int    `json:"priority_base"`
	ArchiveAfterDue *bool   `json:"archive_after_due"`
	Active          *bool   `json:"active"`
}

// TaskResponse is one scored task instance.
type TaskResponse struct {
	ID                string   `json:"id"`
	Title             string   `json:"title"`
	Description       string   `json:"description"`
	TaskType          *string  `json:"task_type,omitempty"`
	State             string   `json:"state"`
	DisplayState      string   `json:"display_state"`
	Blocked           bool     `json:"blocked"`
	PriorityBase      int      `json:"priority_base"`
	PriorityOverride  *float64 `json:"priority_override,omitempty"`
	PriorityEffective int      `json:"priority_effective"`
	PriorityTier      string   `json:"priority_tier"`
	DueAt             *string  `json:"due_at,omitempty"`
	SLATargetAt       *string  `json:"sla_target_at,omitempty"`
	Rank              *int     `json:"rank,omitempty"`
	SortOrder         *int     `json:"sort_order,omitempty"`
	ListKey           string   `json:"list_key"`
	ListTitle         string   `json:"list_title,omitempty"`
	ListMode          string   `json:"list_mode"`
	OriginType        string   `json:"origin_type"`
	OriginID          string   `json:"origin_id"`
	OriginEvent       string   `json:"origin_event"`
	GenerationKey     string   `json:"generation_key"`
	ArchiveAfterDue   bool     `json:"archive_after_due"`
	KeepUntil         *string  `json:"keep_until,omitempty"`
	ArchivedAt        *string  `json:"archived_at,omitempty"`
	CompletedAt       *string  `json:"completed_at,omitempty"`
	CreatedAt         string   `json:"created_at"`
}

// OriginSummaryResponse is one rollup row.
type OriginSummaryResponse struct {
	Key        string       `json:"key"`
	OriginType string       `json:"origin_type"`
	OriginID   string       `json:"origin_id"`
	Label      string       `json:"label"`
	OpenCount  int          `json:"open_count"`
	ListCount  int          `json:"list_count"`
	Next       TaskResponse `json:"next"`
}

// OriginResponse is one entry of GET /task-origins.
type OriginResponse struct {
	Key        string `json:"key"`
	OriginType string `json:"origin_type"`
	OriginID   string `json:"origin_id"`
	Label      string `json:"label"`
	Total      int    `json:"total"`
	Open       int    `json:"open"`
}

// TemplateResponse is one recurring template.
type TemplateResponse struct {
	ID              string  `json:"id"`
	OriginType      string  `json:"origin_type"`
	OriginID        *string `json:"origin_id,omitempty"`
	ListKey         string  `json:"list_key"`
	ListTitle       string  `json:"list_title"`
	ListMode        string  `json:"list_mode"`
	StepKey         string  `json:"step_key"`
	Title           string  `json:"title"`
	Description     string  `json:"description"`
	SortOrder       int     `json:"sort_order"`
	DueOffsetDays   *int    `json:"due_offset_days,omitempty"`
	PriorityBase    int     `json:"priority_base"`
	ArchiveAfterDue bool    `json:"archive_after_due"`
	Active          bool    `json:"active"`
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}

// parseOptionalDay accepts a day key or an RFC 3339 timestamp; blank means
// no value.
func parseOptionalDay(s string) (*time.Time, bool) {
	if s == "" {
		return nil, true
	}
	t, ok := dateutil.ParseDay(s)
	if !ok {
		return nil, false
	}
	return &t, true
}

func toTaskResponse(v *model.InstanceView) TaskResponse {
	return TaskResponse{
		ID:                v.ID.String(),
		Title:             v.Title,
		Description:       v.Description,
		TaskType:          v.TaskType,
		State:             string(v.State),
		DisplayState:      string(v.DisplayState()),
		Blocked:           v.Blocked,
		PriorityBase:      v.PriorityBase,
		PriorityOverride:  v.PriorityOverride,
		PriorityEffective: v.PriorityEffective,
		PriorityTier:      v.PriorityTier,
		DueAt:             formatTime(v.DueAt),
		SLATargetAt:       formatTime(v.SLATargetAt),
		Rank:              v.Rank,
		SortOrder:         v.SortOrder,
		ListKey:           v.EffectiveListKey(),
		ListTitle:         v.ListTitle,
		ListMode:          string(v.ListMode),
		OriginType:        string(v.OriginType),
		OriginID:          v.OriginID,
		OriginEvent:       v.OriginEvent,
		GenerationKey:     v.GenerationKey,
		ArchiveAfterDue:   v.ArchivesAfterDue(),
		KeepUntil:         formatTime(v.KeepUntil),
		ArchivedAt:        formatTime(v.ArchivedAt),
		CompletedAt:       formatTime(v.CompletedAt),
		CreatedAt:         v.CreatedAt.Format(time.RFC3339),
	}
}

func toSummaryResponse(s *model.OriginSummary) OriginSummaryResponse {
	return OriginSummaryResponse{
		Key:        s.Key,
		OriginType: string(s.OriginType),
		OriginID:   s.OriginID,
		Label:      s.Label,
		OpenCount:  s.OpenCount,
		ListCount:  s.ListCount,
		Next:       toTaskResponse(&s.Next),
	}
}

func toOriginResponse(o *service.OriginInfo) OriginResponse {
	return OriginResponse{
		Key:        o.Key,
		OriginType: string(o.OriginType),
		OriginID:   o.OriginID,
		Label:      o.Label,
		Total:      o.Total,
		Open:       o.Open,
	}
}

func toTemplateResponse(t *model.RecurringTaskTemplate) TemplateResponse {
	return TemplateResponse{
		ID:              t.ID.String(),
		OriginType:      string(t.OriginType),
		OriginID:        t.OriginID,
		ListKey:         t.ListKey,
		ListTitle:       t.ListTitle,
		ListMode:        string(t.ListMode),
		StepKey:         t.StepKey,
		Title:           t.Title,
		Description:     t.Description,
		SortOrder:       t.SortOrder,
		DueOffsetDays:   t.DueOffsetDays,
		PriorityBase:    t.PriorityBase,
		ArchiveAfterDue: t.ArchiveAfterDue,
		Active:          t.Active,
	}
}
