package model

import (
	"time"

	"github.com/google/uuid"
)

// ListMode says whether a list is worked step by step or all at once.
type ListMode string

const (
	ListSequential ListMode = "sequential"
	ListParallel   ListMode = "parallel"
)

// DefaultListKey groups instances that carry no list key.
const DefaultListKey = "default"

// State is the lifecycle of a task instance.
type State string

const (
	StateOpen       State = "open"
	StateInProgress State = "in_progress"
	StateBlocked    State = "blocked"
	StateDone       State = "done"
)

// IsValid reports whether s is a known state.
func (s State) IsValid() bool {
	switch s {
	case StateOpen, StateInProgress, StateBlocked, StateDone:
		return true
	default:
		return false
	}
}

// Definition statuses.
const (
	DefinitionActive   = "active"
	DefinitionInactive = "inactive"
)

// DefaultPriorityBase is used when a definition or template has no base.
const DefaultPriorityBase = 50

// TaskDefinition is the reusable "what" of a task.
type TaskDefinition struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Title        string    `gorm:"not null"`
	Description  string
	Status       string  `gorm:"not null"`
	PriorityBase int     `gorm:"not null"`
	TaskType     *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TaskInstance is the actionable "when" of a definition.
type TaskInstance struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	DefinitionID     uuid.UUID `gorm:"type:uuid;not null;index"`
	GenerationKey    string    `gorm:"not null;uniqueIndex"`
	State            State     `gorm:"not null"`
	DueAt            *time.Time
	SLATargetAt      *time.Time `gorm:"column:sla_target_at"`
	PriorityOverride *float64
	Rank             *int
	SortOrder        *int
	Blocked          bool `gorm:"not null"`
	ArchivedAt       *time.Time `gorm:"index"`
	ArchiveAfterDue  *bool      `gorm:"not null"`
	KeepUntil        *time.Time
	ListKey          string
	ListTitle        string
	ListMode         ListMode `gorm:"not null"`
	CompletedAt      *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time

	Definition TaskDefinition `gorm:"foreignKey:DefinitionID"`
	Origin     *TaskOrigin    `gorm:"foreignKey:InstanceID"`
}

// ArchivesAfterDue reports whether the instance is archived once past due.
// Unset means yes.
func (i *TaskInstance) ArchivesAfterDue() bool {
	return i.ArchiveAfterDue == nil || *i.ArchiveAfterDue
}

// EffectiveListKey falls back to the default list.
func (i *TaskInstance) EffectiveListKey() string {
	if i.ListKey == "" {
		return DefaultListKey
	}
	return i.ListKey
}

// DisplayState folds the blocked flag into the state. Done always wins
// over blocked.
func (i *TaskInstance) DisplayState() State {
	switch {
	case i.State == StateDone:
		return StateDone
	case i.Blocked:
		return StateBlocked
	case i.State == "":
		return StateOpen
	default:
		return i.State
	}
}

// TaskOrigin records why an instance exists.
type TaskOrigin struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	InstanceID  uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex"`
	OriginType  OriginType `gorm:"not null;index:idx_task_origins_origin,priority:1"`
	OriginID    string     `gorm:"not null;index:idx_task_origins_origin,priority:2"`
	OriginEvent string     `gorm:"not null"`
	CreatedAt   time.Time
}

// Key returns the origin key of o.
func (o *TaskOrigin) Key() string {
	return OriginKey(o.OriginType, o.OriginID)
}

// RecurringTaskTemplate is a blueprint for seeded instances.
type RecurringTaskTemplate struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OriginType      OriginType `gorm:"not null;index" validate:"required"`
	OriginID        *string
	ListKey         string
	ListTitle       string
	ListMode        ListMode `gorm:"not null" validate:"required,oneof=sequential parallel"`
	StepKey         string   `gorm:"not null" validate:"required"`
	Title           string   `gorm:"not null" validate:"required"`
	Description     string
	SortOrder       int  `gorm:"not null"`
	DueOffsetDays   *int `validate:"omitempty,min=-366,max=366"`
	PriorityBase    int  `gorm:"not null" validate:"min=0,max=100"`
	ArchiveAfterDue bool `gorm:"not null"`
	Active          bool `gorm:"not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// GenerationKey is one reserved key in the generation key registry.
type GenerationKey struct {
	Key       string `gorm:"primaryKey"`
	CreatedAt time.Time
}

// Ticket is an open support request feeding the ticket origin.
type Ticket struct {
	ID        string `gorm:"primaryKey"`
	Title     string `gorm:"not null"`
	Status    string `gorm:"not null"`
	CreatedAt time.Time
}

// IsOpen reports whether the ticket still needs work.
func (t *Ticket) IsOpen() bool {
	switch t.Status {
	case "closed", "resolved", "done", "cancelled":
		return false
	default:
		return true
	}
}

// LiturgicalDay is a calendar row; its date keys the Sunday occurrences.
type LiturgicalDay struct {
	Date  string `gorm:"primaryKey"`
	Feast string
	Color string
}
