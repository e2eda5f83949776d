package model

import "time"

// InstanceView is an instance joined with its definition and origin and
// annotated with its computed priority.
type InstanceView struct {
	TaskInstance

	Title        string
	Description  string
	PriorityBase int
	TaskType     *string

	OriginType  OriginType
	OriginID    string
	OriginEvent string

	PriorityEffective int
	PriorityTier      string
}

// OriginKey returns the key of the view's origin.
func (v *InstanceView) OriginKey() string {
	return OriginKey(v.OriginType, v.OriginID)
}

// NewInstanceView flattens an instance loaded with its definition and origin.
func NewInstanceView(inst TaskInstance) InstanceView {
	v := InstanceView{
		TaskInstance: inst,
		Title:        inst.Definition.Title,
		Description:  inst.Definition.Description,
		PriorityBase: inst.Definition.PriorityBase,
		TaskType:     inst.Definition.TaskType,
	}
	if inst.Origin != nil {
		v.OriginType = inst.Origin.OriginType
		v.OriginID = inst.Origin.OriginID
		v.OriginEvent = inst.Origin.OriginEvent
	}
	return v
}

// OriginSummary is one rollup row: the next actionable instance of an origin.
type OriginSummary struct {
	Key        string
	OriginType OriginType
	OriginID   string
	Label      string
	Next       InstanceView
	OpenCount  int
	ListCount  int
}

// InstanceFilter narrows instance listings.
type InstanceFilter struct {
	IncludeArchived bool
	OriginType      *OriginType
	OriginID        *string
}

// InstancePatch carries a partial update. Nil fields are left unchanged;
// the Clear* flags null out optional columns.
type InstancePatch struct {
	State            *State
	Completed        *bool
	PriorityOverride *float64
	ClearOverride    bool
	DueAt            *time.Time
	ClearDueAt       bool
	SLATargetAt      *time.Time
	Rank             *int
	ClearRank        bool
	Blocked          *bool
	ArchiveAfterDue  *bool
	KeepUntil        *time.Time
	ClearKeepUntil   bool
	Archived         *bool
}
