package rollup

import (
	"math"
	"sort"
	"time"

	"parishtasks/internal/model"
)

var stateOrder = map[model.State]int{
	model.StateOpen:       0,
	model.StateInProgress: 1,
	model.StateBlocked:    2,
	model.StateDone:       3,
}

func stateRank(s model.State) int {
	if r, ok := stateOrder[s]; ok {
		return r
	}
	return len(stateOrder)
}

func intOrMax(v *int) int {
	if v == nil {
		return math.MaxInt
	}
	return *v
}

// compareTime orders nil after every real time.
func compareTime(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	case a.Before(*b):
		return -1
	case a.After(*b):
		return 1
	default:
		return 0
	}
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Less is the global ordering: display state, explicit rank, effective
// priority (descending), due date, then creation time.
func Less(a, b *model.InstanceView) bool {
	if c := compareInt(stateRank(a.DisplayState()), stateRank(b.DisplayState())); c != 0 {
		return c < 0
	}
	if c := compareInt(intOrMax(a.Rank), intOrMax(b.Rank)); c != 0 {
		return c < 0
	}
	if c := compareInt(b.PriorityEffective, a.PriorityEffective); c != 0 {
		return c < 0
	}
	if c := compareTime(a.DueAt, b.DueAt); c != 0 {
		return c < 0
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID.String() < b.ID.String()
}

// SortGlobal sorts views in place by the global ordering.
func SortGlobal(views []model.InstanceView) {
	sort.SliceStable(views, func(i, j int) bool { return Less(&views[i], &views[j]) })
}

// lessSequence orders the steps of a sequential list: rank, step order,
// due date, then effective priority descending.
func lessSequence(a, b *model.InstanceView) bool {
	if c := compareInt(intOrMax(a.Rank), intOrMax(b.Rank)); c != 0 {
		return c < 0
	}
	if c := compareInt(intOrMax(a.SortOrder), intOrMax(b.SortOrder)); c != 0 {
		return c < 0
	}
	if c := compareTime(a.DueAt, b.DueAt); c != 0 {
		return c < 0
	}
	if a.PriorityEffective != b.PriorityEffective {
		return a.PriorityEffective > b.PriorityEffective
	}
	return Less(a, b)
}
