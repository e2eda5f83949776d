package rollup_test

import (
	"testing"
	"time"

	"parishtasks/internal/model"
	"parishtasks/internal/rollup"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, time.January, 2, 9, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

type viewOpt func(*model.InstanceView)

func view(originType model.OriginType, originID, title string, score int, opts ...viewOpt) model.InstanceView {
	v := model.InstanceView{
		TaskInstance: model.TaskInstance{
			ID:        uuid.New(),
			State:     model.StateOpen,
			ListMode:  model.ListParallel,
			CreatedAt: now,
		},
		Title:             title,
		OriginType:        originType,
		OriginID:          originID,
		PriorityEffective: score,
	}
	for _, opt := range opts {
		opt(&v)
	}
	return v
}

func inList(key string, mode model.ListMode) viewOpt {
	return func(v *model.InstanceView) { v.ListKey = key; v.ListMode = mode }
}

func step(order int) viewOpt {
	return func(v *model.InstanceView) { v.SortOrder = ptr(order) }
}

func withState(s model.State) viewOpt {
	return func(v *model.InstanceView) { v.State = s }
}

func blocked() viewOpt {
	return func(v *model.InstanceView) { v.Blocked = true }
}

func TestSequentialListSurfacesMaxPriority(t *testing.T) {
	views := []model.InstanceView{
		view(model.OriginVestry, "2026-01-18", "B", 95, inList("packet", model.ListSequential), step(2), blocked()),
		view(model.OriginVestry, "2026-01-18", "A", 30, inList("packet", model.ListSequential), step(1)),
	}

	got := rollup.Select(views, now)

	require.Len(t, got, 1)
	assert.Equal(t, "A", got[0].Next.Title)
	assert.Equal(t, 95, got[0].Next.PriorityEffective)
	assert.Equal(t, "Critical", got[0].Next.PriorityTier)
	assert.Equal(t, 2, got[0].OpenCount)
	assert.Equal(t, 1, got[0].ListCount)
}

func TestStepOrderImpliesSequence(t *testing.T) {
	views := []model.InstanceView{
		view(model.OriginOperations, "weekly-2025-12-29", "second", 80, step(2)),
		view(model.OriginOperations, "weekly-2025-12-29", "first", 40, step(1)),
	}

	got := rollup.Select(views, now)

	require.Len(t, got, 1)
	assert.Equal(t, "first", got[0].Next.Title)
	assert.Equal(t, 80, got[0].Next.PriorityEffective)
}

func TestParallelListPicksHighestPriority(t *testing.T) {
	views := []model.InstanceView{
		view(model.OriginTicket, "T-1", "low", 20),
		view(model.OriginTicket, "T-1", "high", 70),
		view(model.OriginTicket, "T-1", "mid", 50),
	}

	got := rollup.Select(views, now)

	require.Len(t, got, 1)
	assert.Equal(t, "high", got[0].Next.Title)
	assert.Equal(t, 70, got[0].Next.PriorityEffective)
}

func TestBestListWinsWithinOrigin(t *testing.T) {
	views := []model.InstanceView{
		view(model.OriginSunday, "2026-01-04", "music", 40, inList("music", model.ListParallel)),
		view(model.OriginSunday, "2026-01-04", "bulletin", 90, inList("bulletin", model.ListParallel)),
	}

	got := rollup.Select(views, now)

	require.Len(t, got, 1)
	assert.Equal(t, "bulletin", got[0].Next.Title)
	assert.Equal(t, 2, got[0].ListCount)
}

func TestCompletedOriginsProduceNoEntry(t *testing.T) {
	views := []model.InstanceView{
		view(model.OriginTicket, "T-1", "done", 90, withState(model.StateDone)),
		view(model.OriginTicket, "T-2", "open", 10),
	}

	got := rollup.Select(views, now)

	require.Len(t, got, 1)
	assert.Equal(t, "T-2", got[0].OriginID)
}

func TestOriginsFollowGlobalOrdering(t *testing.T) {
	views := []model.InstanceView{
		view(model.OriginTicket, "blocked", "b", 99, blocked()),
		view(model.OriginTicket, "progress", "p", 10, withState(model.StateInProgress)),
		view(model.OriginTicket, "low", "l", 30),
		view(model.OriginTicket, "high", "h", 60),
		view(model.OriginTicket, "ranked", "r", 5, func(v *model.InstanceView) { v.Rank = ptr(1) }),
	}

	got := rollup.Select(views, now)

	var ids []string
	for _, s := range got {
		ids = append(ids, s.OriginID)
	}
	assert.Equal(t, []string{"ranked", "high", "low", "progress", "blocked"}, ids)
}

func TestGlobalOrderingTieBreaks(t *testing.T) {
	early := now.AddDate(0, 0, 1)
	late := now.AddDate(0, 0, 5)
	a := view(model.OriginManual, "a", "a", 50, func(v *model.InstanceView) { v.DueAt = &late })
	b := view(model.OriginManual, "b", "b", 50, func(v *model.InstanceView) { v.DueAt = &early })
	c := view(model.OriginManual, "c", "c", 50)
	d := view(model.OriginManual, "d", "d", 50, func(v *model.InstanceView) { v.CreatedAt = now.Add(-time.Hour) })

	views := []model.InstanceView{a, b, c, d}
	rollup.SortGlobal(views)

	assert.Equal(t, []string{"b", "a", "d", "c"}, []string{views[0].Title, views[1].Title, views[2].Title, views[3].Title})
}

func TestUnknownStateSortsLast(t *testing.T) {
	views := []model.InstanceView{
		view(model.OriginManual, "x", "weird", 90, withState("waiting")),
		view(model.OriginManual, "y", "open", 10),
	}
	rollup.SortGlobal(views)
	assert.Equal(t, "open", views[0].Title)
}

func TestSundayOriginsCollapseToNearest(t *testing.T) {
	views := []model.InstanceView{
		view(model.OriginSunday, "2026-01-18", "third", 90),
		view(model.OriginSunday, "2026-01-04", "first", 20),
		view(model.OriginSunday, "2026-01-11", "second", 50),
		view(model.OriginSunday, "2025-12-28", "past", 95),
		view(model.OriginTicket, "T-1", "ticket", 60),
	}

	got := rollup.Select(views, now)

	require.Len(t, got, 2)
	assert.Equal(t, "T-1", got[0].OriginID)
	assert.Equal(t, "2026-01-04", got[1].OriginID)
}

func TestSundayCollapseFallsBackToEarliest(t *testing.T) {
	views := []model.InstanceView{
		view(model.OriginSunday, "2025-12-28", "later", 10),
		view(model.OriginSunday, "2025-12-21", "earlier", 10),
	}

	got := rollup.Select(views, now)

	require.Len(t, got, 1)
	assert.Equal(t, "2025-12-21", got[0].OriginID)
}

func TestSundayCollapseCanBeDisabled(t *testing.T) {
	views := []model.InstanceView{
		view(model.OriginSunday, "2026-01-04", "a", 10),
		view(model.OriginSunday, "2026-01-11", "b", 10),
	}

	got := rollup.Select(views, now, rollup.WithSundayCollapse(false))

	assert.Len(t, got, 2)
}

func TestSelectEmpty(t *testing.T) {
	assert.Empty(t, rollup.Select(nil, now))
}
