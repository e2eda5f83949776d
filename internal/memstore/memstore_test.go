package memstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parishtasks/internal/memstore"
	"parishtasks/internal/model"
)

func newInstance(t *testing.T, s *memstore.Store, key, originID string, state model.State) uuid.UUID {
	t.Helper()
	def := model.TaskDefinition{ID: uuid.New(), Title: key, PriorityBase: 50}
	inst := model.TaskInstance{ID: uuid.New(), GenerationKey: key, State: state, CreatedAt: time.Now()}
	origin := model.TaskOrigin{ID: uuid.New(), OriginType: model.OriginSunday, OriginID: originID, OriginEvent: originID}

	created, err := s.CreateInstance(context.Background(), &def, &inst, &origin)
	require.NoError(t, err)
	require.True(t, created)
	return inst.ID
}

func TestCreateInstanceDedupesOnKey(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	id := newInstance(t, s, "sunday:2026-01-04:prep:bulletin", "2026-01-04", model.StateOpen)

	def := model.TaskDefinition{ID: uuid.New(), Title: "again"}
	inst := model.TaskInstance{ID: uuid.New(), GenerationKey: "sunday:2026-01-04:prep:bulletin"}
	created, err := s.CreateInstance(ctx, &def, &inst, &model.TaskOrigin{ID: uuid.New()})
	require.NoError(t, err)
	assert.False(t, created)

	found, err := s.FindInstance(ctx, "sunday:2026-01-04:prep:bulletin")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, id, found.ID)
	assert.Equal(t, "sunday:2026-01-04:prep:bulletin", found.Definition.Title)
	require.NotNil(t, found.Origin)
	assert.Equal(t, "2026-01-04", found.Origin.OriginID)
}

func TestDeleteInstanceReleasesKey(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	id := newInstance(t, s, "sunday:2026-01-04:prep:bulletin", "2026-01-04", model.StateOpen)

	deleted, err := s.DeleteInstance(ctx, id)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = s.DeleteInstance(ctx, id)
	require.NoError(t, err)
	assert.False(t, deleted)

	newInstance(t, s, "sunday:2026-01-04:prep:bulletin", "2026-01-04", model.StateOpen)
}

func TestListInstancesFilters(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	a := newInstance(t, s, "sunday:2026-01-04:prep:a", "2026-01-04", model.StateOpen)
	newInstance(t, s, "sunday:2026-01-11:prep:a", "2026-01-11", model.StateOpen)

	n, err := s.ArchiveInstances(ctx, []uuid.UUID{a}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = s.ArchiveInstances(ctx, []uuid.UUID{a}, time.Now())
	require.NoError(t, err)
	assert.Zero(t, n, "already archived")

	visible, err := s.ListInstances(ctx, model.InstanceFilter{})
	require.NoError(t, err)
	assert.Len(t, visible, 1)

	all, err := s.ListInstances(ctx, model.InstanceFilter{IncludeArchived: true})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	id := "2026-01-04"
	scoped, err := s.ListInstances(ctx, model.InstanceFilter{IncludeArchived: true, OriginID: &id})
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, a, scoped[0].ID)
}

func TestReassignOriginSkipsDone(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	open := newInstance(t, s, "sunday:2026-01-04:prep:a", "2026-01-04", model.StateOpen)
	done := newInstance(t, s, "sunday:2026-01-04:prep:b", "2026-01-04", model.StateDone)

	moved, err := s.ReassignOrigin(ctx, model.OriginSunday, "2026-01-04", model.OriginManual, "finance")
	require.NoError(t, err)
	assert.Equal(t, 1, moved)

	got, err := s.GetInstance(ctx, open)
	require.NoError(t, err)
	assert.Equal(t, model.OriginManual, got.Origin.OriginType)
	assert.Equal(t, "finance", got.Origin.OriginID)

	got, err = s.GetInstance(ctx, done)
	require.NoError(t, err)
	assert.Equal(t, model.OriginSunday, got.Origin.OriginType)
}

func TestUpdateInstanceKeepsIdentity(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	id := newInstance(t, s, "sunday:2026-01-04:prep:a", "2026-01-04", model.StateOpen)

	err := s.UpdateInstance(ctx, &model.TaskInstance{ID: id, GenerationKey: "other", State: model.StateInProgress})
	require.NoError(t, err)

	got, err := s.GetInstance(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, model.StateInProgress, got.State)
	assert.Equal(t, "sunday:2026-01-04:prep:a", got.GenerationKey)

	err = s.UpdateInstance(ctx, &model.TaskInstance{ID: uuid.New()})
	assert.ErrorIs(t, err, memstore.ErrInstanceNotFound)
}

func TestDeleteOriginAndLegacyPlaceholders(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	newInstance(t, s, "sunday:2026-01-04:prep:a", "2026-01-04", model.StateOpen)
	newInstance(t, s, "sunday:2026-01-04:prep:b", "2026-01-04", model.StateOpen)

	def := model.TaskDefinition{ID: uuid.New(), Title: "old"}
	inst := model.TaskInstance{ID: uuid.New(), GenerationKey: "legacy:1"}
	origin := model.TaskOrigin{ID: uuid.New(), OriginType: model.OriginSunday, OriginID: "2026-01-11", OriginEvent: model.LegacyPlaceholderEvent}
	_, err := s.CreateInstance(ctx, &def, &inst, &origin)
	require.NoError(t, err)

	removed, err := s.DeleteLegacyPlaceholders(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	removed, err = s.DeleteOrigin(ctx, model.OriginSunday, "2026-01-04")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	left, err := s.ListInstances(ctx, model.InstanceFilter{IncludeArchived: true})
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestOpenTicketsAndLinks(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	s.PutTicket(model.Ticket{ID: "T-1", Title: "Leaky roof", Status: "open", CreatedAt: time.Now()})
	s.PutTicket(model.Ticket{ID: "T-2", Title: "Old", Status: "closed", CreatedAt: time.Now()})

	tickets, err := s.ListOpenTickets(ctx)
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	assert.Equal(t, "T-1", tickets[0].ID)

	link := model.NewEntityLink(model.EntityOrigin, "manual:abc", model.EntityOrigin, "manual:finance", model.LinkRoleAssigned, model.LinkMetadata{Label: "Finance"})
	require.NoError(t, s.SaveLink(ctx, &link))
	require.NoError(t, s.SaveLink(ctx, &link))

	links, err := s.ListLinks(ctx, model.EntityOrigin, model.LinkRoleAssigned)
	require.NoError(t, err)
	assert.Len(t, links, 1)
}
