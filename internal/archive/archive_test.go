package archive_test

import (
	"testing"
	"time"

	"parishtasks/internal/archive"
	"parishtasks/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

var now = time.Date(2026, time.January, 10, 14, 0, 0, 0, time.UTC)

func instance(mutate func(*model.TaskInstance)) model.TaskInstance {
	yesterday := now.AddDate(0, 0, -1)
	inst := model.TaskInstance{
		ID:              uuid.New(),
		State:           model.StateOpen,
		DueAt:           &yesterday,
	}
	if mutate != nil {
		mutate(&inst)
	}
	return inst
}

func TestEligible(t *testing.T) {
	tomorrow := now.AddDate(0, 0, 1)
	laterToday := time.Date(2026, time.January, 10, 23, 0, 0, 0, time.UTC)
	archivedAt := now.AddDate(0, 0, -2)

	tests := []struct {
		name string
		inst model.TaskInstance
		want bool
	}{
		{"past due", instance(nil), true},
		{"kept until tomorrow", instance(func(i *model.TaskInstance) { i.KeepUntil = &tomorrow }), false},
		{"keep until earlier than due", instance(func(i *model.TaskInstance) { i.DueAt = &tomorrow; i.KeepUntil = &archivedAt }), false},
		{"due later today", instance(func(i *model.TaskInstance) { i.DueAt = &laterToday }), true},
		{"not opted in", instance(func(i *model.TaskInstance) { opt := false; i.ArchiveAfterDue = &opt }), false},
		{"opted in explicitly", instance(func(i *model.TaskInstance) { opt := true; i.ArchiveAfterDue = &opt }), true},
		{"already archived", instance(func(i *model.TaskInstance) { i.ArchivedAt = &archivedAt }), false},
		{"no due date", instance(func(i *model.TaskInstance) { i.DueAt = nil }), false},
		{"done but past due", instance(func(i *model.TaskInstance) { i.State = model.StateDone }), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, archive.Eligible(&tt.inst, now))
		})
	}
}

func TestSweep(t *testing.T) {
	tomorrow := now.AddDate(0, 0, 1)
	due := instance(nil)
	kept := instance(func(i *model.TaskInstance) { i.KeepUntil = &tomorrow })

	ids := archive.Sweep([]model.TaskInstance{due, kept}, now)

	assert.Equal(t, []uuid.UUID{due.ID}, ids)
	assert.Empty(t, archive.Sweep(nil, now))
}
