// Package archive decides which past-due instances should be hidden.
package archive

import (
	"time"

	"github.com/google/uuid"

	"parishtasks/internal/dateutil"
	"parishtasks/internal/model"
)

// Threshold returns the day after which inst may be archived: the later of
// its due date and keep-until override. ok is false when there is no due
// date to go by.
func Threshold(inst *model.TaskInstance) (time.Time, bool) {
	if inst.DueAt == nil || inst.DueAt.IsZero() {
		return time.Time{}, false
	}
	threshold := *inst.DueAt
	if inst.KeepUntil != nil && inst.KeepUntil.After(threshold) {
		threshold = *inst.KeepUntil
	}
	return threshold, true
}

// Eligible reports whether inst should be archived as of now.
func Eligible(inst *model.TaskInstance, now time.Time) bool {
	if inst.ArchivedAt != nil || !inst.ArchivesAfterDue() {
		return false
	}
	threshold, ok := Threshold(inst)
	if !ok {
		return false
	}
	return dateutil.DayKey(threshold.In(now.Location())) <= dateutil.DayKey(now)
}

// Sweep returns the ids of instances to mark archived.
func Sweep(instances []model.TaskInstance, now time.Time) []uuid.UUID {
	var ids []uuid.UUID
	for i := range instances {
		if Eligible(&instances[i], now) {
			ids = append(ids, instances[i].ID)
		}
	}
	return ids
}
