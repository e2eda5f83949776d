package priority_test

import (
	"math"
	"testing"
	"time"

	"parishtasks/internal/priority"

	"github.com/stretchr/testify/assert"
)

var now = time.Date(2026, time.January, 2, 9, 30, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func TestUrgencyAdjustment(t *testing.T) {
	tests := []struct {
		name string
		due  time.Time
		want int
	}{
		{"overdue", now.AddDate(0, 0, -1), 40},
		{"two hours ago", now.Add(-2 * time.Hour), 40},
		{"ten hours ago", now.Add(-10 * time.Hour), 40},
		{"later today", now.Add(10 * time.Hour), 25},
		{"in fifteen hours", now.Add(15 * time.Hour), 25},
		{"in twenty-three hours", now.Add(23 * time.Hour), 25},
		{"in thirty hours", now.Add(30 * time.Hour), 15},
		{"tomorrow", now.AddDate(0, 0, 1), 15},
		{"in three days", now.AddDate(0, 0, 3), 8},
		{"in a week", now.AddDate(0, 0, 7), 3},
		{"in eight days", now.AddDate(0, 0, 8), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, priority.UrgencyAdjustment(tt.due, now))
		})
	}
}

func TestScore(t *testing.T) {
	farAway := now.AddDate(0, 3, 0)
	laterToday := now.Add(6 * time.Hour)
	midnight := time.Date(2026, time.January, 2, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		base     float64
		override *float64
		due      *time.Time
		sla      *time.Time
		want     int
		tier     priority.Tier
	}{
		{"override bypasses urgency", 50, ptr(90.0), &farAway, nil, 90, priority.Critical},
		{"override is clamped", 50, ptr(130.4), nil, nil, 100, priority.Critical},
		{"override is rounded", 50, ptr(59.6), nil, nil, 60, priority.High},
		{"NaN override is ignored", 45, ptr(math.NaN()), nil, nil, 45, priority.Normal},
		{"base above range clamps", 120, nil, nil, nil, 100, priority.Critical},
		{"base below range clamps", -10, nil, nil, nil, 0, priority.Someday},
		{"NaN base defaults to 50", math.NaN(), nil, nil, nil, 50, priority.Normal},
		{"infinite base defaults to 50", math.Inf(1), nil, nil, nil, 50, priority.Normal},
		{"due later today adds 25", 70, nil, &laterToday, nil, 95, priority.Critical},
		{"midnight already passed is overdue", 30, nil, &midnight, nil, 70, priority.High},
		{"SLA target used without due date", 30, nil, nil, ptr(now.AddDate(0, 0, -3)), 70, priority.High},
		{"due date beats SLA target", 30, nil, &farAway, ptr(now.AddDate(0, 0, -3)), 30, priority.Low},
		{"zero due date is absent", 10, nil, &time.Time{}, nil, 10, priority.Someday},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, tier := priority.Score(tt.base, tt.override, tt.due, tt.sla, now)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.tier, tier)
		})
	}
}

func TestUrgencyAdjustmentSubDayOffsets(t *testing.T) {
	evening := time.Date(2026, time.January, 2, 18, 0, 0, 0, time.UTC)
	nextMorning := time.Date(2026, time.January, 3, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, 25, priority.UrgencyAdjustment(nextMorning, evening), "15h ahead is day 0")

	morning := time.Date(2026, time.January, 2, 10, 0, 0, 0, time.UTC)
	midnight := time.Date(2026, time.January, 2, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 40, priority.UrgencyAdjustment(midnight, morning), "10h ago is day -1")

	assert.Equal(t, 25, priority.UrgencyAdjustment(midnight, midnight))
}

func TestTierFor(t *testing.T) {
	assert.Equal(t, priority.Critical, priority.TierFor(80))
	assert.Equal(t, priority.High, priority.TierFor(79))
	assert.Equal(t, priority.High, priority.TierFor(60))
	assert.Equal(t, priority.Normal, priority.TierFor(40))
	assert.Equal(t, priority.Low, priority.TierFor(20))
	assert.Equal(t, priority.Someday, priority.TierFor(19))
	assert.Equal(t, priority.Someday, priority.TierFor(0))
}
