// Package priority turns a base priority, an optional override and the
// due dates of an instance into a 0-100 effective score and a tier.
//
// Scoring is pure and total: malformed numbers fall back to defaults
// instead of failing.
package priority

import (
	"math"
	"time"

	"parishtasks/internal/dateutil"
)

// Tier is the coarse label of an effective score.
type Tier string

const (
	Critical Tier = "Critical"
	High     Tier = "High"
	Normal   Tier = "Normal"
	Low      Tier = "Low"
	Someday  Tier = "Someday"
)

const (
	// DefaultBase replaces a missing or non-finite base priority.
	DefaultBase = 50

	MinScore = 0
	MaxScore = 100
)

// Urgency bonuses by days until due.
const (
	overdueBonus  = 40
	todayBonus    = 25
	tomorrowBonus = 15
	soonBonus     = 8
	weekBonus     = 3
)

// NormalizeBase maps NaN and infinities to DefaultBase.
func NormalizeBase(base float64) float64 {
	if math.IsNaN(base) || math.IsInf(base, 0) {
		return DefaultBase
	}
	return base
}

// NormalizeOverride reports the override value and whether it is usable.
// A nil or non-finite override counts as absent.
func NormalizeOverride(override *float64) (float64, bool) {
	if override == nil || math.IsNaN(*override) || math.IsInf(*override, 0) {
		return 0, false
	}
	return *override, true
}

// NormalizeDue picks the due date used for urgency: due_at first, then the
// SLA target. Zero times count as absent.
func NormalizeDue(dueAt, slaTargetAt *time.Time) (time.Time, bool) {
	if dueAt != nil && !dueAt.IsZero() {
		return *dueAt, true
	}
	if slaTargetAt != nil && !slaTargetAt.IsZero() {
		return *slaTargetAt, true
	}
	return time.Time{}, false
}

// UrgencyAdjustment is the bonus for an instance due on due, seen at now.
// Days are whole 24h periods, rounded down.
func UrgencyAdjustment(due, now time.Time) int {
	days := dateutil.DaysUntil(now, due)
	switch {
	case days < 0:
		return overdueBonus
	case days == 0:
		return todayBonus
	case days == 1:
		return tomorrowBonus
	case days <= 3:
		return soonBonus
	case days <= 7:
		return weekBonus
	default:
		return 0
	}
}

// Clamp rounds v and bounds it to [MinScore, MaxScore].
func Clamp(v float64) int {
	r := math.Round(v)
	if r < MinScore {
		return MinScore
	}
	if r > MaxScore {
		return MaxScore
	}
	return int(r)
}

// TierFor maps a clamped score to its tier.
func TierFor(score int) Tier {
	switch {
	case score >= 80:
		return Critical
	case score >= 60:
		return High
	case score >= 40:
		return Normal
	case score >= 20:
		return Low
	default:
		return Someday
	}
}

// Score computes the effective priority. A usable override replaces the
// whole computation, due dates included.
func Score(base float64, override *float64, dueAt, slaTargetAt *time.Time, now time.Time) (int, Tier) {
	if v, ok := NormalizeOverride(override); ok {
		effective := Clamp(v)
		return effective, TierFor(effective)
	}

	adjusted := NormalizeBase(base)
	if due, ok := NormalizeDue(dueAt, slaTargetAt); ok {
		adjusted += float64(UrgencyAdjustment(due, now))
	}
	effective := Clamp(adjusted)
	return effective, TierFor(effective)
}
