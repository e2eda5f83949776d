// Package dateutil holds the calendar arithmetic shared by the seeder, the
// scorer and the archival sweeper. Every function is pure; "today" always
// comes from a Clock passed in by the caller.
package dateutil

import (
	"math"
	"strings"
	"time"
)

// DayKeyLayout is the layout of day keys and date-shaped origin ids.
const DayKeyLayout = "2006-01-02"

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// ZonedClock reads the wall clock in Loc. A nil Loc means local time.
type ZonedClock struct {
	Loc *time.Location
}

func (c ZonedClock) Now() time.Time {
	if c.Loc == nil {
		return time.Now()
	}
	return time.Now().In(c.Loc)
}

// FixedClock always returns the same instant.
type FixedClock time.Time

func (c FixedClock) Now() time.Time { return time.Time(c) }

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DayKey normalizes t to its YYYY-MM-DD key.
func DayKey(t time.Time) string {
	return t.Format(DayKeyLayout)
}

// ParseDay accepts a day key or an RFC 3339 timestamp. Anything else is
// reported as unparsable instead of failing, callers treat it as "no date".
func ParseDay(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(DayKeyLayout, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// IsDayKey reports whether s is a well-formed day key.
func IsDayKey(s string) bool {
	_, err := time.Parse(DayKeyLayout, s)
	return err == nil
}

// AddDays moves t by n calendar days, keeping the wall-clock time.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// DaysUntil is floor((b - a) / 24h): a due time ten hours in the past is
// -1, fifteen hours ahead is 0.
func DaysUntil(a, b time.Time) int {
	return int(math.Floor(float64(b.Sub(a)) / float64(24*time.Hour)))
}

// MondayOfWeek returns midnight of the Monday starting t's week.
func MondayOfWeek(t time.Time) time.Time {
	back := (int(t.Weekday()) + 6) % 7
	return StartOfDay(AddDays(t, -back))
}

// EndOfWeek returns the Sunday closing t's Monday-based week.
func EndOfWeek(t time.Time) time.Time {
	return AddDays(MondayOfWeek(t), 6)
}

// LastDayOfMonth returns midnight of the last calendar day of the month.
func LastDayOfMonth(year int, month time.Month, loc *time.Location) time.Time {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc)
}

// FirstSunday returns the first Sunday of the month.
func FirstSunday(year int, month time.Month, loc *time.Location) time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	day := 1 + (7-int(first.Weekday()))%7
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}

// ThirdSunday returns the third Sunday of the month.
func ThirdSunday(year int, month time.Month, loc *time.Location) time.Time {
	return AddDays(FirstSunday(year, month, loc), 14)
}

// NextSunday returns t's day if it is a Sunday, otherwise the following one.
func NextSunday(t time.Time) time.Time {
	ahead := (7 - int(t.Weekday())) % 7
	return StartOfDay(AddDays(t, ahead))
}

// UpcomingSundays lists every Sunday in [from, from+horizonDays].
func UpcomingSundays(from time.Time, horizonDays int) []time.Time {
	if horizonDays < 0 {
		return nil
	}
	limit := AddDays(StartOfDay(from), horizonDays)
	var out []time.Time
	for d := NextSunday(from); !d.After(limit); d = AddDays(d, 7) {
		out = append(out, d)
	}
	return out
}

// Half-month buckets.
const (
	FirstHalf  = "a"
	SecondHalf = "b"
)

// HalfMonth is a timesheet period: days 1-15 or 16-end of month.
type HalfMonth struct {
	Year  int
	Month time.Month
	Half  string
	Due   time.Time
}

// HalfMonthOf buckets t: day <= 15 is half "a" due the 15th, otherwise half
// "b" due the last calendar day.
func HalfMonthOf(t time.Time) HalfMonth {
	y, m, d := t.Date()
	if d <= 15 {
		return HalfMonth{Year: y, Month: m, Half: FirstHalf, Due: time.Date(y, m, 15, 0, 0, 0, 0, t.Location())}
	}
	return HalfMonth{Year: y, Month: m, Half: SecondHalf, Due: LastDayOfMonth(y, m, t.Location())}
}
