package seeder

import (
	"context"
	"fmt"
	"sort"
	"time"

	"parishtasks/internal/dateutil"
	"parishtasks/internal/model"
)

// Scope families a template origin_id can name instead of one occurrence.
const (
	ScopeWeekly     = "weekly"
	ScopeTimesheets = "timesheets"
)

// Occurrence is one cycle of an origin that templates generate into.
type Occurrence struct {
	OriginType model.OriginType
	OriginID   string
	// Scope is the family name templates may be scoped to, e.g. "weekly".
	Scope      string
	Reference  time.Time
	DefaultDue *time.Time
	SLATarget  *time.Time
	// Title of the underlying object, substituted for {title} in templates.
	Title string
}

// VestryScope is the scope family of a vestry meeting month.
func VestryScope(month time.Month) string {
	return fmt.Sprintf("month-%02d", int(month))
}

// WeeklyOriginID keys the operations week starting on monday.
func WeeklyOriginID(monday time.Time) string {
	return ScopeWeekly + "-" + dateutil.DayKey(monday)
}

// TimesheetOriginID keys a half-month timesheet period.
func TimesheetOriginID(hm dateutil.HalfMonth) string {
	return fmt.Sprintf("%s-%d-%02d-%s", ScopeTimesheets, hm.Year, int(hm.Month), hm.Half)
}

// SundayOccurrences turns calendar dates into Sunday occurrences within
// [today, today+horizonDays]. Weekdays and unparsable dates are skipped.
func SundayOccurrences(dates []string, now time.Time, horizonDays int) []Occurrence {
	today := dateutil.StartOfDay(now)
	limit := dateutil.AddDays(today, horizonDays)
	seen := make(map[string]bool)
	var out []Occurrence
	for _, raw := range dates {
		d, ok := dateutil.ParseDay(raw)
		if !ok {
			continue
		}
		d = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, now.Location())
		if d.Weekday() != time.Sunday || d.Before(today) || d.After(limit) {
			continue
		}
		key := dateutil.DayKey(d)
		if seen[key] {
			continue
		}
		seen[key] = true
		due := d
		out = append(out, Occurrence{
			OriginType: model.OriginSunday,
			OriginID:   key,
			Reference:  d,
			DefaultDue: &due,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OriginID < out[j].OriginID })
	return out
}

// ComputedSundays lists the Sundays of the horizon when no calendar is
// available.
func ComputedSundays(now time.Time, horizonDays int) []string {
	var out []string
	for _, d := range dateutil.UpcomingSundays(now, horizonDays) {
		out = append(out, dateutil.DayKey(d))
	}
	return out
}

// VestryOccurrences returns the upcoming vestry meetings, held on the third
// Sunday of this month and the next monthsAhead months.
func VestryOccurrences(now time.Time, monthsAhead int) []Occurrence {
	today := dateutil.StartOfDay(now)
	var out []Occurrence
	for offset := 0; offset <= monthsAhead; offset++ {
		first := time.Date(today.Year(), today.Month()+time.Month(offset), 1, 0, 0, 0, 0, today.Location())
		meeting := dateutil.ThirdSunday(first.Year(), first.Month(), first.Location())
		if meeting.Before(today) {
			continue
		}
		due := meeting
		out = append(out, Occurrence{
			OriginType: model.OriginVestry,
			OriginID:   dateutil.DayKey(meeting),
			Scope:      VestryScope(meeting.Month()),
			Reference:  meeting,
			DefaultDue: &due,
		})
	}
	return out
}

// OperationsOccurrences returns the current week and timesheet period.
func OperationsOccurrences(now time.Time) []Occurrence {
	monday := dateutil.MondayOfWeek(now)
	endOfWeek := dateutil.EndOfWeek(now)
	hm := dateutil.HalfMonthOf(dateutil.StartOfDay(now))
	periodDue := hm.Due

	return []Occurrence{
		{
			OriginType: model.OriginOperations,
			OriginID:   WeeklyOriginID(monday),
			Scope:      ScopeWeekly,
			Reference:  monday,
			DefaultDue: &endOfWeek,
		},
		{
			OriginType: model.OriginOperations,
			OriginID:   TimesheetOriginID(hm),
			Scope:      ScopeTimesheets,
			Reference:  hm.Due,
			DefaultDue: &periodDue,
		},
	}
}

// TicketOccurrences maps open tickets to occurrences referenced on their
// creation day. A positive slaDays sets the SLA target.
func TicketOccurrences(tickets []model.Ticket, slaDays int) []Occurrence {
	var out []Occurrence
	for i := range tickets {
		t := &tickets[i]
		if !t.IsOpen() {
			continue
		}
		occ := Occurrence{
			OriginType: model.OriginTicket,
			OriginID:   t.ID,
			Reference:  dateutil.StartOfDay(t.CreatedAt),
			Title:      t.Title,
		}
		if slaDays > 0 {
			sla := t.CreatedAt.AddDate(0, 0, slaDays)
			occ.SLATarget = &sla
		}
		out = append(out, occ)
	}
	return out
}

func (s *Seeder) occurrences(ctx context.Context, originType model.OriginType, now time.Time) ([]Occurrence, error) {
	switch originType {
	case model.OriginSunday:
		dates, err := s.src.ListUpcomingOccurrences(ctx, model.OriginSunday)
		if err != nil {
			return nil, fmt.Errorf("list sunday occurrences: %w", err)
		}
		if len(dates) == 0 && s.settings.ComputeSundays {
			dates = ComputedSundays(now, s.settings.SundayHorizonDays)
		}
		return SundayOccurrences(dates, now, s.settings.SundayHorizonDays), nil
	case model.OriginVestry:
		return VestryOccurrences(now, s.settings.VestryMonthsAhead), nil
	case model.OriginOperations:
		return OperationsOccurrences(now), nil
	case model.OriginTicket:
		tickets, err := s.src.ListOpenTickets(ctx)
		if err != nil {
			return nil, fmt.Errorf("list open tickets: %w", err)
		}
		return TicketOccurrences(tickets, s.settings.TicketSLADays), nil
	case model.OriginManual:
		return nil, nil
	default:
		return nil, nil
	}
}
