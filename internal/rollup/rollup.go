// Package rollup reduces open task instances to one "next actionable"
// instance per origin and ranks the origins.
package rollup

import (
	"sort"
	"time"

	"parishtasks/internal/dateutil"
	"parishtasks/internal/model"
	"parishtasks/internal/priority"
)

type options struct {
	collapseSundays bool
}

// Option tunes Select.
type Option func(*options)

// WithSundayCollapse keeps only the nearest Sunday origin when enabled.
func WithSundayCollapse(enabled bool) Option {
	return func(o *options) { o.collapseSundays = enabled }
}

type originGroup struct {
	originType model.OriginType
	originID   string
	lists      map[string][]model.InstanceView
	listOrder  []string
	open       int
}

// Select groups views by origin and list, picks each origin's next
// instance and returns the origins in global order. Done instances are
// ignored; origins with nothing open produce no entry.
func Select(views []model.InstanceView, now time.Time, opts ...Option) []model.OriginSummary {
	o := options{collapseSundays: true}
	for _, opt := range opts {
		opt(&o)
	}

	groups := make(map[string]*originGroup)
	var order []string
	for _, v := range views {
		if v.DisplayState() == model.StateDone {
			continue
		}
		key := v.OriginKey()
		g, ok := groups[key]
		if !ok {
			g = &originGroup{originType: v.OriginType, originID: v.OriginID, lists: make(map[string][]model.InstanceView)}
			groups[key] = g
			order = append(order, key)
		}
		listKey := v.EffectiveListKey()
		if _, ok := g.lists[listKey]; !ok {
			g.listOrder = append(g.listOrder, listKey)
		}
		g.lists[listKey] = append(g.lists[listKey], v)
		g.open++
	}

	summaries := make([]model.OriginSummary, 0, len(order))
	for _, key := range order {
		g := groups[key]
		reps := make([]model.InstanceView, 0, len(g.listOrder))
		for _, listKey := range g.listOrder {
			if next, ok := NextInList(g.lists[listKey]); ok {
				reps = append(reps, next)
			}
		}
		if len(reps) == 0 {
			continue
		}
		SortGlobal(reps)
		summaries = append(summaries, model.OriginSummary{
			Key:        key,
			OriginType: g.originType,
			OriginID:   g.originID,
			Next:       reps[0],
			OpenCount:  g.open,
			ListCount:  len(g.listOrder),
		})
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return Less(&summaries[i].Next, &summaries[j].Next)
	})

	if o.collapseSundays {
		summaries = CollapseSundays(summaries, now)
	}
	return summaries
}

// HasSequence reports whether a list is worked in order: either it is
// declared sequential or some member carries a rank or step order.
func HasSequence(list []model.InstanceView) bool {
	for i := range list {
		if list[i].ListMode == model.ListSequential || list[i].Rank != nil || list[i].SortOrder != nil {
			return true
		}
	}
	return false
}

// NextInList picks the representative of one list. For a sequence it is
// the first step, shown with the highest priority found anywhere in the
// list so an urgent later step still surfaces.
func NextInList(list []model.InstanceView) (model.InstanceView, bool) {
	open := make([]model.InstanceView, 0, len(list))
	for _, v := range list {
		if v.DisplayState() != model.StateDone {
			open = append(open, v)
		}
	}
	if len(open) == 0 {
		return model.InstanceView{}, false
	}

	if !HasSequence(open) {
		SortGlobal(open)
		return open[0], true
	}

	sort.SliceStable(open, func(i, j int) bool { return lessSequence(&open[i], &open[j]) })
	maxScore := open[0].PriorityEffective
	for _, v := range open[1:] {
		if v.PriorityEffective > maxScore {
			maxScore = v.PriorityEffective
		}
	}
	next := open[0]
	next.PriorityEffective = maxScore
	next.PriorityTier = string(priority.TierFor(maxScore))
	return next, true
}

// CollapseSundays drops every Sunday origin except the nearest upcoming
// one, or the earliest when none is upcoming. Order is preserved.
func CollapseSundays(summaries []model.OriginSummary, now time.Time) []model.OriginSummary {
	today := dateutil.DayKey(now)
	keep := ""
	earliest := ""
	for _, s := range summaries {
		if s.OriginType != model.OriginSunday {
			continue
		}
		if earliest == "" || s.OriginID < earliest {
			earliest = s.OriginID
		}
		if s.OriginID >= today && (keep == "" || s.OriginID < keep) {
			keep = s.OriginID
		}
	}
	if keep == "" {
		keep = earliest
	}

	out := summaries[:0:0]
	for _, s := range summaries {
		if s.OriginType == model.OriginSunday && s.OriginID != keep {
			continue
		}
		out = append(out, s)
	}
	return out
}
