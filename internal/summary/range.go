// Package summary derives the earliest/latest event start instants from
// a loaded event set and picks the date the calendar opens to.
package summary

import (
	"sort"
	"time"

	"unical/internal/model"
)

// Summarize computes the min/max start instants across the full event
// set. Events whose start is absent or unparseable are excluded from
// consideration entirely; ok is false when no event has a valid start.
// Computed once at load time from the unfiltered set.
func Summarize(events []model.Event) (rng model.RangeInfo, ok bool) {
	starts := make([]time.Time, 0, len(events))
	for _, ev := range events {
		if t, valid := ev.StartTime(); valid {
			starts = append(starts, t)
		}
	}
	if len(starts) == 0 {
		return model.RangeInfo{}, false
	}

	sort.Slice(starts, func(i, j int) bool { return starts[i].Before(starts[j]) })
	return model.RangeInfo{Min: starts[0], Max: starts[len(starts)-1]}, true
}

// Anchor picks the initial visible calendar date: now when there is no
// range, min when now falls strictly outside [min, max], otherwise now.
// The comparison is deliberately strict, so now equal to min or max
// counts as inside the range.
func Anchor(rng model.RangeInfo, ok bool, now time.Time) time.Time {
	if !ok {
		return now
	}
	if now.Before(rng.Min) || now.After(rng.Max) {
		return rng.Min
	}
	return now
}
