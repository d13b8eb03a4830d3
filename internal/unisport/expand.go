package unisport

import (
	"fmt"
	"sort"
	"time"

	"github.com/teambition/rrule-go"

	appLog "unical/internal/log"
	"unical/internal/model"
)

// rruleWeekdays maps Monday-based indices to rrule weekday constants.
var rruleWeekdays = []rrule.Weekday{
	rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA, rrule.SU,
}

// ExpandOptions controls how rows are expanded into events.
type ExpandOptions struct {
	// Location is the timezone the programme is published in.
	Location *time.Location

	// Now anchors phase projection; normally time.Now in Location.
	Now time.Time

	// PhaseLookaheadDays is how far phase rows project into the future.
	PhaseLookaheadDays int

	// SourceURL is recorded in every event's extended properties.
	SourceURL string
}

// ExpandRows turns parsed rows into concrete calendar events:
//
//   - single-date rows yield one event on that date
//   - range rows yield one event per week on the row's weekday between
//     the range bounds
//   - phase rows (and unparseable dateinfo) project weekly from Now
//     through Now+PhaseLookaheadDays
//
// Rows with an unknown weekday are skipped. Timed rows without a
// parseable time range yield no events; all-day rows always do. The
// result is sorted by (start, title) so regeneration is stable.
func ExpandRows(rows []Row, opts ExpandOptions) []model.Event {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now().In(opts.Location)
	}
	if opts.PhaseLookaheadDays <= 0 {
		opts.PhaseLookaheadDays = 28
	}

	events := make([]model.Event, 0, len(rows))
	for _, row := range rows {
		evs, err := expandRow(row, opts)
		if err != nil {
			appLog.Debug("unisport: row skipped", "title", row.Title, "reason", err)
			continue
		}
		events = append(events, evs...)
	}

	sort.SliceStable(events, func(i, j int) bool {
		if events[i].Start != events[j].Start {
			return events[i].Start < events[j].Start
		}
		return events[i].Title < events[j].Title
	})
	return events
}

func expandRow(row Row, opts ExpandOptions) ([]model.Event, error) {
	wd, ok := dowIndex[row.Dow]
	if !ok {
		return nil, fmt.Errorf("unknown weekday %q", row.Dow)
	}

	start, end, allDay := parseTimeRange(row.TimeStr)
	if !allDay && (start == nil || end == nil) {
		return nil, fmt.Errorf("unparseable time %q", row.TimeStr)
	}

	days, err := rowDays(row, wd, opts)
	if err != nil {
		return nil, err
	}

	out := make([]model.Event, 0, len(days))
	for _, day := range days {
		out = append(out, buildEvent(row, day, start, end, allDay, opts))
	}
	return out, nil
}

// rowDays resolves the concrete dates a row occurs on.
func rowDays(row Row, weekday int, opts ExpandOptions) ([]time.Time, error) {
	kind, from, to := parseDateInfo(row.DateInfo, opts.Location)

	switch kind {
	case dateSingle:
		return []time.Time{from}, nil

	case dateRange:
		return weeklyDays(from, to, weekday, opts.Location)

	default: // datePhase
		today := midnight(opts.Now)
		horizon := today.AddDate(0, 0, opts.PhaseLookaheadDays)
		return weeklyDays(today, horizon, weekday, opts.Location)
	}
}

// weeklyDays lists every occurrence of the given weekday in [from, to].
func weeklyDays(from, to time.Time, weekday int, loc *time.Location) ([]time.Time, error) {
	r, err := rrule.NewRRule(rrule.ROption{
		Freq:      rrule.WEEKLY,
		Dtstart:   midnight(from.In(loc)),
		Until:     midnight(to.In(loc)),
		Byweekday: []rrule.Weekday{rruleWeekdays[weekday]},
	})
	if err != nil {
		return nil, err
	}
	return r.All(), nil
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func buildEvent(row Row, day time.Time, start, end *clockTime, allDay bool, opts ExpandOptions) model.Event {
	ev := model.Event{
		Title:  row.Title,
		URL:    row.Href,
		AllDay: allDay,
		ExtendedProps: model.ExtendedProps{
			Dow:      row.Dow,
			Time:     row.TimeStr,
			DateInfo: row.DateInfo,
			Location: row.Location,
			Notes:    row.Rest,
			Source:   opts.SourceURL,
			TZ:       opts.Location.String(),
		},
	}

	if allDay {
		ev.Start = day.Format("2006-01-02")
		return ev
	}

	// Local timestamps without a zone designator; the display timezone
	// travels in extendedProps.tz.
	ev.Start = at(day, *start).Format("2006-01-02T15:04:05")
	ev.End = at(day, *end).Format("2006-01-02T15:04:05")
	return ev
}

func at(day time.Time, c clockTime) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), c.hour, c.min, 0, 0, day.Location())
}
