// Package unisport regenerates the event data files from the university
// sports programme listing: it extracts the raw offer lines, parses
// their fixed comma grammar, and expands date ranges and phase entries
// into concrete calendar events.
package unisport

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Row is one parsed offer line from the listing.
type Row struct {
	Title    string
	Href     string
	Dow      string
	TimeStr  string
	DateInfo string
	Location string
	Rest     string
}

// Line grammar: "Title, Dow, Time, Dateinfo, Location[, rest]".
var lineRe = regexp.MustCompile(
	`^(?P<title>.+?),\s*(?P<dow>Mo|Di|Mi|Do|Fr|Sa|So),\s*(?P<time>.+?),\s*(?P<dateinfo>.+?),\s*(?P<location>.+?)(?:,\s*(?P<rest>.*))?$`,
)

var (
	timeRangeRe  = regexp.MustCompile(`(?i)^\s*(\d{1,2}:\d{2})\s*-\s*(\d{1,2}:\d{2})\s*Uhr\s*$`)
	allDayRe     = regexp.MustCompile(`(?i)^\s*ganzer\s+Tag\s*$`)
	dateSingleRe = regexp.MustCompile(`^\s*(\d{2}\.\d{2}\.\d{4})\s*$`)
	dateRangeRe  = regexp.MustCompile(`^\s*(\d{2}\.\d{2})\.\s*-\s*(\d{2}\.\d{2}\.\d{4})\s*$`)
	phaseRe      = regexp.MustCompile(`(?i)^\s*Phase\b`)
	spaceRe      = regexp.MustCompile(`\s+`)
)

// dowIndex maps the German weekday abbreviations to Monday-based indices.
var dowIndex = map[string]int{
	"Mo": 0,
	"Di": 1,
	"Mi": 2,
	"Do": 3,
	"Fr": 4,
	"Sa": 5,
	"So": 6,
}

func normalizeSpace(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}

// ParseLine parses a single listing line into a Row. Lines with fewer
// than three commas are category headings, not offers, and yield ok=false.
func ParseLine(line, href string) (Row, bool) {
	line = normalizeSpace(line)
	if strings.Count(line, ",") < 3 {
		return Row{}, false
	}

	m := lineRe.FindStringSubmatch(line)
	if m == nil {
		return Row{}, false
	}

	row := Row{Href: href}
	for i, name := range lineRe.SubexpNames() {
		val := strings.TrimSpace(m[i])
		switch name {
		case "title":
			row.Title = val
		case "dow":
			row.Dow = val
		case "time":
			row.TimeStr = val
		case "dateinfo":
			row.DateInfo = val
		case "location":
			row.Location = val
		case "rest":
			row.Rest = val
		}
	}
	return row, true
}

// DedupeRows drops exact duplicate rows, preserving first-seen order.
func DedupeRows(rows []Row) []Row {
	seen := make(map[Row]struct{}, len(rows))
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}

// clockTime is a time of day without a date.
type clockTime struct {
	hour, min int
}

// parseTimeRange interprets the time column: "HH:MM - HH:MM Uhr" yields
// start/end times, "ganzer Tag" yields allDay, anything else yields
// neither (the row produces no events unless all-day).
func parseTimeRange(s string) (start, end *clockTime, allDay bool) {
	t := normalizeSpace(s)
	if allDayRe.MatchString(t) {
		return nil, nil, true
	}
	m := timeRangeRe.FindStringSubmatch(t)
	if m == nil {
		return nil, nil, false
	}
	st, ok1 := parseClock(m[1])
	en, ok2 := parseClock(m[2])
	if !ok1 || !ok2 {
		return nil, nil, false
	}
	return &st, &en, false
}

func parseClock(s string) (clockTime, bool) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return clockTime{}, false
	}
	h, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || h < 0 || h > 23 || m < 0 || m > 59 {
		return clockTime{}, false
	}
	return clockTime{hour: h, min: m}, true
}

// dateKind classifies the dateinfo column.
type dateKind int

const (
	dateSingle dateKind = iota
	dateRange
	datePhase
)

// parseDateInfo interprets the dateinfo column: a single DD.MM.YYYY
// date, a "DD.MM. - DD.MM.YYYY" range (the start borrows the end's
// year), or a phase entry. Unknown formats are treated as phase-like so
// the row still projects into the near future.
func parseDateInfo(s string, loc *time.Location) (kind dateKind, from, to time.Time) {
	di := normalizeSpace(s)

	if m := dateSingleRe.FindStringSubmatch(di); m != nil {
		if d, err := time.ParseInLocation("02.01.2006", m[1], loc); err == nil {
			return dateSingle, d, time.Time{}
		}
	}

	if m := dateRangeRe.FindStringSubmatch(di); m != nil {
		end, err := time.ParseInLocation("02.01.2006", m[2], loc)
		if err == nil {
			// Start has no year; assume the end's year, which holds for
			// typical semester spans.
			start, serr := time.ParseInLocation("02.01.2006", m[1]+"."+strconv.Itoa(end.Year()), loc)
			if serr == nil {
				return dateRange, start, end
			}
		}
	}

	if phaseRe.MatchString(di) {
		return datePhase, time.Time{}, time.Time{}
	}

	return datePhase, time.Time{}, time.Time{}
}
