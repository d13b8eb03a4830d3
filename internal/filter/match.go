package filter

import (
	"strings"

	"unical/internal/model"
)

// fieldSeparator joins the searchable fields into one haystack. It is a
// fixed non-alphanumeric token, so accidental matches against it are
// harmless and tolerated rather than special-cased.
const fieldSeparator = " | "

// Matches reports whether the event satisfies the query under the
// all-day gate. Pure and deterministic.
//
// Rules:
//   - onlyAllDay gates first: a non-all-day event never matches when the
//     flag is set, regardless of query.
//   - A blank (after trimming) query matches every event that passes the
//     gate.
//   - Otherwise the lower-cased query must be a substring of the
//     lower-cased concatenation of title, location, notes, dateinfo,
//     time and dow, in that order. Plain substring containment only.
func Matches(ev model.Event, query string, onlyAllDay bool) bool {
	if onlyAllDay && !ev.AllDay {
		return false
	}

	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}

	haystack := strings.ToLower(strings.Join([]string{
		ev.Title,
		ev.ExtendedProps.Location,
		ev.ExtendedProps.Notes,
		ev.ExtendedProps.DateInfo,
		ev.ExtendedProps.Time,
		ev.ExtendedProps.Dow,
	}, fieldSeparator))

	return strings.Contains(haystack, q)
}
