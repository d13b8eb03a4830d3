package model

import "time"

// Display colors stamped onto every event after load. They carry no
// semantic meaning and are identical across the whole session.
const (
	EventBackgroundColor = "#2c7be5"
	EventBorderColor     = "#2c7be5"
	EventTextColor       = "#ffffff"
)

// ExtendedProps holds the free-text attributes attached to an event by the
// generation pipeline. All fields are search-relevant; absent fields are
// treated as empty strings.
type ExtendedProps struct {
	Dow      string `json:"dow,omitempty"`
	Time     string `json:"time,omitempty"`
	DateInfo string `json:"dateinfo,omitempty"`
	Location string `json:"location,omitempty"`
	Notes    string `json:"notes,omitempty"`
	Source   string `json:"source,omitempty"`
	TZ       string `json:"tz,omitempty"`
}

// Event is one calendar entry in the shape the renderer consumes.
//
// Start and End are kept as raw strings: the generator emits local
// ISO 8601 timestamps without a zone for timed events and bare dates for
// all-day events, and a malformed value must degrade to "no start" rather
// than fail the whole load. Parsing happens where an instant is actually
// needed (range summarization, ICS export).
type Event struct {
	Title  string `json:"title"`
	Start  string `json:"start,omitempty"`
	End    string `json:"end,omitempty"`
	AllDay bool   `json:"allDay"`
	URL    string `json:"url,omitempty"`

	ExtendedProps ExtendedProps `json:"extendedProps"`

	// Display-only, stamped uniformly at load time.
	BackgroundColor string `json:"backgroundColor,omitempty"`
	BorderColor     string `json:"borderColor,omitempty"`
	TextColor       string `json:"textColor,omitempty"`
}

// StampDisplayColors applies the fixed display colors to every event.
// This is load-time normalization; events are never mutated afterwards.
func StampDisplayColors(events []Event) {
	for i := range events {
		events[i].BackgroundColor = EventBackgroundColor
		events[i].BorderColor = EventBorderColor
		events[i].TextColor = EventTextColor
	}
}

// startLayouts are the accepted start formats, tried in order: offset
// RFC 3339, the generator's naive local date-time, and a bare date.
var startLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// StartTime parses the event's start leniently. ok is false for absent
// or unparseable values; such events simply have no instant.
func (e Event) StartTime() (time.Time, bool) {
	s := e.Start
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range startLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Meta is the session summary written next to the event data by the
// generation pipeline. Immutable once loaded.
type Meta struct {
	UpdatedAt          time.Time `json:"updated_at"`
	RowsParsed         int       `json:"rows_parsed"`
	EventsGenerated    int       `json:"events_generated"`
	Source             string    `json:"source,omitempty"`
	PhaseLookaheadDays int       `json:"phase_lookahead_days"`
}

// FilterState is the current user-chosen filter. The zero value is the
// default state (blank query, all events).
type FilterState struct {
	Query      string
	OnlyAllDay bool
}

// RangeInfo is the earliest/latest event start across the full loaded set.
type RangeInfo struct {
	Min time.Time
	Max time.Time
}
