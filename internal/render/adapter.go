// Package render translates filtered events and summary metadata into
// calls against the external calendar renderer, and turns the renderer's
// callbacks (click, mount) into domain actions.
package render

import (
	"fmt"
	"strings"
	"time"

	"unical/internal/model"
)

// InitOptions is the fixed initialization payload handed to the
// renderer on first render.
type InitOptions struct {
	InitialView     string    `json:"initialView"`
	InitialDate     time.Time `json:"initialDate"`
	NowIndicator    bool      `json:"nowIndicator"`
	FirstDay        int       `json:"firstDay"`
	HeaderLeft      string    `json:"headerLeft"`
	HeaderCenter    string    `json:"headerCenter"`
	HeaderRight     string    `json:"headerRight"`
	EventTimeFormat string    `json:"eventTimeFormat"`
	SlotLabelFormat string    `json:"slotLabelFormat"`
}

// FirstDayFor maps a configured week start to the renderer's day index.
// Monday is the default; anything unrecognized falls back to it.
func FirstDayFor(weekStart string) int {
	if weekStart == "sunday" {
		return 0
	}
	return 1
}

// NewInitOptions returns the standard week-grid options anchored at the
// given date. Everything but the anchor and the week start is fixed:
// now indicator on, 24-hour times, the usual header layout.
func NewInitOptions(anchor time.Time, firstDay int) InitOptions {
	return InitOptions{
		InitialView:     "timeGridWeek",
		InitialDate:     anchor,
		NowIndicator:    true,
		FirstDay:        firstDay,
		HeaderLeft:      "prev,next today",
		HeaderCenter:    "title",
		HeaderRight:     "timeGridWeek,timeGridDay,dayGridMonth,listWeek",
		EventTimeFormat: "HH:mm",
		SlotLabelFormat: "HH:mm",
	}
}

// Renderer is the external rendering collaborator. It owns its internal
// state and is mutated only through these two calls.
type Renderer interface {
	InitialRender(opts InitOptions, events []model.Event) error
	Refresh(events []model.Event) error
}

// Adapter owns the renderer handle and mediates all traffic to and from it.
type Adapter struct {
	r        Renderer
	firstDay int
}

// NewAdapter wraps the given renderer. firstDay is the week-start day
// index, normally render.FirstDayFor of the configured week start.
func NewAdapter(r Renderer, firstDay int) *Adapter {
	return &Adapter{r: r, firstDay: firstDay}
}

// InitialRender performs the first render with the fixed options
// anchored at anchor.
func (a *Adapter) InitialRender(anchor time.Time, events []model.Event) error {
	return a.r.InitialRender(NewInitOptions(anchor, a.firstDay), events)
}

// Refresh replaces the full displayed event set.
func (a *Adapter) Refresh(events []model.Event) error {
	return a.r.Refresh(events)
}

// Link describes how a clicked event's URL must be opened: in a new
// browsing context with the opener link severed, suppressing the
// renderer's default navigation.
type Link struct {
	URL    string
	Target string
	Rel    string
}

// ClickAction resolves the renderer's click callback for an event.
// Events without a URL yield no action.
func (a *Adapter) ClickAction(ev model.Event) (Link, bool) {
	if ev.URL == "" {
		return Link{}, false
	}
	return Link{
		URL:    ev.URL,
		Target: "_blank",
		Rel:    "noopener noreferrer",
	}, true
}

// Tooltip field labels, in render order.
var tooltipFields = []struct {
	label string
	get   func(model.ExtendedProps) string
}{
	{"Location", func(p model.ExtendedProps) string { return p.Location }},
	{"Notes", func(p model.ExtendedProps) string { return p.Notes }},
	{"Date", func(p model.ExtendedProps) string { return p.DateInfo }},
	{"Time", func(p model.ExtendedProps) string { return p.Time }},
}

// Tooltip builds the hover text for a mounted event: one line per
// present field in fixed order, absent fields omitted. Empty when no
// field is present, meaning no tooltip is set at all.
func (a *Adapter) Tooltip(ev model.Event) string {
	var lines []string
	for _, f := range tooltipFields {
		if v := f.get(ev.ExtendedProps); v != "" {
			lines = append(lines, fmt.Sprintf("%s: %s", f.label, v))
		}
	}
	return strings.Join(lines, "\n")
}
