package ics

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"unical/internal/model"
)

func TestExportTimedEvent(t *testing.T) {
	events := []model.Event{{
		Title:  "Badminton",
		Start:  "2026-02-18T18:00:00",
		End:    "2026-02-18T19:30:00",
		URL:    "https://example.com/offer",
		AllDay: false,
		ExtendedProps: model.ExtendedProps{
			Location: "Sporthalle",
			Notes:    "mit Anmeldung",
		},
	}}

	body := string(Export(events, time.Date(2026, 8, 30, 5, 0, 0, 0, time.UTC)))

	assert.Contains(t, body, "BEGIN:VCALENDAR")
	assert.Contains(t, body, "SUMMARY:Badminton")
	assert.Contains(t, body, "LOCATION:Sporthalle")
	assert.Contains(t, body, "DESCRIPTION:mit Anmeldung")
	assert.Contains(t, body, "URL:https://example.com/offer")
	assert.Contains(t, body, "DTSTART")
	assert.Contains(t, body, "DTEND")
}

func TestExportAllDayEvent(t *testing.T) {
	events := []model.Event{{
		Title:  "Feiertag",
		Start:  "2026-05-01",
		AllDay: true,
	}}

	body := string(Export(events, time.Now()))
	assert.Contains(t, body, "SUMMARY:Feiertag")
	assert.Contains(t, body, "VALUE=DATE")
}

func TestExportSkipsUnparseableStarts(t *testing.T) {
	events := []model.Event{
		{Title: "Broken", Start: "not-a-date"},
		{Title: "Missing"},
		{Title: "Fine", Start: "2026-05-01", AllDay: true},
	}

	body := string(Export(events, time.Now()))
	assert.Equal(t, 1, strings.Count(body, "BEGIN:VEVENT"))
	assert.Contains(t, body, "SUMMARY:Fine")
	assert.NotContains(t, body, "SUMMARY:Broken")
}

func TestExportStableUIDs(t *testing.T) {
	events := []model.Event{{Title: "Fine", Start: "2026-05-01", AllDay: true}}

	a := string(Export(events, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))
	b := string(Export(events, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, a, b)
}
