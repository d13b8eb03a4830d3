package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartTimeLayouts(t *testing.T) {
	cases := []struct {
		start string
		want  time.Time
		ok    bool
	}{
		{"2026-02-18T18:00:00", time.Date(2026, 2, 18, 18, 0, 0, 0, time.Local), true},
		{"2026-05-01", time.Date(2026, 5, 1, 0, 0, 0, 0, time.Local), true},
		{"", time.Time{}, false},
		{"not-a-date", time.Time{}, false},
		{"18.02.2026", time.Time{}, false},
	}

	for _, tc := range cases {
		got, ok := Event{Start: tc.start}.StartTime()
		assert.Equal(t, tc.ok, ok, "start %q", tc.start)
		if tc.ok {
			assert.True(t, got.Equal(tc.want), "start %q: got %v", tc.start, got)
		}
	}
}

func TestStartTimeRFC3339KeepsOffset(t *testing.T) {
	got, ok := Event{Start: "2026-02-18T18:00:00+01:00"}.StartTime()
	require.True(t, ok)
	want := time.Date(2026, 2, 18, 17, 0, 0, 0, time.UTC)
	assert.True(t, got.Equal(want))
}

func TestStampDisplayColors(t *testing.T) {
	events := []Event{{Title: "a"}, {Title: "b"}}
	StampDisplayColors(events)

	for _, ev := range events {
		assert.Equal(t, EventBackgroundColor, ev.BackgroundColor)
		assert.Equal(t, EventBorderColor, ev.BorderColor)
		assert.Equal(t, EventTextColor, ev.TextColor)
	}
}

func TestEventJSONShape(t *testing.T) {
	// The wire shape is what the generation pipeline emits and the
	// renderer consumes; field names must stay camelCased.
	raw := `{
	  "title": "Badminton",
	  "start": "2026-02-18T18:00:00",
	  "allDay": false,
	  "url": "https://example.com",
	  "extendedProps": {"location": "Halle", "dow": "Mi", "time": "18:00 - 19:30 Uhr"}
	}`

	var ev Event
	require.NoError(t, json.Unmarshal([]byte(raw), &ev))
	assert.Equal(t, "Badminton", ev.Title)
	assert.Equal(t, "Halle", ev.ExtendedProps.Location)
	assert.Equal(t, "Mi", ev.ExtendedProps.Dow)
	assert.False(t, ev.AllDay)
}
