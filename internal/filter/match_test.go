package filter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"unical/internal/model"
)

func sampleEvent() model.Event {
	return model.Event{
		Title:  "Badminton Fortgeschrittene",
		AllDay: false,
		ExtendedProps: model.ExtendedProps{
			Dow:      "Di",
			Time:     "18:00 - 19:30 Uhr",
			DateInfo: "18.02. - 27.05.2026",
			Location: "Sporthalle ZSSw",
			Notes:    "mit Anmeldung",
		},
	}
}

func TestMatchesEmptyQuery(t *testing.T) {
	ev := sampleEvent()

	// A blank query matches regardless of fields, including whitespace-only.
	assert.True(t, Matches(ev, "", false))
	assert.True(t, Matches(ev, "   ", false))
	assert.True(t, Matches(model.Event{}, "", false))
}

func TestMatchesAllDayGate(t *testing.T) {
	ev := sampleEvent() // AllDay false

	// The gate short-circuits before any text matching.
	assert.False(t, Matches(ev, "", true))
	assert.False(t, Matches(ev, "badminton", true))

	allDay := sampleEvent()
	allDay.AllDay = true
	assert.True(t, Matches(allDay, "", true))
	assert.True(t, Matches(allDay, "badminton", true))
}

func TestMatchesCaseInsensitive(t *testing.T) {
	ev := sampleEvent()

	for _, q := range []string{"badminton", "sporthalle", "anmeldung", "di"} {
		assert.Equal(t, Matches(ev, q, false), Matches(ev, strings.ToUpper(q), false), "query %q", q)
	}
}

func TestMatchesSubstringPerField(t *testing.T) {
	ev := sampleEvent()

	// A substring of any searchable field matches.
	assert.True(t, Matches(ev, "fortgeschr", false)) // title
	assert.True(t, Matches(ev, "zssw", false))       // location
	assert.True(t, Matches(ev, "anmeldung", false))  // notes
	assert.True(t, Matches(ev, "27.05.2026", false)) // dateinfo
	assert.True(t, Matches(ev, "19:30", false))      // time
	assert.True(t, Matches(ev, "di", false))         // dow

	// And nothing else does.
	assert.False(t, Matches(ev, "volleyball", false))
	assert.False(t, Matches(model.Event{}, "irgend", false))
}

func TestMatchesSeparatorContainment(t *testing.T) {
	// Queries spanning the field separator are treated as ordinary
	// substring containment, by the fixed join order.
	ev := sampleEvent()
	assert.True(t, Matches(ev, "fortgeschrittene | sporthalle", false))
	assert.True(t, Matches(ev, " | ", false))
}

func TestMatchesAbsentFieldsAsEmpty(t *testing.T) {
	ev := model.Event{Title: "Holiday", AllDay: true}
	assert.True(t, Matches(ev, "holiday", false))
	assert.False(t, Matches(ev, "room", false))
}
