package unisport

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLineFullRow(t *testing.T) {
	line := "Badminton Fortgeschrittene, Di, 18:00 - 19:30 Uhr, 18.02. - 27.05.2026, Sporthalle ZSSw, mit Anmeldung"
	row, ok := ParseLine(line, "https://example.com/offer")
	require.True(t, ok)

	assert.Equal(t, "Badminton Fortgeschrittene", row.Title)
	assert.Equal(t, "Di", row.Dow)
	assert.Equal(t, "18:00 - 19:30 Uhr", row.TimeStr)
	assert.Equal(t, "18.02. - 27.05.2026", row.DateInfo)
	assert.Equal(t, "Sporthalle ZSSw", row.Location)
	assert.Equal(t, "mit Anmeldung", row.Rest)
	assert.Equal(t, "https://example.com/offer", row.Href)
}

func TestParseLineWithoutRest(t *testing.T) {
	line := "Yoga, Mo, ganzer Tag, Phase 1, Turnhalle"
	row, ok := ParseLine(line, "")
	require.True(t, ok)

	assert.Equal(t, "Yoga", row.Title)
	assert.Equal(t, "Mo", row.Dow)
	assert.Equal(t, "ganzer Tag", row.TimeStr)
	assert.Equal(t, "Phase 1", row.DateInfo)
	assert.Equal(t, "Turnhalle", row.Location)
	assert.Empty(t, row.Rest)
}

func TestParseLineSkipsHeadings(t *testing.T) {
	// Category headings have fewer than three commas.
	_, ok := ParseLine("Badminton", "")
	assert.False(t, ok)
	_, ok = ParseLine("Badminton, Einführung", "")
	assert.False(t, ok)
}

func TestParseLineCollapsesWhitespace(t *testing.T) {
	line := "Yoga,   Mo,  08:00 - 09:00   Uhr, 01.09.2026,   Turnhalle"
	row, ok := ParseLine(line, "")
	require.True(t, ok)
	assert.Equal(t, "08:00 - 09:00 Uhr", row.TimeStr)
	assert.Equal(t, "Turnhalle", row.Location)
}

func TestDedupeRows(t *testing.T) {
	a := Row{Title: "Yoga", Dow: "Mo"}
	b := Row{Title: "Judo", Dow: "Di"}
	rows := DedupeRows([]Row{a, b, a, a, b})
	assert.Equal(t, []Row{a, b}, rows)
}

func TestParseTimeRange(t *testing.T) {
	start, end, allDay := parseTimeRange("18:00 - 19:30 Uhr")
	require.NotNil(t, start)
	require.NotNil(t, end)
	assert.False(t, allDay)
	assert.Equal(t, clockTime{18, 0}, *start)
	assert.Equal(t, clockTime{19, 30}, *end)

	start, end, allDay = parseTimeRange("ganzer Tag")
	assert.Nil(t, start)
	assert.Nil(t, end)
	assert.True(t, allDay)

	start, end, allDay = parseTimeRange("GANZER  TAG")
	assert.True(t, allDay)

	start, end, allDay = parseTimeRange("nach Vereinbarung")
	assert.Nil(t, start)
	assert.Nil(t, end)
	assert.False(t, allDay)
}

func TestParseDateInfo(t *testing.T) {
	loc := time.UTC

	kind, from, _ := parseDateInfo("27.05.2026", loc)
	assert.Equal(t, dateSingle, kind)
	assert.Equal(t, time.Date(2026, 5, 27, 0, 0, 0, 0, loc), from)

	kind, from, to := parseDateInfo("18.02. - 27.05.2026", loc)
	assert.Equal(t, dateRange, kind)
	// Start borrows the end's year.
	assert.Equal(t, time.Date(2026, 2, 18, 0, 0, 0, 0, loc), from)
	assert.Equal(t, time.Date(2026, 5, 27, 0, 0, 0, 0, loc), to)

	kind, _, _ = parseDateInfo("Phase 2", loc)
	assert.Equal(t, datePhase, kind)

	// Unknown formats fall back to phase-like projection.
	kind, _, _ = parseDateInfo("auf Anfrage", loc)
	assert.Equal(t, datePhase, kind)
}

func TestRowsFromAnchors(t *testing.T) {
	anchors := []Anchor{
		{Href: "/usp/offer?id=1", Line: "Badminton, Di, 18:00 - 19:30 Uhr, 27.05.2026, Sporthalle"},
		{Href: "", Line: "Badminton"}, // heading
	}
	rows := RowsFromAnchors(anchors, "https://www.zssw.unibe.ch")
	require.Len(t, rows, 1)
	assert.Equal(t, "https://www.zssw.unibe.ch/usp/offer?id=1", rows[0].Href)
}
