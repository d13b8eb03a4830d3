// Package ics serializes the loaded event set as an iCalendar feed so
// the programme can be subscribed to from regular calendar clients.
package ics

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	ical "github.com/arran4/golang-ical"

	appLog "unical/internal/log"
	"unical/internal/model"
)

const (
	productID = "-//unical//unisport calendar//DE"
	uidSuffix = "@unical"
)

// Export builds a VCALENDAR from the given events. Events without a
// parseable start are skipped, the same lenient policy the range
// summarizer applies; a malformed record never aborts the feed.
func Export(events []model.Event, generated time.Time) []byte {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)

	skipped := 0
	for _, ev := range events {
		start, ok := ev.StartTime()
		if !ok {
			skipped++
			continue
		}

		ve := cal.AddEvent(eventUID(ev))
		ve.SetDtStampTime(generated)
		ve.SetSummary(ev.Title)

		if ev.AllDay {
			ve.SetAllDayStartAt(start)
			ve.SetAllDayEndAt(start.AddDate(0, 0, 1))
		} else {
			ve.SetStartAt(start)
			if end, endOK := endTime(ev); endOK {
				ve.SetEndAt(end)
			}
		}

		if ev.ExtendedProps.Location != "" {
			ve.SetLocation(ev.ExtendedProps.Location)
		}
		if ev.ExtendedProps.Notes != "" {
			ve.SetDescription(ev.ExtendedProps.Notes)
		}
		if ev.URL != "" {
			ve.SetURL(ev.URL)
		}
	}

	if skipped > 0 {
		appLog.Debug("ics export: events without parseable start skipped", "skipped", skipped)
	}

	return []byte(cal.Serialize())
}

// endTime parses the event's end with the same leniency as starts.
func endTime(ev model.Event) (time.Time, bool) {
	shim := model.Event{Start: ev.End}
	return shim.StartTime()
}

// eventUID derives a stable UID from the event's identity fields, so
// re-exports of unchanged data produce identical feeds.
func eventUID(ev model.Event) string {
	sum := sha256.Sum256([]byte(ev.Title + "|" + ev.Start + "|" + ev.ExtendedProps.Location))
	return hex.EncodeToString(sum[:12]) + uidSuffix
}
