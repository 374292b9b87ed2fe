// Package ics renders a single event as an iCalendar file for the
// "Add to Calendar" links.
package ics

import (
	"time"

	ical "github.com/arran4/golang-ical"

	"eventpub/internal/event"
	"eventpub/internal/model"
)

const prodID = "-//eventpub//calendar export//EN"

// Export serializes the event as a VCALENDAR with one VEVENT. Events
// without a start time are emitted as all-day entries; the all-day end is
// exclusive, so a multiday span ends the day after its last date.
func Export(e *model.Event, origin string) (string, error) {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(prodID)

	ve := cal.AddEvent(e.Key)
	ve.SetDtStampTime(time.Now().UTC())
	ve.SetSummary(e.Name)

	if summary := event.LocationSummaryWithName(e); summary != "" {
		ve.SetLocation(summary)
	}
	if e.Description != "" {
		ve.SetDescription(e.Description)
	}
	v := event.NewView(*e, nil, nil, origin)
	ve.SetURL(v.AbsolutePermalink())

	start, err := time.Parse("2006-01-02", e.StartDate)
	if err != nil {
		return "", err
	}

	if st, terr := time.Parse("15:04", e.StartTime); terr == nil {
		startAt := time.Date(start.Year(), start.Month(), start.Day(), st.Hour(), st.Minute(), 0, 0, time.UTC)
		ve.SetStartAt(startAt)
		endAt := startAt
		if et, eerr := time.Parse("15:04", e.EndTime); eerr == nil {
			endAt = time.Date(start.Year(), start.Month(), start.Day(), et.Hour(), et.Minute(), 0, 0, time.UTC)
		}
		ve.SetEndAt(endAt)
	} else {
		ve.SetAllDayStartAt(start)
		end := start
		if ed, derr := time.Parse("2006-01-02", e.EndDate); derr == nil {
			end = ed
		}
		ve.SetAllDayEndAt(end.AddDate(0, 0, 1))
	}

	return cal.Serialize(), nil
}
