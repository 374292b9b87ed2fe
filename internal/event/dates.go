package event

import (
	"time"

	"eventpub/internal/model"
)

// Reference layouts for the date/time strings stored on an event.
const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04"
)

// DateFragment pairs a human-readable rendering with the machine-readable
// value that belongs in a dt-start/dt-end datetime attribute. Presentation
// owns the final markup.
type DateFragment struct {
	Text    string `json:"text"`
	Machine string `json:"machine"`
}

// DateSummary is the structured calendar summary of an event. End is nil
// for single-day events.
type DateSummary struct {
	Start    DateFragment  `json:"start"`
	End      *DateFragment `json:"end,omitempty"`
	Multiday bool          `json:"multiday"`
}

func parseDate(s string) (time.Time, bool) {
	t, err := time.Parse(dateLayout, s)
	return t, err == nil
}

func parseClock(s string) (time.Time, bool) {
	for _, layout := range []string{clockLayout, "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// IsMultiday reports whether the event spans more than one calendar day:
// an end date present and different from the start date.
func IsMultiday(e *model.Event) bool {
	return e.EndDate != "" && e.EndDate != e.StartDate
}

// Summarize produces the structured date summary for an event.
//
// Multiday events yield a start/end pair where the end omits the month
// when it equals the start's ("Jun 3" + "5, 2024", but "Jun 30" +
// "Jul 2, 2024"). Single-day events with a start time fold the time into
// the fragment; without one the date stands alone. Malformed dates
// degrade to a zero-value summary rather than failing.
func Summarize(e *model.Event) DateSummary {
	start, ok := parseDate(e.StartDate)
	if !ok {
		return DateSummary{}
	}

	if IsMultiday(e) {
		end, ok := parseDate(e.EndDate)
		if !ok {
			return DateSummary{}
		}
		endText := end.Format("Jan 2, 2006")
		if end.Month() == start.Month() {
			endText = end.Format("2, 2006")
		}
		return DateSummary{
			Start:    DateFragment{Text: start.Format("Jan 2"), Machine: start.Format(dateLayout)},
			End:      &DateFragment{Text: endText, Machine: end.Format(dateLayout)},
			Multiday: true,
		}
	}

	if t, ok := parseClock(e.StartTime); ok {
		at := time.Date(start.Year(), start.Month(), start.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC)
		return DateSummary{
			Start: DateFragment{Text: at.Format("Jan 2, 2006 3:04pm"), Machine: at.Format("2006-01-02 15:04")},
		}
	}
	return DateSummary{
		Start: DateFragment{Text: start.Format("Jan 2, 2006"), Machine: start.Format(dateLayout)},
	}
}

// DisplayDate renders the long-form date line: "June 3, 2024" for a single
// day, "June 3 - July 2, 2024" for a span.
func DisplayDate(e *model.Event) string {
	start, ok := parseDate(e.StartDate)
	if !ok {
		return ""
	}
	if IsMultiday(e) {
		end, ok := parseDate(e.EndDate)
		if !ok {
			return start.Format("January 2, 2006")
		}
		return start.Format("January 2") + " - " + end.Format("January 2, 2006")
	}
	return start.Format("January 2, 2006")
}

// DisplayTime renders the time line on a 12-hour clock with no leading
// zero and a lowercase am/pm suffix: "6:30pm" or "6:30pm - 9:00pm".
// An end time without a start time is malformed input and renders empty.
func DisplayTime(e *model.Event) string {
	start, ok := parseClock(e.StartTime)
	if !ok {
		return ""
	}
	out := start.Format("3:04pm")
	if end, ok := parseClock(e.EndTime); ok {
		out += " - " + end.Format("3:04pm")
	}
	return out
}

// Weekday is the spelled-out weekday of the start date, shown next to the
// time on single-day events.
func Weekday(e *model.Event) string {
	start, ok := parseDate(e.StartDate)
	if !ok {
		return ""
	}
	return start.Format("Monday")
}

// IsPast reports whether the event is over relative to now: the end date
// (or the start date when there is no end) falls before today.
func IsPast(e *model.Event, now time.Time) bool {
	last, ok := parseDate(e.StartDate)
	if !ok {
		return false
	}
	if end, endOK := parseDate(e.EndDate); endOK {
		last = end
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return last.Before(today)
}
