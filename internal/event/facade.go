package event

import (
	"strings"
	"time"

	"eventpub/internal/model"
)

// View is the read model one request renders an event page from. It is
// built once per request from already-fetched snapshots and computes its
// derived fields lazily, caching them for the instance's lifetime. A View
// is not safe for concurrent use; concurrent requests each build their own.
type View struct {
	Event     model.Event
	Responses []model.Response
	Tags      []model.Tag

	origin string

	agg       *Aggregate
	permalink *string
	summary   *DateSummary
	html      *string
}

// NewView builds the event read model. origin is the configured site base
// URL used for absolute permalinks; the view reads no ambient state.
func NewView(e model.Event, responses []model.Response, tags []model.Tag, origin string) *View {
	return &View{
		Event:     e,
		Responses: responses,
		Tags:      tags,
		origin:    strings.TrimRight(origin, "/"),
	}
}

// Permalink is the canonical path: /{YYYY}/{MM}/{slug}-{key}, with the
// slug and its dash omitted for slugless events.
func (v *View) Permalink() string {
	if v.permalink != nil {
		return *v.permalink
	}
	var year, month = "0000", "00"
	if d, ok := parseDate(v.Event.StartDate); ok {
		year, month = d.Format("2006"), d.Format("01")
	}
	p := "/" + year + "/" + month + "/"
	if v.Event.Slug != "" {
		p += v.Event.Slug + "-"
	}
	p += v.Event.Key
	v.permalink = &p
	return p
}

func (v *View) AbsolutePermalink() string {
	return v.origin + v.Permalink()
}

// ICSPermalink is the calendar-export path for the event.
func (v *View) ICSPermalink() string {
	return v.Permalink() + ".ics"
}

func (v *View) DateSummary() DateSummary {
	if v.summary == nil {
		s := Summarize(&v.Event)
		v.summary = &s
	}
	return *v.summary
}

func (v *View) DisplayDate() string { return DisplayDate(&v.Event) }
func (v *View) DisplayTime() string { return DisplayTime(&v.Event) }
func (v *View) Weekday() string     { return Weekday(&v.Event) }
func (v *View) IsMultiday() bool    { return IsMultiday(&v.Event) }

func (v *View) IsPast() bool { return IsPast(&v.Event, time.Now().UTC()) }

func (v *View) LocationSummary() string         { return LocationSummary(&v.Event) }
func (v *View) LocationSummaryWithName() string { return LocationSummaryWithName(&v.Event) }
func (v *View) LocationCity() string            { return LocationCity(&v.Event) }

// HTML is the sanitized rendering of the event description.
func (v *View) HTML() string {
	if v.html == nil {
		h := RenderDescription(v.Event.Description)
		v.html = &h
	}
	return *v.html
}

// Aggregate classifies the response set once and caches the result.
func (v *View) Aggregate() *Aggregate {
	if v.agg == nil {
		v.agg = Classify(v.Responses)
	}
	return v.agg
}

// RSVPForUser returns the given local user's RSVP, or nil.
func (v *View) RSVPForUser(userID int64) *model.Response {
	return RSVPForUser(v.Responses, userID)
}

// RSVPStringForUser is the user's RSVP value ("yes", "no", "maybe") or ""
// when the user has not responded.
func (v *View) RSVPStringForUser(userID int64) string {
	if r := v.RSVPForUser(userID); r != nil {
		return r.RSVP
	}
	return ""
}

// TagsString joins the event's tag labels with spaces.
func (v *View) TagsString() string {
	labels := make([]string, 0, len(v.Tags))
	for _, t := range v.Tags {
		labels = append(labels, t.Tag)
	}
	return strings.Join(labels, " ")
}
