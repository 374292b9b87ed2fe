package event

import (
	"testing"
	"time"

	"eventpub/internal/model"
)

func testEvent() model.Event {
	return model.Event{
		ID:        1,
		Key:       "aB3xK9",
		Slug:      "indiewebcamp-berlin",
		Name:      "IndieWebCamp Berlin",
		StartDate: "2024-06-03",
	}
}

func TestPermalink(t *testing.T) {
	v := NewView(testEvent(), nil, nil, "https://events.example.org")
	if got := v.Permalink(); got != "/2024/06/indiewebcamp-berlin-aB3xK9" {
		t.Errorf("Permalink = %q", got)
	}
	if got := v.AbsolutePermalink(); got != "https://events.example.org/2024/06/indiewebcamp-berlin-aB3xK9" {
		t.Errorf("AbsolutePermalink = %q", got)
	}
	if got := v.ICSPermalink(); got != "/2024/06/indiewebcamp-berlin-aB3xK9.ics" {
		t.Errorf("ICSPermalink = %q", got)
	}
}

func TestPermalinkWithoutSlug(t *testing.T) {
	e := testEvent()
	e.Slug = ""
	v := NewView(e, nil, nil, "https://events.example.org/")
	if got := v.Permalink(); got != "/2024/06/aB3xK9" {
		t.Errorf("slugless Permalink = %q", got)
	}
	// trailing slash on the origin must not double up
	if got := v.AbsolutePermalink(); got != "https://events.example.org/2024/06/aB3xK9" {
		t.Errorf("AbsolutePermalink = %q", got)
	}
}

func TestPermalinkRoundTrip(t *testing.T) {
	events := []model.Event{
		testEvent(),
		{Key: "z1", Slug: "", StartDate: "2023-12-31"},
		{Key: "k2T", Slug: "a-very-long-slug-with-2024-numbers", StartDate: "2024-01-05"},
	}
	for _, e := range events {
		v := NewView(e, nil, nil, "")
		if got := ParseEventKey(v.Permalink()); got != e.Key {
			t.Errorf("ParseEventKey(%q) = %q, want %q", v.Permalink(), got, e.Key)
		}
	}
}

func TestTagsString(t *testing.T) {
	v := NewView(testEvent(), nil, []model.Tag{{Tag: "indieweb"}, {Tag: "barcamp"}}, "")
	if got := v.TagsString(); got != "indieweb barcamp" {
		t.Errorf("TagsString = %q", got)
	}
	if got := NewView(testEvent(), nil, nil, "").TagsString(); got != "" {
		t.Errorf("TagsString with no tags = %q", got)
	}
}

func TestViewMemoizesAggregate(t *testing.T) {
	responses := []model.Response{
		{ID: "c", Type: model.TypeComment, Published: time.Now()},
	}
	v := NewView(testEvent(), responses, nil, "")
	if v.Aggregate() != v.Aggregate() {
		t.Error("Aggregate should be computed once and cached")
	}
}

func TestRSVPStringForUser(t *testing.T) {
	responses := []model.Response{
		{ID: "r", Type: model.TypeRSVP, RSVP: model.RSVPYes, RSVPUserID: 7, Published: time.Now()},
	}
	v := NewView(testEvent(), responses, nil, "")
	if got := v.RSVPStringForUser(7); got != "yes" {
		t.Errorf("RSVPStringForUser(7) = %q", got)
	}
	if got := v.RSVPStringForUser(8); got != "" {
		t.Errorf("RSVPStringForUser(8) = %q, want empty", got)
	}
}
