package event

import (
	"testing"

	"eventpub/internal/model"
)

func TestLocationSummary(t *testing.T) {
	e := &model.Event{
		LocationName:     "Mozilla SF",
		LocationAddress:  "2 Harrison St",
		LocationLocality: "San Francisco",
		LocationRegion:   "CA",
		LocationCountry:  "US",
	}
	if got := LocationSummary(e); got != "2 Harrison St, San Francisco, CA, US" {
		t.Errorf("LocationSummary = %q", got)
	}
	if got := LocationSummaryWithName(e); got != "Mozilla SF, 2 Harrison St, San Francisco, CA, US" {
		t.Errorf("LocationSummaryWithName = %q", got)
	}
}

func TestLocationSummarySkipsEmpty(t *testing.T) {
	e := &model.Event{LocationLocality: "Berlin", LocationCountry: "Germany"}
	if got := LocationSummary(e); got != "Berlin, Germany" {
		t.Errorf("LocationSummary = %q", got)
	}
	if got := LocationSummary(&model.Event{}); got != "" {
		t.Errorf("LocationSummary of empty event = %q", got)
	}
}

func TestLocationCity(t *testing.T) {
	for _, tc := range []struct {
		locality, region, country string
		want                      string
	}{
		// region shown for domestic events, country for international
		{"Oakland", "CA", "US", "Oakland, CA"},
		{"Oakland", "CA", "USA", "Oakland, CA"},
		{"Oakland", "CA", "United States", "Oakland, CA"},
		{"Oakland", "CA", "France", "Oakland, France"},
		{"Berlin", "", "Germany", "Berlin, Germany"},
		{"Portland", "OR", "", "Portland, OR"},
		{"", "CA", "US", "CA"},
		{"", "", "", ""},
	} {
		e := &model.Event{LocationLocality: tc.locality, LocationRegion: tc.region, LocationCountry: tc.country}
		if got := LocationCity(e); got != tc.want {
			t.Errorf("LocationCity(%q,%q,%q) = %q, want %q", tc.locality, tc.region, tc.country, got, tc.want)
		}
	}
}
