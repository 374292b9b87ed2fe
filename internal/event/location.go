package event

import (
	"strings"

	"eventpub/internal/model"
)

// domesticAliases are the country spellings treated as "here" by
// LocationCity: for these the region is shown instead of the country,
// following the usual convention for domestic addresses.
var domesticAliases = []string{"US", "USA", "United States"}

func joinParts(parts ...string) string {
	kept := parts[:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ", ")
}

// LocationSummary joins address, locality, region and country, skipping
// empty fields.
func LocationSummary(e *model.Event) string {
	return joinParts(e.LocationAddress, e.LocationLocality, e.LocationRegion, e.LocationCountry)
}

// LocationSummaryWithName is LocationSummary prefixed with the venue name
// when one is set.
func LocationSummaryWithName(e *model.Event) string {
	return joinParts(e.LocationName, e.LocationAddress, e.LocationLocality, e.LocationRegion, e.LocationCountry)
}

// LocationCity is the short place line: locality plus region for domestic
// events, locality plus country for international ones (region only as a
// fallback when no country is set). The asymmetry is intentional.
func LocationCity(e *model.Event) string {
	var parts []string
	if e.LocationLocality != "" {
		parts = append(parts, e.LocationLocality)
	}
	if isDomestic(e.LocationCountry) {
		if e.LocationRegion != "" {
			parts = append(parts, e.LocationRegion)
		}
	} else if e.LocationCountry != "" {
		parts = append(parts, e.LocationCountry)
	} else if e.LocationRegion != "" {
		parts = append(parts, e.LocationRegion)
	}
	return strings.Join(parts, ", ")
}

func isDomestic(country string) bool {
	for _, a := range domesticAliases {
		if country == a {
			return true
		}
	}
	return false
}
