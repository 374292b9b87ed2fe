package event

import (
	"sort"

	"eventpub/internal/model"
)

// GalleryImage is one flattened image for the photo gallery, carrying the
// attribution that should be shown next to it.
type GalleryImage struct {
	URL        string `json:"url"`
	Alt        string `json:"alt,omitempty"`
	AuthorName string `json:"author_name,omitempty"`
	AuthorURL  string `json:"author_url,omitempty"`
}

// Aggregate partitions an event's responses into the typed buckets the
// page renders. Soft-deleted records and records of unknown type never
// make it into any bucket.
type Aggregate struct {
	RSVPsYes    []model.Response
	RSVPsNo     []model.Response
	RSVPsMaybe  []model.Response
	RSVPsRemote []model.Response
	Photos      []model.Response
	BlogPosts   []model.Response
	Comments    []model.Response

	// Anomalies counts records whose type falls outside the taxonomy;
	// the caller decides whether to log or meter them.
	Anomalies int
}

// Classify buckets the full response set of a single event. Records are
// stable-sorted by published time ascending before partitioning, so every
// bucket keeps chronological order.
func Classify(responses []model.Response) *Aggregate {
	sorted := make([]model.Response, len(responses))
	copy(sorted, responses)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Published.Before(sorted[j].Published)
	})

	agg := &Aggregate{}
	for _, r := range sorted {
		if r.DeletedAt != nil {
			continue
		}
		switch r.Type {
		case model.TypeRSVP:
			agg.addRSVP(r)
		case model.TypePhoto:
			agg.Photos = append(agg.Photos, r)
		case model.TypeBlogPost:
			agg.BlogPosts = append(agg.BlogPosts, r)
		case model.TypeComment:
			agg.Comments = append(agg.Comments, r)
		default:
			agg.Anomalies++
		}
	}
	return agg
}

// Remote attendees are affirmative or tentative acknowledgements from
// federated identities; they are shown apart from local RSVPs, so a
// yes/maybe from an external author lands only in the remote bucket.
func (a *Aggregate) addRSVP(r model.Response) {
	switch r.RSVP {
	case model.RSVPYes:
		if r.IsLocal() {
			a.RSVPsYes = append(a.RSVPsYes, r)
		} else {
			a.RSVPsRemote = append(a.RSVPsRemote, r)
		}
	case model.RSVPMaybe:
		if r.IsLocal() {
			a.RSVPsMaybe = append(a.RSVPsMaybe, r)
		} else {
			a.RSVPsRemote = append(a.RSVPsRemote, r)
		}
	case model.RSVPNo:
		a.RSVPsNo = append(a.RSVPsNo, r)
	default:
		a.Anomalies++
	}
}

func (a *Aggregate) RSVPCount() int {
	return len(a.RSVPsYes) + len(a.RSVPsNo) + len(a.RSVPsMaybe) + len(a.RSVPsRemote)
}

func (a *Aggregate) HasRSVPs() bool     { return a.RSVPCount() > 0 }
func (a *Aggregate) HasPhotos() bool    { return len(a.Photos) > 0 }
func (a *Aggregate) HasBlogPosts() bool { return len(a.BlogPosts) > 0 }
func (a *Aggregate) HasComments() bool  { return len(a.Comments) > 0 }

// RSVPForUser returns the user's RSVP on this event, or nil. Duplicate
// rows for one user are a data anomaly; the earliest published one wins
// so the answer stays deterministic.
func RSVPForUser(responses []model.Response, userID int64) *model.Response {
	var found *model.Response
	for i := range responses {
		r := &responses[i]
		if r.DeletedAt != nil || r.Type != model.TypeRSVP || r.RSVPUserID != userID {
			continue
		}
		if found == nil || r.Published.Before(found.Published) {
			found = r
		}
	}
	return found
}

// Gallery flattens every image across all photo responses into one ordered
// sequence. Attribution prefers the image's own metadata and falls back to
// the parent response's author.
func (a *Aggregate) Gallery() []GalleryImage {
	var out []GalleryImage
	for _, p := range a.Photos {
		for _, img := range p.Photos {
			g := GalleryImage{
				URL:        img.URL,
				Alt:        img.Alt,
				AuthorName: img.AuthorName,
				AuthorURL:  img.AuthorURL,
			}
			if g.AuthorName == "" {
				g.AuthorName = p.Author.Name
			}
			if g.AuthorURL == "" {
				g.AuthorURL = p.Author.URL
			}
			out = append(out, g)
		}
	}
	return out
}
