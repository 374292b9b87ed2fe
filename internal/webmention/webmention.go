// Package webmention turns inbound federated notifications into response
// records. Fetching and microformat extraction of the source document are
// the sending collaborator's job; this package only classifies the parsed
// payload against the response taxonomy.
package webmention

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"eventpub/internal/dto"
	"eventpub/internal/model"
)

var (
	ErrUnknownKind = errors.New("webmention: payload kind outside response taxonomy")
	ErrNoEvent     = errors.New("webmention: target does not resolve to an event")
)

// Mention is the queued unit of work: the validated notification plus the
// key of the event its target resolved to.
type Mention struct {
	EventKey string                `json:"event_key"`
	Source   string                `json:"source"`
	Target   string                `json:"target"`
	Payload  dto.WebmentionPayload `json:"payload"`
}

// ToResponse converts a mention into the response record to store for the
// given event. The payload kind must be one of the four response types;
// anything else is an anomaly for the caller to count.
func ToResponse(m *Mention, eventID int64) (*model.Response, error) {
	p := m.Payload

	resp := &model.Response{
		ID:        uuid.NewString(),
		EventID:   eventID,
		Published: p.Published,
		URL:       p.URL,
		SourceURL: m.Source,
		Author:    p.Author,
	}
	if resp.Published.IsZero() {
		resp.Published = time.Now().UTC()
	}

	switch p.Kind {
	case model.TypeRSVP:
		switch p.RSVP {
		case model.RSVPYes, model.RSVPNo, model.RSVPMaybe:
		default:
			return nil, ErrUnknownKind
		}
		resp.Type = model.TypeRSVP
		resp.RSVP = p.RSVP
	case model.TypePhoto:
		if len(p.Photos) == 0 {
			return nil, ErrUnknownKind
		}
		resp.Type = model.TypePhoto
		resp.Photos = p.Photos
		resp.Name = p.Name
	case model.TypeBlogPost:
		resp.Type = model.TypeBlogPost
		resp.Name = p.Name
		resp.ContentText = p.ContentText
	case model.TypeComment:
		resp.Type = model.TypeComment
		resp.ContentText = p.ContentText
	default:
		return nil, ErrUnknownKind
	}

	return resp, nil
}
