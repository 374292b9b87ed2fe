package webmention

import (
	"errors"
	"testing"
	"time"

	"eventpub/internal/dto"
	"eventpub/internal/model"
)

func mention(p dto.WebmentionPayload) *Mention {
	return &Mention{
		EventKey: "aB3xK9",
		Source:   "https://their.site/post",
		Target:   "https://events.example.org/2024/06/camp-aB3xK9",
		Payload:  p,
	}
}

func TestToResponseRSVP(t *testing.T) {
	published := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	resp, err := ToResponse(mention(dto.WebmentionPayload{
		Kind:      model.TypeRSVP,
		RSVP:      model.RSVPYes,
		Published: published,
		URL:       "https://their.site/post",
		Author:    model.Author{Name: "Someone", URL: "https://their.site/"},
	}), 1)
	if err != nil {
		t.Fatalf("ToResponse: %v", err)
	}
	if resp.Type != model.TypeRSVP || resp.RSVP != "yes" {
		t.Errorf("unexpected response: %+v", resp)
	}
	if resp.IsLocal() {
		t.Error("webmention responses are never local")
	}
	if !resp.Published.Equal(published) {
		t.Errorf("published = %v", resp.Published)
	}
	if resp.SourceURL != "https://their.site/post" {
		t.Errorf("source url = %q", resp.SourceURL)
	}
	if resp.ID == "" {
		t.Error("response needs an identity")
	}
}

func TestToResponseRSVPBadValue(t *testing.T) {
	_, err := ToResponse(mention(dto.WebmentionPayload{Kind: model.TypeRSVP, RSVP: "perhaps"}), 1)
	if !errors.Is(err, ErrUnknownKind) {
		t.Errorf("err = %v, want ErrUnknownKind", err)
	}
}

func TestToResponsePhoto(t *testing.T) {
	resp, err := ToResponse(mention(dto.WebmentionPayload{
		Kind:   model.TypePhoto,
		Photos: []model.Image{{URL: "https://img/1.jpg"}},
	}), 1)
	if err != nil {
		t.Fatalf("ToResponse: %v", err)
	}
	if resp.Type != model.TypePhoto || len(resp.Photos) != 1 {
		t.Errorf("unexpected response: %+v", resp)
	}
	if resp.Published.IsZero() {
		t.Error("missing published time should be filled in")
	}
}

func TestToResponsePhotoWithoutImages(t *testing.T) {
	if _, err := ToResponse(mention(dto.WebmentionPayload{Kind: model.TypePhoto}), 1); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("err = %v, want ErrUnknownKind", err)
	}
}

func TestToResponseUnknownKind(t *testing.T) {
	if _, err := ToResponse(mention(dto.WebmentionPayload{Kind: "like"}), 1); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("err = %v, want ErrUnknownKind", err)
	}
}

func TestToResponseCommentAndBlogPost(t *testing.T) {
	comment, err := ToResponse(mention(dto.WebmentionPayload{
		Kind:        model.TypeComment,
		ContentText: "great event",
	}), 1)
	if err != nil || comment.ContentText != "great event" {
		t.Errorf("comment = %+v, err = %v", comment, err)
	}

	post, err := ToResponse(mention(dto.WebmentionPayload{
		Kind:        model.TypeBlogPost,
		Name:        "What I saw at camp",
		ContentText: "a writeup",
	}), 1)
	if err != nil || post.Name != "What I saw at camp" {
		t.Errorf("post = %+v, err = %v", post, err)
	}
}
