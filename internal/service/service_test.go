package service_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/wb-go/wbf/zlog"

	"eventpub/internal/api/api"
	"eventpub/internal/model"
	"eventpub/internal/repo"
	"eventpub/internal/service"
)

// fakeRepo serves a single event with a fixed response set.
type fakeRepo struct {
	repo.Repository

	event     model.Event
	responses []model.Response
	tags      []model.Tag
	users     map[int64]model.User
}

func (f *fakeRepo) GetEventByKey(_ context.Context, key string, includeDeleted bool) (*model.Event, error) {
	if key != f.event.Key {
		return nil, repo.ErrEventNotFound
	}
	if f.event.DeletedAt != nil && !includeDeleted {
		return nil, repo.ErrEventNotFound
	}
	e := f.event
	return &e, nil
}

func (f *fakeRepo) GetResponsesForEvent(_ context.Context, eventID int64, _ bool) ([]model.Response, error) {
	if eventID != f.event.ID {
		return nil, nil
	}
	return append([]model.Response(nil), f.responses...), nil
}

func (f *fakeRepo) GetTagsForEvent(_ context.Context, eventID int64) ([]model.Tag, error) {
	if eventID != f.event.ID {
		return nil, nil
	}
	return f.tags, nil
}

func (f *fakeRepo) GetUserByID(_ context.Context, id int64) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repo.ErrUserNotFound
	}
	return &u, nil
}

func TestMain(m *testing.M) {
	zlog.Init()
	os.Exit(m.Run())
}

func newTestRouter(f *fakeRepo) http.Handler {
	svc := service.NewService(f, &zlog.Logger, nil, "https://events.example.org")
	return api.NewRouters(&api.Routers{Service: svc})
}

func fixtureRepo() *fakeRepo {
	published := time.Date(2024, 5, 20, 10, 0, 0, 0, time.UTC)
	return &fakeRepo{
		event: model.Event{
			ID:        1,
			Key:       "aB3xK9",
			Slug:      "indiewebcamp-berlin",
			Name:      "IndieWebCamp Berlin",
			StartDate: "2024-06-03",
			StartTime: "18:30",
		},
		responses: []model.Response{
			{ID: "r1", EventID: 1, Type: model.TypeRSVP, RSVP: model.RSVPYes, RSVPUserID: 7, Published: published},
			{ID: "r2", EventID: 1, Type: model.TypeRSVP, RSVP: model.RSVPYes, Published: published.Add(time.Hour),
				Author: model.Author{Name: "Remote Friend", URL: "https://their.site/"}},
		},
		tags:  []model.Tag{{ID: 1, Tag: "indieweb"}},
		users: map[int64]model.User{7: {ID: 7, Username: "alice", Name: "Alice", URL: "https://alice.example/"}},
	}
}

func doJSON(t *testing.T, h http.Handler, method, path string, headers map[string]string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var envelope struct {
		Status string         `json:"status"`
		Data   map[string]any `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		return w, nil
	}
	return w, envelope.Data
}

func TestGetEventPage(t *testing.T) {
	h := newTestRouter(fixtureRepo())

	w, data := doJSON(t, h, http.MethodGet, "/v1/events/aB3xK9", map[string]string{"X-User-ID": "7"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	if data["permalink"] != "/2024/06/indiewebcamp-berlin-aB3xK9" {
		t.Errorf("permalink = %v", data["permalink"])
	}
	if data["absolute_permalink"] != "https://events.example.org/2024/06/indiewebcamp-berlin-aB3xK9" {
		t.Errorf("absolute_permalink = %v", data["absolute_permalink"])
	}
	if data["display_time"] != "6:30pm" {
		t.Errorf("display_time = %v", data["display_time"])
	}
	if data["tags_string"] != "indieweb" {
		t.Errorf("tags_string = %v", data["tags_string"])
	}
	if data["has_rsvps"] != true {
		t.Error("has_rsvps should be true")
	}
	if data["user_rsvp"] != "yes" {
		t.Errorf("user_rsvp = %v", data["user_rsvp"])
	}

	yes, _ := data["rsvps_yes"].([]any)
	remote, _ := data["rsvps_remote"].([]any)
	if len(yes) != 1 || len(remote) != 1 {
		t.Errorf("rsvps_yes = %v, rsvps_remote = %v", data["rsvps_yes"], data["rsvps_remote"])
	}
	// local author resolved through the users table
	if len(yes) == 1 {
		first := yes[0].(map[string]any)
		author := first["author"].(map[string]any)
		if author["name"] != "Alice" {
			t.Errorf("resolved author = %v", author)
		}
	}
}

func TestGetEventNotFound(t *testing.T) {
	h := newTestRouter(fixtureRepo())
	w, _ := doJSON(t, h, http.MethodGet, "/v1/events/nope", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestResolvePermalink(t *testing.T) {
	h := newTestRouter(fixtureRepo())

	w, data := doJSON(t, h, http.MethodGet, "/2024/06/indiewebcamp-berlin-aB3xK9", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if data["key"] != "aB3xK9" {
		t.Errorf("key = %v", data["key"])
	}

	// stale slug: only the trailing key decides
	w, data = doJSON(t, h, http.MethodGet, "/2024/06/old-name-aB3xK9", nil)
	if w.Code != http.StatusOK || data["key"] != "aB3xK9" {
		t.Errorf("stale-slug lookup failed: status = %d", w.Code)
	}

	w, _ = doJSON(t, h, http.MethodGet, "/2024/06/unknown-zzzz", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown key status = %d, want 404", w.Code)
	}

	w, _ = doJSON(t, h, http.MethodGet, "/definitely/not/a/permalink", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("garbage path status = %d, want 404", w.Code)
	}
}

func TestResolvePermalinkICS(t *testing.T) {
	h := newTestRouter(fixtureRepo())

	req := httptest.NewRequest(http.MethodGet, "/2024/06/indiewebcamp-berlin-aB3xK9.ics", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/calendar") {
		t.Errorf("content type = %q", ct)
	}
	if !strings.Contains(w.Body.String(), "UID:aB3xK9") {
		t.Errorf("ics body missing UID:\n%s", w.Body.String())
	}
}

func TestDeletedEventHiddenFromLookups(t *testing.T) {
	f := fixtureRepo()
	gone := time.Now()
	f.event.DeletedAt = &gone
	h := newTestRouter(f)

	w, _ := doJSON(t, h, http.MethodGet, "/v1/events/aB3xK9", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("deleted event status = %d, want 404", w.Code)
	}

	// administrative mode still sees it
	w, data := doJSON(t, h, http.MethodGet, "/v1/events/aB3xK9?include_deleted=true", nil)
	if w.Code != http.StatusOK || data["key"] != "aB3xK9" {
		t.Errorf("include_deleted lookup failed: status = %d", w.Code)
	}
}
