package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/ginext"

	"eventpub/internal/dto"
	"eventpub/internal/event"
	"eventpub/internal/ics"
	"eventpub/internal/keygen"
	"eventpub/internal/metrics"
	"eventpub/internal/model"
	"eventpub/internal/rabbit"
	"eventpub/internal/repo"
	"eventpub/internal/webmention"
	"eventpub/pkg/validator"
)

type Service interface {
	CreateEvent(ctx *ginext.Context)
	UpdateEvent(ctx *ginext.Context)
	DeleteEvent(ctx *ginext.Context)
	ListEvents(ctx *ginext.Context)
	GetEvent(ctx *ginext.Context)
	GetEventICS(ctx *ginext.Context)
	RSVP(ctx *ginext.Context)
	DeleteRSVP(ctx *ginext.Context)
	ReceiveWebmention(ctx *ginext.Context)
	ResolvePermalink(ctx *ginext.Context)
}

type service struct {
	repo   repo.Repository
	log    *zerolog.Logger
	rbt    *rabbit.Client
	origin string
}

// NewService wires the handlers. origin is the configured site base URL;
// it is threaded into every facade instead of being read from the
// environment.
func NewService(repo repo.Repository, logger *zerolog.Logger, rbt *rabbit.Client, origin string) Service {
	return &service{
		repo:   repo,
		log:    logger,
		rbt:    rbt,
		origin: origin,
	}
}

func (s *service) CreateEvent(ctx *ginext.Context) {
	var req dto.CreateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		s.log.Error().Err(err).Msg("failed to parse create event request")
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid JSON format")
		return
	}

	if verr := validator.Validate(ctx, req); verr != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, fmt.Sprintf("%v", verr))
		return
	}
	if req.EndDate != "" && req.EndDate < req.StartDate {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "end_date must not precede start_date")
		return
	}
	if req.EndTime != "" && req.StartTime == "" {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "end_time requires start_time")
		return
	}

	key, err := keygen.New()
	if err != nil {
		s.log.Error().Err(err).Msg("failed to generate event key")
		dto.InternalServerError(ctx)
		return
	}

	e := eventFromRequest(&req)
	e.Key = key

	id, err := s.repo.CreateEvent(ctx.Request.Context(), e)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to create event in DB")
		dto.InternalServerError(ctx)
		return
	}
	e.ID = id

	if len(req.Tags) > 0 {
		if err := s.repo.SetEventTags(ctx.Request.Context(), id, req.Tags); err != nil {
			s.log.Error().Err(err).Msg("failed to store event tags")
			dto.InternalServerError(ctx)
			return
		}
	}

	s.log.Info().Int64("event_id", id).Str("key", key).Msg("event created")

	page, err := s.buildPage(ctx, e, 0)
	if err != nil {
		dto.InternalServerError(ctx)
		return
	}
	dto.SuccessCreatedResponse(ctx, page)
}

func (s *service) UpdateEvent(ctx *ginext.Context) {
	e, ok := s.eventFromPath(ctx)
	if !ok {
		return
	}

	var req dto.CreateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid JSON format")
		return
	}
	if verr := validator.Validate(ctx, req); verr != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, fmt.Sprintf("%v", verr))
		return
	}
	if req.EndDate != "" && req.EndDate < req.StartDate {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "end_date must not precede start_date")
		return
	}
	if req.EndTime != "" && req.StartTime == "" {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "end_time requires start_time")
		return
	}

	// The slug follows the name; the key never changes, so old permalinks
	// still resolve.
	updated := eventFromRequest(&req)
	updated.ID = e.ID
	updated.Key = e.Key

	if err := s.repo.UpdateEvent(ctx.Request.Context(), updated); err != nil {
		if errors.Is(err, repo.ErrEventNotFound) {
			dto.EventNotFoundError(ctx)
			return
		}
		s.log.Error().Err(err).Msg("failed to update event")
		dto.InternalServerError(ctx)
		return
	}

	if req.Tags != nil {
		if err := s.repo.SetEventTags(ctx.Request.Context(), e.ID, req.Tags); err != nil {
			s.log.Error().Err(err).Msg("failed to store event tags")
			dto.InternalServerError(ctx)
			return
		}
	}

	page, err := s.buildPage(ctx, updated, currentUserID(ctx))
	if err != nil {
		dto.InternalServerError(ctx)
		return
	}
	dto.SuccessResponse(ctx, page)
}

func (s *service) DeleteEvent(ctx *ginext.Context) {
	e, ok := s.eventFromPath(ctx)
	if !ok {
		return
	}
	if err := s.repo.SoftDeleteEvent(ctx.Request.Context(), e.ID); err != nil {
		if errors.Is(err, repo.ErrEventNotFound) {
			dto.EventNotFoundError(ctx)
			return
		}
		s.log.Error().Err(err).Msg("failed to delete event")
		dto.InternalServerError(ctx)
		return
	}
	s.log.Info().Str("key", e.Key).Msg("event soft-deleted")
	dto.SuccessResponse(ctx, nil)
}

func (s *service) ListEvents(ctx *ginext.Context) {
	includeDeleted := ctx.Query("include_deleted") == "true"

	events, err := s.repo.ListEvents(ctx.Request.Context(), includeDeleted)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to list events")
		dto.InternalServerError(ctx)
		return
	}

	type listItem struct {
		Key         string `json:"key"`
		Name        string `json:"name"`
		Permalink   string `json:"permalink"`
		DisplayDate string `json:"display_date"`
		City        string `json:"location_city,omitempty"`
		Deleted     bool   `json:"deleted,omitempty"`
	}

	items := make([]listItem, 0, len(events))
	for _, e := range events {
		v := event.NewView(e, nil, nil, s.origin)
		items = append(items, listItem{
			Key:         e.Key,
			Name:        e.Name,
			Permalink:   v.Permalink(),
			DisplayDate: v.DisplayDate(),
			City:        v.LocationCity(),
			Deleted:     e.DeletedAt != nil,
		})
	}
	dto.SuccessResponse(ctx, items)
}

func (s *service) GetEvent(ctx *ginext.Context) {
	e, ok := s.eventFromPath(ctx)
	if !ok {
		return
	}
	page, err := s.buildPage(ctx, e, currentUserID(ctx))
	if err != nil {
		dto.InternalServerError(ctx)
		return
	}
	dto.SuccessResponse(ctx, page)
}

func (s *service) GetEventICS(ctx *ginext.Context) {
	e, ok := s.eventFromPath(ctx)
	if !ok {
		return
	}
	body, err := ics.Export(e, s.origin)
	if err != nil {
		s.log.Error().Err(err).Str("key", e.Key).Msg("failed to export calendar")
		dto.InternalServerError(ctx)
		return
	}
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", e.Key+".ics"))
	ctx.Data(200, "text/calendar; charset=utf-8", []byte(body))
}

func (s *service) RSVP(ctx *ginext.Context) {
	e, ok := s.eventFromPath(ctx)
	if !ok {
		return
	}
	userID := currentUserID(ctx)
	if userID == 0 {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Missing user identity")
		return
	}

	var req dto.RSVPRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid JSON format")
		return
	}
	if verr := validator.Validate(ctx, req); verr != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, fmt.Sprintf("%v", verr))
		return
	}

	user, err := s.repo.GetUserByID(ctx.Request.Context(), userID)
	if err != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Unknown user")
		return
	}

	// Responses are never mutated in place: a changed RSVP soft-deletes
	// the old record and stores a fresh one.
	responses, err := s.repo.GetResponsesForEvent(ctx.Request.Context(), e.ID, false)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to load responses")
		dto.InternalServerError(ctx)
		return
	}
	if prev := event.RSVPForUser(responses, userID); prev != nil {
		if err := s.repo.SoftDeleteResponse(ctx.Request.Context(), prev.ID); err != nil {
			s.log.Error().Err(err).Msg("failed to retire previous rsvp")
			dto.InternalServerError(ctx)
			return
		}
	}

	resp := &model.Response{
		ID:         uuid.NewString(),
		EventID:    e.ID,
		Type:       model.TypeRSVP,
		Published:  time.Now().UTC(),
		RSVPUserID: userID,
		RSVP:       req.Value,
		Author:     model.Author{Name: user.Name, URL: user.URL, Photo: user.Photo},
	}
	if err := s.repo.CreateResponse(ctx.Request.Context(), resp); err != nil {
		s.log.Error().Err(err).Msg("failed to store rsvp")
		dto.InternalServerError(ctx)
		return
	}

	s.log.Info().Str("key", e.Key).Int64("user_id", userID).Str("value", req.Value).Msg("rsvp recorded")
	dto.SuccessCreatedResponse(ctx, dto.ResponseView{
		ID:        resp.ID,
		Type:      resp.Type,
		Published: resp.Published,
		RSVP:      resp.RSVP,
		Author:    resp.Author,
	})
}

func (s *service) DeleteRSVP(ctx *ginext.Context) {
	e, ok := s.eventFromPath(ctx)
	if !ok {
		return
	}
	userID := currentUserID(ctx)
	if userID == 0 {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Missing user identity")
		return
	}

	responses, err := s.repo.GetResponsesForEvent(ctx.Request.Context(), e.ID, false)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to load responses")
		dto.InternalServerError(ctx)
		return
	}
	prev := event.RSVPForUser(responses, userID)
	if prev == nil {
		dto.ResponseNotFoundError(ctx)
		return
	}
	if err := s.repo.SoftDeleteResponse(ctx.Request.Context(), prev.ID); err != nil {
		s.log.Error().Err(err).Msg("failed to delete rsvp")
		dto.InternalServerError(ctx)
		return
	}
	dto.SuccessResponse(ctx, nil)
}

// ReceiveWebmention accepts an inbound mention, checks that the target is
// one of our event permalinks, and queues it for the consumer worker.
// Verification and storage happen off the request path.
func (s *service) ReceiveWebmention(ctx *ginext.Context) {
	var req dto.WebmentionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, "Invalid JSON format")
		return
	}
	if verr := validator.Validate(ctx, req); verr != nil {
		dto.BadResponseError(ctx, dto.FieldIncorrect, fmt.Sprintf("%v", verr))
		return
	}

	key := event.ParseEventKey(req.Target)
	if key == "" {
		dto.BadResponseError(ctx, dto.TargetNotLocal, "Target is not an event permalink")
		return
	}
	metrics.WebmentionsReceived.Inc()

	m := webmention.Mention{
		EventKey: key,
		Source:   req.Source,
		Target:   req.Target,
		Payload:  req.Payload,
	}
	payload, err := json.Marshal(m)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to marshal mention")
		dto.InternalServerError(ctx)
		return
	}
	if err := s.rbt.Publish(payload); err != nil {
		s.log.Error().Err(err).Msg("failed to queue mention")
		dto.InternalServerError(ctx)
		return
	}

	dto.SuccessAcceptedResponse(ctx, map[string]string{"event_key": key})
}

// ResolvePermalink serves canonical /{YYYY}/{MM}/{slug}-{key} paths, plus
// their .ics variant. Installed as the router's NoRoute handler; paths
// that do not parse are plain 404s.
func (s *service) ResolvePermalink(ctx *ginext.Context) {
	path := ctx.Request.URL.Path

	wantICS := false
	if len(path) > 4 && path[len(path)-4:] == ".ics" {
		wantICS = true
		path = path[:len(path)-4]
	}

	key := event.ParseEventKey(path)
	if key == "" {
		dto.EventNotFoundError(ctx)
		return
	}

	e, err := s.repo.GetEventByKey(ctx.Request.Context(), key, false)
	if err != nil {
		if errors.Is(err, repo.ErrEventNotFound) {
			dto.EventNotFoundError(ctx)
			return
		}
		s.log.Error().Err(err).Msg("failed to resolve permalink")
		dto.InternalServerError(ctx)
		return
	}

	if wantICS {
		body, err := ics.Export(e, s.origin)
		if err != nil {
			dto.InternalServerError(ctx)
			return
		}
		ctx.Data(200, "text/calendar; charset=utf-8", []byte(body))
		return
	}

	page, err := s.buildPage(ctx, e, currentUserID(ctx))
	if err != nil {
		dto.InternalServerError(ctx)
		return
	}
	dto.SuccessResponse(ctx, page)
}

// eventFromPath loads the event addressed by the :key path parameter and
// writes the error response itself when the lookup fails.
func (s *service) eventFromPath(ctx *ginext.Context) (*model.Event, bool) {
	key := ctx.Param("key")
	includeDeleted := ctx.Query("include_deleted") == "true"

	e, err := s.repo.GetEventByKey(ctx.Request.Context(), key, includeDeleted)
	if err != nil {
		if errors.Is(err, repo.ErrEventNotFound) {
			dto.EventNotFoundError(ctx)
		} else {
			s.log.Error().Err(err).Str("key", key).Msg("failed to load event")
			dto.InternalServerError(ctx)
		}
		return nil, false
	}
	return e, true
}

// currentUserID reads the authenticated user from the header the fronting
// auth layer sets. Zero means anonymous.
func currentUserID(ctx *ginext.Context) int64 {
	id, err := strconv.ParseInt(ctx.GetHeader("X-User-ID"), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

func eventFromRequest(req *dto.CreateEventRequest) *model.Event {
	return &model.Event{
		Slug:             event.SlugFromName(req.Name),
		Name:             req.Name,
		Description:      req.Description,
		StartDate:        req.StartDate,
		EndDate:          req.EndDate,
		StartTime:        req.StartTime,
		EndTime:          req.EndTime,
		Website:          req.Website,
		LocationName:     req.LocationName,
		LocationAddress:  req.LocationAddress,
		LocationLocality: req.LocationLocality,
		LocationRegion:   req.LocationRegion,
		LocationCountry:  req.LocationCountry,
	}
}
