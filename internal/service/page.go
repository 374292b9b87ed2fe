package service

import (
	"github.com/wb-go/wbf/ginext"

	"eventpub/internal/dto"
	"eventpub/internal/event"
	"eventpub/internal/metrics"
	"eventpub/internal/model"
)

// buildPage materializes the event's related rows, resolves authors and
// projects the facade into the wire shape. userID, when non-zero, fills
// the caller's own RSVP value.
func (s *service) buildPage(ctx *ginext.Context, e *model.Event, userID int64) (*dto.EventPageResponse, error) {
	rctx := ctx.Request.Context()

	responses, err := s.repo.GetResponsesForEvent(rctx, e.ID, false)
	if err != nil {
		s.log.Error().Err(err).Str("key", e.Key).Msg("failed to load responses")
		return nil, err
	}
	s.resolveAuthors(ctx, responses)

	tags, err := s.repo.GetTagsForEvent(rctx, e.ID)
	if err != nil {
		s.log.Error().Err(err).Str("key", e.Key).Msg("failed to load tags")
		return nil, err
	}

	v := event.NewView(*e, responses, tags, s.origin)
	agg := v.Aggregate()
	if agg.Anomalies > 0 {
		metrics.ResponseAnomalies.WithLabelValues("aggregate").Add(float64(agg.Anomalies))
		s.log.Warn().Int("count", agg.Anomalies).Str("key", e.Key).Msg("responses outside taxonomy excluded from page")
	}

	labels := make([]string, 0, len(tags))
	for _, t := range tags {
		labels = append(labels, t.Tag)
	}

	page := &dto.EventPageResponse{
		Key:  e.Key,
		Slug: e.Slug,
		Name: e.Name,

		Permalink:         v.Permalink(),
		AbsolutePermalink: v.AbsolutePermalink(),
		ICSPermalink:      v.ICSPermalink(),

		DateSummary: v.DateSummary(),
		DisplayDate: v.DisplayDate(),
		DisplayTime: v.DisplayTime(),
		Weekday:     v.Weekday(),
		Multiday:    v.IsMultiday(),
		Past:        v.IsPast(),

		LocationName:            e.LocationName,
		LocationSummary:         v.LocationSummary(),
		LocationSummaryWithName: v.LocationSummaryWithName(),
		LocationCity:            v.LocationCity(),

		Website: e.Website,
		HTML:    v.HTML(),

		Tags:       labels,
		TagsString: v.TagsString(),

		RSVPsYes:    responseViews(agg.RSVPsYes),
		RSVPsNo:     responseViews(agg.RSVPsNo),
		RSVPsMaybe:  responseViews(agg.RSVPsMaybe),
		RSVPsRemote: responseViews(agg.RSVPsRemote),
		BlogPosts:   responseViews(agg.BlogPosts),
		Comments:    responseViews(agg.Comments),

		Gallery: agg.Gallery(),

		HasRSVPs:     agg.HasRSVPs(),
		HasPhotos:    agg.HasPhotos(),
		HasBlogPosts: agg.HasBlogPosts(),
		HasComments:  agg.HasComments(),
	}
	if userID != 0 {
		page.UserRSVP = v.RSVPStringForUser(userID)
	}
	return page, nil
}

// resolveAuthors fills in the author snapshot for locally-authored
// responses from the users table. External responses already carry their
// snapshot from webmention processing.
func (s *service) resolveAuthors(ctx *ginext.Context, responses []model.Response) {
	users := make(map[int64]*model.User)
	for i := range responses {
		r := &responses[i]
		if !r.IsLocal() || r.Author != (model.Author{}) {
			continue
		}
		u, ok := users[r.RSVPUserID]
		if !ok {
			var err error
			u, err = s.repo.GetUserByID(ctx.Request.Context(), r.RSVPUserID)
			if err != nil {
				s.log.Warn().Int64("user_id", r.RSVPUserID).Msg("response author not resolvable")
				continue
			}
			users[r.RSVPUserID] = u
		}
		r.Author = model.Author{Name: u.Name, URL: u.URL, Photo: u.Photo}
	}
}

func responseViews(responses []model.Response) []dto.ResponseView {
	if len(responses) == 0 {
		return nil
	}
	views := make([]dto.ResponseView, 0, len(responses))
	for _, r := range responses {
		url := r.URL
		if url == "" {
			url = r.SourceURL
		}
		views = append(views, dto.ResponseView{
			ID:          r.ID,
			Type:        r.Type,
			Published:   r.Published,
			URL:         url,
			Name:        r.Name,
			ContentText: r.ContentText,
			RSVP:        r.RSVP,
			Author:      r.Author,
		})
	}
	return views
}
