package dto

import (
	"time"

	"github.com/wb-go/wbf/ginext"

	"eventpub/internal/event"
	"eventpub/internal/model"
)

const (
	FieldBadFormat     = "FIELD_BADFORMAT"
	FieldIncorrect     = "FIELD_INCORRECT"
	ServiceUnavailable = "SERVICE_UNAVAILABLE"
	InternalError      = "Service is currently unavailable. Please try again later."

	EventNotFound    = "EVENT_NOT_FOUND"
	ResponseNotFound = "RESPONSE_NOT_FOUND"
	TargetNotLocal   = "TARGET_NOT_LOCAL"
)

type CreateEventRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Description string `json:"description"`

	StartDate string `json:"start_date" validate:"required,dateonly"`
	EndDate   string `json:"end_date" validate:"omitempty,dateonly"`
	StartTime string `json:"start_time" validate:"omitempty,clocktime"`
	EndTime   string `json:"end_time" validate:"omitempty,clocktime"`

	Website string `json:"website" validate:"omitempty,url"`

	LocationName     string `json:"location_name"`
	LocationAddress  string `json:"location_address"`
	LocationLocality string `json:"location_locality"`
	LocationRegion   string `json:"location_region"`
	LocationCountry  string `json:"location_country"`

	Tags []string `json:"tags"`
}

type RSVPRequest struct {
	Value string `json:"value" validate:"required,rsvpvalue"`
}

// WebmentionRequest is the inbound notification: a source document that
// mentions one of our event permalinks, plus the already-fetched parsed
// payload of that document.
type WebmentionRequest struct {
	Source  string            `json:"source" validate:"required,url"`
	Target  string            `json:"target" validate:"required,url"`
	Payload WebmentionPayload `json:"payload"`
}

// WebmentionPayload carries the microformat properties extracted from the
// source document by the fetching collaborator.
type WebmentionPayload struct {
	Kind        string        `json:"kind"`
	Published   time.Time     `json:"published"`
	URL         string        `json:"url"`
	Name        string        `json:"name"`
	ContentText string        `json:"content_text"`
	RSVP        string        `json:"rsvp"`
	Photos      []model.Image `json:"photos"`
	Author      model.Author  `json:"author"`
}

// EventPageResponse is the full facade projection the presentation layer
// renders an event page from.
type EventPageResponse struct {
	Key  string `json:"key"`
	Slug string `json:"slug,omitempty"`
	Name string `json:"name"`

	Permalink         string `json:"permalink"`
	AbsolutePermalink string `json:"absolute_permalink"`
	ICSPermalink      string `json:"ics_permalink"`

	DateSummary event.DateSummary `json:"date_summary"`
	DisplayDate string            `json:"display_date"`
	DisplayTime string            `json:"display_time,omitempty"`
	Weekday     string            `json:"weekday,omitempty"`
	Multiday    bool              `json:"multiday"`
	Past        bool              `json:"past"`

	LocationName            string `json:"location_name,omitempty"`
	LocationSummary         string `json:"location_summary,omitempty"`
	LocationSummaryWithName string `json:"location_summary_with_name,omitempty"`
	LocationCity            string `json:"location_city,omitempty"`

	Website string `json:"website,omitempty"`
	HTML    string `json:"html,omitempty"`

	Tags       []string `json:"tags,omitempty"`
	TagsString string   `json:"tags_string,omitempty"`

	RSVPsYes    []ResponseView `json:"rsvps_yes,omitempty"`
	RSVPsNo     []ResponseView `json:"rsvps_no,omitempty"`
	RSVPsMaybe  []ResponseView `json:"rsvps_maybe,omitempty"`
	RSVPsRemote []ResponseView `json:"rsvps_remote,omitempty"`
	BlogPosts   []ResponseView `json:"blog_posts,omitempty"`
	Comments    []ResponseView `json:"comments,omitempty"`

	Gallery []event.GalleryImage `json:"gallery,omitempty"`

	HasRSVPs     bool `json:"has_rsvps"`
	HasPhotos    bool `json:"has_photos"`
	HasBlogPosts bool `json:"has_blog_posts"`
	HasComments  bool `json:"has_comments"`

	UserRSVP string `json:"user_rsvp,omitempty"`
}

type ResponseView struct {
	ID          string       `json:"id"`
	Type        string       `json:"type"`
	Published   time.Time    `json:"published"`
	URL         string       `json:"url,omitempty"`
	Name        string       `json:"name,omitempty"`
	ContentText string       `json:"content_text,omitempty"`
	RSVP        string       `json:"rsvp,omitempty"`
	Author      model.Author `json:"author"`
}

type Response struct {
	Status string `json:"status"`
	Error  *Error `json:"error,omitempty"`
	Data   any    `json:"data,omitempty"`
}

type Error struct {
	Code string `json:"code"`
	Desc string `json:"desc"`
}

func BadResponseError(c *ginext.Context, code, desc string) {
	c.JSON(400, Response{
		Status: "error",
		Error: &Error{
			Code: code,
			Desc: desc,
		},
	})
}

func NotFoundError(c *ginext.Context, code, desc string) {
	c.JSON(404, Response{
		Status: "error",
		Error: &Error{
			Code: code,
			Desc: desc,
		},
	})
}

func InternalServerError(c *ginext.Context) {
	c.JSON(500, Response{
		Status: "error",
		Error: &Error{
			Code: ServiceUnavailable,
			Desc: InternalError,
		},
	})
}

func EventNotFoundError(c *ginext.Context) {
	NotFoundError(c, EventNotFound, "Event not found")
}

func ResponseNotFoundError(c *ginext.Context) {
	NotFoundError(c, ResponseNotFound, "Response not found")
}

func SuccessResponse(c *ginext.Context, data any) {
	c.JSON(200, Response{
		Status: "ok",
		Data:   data,
	})
}

func SuccessCreatedResponse(c *ginext.Context, data any) {
	c.JSON(201, Response{
		Status: "ok",
		Data:   data,
	})
}

func SuccessAcceptedResponse(c *ginext.Context, data any) {
	c.JSON(202, Response{
		Status: "ok",
		Data:   data,
	})
}
