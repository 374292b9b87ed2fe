package model

import "time"

// Response types an event can collect. Anything outside this set is an
// anomaly and stays out of every derived view.
const (
	TypeRSVP     = "rsvp"
	TypePhoto    = "photo"
	TypeBlogPost = "blog_post"
	TypeComment  = "comment"
)

// RSVP values.
const (
	RSVPYes   = "yes"
	RSVPNo    = "no"
	RSVPMaybe = "maybe"
)

type Event struct {
	ID          int64  `db:"id" json:"id"`
	Key         string `db:"key" json:"key"`
	Slug        string `db:"slug" json:"slug,omitempty"`
	Name        string `db:"name" json:"name"`
	Description string `db:"description,omitempty" json:"description,omitempty"`

	// Calendar date ("2006-01-02") and optional time of day ("15:04").
	// Kept as strings so partially filled or malformed rows degrade at
	// render time instead of failing at scan time.
	StartDate string `db:"start_date" json:"start_date"`
	EndDate   string `db:"end_date,omitempty" json:"end_date,omitempty"`
	StartTime string `db:"start_time,omitempty" json:"start_time,omitempty"`
	EndTime   string `db:"end_time,omitempty" json:"end_time,omitempty"`

	Website string `db:"website,omitempty" json:"website,omitempty"`

	LocationName     string `db:"location_name,omitempty" json:"location_name,omitempty"`
	LocationAddress  string `db:"location_address,omitempty" json:"location_address,omitempty"`
	LocationLocality string `db:"location_locality,omitempty" json:"location_locality,omitempty"`
	LocationRegion   string `db:"location_region,omitempty" json:"location_region,omitempty"`
	LocationCountry  string `db:"location_country,omitempty" json:"location_country,omitempty"`

	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at" json:"deleted_at,omitempty"`
}

// Author is a resolved identity snapshot: either a local user's profile or
// the stored details of an external actor that arrived via webmention.
type Author struct {
	Name  string `json:"name,omitempty"`
	URL   string `json:"url,omitempty"`
	Photo string `json:"photo,omitempty"`
}

// Image is one picture inside a photo response. Attribution fields are
// optional; when empty the parent response's author applies.
type Image struct {
	URL        string `json:"url"`
	Alt        string `json:"alt,omitempty"`
	AuthorName string `json:"author_name,omitempty"`
	AuthorURL  string `json:"author_url,omitempty"`
}

type Response struct {
	ID        string    `db:"id" json:"id"`
	EventID   int64     `db:"event_id" json:"event_id"`
	Type      string    `db:"type" json:"type"`
	Published time.Time `db:"published" json:"published"`
	URL       string    `db:"url,omitempty" json:"url,omitempty"`
	SourceURL string    `db:"source_url,omitempty" json:"source_url,omitempty"`

	// RSVPUserID is set when the response was authored by a local user;
	// zero means the author is an external identity known only through
	// the Author snapshot.
	RSVPUserID int64  `db:"rsvp_user_id" json:"rsvp_user_id,omitempty"`
	RSVP       string `db:"rsvp,omitempty" json:"rsvp,omitempty"`

	Photos []Image `db:"photos" json:"photos,omitempty"`

	Name        string `db:"name,omitempty" json:"name,omitempty"`
	ContentText string `db:"content_text,omitempty" json:"content_text,omitempty"`

	Author Author `json:"author"`

	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	DeletedAt *time.Time `db:"deleted_at" json:"deleted_at,omitempty"`
}

// IsLocal reports whether the response was authored by a locally
// authenticated user rather than a federated external identity.
func (r *Response) IsLocal() bool {
	return r.RSVPUserID != 0
}

type Tag struct {
	ID  int64  `db:"id" json:"id"`
	Tag string `db:"tag" json:"tag"`
}

type User struct {
	ID       int64  `db:"id" json:"id"`
	Username string `db:"username" json:"username"`
	Name     string `db:"name,omitempty" json:"name,omitempty"`
	URL      string `db:"url,omitempty" json:"url,omitempty"`
	Photo    string `db:"photo,omitempty" json:"photo,omitempty"`
}
