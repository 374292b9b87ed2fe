package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/dbpg"

	"eventpub/internal/model"
)

var (
	ErrEventNotFound    = errors.New("event not found")
	ErrResponseNotFound = errors.New("response not found")
	ErrUserNotFound     = errors.New("user not found")
)

type Repository interface {
	CreateEvent(ctx context.Context, e *model.Event) (int64, error)
	UpdateEvent(ctx context.Context, e *model.Event) error
	SoftDeleteEvent(ctx context.Context, id int64) error
	GetEventByKey(ctx context.Context, key string, includeDeleted bool) (*model.Event, error)
	ListEvents(ctx context.Context, includeDeleted bool) ([]model.Event, error)

	CreateResponse(ctx context.Context, r *model.Response) error
	SoftDeleteResponse(ctx context.Context, id string) error
	GetResponsesForEvent(ctx context.Context, eventID int64, includeDeleted bool) ([]model.Response, error)

	GetTagsForEvent(ctx context.Context, eventID int64) ([]model.Tag, error)
	SetEventTags(ctx context.Context, eventID int64, labels []string) error

	GetUserByID(ctx context.Context, id int64) (*model.User, error)

	PurgeDeleted(ctx context.Context, olderThan time.Duration) (int64, error)

	MigrateUp(migrationsDir string) error
	MigrateDown(migrationsDir string) error
}

type repository struct {
	db  *dbpg.DB
	log *zerolog.Logger
}

func NewRepository(db *dbpg.DB, log *zerolog.Logger) (Repository, error) {
	if db == nil {
		return nil, fmt.Errorf("db cannot be nil")
	}
	if err := db.Master.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}
	return &repository{db: db, log: log}, nil
}

func (r *repository) MigrateUp(migrationsDir string) error {
	return r.applyMigrations(migrationsDir, "*.up.sql")
}

func (r *repository) MigrateDown(migrationsDir string) error {
	return r.applyMigrations(migrationsDir, "*.down.sql")
}

func (r *repository) applyMigrations(migrationsDir, pattern string) error {
	files, err := filepath.Glob(filepath.Join(migrationsDir, pattern))
	if err != nil {
		return fmt.Errorf("failed to read migration files: %w", err)
	}

	for _, file := range files {
		sqlBytes, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", file, err)
		}
		if _, err := r.db.ExecContext(context.Background(), string(sqlBytes)); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", file, err)
		}
	}

	r.log.Info().Msgf("Migrations (%s) applied from %s", pattern, migrationsDir)
	return nil
}

const eventColumns = `id, key, slug, name, description,
	start_date, end_date, start_time, end_time, website,
	location_name, location_address, location_locality, location_region, location_country,
	created_at, updated_at, deleted_at`

func scanEvent(row interface{ Scan(...any) error }) (*model.Event, error) {
	var e model.Event
	err := row.Scan(
		&e.ID, &e.Key, &e.Slug, &e.Name, &e.Description,
		&e.StartDate, &e.EndDate, &e.StartTime, &e.EndTime, &e.Website,
		&e.LocationName, &e.LocationAddress, &e.LocationLocality, &e.LocationRegion, &e.LocationCountry,
		&e.CreatedAt, &e.UpdatedAt, &e.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *repository) CreateEvent(ctx context.Context, e *model.Event) (int64, error) {
	query := `
		INSERT INTO events (key, slug, name, description,
			start_date, end_date, start_time, end_time, website,
			location_name, location_address, location_locality, location_region, location_country,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW(), NOW())
		RETURNING id
	`
	row := r.db.QueryRowContext(ctx, query,
		e.Key, e.Slug, e.Name, e.Description,
		e.StartDate, e.EndDate, e.StartTime, e.EndTime, e.Website,
		e.LocationName, e.LocationAddress, e.LocationLocality, e.LocationRegion, e.LocationCountry,
	)

	var id int64
	if err := row.Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to insert event: %w", err)
	}
	return id, nil
}

// UpdateEvent rewrites every mutable field. The key column is deliberately
// absent: permalinks embed it and it never changes after creation.
func (r *repository) UpdateEvent(ctx context.Context, e *model.Event) error {
	query := `
		UPDATE events
		SET slug = $1, name = $2, description = $3,
			start_date = $4, end_date = $5, start_time = $6, end_time = $7, website = $8,
			location_name = $9, location_address = $10, location_locality = $11,
			location_region = $12, location_country = $13, updated_at = NOW()
		WHERE id = $14 AND deleted_at IS NULL
		RETURNING id
	`
	var id int64
	err := r.db.QueryRowContext(ctx, query,
		e.Slug, e.Name, e.Description,
		e.StartDate, e.EndDate, e.StartTime, e.EndTime, e.Website,
		e.LocationName, e.LocationAddress, e.LocationLocality, e.LocationRegion, e.LocationCountry,
		e.ID,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrEventNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}
	return nil
}

func (r *repository) SoftDeleteEvent(ctx context.Context, id int64) error {
	var got int64
	err := r.db.QueryRowContext(ctx, `
		UPDATE events SET deleted_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING id
	`, id).Scan(&got)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrEventNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to soft-delete event: %w", err)
	}
	return nil
}

func (r *repository) GetEventByKey(ctx context.Context, key string, includeDeleted bool) (*model.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE key = $1`
	if !includeDeleted {
		query += ` AND deleted_at IS NULL`
	}
	e, err := scanEvent(r.db.QueryRowContext(ctx, query, key))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event by key: %w", err)
	}
	return e, nil
}

func (r *repository) ListEvents(ctx context.Context, includeDeleted bool) ([]model.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events`
	if !includeDeleted {
		query += ` WHERE deleted_at IS NULL`
	}
	query += ` ORDER BY start_date DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

const responseColumns = `id, event_id, type, published, url, source_url,
	rsvp_user_id, rsvp, photos, name, content_text,
	author_name, author_url, author_photo, created_at, deleted_at`

func (r *repository) CreateResponse(ctx context.Context, resp *model.Response) error {
	photos, err := json.Marshal(resp.Photos)
	if err != nil {
		return fmt.Errorf("failed to encode photos: %w", err)
	}
	query := `
		INSERT INTO responses (id, event_id, type, published, url, source_url,
			rsvp_user_id, rsvp, photos, name, content_text,
			author_name, author_url, author_photo, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW())
	`
	if _, err := r.db.ExecContext(ctx, query,
		resp.ID, resp.EventID, resp.Type, resp.Published, resp.URL, resp.SourceURL,
		resp.RSVPUserID, resp.RSVP, photos, resp.Name, resp.ContentText,
		resp.Author.Name, resp.Author.URL, resp.Author.Photo,
	); err != nil {
		return fmt.Errorf("failed to insert response: %w", err)
	}
	return nil
}

func (r *repository) SoftDeleteResponse(ctx context.Context, id string) error {
	var got string
	err := r.db.QueryRowContext(ctx, `
		UPDATE responses SET deleted_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING id
	`, id).Scan(&got)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrResponseNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to soft-delete response: %w", err)
	}
	return nil
}

func (r *repository) GetResponsesForEvent(ctx context.Context, eventID int64, includeDeleted bool) ([]model.Response, error) {
	query := `SELECT ` + responseColumns + ` FROM responses WHERE event_id = $1`
	if !includeDeleted {
		query += ` AND deleted_at IS NULL`
	}
	query += ` ORDER BY published ASC`

	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get responses: %w", err)
	}
	defer rows.Close()

	var responses []model.Response
	for rows.Next() {
		var resp model.Response
		var photos []byte
		if err := rows.Scan(
			&resp.ID, &resp.EventID, &resp.Type, &resp.Published, &resp.URL, &resp.SourceURL,
			&resp.RSVPUserID, &resp.RSVP, &photos, &resp.Name, &resp.ContentText,
			&resp.Author.Name, &resp.Author.URL, &resp.Author.Photo,
			&resp.CreatedAt, &resp.DeletedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan response: %w", err)
		}
		if len(photos) > 0 {
			if err := json.Unmarshal(photos, &resp.Photos); err != nil {
				r.log.Warn().Err(err).Str("response_id", resp.ID).Msg("skipping undecodable photos payload")
			}
		}
		responses = append(responses, resp)
	}
	return responses, rows.Err()
}

func (r *repository) GetTagsForEvent(ctx context.Context, eventID int64) ([]model.Tag, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT t.id, t.tag
		FROM tags t
		JOIN event_tags et ON et.tag_id = t.id
		WHERE et.event_id = $1
		ORDER BY et.position ASC
	`, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get tags: %w", err)
	}
	defer rows.Close()

	var tags []model.Tag
	for rows.Next() {
		var t model.Tag
		if err := rows.Scan(&t.ID, &t.Tag); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

func (r *repository) SetEventTags(ctx context.Context, eventID int64, labels []string) error {
	tx, err := r.db.Master.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM event_tags WHERE event_id = $1`, eventID); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to clear event tags: %w", err)
	}

	for i, label := range labels {
		var tagID int64
		err := tx.QueryRowContext(ctx, `
			INSERT INTO tags (tag) VALUES ($1)
			ON CONFLICT (tag) DO UPDATE SET tag = EXCLUDED.tag
			RETURNING id
		`, label).Scan(&tagID)
		if err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to upsert tag %q: %w", label, err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO event_tags (event_id, tag_id, position) VALUES ($1, $2, $3)
		`, eventID, tagID, i); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to link tag %q: %w", label, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit tag update: %w", err)
	}
	return nil
}

func (r *repository) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	var u model.User
	err := r.db.QueryRowContext(ctx, `
		SELECT id, username, name, url, photo FROM users WHERE id = $1
	`, id).Scan(&u.ID, &u.Username, &u.Name, &u.URL, &u.Photo)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

// PurgeDeleted hard-removes rows that have been soft-deleted for longer
// than the retention window. Responses go first so event rows never leave
// orphans behind.
func (r *repository) PurgeDeleted(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan)

	var total int64
	res, err := r.db.ExecContext(ctx, `DELETE FROM responses WHERE deleted_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge responses: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil {
		total += n
	}

	res, err = r.db.ExecContext(ctx, `DELETE FROM events WHERE deleted_at < $1`, cutoff)
	if err != nil {
		return total, fmt.Errorf("failed to purge events: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil {
		total += n
	}

	return total, nil
}
