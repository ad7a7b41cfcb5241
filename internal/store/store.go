// Package store persists tool records in Postgres. Link is the canonical
// identity of a tool: a partial unique index on non-empty links backs the
// upsert, so concurrent hunts for the same tool cannot produce duplicate
// rows.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/toolhunter/toolhunter/models"
)

type Store struct {
	DB *sql.DB
}

// NewWithDSN opens a Postgres connection and verifies it.
func NewWithDSN(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return &Store{DB: db}, nil
}

const toolColumns = `id, title, description, link, tutorial_link, tags, utility_score, pricing, pros, votes, COALESCE(slug, ''), image_url, created_at`

func scanTool(row interface{ Scan(...any) error }) (models.Tool, error) {
	var t models.Tool
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Link, &t.TutorialLink,
		pq.Array(&t.Tags), &t.UtilityScore, &t.Pricing, pq.Array(&t.Pros),
		&t.Votes, &t.Slug, &t.ImageURL, &t.CreatedAt)
	return t, err
}

// ListTools returns all tools, newest first.
func (s *Store) ListTools(ctx context.Context) ([]models.Tool, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT `+toolColumns+` FROM tools ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []models.Tool
	for rows.Next() {
		t, err := scanTool(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// GetToolByLink looks a tool up by its canonical link.
func (s *Store) GetToolByLink(ctx context.Context, link string) (models.Tool, error) {
	row := s.DB.QueryRowContext(ctx, `SELECT `+toolColumns+` FROM tools WHERE link = $1`, link)
	t, err := scanTool(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Tool{}, models.ErrToolNotFound
	}
	return t, err
}

// GetToolBySlug looks a tool up by its detail-page slug.
func (s *Store) GetToolBySlug(ctx context.Context, slug string) (models.Tool, error) {
	row := s.DB.QueryRowContext(ctx, `SELECT `+toolColumns+` FROM tools WHERE slug = $1`, slug)
	t, err := scanTool(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Tool{}, models.ErrToolNotFound
	}
	return t, err
}

// UpsertToolByLink inserts t and returns the stored row. When a row with the
// same non-empty link already exists the insert is a no-op and the existing
// row is returned instead, so two concurrent upserts of one link converge on
// a single record. Tools with an empty link (social-scrubbed ones) are always
// inserted.
func (s *Store) UpsertToolByLink(ctx context.Context, t models.Tool) (models.Tool, error) {
	stored, err := s.insertTool(ctx, t)
	if err == nil {
		return stored, nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" && pqErr.Constraint == "tools_slug_key" {
		// Distinct tools can share a title; disambiguate the slug and retry.
		t.Slug = t.Slug + "-" + uuid.NewString()[:8]
		stored, err = s.insertTool(ctx, t)
		if err == nil {
			return stored, nil
		}
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return models.Tool{}, fmt.Errorf("insert tool: %w", err)
	}
	// Conflict path: the row already existed, fetch it.
	return s.GetToolByLink(ctx, t.Link)
}

func (s *Store) insertTool(ctx context.Context, t models.Tool) (models.Tool, error) {
	var slug any
	if t.Slug != "" {
		slug = t.Slug
	}
	row := s.DB.QueryRowContext(ctx, `
        INSERT INTO tools (title, description, link, tutorial_link, tags, utility_score, pricing, pros, slug, image_url)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        ON CONFLICT (link) WHERE link <> '' DO NOTHING
        RETURNING `+toolColumns,
		t.Title, t.Description, t.Link, t.TutorialLink, pq.Array(t.Tags),
		t.UtilityScore, t.Pricing, pq.Array(t.Pros), slug, t.ImageURL)
	return scanTool(row)
}

// RecordVote registers one vote by voterID for toolID. Votes are idempotent
// per voter: the first vote inserts a tool_votes row and increments the
// denormalized counter in the same transaction; repeats leave the counter
// untouched and return counted=false. The returned count is the current
// total either way.
func (s *Store) RecordVote(ctx context.Context, toolID int64, voterID string) (votes int64, counted bool, err error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, false, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO tool_votes (tool_id, voter_id) VALUES ($1,$2) ON CONFLICT DO NOTHING`,
		toolID, voterID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return 0, false, models.ErrToolNotFound
		}
		return 0, false, err
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		return 0, false, err
	}

	if inserted > 0 {
		err = tx.QueryRowContext(ctx,
			`UPDATE tools SET votes = votes + 1 WHERE id = $1 RETURNING votes`, toolID).Scan(&votes)
	} else {
		err = tx.QueryRowContext(ctx,
			`SELECT votes FROM tools WHERE id = $1`, toolID).Scan(&votes)
	}
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, models.ErrToolNotFound
	}
	if err != nil {
		return 0, false, err
	}
	return votes, inserted > 0, tx.Commit()
}
