package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"wamigrate/internal/project"
)

// ErrStale is returned when an update loses an optimistic-concurrency race:
// the row's updated_at no longer matches the snapshot the caller edited.
var ErrStale = errors.New("project was modified by another writer")

// ErrNotFound is returned when no project row matches the given id.
var ErrNotFound = errors.New("project not found")

// Store persists migration projects as versioned JSON payloads. It wraps a
// shared *sql.DB with pooling; callers own the pool lifecycle.
type Store struct {
	DB *sql.DB
}

// New creates a new Store that uses a shared *sql.DB with pooling.
func New(database *sql.DB) *Store {
	return &Store{DB: database}
}

// ProjectSummary is the list-view row for a stored project.
type ProjectSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	SiteURL   string    `json:"siteUrl"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateProject inserts a new project row.
func (s *Store) CreateProject(ctx context.Context, p project.Project) error {
	id, err := uuid.Parse(p.ID)
	if err != nil {
		return fmt.Errorf("invalid project id: %w", err)
	}

	payload, err := project.Encode(p)
	if err != nil {
		return err
	}

	_, err = s.DB.ExecContext(ctx,
		`INSERT INTO projects (id, name, site_url, payload, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		id, p.Name, p.SiteURL, payload, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert project: %w", err)
	}
	return nil
}

// GetProject loads and decodes one project by id.
func (s *Store) GetProject(ctx context.Context, id string) (project.Project, error) {
	pid, err := uuid.Parse(id)
	if err != nil {
		return project.Project{}, fmt.Errorf("invalid project id: %w", err)
	}

	var payload []byte
	err = s.DB.QueryRowContext(ctx,
		`SELECT payload FROM projects WHERE id = $1`, pid).Scan(&payload)
	if err == sql.ErrNoRows {
		return project.Project{}, ErrNotFound
	}
	if err != nil {
		return project.Project{}, fmt.Errorf("select project: %w", err)
	}

	return project.Decode(payload)
}

// UpdateProject overwrites a project payload, guarded by the updated_at
// the caller last read. A concurrent edit surfaces as ErrStale; callers
// re-read and retry rather than overwrite blind.
func (s *Store) UpdateProject(ctx context.Context, p project.Project, lastSeen time.Time) error {
	pid, err := uuid.Parse(p.ID)
	if err != nil {
		return fmt.Errorf("invalid project id: %w", err)
	}

	payload, err := project.Encode(p)
	if err != nil {
		return err
	}

	res, err := s.DB.ExecContext(ctx,
		`UPDATE projects SET name = $2, site_url = $3, payload = $4, updated_at = $5
		 WHERE id = $1 AND updated_at = $6`,
		pid, p.Name, p.SiteURL, payload, p.UpdatedAt, lastSeen)
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	if n == 0 {
		// Distinguish a missing row from a lost race.
		var exists bool
		if qerr := s.DB.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM projects WHERE id = $1)`, pid).Scan(&exists); qerr == nil && !exists {
			return ErrNotFound
		}
		return ErrStale
	}
	return nil
}

// ListProjects returns summaries of all stored projects, newest first.
func (s *Store) ListProjects(ctx context.Context) ([]ProjectSummary, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, name, site_url, created_at, updated_at
		 FROM projects ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var out []ProjectSummary
	for rows.Next() {
		var (
			id  uuid.UUID
			sum ProjectSummary
		)
		if err := rows.Scan(&id, &sum.Name, &sum.SiteURL, &sum.CreatedAt, &sum.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan project row: %w", err)
		}
		sum.ID = id.String()
		out = append(out, sum)
	}
	return out, rows.Err()
}

// DeleteProject removes a project row.
func (s *Store) DeleteProject(ctx context.Context, id string) error {
	pid, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid project id: %w", err)
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, pid)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
