package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/romangod6/route-sitemap/internal/models"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(connStr string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	if err := ping(db); err != nil {
		return nil, err
	}

	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Initialize() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS runs (
            id UUID PRIMARY KEY,
            status VARCHAR(32) NOT NULL,
            base_url VARCHAR(2048) NOT NULL,
            output_path TEXT NOT NULL,
            route_count INTEGER NOT NULL DEFAULT 0,
            routes TEXT[],
            added TEXT[],
            removed TEXT[],
            error TEXT,
            started_at TIMESTAMPTZ NOT NULL,
            finished_at TIMESTAMPTZ
        )`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_routes ON runs USING GIN(routes)`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("error executing query %s: %w", query, err)
		}
	}

	return nil
}

func (s *PostgresStore) CreateRun(ctx context.Context, run *models.Run) error {
	query := `
        INSERT INTO runs (id, status, base_url, output_path, route_count, routes, added, removed, error, started_at, finished_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        ON CONFLICT (id) DO UPDATE SET
            status = EXCLUDED.status,
            route_count = EXCLUDED.route_count,
            routes = EXCLUDED.routes,
            added = EXCLUDED.added,
            removed = EXCLUDED.removed,
            error = EXCLUDED.error,
            finished_at = EXCLUDED.finished_at
    `

	_, err := s.db.ExecContext(ctx, query,
		run.ID,
		run.Status,
		run.BaseURL,
		run.OutputPath,
		run.RouteCount,
		pq.Array(run.Routes),
		pq.Array(run.Added),
		pq.Array(run.Removed),
		run.Error,
		run.StartedAt,
		nilIfZero(run.FinishedAt),
	)

	return err
}

func (s *PostgresStore) GetRun(ctx context.Context, id uuid.UUID) (*models.Run, error) {
	query := `
        SELECT id, status, base_url, output_path, route_count, routes, added, removed, error, started_at, finished_at
        FROM runs
        WHERE id = $1
    `

	runs, err := s.queryRuns(ctx, query, id)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return runs[0], nil
}

func (s *PostgresStore) ListRuns(ctx context.Context, limit, offset int) ([]*models.Run, error) {
	query := `
        SELECT id, status, base_url, output_path, route_count, routes, added, removed, error, started_at, finished_at
        FROM runs
        ORDER BY started_at DESC
        LIMIT $1 OFFSET $2
    `

	return s.queryRuns(ctx, query, limit, offset)
}

func (s *PostgresStore) LatestRun(ctx context.Context) (*models.Run, error) {
	runs, err := s.ListRuns(ctx, 1, 0)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return runs[0], nil
}

func (s *PostgresStore) queryRuns(ctx context.Context, query string, args ...interface{}) ([]*models.Run, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*models.Run
	for rows.Next() {
		var run models.Run
		var errText sql.NullString
		var finishedAt sql.NullTime

		err := rows.Scan(
			&run.ID,
			&run.Status,
			&run.BaseURL,
			&run.OutputPath,
			&run.RouteCount,
			pq.Array(&run.Routes),
			pq.Array(&run.Added),
			pq.Array(&run.Removed),
			&errText,
			&run.StartedAt,
			&finishedAt,
		)
		if err != nil {
			return nil, err
		}

		run.Error = errText.String
		if finishedAt.Valid {
			t := finishedAt.Time
			run.FinishedAt = &t
		}

		runs = append(runs, &run)
	}

	return runs, rows.Err()
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
