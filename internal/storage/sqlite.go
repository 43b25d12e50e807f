package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/romangod6/route-sitemap/internal/models"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	if err := ping(db); err != nil {
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Initialize() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS runs (
            id TEXT PRIMARY KEY,
            status TEXT NOT NULL,
            base_url TEXT NOT NULL,
            output_path TEXT NOT NULL,
            route_count INTEGER NOT NULL DEFAULT 0,
            routes TEXT,
            added TEXT,
            removed TEXT,
            error TEXT,
            started_at DATETIME NOT NULL,
            finished_at DATETIME
        )`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at)`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("error executing query %s: %w", query, err)
		}
	}

	return nil
}

func (s *SQLiteStore) CreateRun(ctx context.Context, run *models.Run) error {
	query := `
        INSERT INTO runs (id, status, base_url, output_path, route_count, routes, added, removed, error, started_at, finished_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            status = excluded.status,
            route_count = excluded.route_count,
            routes = excluded.routes,
            added = excluded.added,
            removed = excluded.removed,
            error = excluded.error,
            finished_at = excluded.finished_at
    `

	routesJSON, err := marshalList(run.Routes)
	if err != nil {
		return err
	}
	addedJSON, err := marshalList(run.Added)
	if err != nil {
		return err
	}
	removedJSON, err := marshalList(run.Removed)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, query,
		run.ID.String(),
		run.Status,
		run.BaseURL,
		run.OutputPath,
		run.RouteCount,
		routesJSON,
		addedJSON,
		removedJSON,
		run.Error,
		run.StartedAt,
		nilIfZero(run.FinishedAt),
	)

	return err
}

func (s *SQLiteStore) GetRun(ctx context.Context, id uuid.UUID) (*models.Run, error) {
	query := `
        SELECT id, status, base_url, output_path, route_count, routes, added, removed, error, started_at, finished_at
        FROM runs
        WHERE id = ?
    `

	runs, err := s.queryRuns(ctx, query, id.String())
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return runs[0], nil
}

func (s *SQLiteStore) ListRuns(ctx context.Context, limit, offset int) ([]*models.Run, error) {
	query := `
        SELECT id, status, base_url, output_path, route_count, routes, added, removed, error, started_at, finished_at
        FROM runs
        ORDER BY started_at DESC
        LIMIT ? OFFSET ?
    `

	return s.queryRuns(ctx, query, limit, offset)
}

func (s *SQLiteStore) LatestRun(ctx context.Context) (*models.Run, error) {
	runs, err := s.ListRuns(ctx, 1, 0)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, nil
	}
	return runs[0], nil
}

func (s *SQLiteStore) queryRuns(ctx context.Context, query string, args ...interface{}) ([]*models.Run, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*models.Run
	for rows.Next() {
		var run models.Run
		var idStr string
		var routesJSON, addedJSON, removedJSON, errText sql.NullString
		var finishedAt sql.NullTime

		err := rows.Scan(
			&idStr,
			&run.Status,
			&run.BaseURL,
			&run.OutputPath,
			&run.RouteCount,
			&routesJSON,
			&addedJSON,
			&removedJSON,
			&errText,
			&run.StartedAt,
			&finishedAt,
		)
		if err != nil {
			return nil, err
		}

		run.ID, _ = uuid.Parse(idStr)
		run.Error = errText.String
		run.Routes = unmarshalList(routesJSON)
		run.Added = unmarshalList(addedJSON)
		run.Removed = unmarshalList(removedJSON)
		if finishedAt.Valid {
			t := finishedAt.Time
			run.FinishedAt = &t
		}

		runs = append(runs, &run)
	}

	return runs, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func marshalList(items []string) (string, error) {
	if items == nil {
		items = []string{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func unmarshalList(raw sql.NullString) []string {
	if !raw.Valid || raw.String == "" {
		return nil
	}
	var items []string
	if err := json.Unmarshal([]byte(raw.String), &items); err != nil || len(items) == 0 {
		return nil
	}
	return items
}

// nilIfZero keeps a missing finish time NULL in the database.
func nilIfZero(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return *t
}
