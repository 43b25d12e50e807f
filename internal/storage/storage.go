package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/romangod6/route-sitemap/internal/models"
)

// Store keeps the history of generation runs.
type Store interface {
	Initialize() error
	Close() error

	CreateRun(ctx context.Context, run *models.Run) error
	GetRun(ctx context.Context, id uuid.UUID) (*models.Run, error)
	ListRuns(ctx context.Context, limit, offset int) ([]*models.Run, error)
	LatestRun(ctx context.Context) (*models.Run, error)
}

// Open connects to the store for driver and creates its tables.
func Open(driver, url string) (Store, error) {
	var (
		store Store
		err   error
	)

	switch driver {
	case "sqlite3":
		store, err = NewSQLiteStore(url)
	case "postgres":
		store, err = NewPostgresStore(url)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
	if err != nil {
		return nil, err
	}

	if err := store.Initialize(); err != nil {
		store.Close()
		return nil, err
	}

	return store, nil
}

// ping checks the connection and releases the pool when it fails.
func ping(db *sql.DB) error {
	if err := db.Ping(); err != nil {
		db.Close()
		return err
	}
	return nil
}
