// Package generator runs the discover, classify, serialize and write
// pipeline that produces a sitemap file.
package generator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/romangod6/route-sitemap/config"
	"github.com/romangod6/route-sitemap/internal/classify"
	"github.com/romangod6/route-sitemap/internal/models"
	"github.com/romangod6/route-sitemap/internal/routes"
	"github.com/romangod6/route-sitemap/internal/sitemap"
	"github.com/romangod6/route-sitemap/internal/storage"
	"github.com/romangod6/route-sitemap/internal/utils"
)

// maxURLs is the sitemap protocol's per-file limit.
const maxURLs = 50000

type Generator struct {
	cfg    *config.Config
	table  *classify.Table
	store  storage.Store
	logger *utils.Logger

	// now is replaced in tests.
	now func() time.Time
	mu  sync.Mutex
}

// New builds a generator. store may be nil, in which case runs are not recorded.
func New(cfg *config.Config, store storage.Store, logger *utils.Logger) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	table, err := classify.NewTable(cfg.Routes)
	if err != nil {
		return nil, fmt.Errorf("build route table: %w", err)
	}

	return &Generator{
		cfg:    cfg,
		table:  table,
		store:  store,
		logger: logger,
		now:    time.Now,
	}, nil
}

// Generate writes the sitemap for the current source tree. The returned run
// is non-nil even on failure so callers can report it.
func (g *Generator) Generate(ctx context.Context) (*models.Run, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	outputPath := g.cfg.OutputPath()
	run := models.NewRun(g.cfg.Site.BaseURL, outputPath)
	g.logger.LogInfo("Starting sitemap generation %s", run.ID)
	g.logger.LogDebug("  Source dir: %s", g.cfg.Source.Dir)
	g.logger.LogDebug("  Base URL: %s", g.cfg.Site.BaseURL)
	g.logger.LogDebug("  Output: %s", outputPath)

	err := g.generate(ctx, run, outputPath)
	run.Finish(err)

	if err != nil {
		g.logger.LogError("Error generating sitemap: %v", err)
	} else {
		g.logger.LogInfo("Sitemap generated successfully at %s (%d routes, %s)",
			outputPath, run.RouteCount, run.Duration().Round(time.Millisecond))
	}

	g.record(ctx, run)

	return run, err
}

func (g *Generator) generate(ctx context.Context, run *models.Run, outputPath string) error {
	found, err := routes.Discover(g.cfg.Source.Dir, g.cfg.RouteOptions())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrDiscover, err)
	}
	g.logger.LogInfo("Found %d routes", len(found))
	for _, r := range found {
		g.logger.LogDebug("  route %q", r)
	}
	run.Routes = found
	run.RouteCount = len(found)

	if len(found) > maxURLs {
		g.logger.LogWarn("%d routes exceed the %d URL limit of a single sitemap", len(found), maxURLs)
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrDiscover, err)
	}

	set, err := sitemap.Build(found, g.table, g.cfg.Site.BaseURL, g.now())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSerialize, err)
	}

	doc, err := sitemap.Encode(set)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSerialize, err)
	}

	g.diff(run, outputPath, set)

	if err := sitemap.Write(doc, outputPath); err != nil {
		return fmt.Errorf("%w: %w", ErrWrite, err)
	}

	return nil
}

// diff compares against the sitemap left by the previous run. A previous
// file that cannot be read only costs us the report.
func (g *Generator) diff(run *models.Run, outputPath string, next *models.URLSet) {
	prev, err := sitemap.ReadFile(outputPath)
	if err != nil {
		g.logger.LogWarn("Could not read previous sitemap %s: %v", outputPath, err)
		return
	}
	if prev == nil {
		return
	}

	run.Added, run.Removed = sitemap.Diff(prev, next)
	if len(run.Added) > 0 || len(run.Removed) > 0 {
		g.logger.LogInfo("Route changes since last sitemap: %d added, %d removed", len(run.Added), len(run.Removed))
	}
	for _, loc := range run.Added {
		g.logger.LogDebug("  + %s", loc)
	}
	for _, loc := range run.Removed {
		g.logger.LogDebug("  - %s", loc)
	}
}

func (g *Generator) record(ctx context.Context, run *models.Run) {
	if g.store == nil {
		return
	}
	if err := g.store.CreateRun(ctx, run); err != nil {
		g.logger.LogError("Failed to record run %s: %v", run.ID, err)
	}
}

// Preview discovers and classifies routes without writing anything.
func (g *Generator) Preview(ctx context.Context) ([]models.URL, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	found, err := routes.Discover(g.cfg.Source.Dir, g.cfg.RouteOptions())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDiscover, err)
	}

	set, err := sitemap.Build(found, g.table, g.cfg.Site.BaseURL, g.now())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerialize, err)
	}

	return set.URLs, nil
}

// OutputPath is the file Generate writes.
func (g *Generator) OutputPath() string {
	return g.cfg.OutputPath()
}
