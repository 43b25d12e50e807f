package generator

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/romangod6/route-sitemap/config"
	"github.com/romangod6/route-sitemap/internal/models"
	"github.com/romangod6/route-sitemap/internal/sitemap"
	"github.com/romangod6/route-sitemap/internal/storage"
	"github.com/romangod6/route-sitemap/internal/utils"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()
	cfg := config.Default()
	cfg.Source.Dir = filepath.Join(root, "src", "app")
	cfg.Output.Dir = filepath.Join(root, "public")
	if err := os.MkdirAll(cfg.Source.Dir, 0755); err != nil {
		t.Fatalf("mkdir source: %v", err)
	}
	return cfg
}

func addPages(t *testing.T, dir string, paths ...string) {
	t.Helper()
	for _, p := range paths {
		full := filepath.Join(dir, filepath.FromSlash(p))
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(full, []byte("export default function Page() {}\n"), 0644); err != nil {
			t.Fatalf("write page: %v", err)
		}
	}
}

func newTestGenerator(t *testing.T, cfg *config.Config, store storage.Store) (*Generator, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	g, err := New(cfg, store, utils.NewWriterLogger(&logs, true))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	g.now = func() time.Time { return time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC) }
	return g, &logs
}

func readSitemap(t *testing.T, path string) *models.URLSet {
	t.Helper()
	set, err := sitemap.ReadFile(path)
	if err != nil {
		t.Fatalf("read sitemap: %v", err)
	}
	if set == nil {
		t.Fatalf("sitemap %s not written", path)
	}
	return set
}

func TestGenerateScenario(t *testing.T) {
	cfg := testConfig(t)
	addPages(t, cfg.Source.Dir,
		"page.tsx",
		"about/page.tsx",
		"(marketing)/pricing/page.tsx",
		"dashboard/page.tsx",
		"blog/[slug]/page.tsx",
	)
	g, _ := newTestGenerator(t, cfg, nil)

	run, err := g.Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if run.Status != models.RunCompleted {
		t.Errorf("Status = %q", run.Status)
	}
	if !reflect.DeepEqual(run.Routes, []string{"", "about", "pricing"}) {
		t.Errorf("Routes = %q", run.Routes)
	}

	set := readSitemap(t, cfg.OutputPath())
	want := []models.URL{
		{Loc: "https://suparaise.com", LastMod: "2025-06-01", ChangeFreq: "daily", Priority: "1.0"},
		{Loc: "https://suparaise.com/about", LastMod: "2025-06-01", ChangeFreq: "monthly", Priority: "0.7"},
		{Loc: "https://suparaise.com/pricing", LastMod: "2025-06-01", ChangeFreq: "weekly", Priority: "0.5"},
	}
	if !reflect.DeepEqual(set.URLs, want) {
		t.Errorf("sitemap urls = %+v, want %+v", set.URLs, want)
	}
}

func TestGenerateEmptyTree(t *testing.T) {
	cfg := testConfig(t)
	g, _ := newTestGenerator(t, cfg, nil)

	if _, err := g.Generate(context.Background()); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	set := readSitemap(t, cfg.OutputPath())
	if len(set.URLs) != 1 || set.URLs[0].Loc != cfg.Site.BaseURL {
		t.Fatalf("urls = %+v, want only the base URL", set.URLs)
	}
}

func TestGenerateMissingSource(t *testing.T) {
	cfg := testConfig(t)
	cfg.Source.Dir = filepath.Join(cfg.Source.Dir, "missing")
	g, logs := newTestGenerator(t, cfg, nil)

	run, err := g.Generate(context.Background())
	if !errors.Is(err, ErrDiscover) {
		t.Fatalf("error = %v, want ErrDiscover", err)
	}
	if run.Status != models.RunFailed || run.Error == "" {
		t.Errorf("run = %+v", run)
	}
	if _, statErr := os.Stat(cfg.OutputPath()); !os.IsNotExist(statErr) {
		t.Errorf("sitemap written despite failure: %v", statErr)
	}
	if !strings.Contains(logs.String(), "[ERROR] Error generating sitemap") {
		t.Errorf("failure not logged:\n%s", logs.String())
	}
}

func TestGenerateCancelled(t *testing.T) {
	cfg := testConfig(t)
	addPages(t, cfg.Source.Dir, "page.tsx")
	g, _ := newTestGenerator(t, cfg, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	run, err := g.Generate(ctx)
	if !errors.Is(err, ErrDiscover) || !errors.Is(err, context.Canceled) {
		t.Fatalf("Generate error = %v, want ErrDiscover wrapping context.Canceled", err)
	}
	if run.Status != models.RunFailed {
		t.Errorf("status = %s, want %s", run.Status, models.RunFailed)
	}
	if _, err := os.Stat(cfg.OutputPath()); !os.IsNotExist(err) {
		t.Errorf("sitemap written after cancel: %v", err)
	}
}

func TestGenerateWriteFailure(t *testing.T) {
	cfg := testConfig(t)
	// A regular file where the output directory should be.
	if err := os.WriteFile(cfg.Output.Dir, []byte("not a dir"), 0644); err != nil {
		t.Fatalf("write blocker: %v", err)
	}
	g, _ := newTestGenerator(t, cfg, nil)

	if _, err := g.Generate(context.Background()); !errors.Is(err, ErrWrite) {
		t.Fatalf("error = %v, want ErrWrite", err)
	}
}

func TestGenerateReportsChanges(t *testing.T) {
	cfg := testConfig(t)
	addPages(t, cfg.Source.Dir, "page.tsx", "about/page.tsx", "terms/page.tsx")
	g, _ := newTestGenerator(t, cfg, nil)

	first, err := g.Generate(context.Background())
	if err != nil {
		t.Fatalf("first Generate: %v", err)
	}
	if first.Added != nil || first.Removed != nil {
		t.Errorf("first run should have no diff, got +%q -%q", first.Added, first.Removed)
	}

	if err := os.RemoveAll(filepath.Join(cfg.Source.Dir, "terms")); err != nil {
		t.Fatalf("remove terms: %v", err)
	}
	addPages(t, cfg.Source.Dir, "privacy/page.tsx")

	second, err := g.Generate(context.Background())
	if err != nil {
		t.Fatalf("second Generate: %v", err)
	}
	if !reflect.DeepEqual(second.Added, []string{"https://suparaise.com/privacy"}) {
		t.Errorf("Added = %q", second.Added)
	}
	if !reflect.DeepEqual(second.Removed, []string{"https://suparaise.com/terms"}) {
		t.Errorf("Removed = %q", second.Removed)
	}
}

func TestGenerateRecordsRun(t *testing.T) {
	cfg := testConfig(t)
	addPages(t, cfg.Source.Dir, "page.tsx", "(auth)/login/page.tsx")

	store, err := storage.Open("sqlite3", filepath.Join(t.TempDir(), "runs.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	g, _ := newTestGenerator(t, cfg, store)
	run, err := g.Generate(context.Background())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	saved, err := store.GetRun(context.Background(), run.ID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if saved == nil || saved.RouteCount != 2 || saved.Status != models.RunCompleted {
		t.Fatalf("saved run = %+v", saved)
	}
}

func TestPreview(t *testing.T) {
	cfg := testConfig(t)
	addPages(t, cfg.Source.Dir, "page.tsx", "(auth)/signup/page.tsx")
	g, _ := newTestGenerator(t, cfg, nil)

	urls, err := g.Preview(context.Background())
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if len(urls) != 2 || urls[1].Loc != "https://suparaise.com/signup" || urls[1].Priority != "0.6" {
		t.Errorf("urls = %+v", urls)
	}
	if _, err := os.Stat(cfg.OutputPath()); !os.IsNotExist(err) {
		t.Error("Preview must not write the sitemap")
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Routes = cfg.Routes[:1]

	var cfgErr *config.ConfigError
	if _, err := New(cfg, nil, utils.NewWriterLogger(&bytes.Buffer{}, false)); !errors.As(err, &cfgErr) {
		t.Fatalf("error = %v, want ConfigError", err)
	}
}
