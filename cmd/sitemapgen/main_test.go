package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func setupProject(t *testing.T, pages ...string) (configFile, outputPath string) {
	t.Helper()
	root := t.TempDir()
	src := filepath.Join(root, "src", "app")
	out := filepath.Join(root, "public")

	if err := os.MkdirAll(src, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	for _, p := range pages {
		full := filepath.Join(src, filepath.FromSlash(p))
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(full, []byte("export default function Page() {}\n"), 0644); err != nil {
			t.Fatalf("write page: %v", err)
		}
	}

	body := fmt.Sprintf("site:\n  baseurl: https://example.com\nsource:\n  dir: %q\noutput:\n  dir: %q\n", src, out)
	configFile = filepath.Join(root, "config.yaml")
	if err := os.WriteFile(configFile, []byte(body), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return configFile, filepath.Join(out, "sitemap.xml")
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { configPath, verbose = "", false })
	err := rootCmd.Execute()
	return out.String(), err
}

func TestGenerateCommand(t *testing.T) {
	configFile, outputPath := setupProject(t, "page.tsx", "about/page.tsx", "dashboard/page.tsx")

	if _, err := execute(t, "generate", "--config", configFile); err != nil {
		t.Fatalf("generate: %v", err)
	}

	data, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("read sitemap: %v", err)
	}
	if got := strings.Count(string(data), "<url>"); got != 2 {
		t.Errorf("sitemap has %d urls, want 2:\n%s", got, data)
	}
	if !strings.Contains(string(data), "<loc>https://example.com/about</loc>") {
		t.Errorf("about missing:\n%s", data)
	}
}

func TestRootRunsGeneration(t *testing.T) {
	configFile, outputPath := setupProject(t)

	if _, err := execute(t, "--config", configFile); err != nil {
		t.Fatalf("root: %v", err)
	}
	if _, err := os.Stat(outputPath); err != nil {
		t.Fatalf("sitemap not written: %v", err)
	}
}

func TestRoutesCommand(t *testing.T) {
	configFile, outputPath := setupProject(t, "page.tsx", "(auth)/login/page.tsx")

	out, err := execute(t, "routes", "--config", configFile)
	if err != nil {
		t.Fatalf("routes: %v", err)
	}
	for _, want := range []string{"LOC", "https://example.com/login", "0.6", "monthly"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if _, err := os.Stat(outputPath); !os.IsNotExist(err) {
		t.Error("routes must not write the sitemap")
	}
}

func TestGenerateCommandFails(t *testing.T) {
	configFile, outputPath := setupProject(t)
	if err := os.RemoveAll(filepath.Join(filepath.Dir(configFile), "src")); err != nil {
		t.Fatalf("remove source: %v", err)
	}

	if _, err := execute(t, "generate", "--config", configFile); err == nil {
		t.Fatal("expected error for missing source directory")
	}
	if _, err := os.Stat(outputPath); !os.IsNotExist(err) {
		t.Error("no sitemap should be written on failure")
	}
}

func TestInspectCommand(t *testing.T) {
	configFile, _ := setupProject(t, "page.tsx", "about/page.tsx")
	if _, err := execute(t, "generate", "--config", configFile); err != nil {
		t.Fatalf("generate: %v", err)
	}

	src := filepath.Join(filepath.Dir(configFile), "src", "app")
	if err := os.MkdirAll(filepath.Join(src, "terms"), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(src, "terms", "page.tsx"), []byte("x"), 0644); err != nil {
		t.Fatalf("write page: %v", err)
	}

	out, err := execute(t, "inspect", "--config", configFile)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	for _, want := range []string{"Total URLs: 2", "daily", "monthly", "Pending changes: 1 added, 0 removed", "+ https://example.com/terms"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestInspectMissingSitemap(t *testing.T) {
	configFile, _ := setupProject(t)
	if _, err := execute(t, "inspect", "--config", configFile); err == nil {
		t.Fatal("expected error when no sitemap exists")
	}
}
