package main

import (
	"fmt"
	"os"

	"github.com/romangod6/route-sitemap/config"
	"github.com/romangod6/route-sitemap/internal/generator"
	"github.com/romangod6/route-sitemap/internal/storage"
	"github.com/romangod6/route-sitemap/internal/utils"
	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "sitemapgen",
	Short: "Generate sitemap.xml from a file-based routing tree",
	Long: `sitemapgen walks an app router source tree, derives the public route of
every static page, and writes a sitemap.xml for search engines.

Without a subcommand it runs a single generation, same as "sitemapgen generate".`,
	SilenceUsage: true,
	RunE:         runGenerate,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (default: ./config.yaml or ./config/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every route and change")
}

// app bundles what every subcommand needs. close releases the logger and store.
type app struct {
	cfg    *config.Config
	logger *utils.Logger
	store  storage.Store
	gen    *generator.Generator
}

func newApp(withStore bool) (*app, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return nil, err
	}

	logger, err := utils.NewLogger(cfg.Log.Dir, verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		return nil, err
	}

	a := &app{cfg: cfg, logger: logger}

	if withStore && cfg.Database.Driver != "" {
		store, err := storage.Open(cfg.Database.Driver, cfg.Database.URL)
		if err != nil {
			logger.LogError("Failed to initialize storage: %v", err)
			logger.Close()
			return nil, err
		}
		a.store = store
	}

	gen, err := generator.New(cfg, a.store, logger)
	if err != nil {
		logger.LogError("Failed to create generator: %v", err)
		a.close()
		return nil, err
	}
	a.gen = gen

	return a, nil
}

func (a *app) close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.LogError("Error closing storage: %v", err)
		}
	}
	a.logger.Close()
}
