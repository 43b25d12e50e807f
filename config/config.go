package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/romangod6/route-sitemap/internal/classify"
	"github.com/romangod6/route-sitemap/internal/routes"
	"github.com/romangod6/route-sitemap/internal/sitemap"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. SITEMAP_SITE_BASEURL.
const EnvPrefix = "SITEMAP"

type Config struct {
	Site struct {
		BaseURL string
	}
	Source struct {
		Dir        string
		PageName   string
		Extensions []string
	}
	Output struct {
		Dir      string
		FileName string
	}
	Routes   []classify.Rule
	Exclude  []string
	Database struct {
		Driver string
		URL    string
	}
	Server struct {
		Port int
	}
	Generator struct {
		Interval string
	}
	Log struct {
		Dir string
	}
}

// ConfigError reports an invalid configuration value.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}

// LoadConfig reads config.yaml from the working directory or ./config, or
// from path when it is set. Without a config file the built-in defaults apply.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if len(config.Routes) == 0 {
		config.Routes = classify.DefaultRules()
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Default returns the built-in configuration without touching the
// filesystem or environment.
func Default() *Config {
	v := viper.New()
	setDefaults(v)

	var config Config
	// Defaults are plain values; decoding them cannot fail.
	_ = v.Unmarshal(&config)
	config.Routes = classify.DefaultRules()
	return &config
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("site.baseurl", "https://suparaise.com")

	v.SetDefault("source.dir", "src/app")
	v.SetDefault("source.pagename", "page")
	v.SetDefault("source.extensions", routes.DefaultOptions().Extensions)

	v.SetDefault("output.dir", "public")
	v.SetDefault("output.filename", "sitemap.xml")

	v.SetDefault("exclude", []string{"api/", "callback", "dashboard", "verify", "reset-password"})

	v.SetDefault("database.driver", "")
	v.SetDefault("database.url", "")

	v.SetDefault("server.port", 8080)
	v.SetDefault("generator.interval", "24h")
	v.SetDefault("log.dir", "")
}

// Validate checks the fields the generator depends on.
func (c *Config) Validate() error {
	if c.Site.BaseURL == "" {
		return &ConfigError{Field: "site.baseurl", Message: "required"}
	}
	if _, err := sitemap.ParseBaseURL(c.Site.BaseURL); err != nil {
		return &ConfigError{Field: "site.baseurl", Message: err.Error()}
	}
	if c.Source.Dir == "" {
		return &ConfigError{Field: "source.dir", Message: "required"}
	}
	if c.Output.Dir == "" || c.Output.FileName == "" {
		return &ConfigError{Field: "output", Message: "dir and filename are required"}
	}
	if _, err := classify.NewTable(c.Routes); err != nil {
		return &ConfigError{Field: "routes", Message: err.Error()}
	}
	switch c.Database.Driver {
	case "", "sqlite3", "postgres":
	default:
		return &ConfigError{Field: "database.driver", Message: "must be sqlite3 or postgres"}
	}
	if c.Database.Driver != "" && c.Database.URL == "" {
		return &ConfigError{Field: "database.url", Message: "required when a driver is set"}
	}
	if _, err := time.ParseDuration(c.Generator.Interval); err != nil {
		return &ConfigError{Field: "generator.interval", Message: err.Error()}
	}
	return nil
}

// OutputPath is where the sitemap is written.
func (c *Config) OutputPath() string {
	return filepath.Join(c.Output.Dir, c.Output.FileName)
}

// RouteOptions returns the discovery options for this configuration.
func (c *Config) RouteOptions() routes.Options {
	return routes.Options{
		PageName:   c.Source.PageName,
		Extensions: c.Source.Extensions,
		Exclude:    c.Exclude,
	}
}

// GetGenerateInterval falls back to a day when the interval does not parse.
func (c *Config) GetGenerateInterval() time.Duration {
	duration, err := time.ParseDuration(c.Generator.Interval)
	if err != nil || duration <= 0 {
		return 24 * time.Hour
	}
	return duration
}
