package config

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/elonfeng/newsprio/pkg/article"
	"github.com/elonfeng/newsprio/pkg/score"
	"gopkg.in/yaml.v3"
)

// Config is the root configuration.
type Config struct {
	Database  DatabaseConfig  `yaml:"database"`
	Ranking   RankingConfig   `yaml:"ranking"`
	Sentiment SentimentConfig `yaml:"sentiment"`
	Export    ExportConfig    `yaml:"export"`
	Import    ImportConfig    `yaml:"import"`
	Publish   PublishConfig   `yaml:"publish"`
	Log       LogConfig       `yaml:"log"`
}

// DatabaseConfig configures the SQLite session store.
type DatabaseConfig struct {
	Path string `yaml:"path"` // ":memory:" keeps the session in RAM only
}

// RankingConfig holds the selected location and overrides for the built-in
// weight tables. Entries not listed keep their default value.
type RankingConfig struct {
	Location        string                        `yaml:"location"`
	CategoryWeights map[string]float64            `yaml:"category_weights"`
	LocationWeights map[string]map[string]float64 `yaml:"location_weights"`
}

// SentimentConfig overrides VADER lexicon valences.
type SentimentConfig struct {
	Lexicon map[string]float64 `yaml:"lexicon"`
}

// ExportConfig configures CSV export.
type ExportConfig struct {
	Dir string `yaml:"dir"`
}

// ImportConfig configures feed import.
type ImportConfig struct {
	Timeout          string              `yaml:"timeout"`
	UserAgent        string              `yaml:"user_agent"`
	FetchContent     bool                `yaml:"fetch_content"`
	MaxContent       int                 `yaml:"max_content"`
	DefaultCategory  string              `yaml:"default_category"`
	Feeds            []FeedItem          `yaml:"feeds"`
	CategoryKeywords map[string][]string `yaml:"category_keywords"`
}

// ParseTimeout returns the import timeout as time.Duration.
func (c ImportConfig) ParseTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// FeedItem is a single RSS feed entry.
type FeedItem struct {
	Name     string `yaml:"name"`
	URL      string `yaml:"url"`
	Category string `yaml:"category"` // optional; classified by keywords when empty
}

// PublishConfig configures where ranking reports are delivered.
type PublishConfig struct {
	Top     int           `yaml:"top"`
	Slack   SlackConfig   `yaml:"slack"`
	Discord DiscordConfig `yaml:"discord"`
	Webhook WebhookConfig `yaml:"webhook"`
}

// SlackConfig for Slack incoming webhooks.
type SlackConfig struct {
	Enabled    bool   `yaml:"enabled"`
	WebhookURL string `yaml:"webhook_url"`
}

// DiscordConfig for Discord webhooks.
type DiscordConfig struct {
	Enabled    bool   `yaml:"enabled"`
	WebhookURL string `yaml:"webhook_url"`
}

// WebhookConfig for generic webhook delivery.
type WebhookConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
	Secret  string `yaml:"secret"`
}

// LogConfig configures diagnostics.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{Path: ":memory:"},
		Ranking:  RankingConfig{Location: string(score.LocationMumbai)},
		Export:   ExportConfig{Dir: "."},
		Import: ImportConfig{
			Timeout:         "30s",
			UserAgent:       "newsprio/1.0",
			MaxContent:      4000,
			DefaultCategory: string(article.CategoryBusiness),
		},
		Publish: PublishConfig{Top: 5},
		Log:     LogConfig{Level: "info"},
	}
}

// Load reads configuration from a YAML file and applies env var overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks the location and builds the weight tables once.
func (c *Config) Validate() error {
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := c.Weights(); err != nil {
		return err
	}
	if _, err := article.ParseCategory(c.Import.DefaultCategory); err != nil {
		return fmt.Errorf("import default_category: %w", err)
	}
	for word, v := range c.Sentiment.Lexicon {
		if math.IsNaN(v) || v < -4 || v > 4 {
			return fmt.Errorf("sentiment lexicon %q: valence %g not in [-4, 4]", word, v)
		}
	}
	return nil
}

// Location returns the configured location.
func (c *Config) Location() (score.Location, error) {
	return score.ParseLocation(c.Ranking.Location)
}

// Weights overlays the ranking section on the default tables and validates
// the result. Keys match categories and locations ignoring case.
func (c *Config) Weights() (*score.Weights, error) {
	cw := score.DefaultCategoryWeights()
	seen := make(map[article.Category]bool)
	for name, v := range c.Ranking.CategoryWeights {
		cat, err := article.ParseCategory(name)
		if err != nil {
			return nil, fmt.Errorf("category_weights: %w", err)
		}
		if seen[cat] {
			return nil, fmt.Errorf("category_weights: %s listed twice", cat)
		}
		seen[cat] = true
		cw[cat] = v
	}

	lw := score.DefaultLocationWeights()
	seenLoc := make(map[score.Location]bool)
	for locName, m := range c.Ranking.LocationWeights {
		loc, err := score.ParseLocation(locName)
		if err != nil {
			return nil, fmt.Errorf("location_weights: %w", err)
		}
		if seenLoc[loc] {
			return nil, fmt.Errorf("location_weights: %s listed twice", loc)
		}
		seenLoc[loc] = true

		seen := make(map[article.Category]bool)
		for name, v := range m {
			cat, err := article.ParseCategory(name)
			if err != nil {
				return nil, fmt.Errorf("location_weights.%s: %w", locName, err)
			}
			if seen[cat] {
				return nil, fmt.Errorf("location_weights.%s: %s listed twice", locName, cat)
			}
			seen[cat] = true
			lw[loc][cat] = v
		}
	}

	return score.NewWeights(cw, lw)
}

// applyEnvOverrides overrides config values with environment variables.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("NEWSPRIO_DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
	if v := os.Getenv("NEWSPRIO_LOCATION"); v != "" {
		cfg.Ranking.Location = v
	}
	if v := os.Getenv("NEWSPRIO_EXPORT_DIR"); v != "" {
		cfg.Export.Dir = v
	}
	if v := os.Getenv("NEWSPRIO_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("SLACK_WEBHOOK_URL"); v != "" {
		cfg.Publish.Slack.WebhookURL = v
		cfg.Publish.Slack.Enabled = true
	}
	if v := os.Getenv("DISCORD_WEBHOOK_URL"); v != "" {
		cfg.Publish.Discord.WebhookURL = v
		cfg.Publish.Discord.Enabled = true
	}
	if v := os.Getenv("NEWSPRIO_WEBHOOK_URL"); v != "" {
		cfg.Publish.Webhook.URL = v
		cfg.Publish.Webhook.Enabled = true
	}
	if v := os.Getenv("NEWSPRIO_WEBHOOK_SECRET"); v != "" {
		cfg.Publish.Webhook.Secret = v
	}
}
