package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables consulted when the config file leaves a value unset.
const (
	EnvConfigPath = "CAREERLENS_CONFIG"
	EnvAPIURL     = "CAREERLENS_API_URL"
)

// DefaultPath is used when neither --config nor CAREERLENS_CONFIG is set.
const DefaultPath = "careerlens.yaml"

const (
	defaultBaseURL       = "http://localhost:8000"
	defaultTimeout       = 2 * time.Minute
	defaultQueryKeywords = 3
	defaultStorePath     = "careerlens.db"
	defaultRetention     = 30 * 24 * time.Hour
	defaultWatchInterval = 6 * time.Hour
	defaultRetryDelay    = 5 * time.Second
	slackWebhookPrefix   = "https://hooks.slack.com/"
)

// Config is the root configuration for the CareerLens client.
type Config struct {
	API          APIConfig
	Jobs         JobsConfig
	Filters      FilterConfig
	Notification NotificationConfig
	Store        StoreConfig
	Watch        WatchConfig
	Retry        RetryConfig
	RateLimit    RateLimitConfig
}

// APIConfig points the client at the analysis service.
type APIConfig struct {
	BaseURL   string
	Timeout   time.Duration // per-request timeout, covers the whole analysis stream
	Streaming bool          // request text/event-stream progress
}

// JobsConfig controls how job searches are built.
type JobsConfig struct {
	Location      string // sent as ?location= when non-empty
	QueryKeywords int    // number of leading keywords joined into the query
}

// FilterConfig holds keyword and location filter settings applied to listings.
type FilterConfig struct {
	TitleKeywords        []string `yaml:"title_keywords"`
	TitleExcludeKeywords []string `yaml:"title_exclude_keywords"`
	Locations            []string `yaml:"locations"`
	ExcludeLocations     []string `yaml:"exclude_locations"`
}

// Enabled reports whether any filter rule is configured.
func (f FilterConfig) Enabled() bool {
	return len(f.TitleKeywords)+len(f.TitleExcludeKeywords)+len(f.Locations)+len(f.ExcludeLocations) > 0
}

// NotificationConfig controls which notifier is used and its settings.
type NotificationConfig struct {
	Type       string `yaml:"type"`        // "log" or "slack"
	WebhookURL string `yaml:"webhook_url"` // required if type is "slack"
}

// StoreConfig locates the SQLite database.
type StoreConfig struct {
	Path          string
	SeenRetention time.Duration // seen listings older than this are pruned by watch
}

// WatchConfig controls the periodic job search.
type WatchConfig struct {
	Interval time.Duration
	Pause    time.Duration // between consecutive queries within a cycle
	Queries  []string      // explicit queries; empty means derive from history
}

// RetryConfig controls retries of transient job-search failures.
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
}

// RateLimitConfig sets the minimum gap between requests to the same endpoint.
type RateLimitConfig struct {
	MinDelay time.Duration
}

// rawConfig is used for YAML unmarshaling (snake_case fields and duration as string).
type rawConfig struct {
	API          rawAPIConfig       `yaml:"api"`
	Jobs         rawJobsConfig      `yaml:"jobs"`
	Filters      FilterConfig       `yaml:"filters"`
	Notification NotificationConfig `yaml:"notification"`
	Store        rawStoreConfig     `yaml:"store"`
	Watch        rawWatchConfig     `yaml:"watch"`
	Retry        rawRetryConfig     `yaml:"retry"`
	RateLimit    rawRateLimitConfig `yaml:"rate_limit"`
}

type rawAPIConfig struct {
	BaseURL   string `yaml:"base_url"`
	Timeout   string `yaml:"timeout"`
	Streaming *bool  `yaml:"streaming"`
}

type rawJobsConfig struct {
	Location      string `yaml:"location"`
	QueryKeywords *int   `yaml:"query_keywords"`
}

type rawStoreConfig struct {
	Path          string `yaml:"path"`
	SeenRetention string `yaml:"seen_retention"`
}

type rawWatchConfig struct {
	Interval string   `yaml:"interval"`
	Pause    string   `yaml:"pause"`
	Queries  []string `yaml:"queries"`
}

type rawRetryConfig struct {
	MaxRetries int    `yaml:"max_retries"`
	BaseDelay  string `yaml:"base_delay"`
}

type rawRateLimitConfig struct {
	MinDelay string `yaml:"min_delay"`
}

// ResolvePath picks the config file: the explicit flag value, then
// CAREERLENS_CONFIG, then DefaultPath.
func ResolvePath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	return DefaultPath
}

// LoadDotEnv loads KEY=VALUE pairs from the given .env files (or ./.env when
// none are given) without overriding variables already set. Missing files are
// not an error.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	cfg, _ := build(rawConfig{})
	return cfg
}

// Load reads and parses the YAML config file at path, validates it, and
// returns Config. A missing file at DefaultPath yields Default(); any other
// missing path is an error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && path == DefaultPath {
			cfg := Default()
			return cfg, validate(cfg)
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg, err := build(raw)
	if err != nil {
		return nil, err
	}
	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func build(raw rawConfig) (*Config, error) {
	timeout, err := parseDuration("api.timeout", raw.API.Timeout, defaultTimeout)
	if err != nil {
		return nil, err
	}
	retention, err := parseDuration("store.seen_retention", raw.Store.SeenRetention, defaultRetention)
	if err != nil {
		return nil, err
	}
	interval, err := parseDuration("watch.interval", raw.Watch.Interval, defaultWatchInterval)
	if err != nil {
		return nil, err
	}
	pause, err := parseDuration("watch.pause", raw.Watch.Pause, 0)
	if err != nil {
		return nil, err
	}
	retryDelay, err := parseDuration("retry.base_delay", raw.Retry.BaseDelay, defaultRetryDelay)
	if err != nil {
		return nil, err
	}
	minDelay, err := parseDuration("rate_limit.min_delay", raw.RateLimit.MinDelay, 0)
	if err != nil {
		return nil, err
	}

	streaming := true
	if raw.API.Streaming != nil {
		streaming = *raw.API.Streaming
	}
	queryKeywords := defaultQueryKeywords
	if raw.Jobs.QueryKeywords != nil {
		queryKeywords = *raw.Jobs.QueryKeywords
	}
	storePath := raw.Store.Path
	if storePath == "" {
		storePath = defaultStorePath
	}
	notifType := raw.Notification.Type
	if notifType == "" {
		notifType = "log"
	}

	return &Config{
		API: APIConfig{
			BaseURL:   resolveBaseURL(raw.API.BaseURL),
			Timeout:   timeout,
			Streaming: streaming,
		},
		Jobs: JobsConfig{
			Location:      strings.TrimSpace(raw.Jobs.Location),
			QueryKeywords: queryKeywords,
		},
		Filters: raw.Filters,
		Notification: NotificationConfig{
			Type:       notifType,
			WebhookURL: raw.Notification.WebhookURL,
		},
		Store: StoreConfig{
			Path:          storePath,
			SeenRetention: retention,
		},
		Watch: WatchConfig{
			Interval: interval,
			Pause:    pause,
			Queries:  raw.Watch.Queries,
		},
		Retry: RetryConfig{
			MaxRetries: raw.Retry.MaxRetries,
			BaseDelay:  retryDelay,
		},
		RateLimit: RateLimitConfig{MinDelay: minDelay},
	}, nil
}

// resolveBaseURL applies the precedence: config value, CAREERLENS_API_URL,
// then the local development default.
func resolveBaseURL(configured string) string {
	u := strings.TrimSpace(configured)
	if u == "" {
		u = strings.TrimSpace(os.Getenv(EnvAPIURL))
	}
	if u == "" {
		u = defaultBaseURL
	}
	return strings.TrimRight(u, "/")
}

func parseDuration(field, value string, def time.Duration) (time.Duration, error) {
	if value == "" {
		return def, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("parse %s %q: %w", field, value, err)
	}
	return d, nil
}

func validate(cfg *Config) error {
	if !strings.HasPrefix(cfg.API.BaseURL, "http://") && !strings.HasPrefix(cfg.API.BaseURL, "https://") {
		return fmt.Errorf("api.base_url must be an http(s) URL, got %q", cfg.API.BaseURL)
	}
	if cfg.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive, got %v", cfg.API.Timeout)
	}
	if cfg.Jobs.QueryKeywords < 1 {
		return fmt.Errorf("jobs.query_keywords must be at least 1, got %d", cfg.Jobs.QueryKeywords)
	}
	if cfg.Watch.Interval < time.Minute {
		return fmt.Errorf("watch.interval must be at least 1m, got %v", cfg.Watch.Interval)
	}
	if cfg.Watch.Pause < 0 {
		return fmt.Errorf("watch.pause must not be negative, got %v", cfg.Watch.Pause)
	}
	if cfg.Retry.MaxRetries < 0 {
		return fmt.Errorf("retry.max_retries must not be negative, got %d", cfg.Retry.MaxRetries)
	}
	if cfg.RateLimit.MinDelay < 0 {
		return fmt.Errorf("rate_limit.min_delay must not be negative, got %v", cfg.RateLimit.MinDelay)
	}

	switch cfg.Notification.Type {
	case "log":
	case "slack":
		if cfg.Notification.WebhookURL == "" {
			return fmt.Errorf("notification.webhook_url is required when type is \"slack\"")
		}
		if !strings.HasPrefix(cfg.Notification.WebhookURL, slackWebhookPrefix) {
			return fmt.Errorf("notification.webhook_url must start with %s", slackWebhookPrefix)
		}
	default:
		return fmt.Errorf("notification.type must be \"log\" or \"slack\", got %q", cfg.Notification.Type)
	}

	return nil
}
