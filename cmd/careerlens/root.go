package main

import (
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/amishk599/careerlens/internal/api"
	"github.com/amishk599/careerlens/internal/config"
	"github.com/amishk599/careerlens/internal/filter"
	"github.com/amishk599/careerlens/internal/model"
	"github.com/amishk599/careerlens/internal/notifier"
	"github.com/amishk599/careerlens/internal/ratelimit"
	"github.com/amishk599/careerlens/internal/retry"
	"github.com/spf13/cobra"
)

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "careerlens",
	Short: "Resume analysis and job recommendations",
	Long:  "CareerLens uploads your resume to the analysis service, shows its progress and findings, and finds matching jobs.",
	// With no subcommand, open the interactive session.
	RunE:  runTUI,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: CAREERLENS_CONFIG env var or ./careerlens.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// loadConfig loads .env, resolves the config path and parses it.
// Priority: explicit path arg > CAREERLENS_CONFIG env var > "./careerlens.yaml"
func loadConfig(path string) (*config.Config, error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, err
	}
	return config.Load(config.ResolvePath(path))
}

func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
}

// stderrLogger keeps stdout clean for machine-readable output.
func stderrLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupNotifier(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) model.Notifier {
	switch cfg.Notification.Type {
	case "slack":
		logger.Debug("using slack notifier")
		return notifier.NewSlackNotifier(cfg.Notification.WebhookURL, httpClient, logger)
	default:
		return notifier.NewLogNotifier(logger)
	}
}

func newAPIClient(cfg *config.Config, logger *slog.Logger) *api.Client {
	httpClient := &http.Client{Timeout: cfg.API.Timeout}
	c := api.NewClient(cfg.API.BaseURL, httpClient, logger)
	c.SetLocation(cfg.Jobs.Location)
	c.SetStreaming(cfg.API.Streaming)
	return c
}

// buildServices wraps the API client with the configured decorators.
// minDelay overrides rate_limit.min_delay when larger.
func buildServices(cfg *config.Config, client *api.Client, minDelay time.Duration, logger *slog.Logger) (model.ResumeAnalyzer, model.JobSearcher) {
	var (
		analyzer model.ResumeAnalyzer = client
		searcher model.JobSearcher    = client
	)

	if cfg.Retry.MaxRetries > 0 {
		searcher = retry.NewRetrySearcher(searcher, cfg.Retry.MaxRetries, cfg.Retry.BaseDelay, logger)
	}

	delay := max(cfg.RateLimit.MinDelay, minDelay)
	if delay > 0 {
		limiter := ratelimit.NewEndpointRateLimiter(delay)
		logger.Debug("rate limiting service calls", "min_delay", delay.String())
		analyzer = ratelimit.NewRateLimitedAnalyzer(analyzer, limiter)
		searcher = ratelimit.NewRateLimitedSearcher(searcher, limiter)
	}
	return analyzer, searcher
}

// buildFilter returns nil when no filter rule is configured.
func buildFilter(cfg *config.Config) model.JobFilter {
	if !cfg.Filters.Enabled() {
		return nil
	}
	return filter.NewTitleAndLocationFilter(
		cfg.Filters.TitleKeywords,
		cfg.Filters.TitleExcludeKeywords,
		cfg.Filters.Locations,
		cfg.Filters.ExcludeLocations,
	)
}

// notifyTimeout bounds each webhook request.
const notifyTimeout = 30 * time.Second
