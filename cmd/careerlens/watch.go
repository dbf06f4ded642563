package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/amishk599/careerlens/internal/filter"
	"github.com/amishk599/careerlens/internal/model"
	"github.com/amishk599/careerlens/internal/poller"
	"github.com/amishk599/careerlens/internal/scheduler"
	"github.com/amishk599/careerlens/internal/session"
	"github.com/amishk599/careerlens/internal/store"
	"github.com/spf13/cobra"
)

// watchMinDelay is the floor between job searches in watch mode.
const watchMinDelay = 10 * time.Second

var (
	watchQueries []string
	watchDryRun  bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Periodically search jobs and notify about new listings",
	Long: `Runs the job search on an interval and sends listings not seen before to the
configured notifier. Queries come from --query, then watch.queries in the
config, then the keywords of the latest analysis. Blocks until SIGINT/SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringArrayVarP(&watchQueries, "query", "q", nil, "search query (repeatable)")
	watchCmd.Flags().BoolVar(&watchDryRun, "dry-run", false, "do not record seen listings; every cycle reports all matches")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	sqlStore := openStore(cfg, logger)
	defer sqlStore.Close()

	queries := resolveWatchQueries(watchQueries, cfg.Watch.Queries, sqlStore, cfg.Jobs.QueryKeywords, logger)
	if len(queries) == 0 {
		logger.Error("no queries to watch: pass --query, set watch.queries, or run an analysis first")
		os.Exit(1)
	}

	logger.Info("config loaded",
		"interval", cfg.Watch.Interval.String(),
		"queries", len(queries),
		"title_keywords", len(cfg.Filters.TitleKeywords),
		"locations", len(cfg.Filters.Locations),
		"notification", cfg.Notification.Type,
	)

	var seen model.ListingStore = sqlStore
	if watchDryRun {
		logger.Info("dry run: seen listings are not recorded")
		seen = store.NewNopStore()
	}

	client := newAPIClient(cfg, logger)
	_, searcher := buildServices(cfg, client, watchMinDelay, logger)

	var jobFilter model.JobFilter = filter.MatchAll{}
	if f := buildFilter(cfg); f != nil {
		jobFilter = f
	}
	n := setupNotifier(cfg, &http.Client{Timeout: notifyTimeout}, logger)

	pollers := make([]*poller.JobsPoller, 0, len(queries))
	for _, q := range queries {
		pollers = append(pollers, poller.NewJobsPoller(q, searcher, jobFilter, seen, n, logger.With("query", q)))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sched := scheduler.NewScheduler(pollers, cfg.Watch.Interval, cfg.Watch.Pause, logger).
		WithCleanup(seen, cfg.Store.SeenRetention)
	if err := sched.Run(ctx); err != nil {
		logger.Error("scheduler error", "error", err)
		os.Exit(1)
	}

	logger.Info("goodbye")
	return nil
}

// resolveWatchQueries picks the first non-empty source: flags, config, then
// the latest analysis in history.
func resolveWatchQueries(flagQueries, cfgQueries []string, history model.HistoryStore, n int, logger *slog.Logger) []string {
	if q := trimAll(flagQueries); len(q) > 0 {
		return q
	}
	if q := trimAll(cfgQueries); len(q) > 0 {
		return q
	}
	recs, err := history.RecentAnalyses(1)
	if err != nil {
		logger.Warn("failed to read history", "error", err)
		return nil
	}
	if len(recs) == 0 {
		return nil
	}
	if q := session.SearchQuery(recs[0].Keywords, n); q != "" {
		return []string{q}
	}
	return nil
}
