package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/amishk599/careerlens/internal/filter"
	"github.com/amishk599/careerlens/internal/model"
	"github.com/amishk599/careerlens/internal/session"
	"github.com/spf13/cobra"
)

var (
	jobsKeywords []string
	jobsJSON     bool
	jobsAll      bool
	jobsNotify   bool
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Search jobs by keywords or by the latest analysis",
	Long: `Searches jobs for the given keywords. Without --keywords, the query is built
from the keywords of the most recent analysis in history.`,
	Args: cobra.NoArgs,
	RunE: runJobs,
}

func init() {
	jobsCmd.Flags().StringSliceVarP(&jobsKeywords, "keywords", "k", nil, "comma-separated search keywords (default: latest analysis)")
	jobsCmd.Flags().BoolVar(&jobsJSON, "json", false, "print the result as JSON")
	jobsCmd.Flags().BoolVar(&jobsAll, "all", false, "print all listings, ignoring configured filters")
	jobsCmd.Flags().BoolVar(&jobsNotify, "notify", false, "also send the listings to the configured notifier")
	rootCmd.AddCommand(jobsCmd)
}

func runJobs(cmd *cobra.Command, args []string) error {
	logger := stderrLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	query := session.SearchQuery(trimAll(jobsKeywords), len(jobsKeywords))
	if query == "" {
		st := openStore(cfg, logger)
		recs, err := st.RecentAnalyses(1)
		st.Close()
		if err != nil {
			return fmt.Errorf("reading history: %w", err)
		}
		if len(recs) == 0 || len(recs[0].Keywords) == 0 {
			return fmt.Errorf("%w: no keywords given and no analysis in history", model.ErrValidation)
		}
		query = session.SearchQuery(recs[0].Keywords, cfg.Jobs.QueryKeywords)
		logger.Debug("query from history", "analysis", recs[0].ID, "file", recs[0].FileName)
	}

	client := newAPIClient(cfg, logger)
	_, searcher := buildServices(cfg, client, 0, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	listings, err := searcher.SearchJobs(ctx, query)
	if err != nil {
		return fmt.Errorf("%w: %w", model.ErrJobFetchFailed, err)
	}
	res := &model.JobsResult{Query: query, Listings: listings}

	matched := listings
	jobFilter := buildFilter(cfg)
	filtered := jobFilter != nil && !jobsAll
	if filtered {
		matched = filter.Apply(jobFilter, listings)
	}

	if jobsNotify {
		n := setupNotifier(cfg, &http.Client{Timeout: notifyTimeout}, logger)
		msg := fmt.Sprintf("%d job listings for %s", len(matched), query)
		if err := n.Notify(model.Notice{Level: model.NoticeInfo, Message: msg, Listings: matched}); err != nil {
			logger.Error("failed to send notification", "error", err)
		}
	}

	out := cmd.OutOrStdout()
	if jobsJSON {
		return writeJSON(out, newJobsJSON(res, matched, filtered))
	}
	printListings(out, res, matched)
	if filtered {
		fmt.Fprintf(out, "\n%d of %d listings matched the configured filters (--all to show every listing)\n", len(matched), len(listings))
	}
	return nil
}

func trimAll(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
