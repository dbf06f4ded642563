package poller

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/amishk599/careerlens/internal/filter"
	"github.com/amishk599/careerlens/internal/model"
)

// JobsPoller owns the full watch pipeline for a single search query:
// search → filter → dedup → notify → mark seen.
type JobsPoller struct {
	Query    string
	searcher model.JobSearcher
	filter   model.JobFilter
	store    model.ListingStore
	notifier model.Notifier
	logger   *slog.Logger
}

// NewJobsPoller creates a poller wired with all its dependencies.
func NewJobsPoller(
	query string,
	searcher model.JobSearcher,
	jobFilter model.JobFilter,
	store model.ListingStore,
	notifier model.Notifier,
	logger *slog.Logger,
) *JobsPoller {
	return &JobsPoller{
		Query:    query,
		searcher: searcher,
		filter:   jobFilter,
		store:    store,
		notifier: notifier,
		logger:   logger,
	}
}

// Poll runs one cycle. On the first poll of a query the matched listings are
// only recorded (seeding), so adding a query never floods the notifier.
func (p *JobsPoller) Poll(ctx context.Context) error {
	listings, err := p.searcher.SearchJobs(ctx, p.Query)
	if err != nil {
		return fmt.Errorf("polling %q: %w", p.Query, err)
	}

	matched := filter.Apply(p.filter, listings)

	seeded, err := p.store.IsSeeded(p.Query)
	if err != nil {
		return fmt.Errorf("polling %q: checking seeded status: %w", p.Query, err)
	}
	firstRun := !seeded

	var fresh []model.JobListing
	batch := make(map[string]bool, len(matched))
	for _, l := range matched {
		key := l.Key()
		if batch[key] {
			continue
		}
		batch[key] = true

		seen, err := p.store.HasSeen(key)
		if err != nil {
			return fmt.Errorf("polling %q: checking seen status: %w", p.Query, err)
		}
		if !seen {
			fresh = append(fresh, l)
		}
	}

	if len(fresh) > 0 && !firstRun {
		notice := model.Notice{
			Level:    model.NoticeInfo,
			Message:  newListingsMessage(len(fresh), p.Query),
			Listings: fresh,
		}
		if err := p.notifier.Notify(notice); err != nil {
			return fmt.Errorf("polling %q: notifying: %w", p.Query, err)
		}
	}

	for _, l := range fresh {
		if err := p.store.MarkSeen(l.Key()); err != nil {
			return fmt.Errorf("polling %q: marking seen: %w", p.Query, err)
		}
	}

	if firstRun {
		if err := p.store.MarkSeeded(p.Query); err != nil {
			return fmt.Errorf("polling %q: marking seeded: %w", p.Query, err)
		}
		p.logger.Info("seeded listing store", "query", p.Query, "seeded", len(fresh))
	}
	p.logger.Info("polled job search",
		"query", p.Query,
		"fetched", len(listings),
		"matched", len(matched),
		"new", len(fresh),
	)

	return nil
}

func newListingsMessage(n int, query string) string {
	if n == 1 {
		return fmt.Sprintf("1 new job listing for %s", query)
	}
	return fmt.Sprintf("%d new job listings for %s", n, query)
}
