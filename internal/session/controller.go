// Package session coordinates one resume-analysis-and-job-search session:
// file selection, upload with streamed progress, and the follow-up job search.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/amishk599/careerlens/internal/model"
)

// User-facing notice texts.
const (
	msgNoFile         = "Please select a file first"
	msgAnalyzed       = "Resume analyzed successfully!"
	msgAnalysisFailed = "Error analyzing resume. Please try again."
	msgJobsUpdated    = "Job recommendations updated!"
	msgJobsFailed     = "Error fetching jobs. Please try again."
)

// Controller owns the session state. Every transition happens under mu, and
// results from an analysis that a newer upload has replaced are discarded by
// comparing generation tokens.
type Controller struct {
	analyzer      model.ResumeAnalyzer
	searcher      model.JobSearcher
	notifier      model.Notifier
	history       model.HistoryStore
	logger        *slog.Logger
	queryKeywords int
	onChange      func(Snapshot)

	mu           sync.Mutex
	gen          uint64 // bumped by every accepted StartAnalysis
	jobsGen      uint64 // bumped by every accepted FetchJobs
	seq          uint64 // bumped by every published transition
	id           string
	file         *model.ResumeFile
	analyzing    bool
	fetchingJobs bool
	analysis     *model.AnalysisResult
	jobs         *model.JobsResult
	progress     Progress
}

// NewController creates a controller. notifier may be nil.
func NewController(analyzer model.ResumeAnalyzer, searcher model.JobSearcher, notifier model.Notifier, logger *slog.Logger) *Controller {
	return &Controller{
		analyzer:      analyzer,
		searcher:      searcher,
		notifier:      notifier,
		logger:        logger,
		queryKeywords: DefaultQueryKeywords,
	}
}

// SetQueryKeywords overrides how many leading keywords build the job query.
func (c *Controller) SetQueryKeywords(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if n > 0 {
		c.queryKeywords = n
	}
}

// SetHistory makes every successful analysis get recorded in h.
func (c *Controller) SetHistory(h model.HistoryStore) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.history = h
}

// SetOnChange registers fn to receive a snapshot after every accepted state
// transition. fn runs outside the controller lock.
func (c *Controller) SetOnChange(fn func(Snapshot)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = fn
}

// SelectFile replaces the selected file. Existing results are untouched.
func (c *Controller) SelectFile(file model.ResumeFile) {
	c.update(func() bool {
		c.file = &file
		return true
	})
	c.logger.Debug("file selected", "file", file.Name, "size", file.Size(), "content_type", file.ContentType)
}

// StartAnalysis uploads the selected file and tracks its progress events.
// It fails with ErrValidation when no file is selected, ErrAnalysisFailed
// when the service call fails, and ErrSuperseded when a newer StartAnalysis
// replaced this one before it finished.
func (c *Controller) StartAnalysis(ctx context.Context) (*model.AnalysisResult, error) {
	var (
		file model.ResumeFile
		gen  uint64
		id   string
	)
	started := c.update(func() bool {
		if c.file == nil {
			return false
		}
		c.gen++
		gen = c.gen
		c.id = uuid.NewString()
		id = c.id
		file = *c.file

		c.analyzing = true
		c.analysis = nil
		c.jobs = nil
		c.progress = Progress{}
		return true
	})
	if !started {
		c.logger.Warn("analysis requested without a selected file")
		c.notify(model.NoticeError, msgNoFile)
		return nil, fmt.Errorf("%w: no file selected", model.ErrValidation)
	}

	c.logger.Info("analysis started", "session", id, "file", file.Name, "size", file.Size())

	result, err := c.analyzer.AnalyzeResume(ctx, file, func(ev model.StepEvent) {
		c.applyEvent(gen, ev)
	})
	if err == nil && result == nil {
		err = errors.New("service returned no result")
	}

	if err != nil {
		current := c.update(func() bool {
			if c.gen != gen {
				return false
			}
			// Progress stays at its partial value so the user sees how far
			// processing got.
			c.analyzing = false
			return true
		})
		if !current {
			c.logger.Debug("discarding failure of superseded analysis", "session", id, "error", err)
			return nil, model.ErrSuperseded
		}
		c.logger.Error("analysis failed", "session", id, "file", file.Name, "error", err)
		c.notify(model.NoticeError, msgAnalysisFailed)
		return nil, fmt.Errorf("%w: %w", model.ErrAnalysisFailed, err)
	}

	current := c.update(func() bool {
		if c.gen != gen {
			return false
		}
		c.analysis = result.Clone()
		c.progress.CurrentStep = model.StepDone
		c.progress.IsProcessing = false
		c.analyzing = false
		return true
	})
	if !current {
		c.logger.Debug("discarding result of superseded analysis", "session", id)
		return nil, model.ErrSuperseded
	}

	c.logger.Info("analysis complete", "session", id, "file", file.Name, "keywords", len(result.Keywords))
	c.record(id, file.Name, result)
	c.notify(model.NoticeSuccess, msgAnalyzed)
	return result.Clone(), nil
}

// applyEvent reflects one progress event, ignoring events from superseded
// analyses.
func (c *Controller) applyEvent(gen uint64, ev model.StepEvent) {
	c.update(func() bool {
		if c.gen != gen {
			return false
		}
		switch ev.Status {
		case model.StatusProcessing:
			c.progress.CurrentStep = ev.Step
			c.progress.IsProcessing = true
		case model.StatusComplete:
			if ev.Step == model.StepDone {
				return false
			}
			c.progress.CompletedSteps = append(c.progress.CompletedSteps, ev.Step)
			c.progress.IsProcessing = false
		default:
			return false
		}
		return true
	})
}

// FetchJobs searches for listings matching the leading analysis keywords.
// Without an analysis result it returns (nil, nil) and does nothing.
// Failures wrap ErrJobFetchFailed; results of a fetch replaced by a newer
// fetch or a newer upload are dropped with ErrSuperseded.
func (c *Controller) FetchJobs(ctx context.Context) (*model.JobsResult, error) {
	var (
		query   string
		gen     uint64
		jobsGen uint64
		id      string
	)
	started := c.update(func() bool {
		if c.analysis == nil {
			return false
		}
		query = SearchQuery(c.analysis.Keywords, c.queryKeywords)
		gen = c.gen
		c.jobsGen++
		jobsGen = c.jobsGen
		id = c.id
		c.fetchingJobs = true
		return true
	})
	if !started {
		c.logger.Debug("job fetch ignored: no analysis result")
		return nil, nil
	}

	defer c.update(func() bool {
		if c.jobsGen != jobsGen || !c.fetchingJobs {
			return false
		}
		c.fetchingJobs = false
		return true
	})

	c.logger.Info("fetching jobs", "session", id, "query", query)

	listings, err := c.searcher.SearchJobs(ctx, query)

	var result *model.JobsResult
	current := c.update(func() bool {
		if c.gen != gen || c.jobsGen != jobsGen {
			return false
		}
		c.fetchingJobs = false
		if err == nil {
			result = &model.JobsResult{Query: query, Listings: listings}
			c.jobs = result.Clone()
		}
		return true
	})
	if !current {
		c.logger.Debug("discarding superseded job fetch", "session", id, "query", query)
		return nil, model.ErrSuperseded
	}

	if err != nil {
		c.logger.Error("job fetch failed", "session", id, "query", query, "error", err)
		c.notify(model.NoticeError, msgJobsFailed)
		return nil, fmt.Errorf("%w: %w", model.ErrJobFetchFailed, err)
	}

	c.logger.Info("jobs fetched", "session", id, "query", query, "count", len(listings))
	c.notify(model.NoticeSuccess, msgJobsUpdated)
	return result.Clone(), nil
}

// Snapshot returns a copy of the current session state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	s := Snapshot{
		ID:             c.id,
		Seq:            c.seq,
		Analyzing:      c.analyzing,
		FetchingJobs:   c.fetchingJobs,
		AnalysisResult: c.analysis.Clone(),
		JobsResult:     c.jobs.Clone(),
		Progress: Progress{
			CurrentStep:    c.progress.CurrentStep,
			CompletedSteps: append([]model.StepID(nil), c.progress.CompletedSteps...),
			IsProcessing:   c.progress.IsProcessing,
		},
	}
	if c.file != nil {
		f := *c.file
		s.SelectedFile = &f
	}
	s.Phase = phase(&s)
	return s
}

// update applies fn under the lock and, if fn reports a change, publishes
// the resulting snapshot to the change listener.
func (c *Controller) update(fn func() bool) bool {
	c.mu.Lock()
	changed := fn()
	if changed {
		c.seq++
	}
	listener := c.onChange
	var snap Snapshot
	if changed && listener != nil {
		snap = c.snapshotLocked()
	}
	c.mu.Unlock()

	if changed && listener != nil {
		listener(snap)
	}
	return changed
}

func (c *Controller) record(id, fileName string, result *model.AnalysisResult) {
	c.mu.Lock()
	h := c.history
	c.mu.Unlock()
	if h == nil {
		return
	}
	rec := model.AnalysisRecord{
		ID:        id,
		FileName:  fileName,
		Summary:   result.Summary,
		Keywords:  append([]string(nil), result.Keywords...),
		CreatedAt: time.Now(),
	}
	if err := h.RecordAnalysis(rec); err != nil {
		c.logger.Warn("recording analysis history failed", "session", id, "error", err)
	}
}

func (c *Controller) notify(level model.NoticeLevel, msg string) {
	if c.notifier == nil {
		return
	}
	if err := c.notifier.Notify(model.Notice{Level: level, Message: msg}); err != nil {
		c.logger.Warn("notification failed", "message", msg, "error", err)
	}
}
