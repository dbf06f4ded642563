package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/amishk599/careerlens/internal/filter"
	"github.com/amishk599/careerlens/internal/model"
	"github.com/amishk599/careerlens/internal/notifier"
	"github.com/amishk599/careerlens/internal/resume"
	"github.com/amishk599/careerlens/internal/session"
	"github.com/spf13/cobra"
)

var (
	analyzeJobs bool
	analyzeJSON bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <resume>",
	Short: "Analyze a resume and print the findings",
	Long:  "Uploads the resume, prints each analysis step as the service reports it, then prints the summary, gaps, roadmap and keywords.",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeJobs, "jobs", false, "fetch matching jobs after the analysis")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "print the result as JSON")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	logger := stderrLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	file, err := resume.Load(args[0])
	if err != nil {
		logger.Error("failed to load resume", "path", args[0], "error", err)
		os.Exit(1)
	}

	st := openStore(cfg, logger)
	defer st.Close()

	client := newAPIClient(cfg, logger)
	analyzer, searcher := buildServices(cfg, client, 0, logger)

	ctrl := session.NewController(analyzer, searcher, notifier.NewLogNotifier(logger), logger)
	ctrl.SetQueryKeywords(cfg.Jobs.QueryKeywords)
	ctrl.SetHistory(st)
	ctrl.SelectFile(file)

	// Progress goes to stderr so --json output stays parseable.
	progress := newProgressPrinter(os.Stderr)
	ctrl.SetOnChange(progress.update)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(os.Stderr, "Analyzing %s\n", resume.Describe(file))

	result, err := ctrl.StartAnalysis(ctx)
	if err != nil {
		return err
	}

	var (
		jobs    *model.JobsResult
		matched []model.JobListing
	)
	jobFilter := buildFilter(cfg)
	if analyzeJobs {
		jobs, err = ctrl.FetchJobs(ctx)
		if err != nil && !errors.Is(err, model.ErrSuperseded) {
			return err
		}
		if jobs != nil {
			matched = jobs.Listings
			if jobFilter != nil {
				matched = filter.Apply(jobFilter, jobs.Listings)
			}
		}
	}

	out := cmd.OutOrStdout()
	if analyzeJSON {
		snap := ctrl.Snapshot()
		return writeJSON(out, analyzeOutput{
			Session:  snap.ID,
			File:     file.Name,
			Analysis: result,
			Jobs:     newJobsJSON(jobs, matched, jobFilter != nil),
		})
	}

	printAnalysis(out, result)
	if jobs != nil {
		printListings(out, jobs, matched)
	}
	return nil
}

// progressPrinter prints each step transition once.
type progressPrinter struct {
	mu      sync.Mutex
	w       io.Writer
	current model.StepID
	done    map[model.StepID]bool
}

func newProgressPrinter(w io.Writer) *progressPrinter {
	return &progressPrinter{w: w, done: make(map[model.StepID]bool)}
}

func (p *progressPrinter) update(s session.Snapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, step := range s.Progress.CompletedSteps {
		if p.done[step] || step == model.StepDone {
			continue
		}
		p.done[step] = true
		fmt.Fprintf(p.w, "  ✓ %s\n", session.StepLabel(step))
	}
	cur := s.Progress.CurrentStep
	if cur != "" && cur != p.current && !p.done[cur] && s.Progress.IsProcessing {
		p.current = cur
		fmt.Fprintf(p.w, "  … %s\n", session.StepLabel(cur))
	}
}
