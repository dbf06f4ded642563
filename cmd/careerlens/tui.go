package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/amishk599/careerlens/internal/resume"
	"github.com/amishk599/careerlens/internal/session"
	"github.com/amishk599/careerlens/internal/tui"
	"github.com/spf13/cobra"
)

var tuiAutoStart bool

var tuiCmd = &cobra.Command{
	Use:   "tui [dir|resume]",
	Short: "Pick a resume and analyze it interactively",
	Long: `Opens a file picker rooted at dir (default: the working directory). Choosing
a PDF opens the analysis screen; esc returns to the picker. Passing a resume
file skips the picker.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().BoolVar(&tuiAutoStart, "auto", true, "start the analysis as soon as a file is chosen")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	// Log output would corrupt the alt screen.
	logger := discardLogger()

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	st := openStore(cfg, stderrLogger(debug))
	defer st.Close()

	client := newAPIClient(cfg, logger)
	analyzer, searcher := buildServices(cfg, client, 0, logger)

	relay := tui.NewNoticeRelay()
	ctrl := session.NewController(analyzer, searcher, relay, logger)
	ctrl.SetQueryKeywords(cfg.Jobs.QueryKeywords)
	ctrl.SetHistory(st)

	opts := tui.Options{
		Filter:        buildFilter(cfg),
		QueryKeywords: cfg.Jobs.QueryKeywords,
		AutoStart:     tuiAutoStart,
	}

	dir, path := "", ""
	if len(args) == 1 {
		info, err := os.Stat(args[0])
		if err != nil {
			return err
		}
		if info.IsDir() {
			dir = args[0]
		} else {
			path = args[0]
		}
	}

	for {
		if path == "" {
			path, err = tui.RunFilePicker(dir)
			if err != nil {
				return fmt.Errorf("file picker: %w", err)
			}
			if path == "" {
				return nil
			}
		}

		file, err := resume.Load(path)
		if err != nil {
			return err
		}
		dir = filepath.Dir(path)
		path = ""

		ctrl.SelectFile(file)
		wantQuit, err := tui.RunSession(ctrl, relay, opts)
		if err != nil {
			return fmt.Errorf("session: %w", err)
		}
		if wantQuit {
			return nil
		}
	}
}
