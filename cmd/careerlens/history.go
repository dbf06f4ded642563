package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent analyses",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		logger := setupLogger(debug)

		cfg, err := loadConfig(cfgPath)
		if err != nil {
			logger.Error("failed to load config", "error", err)
			os.Exit(1)
		}

		st := openStore(cfg, logger)
		defer st.Close()

		recs, err := st.RecentAnalyses(historyLimit)
		if err != nil {
			logger.Error("failed to read history", "error", err)
			os.Exit(1)
		}
		if len(recs) == 0 {
			fmt.Println("No analyses recorded yet.")
			return
		}

		fmt.Printf("%-16s %-28s %s\n", "WHEN", "FILE", "KEYWORDS")
		fmt.Printf("%-16s %-28s %s\n", "----", "----", "--------")
		for _, r := range recs {
			fmt.Printf("%-16s %-28s %s\n", humanize.Time(r.CreatedAt), truncateCell(r.FileName, 28), strings.Join(r.Keywords, ", "))
		}
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "number of analyses to show")
	rootCmd.AddCommand(historyCmd)
}

func truncateCell(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
