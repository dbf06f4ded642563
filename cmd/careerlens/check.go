package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that the analysis service is reachable",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		logger := setupLogger(debug)

		cfg, err := loadConfig(cfgPath)
		if err != nil {
			logger.Error("failed to load config", "error", err)
			os.Exit(1)
		}

		client := newAPIClient(cfg, logger)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		msg, err := client.Ping(ctx)
		if err != nil {
			logger.Error("service unreachable", "url", client.BaseURL(), "error", err)
			os.Exit(1)
		}
		fmt.Printf("%s: %s\n", client.BaseURL(), msg)
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
