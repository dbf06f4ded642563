package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/amishk599/careerlens/internal/notifier"
	"github.com/spf13/cobra"
)

var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Notification utilities",
}

var notifyTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Send a test notification",
	Run: func(cmd *cobra.Command, args []string) {
		logger := setupLogger(debug)

		cfg, err := loadConfig(cfgPath)
		if err != nil {
			logger.Error("failed to load config", "error", err)
			os.Exit(1)
		}

		n := setupNotifier(cfg, &http.Client{Timeout: notifyTimeout}, logger)
		if err := notifier.SendTestMessage(n); err != nil {
			logger.Error("failed to send test notification", "error", err)
			os.Exit(1)
		}

		fmt.Printf("Test notification sent via %s\n", cfg.Notification.Type)
	},
}

func init() {
	notifyCmd.AddCommand(notifyTestCmd)
	rootCmd.AddCommand(notifyCmd)
}
