package main

import (
	"log/slog"
	"os"

	"github.com/amishk599/careerlens/internal/config"
	"github.com/amishk599/careerlens/internal/store"
)

// openStore opens the SQLite store or exits; callers defer Close.
func openStore(cfg *config.Config, logger *slog.Logger) *store.SQLiteStore {
	st, err := store.NewSQLiteStore(cfg.Store.Path)
	if err != nil {
		logger.Error("failed to open store", "path", cfg.Store.Path, "error", err)
		os.Exit(1)
	}
	logger.Debug("store opened", "path", cfg.Store.Path)
	return st
}
