package store

import (
	"time"

	"github.com/amishk599/careerlens/internal/model"
)

// NopStore is a no-op store used in dry-run mode and when persistence is
// disabled. It never marks listings as seen and reports every query as
// seeded, so every listing is notified on each poll. It keeps no history.
type NopStore struct{}

func NewNopStore() *NopStore { return &NopStore{} }

func (s *NopStore) HasSeen(key string) (bool, error)                         { return false, nil }
func (s *NopStore) MarkSeen(key string) error                                { return nil }
func (s *NopStore) Cleanup(olderThan time.Duration) error                    { return nil }
func (s *NopStore) IsSeeded(query string) (bool, error)                      { return true, nil }
func (s *NopStore) MarkSeeded(query string) error                            { return nil }
func (s *NopStore) RecordAnalysis(rec model.AnalysisRecord) error            { return nil }
func (s *NopStore) RecentAnalyses(limit int) ([]model.AnalysisRecord, error) { return nil, nil }
