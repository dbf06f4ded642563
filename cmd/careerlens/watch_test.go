package main

import (
	"errors"
	"io"
	"log/slog"
	"reflect"
	"testing"

	"github.com/amishk599/careerlens/internal/model"
)

type fakeHistory struct {
	recs []model.AnalysisRecord
	err  error
}

func (f *fakeHistory) RecordAnalysis(rec model.AnalysisRecord) error { return nil }

func (f *fakeHistory) RecentAnalyses(limit int) ([]model.AnalysisRecord, error) {
	return f.recs, f.err
}

func TestResolveWatchQueries(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	latest := &fakeHistory{recs: []model.AnalysisRecord{{
		Keywords: []string{"Go Developer", "Backend Engineer", "SRE", "Kubernetes"},
	}}}

	tests := []struct {
		name    string
		flags   []string
		cfg     []string
		history *fakeHistory
		want    []string
	}{
		{"flags win", []string{"rust"}, []string{"go"}, latest, []string{"rust"}},
		{"config over history", nil, []string{"go", " "}, latest, []string{"go"}},
		{"history fallback", nil, nil, latest, []string{"Go Developer, Backend Engineer, SRE"}},
		{"empty history", nil, nil, &fakeHistory{}, nil},
		{"history error", nil, nil, &fakeHistory{err: errors.New("db locked")}, nil},
		{"blank flags ignored", []string{"  "}, nil, &fakeHistory{}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolveWatchQueries(tt.flags, tt.cfg, tt.history, 3, logger)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
