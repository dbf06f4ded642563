package model

import (
	"context"
	"time"
)

// StepID identifies an analysis pipeline stage ("summary", "gaps", "done", ...).
type StepID string

// StepDone is the terminal step carrying the full analysis result.
const StepDone StepID = "done"

// StepStatus is the lifecycle state reported by a step event.
type StepStatus string

const (
	StatusProcessing StepStatus = "processing"
	StatusComplete   StepStatus = "complete"
)

// StepEvent is one server-pushed progress event.
type StepEvent struct {
	Step   StepID
	Status StepStatus
}

// AnalysisResult is the structured output of a resume analysis.
type AnalysisResult struct {
	Summary  string   `json:"summary"`
	Gaps     string   `json:"gaps"`
	Roadmap  string   `json:"roadmap"`
	Keywords []string `json:"keywords"`
}

// Clone returns a deep copy so callers cannot alias the keyword slice.
func (r *AnalysisResult) Clone() *AnalysisResult {
	if r == nil {
		return nil
	}
	c := *r
	c.Keywords = append([]string(nil), r.Keywords...)
	return &c
}

// ResumeFile is a user-selected file ready for upload.
type ResumeFile struct {
	Name        string
	ContentType string
	Data        []byte
	Pages       int // 0 when unknown (non-PDF or unreadable)
	ModTime     time.Time
}

// Size returns the file size in bytes.
func (f *ResumeFile) Size() int {
	return len(f.Data)
}

// ResumeAnalyzer submits a resume to the analysis service. onEvent is invoked
// for each progress event in arrival order, before the call returns.
type ResumeAnalyzer interface {
	AnalyzeResume(ctx context.Context, file ResumeFile, onEvent func(StepEvent)) (*AnalysisResult, error)
}

// AnalysisRecord is a persisted summary of a completed analysis.
type AnalysisRecord struct {
	ID        string
	FileName  string
	Summary   string
	Keywords  []string
	CreatedAt time.Time
}

// HistoryStore persists completed analyses.
type HistoryStore interface {
	RecordAnalysis(rec AnalysisRecord) error
	RecentAnalyses(limit int) ([]AnalysisRecord, error)
}
