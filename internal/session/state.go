package session

import "github.com/amishk599/careerlens/internal/model"

// Phase is the session's position in the upload-through-job-search lifecycle.
type Phase string

const (
	PhaseIdle         Phase = "idle"
	PhaseFileSelected Phase = "file_selected"
	PhaseAnalyzing    Phase = "analyzing"
	PhaseAnalyzed     Phase = "analyzed"
	PhaseFetchingJobs Phase = "fetching_jobs"
	PhaseJobsReady    Phase = "jobs_ready"
)

// Progress mirrors the server-pushed step events of the current analysis.
type Progress struct {
	CurrentStep    model.StepID // empty until the first event arrives
	CompletedSteps []model.StepID
	IsProcessing   bool
}

// Snapshot is a read-only copy of the session state for presentation.
type Snapshot struct {
	ID             string
	SelectedFile   *model.ResumeFile
	Analyzing      bool
	FetchingJobs   bool
	AnalysisResult *model.AnalysisResult
	JobsResult     *model.JobsResult
	Progress       Progress
	Phase          Phase
	// Seq increases with every state transition. Listeners may receive
	// snapshots out of order and should drop one older than what they hold.
	Seq uint64
}

// phase derives the lifecycle phase from the raw flags. In-flight operations
// take precedence over stored results.
func phase(s *Snapshot) Phase {
	switch {
	case s.Analyzing:
		return PhaseAnalyzing
	case s.FetchingJobs:
		return PhaseFetchingJobs
	case s.JobsResult != nil:
		return PhaseJobsReady
	case s.AnalysisResult != nil:
		return PhaseAnalyzed
	case s.SelectedFile != nil:
		return PhaseFileSelected
	default:
		return PhaseIdle
	}
}
