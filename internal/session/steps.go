package session

import "github.com/amishk599/careerlens/internal/model"

// Steps the analysis service reports, in the order it runs them.
const (
	StepSummary  model.StepID = "summary"
	StepGaps     model.StepID = "gaps"
	StepRoadmap  model.StepID = "roadmap"
	StepKeywords model.StepID = "keywords"
)

// KnownSteps lists the service steps in execution order.
var KnownSteps = []model.StepID{StepSummary, StepGaps, StepRoadmap, StepKeywords}

var stepLabels = map[model.StepID]string{
	StepSummary:    "Summarizing experience",
	StepGaps:       "Identifying skill gaps",
	StepRoadmap:    "Building career roadmap",
	StepKeywords:   "Extracting job keywords",
	model.StepDone: "Analysis complete",
}

// StepLabel returns a human-readable label for step. Unknown steps are shown
// by their identifier.
func StepLabel(step model.StepID) string {
	if l, ok := stepLabels[step]; ok {
		return l
	}
	return string(step)
}
