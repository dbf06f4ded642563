package tui

import (
	"fmt"
	"strings"

	"github.com/amishk599/careerlens/internal/model"
	"github.com/amishk599/careerlens/internal/session"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Lines per listing in the jobs pane (title + subtitle + blank separator).
const jobItemHeight = 3

// progressSteps returns the known steps followed by any unknown step the
// service reported, in first-seen order.
func progressSteps(p session.Progress) []model.StepID {
	steps := append([]model.StepID(nil), session.KnownSteps...)
	seen := make(map[model.StepID]bool, len(steps))
	for _, s := range steps {
		seen[s] = true
	}
	extra := append(append([]model.StepID(nil), p.CompletedSteps...), p.CurrentStep)
	for _, s := range extra {
		if s == "" || s == model.StepDone || seen[s] {
			continue
		}
		seen[s] = true
		steps = append(steps, s)
	}
	return steps
}

func renderProgress(p session.Progress, analyzing bool, frame int) string {
	done := make(map[model.StepID]bool, len(p.CompletedSteps))
	for _, s := range p.CompletedSteps {
		done[s] = true
	}

	var b strings.Builder
	for _, step := range progressSteps(p) {
		label := session.StepLabel(step)
		switch {
		case done[step]:
			b.WriteString(stepDoneStyle.Render("  ✓ " + label))
		case step == p.CurrentStep && p.IsProcessing && analyzing:
			b.WriteString(stepActiveStyle.Render("  " + spinnerFrames[frame%len(spinnerFrames)] + " " + label + "..."))
		case step == p.CurrentStep && p.IsProcessing:
			b.WriteString(stepFailedStyle.Render("  ✗ " + label))
		default:
			b.WriteString(stepPendingStyle.Render("  · " + label))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func divider(label string, width int) string {
	fill := strings.Repeat("─", max(width-len([]rune(label)), 3))
	return sectionDividerStyle.Render(label + fill)
}

// renderAnalysisPane shows upload progress until a result exists, then the
// result itself.
func renderAnalysisPane(snap session.Snapshot, frame, width, queryKeywords int) string {
	wrap := max(width-2, 20)
	r := snap.AnalysisResult

	if r == nil {
		var b strings.Builder
		switch {
		case snap.SelectedFile == nil:
			b.WriteString(hintStyle.Render("  no file selected"))
			return b.String()
		case snap.Analyzing && snap.Progress.CurrentStep == "":
			b.WriteString(stepActiveStyle.Render("  " + spinnerFrames[frame%len(spinnerFrames)] + " Uploading resume..."))
			b.WriteString("\n\n")
		case !snap.Analyzing && snap.Progress.CurrentStep == "":
			b.WriteString(hintStyle.Render("  press a to analyze this resume"))
			return b.String()
		}
		b.WriteString(renderProgress(snap.Progress, snap.Analyzing, frame))
		if !snap.Analyzing {
			b.WriteByte('\n')
			b.WriteString(hintStyle.Render("  analysis did not finish, press a to retry"))
		}
		return b.String()
	}

	var b strings.Builder
	section := func(title, body string) {
		b.WriteString(divider("── "+title+" ", wrap) + "\n\n")
		if strings.TrimSpace(body) == "" {
			b.WriteString(hintStyle.Render("  (empty)") + "\n\n")
			return
		}
		b.WriteString(bodyStyle.Render(wordWrap(body, wrap)) + "\n\n")
	}
	section("Executive Summary", r.Summary)
	section("Identified Gaps", r.Gaps)
	section("Strategic Roadmap", r.Roadmap)

	b.WriteString(divider("── Job Keywords ", wrap) + "\n\n")
	if len(r.Keywords) == 0 {
		b.WriteString(hintStyle.Render("  (none)") + "\n")
	}
	for i, kw := range r.Keywords {
		if i < queryKeywords {
			b.WriteString(keywordStyle.Render("  ★ "+kw) + "\n")
		} else {
			b.WriteString(bodyStyle.Render("  • "+kw) + "\n")
		}
	}
	return b.String()
}

func renderListings(listings []model.JobListing, cursor int, isActive bool) string {
	if len(listings) == 0 {
		return "  (no jobs)"
	}

	var b strings.Builder
	for i, j := range listings {
		isSelected := isActive && i == cursor

		titleSt := jobTitleStyle
		subtitleSt := jobSubtitleStyle
		prefix := "  "
		if isSelected {
			titleSt = selectedJobTitleStyle
			subtitleSt = selectedJobSubtitleStyle
			prefix = "> "
		}

		b.WriteString(prefix)
		b.WriteString(titleSt.Render(j.Title))
		b.WriteByte('\n')

		b.WriteString(prefix)
		b.WriteString(subtitleSt.Render(listingSubtitle(j)))
		b.WriteByte('\n')

		if i < len(listings)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func listingSubtitle(j model.JobListing) string {
	var parts []string
	if j.CompanyName != "" {
		parts = append(parts, j.CompanyName)
	}
	if j.Location != "" {
		parts = append(parts, j.Location)
	}
	if j.ApplyURL == "" {
		parts = append(parts, "no link")
	}
	if len(parts) == 0 {
		return "n/a"
	}
	return strings.Join(parts, " · ")
}

func renderJobsPlaceholder(snap session.Snapshot, frame, queryKeywords int) string {
	switch {
	case snap.FetchingJobs:
		query := ""
		if snap.AnalysisResult != nil {
			query = session.SearchQuery(snap.AnalysisResult.Keywords, queryKeywords)
		}
		return stepActiveStyle.Render(fmt.Sprintf("  %s Searching jobs for %q...", spinnerFrames[frame%len(spinnerFrames)], query))
	case snap.AnalysisResult == nil:
		return hintStyle.Render("  analyze a resume to get job recommendations")
	default:
		return hintStyle.Render("  press f to find matching jobs")
	}
}

func wordWrap(text string, width int) string {
	var out []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		line := words[0]
		for _, w := range words[1:] {
			if len([]rune(line))+1+len([]rune(w)) <= width {
				line += " " + w
			} else {
				out = append(out, line)
				line = w
			}
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
