package relocation

import (
	"fmt"
	"strings"
	"time"

	"phototriage/internal/catalog"
)

// Outcome is the per-photo result of a relocation run.
type Outcome string

const (
	// OutcomeMoved means both files reached their destinations and the
	// archival RAW copy was written.
	OutcomeMoved Outcome = "moved"
	// OutcomeFailed means the photo was left (or put back) in the input directory.
	OutcomeFailed Outcome = "failed"
	// OutcomeArchiveFailed means both files moved but the archival RAW copy
	// could not be written. It counts as a success.
	OutcomeArchiveFailed Outcome = "archive_failed"
)

// Succeeded reports whether the outcome counts toward the moved total.
func (o Outcome) Succeeded() bool {
	return o == OutcomeMoved || o == OutcomeArchiveFailed
}

// PhotoOutcome records what happened to one photo.
type PhotoOutcome struct {
	PhotoID    string
	RAWPath    string
	JPEGPath   string
	RAWTarget  string
	JPEGTarget string
	Outcome    Outcome
	Err        error
}

// GroupResult is the outcome of one rating group.
type GroupResult struct {
	Route  Route
	Photos []PhotoOutcome
	// Skipped is set when the run stopped before reaching this group.
	Skipped bool
}

// Total returns the number of photos in the group.
func (g GroupResult) Total() int { return len(g.Photos) }

// Succeeded returns how many photos count as moved.
func (g GroupResult) Succeeded() int {
	n := 0
	for _, p := range g.Photos {
		if p.Outcome.Succeeded() {
			n++
		}
	}
	return n
}

// Failures returns every photo carrying an error line, in catalog order.
func (g GroupResult) Failures() []PhotoOutcome {
	var out []PhotoOutcome
	for _, p := range g.Photos {
		if p.Err != nil {
			out = append(out, p)
		}
	}
	return out
}

// Report renders the group summary. An empty group renders as "".
func (g GroupResult) Report() string {
	if len(g.Photos) == 0 {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d/%d photos are successfully moved\nRAW:%s\nJPEG:%s",
		g.Succeeded(), g.Total(), g.Route.RAWDir, g.Route.JPEGDir)
	failures := g.Failures()
	if len(failures) == 0 {
		return b.String()
	}
	lines := make([]string, 0, len(failures))
	for _, f := range failures {
		lines = append(lines, f.PhotoID+": "+f.Err.Error())
	}
	b.WriteString("\nfollowing files cannot be moved:\n  ")
	b.WriteString(strings.Join(lines, "\n  "))
	return b.String()
}

// Result is the structured outcome of Engine.Run. Groups always holds every
// rating, including unrated.
type Result struct {
	RunID            string
	InputDir         string
	Groups           map[catalog.Rating]*GroupResult
	Untouched        int
	AlreadyRelocated bool
	Started          time.Time
	Finished         time.Time
}

func newResult(runID, inputDir string) *Result {
	r := &Result{
		RunID:    runID,
		InputDir: inputDir,
		Groups:   make(map[catalog.Rating]*GroupResult, len(catalog.Ratings())),
	}
	for _, rating := range catalog.Ratings() {
		r.Groups[rating] = &GroupResult{Route: Route{Rating: rating}}
	}
	return r
}

// Group returns the result for rating, or an empty group.
func (r *Result) Group(rating catalog.Rating) GroupResult {
	if g, ok := r.Groups[rating]; ok && g != nil {
		return *g
	}
	return GroupResult{Route: Route{Rating: rating}}
}

// Reports renders every group. All five ratings are present.
func (r *Result) Reports() map[catalog.Rating]string {
	out := make(map[catalog.Rating]string, len(catalog.Ratings()))
	for _, rating := range catalog.Ratings() {
		out[rating] = r.Group(rating).Report()
	}
	return out
}

// Moved returns the number of photos that count as moved across all groups.
func (r *Result) Moved() int {
	n := 0
	for _, g := range r.Groups {
		n += g.Succeeded()
	}
	return n
}

// Failed returns the number of photos left in the input directory.
func (r *Result) Failed() int {
	n := 0
	for _, g := range r.Groups {
		n += g.Total() - g.Succeeded()
	}
	return n
}

// Outcomes returns every photo outcome in processing order.
func (r *Result) Outcomes() []PhotoOutcome {
	var out []PhotoOutcome
	for _, rating := range processingOrder {
		out = append(out, r.Group(rating).Photos...)
	}
	return out
}
