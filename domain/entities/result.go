package entities

import "time"

// TestResult is the explicit outcome a test hands to its session teardown.
// Failure artifacts are captured only when Failed is set.
type TestResult struct {
	Name       string    `json:"name"`
	Failed     bool      `json:"failed"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// Duration of the test
func (r TestResult) Duration() time.Duration {
	if r.FinishedAt.IsZero() || r.StartedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Artifacts lists files captured at session teardown
type Artifacts struct {
	Screenshot string `json:"screenshot,omitempty"`
	Trace      string `json:"trace,omitempty"`
	Video      string `json:"video,omitempty"`
}

// Empty reports whether nothing was captured
func (a Artifacts) Empty() bool {
	return a.Screenshot == "" && a.Trace == "" && a.Video == ""
}
