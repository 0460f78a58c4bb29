package entities

import "time"

// RunStatus represents the status of a smoke run
type RunStatus string

const (
	RunPending RunStatus = "pending"
	RunRunning RunStatus = "running"
	RunPassed  RunStatus = "passed"
	RunFailed  RunStatus = "failed"
)

// StepResult represents the result of one step of a smoke scenario
type StepResult struct {
	Name     string        `json:"name"`
	Passed   bool          `json:"passed"`
	Skipped  bool          `json:"skipped,omitempty"`
	Error    string        `json:"error,omitempty"`
	Code     string        `json:"code,omitempty"`
	Duration time.Duration `json:"duration"`
}

// Report is the record of one smoke scenario run
type Report struct {
	ID         string       `json:"id"`
	Scenario   string       `json:"scenario"`
	Status     RunStatus    `json:"status"`
	Steps      []StepResult `json:"steps"`
	Page       *PageInfo    `json:"page,omitempty"`
	Artifacts  Artifacts    `json:"artifacts,omitempty"`
	StartedAt  time.Time    `json:"started_at"`
	FinishedAt time.Time    `json:"finished_at"`
}

// Failed reports whether any step failed
func (r Report) Failed() bool {
	return r.Status == RunFailed
}
