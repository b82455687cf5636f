// Package jobs provides the compression job model, the shared FIFO queue,
// and the fixed-size worker pool that drains it.
package jobs

import (
	"time"

	"github.com/google/uuid"
)

// Status represents the current state of a job.
type Status string

const (
	StatusQueued    Status = "queued"
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Job is one compression request. The front controller creates it; ownership
// transfers fully to a worker on dequeue, so fields are never mutated
// concurrently. Failed jobs are reported and dropped, never requeued.
type Job struct {
	ID         string
	InputPath  string
	OutputPath string
	Preset     string
	TargetMB   *int // nil selects quality mode.

	Status Status
	Error  string  // Set when Status is StatusFailed.
	SizeMB float64 // Resulting file size, set when StatusSucceeded.

	CreatedAt   time.Time
	StartedAt   time.Time
	CompletedAt time.Time
}

// New creates a queued job with a fresh ID.
func New(input, output, presetName string, targetMB *int) *Job {
	return &Job{
		ID:         uuid.NewString(),
		InputPath:  input,
		OutputPath: output,
		Preset:     presetName,
		TargetMB:   targetMB,
		Status:     StatusQueued,
		CreatedAt:  time.Now(),
	}
}

// IsTerminal reports whether the job has reached a final state.
func (j *Job) IsTerminal() bool {
	return j.Status == StatusSucceeded || j.Status == StatusFailed
}

// Notifier receives job lifecycle events. Implementations must be safe for
// concurrent calls from multiple workers. Any front end (CLI, GUI, web) can
// subscribe without the core depending on its toolkit.
type Notifier interface {
	JobStarted(*Job)
	JobSucceeded(*Job)
	JobFailed(*Job)
}

// NopNotifier discards all events.
type NopNotifier struct{}

func (NopNotifier) JobStarted(*Job)   {}
func (NopNotifier) JobSucceeded(*Job) {}
func (NopNotifier) JobFailed(*Job)    {}
