package organizer

import (
	"time"

	"picsort/internal/capture"
	"picsort/internal/placer"
)

// FileResult is the outcome of one file.
type FileResult struct {
	Source        string
	Target        string
	Outcome       placer.Outcome
	CaptureTime   time.Time
	CaptureSource capture.Source
	Bytes         int64
	Err           error
}

// Failure records a file that could not be placed.
type Failure struct {
	Source string
	Reason string
	Err    error
}

// Summary totals a run.
type Summary struct {
	RunID      string
	Total      int
	Counts     map[placer.Outcome]int
	Bytes      int64
	Failures   []Failure
	StartedAt  time.Time
	FinishedAt time.Time
	Cancelled  bool
}

func newSummary(runID string, total int) Summary {
	return Summary{
		RunID:     runID,
		Total:     total,
		Counts:    make(map[placer.Outcome]int, len(placer.Outcomes)),
		StartedAt: time.Now(),
	}
}

func (s *Summary) add(res FileResult, reason string) {
	s.Counts[res.Outcome]++
	s.Bytes += res.Bytes
	if res.Outcome == placer.OutcomeFailed {
		s.Failures = append(s.Failures, Failure{Source: res.Source, Reason: reason, Err: res.Err})
	}
}

// Processed is the number of files that reached an outcome.
func (s Summary) Processed() int {
	n := 0
	for _, c := range s.Counts {
		n += c
	}
	return n
}

// Failed is the number of files that failed.
func (s Summary) Failed() int {
	return s.Counts[placer.OutcomeFailed]
}

// Duration is the wall time of the run.
func (s Summary) Duration() time.Duration {
	if s.FinishedAt.IsZero() {
		return 0
	}
	return s.FinishedAt.Sub(s.StartedAt)
}
