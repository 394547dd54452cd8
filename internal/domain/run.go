package domain

import (
	"context"
	"errors"
	"strings"
	"time"
)

// RunErrorKind is a high-level classification of runtime errors.
type RunErrorKind string

const (
	RunErrorUnknown  RunErrorKind = "unknown"
	RunErrorTimeout  RunErrorKind = "timeout"
	RunErrorCanceled RunErrorKind = "canceled"
	RunErrorExit     RunErrorKind = "exit"
	RunErrorDownload RunErrorKind = "download"
)

// RunError represents a structured error produced by a stage runner.
type RunError struct {
	Kind    RunErrorKind `json:"kind"`
	Message string       `json:"message"`
}

// NewRunError classifies err into the coarse kinds recorded in run
// artifacts. Context errors win over wrapped operation errors because a
// killed stage process surfaces as a generic exit failure.
func NewRunError(err error) *RunError {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, context.Canceled):
		return &RunError{Kind: RunErrorCanceled, Message: err.Error()}
	case errors.Is(err, context.DeadlineExceeded):
		return &RunError{Kind: RunErrorTimeout, Message: err.Error()}
	}

	var oe *OpError
	if errors.As(err, &oe) && oe.Kind == KindExecution {
		switch {
		case strings.HasPrefix(oe.Op, "fetch."):
			return &RunError{Kind: RunErrorDownload, Message: err.Error()}
		case strings.HasPrefix(oe.Op, "execrunner."):
			return &RunError{Kind: RunErrorExit, Message: err.Error()}
		}
	}

	return &RunError{Kind: RunErrorUnknown, Message: err.Error()}
}

// StageState is the outcome of one stage within a reproduction.
type StageState string

const (
	StageDone    StageState = "done"
	StageCached  StageState = "cached" // fresh per the lock file, not re-run
	StageFailed  StageState = "failed"
	StageSkipped StageState = "skipped" // not run because an upstream stage failed
	StagePlanned StageState = "planned" // dry run: stale, would have run
)

// StageResult records the execution of a single stage.
type StageResult struct {
	Name  string     `json:"name"`
	Kind  StageKind  `json:"kind"`
	State StageState `json:"state"`

	// Reason explains a cached/skipped state or, for executed stages, which
	// input made the stage stale.
	Reason string `json:"reason,omitempty"`

	StartedAt  time.Time `json:"started_at"`
	DurationMS int64     `json:"duration_ms"`

	Error *RunError `json:"error,omitempty"`
}

// Failed reports whether the stage blocks its dependents.
func (r StageResult) Failed() bool {
	return r.State == StageFailed || r.State == StageSkipped
}

// PipelineRun is a persisted reproduction for traceability.
type PipelineRun struct {
	ID string `json:"id"`

	PipelinePath string `json:"pipeline_path"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	Stages []StageResult `json:"stages"`

	// Gate holds the evaluation gate verdicts, when the pipeline declares
	// gate rules and every stage completed.
	Gate []GateResult `json:"gate,omitempty"`
}

// GatePassed reports whether every evaluated gate rule passed. A run with no
// gate results passes vacuously.
func (r PipelineRun) GatePassed() bool {
	for _, g := range r.Gate {
		if !g.Passed {
			return false
		}
	}
	return true
}

// Failures counts stages that failed or were skipped.
func (r PipelineRun) Failures() int {
	n := 0
	for _, s := range r.Stages {
		if s.Failed() {
			n++
		}
	}
	return n
}

// GateResult is the outcome of a single gate rule evaluation.
type GateResult struct {
	Name    string `json:"name"`
	Passed  bool   `json:"passed"`
	Message string `json:"message"`
}
