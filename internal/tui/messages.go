package tui

import (
	"time"

	"github.com/agbru/natcalc/internal/orchestration"
)

// Messages that carry a Generation belong to one verify run; the model drops
// them once a rerun has started.

// ProgressMsg reports the progress of one checker.
type ProgressMsg struct {
	CheckerIndex int
	Value        float64
	Average      float64
	Generation   uint64
}

// ResultsMsg carries the results of a finished run.
type ResultsMsg struct {
	Results    []orchestration.CheckResult
	Generation uint64
}

// CompleteMsg ends a run with its exit code.
type CompleteMsg struct {
	ExitCode   int
	Generation uint64
}

// ErrorMsg reports the failure that decided the exit code.
type ErrorMsg struct {
	Err        error
	Duration   time.Duration
	Generation uint64
}

// ContextCancelledMsg is sent when the run context ends.
type ContextCancelledMsg struct {
	Err        error
	Generation uint64
}

// TickMsg drives the periodic sampling.
type TickMsg time.Time

// MemStatsMsg is a runtime memory sample.
type MemStatsMsg struct {
	Alloc        uint64
	HeapSys      uint64
	NumGC        uint32
	PauseTotalNs uint64
	NumGoroutine int
}

// SysStatsMsg is a system-wide load sample.
type SysStatsMsg struct {
	CPUPercent float64
	MemPercent float64
}
