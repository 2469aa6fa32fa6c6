package tui

import (
	"io"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	apperrors "github.com/agbru/natcalc/internal/errors"
	"github.com/agbru/natcalc/internal/orchestration"
)

// programRef lets the verify goroutines reach the program. bubbletea copies
// the model on every Update, so the model keeps a pointer to this instead
// of the program itself.
type programRef struct {
	mu      sync.RWMutex
	program *tea.Program
}

func (r *programRef) SetProgram(p *tea.Program) {
	r.mu.Lock()
	r.program = p
	r.mu.Unlock()
}

// Send forwards msg to the program. It does nothing before SetProgram.
func (r *programRef) Send(msg tea.Msg) {
	r.mu.RLock()
	p := r.program
	r.mu.RUnlock()
	if p != nil {
		p.Send(msg)
	}
}

// Reporter forwards checker progress to the dashboard.
type Reporter struct {
	ref        *programRef
	generation uint64
}

var _ orchestration.ProgressReporter = (*Reporter)(nil)

// DisplayProgress drains progressChan, sending one ProgressMsg per update.
func (r *Reporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan orchestration.ProgressUpdate, numCheckers int, _ io.Writer) {
	defer wg.Done()

	agg := orchestration.NewProgressAggregator(numCheckers)
	if agg == nil {
		orchestration.DrainChannel(progressChan)
		return
	}
	for update := range progressChan {
		avg := agg.Update(update)
		r.ref.Send(ProgressMsg{
			CheckerIndex: update.CheckerIndex,
			Value:        update.Value,
			Average:      avg,
			Generation:   r.generation,
		})
	}
}

// Presenter sends the results of a run to the dashboard instead of writing
// them out.
type Presenter struct {
	ref        *programRef
	generation uint64
}

var _ orchestration.ResultPresenter = (*Presenter)(nil)

// PresentComparisonTable sends the results.
func (p *Presenter) PresentComparisonTable(results []orchestration.CheckResult, _ io.Writer) {
	p.ref.Send(ResultsMsg{Results: results, Generation: p.generation})
}

// HandleError sends err and returns its exit code.
func (p *Presenter) HandleError(err error, duration time.Duration, _ io.Writer) int {
	p.ref.Send(ErrorMsg{Err: err, Duration: duration, Generation: p.generation})
	return apperrors.HandleCalculationError(err, duration, io.Discard, nil)
}
