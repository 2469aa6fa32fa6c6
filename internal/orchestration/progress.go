package orchestration

// ProgressAggregator averages the progress of several checkers.
type ProgressAggregator struct {
	progresses []float64
}

// NewProgressAggregator creates an aggregator for the given number of
// checkers. Returns nil if numCheckers <= 0.
func NewProgressAggregator(numCheckers int) *ProgressAggregator {
	if numCheckers <= 0 {
		return nil
	}
	return &ProgressAggregator{progresses: make([]float64, numCheckers)}
}

// Update records an update and returns the new average. Updates with an
// out-of-range index are ignored.
func (a *ProgressAggregator) Update(update ProgressUpdate) float64 {
	if update.CheckerIndex >= 0 && update.CheckerIndex < len(a.progresses) {
		a.progresses[update.CheckerIndex] = update.Value
	}
	return a.CalculateAverage()
}

// CalculateAverage returns the current average progress without updating.
func (a *ProgressAggregator) CalculateAverage() float64 {
	var total float64
	for _, p := range a.progresses {
		total += p
	}
	return total / float64(len(a.progresses))
}

// NumCheckers returns the number of checkers being tracked.
func (a *ProgressAggregator) NumCheckers() int {
	return len(a.progresses)
}

// DrainChannel reads all updates from the channel without processing.
func DrainChannel(progressChan <-chan ProgressUpdate) {
	for range progressChan {
	}
}
