// Package orchestration runs the verification checks of natcalc
// concurrently: every multiplication algorithm against the basecase, and the
// division and Natural entry points against their defining identities. It
// decouples the checks from presentation via the ProgressReporter and
// ResultPresenter interfaces.
package orchestration
