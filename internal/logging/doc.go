// Package logging builds the zerolog loggers of the natcalc command line:
// the console logger, per-component children handed to the multiplier and
// the tuner, and a small Logger interface for the metrics endpoint.
package logging
