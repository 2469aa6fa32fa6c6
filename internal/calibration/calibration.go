// Package calibration measures the algorithm crossovers of the threshold
// table on the running machine and persists them as a JSON profile, which
// becomes one step of the threshold resolution chain.
package calibration

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/agbru/natcalc/internal/config"
	"github.com/agbru/natcalc/internal/sysmon"
	"github.com/agbru/natcalc/internal/ui"
)

// Machine load check performed before timing anything.
const (
	MaxLoadCPUPercent  = 50.0
	loadSampleInterval = 250 * time.Millisecond
	loadSampleAttempts = 4
)

// Calibrate tunes the thresholds starting from base, prints the measurements
// and the resulting table to out, and saves the profile to profilePath when
// it is not empty.
func Calibrate(ctx context.Context, out io.Writer, base config.Thresholds, profilePath string, opts ...Option) (*CalibrationProfile, error) {
	start := time.Now()
	tuner, err := NewTuner(base, opts...)
	if err != nil {
		return nil, err
	}

	load, quiet := sysmon.WaitForQuiet(ctx, MaxLoadCPUPercent, loadSampleInterval, loadSampleAttempts)
	if !quiet {
		fmt.Fprintf(out, "%sWarning%s: system CPU usage is %.0f%%, measurements may be noisy\n",
			ui.ColorYellow(), ui.ColorReset(), load.CPUPercent)
	}

	results, th, err := tuner.Run(ctx)
	if err != nil {
		return nil, err
	}
	for i, res := range results {
		printCalibrationResults(out, tuner.params[i], res)
	}
	printCalibrationOutput(th, out)

	profile := NewProfile()
	profile.Thresholds = th
	profile.LoadCPUPercent = load.CPUPercent
	for _, res := range results {
		profile.Measurements = append(profile.Measurements, res.Measurements...)
	}
	profile.CalibrationTime = time.Since(start).Round(time.Millisecond).String()

	if profilePath != "" {
		if err := profile.SaveProfile(profilePath); err != nil {
			return profile, err
		}
		fmt.Fprintf(out, "\nProfile saved to %s%s%s\n", ui.ColorCyan(), profilePath, ui.ColorReset())
	}
	return profile, nil
}
