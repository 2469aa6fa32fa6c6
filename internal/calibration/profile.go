package calibration

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/agbru/natcalc/internal/config"
	apperrors "github.com/agbru/natcalc/internal/errors"
	"github.com/agbru/natcalc/internal/limbs"
	"github.com/agbru/natcalc/internal/sysmon"
)

// CurrentProfileVersion is bumped whenever the profile layout or the meaning
// of a threshold changes; older profiles are then ignored.
const CurrentProfileVersion = 1

// DefaultProfileFileName is the profile file name in the home directory.
const DefaultProfileFileName = ".natcalc_calibration.json"

// DefaultMaxProfileAge is the age after which a profile is considered stale.
const DefaultMaxProfileAge = 30 * 24 * time.Hour

// CalibrationProfile is the persisted outcome of a tune run, together with
// the hardware it was measured on.
type CalibrationProfile struct {
	ProfileVersion int    `json:"profile_version"`
	NumCPU         int    `json:"num_cpu"`
	GOARCH         string `json:"goarch"`
	GOOS           string `json:"goos"`
	GoVersion      string `json:"go_version"`
	WordSize       int    `json:"word_size"`
	CPUModel       string `json:"cpu_model,omitempty"`
	CPUFeatures    string `json:"cpu_features"`

	CalibratedAt    time.Time `json:"calibrated_at"`
	CalibrationTime string    `json:"calibration_time,omitempty"`
	// LoadCPUPercent is the system CPU usage sampled before tuning.
	LoadCPUPercent float64 `json:"load_cpu_percent"`

	Thresholds   config.Thresholds `json:"thresholds"`
	Measurements []Measurement     `json:"measurements,omitempty"`
}

// NewProfile returns a profile describing the current machine, with the
// hardware estimate as thresholds.
func NewProfile() *CalibrationProfile {
	return &CalibrationProfile{
		ProfileVersion: CurrentProfileVersion,
		NumCPU:         runtime.NumCPU(),
		GOARCH:         runtime.GOARCH,
		GOOS:           runtime.GOOS,
		GoVersion:      runtime.Version(),
		WordSize:       limbs.W,
		CPUModel:       sysmon.CPUModel(),
		CPUFeatures:    limbs.DetectCPUFeatures().String(),
		CalibratedAt:   time.Now(),
		Thresholds:     EstimateThresholds(),
	}
}

// IsValid reports whether the profile was produced by this profile version on
// hardware matching the current process, and holds a usable table.
func (p *CalibrationProfile) IsValid() bool {
	if p == nil {
		return false
	}
	return p.ProfileVersion == CurrentProfileVersion &&
		p.NumCPU == runtime.NumCPU() &&
		p.GOARCH == runtime.GOARCH &&
		p.WordSize == limbs.W &&
		p.Thresholds.Validate() == nil
}

// IsStale reports whether the profile is older than maxAge.
func (p *CalibrationProfile) IsStale(maxAge time.Duration) bool {
	if p == nil {
		return true
	}
	return time.Since(p.CalibratedAt) > maxAge
}

// String summarizes the profile on a few lines.
func (p *CalibrationProfile) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Calibration profile v%d (%s/%s, %d CPUs, %d-bit limbs, %s)\n",
		p.ProfileVersion, p.GOOS, p.GOARCH, p.NumCPU, p.WordSize, p.CPUFeatures)
	if p.CPUModel != "" {
		fmt.Fprintf(&sb, "  CPU: %s\n", p.CPUModel)
	}
	fmt.Fprintf(&sb, "  Calibrated: %s", p.CalibratedAt.Format(time.RFC3339))
	if p.CalibrationTime != "" {
		fmt.Fprintf(&sb, " in %s", p.CalibrationTime)
	}
	fmt.Fprintf(&sb, "\n  Thresholds: %s", p.Thresholds)
	return sb.String()
}

// SaveProfile writes the profile as indented JSON. The file is written
// next to path and renamed, so a reader never sees a partial profile.
func (p *CalibrationProfile) SaveProfile(path string) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return apperrors.WrapError(err, "encoding calibration profile")
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".natcalc-profile-*")
	if err != nil {
		return apperrors.WrapError(err, "saving calibration profile")
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return apperrors.WrapError(err, "saving calibration profile")
	}
	if err := tmp.Close(); err != nil {
		return apperrors.WrapError(err, "saving calibration profile")
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return apperrors.WrapError(err, "saving calibration profile")
	}
	return nil
}

// loadProfile reads a profile without judging its validity.
func loadProfile(path string) (*CalibrationProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var p CalibrationProfile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, apperrors.WrapError(err, "decoding calibration profile %s", path)
	}
	return &p, nil
}

// LoadOrCreateProfile loads the profile at path. When it is missing,
// unreadable or invalid for this machine, a fresh profile is returned and
// loaded is false.
func LoadOrCreateProfile(path string) (profile *CalibrationProfile, loaded bool) {
	p, err := loadProfile(path)
	if err != nil || !p.IsValid() {
		return NewProfile(), false
	}
	return p, true
}

// LoadThresholds returns the thresholds of the profile at path when it is
// valid and not stale. The profile is one step of the threshold resolution
// chain, so a missing profile is not an error.
func LoadThresholds(path string) (config.Thresholds, bool) {
	if path == "" {
		path = GetDefaultProfilePath()
	}
	p, err := loadProfile(path)
	if err != nil || !p.IsValid() || p.IsStale(DefaultMaxProfileAge) {
		return config.Thresholds{}, false
	}
	return p.Thresholds, true
}

// GetDefaultProfilePath returns ~/.natcalc_calibration.json, or the file name
// alone when the home directory is unknown.
func GetDefaultProfilePath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return DefaultProfileFileName
	}
	return filepath.Join(home, DefaultProfileFileName)
}
