package config

import (
	"errors"
	"flag"
	"io"
	"testing"
	"time"

	apperrors "github.com/agbru/natcalc/internal/errors"
	"github.com/agbru/natcalc/internal/limbs"
)

func TestParseConfigCommands(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		args     []string
		command  string
		operands []string
		wantErr  bool
	}{
		{"default is verify", nil, CommandVerify, nil, false},
		{"mul with operands", []string{"mul", "12", "34"}, CommandMul, []string{"12", "34"}, false},
		{"div with trailing flag", []string{"div", "23", "10", "-v"}, CommandDiv, []string{"23", "10"}, false},
		{"flags before operands", []string{"mul", "-quiet", "7", "6"}, CommandMul, []string{"7", "6"}, false},
		{"tune", []string{"tune", "-profile", "/tmp/p.json"}, CommandTune, nil, false},
		{"verify dashboard", []string{"verify", "-tui"}, CommandVerify, nil, false},
		{"mul missing operand", []string{"mul", "12"}, "", nil, true},
		{"verify with operand", []string{"verify", "12"}, "", nil, true},
		{"unknown command", []string{"pow", "2", "3"}, "", nil, true},
		{"unknown flag", []string{"verify", "-bogus"}, "", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg, err := ParseConfig("natcalc", tt.args, io.Discard)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseConfig(%q) succeeded, want error", tt.args)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseConfig(%q) error: %v", tt.args, err)
			}
			if cfg.Command != tt.command {
				t.Errorf("Command = %q, want %q", cfg.Command, tt.command)
			}
			if len(cfg.Operands) != len(tt.operands) {
				t.Fatalf("Operands = %q, want %q", cfg.Operands, tt.operands)
			}
			for i := range tt.operands {
				if cfg.Operands[i] != tt.operands[i] {
					t.Errorf("Operands[%d] = %q, want %q", i, cfg.Operands[i], tt.operands[i])
				}
			}
		})
	}
}

func TestParseConfigFlags(t *testing.T) {
	t.Parallel()
	cfg, err := ParseConfig("natcalc", []string{"verify", "-n", "300", "-m", "120", "-trials", "3",
		"-seed", "42", "-algo", "toom33", "-timeout", "30s", "-toom22", "12", "-fft", "5000"}, io.Discard)
	if err != nil {
		t.Fatalf("ParseConfig error: %v", err)
	}
	if cfg.N != 300 || cfg.M != 120 || cfg.Trials != 3 || cfg.Seed != 42 {
		t.Errorf("numeric flags not applied: %+v", cfg)
	}
	if cfg.Algo != "toom33" || cfg.Timeout != 30*time.Second {
		t.Errorf("algo/timeout not applied: %q %s", cfg.Algo, cfg.Timeout)
	}
	if cfg.Thresholds.Toom22 != 12 || cfg.Thresholds.FFT != 5000 || cfg.Thresholds.Toom33 != 0 {
		t.Errorf("threshold overrides = %+v", cfg.Thresholds)
	}
}

func TestParseConfigHelp(t *testing.T) {
	t.Parallel()
	_, err := ParseConfig("natcalc", []string{"-h"}, io.Discard)
	if !errors.Is(err, flag.ErrHelp) {
		t.Errorf("ParseConfig(-h) error = %v, want flag.ErrHelp", err)
	}
}

func TestParseConfigValidation(t *testing.T) {
	t.Parallel()
	for _, args := range [][]string{
		{"-n", "0"},
		{"-trials", "0"},
		{"-timeout", "0s"},
		{"-toom33", "-1"},
		{"mul", "2", "3", "-tui"},
		{"-tui", "-q"},
	} {
		_, err := ParseConfig("natcalc", args, io.Discard)
		var cfgErr apperrors.ConfigError
		if !errors.As(err, &cfgErr) {
			t.Errorf("ParseConfig(%q) error = %v, want ConfigError", args, err)
		}
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvPrefix+"N", "500")
	t.Setenv(EnvPrefix+"TRIALS", "9")
	t.Setenv(EnvPrefix+"TOOM44_THRESHOLD", "210")
	t.Setenv(EnvPrefix+"VERBOSE", "yes")
	t.Setenv(EnvPrefix+"M", "not-a-number")

	cfg, err := ParseConfig("natcalc", []string{"verify", "-trials", "2"}, io.Discard)
	if err != nil {
		t.Fatalf("ParseConfig error: %v", err)
	}
	if cfg.N != 500 {
		t.Errorf("N = %d, want env value 500", cfg.N)
	}
	if cfg.Trials != 2 {
		t.Errorf("Trials = %d, want flag value 2 (flags win over env)", cfg.Trials)
	}
	if cfg.Thresholds.Toom44 != 210 {
		t.Errorf("Toom44 = %d, want 210", cfg.Thresholds.Toom44)
	}
	if !cfg.Verbose {
		t.Error("Verbose should be enabled by env")
	}
	if cfg.M != DefaultM {
		t.Errorf("M = %d, invalid env value should keep default %d", cfg.M, DefaultM)
	}
}

func TestParseBoolEnv(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		def  bool
		want bool
	}{
		{"true", false, true}, {"1", false, true}, {"YES", false, true},
		{"false", true, false}, {"0", true, false}, {"No", true, false},
		{"maybe", true, true}, {"maybe", false, false},
	}
	for _, tt := range tests {
		if got := parseBoolEnv(tt.in, tt.def); got != tt.want {
			t.Errorf("parseBoolEnv(%q, %v) = %v, want %v", tt.in, tt.def, got, tt.want)
		}
	}
}

func TestThresholdsValidate(t *testing.T) {
	t.Parallel()
	if err := DefaultThresholds().Validate(); err != nil {
		t.Fatalf("default thresholds invalid: %v", err)
	}
	bad := []func(*Thresholds){
		func(th *Thresholds) { th.Toom22 = 2 },
		func(th *Thresholds) { th.Toom33 = th.Toom22 - 1 },
		func(th *Thresholds) { th.FFT = th.Toom8h - 1 },
		func(th *Thresholds) { th.DivDC = 3 },
		func(th *Thresholds) { th.DivDCApprox = 0 },
	}
	for i, mutate := range bad {
		th := DefaultThresholds()
		mutate(&th)
		if err := th.Validate(); err == nil {
			t.Errorf("case %d: Validate(%s) succeeded, want error", i, th)
		}
	}
}

func TestThresholdsMerge(t *testing.T) {
	t.Parallel()
	user := Thresholds{Toom22: 10, FFT: 9000}
	got := user.Merge(DefaultThresholds())
	if got.Toom22 != 10 || got.FFT != 9000 {
		t.Errorf("Merge lost user values: %s", got)
	}
	if got.Toom33 != DefaultToom33Threshold || got.DivDC != DefaultDivDCThreshold {
		t.Errorf("Merge did not fill defaults: %s", got)
	}
}

func TestEstimateThresholdsIsValid(t *testing.T) {
	t.Parallel()
	for _, f := range []limbs.CPUFeatures{{}, {AVX2: true, BMI2: true, ADX: true}, {ASIMD: true}} {
		th := EstimateThresholds(f)
		if err := th.Validate(); err != nil {
			t.Errorf("EstimateThresholds(%s) invalid: %v", f, err)
		}
	}
}

func TestApplyAdaptiveThresholdsKeepsOverrides(t *testing.T) {
	t.Parallel()
	cfg := AppConfig{Thresholds: Thresholds{Toom33: 77}}
	cfg = ApplyAdaptiveThresholds(cfg)
	if cfg.Thresholds.Toom33 != 77 {
		t.Errorf("Toom33 = %d, want user override 77", cfg.Thresholds.Toom33)
	}
	if cfg.Thresholds.Toom22 == 0 || cfg.Thresholds.FFT == 0 {
		t.Errorf("adaptive thresholds not applied: %s", cfg.Thresholds)
	}
}
