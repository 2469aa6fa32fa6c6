package e2e

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// TestCLI_E2E builds the natcalc binary and runs it as a user would.
func TestCLI_E2E(t *testing.T) {
	if testing.Short() {
		t.Skip("builds the binary")
	}

	tmpDir := t.TempDir()
	binName := "natcalc"
	if runtime.GOOS == "windows" {
		binName = "natcalc.exe"
	}
	binPath := filepath.Join(tmpDir, binName)
	// A profile path that does not exist keeps the user's calibration out of
	// the runs.
	profile := filepath.Join(tmpDir, "profile.json")

	// go test runs with the package directory as working directory.
	rootDir := "../.."

	cmd := exec.Command("go", "build", "-o", binPath, "./cmd/natcalc")
	cmd.Dir = rootDir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		t.Fatalf("Failed to build natcalc: %v", err)
	}

	tests := []struct {
		name     string
		args     []string
		wantOut  string // substring match (case-insensitive)
		wantCode int
	}{
		{
			name:     "Quiet Product",
			args:     []string{"mul", "3", "2", "-q"},
			wantOut:  "6",
			wantCode: 0,
		},
		{
			name:     "Product Of Multi-Limb Operands",
			args:     []string{"mul", "18446744073709551615", "18446744073709551615", "-q"},
			wantOut:  "340282366920938463426481119284349108225",
			wantCode: 0,
		},
		{
			name:     "Quiet Division",
			args:     []string{"div", "23", "10", "-q"},
			wantOut:  "2\n3",
			wantCode: 0,
		},
		{
			name:     "Division By Zero",
			args:     []string{"div", "5", "0"},
			wantOut:  "division by zero",
			wantCode: 1,
		},
		{
			name:     "Help",
			args:     []string{"--help"},
			wantOut:  "usage",
			wantCode: 0,
		},
		{
			name:     "Verify All Algorithms",
			args:     []string{"verify", "-n", "40", "-m", "40", "-trials", "2", "-seed", "7"},
			wantOut:  "Success",
			wantCode: 0,
		},
		{
			name:     "Quiet Verify",
			args:     []string{"verify", "-n", "8", "-m", "8", "-trials", "2", "-q"},
			wantOut:  "ok",
			wantCode: 0,
		},
		{
			name:     "Unsupported Algorithm",
			args:     []string{"verify", "-algo", "toom8h", "-n", "2", "-m", "2"},
			wantOut:  "cannot multiply",
			wantCode: 4,
		},
		{
			name:     "Very Short Timeout",
			args:     []string{"verify", "-n", "4000", "-m", "4000", "-trials", "50", "-timeout", "1ns"},
			wantCode: 2,
		},
		{
			name:     "Version Flag",
			args:     []string{"--version"},
			wantOut:  "natcalc",
			wantCode: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{}, tt.args...)
			if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
				args = append(args, "-profile", profile)
			}
			cmd := exec.Command(binPath, args...)
			cmd.Env = append(os.Environ(), "NO_COLOR=1")
			output, err := cmd.CombinedOutput()
			outStr := string(output)

			if tt.wantCode == 0 {
				if err != nil {
					t.Errorf("Command failed unexpectedly: %v\nOutput: %s", err, outStr)
				}
			} else {
				var exitErr *exec.ExitError
				switch {
				case err == nil:
					t.Errorf("Expected exit code %d, but command succeeded.\nOutput: %s", tt.wantCode, outStr)
				case errors.As(err, &exitErr) && exitErr.ExitCode() != tt.wantCode:
					t.Errorf("Exit code = %d, want %d\nOutput: %s", exitErr.ExitCode(), tt.wantCode, outStr)
				}
			}

			if tt.wantOut != "" {
				if !strings.Contains(strings.ToLower(outStr), strings.ToLower(tt.wantOut)) {
					t.Errorf("Output missing expected string.\nExpected: %q\nGot:\n%s", tt.wantOut, outStr)
				}
			}
		})
	}
}
