//go:build integration || database

package integration

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"
)

var (
	// sharedBinaryPath holds the path to a scorecards binary built once for all tests.
	sharedBinaryPath string

	// buildOnce ensures we only build the binary once.
	buildOnce sync.Once

	// buildMutex protects the shared binary path.
	buildMutex sync.Mutex

	// tempDir holds the temp directory for cleanup.
	tempDir string
)

// reportFixture is the monthly CSV export shared with the agg package tests.
const reportFixture = "../core/agg/testdata/monthly_reports.csv"

// TestMain handles setup and cleanup for all integration tests.
func TestMain(m *testing.M) {
	code := m.Run()

	// Cleanup the shared binary after all tests
	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
	}

	os.Exit(code)
}

// getScorecardsBinary returns the path to the scorecards binary, building it once if needed.
func getScorecardsBinary() string {
	buildMutex.Lock()
	defer buildMutex.Unlock()

	buildOnce.Do(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "scorecards-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		binPath := filepath.Join(tempDir, "scorecards")
		buildCmd := exec.Command("go", "build", "-o", binPath, "./cmd/scorecards")
		buildCmd.Dir = ".." // Build from project root
		if err := buildCmd.Run(); err != nil {
			panic(fmt.Sprintf("failed to build scorecards: %v", err))
		}

		sharedBinaryPath = binPath
	})

	return sharedBinaryPath
}

// runScorecards runs the CLI from the project root and returns its stdout.
func runScorecards(t *testing.T, env []string, args ...string) ([]byte, error) {
	t.Helper()
	cmd := exec.Command(getScorecardsBinary(), args...)
	cmd.Dir = ".."
	cmd.Env = append(os.Environ(), env...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		t.Logf("Command failed: %s\nStdout: %s\nStderr: %s", cmd.String(), stdout.String(), stderr.String())
		return nil, err
	}
	return stdout.Bytes(), nil
}
