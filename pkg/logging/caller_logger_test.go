package logging_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gatehook/gatehook/pkg/logging"
)

func TestCallerReporting(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "out.log")
	logging.SetLevel("info")
	logging.SetOutputFormat("text")
	logging.SetOutputs([]string{logFile}, 0, 0)

	logging.Default().Info("caller check")

	content, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("Failed to read log output: %s", err)
	}
	out := string(content)
	if !strings.Contains(out, "logger_test.go") {
		t.Errorf("caller should be the call site, got: %s", out)
	}
	if strings.Contains(out, "logger.go:") {
		t.Errorf("caller should not be a wrapper frame, got: %s", out)
	}
}
