package logging

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestSetOutputs(t *testing.T) {
	t.Run("default", func(t *testing.T) {
		currentOut := defaultLogger.Out
		SetOutputs(nil, 0, 0)
		if defaultLogger.Out != currentOut {
			t.Error("Logger output should not change by default")
		}
	})

	t.Run("stdout", func(t *testing.T) {
		SetOutputs([]string{"-"}, 0, 0)
		if defaultLogger.Out != os.Stdout {
			t.Error("Logger output should be stdout")
		}
	})

	t.Run("stderr", func(t *testing.T) {
		SetOutputs([]string{"="}, 0, 0)
		if defaultLogger.Out != os.Stderr {
			t.Error("Logger output should be stderr")
		}
	})

	t.Run("write_two_files", func(t *testing.T) {
		logDir := t.TempDir()
		log1 := filepath.Join(logDir, "file1.log")
		log2 := filepath.Join(logDir, "file2.log")
		SetOutputs([]string{log1, log2}, 0, 0)
		const content = "hello log"
		_, err := io.WriteString(defaultLogger.Out, content)
		if err != nil {
			t.Fatal("Failed to write to log output with two outputs", err)
		}

		for _, log := range []string{log1, log2} {
			logContent, err := os.ReadFile(log)
			if err != nil {
				t.Fatalf("Failed to read %s content: %s", log, err)
			}
			if string(logContent) != content {
				t.Fatalf("Log content '%s', is not as expected: '%s'", string(logContent), content)
			}
		}
	})
}

func TestAddFields(t *testing.T) {
	ctx := AddFields(context.Background(), Fields{StageFieldKey: "pre-commit"})
	ctx = AddFields(ctx, Fields{RunIDFieldKey: "run1"})

	fields := ctx.Value(LogFieldsContextKey)
	if fields == nil {
		t.Fatal("expected fields on context")
	}
	got := fields.(Fields)
	if got[StageFieldKey] != "pre-commit" {
		t.Errorf("stage field = %v, want pre-commit", got[StageFieldKey])
	}
	if got[RunIDFieldKey] != "run1" {
		t.Errorf("run_id field = %v, want run1", got[RunIDFieldKey])
	}
}

func TestFromContext(t *testing.T) {
	// no fields on context - same behavior as Default
	log := FromContext(context.Background())
	if log == nil {
		t.Fatal("expected logger")
	}
	// fields on context are picked up without panics
	ctx := AddFields(context.Background(), Fields{HookFieldKey: "flake8"})
	FromContext(ctx).Debug("msg")
}
