package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLevelFiltering(t *testing.T) {
	tests := []struct {
		level    string
		expected []string
		excluded []string
	}{
		{"error", []string{"ERROR"}, []string{"WARN", "INFO", "DEBUG"}},
		{"warn", []string{"ERROR", "WARN"}, []string{"INFO", "DEBUG"}},
		{"info", []string{"ERROR", "WARN", "INFO"}, []string{"DEBUG"}},
		{"debug", []string{"ERROR", "WARN", "INFO", "DEBUG"}, nil},
	}

	restore := Replace(Log)
	defer restore()

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Setup(Options{Level: tt.level, Console: &buf}); err != nil {
				t.Fatalf("setup: %v", err)
			}

			Debug("debug message")
			Info("info message")
			Warn("warn message")
			Error("error message")

			out := buf.String()
			for _, exp := range tt.expected {
				if !strings.Contains(out, exp) {
					t.Errorf("expected %s in output", exp)
				}
			}
			for _, exc := range tt.excluded {
				if strings.Contains(out, exc) {
					t.Errorf("unexpected %s in output for level %s", exc, tt.level)
				}
			}
		})
	}
}

func TestSetupRejectsUnknownLevel(t *testing.T) {
	restore := Replace(Log)
	defer restore()

	if err := Setup(Options{Level: "verbose"}); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestBufferConsoleHasNoColor(t *testing.T) {
	restore := Replace(Log)
	defer restore()

	var buf bytes.Buffer
	if err := Setup(Options{Level: "info", Console: &buf}); err != nil {
		t.Fatal(err)
	}
	Info("plain")
	if strings.Contains(buf.String(), "\x1b[") {
		t.Errorf("escape codes written to non-terminal: %q", buf.String())
	}
}

func TestFileOutputCarriesComponent(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "named.log")

	restore := Replace(Log)
	defer restore()

	if err := Setup(Options{Level: "debug", File: FileConfig{Path: logFile, MaxSizeMB: 1}}); err != nil {
		t.Fatalf("setup: %v", err)
	}
	Named("validator").Info("verdict changed")
	Sync()

	content, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !strings.Contains(string(content), "validator") {
		t.Errorf("expected component name in output, got %q", content)
	}
}

func TestDefaultLoggerIsNoop(t *testing.T) {
	// Must not panic before Init.
	Debug("ignored")
	Named("belt").Warn("ignored")
}

func TestReplaceRestores(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	prev := Log

	restore := Replace(zap.New(core))
	Info("observed", zap.Int("anchors", 6))
	restore()

	if Log != prev {
		t.Error("restore did not reinstate the previous logger")
	}
	if logs.Len() != 1 {
		t.Fatalf("expected 1 observed entry, got %d", logs.Len())
	}
	if got := logs.All()[0].ContextMap()["anchors"]; got != int64(6) {
		t.Errorf("expected anchors=6, got %v", got)
	}
}

func TestFileFor(t *testing.T) {
	if got := fileFor(""); got.Path != "" {
		t.Errorf("empty path should disable file output, got %+v", got)
	}
	cfg := fileFor("/tmp/beltview.log")
	if cfg.Path != "/tmp/beltview.log" || cfg.MaxSizeMB != 20 || cfg.MaxBackups != 3 || cfg.MaxAgeDays != 7 || !cfg.Compress {
		t.Errorf("unexpected rotation settings %+v", cfg)
	}
}
