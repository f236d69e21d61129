package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestBuildLoggerDefaults(t *testing.T) {
	logger, err := LoggingConfig{}.BuildLogger("")
	if err != nil {
		t.Fatalf("BuildLogger() error = %v", err)
	}
	if logger == nil {
		t.Fatal("BuildLogger() returned nil logger")
	}
	if logger.Core().Enabled(zapcore.DebugLevel) {
		t.Error("default logger should not enable debug level")
	}
	if !logger.Core().Enabled(zapcore.InfoLevel) {
		t.Error("default logger should enable info level")
	}
}

func TestBuildLoggerLevels(t *testing.T) {
	tests := []struct {
		level       string
		format      string
		enablesInfo bool
	}{
		{level: "debug", format: "console", enablesInfo: true},
		{level: "info", format: "json", enablesInfo: true},
		{level: "warn", format: "json", enablesInfo: false},
		{level: "warning", format: "console", enablesInfo: false},
		{level: "error", format: "json", enablesInfo: false},
	}

	for _, tt := range tests {
		t.Run(tt.level+"_"+tt.format, func(t *testing.T) {
			logger, err := LoggingConfig{Level: tt.level, Format: tt.format}.BuildLogger("")
			if err != nil {
				t.Fatalf("BuildLogger() error = %v", err)
			}
			if got := logger.Core().Enabled(zapcore.InfoLevel); got != tt.enablesInfo {
				t.Errorf("info enabled = %v, expected %v", got, tt.enablesInfo)
			}
		})
	}
}

func TestBuildLoggerLevelOverride(t *testing.T) {
	logger, err := LoggingConfig{Level: "error"}.BuildLogger("debug")
	if err != nil {
		t.Fatalf("BuildLogger() error = %v", err)
	}
	if !logger.Core().Enabled(zapcore.DebugLevel) {
		t.Error("override should win over the configured level")
	}
}

func TestBuildLoggerInvalidLevel(t *testing.T) {
	_, err := LoggingConfig{Level: "verbose"}.BuildLogger("")
	if err == nil {
		t.Fatal("expected error for invalid level, got nil")
	}
	if !strings.Contains(err.Error(), "invalid log level") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestBuildLoggerInvalidFormat(t *testing.T) {
	_, err := LoggingConfig{Format: "xml"}.BuildLogger("")
	if err == nil {
		t.Fatal("expected error for invalid format, got nil")
	}
	if !strings.Contains(err.Error(), "invalid log format") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestBuildLoggerOutputFile(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "logs", "casa-finan.log")

	logger, err := LoggingConfig{OutputFile: logFile}.BuildLogger("")
	if err != nil {
		t.Fatalf("BuildLogger() error = %v", err)
	}

	logger.Info("log file smoke test")
	_ = logger.Sync()

	info, err := os.Stat(logFile)
	if err != nil {
		t.Fatalf("expected log file to exist: %v", err)
	}
	if info.Size() == 0 {
		t.Error("expected log file to contain the logged entry")
	}
}
