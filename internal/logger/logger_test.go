package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func captureOutput(t *testing.T, level string, fn func()) string {
	t.Helper()
	buf := &bytes.Buffer{}
	SetTestOutput(buf)
	defer UnsetTestOutput()

	// Reinitialize logger with test output
	logger = nil
	InitLogger(level)

	// Call the function that logs
	fn()

	return buf.String()
}

func TestLogger(t *testing.T) {
	tests := []struct {
		name     string
		level    string
		logFn    func()
		contains []string
		excludes []string
	}{
		{
			name:  "info log",
			level: "info",
			logFn: func() {
				Info("test info message")
			},
			contains: []string{"test info message"},
		},
		{
			name:  "infof formats",
			level: "info",
			logFn: func() {
				Infof("applied manifest %s", "basic.yaml")
			},
			contains: []string{"applied manifest basic.yaml"},
		},
		{
			name:  "debug log with debug level",
			level: "debug",
			logFn: func() {
				Debug("test debug message")
			},
			contains: []string{"test debug message", "level=DEBUG"},
		},
		{
			name:  "debug log with info level",
			level: "info",
			logFn: func() {
				Debug("test debug message")
			},
			excludes: []string{"test debug message"},
		},
		{
			name:  "warn log",
			level: "info",
			logFn: func() {
				Warnf("non-preferred caller %s", "cli")
			},
			contains: []string{"non-preferred caller cli", "level=WARN"},
		},
		{
			name:  "error log",
			level: "error",
			logFn: func() {
				Error("test error message")
			},
			contains: []string{"test error message", "level=ERROR"},
		},
		{
			name:  "fields are rendered",
			level: "info",
			logFn: func() {
				Info("hook done", Fields{"hook": "@uncomment"})
			},
			contains: []string{"hook done", "hook=@uncomment"},
		},
		{
			name:  "unknown level falls back to info",
			level: "chatty",
			logFn: func() {
				Info("still logs")
			},
			contains: []string{"still logs"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := captureOutput(t, tt.level, tt.logFn)
			for _, want := range tt.contains {
				assert.Contains(t, output, want)
			}
			for _, not := range tt.excludes {
				assert.NotContains(t, output, not)
			}
		})
	}
}
