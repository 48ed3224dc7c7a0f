package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name  string
		level string
	}{
		{"debug level", "debug"},
		{"info level", "info"},
		{"warn level", "warn"},
		{"error level", "error"},
		{"invalid level", "invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, New(tt.level))
		})
	}
}

func TestShouldLog(t *testing.T) {
	tests := []struct {
		name        string
		configLevel string
		logLevel    string
		shouldLog   bool
	}{
		{"debug logs at debug level", "debug", "debug", true},
		{"info logs at debug level", "debug", "info", true},
		{"debug doesn't log at info level", "info", "debug", false},
		{"info logs at info level", "info", "info", true},
		{"warn doesn't log at error level", "error", "warn", false},
		{"error always logs", "debug", "error", true},
		{"unknown config level acts as info", "verbose", "debug", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := New(tt.configLevel).(*implLogger)
			assert.Equal(t, tt.shouldLog, log.shouldLog(tt.logLevel))
		})
	}
}

func TestWriterOutput(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	log := NewWithWriter("WARN", &buf)

	log.Info(ctx, "hidden %d", 1)
	log.Warn(ctx, "skipped line %q", "Carol(10:05) hi")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `[WARN] skipped line "Carol(10:05) hi"`)
}

func TestNop(t *testing.T) {
	log := Nop()
	log.Error(context.Background(), "nothing should be printed")
}
