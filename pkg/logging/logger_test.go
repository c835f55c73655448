package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCapturedLogger(severity Severity) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := NewLogger(Config{
		Severity: severity,
		Outputs:  []Output{NewConsoleOutput(false, WithColor(false), WithWriter(&buf))},
	})
	return logger, &buf
}

func TestSeverity(t *testing.T) {
	assert.Equal(t, "DEBUG", DEBUG.String())
	assert.Equal(t, "WARN", WARN.String())

	assert.Equal(t, ERROR, ParseSeverity("ERROR"))
	assert.Equal(t, INFO, ParseSeverity("unknown"))
}

func TestLoggerFiltering(t *testing.T) {
	logger, buf := newCapturedLogger(WARN)
	ctx := context.Background()

	logger.Info(ctx, "dropped")
	logger.Warn(ctx, "kept")

	out := buf.String()
	assert.NotContains(t, out, "dropped")
	assert.Contains(t, out, "kept")
}

func TestLoggerRunID(t *testing.T) {
	logger, buf := newCapturedLogger(INFO)
	ctx := WithRunID(context.Background(), "run-42")

	logger.Info(ctx, "bracket done")

	assert.Contains(t, buf.String(), "[run=run-42]")
}

func TestLoggerEvaluation(t *testing.T) {
	t.Run("Emitted At Debug", func(t *testing.T) {
		logger, buf := newCapturedLogger(DEBUG)

		logger.Evaluation(context.Background(), 3, 1, 6.67, 0.52, 6.7)

		out := buf.String()
		assert.Contains(t, out, "bracket=3")
		assert.Contains(t, out, "rung=1")
		assert.Contains(t, out, "score=0.520000")
	})

	t.Run("Suppressed Above Debug", func(t *testing.T) {
		logger, buf := newCapturedLogger(INFO)

		logger.Evaluation(context.Background(), 3, 1, 6.67, 0.52, 6.7)

		assert.Empty(t, buf.String())
	})
}

func TestLoggerDefaultFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(Config{
		Severity:      INFO,
		Outputs:       []Output{NewConsoleOutput(false, WithColor(false), WithWriter(&buf))},
		DefaultFields: map[string]interface{}{"component": "search"},
	})

	logger.Info(context.Background(), "hello")

	assert.Contains(t, buf.String(), "component=search")
}

func TestGetRunID(t *testing.T) {
	_, ok := GetRunID(context.Background())
	assert.False(t, ok)

	id, ok := GetRunID(WithRunID(context.Background(), "abc"))
	require.True(t, ok)
	assert.Equal(t, "abc", id)
}

func TestConsoleOutputFormat(t *testing.T) {
	logger, buf := newCapturedLogger(INFO)

	logger.Error(context.Background(), "bad thing %d", 7)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "ERROR")
	assert.Contains(t, lines[0], "bad thing 7")
	assert.Contains(t, lines[0], "logger_test.go")
}
