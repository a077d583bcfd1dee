package logging

import (
	"bytes"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	orig := log.Logger
	origLevel := zerolog.GlobalLevel()
	log.Logger = zerolog.New(&buf).Level(zerolog.TraceLevel)
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	t.Cleanup(func() {
		log.Logger = orig
		zerolog.SetGlobalLevel(origLevel)
	})
	return &buf
}

func TestGetLoggerAddsComponent(t *testing.T) {
	buf := captureLog(t)

	logger := GetLogger("reconcile")
	logger.Info().Msg("hello")

	assert.Contains(t, buf.String(), `"component":"reconcile"`)
	assert.Contains(t, buf.String(), "hello")
}

func TestLogCommand(t *testing.T) {
	buf := captureLog(t)

	LogCommand("git", []string{"pull", "--ff-only"})

	output := buf.String()
	assert.Contains(t, output, "git")
	assert.Contains(t, output, "pull")
	assert.Contains(t, output, "--ff-only")
	assert.Contains(t, output, "Executing command")
}

func TestLogDuration(t *testing.T) {
	buf := captureLog(t)

	LogDuration(time.Now().Add(-2*time.Second), "core update")

	output := buf.String()
	assert.Contains(t, output, "core update")
	assert.Contains(t, output, "duration")
}

func TestSetupLoggerVerbosityLevels(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", t.TempDir())

	tests := []struct {
		verbosity int
		want      zerolog.Level
	}{
		{0, zerolog.WarnLevel},
		{1, zerolog.InfoLevel},
		{2, zerolog.DebugLevel},
		{3, zerolog.TraceLevel},
		{9, zerolog.TraceLevel},
	}

	for _, tt := range tests {
		SetupLogger(tt.verbosity)
		assert.Equal(t, tt.want, zerolog.GlobalLevel(), "verbosity %d", tt.verbosity)
	}
}
