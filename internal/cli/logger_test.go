package cli

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		verbose bool
		quiet   bool
		want    zerolog.Level
	}{
		{name: "default is info", want: zerolog.InfoLevel},
		{name: "verbose is debug", verbose: true, want: zerolog.DebugLevel},
		{name: "quiet is warn", quiet: true, want: zerolog.WarnLevel},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, selectLevel(tt.verbose, tt.quiet))
		})
	}
}

func TestInitLoggerWithWriter(t *testing.T) {
	t.Run("default hides debug", func(t *testing.T) {
		var buf bytes.Buffer
		logger := InitLoggerWithWriter(false, false, &buf)

		logger.Debug().Msg("hidden")
		logger.Info().Msg("shown")

		out := buf.String()
		assert.NotContains(t, out, "hidden")
		assert.Contains(t, out, "shown")
	})

	t.Run("verbose shows debug", func(t *testing.T) {
		var buf bytes.Buffer
		logger := InitLoggerWithWriter(true, false, &buf)

		logger.Debug().Msg("debug detail")
		assert.Contains(t, buf.String(), "debug detail")
	})

	t.Run("quiet hides info", func(t *testing.T) {
		var buf bytes.Buffer
		logger := InitLoggerWithWriter(false, true, &buf)

		logger.Info().Msg("chatty")
		logger.Warn().Msg("important")

		out := buf.String()
		assert.NotContains(t, out, "chatty")
		assert.Contains(t, out, "important")
	})
}

func TestStagehandHome(t *testing.T) {
	t.Run("env override wins", func(t *testing.T) {
		t.Setenv("STAGEHAND_HOME", "/tmp/custom-home")

		home, err := stagehandHome()
		require.NoError(t, err)
		assert.Equal(t, "/tmp/custom-home", home)
	})

	t.Run("defaults under user home", func(t *testing.T) {
		t.Setenv("STAGEHAND_HOME", "")

		home, err := stagehandHome()
		require.NoError(t, err)
		assert.Contains(t, home, ".stagehand")
	})
}

func TestLogFilePath(t *testing.T) {
	t.Setenv("STAGEHAND_HOME", "/tmp/sh-home")

	path, err := LogFilePath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/sh-home/logs/stagehand.log", path)
}
