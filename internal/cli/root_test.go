package cli

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stagehand-sh/stagehand/internal/errors"
)

func TestFormatVersion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		info BuildInfo
		want string
	}{
		{
			name: "full build info",
			info: BuildInfo{Version: "1.2.0", Commit: "abc123", Date: "2026-08-01"},
			want: "1.2.0 (commit: abc123, built: 2026-08-01)",
		},
		{
			name: "empty build info falls back",
			info: BuildInfo{},
			want: "dev (commit: none, built: unknown)",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, formatVersion(tt.info))
		})
	}
}

func TestRootCmd_RejectsInvalidOutputFormat(t *testing.T) {
	cmd := newRootCmd(&GlobalFlags{}, BuildInfo{})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"--output", "yaml"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrInvalidOutputFormat)
	assert.Equal(t, ExitInvalidInput, ExitCodeForError(err))
}

func TestRootCmd_RegistersSubcommands(t *testing.T) {
	t.Parallel()

	cmd := newRootCmd(&GlobalFlags{}, BuildInfo{})

	expected := []string{
		"init", "config", "project", "version", "start",
		"pause", "resume", "abort", "retry", "skip", "status", "stale",
	}
	names := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	for _, name := range expected {
		assert.True(t, names[name], name)
	}
}
