package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stagehand-sh/stagehand/internal/constants"
)

func TestRunInit(t *testing.T) {
	home := filepath.Join(t.TempDir(), "stagehand-home")
	t.Setenv("STAGEHAND_HOME", home)

	var out bytes.Buffer
	require.NoError(t, runInit(context.Background(), &out))
	assert.Contains(t, out.String(), home)

	for _, path := range []string{
		filepath.Join(home, constants.GlobalConfigName),
		filepath.Join(home, constants.MachinesDirName, constants.MachineDevelopment+".yaml"),
		filepath.Join(home, constants.MachinesDirName, constants.MachineExecution+".yaml"),
	} {
		_, err := os.Stat(path)
		assert.NoError(t, err, path)
	}

	info, err := os.Stat(filepath.Join(home, constants.LogsDirName))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestRunInit_PreservesOperatorEdits(t *testing.T) {
	home := filepath.Join(t.TempDir(), "stagehand-home")
	t.Setenv("STAGEHAND_HOME", home)

	ctx := context.Background()
	require.NoError(t, runInit(ctx, &bytes.Buffer{}))

	// An operator-customized machine table survives re-init.
	machinePath := filepath.Join(home, constants.MachinesDirName, constants.MachineDevelopment+".yaml")
	custom := []byte("# customized\n")
	require.NoError(t, os.WriteFile(machinePath, custom, 0o644))

	cfgPath := filepath.Join(home, constants.GlobalConfigName)
	before, err := os.ReadFile(cfgPath)
	require.NoError(t, err)

	require.NoError(t, runInit(ctx, &bytes.Buffer{}))

	after, err := os.ReadFile(machinePath)
	require.NoError(t, err)
	assert.Equal(t, custom, after)

	cfgAfter, err := os.ReadFile(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, before, cfgAfter)
}

func TestRunInit_FailsWhenHomeUnwritable(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}

	parent := t.TempDir()
	require.NoError(t, os.Chmod(parent, 0o500))
	t.Cleanup(func() { _ = os.Chmod(parent, 0o750) })
	t.Setenv("STAGEHAND_HOME", filepath.Join(parent, "home"))

	require.Error(t, runInit(context.Background(), &bytes.Buffer{}))
}
