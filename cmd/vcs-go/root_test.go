package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nivl-fork/vcs-go/internal/env"
	"github.com/stretchr/testify/require"
)

func TestRootCmdRunsInitThroughCobra(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cmd := newRootCmd(dir, env.NewFromOs())
	cmd.SetArgs([]string{"init"})

	require.NotPanics(t, func() {
		require.NoError(t, cmd.Execute())
	})
}

func TestRootCmdPathFlagOverridesWorkingDirectory(t *testing.T) {
	t.Parallel()

	cwd := t.TempDir()
	other := t.TempDir()

	cmd := newRootCmd(cwd, env.NewFromOs())
	cmd.SetArgs([]string{"-p", other, "init"})
	require.NoError(t, cmd.Execute())

	_, err := os.Stat(filepath.Join(other, ".git"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(cwd, ".git"))
	require.True(t, os.IsNotExist(err))
}
