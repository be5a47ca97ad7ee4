package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRmRemovesFileFromWorkspaceAndIndex(t *testing.T) {
	t.Parallel()

	dir, cfg := initTestRepo(t)
	path := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))
	require.NoError(t, addCmd(bytes.NewBufferString(""), cfg, []string{"a.txt"}, false, false))

	require.NoError(t, rmCmd(bytes.NewBufferString(""), cfg, []string{"a.txt"}, false, false, false))

	_, err := os.Stat(path)
	require.True(t, os.IsNotExist(err))

	r, err := openRepo(cfg)
	require.NoError(t, err)
	st, err := r.Status()
	require.NoError(t, err)
	require.Empty(t, st.Staged)
	require.Empty(t, st.Untracked)
}

func TestRmCachedKeepsFileOnDisk(t *testing.T) {
	t.Parallel()

	dir, cfg := initTestRepo(t)
	path := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o644))
	require.NoError(t, addCmd(bytes.NewBufferString(""), cfg, []string{"a.txt"}, false, false))

	require.NoError(t, rmCmd(bytes.NewBufferString(""), cfg, []string{"a.txt"}, false, true, false))

	_, err := os.Stat(path)
	require.NoError(t, err)
}
