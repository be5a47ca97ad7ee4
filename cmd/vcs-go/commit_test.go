package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCommitRecordsStagedChanges(t *testing.T) {
	t.Parallel()

	dir, cfg := initTestRepo(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("hello"), 0o644))
	require.NoError(t, addCmd(bytes.NewBufferString(""), cfg, []string{"a.txt"}, false, false))

	out := bytes.NewBufferString("")
	require.NoError(t, commitCmd(out, cfg, "first commit", true))
	require.NotEmpty(t, strings.TrimSpace(out.String()))

	r, err := openRepo(cfg)
	require.NoError(t, err)
	entries, err := r.Log()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "first commit", entries[0].Message)
}

func TestRootCommitRequiresMessage(t *testing.T) {
	t.Parallel()

	_, cfg := initTestRepo(t)
	root := newRootCmd(t.TempDir(), cfg.env)
	root.SetArgs([]string{"-p", cfg.P.String(), "commit"})
	err := root.Execute()
	require.ErrorIs(t, err, errMissingMessage)
}
