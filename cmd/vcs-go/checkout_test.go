package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheckoutSwitchesBranchAndRestoresWorkspace(t *testing.T) {
	t.Parallel()

	dir, cfg := initTestRepo(t)
	commitOneFile(t, dir, cfg, "a.txt", "on main", "first")

	require.NoError(t, branchCmd(bytes.NewBufferString(""), cfg, []string{"feature"}, false, false))
	require.NoError(t, checkoutCmd(bytes.NewBufferString(""), cfg, "feature", false, false, false))
	commitOneFile(t, dir, cfg, "b.txt", "on feature", "second")

	require.NoError(t, checkoutCmd(bytes.NewBufferString(""), cfg, "main", false, false, false))
	_, err := os.Stat(filepath.Join(dir, "b.txt"))
	require.True(t, os.IsNotExist(err))
}

func TestCheckoutCreateBranchFlag(t *testing.T) {
	t.Parallel()

	dir, cfg := initTestRepo(t)
	commitOneFile(t, dir, cfg, "a.txt", "a", "first")

	out := bytes.NewBufferString("")
	require.NoError(t, checkoutCmd(out, cfg, "topic", false, true, true))
	require.Contains(t, out.String(), "topic")

	r, err := openRepo(cfg)
	require.NoError(t, err)
	branches, err := r.ListBranches()
	require.NoError(t, err)
	found := false
	for _, b := range branches {
		if b.Name == "topic" {
			found = true
			require.True(t, b.Current)
		}
	}
	require.True(t, found)
}

func TestCheckoutUnknownTargetFails(t *testing.T) {
	t.Parallel()

	_, cfg := initTestRepo(t)
	err := checkoutCmd(bytes.NewBufferString(""), cfg, "nowhere", false, false, false)
	require.Error(t, err)
}
