package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/nivl-fork/vcs-go/internal/env"
	"github.com/nivl-fork/vcs-go/internal/pathutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitCreatesMetadataDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	out := bytes.NewBufferString("")

	cfg := &globalFlags{
		env: env.NewFromKVList([]string{}),
		P:   pathutil.NewDirPathFlagWithDefault(dir),
	}
	require.NoError(t, initCmd(out, cfg, ""))

	gitDir := filepath.Join(dir, ".git")
	info, err := os.Stat(gitDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Contains(t, out.String(), gitDir)
}

func TestInitHonorsExplicitBranchName(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := &globalFlags{
		env: env.NewFromKVList([]string{}),
		P:   pathutil.NewDirPathFlagWithDefault(dir),
	}
	require.NoError(t, initCmd(bytes.NewBufferString(""), cfg, "trunk"))

	data, err := os.ReadFile(filepath.Join(dir, ".git", "HEAD"))
	require.NoError(t, err)
	assert.Equal(t, "ref: refs/heads/trunk\n", string(data))
}
