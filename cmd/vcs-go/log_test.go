package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLogOnUnbornBranchPrintsNothing(t *testing.T) {
	t.Parallel()

	_, cfg := initTestRepo(t)
	out := bytes.NewBufferString("")
	require.NoError(t, logCmd(out, cfg))
	require.Empty(t, out.String())
}

func TestLogListsCommitsNewestFirst(t *testing.T) {
	t.Parallel()

	dir, cfg := initTestRepo(t)
	commitOneFile(t, dir, cfg, "a.txt", "a", "first commit")
	commitOneFile(t, dir, cfg, "b.txt", "b", "second commit")

	out := bytes.NewBufferString("")
	require.NoError(t, logCmd(out, cfg))

	text := out.String()
	firstIdx := strings.Index(text, "first commit")
	secondIdx := strings.Index(text, "second commit")
	require.True(t, secondIdx < firstIdx, "newest commit should be listed first")
}
