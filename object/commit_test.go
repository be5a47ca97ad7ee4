package object_test

import (
	"testing"
	"time"

	"github.com/nivl-fork/vcs-go/object"
	"github.com/nivl-fork/vcs-go/oid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatTimeRoundTripsThroughParseTime(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 7, 31, 12, 34, 56, 123_000_000, time.Local)
	formatted := object.FormatTime(now)
	assert.Len(t, formatted, len(object.TimeLayout)+3)

	parsed, err := object.ParseTime(formatted)
	require.NoError(t, err)
	assert.True(t, now.Equal(parsed))
}

func TestParseTimeRejectsWrongLength(t *testing.T) {
	t.Parallel()

	_, err := object.ParseTime("tooshort")
	assert.ErrorIs(t, err, object.ErrCommitInvalid)
}

func TestNewCommitWithNoParentsIsRoot(t *testing.T) {
	t.Parallel()

	treeID := oid.Sum([]byte("tree"))
	c := object.NewCommit(treeID, "first commit", "alice", "20260731123456123", nil)

	assert.True(t, c.IsRoot())
	assert.Equal(t, []string{""}, c.ParentIDs())
	assert.Equal(t, treeID, c.TreeID())
	assert.Equal(t, "first commit", c.Message())
	assert.Equal(t, "alice", c.User())
}

func TestCommitIDExcludesParentList(t *testing.T) {
	t.Parallel()

	treeID := oid.Sum([]byte("tree"))
	root := object.NewCommit(treeID, "msg", "alice", "20260731123456123", nil)
	withParent := object.NewCommit(treeID, "msg", "alice", "20260731123456123", []string{"deadbeef"})

	assert.Equal(t, root.ID(), withParent.ID(), "parent list must be excluded from the commit hash")
	assert.False(t, withParent.IsRoot())
}

func TestCommitRoundTripsThroughObject(t *testing.T) {
	t.Parallel()

	treeID := oid.Sum([]byte("tree"))
	c := object.NewCommit(treeID, "second commit", "bob", "20260731123456123", []string{"aaaa"})

	parsed, err := object.CommitFromObject(c.ToObject())
	require.NoError(t, err)
	assert.Equal(t, c.ID(), parsed.ID())
	assert.Equal(t, c.Message(), parsed.Message())
	assert.Equal(t, c.User(), parsed.User())
	assert.Equal(t, c.TreeID(), parsed.TreeID())
	assert.Equal(t, c.ParentIDs(), parsed.ParentIDs())
}

func TestCommitFromObjectRejectsWrongKind(t *testing.T) {
	t.Parallel()

	blob := object.NewBlob([]byte("x"))
	_, err := object.CommitFromObject(blob.ToObject())
	assert.ErrorIs(t, err, object.ErrObjectInvalid)
}

func TestMergeCommitCarriesBothParents(t *testing.T) {
	t.Parallel()

	treeID := oid.Sum([]byte("tree"))
	c := object.NewCommit(treeID, "merge", "alice", "20260731123456123", []string{"aaaa", "bbbb"})

	assert.False(t, c.IsRoot())
	assert.Equal(t, []string{"aaaa", "bbbb"}, c.ParentIDs())
}
