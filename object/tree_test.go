package object_test

import (
	"testing"

	"github.com/nivl-fork/vcs-go/object"
	"github.com/nivl-fork/vcs-go/oid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTreeSortsEntriesByName(t *testing.T) {
	t.Parallel()

	blobA := oid.Sum([]byte("a"))
	blobB := oid.Sum([]byte("b"))
	tr := object.NewTree([]object.TreeEntry{
		{Kind: object.EntryBlob, Name: "z.txt", ID: blobB},
		{Kind: object.EntryBlob, Name: "a.txt", ID: blobA},
	})

	entries := tr.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "a.txt", entries[0].Name)
	assert.Equal(t, "z.txt", entries[1].Name)
}

func TestTreeRoundTripsThroughObject(t *testing.T) {
	t.Parallel()

	id := oid.Sum([]byte("content"))
	tr := object.NewTree([]object.TreeEntry{
		{Kind: object.EntryExec, Name: "run.sh", ID: id},
		{Kind: object.EntryTree, Name: "sub", ID: id},
	})

	parsed, err := object.TreeFromObject(tr.ToObject())
	require.NoError(t, err)
	assert.Equal(t, tr.ID(), parsed.ID())
	assert.Equal(t, tr.Entries(), parsed.Entries())
}

func TestTreeEntryLooksUpByName(t *testing.T) {
	t.Parallel()

	id := oid.Sum([]byte("x"))
	tr := object.NewTree([]object.TreeEntry{{Kind: object.EntryBlob, Name: "x.txt", ID: id}})

	entry, ok := tr.Entry("x.txt")
	require.True(t, ok)
	assert.Equal(t, id, entry.ID)

	_, ok = tr.Entry("missing")
	assert.False(t, ok)
}

func TestEmptyTreeHasNoEntries(t *testing.T) {
	t.Parallel()

	tr := object.NewTree(nil)
	assert.Empty(t, tr.Entries())

	parsed, err := object.TreeFromObject(tr.ToObject())
	require.NoError(t, err)
	assert.Empty(t, parsed.Entries())
}

func TestTreeFromObjectRejectsMalformedEntry(t *testing.T) {
	t.Parallel()

	raw := object.New(object.KindTree, []byte("BLOB\x00onlytwofields\n"), nil)
	_, err := object.TreeFromObject(raw)
	assert.ErrorIs(t, err, object.ErrTreeInvalid)
}

func TestTreeFromObjectRejectsWrongKind(t *testing.T) {
	t.Parallel()

	blob := object.NewBlob([]byte("x"))
	_, err := object.TreeFromObject(blob.ToObject())
	assert.ErrorIs(t, err, object.ErrObjectInvalid)
}
