package index_test

import (
	"testing"

	"github.com/nivl-fork/vcs-go/index"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReadRoundTrip(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	idx := index.New()
	idx.Set("a.txt", "aaaa")
	idx.Set("dir/b.txt", "bbbb")

	require.NoError(t, index.Write(fs, ".git/index", idx))

	got, err := index.Read(fs, ".git/index")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Len())
	h, ok := got.Get("dir/b.txt")
	require.True(t, ok)
	assert.Equal(t, "bbbb", h)
}

func TestReadMissingFileIsEmpty(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	idx, err := index.Read(fs, ".git/index")
	require.NoError(t, err)
	assert.Equal(t, 0, idx.Len())
}

func TestReadEmptyFileIsEmpty(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, ".git/index", []byte{}, 0o644))
	idx, err := index.Read(fs, ".git/index")
	require.NoError(t, err)
	assert.Equal(t, 0, idx.Len())
}

func TestRegisterFilesRecursive(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/repo/a.txt", []byte("a"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/repo/sub/b.txt", []byte("b"), 0o644))
	require.NoError(t, fs.MkdirAll("/repo/.git", 0o755))
	require.NoError(t, afero.WriteFile(fs, "/repo/.git/HEAD", []byte("ref: refs/heads/main\n"), 0o644))

	idx := index.New()
	require.NoError(t, index.RegisterFiles(fs, "/repo/.git", "/repo", "", idx, true))

	_, ok := idx.Get("a.txt")
	assert.True(t, ok)
	_, ok = idx.Get("sub/b.txt")
	assert.True(t, ok)
	_, ok = idx.Get(".git/HEAD")
	assert.False(t, ok, "the metadata directory must never be registered")
}

func TestRegisterFilesNonRecursiveFailsOnDirectory(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/repo/sub/b.txt", []byte("b"), 0o644))

	idx := index.New()
	err := index.RegisterFiles(fs, "/repo/.git", "/repo/sub", "sub", idx, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, index.ErrDirectoryWithoutRecursion)
}
