package repo_test

import (
	"testing"

	"github.com/nivl-fork/vcs-go/oid"
	"github.com/nivl-fork/vcs-go/repo"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func TestCommitOnFreshRepoWritesTreeAndAdvancesBranch(t *testing.T) {
	fs := afero.NewMemMapFs()
	r, err := repo.Init(fs, "/repo", "main", "alice")
	require.NoError(t, err)

	require.NoError(t, afero.WriteFile(fs, "/repo/a.txt", []byte("hi\n"), 0o644))
	require.NoError(t, r.Add([]string{"a.txt"}, false))

	id, err := r.Commit("first commit")
	require.NoError(t, err)
	require.NotEqual(t, oid.Null, id)
}

func TestSecondCommitHasFirstAsParent(t *testing.T) {
	fs := afero.NewMemMapFs()
	r, err := repo.Init(fs, "/repo", "main", "alice")
	require.NoError(t, err)

	require.NoError(t, afero.WriteFile(fs, "/repo/a.txt", []byte("hi\n"), 0o644))
	require.NoError(t, r.Add([]string{"a.txt"}, false))
	first, err := r.Commit("first")
	require.NoError(t, err)

	require.NoError(t, afero.WriteFile(fs, "/repo/b.txt", []byte("bye\n"), 0o644))
	require.NoError(t, r.Add([]string{"b.txt"}, false))
	second, err := r.Commit("second")
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	c, err := r.CommitObject(second)
	require.NoError(t, err)
	require.Equal(t, []string{first.String()}, c.ParentIDs())
}

func TestFirstCommitIsItsOwnRoot(t *testing.T) {
	fs := afero.NewMemMapFs()
	r, err := repo.Init(fs, "/repo", "main", "alice")
	require.NoError(t, err)

	require.NoError(t, afero.WriteFile(fs, "/repo/a.txt", []byte("hi\n"), 0o644))
	require.NoError(t, r.Add([]string{"a.txt"}, false))
	id, err := r.Commit("first")
	require.NoError(t, err)

	c, err := r.CommitObject(id)
	require.NoError(t, err)
	require.True(t, c.IsRoot())
}
