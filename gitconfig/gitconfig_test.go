package gitconfig_test

import (
	"testing"

	"github.com/nivl-fork/vcs-go/gitconfig"
	"github.com/nivl-fork/vcs-go/internal/env"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDiscoversExistingRepository(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/home/me/project/.git", 0o755))

	e := env.NewFromKVList([]string{"USER=alice"})
	cfg, err := gitconfig.Load(e, gitconfig.LoadOptions{
		FS:               fs,
		WorkingDirectory: "/home/me/project/sub/deep",
	})
	require.NoError(t, err)
	assert.Equal(t, "/home/me/project/.git", cfg.GitDirPath)
	assert.Equal(t, "/home/me/project", cfg.WorkTreePath)
	assert.Equal(t, "alice", cfg.Identity())
}

func TestLoadFailsWithoutARepository(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	e := env.NewFromKVList([]string{})
	_, err := gitconfig.Load(e, gitconfig.LoadOptions{
		FS:               fs,
		WorkingDirectory: "/nowhere/at/all",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, gitconfig.ErrNoRepository)
}

func TestLoadSkipDiscoveryForInit(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	e := env.NewFromKVList([]string{})
	cfg, err := gitconfig.Load(e, gitconfig.LoadOptions{
		FS:               fs,
		WorkingDirectory: "/brand/new/repo",
		SkipDiscovery:    true,
	})
	require.NoError(t, err)
	assert.Equal(t, "/brand/new/repo/.git", cfg.GitDirPath)
	assert.Equal(t, "/brand/new/repo", cfg.WorkTreePath)
}

func TestIdentityFallsBackToUsername(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/repo/.git", 0o755))

	e := env.NewFromKVList([]string{"USERNAME=bob"})
	cfg, err := gitconfig.Load(e, gitconfig.LoadOptions{FS: fs, WorkingDirectory: "/repo"})
	require.NoError(t, err)
	assert.Equal(t, "bob", cfg.Identity())
}

func TestIdentityFallsBackToUnknown(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/repo/.git", 0o755))

	e := env.NewFromKVList([]string{})
	cfg, err := gitconfig.Load(e, gitconfig.LoadOptions{FS: fs, WorkingDirectory: "/repo"})
	require.NoError(t, err)
	assert.Equal(t, "unknown", cfg.Identity())
}

func TestLocalConfigOverridesIdentity(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/repo/.git", 0o755))
	require.NoError(t, afero.WriteFile(fs, "/repo/.git/config", []byte("[user]\nname = carol\n"), 0o644))

	e := env.NewFromKVList([]string{"USER=alice"})
	cfg, err := gitconfig.Load(e, gitconfig.LoadOptions{FS: fs, WorkingDirectory: "/repo"})
	require.NoError(t, err)
	assert.Equal(t, "carol", cfg.Identity())
}

func TestDefaultBranchForFallsBackWithoutConfig(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	assert.Equal(t, gitconfig.DefaultBranch, gitconfig.DefaultBranchFor(fs, "/repo/.git"))
}

func TestDefaultBranchForReadsOverride(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/repo/.git", 0o755))
	require.NoError(t, afero.WriteFile(fs, "/repo/.git/config", []byte("[init]\ndefaultBranch = trunk\n"), 0o644))

	assert.Equal(t, "trunk", gitconfig.DefaultBranchFor(fs, "/repo/.git"))
}
