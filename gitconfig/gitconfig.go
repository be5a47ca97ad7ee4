// Package gitconfig resolves where a repository lives and the author
// identity used to stamp new commits: explicit options first, then
// environment variables, then a directory walk-up, then the
// repository's own config file, then hardcoded fallbacks.
package gitconfig

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/nivl-fork/vcs-go/internal/env"
	"github.com/nivl-fork/vcs-go/internal/gitpath"
	"github.com/spf13/afero"
	"golang.org/x/xerrors"
	"gopkg.in/ini.v1"
)

// ErrNoRepository is returned when no metadata directory can be found
// by walking up from the working directory.
var ErrNoRepository = errors.New("not a repository (or any of the parent directories)")

// DefaultBranch is used when init is given no -b flag and no config
// file overrides it.
const DefaultBranch = "main"

// unknownUser is the identity fallback when neither $USER nor
// $USERNAME is set.
const unknownUser = "unknown"

// Config is the resolved location and identity a command runs with.
type Config struct {
	FS afero.Fs

	// GitDirPath is the absolute path to the repository metadata
	// directory (<repo>/.git).
	GitDirPath string
	// WorkTreePath is the absolute path to the repository root.
	WorkTreePath string

	identity string
}

// LoadOptions configures Load. Every field is optional; zero values
// fall back to environment variables and then directory discovery.
type LoadOptions struct {
	// FS is the filesystem implementation to use. Defaults to the real
	// one (afero.NewOsFs()).
	FS afero.Fs
	// WorkingDirectory is where discovery starts. Defaults to the
	// process's current directory.
	WorkingDirectory string
	// GitDirPath overrides both env and discovery.
	GitDirPath string
	// SkipDiscovery disables walking up from WorkingDirectory looking
	// for an existing metadata directory. Set this for init, which
	// creates the directory rather than looking for one.
	SkipDiscovery bool
}

// Load resolves a Config: GitDirPath from (in order) the option, then
// $VCS_DIR, then a walk up from the working directory looking for the
// metadata directory.
func Load(e *env.Env, opts LoadOptions) (*Config, error) {
	fs := opts.FS
	if fs == nil {
		fs = afero.NewOsFs()
	}

	wd := opts.WorkingDirectory
	if wd == "" {
		var err error
		wd, err = os.Getwd()
		if err != nil {
			return nil, xerrors.Errorf("could not get current working directory: %w", err)
		}
	}

	gitDir := opts.GitDirPath
	if gitDir == "" {
		gitDir = e.Get("VCS_DIR")
	}
	if gitDir != "" && !filepath.IsAbs(gitDir) {
		gitDir = filepath.Join(wd, gitDir)
	}

	workTree := e.Get("VCS_WORK_TREE")

	if gitDir == "" {
		if opts.SkipDiscovery {
			gitDir = filepath.Join(wd, gitpath.DotGitPath)
			if workTree == "" {
				workTree = wd
			}
		} else {
			found, err := discover(fs, wd)
			if err != nil {
				return nil, err
			}
			gitDir = filepath.Join(found, gitpath.DotGitPath)
			if workTree == "" {
				workTree = found
			}
		}
	} else if workTree == "" {
		workTree = filepath.Dir(gitDir)
	}

	cfg := &Config{
		FS:           fs,
		GitDirPath:   gitDir,
		WorkTreePath: workTree,
		identity:     identityFromEnv(e),
	}

	if override, ok := localIdentity(fs, gitDir); ok {
		cfg.identity = override
	}

	return cfg, nil
}

// discover walks up from dir looking for a directory containing the
// repository metadata directory.
func discover(fs afero.Fs, dir string) (string, error) {
	prev := ""
	for dir != prev {
		info, err := fs.Stat(filepath.Join(dir, gitpath.DotGitPath))
		if err == nil && info.IsDir() {
			return dir, nil
		}
		prev = dir
		dir = filepath.Dir(dir)
	}
	return "", ErrNoRepository
}

func identityFromEnv(e *env.Env) string {
	if u := e.Get("USER"); u != "" {
		return u
	}
	if u := e.Get("USERNAME"); u != "" {
		return u
	}
	return unknownUser
}

// localIdentity looks for a [user] name key in <gitDir>/config and
// returns it if present. A missing file or missing key is not an
// error -- it just means there's no override.
func localIdentity(fs afero.Fs, gitDir string) (string, bool) {
	p := filepath.Join(gitDir, gitpath.ConfigPath)
	f, err := fs.Open(p)
	if err != nil {
		return "", false
	}
	defer f.Close() //nolint:errcheck // read-only handle, nothing to recover from a close failure

	cfg, err := ini.Load(f)
	if err != nil {
		return "", false
	}
	name := cfg.Section("user").Key("name").String()
	if name == "" {
		return "", false
	}
	return name, true
}

// DefaultBranchFor returns the default branch name init should use:
// the repository config's [init] defaultBranch if set, else
// DefaultBranch.
func DefaultBranchFor(fs afero.Fs, gitDir string) string {
	p := filepath.Join(gitDir, gitpath.ConfigPath)
	f, err := fs.Open(p)
	if err != nil {
		return DefaultBranch
	}
	defer f.Close() //nolint:errcheck // read-only handle

	cfg, err := ini.Load(f)
	if err != nil {
		return DefaultBranch
	}
	v := cfg.Section("init").Key("defaultBranch").String()
	if v == "" {
		return DefaultBranch
	}
	return v
}

// Identity returns the author identity string to stamp new commits
// with.
func (c *Config) Identity() string {
	return c.identity
}

// WriteDefault persists a minimal config file at <gitDir>/config,
// matching the core settings a freshly initialized repository carries.
func WriteDefault(fs afero.Fs, gitDir string) error {
	cfg := ini.Empty()
	core, err := cfg.NewSection("core")
	if err != nil {
		return xerrors.Errorf("could not create core section: %w", err)
	}
	coreCfg := map[string]string{
		"repositoryformatversion": "0",
		"filemode":                "true",
		"bare":                    "false",
	}
	for k, v := range coreCfg {
		if _, err := core.NewKey(k, v); err != nil {
			return xerrors.Errorf("could not set core.%s: %w", k, err)
		}
	}

	p := filepath.Join(gitDir, gitpath.ConfigPath)
	out, err := fs.OpenFile(p, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return xerrors.Errorf("could not create %s: %w", p, err)
	}
	defer out.Close() //nolint:errcheck // WriteTo below reports the real error

	if _, err := cfg.WriteTo(out); err != nil {
		return xerrors.Errorf("could not write %s: %w", p, err)
	}
	return nil
}
