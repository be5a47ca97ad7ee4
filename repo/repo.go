// Package repo orchestrates the object store, index, references,
// workspace materializer, commit graph, and three-way merge into the
// porcelain operations a caller (or the CLI) actually invokes: init,
// add, rm, commit, branch, checkout, merge, status, and log.
package repo

import (
	"os"
	"path/filepath"

	"github.com/nivl-fork/vcs-go/gitconfig"
	"github.com/nivl-fork/vcs-go/index"
	"github.com/nivl-fork/vcs-go/internal/gitpath"
	"github.com/nivl-fork/vcs-go/object"
	"github.com/nivl-fork/vcs-go/objstore"
	"github.com/nivl-fork/vcs-go/oid"
	"github.com/nivl-fork/vcs-go/refs"
	"github.com/nivl-fork/vcs-go/workspace"
	"github.com/spf13/afero"
	"golang.org/x/xerrors"
)

// Repository binds every subsystem to a single metadata directory and
// working tree root.
type Repository struct {
	fs     afero.Fs
	root   string
	gitDir string

	objects *objstore.Store
	refs    *refs.Store
	ws      *workspace.Workspace

	identity string
}

// Init creates a new repository rooted at root: the metadata
// directory, an empty object store, refs/heads, HEAD attached to
// branch (or gitconfig.DefaultBranch if empty) with an empty branch
// head file, and a default config file.
func Init(fs afero.Fs, root, branch, identity string) (*Repository, error) {
	gitDir := filepath.Join(root, gitpath.DotGitPath)

	r := &Repository{fs: fs, root: root, gitDir: gitDir, identity: identity}
	r.objects = objstore.New(fs, filepath.Join(gitDir, gitpath.ObjectsPath))
	r.refs = refs.NewStore(fs, gitDir)
	r.ws = workspace.New(fs, root, r.objects)

	if err := fs.MkdirAll(gitDir, 0o755); err != nil {
		return nil, xerrors.Errorf("could not create %s: %w", gitDir, err)
	}
	if err := r.objects.Init(); err != nil {
		return nil, err
	}
	if err := r.refs.Init(); err != nil {
		return nil, err
	}
	if err := gitconfig.WriteDefault(fs, gitDir); err != nil {
		return nil, err
	}

	if branch == "" {
		branch = gitconfig.DefaultBranch
	}
	if err := r.refs.SetHeadAttached(branch); err != nil {
		return nil, err
	}
	if err := r.refs.CreateUnbornBranch(branch); err != nil {
		return nil, err
	}
	if err := index.Write(fs, r.indexPath(), index.New()); err != nil {
		return nil, err
	}

	return r, nil
}

// Open binds a Repository to an already-initialized metadata
// directory described by cfg.
func Open(cfg *gitconfig.Config) (*Repository, error) {
	r := &Repository{
		fs:       cfg.FS,
		root:     cfg.WorkTreePath,
		gitDir:   cfg.GitDirPath,
		identity: cfg.Identity(),
	}
	r.objects = objstore.New(cfg.FS, filepath.Join(cfg.GitDirPath, gitpath.ObjectsPath))
	r.refs = refs.NewStore(cfg.FS, cfg.GitDirPath)
	r.ws = workspace.New(cfg.FS, cfg.WorkTreePath, r.objects)
	return r, nil
}

func (r *Repository) indexPath() string {
	return filepath.Join(r.gitDir, gitpath.IndexPath)
}

func (r *Repository) readIndex() (*index.Index, error) {
	return index.Read(r.fs, r.indexPath())
}

func (r *Repository) writeIndex(idx *index.Index) error {
	return index.Write(r.fs, r.indexPath(), idx)
}

// CommitObject reads and parses the commit object stored at id.
func (r *Repository) CommitObject(id oid.ID) (*object.Commit, error) {
	return r.objects.GetCommit(id)
}

// abs resolves a repository-relative path to an absolute one.
func (r *Repository) abs(relPath string) string {
	if relPath == "" {
		return r.root
	}
	return filepath.Join(r.root, filepath.FromSlash(relPath))
}

// resolve canonicalizes a user-supplied path argument and verifies it
// falls within the repository root, returning both the absolute path
// and the repository-relative one.
func (r *Repository) resolve(userPath string) (absPath, relPath string, err error) {
	absPath = userPath
	if !filepath.IsAbs(absPath) {
		absPath = filepath.Join(r.root, absPath)
	}
	absPath = filepath.Clean(absPath)

	rel, err := filepath.Rel(r.root, absPath)
	if err != nil || rel == ".." || hasDotDotSegment(rel) {
		return "", "", xerrors.Errorf("%s: %w", userPath, ErrOutsideRepository)
	}
	if rel == "." {
		rel = ""
	}
	return absPath, filepath.ToSlash(rel), nil
}

func hasDotDotSegment(relPath string) bool {
	rel := filepath.ToSlash(relPath)
	start := 0
	for i := 0; i <= len(rel); i++ {
		if i == len(rel) || rel[i] == '/' {
			if rel[start:i] == ".." {
				return true
			}
			start = i + 1
		}
	}
	return false
}

// lstat uses afero's optional Lstater interface when available, so
// symlinks are classified by the link itself.
func lstat(fs afero.Fs, path string) (os.FileInfo, error) {
	if lfs, ok := fs.(afero.Lstater); ok {
		info, _, err := lfs.LstatIfPossible(path)
		return info, err
	}
	return fs.Stat(path)
}
