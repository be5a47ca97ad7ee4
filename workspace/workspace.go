// Package workspace materializes commits onto the filesystem and tears
// working-directory state back down: restoring a tree's files, mode
// bits, and symlinks, clearing tracked files, and rebuilding an index
// from a tree.
package workspace

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/nivl-fork/vcs-go/index"
	"github.com/nivl-fork/vcs-go/object"
	"github.com/nivl-fork/vcs-go/objstore"
	"github.com/nivl-fork/vcs-go/oid"
	"github.com/spf13/afero"
	"golang.org/x/xerrors"
)

// ErrSymlinksUnsupported is returned when restoring a BSYM entry onto a
// filesystem that can't create symbolic links.
var ErrSymlinksUnsupported = errors.New("filesystem does not support symlinks")

// execMode is the permission bits applied to a restored BEXE entry.
const execMode = 0o755

// Workspace materializes and clears commit content under a single
// repository root on fs.
type Workspace struct {
	fs      afero.Fs
	root    string
	objects *objstore.Store
}

// New returns a Workspace rooted at root, reading blobs and trees from
// objects.
func New(fs afero.Fs, root string, objects *objstore.Store) *Workspace {
	return &Workspace{fs: fs, root: root, objects: objects}
}

func (w *Workspace) abs(relPath string) string {
	if relPath == "" {
		return w.root
	}
	return filepath.Join(w.root, filepath.FromSlash(relPath))
}

// Restore reads commitID's root tree and recursively recreates it
// under the repository root: directories for TREE entries, file
// content for BLOB, file content plus the executable bit for BEXE, and
// a real symlink (pointing at the UTF-8 payload) for BSYM.
func (w *Workspace) Restore(commitID string) error {
	c, err := w.getCommit(commitID)
	if err != nil {
		return err
	}
	tree, err := w.objects.GetTree(c.TreeID())
	if err != nil {
		return xerrors.Errorf("could not read root tree: %w", err)
	}
	return w.restoreTree(tree, "")
}

func (w *Workspace) restoreTree(tree *object.Tree, relPath string) error {
	dirAbs := w.abs(relPath)
	if err := w.fs.MkdirAll(dirAbs, 0o755); err != nil {
		return xerrors.Errorf("could not create directory %s: %w", dirAbs, err)
	}

	for _, e := range tree.Entries() {
		childRel := joinRel(relPath, e.Name)
		childAbs := w.abs(childRel)

		switch e.Kind {
		case object.EntryTree:
			sub, err := w.objects.GetTree(e.ID)
			if err != nil {
				return xerrors.Errorf("could not read tree %s: %w", e.Name, err)
			}
			if err := w.restoreTree(sub, childRel); err != nil {
				return err
			}
		case object.EntryBlob, object.EntryExec:
			blob, err := w.objects.GetBlob(e.ID)
			if err != nil {
				return xerrors.Errorf("could not read blob %s: %w", e.Name, err)
			}
			if err := afero.WriteFile(w.fs, childAbs, blob.Bytes(), 0o644); err != nil {
				return xerrors.Errorf("could not write %s: %w", childAbs, err)
			}
			if e.Kind == object.EntryExec {
				if err := w.fs.Chmod(childAbs, execMode); err != nil {
					return xerrors.Errorf("could not set executable bit on %s: %w", childAbs, err)
				}
			}
		case object.EntrySymlink:
			blob, err := w.objects.GetBlob(e.ID)
			if err != nil {
				return xerrors.Errorf("could not read symlink target %s: %w", e.Name, err)
			}
			if err := w.symlink(string(blob.Bytes()), childAbs); err != nil {
				return err
			}
		default:
			return xerrors.Errorf("unknown tree entry kind %q at %s", e.Kind, childRel)
		}
	}
	return nil
}

func (w *Workspace) symlink(target, linkAbs string) error {
	linker, ok := w.fs.(afero.Linker)
	if !ok {
		return xerrors.Errorf("could not create symlink %s: %w", linkAbs, ErrSymlinksUnsupported)
	}
	_ = w.fs.Remove(linkAbs)
	if err := linker.SymlinkIfPossible(target, linkAbs); err != nil {
		return xerrors.Errorf("could not create symlink %s: %w", linkAbs, err)
	}
	return nil
}

// Clear removes every file the index tracks from the working area. It
// never touches a file the index doesn't know about.
func (w *Workspace) Clear(idx *index.Index) error {
	for _, e := range idx.Entries() {
		p := w.abs(e.Path)
		if err := w.fs.Remove(p); err != nil && !isNotExist(err) {
			return xerrors.Errorf("could not remove %s: %w", p, err)
		}
	}
	return nil
}

// IndexFromTree walks tree and inserts one (relative_path, hash) entry
// per non-subtree entry into out.
func (w *Workspace) IndexFromTree(commitID string, out *index.Index) error {
	c, err := w.getCommit(commitID)
	if err != nil {
		return err
	}
	tree, err := w.objects.GetTree(c.TreeID())
	if err != nil {
		return xerrors.Errorf("could not read root tree: %w", err)
	}
	return w.walkIndex(tree, "", out)
}

func (w *Workspace) walkIndex(tree *object.Tree, relPath string, out *index.Index) error {
	for _, e := range tree.Entries() {
		childRel := joinRel(relPath, e.Name)
		if e.Kind == object.EntryTree {
			sub, err := w.objects.GetTree(e.ID)
			if err != nil {
				return xerrors.Errorf("could not read tree %s: %w", e.Name, err)
			}
			if err := w.walkIndex(sub, childRel, out); err != nil {
				return err
			}
			continue
		}
		out.Set(childRel, e.ID.String())
	}
	return nil
}

func (w *Workspace) getCommit(commitID string) (*object.Commit, error) {
	id, err := parseID(commitID)
	if err != nil {
		return nil, err
	}
	c, err := w.objects.GetCommit(id)
	if err != nil {
		return nil, xerrors.Errorf("could not read commit %s: %w", commitID, err)
	}
	return c, nil
}

func joinRel(base, name string) string {
	if base == "" {
		return name
	}
	return base + "/" + name
}

func parseID(s string) (oid.ID, error) {
	id, err := oid.FromHex(s)
	if err != nil {
		return oid.Null, xerrors.Errorf("invalid commit id %q: %w", s, err)
	}
	return id, nil
}

func isNotExist(err error) bool {
	return os.IsNotExist(err)
}
