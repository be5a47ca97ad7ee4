package repo

import (
	"os"
	"strings"

	"github.com/nivl-fork/vcs-go/index"
	"golang.org/x/xerrors"
)

// Add canonicalizes each path, recursively registers candidate files
// (or symlinks), hashes and writes their current content as blobs,
// and updates the index: new paths become adds, changed-hash paths
// become modifies, and any previously staged path under one of the
// given bases that's no longer present becomes a remove.
func (r *Repository) Add(paths []string, recursive bool) error {
	idx, err := r.readIndex()
	if err != nil {
		return err
	}

	bases := make([]string, 0, len(paths))
	candidates := index.New()
	for _, p := range paths {
		absPath, relPath, err := r.resolve(p)
		if err != nil {
			return err
		}
		bases = append(bases, relPath)
		if err := index.RegisterFiles(r.fs, r.gitDir, absPath, relPath, candidates, recursive); err != nil {
			return err
		}
	}

	for _, c := range candidates.Entries() {
		hash, err := r.hashWorkspaceFile(c.Path)
		if err != nil {
			return err
		}
		idx.Set(c.Path, hash)
	}

	for _, e := range idx.Entries() {
		if !underAnyBase(e.Path, bases) {
			continue
		}
		if _, stillPresent := candidates.Get(e.Path); !stillPresent {
			idx.Delete(e.Path)
		}
	}

	return r.writeIndex(idx)
}

func underAnyBase(path string, bases []string) bool {
	for _, base := range bases {
		if base == "" || path == base || strings.HasPrefix(path, base+"/") {
			return true
		}
	}
	return false
}

// Rm walks the filesystem under each path to compute the set of index
// entries to remove, drops them from the index, and (unless cached)
// deletes the corresponding files from the workspace.
func (r *Repository) Rm(paths []string, recursive, cached bool) error {
	idx, err := r.readIndex()
	if err != nil {
		return err
	}

	toRemove := index.New()
	for _, p := range paths {
		absPath, relPath, err := r.resolve(p)
		if err != nil {
			return err
		}
		if err := index.RegisterFiles(r.fs, r.gitDir, absPath, relPath, toRemove, recursive); err != nil {
			return err
		}
	}

	for _, e := range toRemove.Entries() {
		idx.Delete(e.Path)
		if cached {
			continue
		}
		absPath := r.abs(e.Path)
		if err := r.fs.Remove(absPath); err != nil && !os.IsNotExist(err) {
			return xerrors.Errorf("could not remove %s: %w", absPath, err)
		}
	}

	return r.writeIndex(idx)
}
