package repo

import (
	"os"
	"strings"

	"github.com/nivl-fork/vcs-go/object"
	"github.com/nivl-fork/vcs-go/oid"
	"github.com/spf13/afero"
	"golang.org/x/xerrors"
)

// treeEntrySource resolves the kind and id a leaf path should be
// recorded with when building a tree. commit() sources this from the
// workspace file on disk; merge sources it from the merged blob table
// instead, since a merge may produce a tree whose content was never
// materialized locally.
type treeEntrySource func(path string) (object.EntryKind, oid.ID, error)

// dirNode is one level of the path->tree working table used to build
// trees bottom-up from a flat list of paths.
type dirNode struct {
	files map[string]string // leaf name -> full relative path
	dirs  map[string]*dirNode
}

func newDirNode() *dirNode {
	return &dirNode{files: map[string]string{}, dirs: map[string]*dirNode{}}
}

func (r *Repository) buildTree(paths []string, source treeEntrySource) (oid.ID, error) {
	root := newDirNode()
	for _, p := range paths {
		segs := strings.Split(p, "/")
		cur := root
		for i, seg := range segs {
			if i == len(segs)-1 {
				cur.files[seg] = p
				continue
			}
			child, ok := cur.dirs[seg]
			if !ok {
				child = newDirNode()
				cur.dirs[seg] = child
			}
			cur = child
		}
	}
	return r.hashNode(root, source)
}

func (r *Repository) hashNode(n *dirNode, source treeEntrySource) (oid.ID, error) {
	entries := make([]object.TreeEntry, 0, len(n.files)+len(n.dirs))

	for name, path := range n.files {
		kind, id, err := source(path)
		if err != nil {
			return oid.Null, err
		}
		entries = append(entries, object.TreeEntry{Kind: kind, Name: name, ID: id})
	}
	for name, child := range n.dirs {
		id, err := r.hashNode(child, source)
		if err != nil {
			return oid.Null, err
		}
		entries = append(entries, object.TreeEntry{Kind: object.EntryTree, Name: name, ID: id})
	}

	tree := object.NewTree(entries)
	id, err := r.objects.PutTree(tree)
	if err != nil {
		return oid.Null, xerrors.Errorf("could not write tree: %w", err)
	}
	return id, nil
}

// workspaceEntrySource classifies a leaf by the file currently on disk
// at relPath and records it with the hash staged for relPath in hashes;
// it does not re-hash the file's content.
func (r *Repository) workspaceEntrySource(hashes map[string]string) treeEntrySource {
	return func(relPath string) (object.EntryKind, oid.ID, error) {
		absPath := r.abs(relPath)
		info, err := lstat(r.fs, absPath)
		if err != nil {
			return "", oid.Null, xerrors.Errorf("could not stat %s: %w", absPath, err)
		}

		hash := hashes[relPath]
		id, err := oid.FromHex(hash)
		if err != nil {
			return "", oid.Null, xerrors.Errorf("invalid hash %q for %s: %w", hash, relPath, err)
		}

		switch {
		case info.Mode()&os.ModeSymlink != 0:
			return object.EntrySymlink, id, nil
		case info.Mode()&0o111 != 0:
			return object.EntryExec, id, nil
		case info.Mode().IsRegular():
			return object.EntryBlob, id, nil
		default:
			return "", oid.Null, xerrors.Errorf("%s: %w", relPath, ErrUnsupportedFileType)
		}
	}
}

// hashWorkspaceFile reads relPath's current content (or, for a
// symlink, its target) and writes it to the object store as a blob,
// returning the resulting id in hex.
func (r *Repository) hashWorkspaceFile(relPath string) (string, error) {
	absPath := r.abs(relPath)
	info, err := lstat(r.fs, absPath)
	if err != nil {
		return "", xerrors.Errorf("could not stat %s: %w", absPath, err)
	}

	var content []byte
	if info.Mode()&os.ModeSymlink != 0 {
		linker, ok := r.fs.(afero.Linker)
		if !ok {
			return "", xerrors.Errorf("%s: %w", relPath, ErrUnsupportedFileType)
		}
		target, err := linker.ReadlinkIfPossible(absPath)
		if err != nil {
			return "", xerrors.Errorf("could not read symlink %s: %w", absPath, err)
		}
		content = []byte(target)
	} else {
		content, err = afero.ReadFile(r.fs, absPath)
		if err != nil {
			return "", xerrors.Errorf("could not read %s: %w", absPath, err)
		}
	}

	id, err := r.objects.PutBlob(object.NewBlob(content))
	if err != nil {
		return "", xerrors.Errorf("could not write blob for %s: %w", relPath, err)
	}
	return id.String(), nil
}
