package repo

import (
	"errors"
	"time"

	"github.com/nivl-fork/vcs-go/index"
	"github.com/nivl-fork/vcs-go/merge"
	"github.com/nivl-fork/vcs-go/object"
	"github.com/nivl-fork/vcs-go/oid"
	"github.com/nivl-fork/vcs-go/refs"
	"golang.org/x/xerrors"
)

// Commit reads the index, builds trees bottom-up, writes a new commit
// object, and advances the current branch head to it. It fails with
// ErrDetachedHeadNotAllowed when HEAD is detached.
func (r *Repository) Commit(message string) (oid.ID, error) {
	branch, attached, err := r.refs.CurrentBranch()
	if err != nil {
		return oid.Null, err
	}
	if !attached {
		return oid.Null, xerrors.Errorf("commit: %w", ErrDetachedHeadNotAllowed)
	}

	idx, err := r.readIndex()
	if err != nil {
		return oid.Null, err
	}

	entries := idx.Entries()
	paths := make([]string, len(entries))
	hashes := make(map[string]string, len(entries))
	for i, e := range entries {
		paths[i] = e.Path
		hashes[e.Path] = e.Hash
	}

	rootTreeID, err := r.buildTree(paths, r.workspaceEntrySource(hashes))
	if err != nil {
		return oid.Null, err
	}

	parentIDs := []string{""}
	branchRef := refs.BranchRefName(branch)
	if exists, err := r.refs.Exists(branchRef); err != nil {
		return oid.Null, err
	} else if exists {
		head, err := r.refs.Resolve(branchRef)
		if err != nil && !errors.Is(err, refs.ErrNotFound) {
			return oid.Null, err
		}
		if err == nil {
			parentIDs = []string{head.Target().String()}
		}
	}

	timestamp := object.FormatTime(time.Now())
	c := object.NewCommit(rootTreeID, message, r.identity, timestamp, parentIDs)
	id, err := r.objects.PutCommit(c)
	if err != nil {
		return oid.Null, err
	}

	if err := r.refs.SetBranch(branch, id); err != nil {
		return oid.Null, err
	}
	return id, nil
}

// parentsOf adapts the object store to graph.ParentsOf.
func (r *Repository) parentsOf(id string) ([]string, error) {
	oidVal, err := oid.FromHex(id)
	if err != nil {
		return nil, xerrors.Errorf("invalid commit id %q: %w", id, err)
	}
	c, err := r.objects.GetCommit(oidVal)
	if err != nil {
		return nil, err
	}
	return c.ParentIDs(), nil
}

// isDirty implements the uncommitted-change detection used by
// checkout and merge: it recomputes what the index would be if the
// workspace were re-added from the root and compares it against the
// last commit's flattened tree.
func (r *Repository) isDirty() (bool, error) {
	headCommitID, err := r.refs.CurrentCommit()
	if errors.Is(err, refs.ErrNotFound) {
		idx, err := r.readIndex()
		if err != nil {
			return false, err
		}
		return idx.Len() > 0, nil
	}
	if err != nil {
		return false, err
	}

	c, err := r.objects.GetCommit(headCommitID)
	if err != nil {
		return false, err
	}
	committed, err := merge.Flatten(r.objects, c.TreeID())
	if err != nil {
		return false, err
	}

	reAdded, err := reAddFromRoot(r)
	if err != nil {
		return false, err
	}

	for path, entry := range committed {
		hash, ok := reAdded[path]
		if !ok || hash != entry.ID.String() {
			return true, nil
		}
	}
	for path := range reAdded {
		if _, ok := committed[path]; !ok {
			return true, nil
		}
	}
	return false, nil
}

// reAddFromRoot simulates running add on the entire working tree and
// returns the resulting path -> hex hash map, without touching the
// staged index on disk.
func reAddFromRoot(r *Repository) (map[string]string, error) {
	candidates := index.New()
	if err := index.RegisterFiles(r.fs, r.gitDir, r.root, "", candidates, true); err != nil {
		return nil, err
	}

	out := make(map[string]string, candidates.Len())
	for _, c := range candidates.Entries() {
		hash, err := r.hashWorkspaceFile(c.Path)
		if err != nil {
			return nil, err
		}
		out[c.Path] = hash
	}
	return out, nil
}
