package repo

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/nivl-fork/vcs-go/graph"
	"github.com/nivl-fork/vcs-go/merge"
	"github.com/nivl-fork/vcs-go/object"
	"github.com/nivl-fork/vcs-go/oid"
	"github.com/nivl-fork/vcs-go/refs"
	"golang.org/x/xerrors"
)

// MergeConflictError wraps the conflicts reported by a failed merge.
type MergeConflictError struct {
	Conflicts []merge.Conflict
}

func (e *MergeConflictError) Error() string {
	var lines []string
	for _, c := range e.Conflicts {
		lines = append(lines, c.Messages()...)
	}
	return strings.Join(lines, "\n")
}

func (e *MergeConflictError) Unwrap() error { return ErrMergeConflict }

// Merge merges otherBranch into the current branch. It returns true if
// a new merge commit was created, false if the branches were already
// up to date or the merge fast-forwarded. HEAD must be attached; the
// workspace must be clean unless force is set.
func (r *Repository) Merge(otherBranch string, force bool) (bool, error) {
	branch, attached, err := r.refs.CurrentBranch()
	if err != nil {
		return false, err
	}
	if !attached {
		return false, xerrors.Errorf("merge: %w", ErrDetachedHeadNotAllowed)
	}

	if !force {
		dirty, err := r.isDirty()
		if err != nil {
			return false, err
		}
		if dirty {
			return false, xerrors.Errorf("merge: %w", ErrDirtyWorkspace)
		}
	}

	headID, err := r.refs.CurrentCommit()
	if err != nil {
		return false, err
	}
	otherRef, err := r.refs.Resolve(refs.BranchRefName(otherBranch))
	if err != nil {
		return false, err
	}
	otherID := otherRef.Target()

	if headID == otherID {
		return false, nil
	}

	headIsAncestorOfOther, err := graph.IsAncestor(headID.String(), otherID.String(), r.parentsOf)
	if err != nil {
		return false, err
	}
	if headIsAncestorOfOther {
		if err := r.refs.SetBranch(branch, otherID); err != nil {
			return false, err
		}
		return false, r.restoreFrom(otherID)
	}

	otherIsAncestorOfHead, err := graph.IsAncestor(otherID.String(), headID.String(), r.parentsOf)
	if err != nil {
		return false, err
	}
	if otherIsAncestorOfHead {
		return false, nil
	}

	baseID, err := graph.MergeBase(headID.String(), otherID.String(), r.parentsOf)
	if err != nil {
		return false, err
	}

	baseOid, err := oid.FromHex(baseID)
	if err != nil {
		return false, xerrors.Errorf("invalid merge base %q: %w", baseID, err)
	}
	headCommit, err := r.objects.GetCommit(headID)
	if err != nil {
		return false, err
	}
	otherCommit, err := r.objects.GetCommit(otherID)
	if err != nil {
		return false, err
	}
	baseCommit, err := r.objects.GetCommit(baseOid)
	if err != nil {
		return false, err
	}

	// Keyed by absolute path, matching the original implementation's
	// pwd()-prefixed blob tables, so a reported conflict names the file
	// the way the working tree sees it ("Merge conflict in <abs>/a.txt").
	absRoot := filepath.ToSlash(r.root)
	baseTable, err := merge.FlattenPrefixed(r.objects, baseCommit.TreeID(), absRoot)
	if err != nil {
		return false, err
	}
	headTable, err := merge.FlattenPrefixed(r.objects, headCommit.TreeID(), absRoot)
	if err != nil {
		return false, err
	}
	otherTable, err := merge.FlattenPrefixed(r.objects, otherCommit.TreeID(), absRoot)
	if err != nil {
		return false, err
	}

	merged, conflicts, err := merge.ThreeWay(baseTable, headTable, otherTable, r.loadBlob)
	if err != nil {
		return false, err
	}
	if len(conflicts) > 0 {
		return false, &MergeConflictError{Conflicts: conflicts}
	}

	// buildTree works in repository-relative paths, so the merged
	// table's absolute keys are brought back down to relative ones
	// before the tree is constructed.
	relPrefix := absRoot + "/"
	relTable := make(merge.BlobTable, len(merged))
	paths := make([]string, 0, len(merged))
	for p, e := range merged {
		rel := strings.TrimPrefix(p, relPrefix)
		relTable[rel] = e
		paths = append(paths, rel)
	}
	rootTreeID, err := r.buildTree(paths, blobTableEntrySource(relTable))
	if err != nil {
		return false, err
	}

	c := object.NewCommit(rootTreeID, "merge "+otherBranch, r.identity, object.FormatTime(time.Now()), []string{headID.String(), otherID.String()})
	mergeID, err := r.objects.PutCommit(c)
	if err != nil {
		return false, err
	}
	if err := r.refs.SetBranch(branch, mergeID); err != nil {
		return false, err
	}

	return true, r.restoreFrom(mergeID)
}

// loadBlob adapts the object store to merge.BlobLoader.
func (r *Repository) loadBlob(e object.TreeEntry) ([]byte, error) {
	blob, err := r.objects.GetBlob(e.ID)
	if err != nil {
		return nil, err
	}
	return blob.Bytes(), nil
}

// blobTableEntrySource sources a leaf's kind and id from an
// already-computed merged blob table, so the tree builder never has to
// re-read the workspace for content that was never materialized there.
func blobTableEntrySource(table merge.BlobTable) treeEntrySource {
	return func(path string) (object.EntryKind, oid.ID, error) {
		entry, ok := table[path]
		if !ok {
			return "", oid.Null, xerrors.Errorf("path %q missing from merged blob table", path)
		}
		return entry.Kind, entry.ID, nil
	}
}

