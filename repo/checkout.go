package repo

import (
	"github.com/nivl-fork/vcs-go/index"
	"github.com/nivl-fork/vcs-go/oid"
	"github.com/nivl-fork/vcs-go/refs"
	"golang.org/x/xerrors"
)

// Checkout optionally creates a new branch at the current commit, then
// resolves target as a branch name (moving HEAD into attached mode) or
// a commit id (detaching HEAD). Unless force, it refuses on a dirty
// workspace. On success the workspace is cleared and re-materialized
// from the resolved commit, and the index is rebuilt from its tree.
func (r *Repository) Checkout(target string, force, createBranch bool) error {
	if !force {
		dirty, err := r.isDirty()
		if err != nil {
			return err
		}
		if dirty {
			return xerrors.Errorf("checkout %s: %w", target, ErrDirtyWorkspace)
		}
	}

	if createBranch {
		head, err := r.refs.CurrentCommit()
		if err != nil {
			return err
		}
		if err := r.refs.CreateBranch(target, head); err != nil {
			return err
		}
	}

	resolved, attach, err := r.resolveTarget(target)
	if err != nil {
		return err
	}

	if attach {
		if err := r.refs.SetHeadAttached(target); err != nil {
			return err
		}
	} else {
		if err := r.refs.SetHeadDetached(resolved); err != nil {
			return err
		}
	}

	return r.restoreFrom(resolved)
}

// CheckoutDetached detaches HEAD onto id directly, bypassing target
// name resolution, and restores the workspace and index from it.
// Checkout does not route through it; it detaches and restores itself.
func (r *Repository) CheckoutDetached(id oid.ID) error {
	if err := r.refs.SetHeadDetached(id); err != nil {
		return err
	}
	return r.restoreFrom(id)
}

// resolveTarget decides whether target names an existing branch
// (attach=true) or a commit id (attach=false), failing with
// ErrUnknownTarget otherwise.
func (r *Repository) resolveTarget(target string) (resolved oid.ID, attach bool, err error) {
	branchRef := refs.BranchRefName(target)
	if exists, err := r.refs.Exists(branchRef); err != nil {
		return oid.Null, false, err
	} else if exists {
		ref, err := r.refs.Resolve(branchRef)
		if err != nil {
			return oid.Null, false, err
		}
		return ref.Target(), true, nil
	}

	if id, err := oid.FromHex(target); err == nil {
		if _, err := r.objects.GetCommit(id); err == nil {
			return id, false, nil
		}
	}

	return oid.Null, false, xerrors.Errorf("%s: %w", target, ErrUnknownTarget)
}

// restoreFrom clears the workspace and index, then re-materializes
// both from the commit at id.
func (r *Repository) restoreFrom(id oid.ID) error {
	idx, err := r.readIndex()
	if err != nil {
		return err
	}
	if err := r.ws.Clear(idx); err != nil {
		return err
	}
	if err := r.ws.Restore(id.String()); err != nil {
		return err
	}

	newIdx := index.New()
	if err := r.ws.IndexFromTree(id.String(), newIdx); err != nil {
		return err
	}
	return r.writeIndex(newIdx)
}
