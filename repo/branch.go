package repo

import (
	"sort"

	"golang.org/x/xerrors"
)

// BranchInfo is one branch head as reported by ListBranches.
type BranchInfo struct {
	Name    string
	Current bool
}

// ListBranches returns every branch head, sorted by name, with the
// currently attached branch (if any) marked.
func (r *Repository) ListBranches() ([]BranchInfo, error) {
	names, err := r.refs.ListBranches()
	if err != nil {
		return nil, err
	}
	sort.Strings(names)

	current, attached, err := r.refs.CurrentBranch()
	if err != nil {
		return nil, err
	}

	out := make([]BranchInfo, len(names))
	for i, name := range names {
		out[i] = BranchInfo{Name: name, Current: attached && name == current}
	}
	return out, nil
}

// CreateBranch creates a new branch head at the current commit. Fails
// with ErrDetachedHeadNotAllowed if HEAD is detached, or with
// refs.ErrExists if the name is already taken.
func (r *Repository) CreateBranch(name string) error {
	_, attached, err := r.refs.CurrentBranch()
	if err != nil {
		return err
	}
	if !attached {
		return xerrors.Errorf("branch %s: %w", name, ErrDetachedHeadNotAllowed)
	}

	head, err := r.refs.CurrentCommit()
	if err != nil {
		return err
	}
	return r.refs.CreateBranch(name, head)
}

// DeleteBranch removes a branch head. It fails with
// ErrDetachedHeadNotAllowed if HEAD is detached, and refuses to delete
// the currently checked-out branch.
func (r *Repository) DeleteBranch(name string) error {
	current, attached, err := r.refs.CurrentBranch()
	if err != nil {
		return err
	}
	if !attached {
		return xerrors.Errorf("branch -d %s: %w", name, ErrDetachedHeadNotAllowed)
	}
	if current == name {
		return xerrors.Errorf("branch -d %s: %w", name, ErrCannotDeleteCurrentBranch)
	}
	return r.refs.DeleteBranch(name)
}
