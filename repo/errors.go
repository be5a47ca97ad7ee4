package repo

import "errors"

// Sentinel errors surfaced to callers, matching the engine's error
// taxonomy. Each is wrapped with xerrors.Errorf("...: %w", err) at the
// point it's returned so callers can both match on it and read a
// human-readable cause.
var (
	// ErrOutsideRepository is returned when a path argument to add/rm
	// resolves outside the repository root.
	ErrOutsideRepository = errors.New("path is outside the repository")
	// ErrUnknownTarget is returned when checkout's target is neither an
	// existing branch nor a valid commit id.
	ErrUnknownTarget = errors.New("unknown checkout target")
	// ErrUnsupportedFileType is returned when commit finds a staged path
	// that isn't a regular file, executable, or symlink (e.g. a device
	// node or named pipe), or when add meets a symlink on a filesystem
	// that can't read links.
	ErrUnsupportedFileType = errors.New("unsupported file type")
	// ErrDetachedHeadNotAllowed is returned by commit, branch create,
	// branch delete, and merge when HEAD is detached.
	ErrDetachedHeadNotAllowed = errors.New("operation not allowed with a detached HEAD")
	// ErrDirtyWorkspace is returned by checkout and merge when the
	// workspace has uncommitted changes and force was not requested.
	ErrDirtyWorkspace = errors.New("workspace has uncommitted changes")
	// ErrCannotDeleteCurrentBranch is returned by branch -d on the
	// currently checked out branch.
	ErrCannotDeleteCurrentBranch = errors.New("cannot delete the currently checked out branch")
	// ErrMergeConflict is returned (wrapped in a *MergeConflictError) by
	// Merge when the three-way merge finds one or more conflicting
	// paths. No commit, ref, or index change results.
	ErrMergeConflict = errors.New("merge produced one or more conflicts")
)
