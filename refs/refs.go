// Package refs implements branch heads and HEAD: named files holding
// either a commit id directly, or a symbolic pointer to another
// reference.
package refs

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/nivl-fork/vcs-go/internal/gitpath"
	"github.com/nivl-fork/vcs-go/oid"
	"github.com/spf13/afero"
	"golang.org/x/xerrors"
)

// Head is the name of the reference that tracks the current commit.
const Head = "HEAD"

// DefaultBranch is the branch name used when none is given at init
// time.
const DefaultBranch = "main"

var (
	// ErrNotFound is returned when a reference doesn't exist.
	ErrNotFound = errors.New("reference not found")
	// ErrExists is returned when a reference that must not already
	// exist does.
	ErrExists = errors.New("reference already exists")
	// ErrInvalidName is returned when a reference name fails
	// validation.
	ErrInvalidName = errors.New("reference name is not valid")
	// ErrInvalid is returned when a reference's on-disk content can't
	// be parsed.
	ErrInvalid = errors.New("reference is not valid")
)

// Type distinguishes a reference pointing directly at a commit from
// one pointing at another reference by name.
type Type int8

const (
	// OidReference holds a commit id directly.
	OidReference Type = iota + 1
	// SymbolicReference holds the name of another reference.
	SymbolicReference
)

// Reference is a named pointer: either straight at a commit id, or at
// another reference by name.
type Reference struct {
	name   string
	target string
	id     oid.ID
	typ    Type
}

// NewOidReference returns a Reference named name pointing directly at
// target.
func NewOidReference(name string, target oid.ID) *Reference {
	return &Reference{name: name, typ: OidReference, id: target}
}

// NewSymbolicReference returns a Reference named name pointing at the
// reference target (e.g. HEAD -> refs/heads/main).
func NewSymbolicReference(name, target string) *Reference {
	return &Reference{name: name, typ: SymbolicReference, target: target}
}

// Name returns the reference's own name, e.g. "refs/heads/main".
func (r *Reference) Name() string { return r.name }

// Target returns the commit id a reference resolves to.
func (r *Reference) Target() oid.ID { return r.id }

// Type returns whether the reference is symbolic or points at a commit
// directly.
func (r *Reference) Type() Type { return r.typ }

// SymbolicTarget returns the name of the reference a symbolic
// reference points at.
func (r *Reference) SymbolicTarget() string { return r.target }

// IsValidName reports whether name is a legal reference name: no
// leading/trailing slash, no control characters, no segment starting
// or ending with a dot, no ".lock" suffix, none of the characters Git
// also forbids in ref names.
func IsValidName(name string) bool {
	if name == "" || name == "/" || name[len(name)-1] == '/' || name[len(name)-1] == '.' {
		return false
	}
	for i, c := range name {
		if c < 32 || c == 127 {
			return false
		}
		switch c {
		case '*', '?', '!', '^', ' ', '[', '\\', ':':
			return false
		}
		if i < len(name)-1 && name[i:i+2] == "@{" {
			return false
		}
		if i < len(name)-1 && name[i:i+2] == ".." {
			return false
		}
	}
	for _, s := range strings.Split(name, "/") {
		if s == "" || s[0] == '.' || s[len(s)-1] == '.' || strings.HasSuffix(s, ".lock") {
			return false
		}
	}
	return true
}

// finder reads the raw content of a named reference from disk.
type finder func(name string) ([]byte, error)

// resolve follows symbolic references until it reaches one pointing at
// a commit id directly. A visited set guards against a reference
// cycle.
func resolve(name string, find finder, visited map[string]struct{}) (*Reference, error) {
	if _, ok := visited[name]; ok {
		return nil, xerrors.Errorf("circular symbolic reference at %q: %w", name, ErrInvalid)
	}
	visited[name] = struct{}{}

	if !IsValidName(name) {
		return nil, xerrors.Errorf("ref %q: %w", name, ErrInvalidName)
	}

	data, err := find(name)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimSpace(data)

	// An existing-but-empty reference is the "unborn branch" state a
	// fresh branch file starts in until its first commit -- treated the
	// same as a missing one, since neither has a commit to resolve to.
	if len(data) == 0 {
		return nil, xerrors.Errorf("ref %q: %w", name, ErrNotFound)
	}

	if bytes.HasPrefix(data, []byte("ref: ")) {
		target := string(data[len("ref: "):])
		resolved, err := resolve(target, find, visited)
		if err != nil {
			return nil, err
		}
		return &Reference{typ: SymbolicReference, name: name, target: target, id: resolved.id}, nil
	}

	id, err := oid.FromChars(data)
	if err != nil {
		return nil, xerrors.Errorf("ref %q: %w", name, ErrInvalid)
	}
	return &Reference{typ: OidReference, name: name, id: id}, nil
}

// Store reads and writes references under a single metadata-directory
// root (e.g. "<repo>/.git").
type Store struct {
	fs   afero.Fs
	root string
}

// NewStore returns a Store rooted at root.
func NewStore(fs afero.Fs, root string) *Store {
	return &Store{fs: fs, root: root}
}

// Init creates the refs/heads directory.
func (s *Store) Init() error {
	if err := s.fs.MkdirAll(s.systemPath(gitpath.RefsHeadsPath), 0o755); err != nil {
		return xerrors.Errorf("could not create %s: %w", gitpath.RefsHeadsPath, err)
	}
	return nil
}

func (s *Store) systemPath(name string) string {
	return filepath.Join(s.root, filepath.FromSlash(name))
}

func (s *Store) read(name string) ([]byte, error) {
	data, err := afero.ReadFile(s.fs, s.systemPath(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, xerrors.Errorf("ref %q: %w", name, ErrNotFound)
		}
		return nil, xerrors.Errorf("could not read reference %q: %w", name, err)
	}
	return data, nil
}

// Resolve reads and, if symbolic, follows the reference named name
// until it reaches the commit id it ultimately points to.
func (s *Store) Resolve(name string) (*Reference, error) {
	return resolve(name, s.read, map[string]struct{}{})
}

// Exists reports whether a reference file named name exists on disk,
// without following it.
func (s *Store) Exists(name string) (bool, error) {
	_, err := s.fs.Stat(s.systemPath(name))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, xerrors.Errorf("could not stat reference %q: %w", name, err)
}

// Write persists ref to disk, creating or overwriting it.
func (s *Store) Write(ref *Reference) error {
	if !IsValidName(ref.Name()) {
		return xerrors.Errorf("ref %q: %w", ref.Name(), ErrInvalidName)
	}

	var content string
	switch ref.Type() {
	case SymbolicReference:
		content = "ref: " + ref.SymbolicTarget() + "\n"
	case OidReference:
		content = ref.Target().String() + "\n"
	default:
		return xerrors.Errorf("unknown reference type %d", ref.Type())
	}

	p := s.systemPath(ref.Name())
	if err := s.fs.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return xerrors.Errorf("could not create directory for reference %q: %w", ref.Name(), err)
	}
	if err := afero.WriteFile(s.fs, p, []byte(content), 0o644); err != nil {
		return xerrors.Errorf("could not write reference %q: %w", ref.Name(), err)
	}
	return nil
}

// WriteSafe is like Write but fails with ErrExists if the reference
// already exists.
func (s *Store) WriteSafe(ref *Reference) error {
	exists, err := s.Exists(ref.Name())
	if err != nil {
		return err
	}
	if exists {
		return xerrors.Errorf("ref %q: %w", ref.Name(), ErrExists)
	}
	return s.Write(ref)
}

// Delete removes a reference file.
func (s *Store) Delete(name string) error {
	if err := s.fs.Remove(s.systemPath(name)); err != nil {
		if os.IsNotExist(err) {
			return xerrors.Errorf("ref %q: %w", name, ErrNotFound)
		}
		return xerrors.Errorf("could not delete reference %q: %w", name, err)
	}
	return nil
}

// BranchRefName returns the full reference name of a branch, e.g.
// "main" -> "refs/heads/main".
func BranchRefName(branch string) string {
	return gitpath.RefsHeadsPath + "/" + branch
}

// ListBranches returns the names (not full ref paths) of every branch
// head under refs/heads.
func (s *Store) ListBranches() ([]string, error) {
	dir := s.systemPath(gitpath.RefsHeadsPath)
	entries, err := afero.ReadDir(s.fs, dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, xerrors.Errorf("could not list branches: %w", err)
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			out = append(out, e.Name())
		}
	}
	return out, nil
}

// CurrentBranch returns the branch name HEAD points at, and true, if
// HEAD is attached. It returns ("", false) when HEAD is detached
// (contains a commit id directly) rather than the literal ref content
// -- one of two divergent historical behaviors; this engine adopts the
// None-on-detached semantics.
func (s *Store) CurrentBranch() (string, bool, error) {
	data, err := s.read(Head)
	if err != nil {
		return "", false, err
	}
	data = bytes.TrimSpace(data)
	if !bytes.HasPrefix(data, []byte("ref: ")) {
		return "", false, nil
	}
	target := string(data[len("ref: "):])
	if !strings.HasPrefix(target, gitpath.RefsHeadsPath+"/") {
		return "", false, xerrors.Errorf("HEAD: %w", ErrInvalid)
	}
	return strings.TrimPrefix(target, gitpath.RefsHeadsPath+"/"), true, nil
}

// CurrentCommit resolves HEAD, through one level of indirection if
// attached, to the commit id it ultimately points at.
func (s *Store) CurrentCommit() (oid.ID, error) {
	ref, err := s.Resolve(Head)
	if err != nil {
		return oid.Null, err
	}
	return ref.Target(), nil
}

// SetHeadAttached moves HEAD into attached mode on the given branch.
func (s *Store) SetHeadAttached(branch string) error {
	return s.Write(NewSymbolicReference(Head, BranchRefName(branch)))
}

// SetHeadDetached moves HEAD into detached mode at the given commit.
func (s *Store) SetHeadDetached(id oid.ID) error {
	return s.Write(NewOidReference(Head, id))
}

// CreateBranch creates a new branch head at id. ErrExists if the
// branch already exists.
func (s *Store) CreateBranch(name string, id oid.ID) error {
	return s.WriteSafe(NewOidReference(BranchRefName(name), id))
}

// CreateUnbornBranch creates an empty branch head file: the state a
// freshly initialized repository's branch is in before its first
// commit. ErrExists if the branch already exists.
func (s *Store) CreateUnbornBranch(name string) error {
	p := s.systemPath(BranchRefName(name))
	exists, err := s.Exists(BranchRefName(name))
	if err != nil {
		return err
	}
	if exists {
		return xerrors.Errorf("ref %q: %w", BranchRefName(name), ErrExists)
	}
	if err := s.fs.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return xerrors.Errorf("could not create directory for reference %q: %w", BranchRefName(name), err)
	}
	if err := afero.WriteFile(s.fs, p, []byte{}, 0o644); err != nil {
		return xerrors.Errorf("could not create branch %q: %w", BranchRefName(name), err)
	}
	return nil
}

// SetBranch moves an existing (or not-yet-existing) branch head to id.
func (s *Store) SetBranch(name string, id oid.ID) error {
	return s.Write(NewOidReference(BranchRefName(name), id))
}

// DeleteBranch removes a branch head.
func (s *Store) DeleteBranch(name string) error {
	return s.Delete(BranchRefName(name))
}
