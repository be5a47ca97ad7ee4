// Package objstore implements the content-addressed object store: a
// filesystem-backed map from object id to typed, base64-wrapped
// payload, read-through cached and safe for concurrent callers.
package objstore

import (
	"encoding/base64"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/nivl-fork/vcs-go/internal/cache"
	"github.com/nivl-fork/vcs-go/internal/errutil"
	"github.com/nivl-fork/vcs-go/internal/syncutil"
	"github.com/nivl-fork/vcs-go/object"
	"github.com/nivl-fork/vcs-go/oid"
	"github.com/spf13/afero"
	"golang.org/x/xerrors"
)

var (
	// ErrBrokenObject is returned when the requested object file does
	// not exist.
	ErrBrokenObject = errors.New("object file is missing")
	// ErrCorruptObject is returned when an object file exists but its
	// base64 envelope or type tag can't be decoded.
	ErrCorruptObject = errors.New("object file is corrupt")
)

// cacheSize bounds the number of decoded objects kept in memory.
const cacheSize = 4096

// lockShards is the number of NamedMutex shards guarding concurrent
// writers. Using a prime-ish size spreads keys more evenly.
const lockShards = 63

// Store is the content-addressed object database rooted at a single
// "objects" directory.
type Store struct {
	fs   afero.Fs
	root string

	cache *cache.LRU
	mu    *syncutil.NamedMutex

	// known mirrors the on-disk loose object set so Exists/Put can
	// short-circuit without a stat call once an id has been seen.
	known sync.Map
}

// New returns a Store rooted at root (the repository's "objects"
// directory).
func New(fs afero.Fs, root string) *Store {
	return &Store{
		fs:    fs,
		root:  root,
		cache: cache.NewLRU(cacheSize),
		mu:    syncutil.NewNamedMutex(lockShards),
	}
}

// Init creates the root directory.
func (s *Store) Init() error {
	if err := s.fs.MkdirAll(s.root, 0o755); err != nil {
		return xerrors.Errorf("could not create object store directory: %w", err)
	}
	return nil
}

// path returns objects/<id[0:2]>/<id[2:]>.
func (s *Store) path(id oid.ID) string {
	h := id.String()
	return filepath.Join(s.root, h[:2], h[2:])
}

// Exists reports whether id has a corresponding object file.
func (s *Store) Exists(id oid.ID) (bool, error) {
	if _, ok := s.known.Load(id); ok {
		return true, nil
	}
	s.mu.RLock(id[:])
	defer s.mu.RUnlock(id[:])
	return s.existsUnsafe(id)
}

func (s *Store) existsUnsafe(id oid.ID) (bool, error) {
	if _, ok := s.known.Load(id); ok {
		return true, nil
	}
	_, err := s.fs.Stat(s.path(id))
	if err == nil {
		s.known.Store(id, struct{}{})
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, xerrors.Errorf("could not stat object %s: %w", id.String(), err)
}

// Put writes o to disk if it isn't already present. Writing the same
// content twice is a no-op, matching the content-addressing invariant.
func (s *Store) Put(o *object.Object) (oid.ID, error) {
	id := o.ID()
	s.mu.Lock(id[:])
	defer s.mu.Unlock(id[:])

	found, err := s.existsUnsafe(id)
	if err != nil {
		return oid.Null, xerrors.Errorf("could not check object %s: %w", id.String(), err)
	}
	if found {
		return id, nil
	}

	p := s.path(id)
	if err := s.fs.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return oid.Null, xerrors.Errorf("could not create object directory for %s: %w", id.String(), err)
	}

	encoded := base64.StdEncoding.EncodeToString(o.Marshal())
	// Objects are immutable once written, matching the content-addressed
	// invariant: a path is only ever created once.
	if err := afero.WriteFile(s.fs, p, []byte(encoded), 0o444); err != nil {
		return oid.Null, xerrors.Errorf("could not write object %s: %w", id.String(), err)
	}

	s.known.Store(id, struct{}{})
	s.cache.Add(id, o)
	return id, nil
}

// Get reads and decodes the object at id.
func (s *Store) Get(id oid.ID) (o *object.Object, err error) {
	s.mu.RLock(id[:])
	defer s.mu.RUnlock(id[:])

	if cached, ok := s.cache.Get(id); ok {
		if obj, valid := cached.(*object.Object); valid {
			return obj, nil
		}
	}

	f, err := s.fs.Open(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, xerrors.Errorf("object %s: %w", id.String(), ErrBrokenObject)
		}
		return nil, xerrors.Errorf("could not open object %s: %w", id.String(), err)
	}
	defer errutil.Close(f, &err)

	encoded, err := io.ReadAll(f)
	if err != nil {
		return nil, xerrors.Errorf("could not read object %s: %w", id.String(), err)
	}

	raw, decodeErr := base64.StdEncoding.DecodeString(string(encoded))
	if decodeErr != nil {
		return nil, xerrors.Errorf("object %s: %w", id.String(), ErrCorruptObject)
	}

	kind, payload, unmarshalErr := object.Unmarshal(raw)
	if unmarshalErr != nil {
		return nil, xerrors.Errorf("object %s: %w", id.String(), ErrCorruptObject)
	}

	o = object.FromStored(kind, id, payload)
	s.cache.Add(id, o)
	return o, nil
}

// TypeOf returns the kind of the object stored at id.
func (s *Store) TypeOf(id oid.ID) (object.Kind, error) {
	o, err := s.Get(id)
	if err != nil {
		return "", err
	}
	return o.Kind(), nil
}

// GetBlob reads and parses the object at id as a Blob.
func (s *Store) GetBlob(id oid.ID) (*object.Blob, error) {
	o, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	return object.BlobFromObject(o)
}

// GetTree reads and parses the object at id as a Tree.
func (s *Store) GetTree(id oid.ID) (*object.Tree, error) {
	o, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	return object.TreeFromObject(o)
}

// GetCommit reads and parses the object at id as a Commit.
func (s *Store) GetCommit(id oid.ID) (*object.Commit, error) {
	o, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	return object.CommitFromObject(o)
}

// PutBlob is a convenience wrapper that writes b's underlying object.
func (s *Store) PutBlob(b *object.Blob) (oid.ID, error) {
	return s.Put(b.ToObject())
}

// PutTree is a convenience wrapper that writes t's underlying object.
func (s *Store) PutTree(t *object.Tree) (oid.ID, error) {
	return s.Put(t.ToObject())
}

// PutCommit is a convenience wrapper that writes c's underlying object.
func (s *Store) PutCommit(c *object.Commit) (oid.ID, error) {
	return s.Put(c.ToObject())
}
