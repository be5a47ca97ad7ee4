// Package index implements the staging area: a flat path -> hash map
// persisted as a single base64-wrapped file.
package index

import (
	"bytes"
	"encoding/base64"
	"errors"
	"io"
	"os"
	gopath "path"
	"path/filepath"
	"sort"

	"github.com/nivl-fork/vcs-go/internal/errutil"
	"github.com/spf13/afero"
	"golang.org/x/xerrors"
)

// ErrDirectoryWithoutRecursion is returned by RegisterFiles when it
// encounters a directory and recursion was not requested.
var ErrDirectoryWithoutRecursion = errors.New("path is a directory, but recursion was not requested")

// ErrMalformed is returned when an index file's content can't be
// parsed.
var ErrMalformed = errors.New("index file is malformed")

// tag prefixes the pre-base64 content of an index file.
const tag = "DIRC"

// Entry is one staged path and the hash of its content. Hash is empty
// for entries registered by RegisterFiles but not yet hashed.
type Entry struct {
	Path string
	Hash string
}

// Index is the in-memory staging area: at most one entry per path.
type Index struct {
	entries map[string]string
}

// New returns an empty Index.
func New() *Index {
	return &Index{entries: map[string]string{}}
}

// Get returns the hash staged for path, if any.
func (idx *Index) Get(path string) (string, bool) {
	h, ok := idx.entries[path]
	return h, ok
}

// Set stages path with the given hash, overwriting any existing entry.
func (idx *Index) Set(path, hash string) {
	idx.entries[path] = hash
}

// Delete removes path from the index.
func (idx *Index) Delete(path string) {
	delete(idx.entries, path)
}

// Len returns the number of staged entries.
func (idx *Index) Len() int {
	return len(idx.entries)
}

// Entries returns a copy of the staged entries, sorted by path.
func (idx *Index) Entries() []Entry {
	out := make([]Entry, 0, len(idx.entries))
	for p, h := range idx.entries {
		out = append(out, Entry{Path: p, Hash: h})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// Read loads the index file at p. A missing or empty file decodes to
// an empty Index.
func Read(fs afero.Fs, p string) (idx *Index, err error) {
	f, openErr := fs.Open(p)
	if openErr != nil {
		if os.IsNotExist(openErr) {
			return New(), nil
		}
		return nil, xerrors.Errorf("could not open index at %s: %w", p, openErr)
	}
	defer errutil.Close(f, &err)

	encoded, err := io.ReadAll(f)
	if err != nil {
		return nil, xerrors.Errorf("could not read index at %s: %w", p, err)
	}
	if len(encoded) == 0 {
		return New(), nil
	}

	raw, err := base64.StdEncoding.DecodeString(string(encoded))
	if err != nil {
		return nil, xerrors.Errorf("index at %s: %w", p, ErrMalformed)
	}
	if len(raw) < len(tag) || string(raw[:len(tag)]) != tag {
		return nil, xerrors.Errorf("index at %s: %w", p, ErrMalformed)
	}

	idx = New()
	body := bytes.TrimRight(raw[len(tag):], "\n")
	if len(body) > 0 {
		for _, line := range bytes.Split(body, []byte{'\n'}) {
			if len(line) == 0 {
				continue
			}
			parts := bytes.SplitN(line, []byte{0}, 2)
			if len(parts) != 2 {
				return nil, xerrors.Errorf("index entry %q: %w", line, ErrMalformed)
			}
			idx.entries[string(parts[0])] = string(parts[1])
		}
	}
	return idx, nil
}

// Write persists idx to p, base64-wrapped.
func Write(fs afero.Fs, p string, idx *Index) error {
	buf := new(bytes.Buffer)
	buf.WriteString(tag)
	for _, e := range idx.Entries() {
		buf.WriteString(e.Path)
		buf.WriteByte(0)
		buf.WriteString(e.Hash)
		buf.WriteByte('\n')
	}

	if err := fs.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return xerrors.Errorf("could not create index directory: %w", err)
	}
	encoded := base64.StdEncoding.EncodeToString(buf.Bytes())
	if err := afero.WriteFile(fs, p, []byte(encoded), 0o644); err != nil {
		return xerrors.Errorf("could not write index to %s: %w", p, err)
	}
	return nil
}

// lstat uses afero's optional Lstater interface when available, so
// symlinked directories are classified by the link itself rather than
// by what it points to.
func lstat(fs afero.Fs, path string) (os.FileInfo, error) {
	if lfs, ok := fs.(afero.Lstater); ok {
		info, _, err := lfs.LstatIfPossible(path)
		return info, err
	}
	return fs.Stat(path)
}

// RegisterFiles walks absPath (whose repository-relative path is
// relPath), inserting an entry with an empty hash for every file or
// symlink found. Hashing happens later, once the caller has read the
// content.
//
// A directory is only recursed into if recursive is true; otherwise
// RegisterFiles fails with ErrDirectoryWithoutRecursion. Symlinked
// directories are never followed -- they're registered as plain
// entries, the same as a regular symlink. metaDirAbs (the repository's
// metadata directory) is always skipped.
func RegisterFiles(fs afero.Fs, metaDirAbs, absPath, relPath string, out *Index, recursive bool) error {
	if absPath == metaDirAbs {
		return nil
	}

	info, err := lstat(fs, absPath)
	if err != nil {
		return xerrors.Errorf("could not stat %s: %w", absPath, err)
	}

	if info.Mode()&os.ModeSymlink != 0 {
		out.Set(relPath, "")
		return nil
	}

	if !info.IsDir() {
		out.Set(relPath, "")
		return nil
	}

	if !recursive {
		return xerrors.Errorf("%s: %w", relPath, ErrDirectoryWithoutRecursion)
	}

	children, err := afero.ReadDir(fs, absPath)
	if err != nil {
		return xerrors.Errorf("could not read directory %s: %w", absPath, err)
	}
	for _, c := range children {
		childAbs := filepath.Join(absPath, c.Name())
		if childAbs == metaDirAbs {
			continue
		}
		childRel := gopath.Join(relPath, c.Name())
		if err := RegisterFiles(fs, metaDirAbs, childAbs, childRel, out, recursive); err != nil {
			return err
		}
	}
	return nil
}
