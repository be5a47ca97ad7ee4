package object

import (
	"bytes"
	"errors"
	"fmt"
	"sort"

	"github.com/nivl-fork/vcs-go/oid"
)

// ErrTreeInvalid is returned when a tree's serialized entries can't be
// parsed: a line that doesn't split into exactly three NUL-separated
// fields, or an entry with an unknown kind.
var ErrTreeInvalid = errors.New("invalid tree")

// EntryKind identifies what a TreeEntry points at.
type EntryKind string

// The four entry kinds a Tree may contain.
const (
	EntryBlob    EntryKind = "BLOB"
	EntryExec    EntryKind = "BEXE"
	EntrySymlink EntryKind = "BSYM"
	EntryTree    EntryKind = "TREE"
)

// IsValid reports whether k is one of the four known entry kinds.
func (k EntryKind) IsValid() bool {
	switch k {
	case EntryBlob, EntryExec, EntrySymlink, EntryTree:
		return true
	default:
		return false
	}
}

// TreeEntry is one line of a Tree: a name, the kind of thing it names,
// and the id of that thing.
type TreeEntry struct {
	Kind EntryKind
	Name string
	ID   oid.ID
}

// Tree is an ordered directory listing.
type Tree struct {
	raw *Object
	// entries is always kept sorted lexicographically by Name -- tree
	// construction from a path->tree table during commit is otherwise
	// non-deterministic, and the spec requires a fixed order before
	// hashing.
	entries []TreeEntry
}

// NewTree builds a Tree from entries, sorting them by name first.
func NewTree(entries []TreeEntry) *Tree {
	sorted := make([]TreeEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	t := &Tree{entries: sorted}
	t.raw = New(KindTree, t.serialize(), nil)
	return t
}

func (t *Tree) serialize() []byte {
	buf := new(bytes.Buffer)
	for _, e := range t.entries {
		buf.WriteString(string(e.Kind))
		buf.WriteByte(0)
		buf.WriteString(e.Name)
		buf.WriteByte(0)
		buf.WriteString(e.ID.String())
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// TreeFromObject parses a raw Object as a Tree.
func TreeFromObject(raw *Object) (*Tree, error) {
	if raw.Kind() != KindTree {
		return nil, fmt.Errorf("kind %s is not a tree: %w", raw.Kind(), ErrObjectInvalid)
	}

	content := bytes.TrimRight(raw.Payload(), "\n")
	entries := []TreeEntry{}
	if len(content) > 0 {
		for _, line := range bytes.Split(content, []byte{'\n'}) {
			if len(line) == 0 {
				continue
			}
			parts := bytes.SplitN(line, []byte{0}, 3)
			if len(parts) != 3 {
				return nil, fmt.Errorf("entry %q has %d fields, want 3: %w", line, len(parts), ErrTreeInvalid)
			}
			kind := EntryKind(parts[0])
			if !kind.IsValid() {
				return nil, fmt.Errorf("unknown entry kind %q: %w", parts[0], ErrTreeInvalid)
			}
			id, err := oid.FromChars(parts[2])
			if err != nil {
				return nil, fmt.Errorf("invalid entry hash %q: %w", parts[2], ErrTreeInvalid)
			}
			entries = append(entries, TreeEntry{Kind: kind, Name: string(parts[1]), ID: id})
		}
	}

	return &Tree{raw: raw, entries: entries}, nil
}

// ID returns the tree's id.
func (t *Tree) ID() oid.ID {
	return t.raw.ID()
}

// Entries returns a copy of the tree's entries, sorted by name.
func (t *Tree) Entries() []TreeEntry {
	out := make([]TreeEntry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Entry returns the entry named name, if any.
func (t *Tree) Entry(name string) (TreeEntry, bool) {
	for _, e := range t.entries {
		if e.Name == name {
			return e, true
		}
	}
	return TreeEntry{}, false
}

// ToObject returns the Tree's underlying Object.
func (t *Tree) ToObject() *Object {
	return t.raw
}
