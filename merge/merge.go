// Package merge implements the three-way merge algorithm: flattening
// two commits' trees against their merge base into blob tables,
// classifying the changes on each side, detecting operational and
// content conflicts, and reporting line-level conflict ranges.
package merge

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/nivl-fork/vcs-go/object"
	"github.com/nivl-fork/vcs-go/objstore"
	"github.com/nivl-fork/vcs-go/oid"
	"golang.org/x/xerrors"
)

// ErrInternalConflict is returned when flattening a single commit's
// tree finds the same path twice with different entries -- not a
// reachable state for a well-formed tree, but checked defensively.
var ErrInternalConflict = errors.New("internal conflict: path appears twice with different entries")

// BlobTable maps a path to the tree entry at that path, as produced by
// flattening a commit's tree. Paths are repository-relative unless the
// table was built by FlattenPrefixed with a non-empty prefix.
type BlobTable map[string]object.TreeEntry

// Flatten walks the tree at treeID and returns every non-subtree entry
// keyed by its full relative path.
func Flatten(store *objstore.Store, treeID oid.ID) (BlobTable, error) {
	return FlattenPrefixed(store, treeID, "")
}

// FlattenPrefixed is like Flatten but joins prefix onto every path
// before using it as a key -- a merge keys its blob tables by the
// absolute working-tree path, so a reported conflict names the file
// the way the caller sees it on disk rather than relative to the
// repository root.
func FlattenPrefixed(store *objstore.Store, treeID oid.ID, prefix string) (BlobTable, error) {
	out := BlobTable{}
	root, err := store.GetTree(treeID)
	if err != nil {
		return nil, xerrors.Errorf("could not read root tree: %w", err)
	}
	if err := flattenInto(store, root, prefix, out); err != nil {
		return nil, err
	}
	return out, nil
}

func flattenInto(store *objstore.Store, tree *object.Tree, prefix string, out BlobTable) error {
	for _, e := range tree.Entries() {
		p := joinRel(prefix, e.Name)
		if e.Kind == object.EntryTree {
			sub, err := store.GetTree(e.ID)
			if err != nil {
				return xerrors.Errorf("could not read tree %s: %w", p, err)
			}
			if err := flattenInto(store, sub, p, out); err != nil {
				return err
			}
			continue
		}
		if existing, ok := out[p]; ok && existing != e {
			return xerrors.Errorf("%s: %w", p, ErrInternalConflict)
		}
		out[p] = e
	}
	return nil
}

func joinRel(base, name string) string {
	if base == "" {
		return name
	}
	return base + "/" + name
}

// changeSet is one side's classification against the merge base.
type changeSet struct {
	add    map[string]object.TreeEntry
	remove map[string]struct{}
	modify map[string]object.TreeEntry
}

func diff(base, side BlobTable) changeSet {
	cs := changeSet{
		add:    map[string]object.TreeEntry{},
		remove: map[string]struct{}{},
		modify: map[string]object.TreeEntry{},
	}
	for p, e := range side {
		if be, ok := base[p]; ok {
			if be != e {
				cs.modify[p] = e
			}
		} else {
			cs.add[p] = e
		}
	}
	for p := range base {
		if _, ok := side[p]; !ok {
			cs.remove[p] = struct{}{}
		}
	}
	return cs
}

// ConflictKind distinguishes a remove-vs-modify operational conflict
// from a genuine content conflict (both sides touched the same path
// with differing results).
type ConflictKind int

const (
	// ContentConflict is both sides adding or modifying the same path
	// with different hash or kind.
	ContentConflict ConflictKind = iota
	// OperationalConflict is one side removing a path the other side
	// modified.
	OperationalConflict
)

// Range is a 1-based, inclusive line range where two candidate blobs
// disagree.
type Range struct {
	Start int
	End   int
}

// String renders a single line as "n" and a run as "[start, end]".
func (r Range) String() string {
	if r.Start == r.End {
		return fmt.Sprintf("%d", r.Start)
	}
	return fmt.Sprintf("[%d, %d]", r.Start, r.End)
}

// Conflict is one unresolved path from a three-way merge attempt.
type Conflict struct {
	Path   string
	Kind   ConflictKind
	Ranges []Range // only populated for ContentConflict
}

// Messages renders the conflict the way it is reported to the user:
// one "Merge conflict in <path>: <range>" line per disagreeing range
// for a content conflict, or a single operational-conflict line.
func (c Conflict) Messages() []string {
	if c.Kind == OperationalConflict {
		return []string{fmt.Sprintf("operational conflict in %s: removed on one side, modified on the other", c.Path)}
	}
	out := make([]string, 0, len(c.Ranges))
	for _, r := range c.Ranges {
		out = append(out, fmt.Sprintf("Merge conflict in %s: %s", c.Path, r))
	}
	return out
}

// BlobLoader reads the content of the blob a tree entry points at.
type BlobLoader func(e object.TreeEntry) ([]byte, error)

// ThreeWay applies ours's and theirs's changes (each computed against
// base) onto a copy of base. It returns the merged table when there is
// no conflict, or the list of conflicts when there is -- never both.
func ThreeWay(base, ours, theirs BlobTable, load BlobLoader) (BlobTable, []Conflict, error) {
	a := diff(base, ours)
	b := diff(base, theirs)

	touched := map[string]struct{}{}
	for _, cs := range []changeSet{a, b} {
		for p := range cs.add {
			touched[p] = struct{}{}
		}
		for p := range cs.remove {
			touched[p] = struct{}{}
		}
		for p := range cs.modify {
			touched[p] = struct{}{}
		}
	}
	paths := make([]string, 0, len(touched))
	for p := range touched {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	merged := make(BlobTable, len(base))
	for p, e := range base {
		merged[p] = e
	}

	var conflicts []Conflict
	for _, p := range paths {
		eA, addA := a.add[p]
		eB, addB := b.add[p]
		_, remA := a.remove[p]
		_, remB := b.remove[p]
		mA, modA := a.modify[p]
		mB, modB := b.modify[p]

		switch {
		case addA && addB:
			if eA != eB {
				c, err := contentConflict(p, eA, eB, load)
				if err != nil {
					return nil, nil, err
				}
				conflicts = append(conflicts, c)
			} else {
				merged[p] = eA
			}
		case addA:
			merged[p] = eA
		case addB:
			merged[p] = eB
		case remA && modB:
			conflicts = append(conflicts, Conflict{Path: p, Kind: OperationalConflict})
		case remB && modA:
			conflicts = append(conflicts, Conflict{Path: p, Kind: OperationalConflict})
		case remA, remB:
			delete(merged, p)
		case modA && modB:
			if mA != mB {
				c, err := contentConflict(p, mA, mB, load)
				if err != nil {
					return nil, nil, err
				}
				conflicts = append(conflicts, c)
			} else {
				merged[p] = mA
			}
		case modA:
			merged[p] = mA
		case modB:
			merged[p] = mB
		}
	}

	if len(conflicts) > 0 {
		return nil, conflicts, nil
	}
	return merged, nil, nil
}

func contentConflict(path string, eA, eB object.TreeEntry, load BlobLoader) (Conflict, error) {
	a, err := load(eA)
	if err != nil {
		return Conflict{}, xerrors.Errorf("could not read %s for conflict analysis: %w", path, err)
	}
	b, err := load(eB)
	if err != nil {
		return Conflict{}, xerrors.Errorf("could not read %s for conflict analysis: %w", path, err)
	}
	return Conflict{Path: path, Kind: ContentConflict, Ranges: conflictRanges(a, b)}, nil
}

// conflictRanges compares two candidate blobs line by line, returning
// the 1-based ranges where they disagree. Non-UTF-8 content falls back
// to reporting the whole file as a single conflicting range.
func conflictRanges(a, b []byte) []Range {
	if !utf8.Valid(a) || !utf8.Valid(b) {
		n := lineCount(a)
		if m := lineCount(b); m > n {
			n = m
		}
		if n == 0 {
			n = 1
		}
		return []Range{{Start: 1, End: n}}
	}

	linesA := splitLines(a)
	linesB := splitLines(b)
	max := len(linesA)
	if len(linesB) > max {
		max = len(linesB)
	}

	var ranges []Range
	start := -1
	for i := 0; i < max; i++ {
		var la, lb string
		if i < len(linesA) {
			la = linesA[i]
		}
		if i < len(linesB) {
			lb = linesB[i]
		}
		if la != lb {
			if start == -1 {
				start = i
			}
			continue
		}
		if start != -1 {
			ranges = append(ranges, Range{Start: start + 1, End: i})
			start = -1
		}
	}
	if start != -1 {
		ranges = append(ranges, Range{Start: start + 1, End: max})
	}
	return ranges
}

func splitLines(b []byte) []string {
	s := strings.TrimSuffix(string(b), "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func lineCount(b []byte) int {
	return len(splitLines(b))
}
