package repo

import (
	"errors"
	"sort"

	"github.com/nivl-fork/vcs-go/merge"
	"github.com/nivl-fork/vcs-go/refs"
)

// ChangeKind classifies how a path differs between two snapshots.
type ChangeKind int

const (
	// Added means the path exists in the newer snapshot only.
	Added ChangeKind = iota
	// Removed means the path exists in the older snapshot only.
	Removed
	// Modified means the path exists in both with a different hash or kind.
	Modified
)

// Change is one path and how it differs between two snapshots.
type Change struct {
	Path string
	Kind ChangeKind
}

// Status reports, in order: changes staged for commit (index vs. the
// last commit), changes in the working tree not yet staged (workspace
// vs. index), and paths present on disk but tracked by neither.
type Status struct {
	Staged    []Change
	Unstaged  []Change
	Untracked []string
}

// Status computes the three-section status report described above. It
// never fails except on I/O or repository-corruption errors.
func (r *Repository) Status() (*Status, error) {
	idx, err := r.readIndex()
	if err != nil {
		return nil, err
	}
	indexed := make(map[string]string, idx.Len())
	for _, e := range idx.Entries() {
		indexed[e.Path] = e.Hash
	}

	committed := merge.BlobTable{}
	headID, err := r.refs.CurrentCommit()
	if err != nil && !errors.Is(err, refs.ErrNotFound) {
		return nil, err
	}
	if err == nil {
		c, err := r.objects.GetCommit(headID)
		if err != nil {
			return nil, err
		}
		committed, err = merge.Flatten(r.objects, c.TreeID())
		if err != nil {
			return nil, err
		}
	}

	workspace, err := reAddFromRoot(r)
	if err != nil {
		return nil, err
	}

	staged := classify(toHashTable(committed), indexed)

	trackedOnDisk := make(map[string]string, len(indexed))
	for path, hash := range workspace {
		if _, inIndex := indexed[path]; inIndex {
			trackedOnDisk[path] = hash
		}
	}
	unstaged := classify(indexed, trackedOnDisk)

	untracked := make([]string, 0)
	for path := range workspace {
		_, inIndex := indexed[path]
		_, inHead := committed[path]
		if !inIndex && !inHead {
			untracked = append(untracked, path)
		}
	}
	sort.Strings(untracked)

	return &Status{Staged: staged, Unstaged: unstaged, Untracked: untracked}, nil
}

func toHashTable(table merge.BlobTable) map[string]string {
	out := make(map[string]string, len(table))
	for path, entry := range table {
		out[path] = entry.ID.String()
	}
	return out
}

// classify compares an older path->hash snapshot against a newer one
// and reports every add, remove, and modify between them, sorted by
// path.
func classify(older, newer map[string]string) []Change {
	var out []Change
	for path, hash := range newer {
		if oldHash, ok := older[path]; !ok {
			out = append(out, Change{Path: path, Kind: Added})
		} else if oldHash != hash {
			out = append(out, Change{Path: path, Kind: Modified})
		}
	}
	for path := range older {
		if _, ok := newer[path]; !ok {
			out = append(out, Change{Path: path, Kind: Removed})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}
