// Package graph implements the commit-graph algorithms: ancestry
// checks, merge-base computation, and the visited-set walk used by
// log. None of it touches the object store directly -- every function
// takes a ParentsOf callback, so it can be exercised against an
// in-memory fixture instead of a real repository.
package graph

import "errors"

var (
	// ErrAmbiguousMergeBase is returned when two or more common
	// ancestors tie for the minimum summed distance to both tips. The
	// caller MUST NOT silently pick one.
	ErrAmbiguousMergeBase = errors.New("merge base is ambiguous")
	// ErrNoCommonAncestor is returned when two commits share no
	// ancestor at all. This should be unreachable once the empty-string
	// root sentinel participates in every history.
	ErrNoCommonAncestor = errors.New("no common ancestor")
)

// ParentsOf returns the parent ids of a commit. A root commit returns
// []string{""}; parentsOf("") must never be called -- "" is a leaf
// sentinel, not a real commit.
type ParentsOf func(id string) ([]string, error)

// IsAncestor reports whether prev is an ancestor of post: prev == post,
// prev is the empty-string root sentinel (ancestor of everything), or
// a walk from post along parent links reaches prev.
func IsAncestor(prev, post string, parentsOf ParentsOf) (bool, error) {
	if prev == post {
		return true, nil
	}
	if prev == "" {
		return true, nil
	}
	if post == "" {
		return false, nil
	}
	return walkContains(post, prev, parentsOf, map[string]struct{}{})
}

func walkContains(cur, target string, parentsOf ParentsOf, visited map[string]struct{}) (bool, error) {
	if _, ok := visited[cur]; ok {
		return false, nil
	}
	visited[cur] = struct{}{}

	parents, err := parentsOf(cur)
	if err != nil {
		return false, err
	}
	for _, p := range parents {
		if p == target {
			return true, nil
		}
		if p == "" {
			continue
		}
		found, err := walkContains(p, target, parentsOf, visited)
		if err != nil {
			return false, err
		}
		if found {
			return true, nil
		}
	}
	return false, nil
}

// distances runs a BFS from start, recording the shortest distance (in
// parent hops) to every ancestor, including the root sentinel "".
func distances(start string, parentsOf ParentsOf) (map[string]int, error) {
	dist := map[string]int{start: 0}
	queue := []string{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == "" {
			continue
		}
		parents, err := parentsOf(cur)
		if err != nil {
			return nil, err
		}
		for _, p := range parents {
			if _, seen := dist[p]; seen {
				continue
			}
			dist[p] = dist[cur] + 1
			queue = append(queue, p)
		}
	}
	return dist, nil
}

// MergeBase returns the common ancestor of a and b that minimizes the
// sum of the two BFS distances. Ties return ErrAmbiguousMergeBase; an
// empty intersection returns ErrNoCommonAncestor. MergeBase(a, b) ==
// MergeBase(b, a) whenever the result is unique, since the distance
// maps are combined symmetrically.
func MergeBase(a, b string, parentsOf ParentsOf) (string, error) {
	da, err := distances(a, parentsOf)
	if err != nil {
		return "", err
	}
	db, err := distances(b, parentsOf)
	if err != nil {
		return "", err
	}

	bestSum := -1
	var best []string
	for id, d1 := range da {
		d2, ok := db[id]
		if !ok {
			continue
		}
		sum := d1 + d2
		switch {
		case bestSum == -1 || sum < bestSum:
			bestSum = sum
			best = []string{id}
		case sum == bestSum:
			best = append(best, id)
		}
	}

	switch len(best) {
	case 0:
		return "", ErrNoCommonAncestor
	case 1:
		return best[0], nil
	default:
		return "", ErrAmbiguousMergeBase
	}
}

// Walk runs a BFS from start (the most recent commit), visiting every
// reachable commit exactly once. It halts at empty-parent sentinels
// and never calls visit on the sentinel itself. Used by log.
func Walk(start string, parentsOf ParentsOf, visit func(id string) error) error {
	if start == "" {
		return nil
	}
	visited := map[string]struct{}{}
	queue := []string{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if _, ok := visited[cur]; ok {
			continue
		}
		visited[cur] = struct{}{}

		if err := visit(cur); err != nil {
			return err
		}

		parents, err := parentsOf(cur)
		if err != nil {
			return err
		}
		for _, p := range parents {
			if p == "" {
				continue
			}
			if _, ok := visited[p]; !ok {
				queue = append(queue, p)
			}
		}
	}
	return nil
}
