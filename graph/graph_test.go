package graph_test

import (
	"fmt"
	"testing"

	"github.com/nivl-fork/vcs-go/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixture is a tiny in-memory commit DAG keyed by single-letter ids.
// "" is always the root sentinel and is never a key in parents.
type fixture map[string][]string

func (f fixture) parentsOf(id string) ([]string, error) {
	p, ok := f[id]
	if !ok {
		return nil, fmt.Errorf("unknown commit %q", id)
	}
	return p, nil
}

// linear: "" -> a -> b -> c
func linear() fixture {
	return fixture{
		"a": {""},
		"b": {"a"},
		"c": {"b"},
	}
}

func TestIsAncestorLinear(t *testing.T) {
	t.Parallel()

	f := linear()
	ok, err := graph.IsAncestor("a", "c", f.parentsOf)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = graph.IsAncestor("c", "a", f.parentsOf)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIsAncestorSelf(t *testing.T) {
	t.Parallel()

	f := linear()
	ok, err := graph.IsAncestor("b", "b", f.parentsOf)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestIsAncestorRootSentinel(t *testing.T) {
	t.Parallel()

	f := linear()
	ok, err := graph.IsAncestor("", "c", f.parentsOf)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = graph.IsAncestor("c", "", f.parentsOf)
	require.NoError(t, err)
	assert.False(t, ok)
}

// diamond:
//
//	     "" -> a -> b -> d
//	            \-> c -/
func diamond() fixture {
	return fixture{
		"a": {""},
		"b": {"a"},
		"c": {"a"},
		"d": {"b", "c"},
	}
}

func TestMergeBaseDiamond(t *testing.T) {
	t.Parallel()

	f := diamond()
	base, err := graph.MergeBase("b", "c", f.parentsOf)
	require.NoError(t, err)
	assert.Equal(t, "a", base)

	base, err = graph.MergeBase("c", "b", f.parentsOf)
	require.NoError(t, err)
	assert.Equal(t, "a", base)
}

func TestMergeBaseOneIsAncestorOfOther(t *testing.T) {
	t.Parallel()

	f := diamond()
	base, err := graph.MergeBase("a", "d", f.parentsOf)
	require.NoError(t, err)
	assert.Equal(t, "a", base)
}

func TestMergeBaseRootSentinelAlwaysACommonAncestor(t *testing.T) {
	t.Parallel()

	f := fixture{
		"a": {""},
		"b": {""},
	}
	base, err := graph.MergeBase("a", "b", f.parentsOf)
	require.NoError(t, err)
	assert.Equal(t, "", base)
}

func TestMergeBaseAmbiguous(t *testing.T) {
	t.Parallel()

	// Two merge commits share both parents, so b and c tie for
	// minimum summed distance.
	f := fixture{
		"a": {""},
		"b": {"a"},
		"c": {"a"},
		"d": {"b", "c"},
		"e": {"b", "c"},
	}
	_, err := graph.MergeBase("d", "e", f.parentsOf)
	require.Error(t, err)
	assert.ErrorIs(t, err, graph.ErrAmbiguousMergeBase)
}

func TestWalkVisitsEveryCommitOnce(t *testing.T) {
	t.Parallel()

	f := diamond()
	var visited []string
	err := graph.Walk("d", f.parentsOf, func(id string) error {
		visited = append(visited, id)
		return nil
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b", "c", "d"}, visited)
	assert.Len(t, visited, 4)
}

func TestWalkEmptyStartVisitsNothing(t *testing.T) {
	t.Parallel()

	var visited []string
	err := graph.Walk("", linear().parentsOf, func(id string) error {
		visited = append(visited, id)
		return nil
	})
	require.NoError(t, err)
	assert.Empty(t, visited)
}
