package repo

import (
	"errors"
	"time"

	"github.com/nivl-fork/vcs-go/graph"
	"github.com/nivl-fork/vcs-go/object"
	"github.com/nivl-fork/vcs-go/oid"
	"github.com/nivl-fork/vcs-go/refs"
)

// LogEntry is one commit as reported by Log: its id, author, time,
// message, and every parent id (nil for a root commit).
type LogEntry struct {
	ID        oid.ID
	Author    string
	Time      time.Time
	Message   string
	ParentIDs []string
}

// Log walks the commit graph breadth-first from the current commit,
// visiting each commit once, and returns one LogEntry per visited
// commit in visitation order. An unborn branch (no commits yet) yields
// an empty, non-error result.
func (r *Repository) Log() ([]LogEntry, error) {
	headID, err := r.refs.CurrentCommit()
	if errors.Is(err, refs.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var entries []LogEntry
	visit := func(id string) error {
		oidVal, err := oid.FromHex(id)
		if err != nil {
			return err
		}
		c, err := r.objects.GetCommit(oidVal)
		if err != nil {
			return err
		}
		t, err := object.ParseTime(c.Time())
		if err != nil {
			return err
		}
		parents := c.ParentIDs()
		if c.IsRoot() {
			parents = nil
		}
		entries = append(entries, LogEntry{
			ID:        c.ID(),
			Author:    c.User(),
			Time:      t,
			Message:   c.Message(),
			ParentIDs: parents,
		})
		return nil
	}

	if err := graph.Walk(headID.String(), r.parentsOf, visit); err != nil {
		return nil, err
	}
	return entries, nil
}
