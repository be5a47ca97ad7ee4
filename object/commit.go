package object

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/nivl-fork/vcs-go/oid"
)

// ErrCommitInvalid is returned when a commit's serialized form can't be
// parsed into the expected five fields.
var ErrCommitInvalid = errors.New("invalid commit")

// TimeLayout is the date/time portion (everything but the millisecond
// suffix) of the engine's commit timestamp format: YYYYMMDDHHMMSS.
const TimeLayout = "20060102150405"

// FormatTime renders t as "YYYYMMDDHHMMSSmmm", the wall-clock format
// used for commit timestamps.
func FormatTime(t time.Time) string {
	return fmt.Sprintf("%s%03d", t.Format(TimeLayout), t.Nanosecond()/1e6)
}

// ParseTime parses a commit timestamp produced by FormatTime.
func ParseTime(s string) (time.Time, error) {
	if len(s) != len(TimeLayout)+3 {
		return time.Time{}, fmt.Errorf("timestamp %q: %w", s, ErrCommitInvalid)
	}
	base, err := time.ParseInLocation(TimeLayout, s[:len(TimeLayout)], time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("could not parse timestamp %q: %w", s, err)
	}
	ms, err := strconv.Atoi(s[len(TimeLayout):])
	if err != nil {
		return time.Time{}, fmt.Errorf("could not parse millisecond offset of %q: %w", s, err)
	}
	return base.Add(time.Duration(ms) * time.Millisecond), nil
}

// Commit is a snapshot: a message, an author identity, a timestamp, a
// root tree, and zero or more parents.
//
// The parent list always has at least one entry. A single empty-string
// entry is the root-commit sentinel ("no parent"); it is never omitted
// in favor of a zero-length list (see graph.IsAncestor, which special-
// cases it the same way).
type Commit struct {
	raw *Object

	message string
	user    string
	time    string

	treeID    oid.ID
	parentIDs []string
}

// NewCommit creates a new Commit object. If parentIDs is empty it is
// treated as the root-commit sentinel ([""]).
func NewCommit(treeID oid.ID, message, user, timestamp string, parentIDs []string) *Commit {
	if len(parentIDs) == 0 {
		parentIDs = []string{""}
	}
	c := &Commit{
		message:   message,
		user:      user,
		time:      timestamp,
		treeID:    treeID,
		parentIDs: parentIDs,
	}
	c.raw = New(KindCommit, c.hashInput(), c.tail())
	return c
}

func (c *Commit) hashInput() []byte {
	buf := new(bytes.Buffer)
	buf.WriteString(c.message)
	buf.WriteByte(0)
	buf.WriteString(c.user)
	buf.WriteByte(0)
	buf.WriteString(c.time)
	buf.WriteByte(0)
	buf.WriteString(c.treeID.String())
	return buf.Bytes()
}

func (c *Commit) tail() []byte {
	buf := new(bytes.Buffer)
	buf.WriteByte(0)
	buf.WriteString(strings.Join(c.parentIDs, "&"))
	return buf.Bytes()
}

// CommitFromObject parses a raw Object as a Commit.
func CommitFromObject(raw *Object) (*Commit, error) {
	if raw.Kind() != KindCommit {
		return nil, fmt.Errorf("kind %s is not a commit: %w", raw.Kind(), ErrObjectInvalid)
	}

	fields := bytes.SplitN(raw.Payload(), []byte{0}, 5)
	if len(fields) != 5 {
		return nil, fmt.Errorf("commit has %d fields, want 5: %w", len(fields), ErrCommitInvalid)
	}

	treeID, err := oid.FromChars(fields[3])
	if err != nil {
		return nil, fmt.Errorf("invalid tree id %q: %w", fields[3], ErrCommitInvalid)
	}

	c := &Commit{
		raw:       raw,
		message:   string(fields[0]),
		user:      string(fields[1]),
		time:      string(fields[2]),
		treeID:    treeID,
		parentIDs: strings.Split(string(fields[4]), "&"),
	}
	return c, nil
}

// ID returns the commit's id. Note this excludes the parent list.
func (c *Commit) ID() oid.ID {
	return c.raw.ID()
}

// Message returns the commit message.
func (c *Commit) Message() string {
	return c.message
}

// User returns the author identity string.
func (c *Commit) User() string {
	return c.user
}

// Time returns the raw formatted timestamp.
func (c *Commit) Time() string {
	return c.time
}

// TreeID returns the id of the commit's root tree.
func (c *Commit) TreeID() oid.ID {
	return c.treeID
}

// ParentIDs returns the commit's parent ids. A root commit returns a
// single-element slice containing the empty-string sentinel.
func (c *Commit) ParentIDs() []string {
	out := make([]string, len(c.parentIDs))
	copy(out, c.parentIDs)
	return out
}

// IsRoot reports whether this commit has no real parent.
func (c *Commit) IsRoot() bool {
	return len(c.parentIDs) == 1 && c.parentIDs[0] == ""
}

// ToObject returns the Commit's underlying Object.
func (c *Commit) ToObject() *Object {
	return c.raw
}
