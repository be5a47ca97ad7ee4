// Package object implements the three typed objects of the engine --
// Blob, Tree, and Commit -- and the tagged-payload envelope shared by
// all three.
//
// Every object is identified by the SHA-1 of a "hash input": for a Blob
// that's the raw bytes, for a Tree the concatenated entry lines, for a
// Commit everything except the parent list. The bytes actually written
// to disk (Payload) can carry extra data excluded from the hash -- a
// Commit's parent list is the only case where the two diverge.
package object

import (
	"errors"
	"sync"

	"github.com/nivl-fork/vcs-go/oid"
)

// TagSize is the length, in bytes, of the type tag prefixing every
// on-disk object payload.
const TagSize = 4

// Kind identifies which of the three object variants a payload holds.
type Kind string

// The three object kinds, matching their 4-byte on-disk tag.
const (
	KindBlob   Kind = "BLOB"
	KindTree   Kind = "TREE"
	KindCommit Kind = "CMIT"
)

// IsValid reports whether k is one of the three known kinds.
func (k Kind) IsValid() bool {
	switch k {
	case KindBlob, KindTree, KindCommit:
		return true
	default:
		return false
	}
}

var (
	// ErrUnknownKind is returned when a payload's type tag isn't one of
	// the three known kinds.
	ErrUnknownKind = errors.New("unknown object kind")
	// ErrCorrupt is returned when an object payload is missing its type
	// tag or is otherwise too short to parse.
	ErrCorrupt = errors.New("object payload is corrupt")
	// ErrObjectInvalid is returned when an object is asked to be parsed
	// as the wrong kind (e.g. BlobFromObject on a Tree).
	ErrObjectInvalid = errors.New("object is not of the expected kind")
)

// Object is the tagged envelope shared by Blob, Tree, and Commit.
type Object struct {
	kind      Kind
	hashInput []byte
	tail      []byte

	id     oid.ID
	idOnce sync.Once
}

// New creates an Object whose id is the SHA-1 of hashInput. tail, if
// non-nil, is appended after hashInput in the on-disk payload but is
// excluded from the hash -- used only by Commit, for its parent list.
func New(kind Kind, hashInput, tail []byte) *Object {
	return &Object{kind: kind, hashInput: hashInput, tail: tail}
}

// FromStored reconstructs an Object read back from the object store,
// whose id is already known from its on-disk path. The digest is not
// re-verified.
func FromStored(kind Kind, id oid.ID, payload []byte) *Object {
	o := &Object{kind: kind, hashInput: payload, id: id}
	o.idOnce.Do(func() {})
	return o
}

// ID returns the object's id, computing and memoizing it on first call.
func (o *Object) ID() oid.ID {
	o.idOnce.Do(func() {
		o.id = oid.Sum(o.hashInput)
	})
	return o.id
}

// Kind returns the object's tag.
func (o *Object) Kind() Kind {
	return o.kind
}

// HashInput returns the exact bytes the id is computed from.
func (o *Object) HashInput() []byte {
	return o.hashInput
}

// Payload returns the bytes written to disk after the tag: HashInput
// followed by any untagged tail data.
func (o *Object) Payload() []byte {
	if len(o.tail) == 0 {
		return o.hashInput
	}
	buf := make([]byte, 0, len(o.hashInput)+len(o.tail))
	buf = append(buf, o.hashInput...)
	buf = append(buf, o.tail...)
	return buf
}

// Marshal returns the pre-base64 on-disk representation: the 4-byte
// kind tag followed by Payload().
func (o *Object) Marshal() []byte {
	payload := o.Payload()
	out := make([]byte, 0, TagSize+len(payload))
	out = append(out, []byte(o.kind)...)
	out = append(out, payload...)
	return out
}

// Unmarshal splits a pre-base64 on-disk representation into its kind
// tag and payload. It does not interpret the payload; that's the job
// of BlobFromObject/TreeFromObject/CommitFromObject.
func Unmarshal(data []byte) (kind Kind, payload []byte, err error) {
	if len(data) < TagSize {
		return "", nil, ErrCorrupt
	}
	kind = Kind(data[:TagSize])
	if !kind.IsValid() {
		return "", nil, ErrUnknownKind
	}
	return kind, data[TagSize:], nil
}
