package object

import (
	"fmt"

	"github.com/nivl-fork/vcs-go/oid"
)

// Blob is an opaque byte sequence: file content, or for a symlink, the
// UTF-8 link target.
type Blob struct {
	raw *Object
}

// NewBlob creates a Blob wrapping the given content. The content is
// hashed as-is, with no tag.
func NewBlob(content []byte) *Blob {
	return &Blob{raw: New(KindBlob, content, nil)}
}

// BlobFromObject parses a raw Object as a Blob.
func BlobFromObject(raw *Object) (*Blob, error) {
	if raw.Kind() != KindBlob {
		return nil, fmt.Errorf("kind %s is not a blob: %w", raw.Kind(), ErrObjectInvalid)
	}
	return &Blob{raw: raw}, nil
}

// ID returns the blob's id.
func (b *Blob) ID() oid.ID {
	return b.raw.ID()
}

// Bytes returns the blob's content.
func (b *Blob) Bytes() []byte {
	return b.raw.Payload()
}

// Size returns the size, in bytes, of the blob's content.
func (b *Blob) Size() int {
	return len(b.raw.Payload())
}

// ToObject returns the Blob's underlying Object.
func (b *Blob) ToObject() *Object {
	return b.raw
}
