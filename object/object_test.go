package object_test

import (
	"testing"

	"github.com/nivl-fork/vcs-go/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalRoundTrip(t *testing.T) {
	t.Parallel()

	o := object.New(object.KindBlob, []byte("content"), nil)
	kind, payload, err := object.Unmarshal(o.Marshal())
	require.NoError(t, err)
	assert.Equal(t, object.KindBlob, kind)
	assert.Equal(t, []byte("content"), payload)
}

func TestPayloadAppendsUntaggedTail(t *testing.T) {
	t.Parallel()

	o := object.New(object.KindCommit, []byte("head"), []byte("tail"))
	assert.Equal(t, []byte("headtail"), o.Payload())
	assert.Equal(t, []byte("head"), o.HashInput(), "the id input must exclude the tail")
}

func TestIDIsMemoizedAndIgnoresTail(t *testing.T) {
	t.Parallel()

	withoutTail := object.New(object.KindCommit, []byte("head"), nil)
	withTail := object.New(object.KindCommit, []byte("head"), []byte("tail"))
	assert.Equal(t, withoutTail.ID(), withTail.ID())
}

func TestUnmarshalRejectsShortPayload(t *testing.T) {
	t.Parallel()

	_, _, err := object.Unmarshal([]byte("ab"))
	assert.ErrorIs(t, err, object.ErrCorrupt)
}

func TestUnmarshalRejectsUnknownKind(t *testing.T) {
	t.Parallel()

	_, _, err := object.Unmarshal([]byte("NOPE rest of payload"))
	assert.ErrorIs(t, err, object.ErrUnknownKind)
}

func TestKindIsValid(t *testing.T) {
	t.Parallel()

	assert.True(t, object.KindBlob.IsValid())
	assert.True(t, object.KindTree.IsValid())
	assert.True(t, object.KindCommit.IsValid())
	assert.False(t, object.Kind("NOPE").IsValid())
}
