package chunk_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"xdao.co/dchunk/chunk"
	"xdao.co/dchunk/model"
)

func mustBlock(t *testing.T, typ chunk.ControlBlockType, tag uint8, content ...byte) chunk.ControlBlock {
	t.Helper()
	b, err := chunk.NewControlBlock(typ, tag, content)
	require.NoError(t, err)
	return b
}

func TestStructure_VersionZero(t *testing.T) {
	s := chunk.Structure{Payload: []byte("abc")}
	assert.Equal(t, chunk.VersionPlain, s.Version())
	assert.Equal(t, []byte("\x00abc"), s.Encode())

	// Version 0 never carries CEND, even when the payload starts with 0x00.
	got, err := chunk.DecodeStructure([]byte{0x00, 0x00, 0x01})
	require.NoError(t, err)
	assert.Empty(t, got.Blocks)
	assert.Equal(t, []byte{0x00, 0x01}, got.Payload)
}

func TestStructure_RoundTrip(t *testing.T) {
	cases := []chunk.Structure{
		{},
		{Payload: []byte("plain")},
		{Blocks: []chunk.ControlBlock{mustBlock(t, chunk.TypeSignature, 1, 9, 9)}, Payload: []byte("p")},
		{Blocks: []chunk.ControlBlock{
			mustBlock(t, chunk.TypePublicKey, 0, 2),
			mustBlock(t, chunk.TypeReferencedChunk, 0, 4),
			mustBlock(t, chunk.TypeReferencedChunk, 0, 5),
		}},
		{Sized: true},
		{Sized: true, Blocks: []chunk.ControlBlock{mustBlock(t, chunk.TypeContentKey, 3, 1, 2, 3)}, Payload: []byte{0}},
	}
	for i, s := range cases {
		t.Run(fmt.Sprint(i), func(t *testing.T) {
			enc := s.Encode()
			assert.Len(t, enc, s.BinarySize())
			got, err := chunk.DecodeStructure(enc)
			require.NoError(t, err)
			assert.True(t, got.Equal(s), "got %+v want %+v", got, s)
		})
	}
}

func TestStructure_DecodeErrors(t *testing.T) {
	cases := []struct {
		name string
		data []byte
		kind model.Kind
	}{
		{"empty", nil, model.KindTruncated},
		{"unterminated", []byte{0x01, 0x02, 0x00, 0x01, 0x07}, model.KindTruncated},
		{"no blocks no cend", []byte{0x01}, model.KindTruncated},
		{"version", []byte{0x03, 0x00}, model.KindFormat},
		{"block type", []byte{0x01, 0x09, 0x00, 0x00, 0x00}, model.KindUnknownBlockType},
		{"block content", []byte{0x02, 0x04, 0x00, 0x09, 0x00}, model.KindTruncated},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := chunk.DecodeStructure(tc.data)
			assert.True(t, model.IsKind(err, tc.kind), "got %v want %s", err, tc.kind)
		})
	}
}

func TestStructure_SignablePartExcludesSignature(t *testing.T) {
	pk := mustBlock(t, chunk.TypePublicKey, 0, 2)
	s := chunk.Structure{Payload: []byte{0xee}, Blocks: []chunk.ControlBlock{pk}}
	signed := chunk.Structure{Payload: s.Payload, Blocks: []chunk.ControlBlock{mustBlock(t, chunk.TypeSignature, 1, 1, 1, 1), pk}}

	assert.Equal(t, s.SignablePart(), signed.SignablePart(), "signature block changed the signable part")
	assert.Equal(t, []byte{0x02, 0x00, 0x01, 0x02, 0x00, 0xee}, signed.SignablePart())
}

func TestStructure_FindAll(t *testing.T) {
	s := chunk.Structure{Blocks: []chunk.ControlBlock{
		mustBlock(t, chunk.TypeReferencedChunk, 0, 4),
		mustBlock(t, chunk.TypePublicKey, 0, 2),
		mustBlock(t, chunk.TypeReferencedChunk, 0, 5),
	}}
	refs := s.All(chunk.TypeReferencedChunk)
	require.Len(t, refs, 2)
	assert.Equal(t, []byte{4}, refs[0].Content())
	assert.Equal(t, []byte{5}, refs[1].Content())

	_, ok := s.Find(chunk.TypeSignature)
	assert.False(t, ok)
	b, ok := s.Find(chunk.TypePublicKey)
	require.True(t, ok)
	assert.Equal(t, []byte{2}, b.Content())
}
