package chunk

import (
	"fmt"

	"xdao.co/dchunk/addr"
	"xdao.co/dchunk/model"
)

// MinHeaderSizeV2 is the fixed overhead of a version 2 body: the version
// byte and CEND.
const MinHeaderSizeV2 = 2

// BuilderV2 assembles a chunk whose encoding must fit ChunkSize bytes.
type BuilderV2 struct {
	blockFields
	chunkSize int
}

func NewBuilderV2(chunkSize int) (*BuilderV2, error) {
	if chunkSize <= MinHeaderSizeV2 {
		return nil, model.NewError(model.KindConfig, "DCHUNK-BLD-001", fmt.Sprintf("chunk size %d leaves no room for payload", chunkSize))
	}
	return &BuilderV2{chunkSize: chunkSize}, nil
}

func (b *BuilderV2) ChunkSize() int { return b.chunkSize }

// AvailablePayloadBytes is the payload capacity left after every
// non-payload block and the fixed header. It is negative when the blocks
// alone exceed the chunk size.
func (b *BuilderV2) AvailablePayloadBytes() int {
	return b.chunkSize - b.headerBytes() - MinHeaderSizeV2
}

// AvailableBytes is the room left for more payload in this chunk.
func (b *BuilderV2) AvailableBytes() int {
	return b.AvailablePayloadBytes() - len(b.payload)
}

// SetPayloadPart keeps the tail of full that fits this chunk as its payload
// and returns the remaining head. Callers place the head in a preceding
// chunk and link it with a ReferencedChunk block.
func (b *BuilderV2) SetPayloadPart(full []byte) []byte {
	n := b.AvailablePayloadBytes()
	if n < 0 {
		n = 0
	}
	if n > len(full) {
		n = len(full)
	}
	split := len(full) - n
	b.payload = copyBytes(full[split:])
	return full[:split]
}

func (b *BuilderV2) Blocks() ([]ControlBlock, error) { return b.blocks(true) }

func (b *BuilderV2) Structure() (Structure, error) { return b.structure(true) }

func (b *BuilderV2) SignablePart() ([]byte, error) { return b.signablePart(true) }

func (b *BuilderV2) Bytes() ([]byte, error) {
	s, err := b.Structure()
	if err != nil {
		return nil, err
	}
	return s.Encode(), nil
}

func (b *BuilderV2) CreateChunk(key addr.Key) (DataChunk, error) {
	data, err := b.Bytes()
	if err != nil {
		return DataChunk{}, err
	}
	return DataChunk{Key: key, Data: data}, nil
}
