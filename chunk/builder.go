package chunk

import (
	"xdao.co/dchunk/addr"
)

// blockFields is the mutable state shared by both builders. A nil slice
// means the field is absent.
type blockFields struct {
	signMode   SignMode
	signature  []byte
	publicKey  []byte
	contentKey []byte
	references [][]byte
	payload    []byte
}

func (f *blockFields) SetSignMode(m SignMode)      { f.signMode = m }
func (f *blockFields) SetSignature(sig []byte)     { f.signature = sig }
func (f *blockFields) SetPublicKey(key []byte)     { f.publicKey = key }
func (f *blockFields) SetContentKey(key []byte)    { f.contentKey = key }
func (f *blockFields) AddReference(ref []byte)     { f.references = append(f.references, ref) }
func (f *blockFields) SetReferences(refs [][]byte) { f.references = append([][]byte(nil), refs...) }

func (f *blockFields) SignMode() SignMode   { return f.signMode }
func (f *blockFields) Signature() []byte    { return f.signature }
func (f *blockFields) PublicKey() []byte    { return f.publicKey }
func (f *blockFields) ContentKey() []byte   { return f.contentKey }
func (f *blockFields) References() [][]byte { return f.references }
func (f *blockFields) Payload() []byte      { return f.payload }

// blocks assembles [Signature?][PublicKey?][ContentKey?][ReferencedChunk...].
func (f *blockFields) blocks(withSignature bool) ([]ControlBlock, error) {
	var out []ControlBlock
	add := func(t ControlBlockType, tag uint8, content []byte) error {
		b, err := NewControlBlock(t, tag, content)
		if err != nil {
			return err
		}
		out = append(out, b)
		return nil
	}
	if withSignature && f.signature != nil {
		if err := add(TypeSignature, uint8(f.signMode), f.signature); err != nil {
			return nil, err
		}
	}
	if f.publicKey != nil {
		if err := add(TypePublicKey, 0, f.publicKey); err != nil {
			return nil, err
		}
	}
	if f.contentKey != nil {
		if err := add(TypeContentKey, 0, f.contentKey); err != nil {
			return nil, err
		}
	}
	for _, ref := range f.references {
		if err := add(TypeReferencedChunk, 0, ref); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// headerBytes is the encoded size of every non-payload block.
func (f *blockFields) headerBytes() int {
	n := 0
	for _, b := range [][]byte{f.signature, f.publicKey, f.contentKey} {
		if b != nil {
			n += len(b) + BlockHeaderBytes
		}
	}
	for _, ref := range f.references {
		n += len(ref) + BlockHeaderBytes
	}
	return n
}

func (f *blockFields) structure(sized bool) (Structure, error) {
	blocks, err := f.blocks(true)
	if err != nil {
		return Structure{}, err
	}
	return Structure{Blocks: blocks, Payload: f.payload, Sized: sized}, nil
}

func (f *blockFields) signablePart(sized bool) ([]byte, error) {
	blocks, err := f.blocks(false)
	if err != nil {
		return nil, err
	}
	return Structure{Blocks: blocks, Payload: f.payload, Sized: sized}.Encode()[1:], nil
}

// BuilderV1 assembles a chunk with no size limit. A builder is owned by one
// goroutine until it is finalized.
type BuilderV1 struct {
	blockFields
}

func NewBuilderV1() *BuilderV1 {
	return &BuilderV1{}
}

func (b *BuilderV1) SetPayload(payload []byte) { b.payload = payload }

// Blocks returns the control blocks in their fixed order.
func (b *BuilderV1) Blocks() ([]ControlBlock, error) { return b.blocks(true) }

func (b *BuilderV1) Structure() (Structure, error) { return b.structure(false) }

// SignablePart is the encoding of every block except the signature, plus
// the payload, without the version byte.
func (b *BuilderV1) SignablePart() ([]byte, error) { return b.signablePart(false) }

func (b *BuilderV1) Bytes() ([]byte, error) {
	s, err := b.Structure()
	if err != nil {
		return nil, err
	}
	return s.Encode(), nil
}

func (b *BuilderV1) CreateChunk(key addr.Key) (DataChunk, error) {
	data, err := b.Bytes()
	if err != nil {
		return DataChunk{}, err
	}
	return DataChunk{Key: key, Data: data}, nil
}
