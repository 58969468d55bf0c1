package chunk

import (
	"bytes"
	"fmt"

	"xdao.co/dchunk/model"
)

// Body versions.
const (
	// VersionPlain bodies are the payload alone.
	VersionPlain byte = 0
	// VersionBlocks bodies carry control blocks, CEND, then the payload.
	VersionBlocks byte = 1
	// VersionSized bodies have the version 1 layout and were built against a
	// chunk capacity by BuilderV2. They always carry CEND.
	VersionSized byte = 2
)

// Structure is a decoded chunk body: ordered control blocks and the payload.
type Structure struct {
	Blocks  []ControlBlock
	Payload []byte
	// Sized marks a version 2 body.
	Sized bool
}

// Version is 2 for sized bodies, 0 when there are no blocks, else 1.
func (s Structure) Version() byte {
	switch {
	case s.Sized:
		return VersionSized
	case len(s.Blocks) == 0:
		return VersionPlain
	default:
		return VersionBlocks
	}
}

// BinarySize is the length of Encode's output.
func (s Structure) BinarySize() int {
	n := 1 + len(s.Payload)
	if s.Version() == VersionPlain {
		return n
	}
	for _, b := range s.Blocks {
		n += b.BinarySize()
	}
	return n + 1
}

// Encode renders the body:
//
//	v0: 0x00 | payload
//	v1: 0x01 | block* | CEND | payload
//	v2: 0x02 | block* | CEND | payload
func (s Structure) Encode() []byte {
	out := make([]byte, 0, s.BinarySize())
	v := s.Version()
	out = append(out, v)
	if v != VersionPlain {
		for _, b := range s.Blocks {
			out = b.AppendTo(out)
		}
		out = append(out, CEND)
	}
	return append(out, s.Payload...)
}

// DecodeStructure parses a chunk body. Block parsing stops at the first CEND;
// everything after it is payload.
func DecodeStructure(data []byte) (Structure, error) {
	if len(data) == 0 {
		return Structure{}, model.NewError(model.KindTruncated, "DCHUNK-STR-001", "chunk body is empty")
	}
	switch v := data[0]; v {
	case VersionPlain:
		return Structure{Payload: copyBytes(data[1:])}, nil
	case VersionBlocks, VersionSized:
		var s Structure
		s.Sized = v == VersionSized
		pos := 1
		for {
			if pos >= len(data) {
				return Structure{}, model.NewError(model.KindTruncated, "DCHUNK-STR-002", "control blocks not terminated")
			}
			if data[pos] == CEND {
				s.Payload = copyBytes(data[pos+1:])
				return s, nil
			}
			b, n, err := DecodeControlBlock(data, pos)
			if err != nil {
				return Structure{}, err
			}
			s.Blocks = append(s.Blocks, b)
			pos += n
		}
	default:
		return Structure{}, model.NewError(model.KindFormat, "DCHUNK-STR-003", fmt.Sprintf("unsupported chunk version %d", v))
	}
}

// Equal compares blocks in order and the exact payload bytes.
func (s Structure) Equal(o Structure) bool {
	if s.Sized != o.Sized || len(s.Blocks) != len(o.Blocks) || !bytes.Equal(s.Payload, o.Payload) {
		return false
	}
	for i := range s.Blocks {
		if !s.Blocks[i].Equal(o.Blocks[i]) {
			return false
		}
	}
	return true
}

// Find returns the first block of type t.
func (s Structure) Find(t ControlBlockType) (ControlBlock, bool) {
	for _, b := range s.Blocks {
		if b.typ == t {
			return b, true
		}
	}
	return ControlBlock{}, false
}

// All returns every block of type t in order.
func (s Structure) All(t ControlBlockType) []ControlBlock {
	var out []ControlBlock
	for _, b := range s.Blocks {
		if b.typ == t {
			out = append(out, b)
		}
	}
	return out
}

// SignablePart is the body without its Signature blocks and without the
// leading version byte. Signers sign it; checkers verify it.
func (s Structure) SignablePart() []byte {
	unsigned := Structure{Payload: s.Payload, Sized: s.Sized}
	for _, b := range s.Blocks {
		if b.typ != TypeSignature {
			unsigned.Blocks = append(unsigned.Blocks, b)
		}
	}
	return unsigned.Encode()[1:]
}

func copyBytes(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	return append([]byte(nil), b...)
}
