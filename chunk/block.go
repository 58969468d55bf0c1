package chunk

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"xdao.co/dchunk/model"
)

// CEND terminates the control-block sequence of a version 1 or 2 body. The
// same byte marks version 0, and no ControlBlockType may take its value.
const CEND byte = 0x00

const (
	// MaxTag is the largest value of the 4-bit block tag.
	MaxTag = 0x0f
	// MaxContentBytes is the largest content a 12-bit length can describe.
	MaxContentBytes = 0x0fff
	// BlockHeaderBytes is type(1) + packed tag/length(2).
	BlockHeaderBytes = 3
)

// ControlBlockType identifies what a control block carries. The set is
// closed; Valid rejects every value outside it, including CEND.
type ControlBlockType byte

const (
	TypeSignature       ControlBlockType = 0x01
	TypePublicKey       ControlBlockType = 0x02
	TypeContentKey      ControlBlockType = 0x03
	TypeReferencedChunk ControlBlockType = 0x04
)

func (t ControlBlockType) Valid() bool {
	switch t {
	case TypeSignature, TypePublicKey, TypeContentKey, TypeReferencedChunk:
		return true
	default:
		return false
	}
}

func (t ControlBlockType) String() string {
	switch t {
	case TypeSignature:
		return "Signature"
	case TypePublicKey:
		return "PublicKey"
	case TypeContentKey:
		return "ContentKey"
	case TypeReferencedChunk:
		return "ReferencedChunk"
	default:
		return fmt.Sprintf("unknown(0x%02x)", byte(t))
	}
}

// ControlBlock is one self-delimiting TLV unit:
//
//	type(1B) | tag<<12 | len (2B, big-endian) | content(len B)
//
// ControlBlocks are immutable; Content must not be modified by callers.
type ControlBlock struct {
	typ     ControlBlockType
	tag     uint8
	content []byte
}

// NewControlBlock validates and copies its inputs.
func NewControlBlock(typ ControlBlockType, tag uint8, content []byte) (ControlBlock, error) {
	if !typ.Valid() {
		return ControlBlock{}, model.NewError(model.KindFormat, "DCHUNK-BLK-001", "control block type "+typ.String()+" is not assigned")
	}
	if tag > MaxTag {
		return ControlBlock{}, model.NewError(model.KindFormat, "DCHUNK-BLK-002", fmt.Sprintf("control block tag %d exceeds 4 bits", tag))
	}
	if len(content) > MaxContentBytes {
		return ControlBlock{}, model.NewError(model.KindFormat, "DCHUNK-BLK-003",
			fmt.Sprintf("control block content of %d bytes exceeds %d", len(content), MaxContentBytes))
	}
	return ControlBlock{typ: typ, tag: tag, content: append([]byte(nil), content...)}, nil
}

func (b ControlBlock) Type() ControlBlockType { return b.typ }
func (b ControlBlock) Tag() uint8             { return b.tag }
func (b ControlBlock) Content() []byte        { return b.content }

// BinarySize is the encoded length: content plus the 3-byte header.
func (b ControlBlock) BinarySize() int { return len(b.content) + BlockHeaderBytes }

// AppendTo appends the encoded block to dst.
func (b ControlBlock) AppendTo(dst []byte) []byte {
	dst = append(dst, byte(b.typ))
	dst = binary.BigEndian.AppendUint16(dst, uint16(b.tag)<<12|uint16(len(b.content)))
	return append(dst, b.content...)
}

func (b ControlBlock) Encode() []byte {
	return b.AppendTo(make([]byte, 0, b.BinarySize()))
}

func (b ControlBlock) Equal(o ControlBlock) bool {
	return b.typ == o.typ && b.tag == o.tag && bytes.Equal(b.content, o.content)
}

// DecodeControlBlock decodes the block starting at data[offset] and returns
// it with the number of bytes it occupies.
func DecodeControlBlock(data []byte, offset int) (ControlBlock, int, error) {
	if offset < 0 || len(data)-offset < BlockHeaderBytes {
		return ControlBlock{}, 0, model.NewError(model.KindTruncated, "DCHUNK-BLK-004", "control block header truncated")
	}
	typ := ControlBlockType(data[offset])
	if !typ.Valid() {
		return ControlBlock{}, 0, model.NewError(model.KindUnknownBlockType, "DCHUNK-BLK-005",
			fmt.Sprintf("unknown control block type 0x%02x at offset %d", data[offset], offset))
	}
	packed := binary.BigEndian.Uint16(data[offset+1:])
	tag := uint8(packed >> 12)
	n := int(packed & MaxContentBytes)
	start := offset + BlockHeaderBytes
	if len(data)-start < n {
		return ControlBlock{}, 0, model.NewError(model.KindTruncated, "DCHUNK-BLK-006",
			fmt.Sprintf("control block declares %d content bytes, %d available", n, len(data)-start))
	}
	b := ControlBlock{typ: typ, tag: tag, content: append([]byte(nil), data[start:start+n]...)}
	return b, b.BinarySize(), nil
}
