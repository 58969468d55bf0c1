package chunk

import (
	"encoding/hex"

	"github.com/ipfs/go-cid"

	"xdao.co/dchunk/cidutil"
)

// Description summarizes an encoded chunk for display.
type Description struct {
	CID          string      `yaml:"cid"`
	ContentID    string      `yaml:"content_id"`
	Version      byte        `yaml:"version"`
	Bytes        int         `yaml:"bytes"`
	SignMode     string      `yaml:"sign_mode,omitempty"`
	Blocks       []BlockInfo `yaml:"blocks,omitempty"`
	PayloadBytes int         `yaml:"payload_bytes"`
}

type BlockInfo struct {
	Type  string `yaml:"type"`
	Tag   uint8  `yaml:"tag"`
	Bytes int    `yaml:"bytes"`
	// Ref is the referenced CID for ReferencedChunk blocks that hold one.
	Ref string `yaml:"ref,omitempty"`
	// Hex is the content for blocks of at most 64 bytes.
	Hex string `yaml:"hex,omitempty"`
}

// Describe decodes data without verifying it.
func Describe(data []byte) (Description, error) {
	s, err := DecodeStructure(data)
	if err != nil {
		return Description{}, err
	}
	contentID, err := cidutil.ContentID(data)
	if err != nil {
		return Description{}, err
	}
	d := Description{
		CID:          cidutil.CIDv1RawSHA256(data),
		ContentID:    contentID.String(),
		Version:      s.Version(),
		Bytes:        len(data),
		PayloadBytes: len(s.Payload),
	}
	for _, b := range s.Blocks {
		info := BlockInfo{Type: b.Type().String(), Tag: b.Tag(), Bytes: len(b.Content())}
		switch b.Type() {
		case TypeSignature:
			if m, err := SignModeFromTag(b.Tag()); err == nil {
				d.SignMode = m.String()
			}
		case TypeReferencedChunk:
			if ref, err := cid.Cast(b.Content()); err == nil {
				info.Ref = ref.String()
			}
		}
		if info.Ref == "" && len(b.Content()) <= 64 {
			info.Hex = hex.EncodeToString(b.Content())
		}
		d.Blocks = append(d.Blocks, info)
	}
	return d, nil
}
