package chunk

import (
	"fmt"

	"xdao.co/dchunk/addr"
	"xdao.co/dchunk/keys"
	"xdao.co/dchunk/model"
)

// SignMode tells a verifier where to find the key for a chunk's signature.
// It travels in the Signature block's tag.
type SignMode uint8

const (
	// NoKey: unsigned, or the key is supplied out of band.
	NoKey SignMode = 0
	// EmbeddedKey: the chunk carries its own PublicKey block.
	EmbeddedKey SignMode = 1
	// ListIdKey: the chunk's Id is the list Id derived from the signing key.
	ListIdKey SignMode = 2
)

func (m SignMode) Valid() bool {
	switch m {
	case NoKey, EmbeddedKey, ListIdKey:
		return true
	default:
		return false
	}
}

func (m SignMode) String() string {
	switch m {
	case NoKey:
		return "NoKey"
	case EmbeddedKey:
		return "EmbeddedKey"
	case ListIdKey:
		return "ListIdKey"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(m))
	}
}

// SignModeFromTag maps a Signature block tag to its SignMode.
func SignModeFromTag(tag uint8) (SignMode, error) {
	m := SignMode(tag)
	if !m.Valid() {
		return 0, model.NewError(model.KindFormat, "DCHUNK-SIG-001", fmt.Sprintf("unknown sign mode %d", tag))
	}
	return m, nil
}

// ListID is the Id of the list owned by checker's key.
func ListID(checker keys.SignatureChecker) addr.Id {
	return addr.IdFromBytes(checker.SignatureCheckKey())
}
