package addr

import (
	"github.com/multiformats/go-multibase"

	"xdao.co/dchunk/model"
)

// Id is an opaque content address. Ids compare by value with ==.
type Id struct {
	s string
}

// NewId wraps an already-textual address.
func NewId(s string) Id {
	return Id{s: s}
}

// IdFromBytes derives an Id from raw bytes using multibase base58btc.
// The encoding is lossless: Bytes recovers the input.
func IdFromBytes(b []byte) Id {
	s, err := multibase.Encode(multibase.Base58BTC, b)
	if err != nil {
		// Base58BTC is always a registered encoding.
		panic("addr: base58btc encoding unavailable: " + err.Error())
	}
	return Id{s: s}
}

// Bytes decodes an Id built by IdFromBytes back to its raw bytes.
func (id Id) Bytes() ([]byte, error) {
	_, b, err := multibase.Decode(id.s)
	if err != nil {
		return nil, model.WrapError(model.KindFormat, "DCHUNK-ID-001", "id is not multibase encoded", err)
	}
	return b, nil
}

func (id Id) String() string { return id.s }

// IsZero reports whether id is the empty address.
func (id Id) IsZero() bool { return id.s == "" }

func (id Id) MarshalText() ([]byte, error) { return []byte(id.s), nil }

func (id *Id) UnmarshalText(b []byte) error {
	id.s = string(b)
	return nil
}
