package keys

import (
	"xdao.co/dchunk/codec"
	"xdao.co/dchunk/model"
)

// Hasher computes fixed-length digests with one algorithm.
type Hasher struct {
	algorithm string
	bits      int
}

// NewHasher returns a hasher producing ceil(hashBits/8) bytes of algorithm.
// Fixed-size algorithms are truncated; blake3 extends to any length.
func NewHasher(algorithm string, hashBits int) (*Hasher, error) {
	if hashBits <= 0 {
		return nil, model.NewError(model.KindConfig, "DCHUNK-HASH-001", "hash bit length must be positive")
	}
	alg, err := CanonicalHashName(algorithm)
	if err != nil {
		return nil, err
	}
	if !isXOF(alg) && hashBits > digestBits[alg] {
		return nil, model.NewError(model.KindConfig, "DCHUNK-HASH-003", "hash length exceeds "+alg+" output")
	}
	return &Hasher{algorithm: alg, bits: hashBits}, nil
}

func (h *Hasher) Algorithm() string { return h.algorithm }

func (h *Hasher) HashBits() int { return h.bits }

// Size is the digest length in bytes.
func (h *Hasher) Size() int { return (h.bits + 7) / 8 }

// Hash returns the digest of data. A Hasher not built by NewHasher fails with
// KindConfig.
func (h *Hasher) Hash(data []byte) ([]byte, error) {
	if h == nil || h.bits <= 0 {
		return nil, model.NewError(model.KindConfig, "DCHUNK-HASH-001", "hash bit length must be positive")
	}
	return digestFor(h.algorithm, data, h.Size())
}

// HashValue hashes the canonical bytes of v: UTF-8 for strings, the bytes
// themselves for []byte, and deterministic CBOR for anything else.
func HashValue(h *Hasher, v any) ([]byte, error) {
	switch x := v.(type) {
	case string:
		return h.Hash([]byte(x))
	case []byte:
		return h.Hash(x)
	default:
		b, err := codec.Marshal(v)
		if err != nil {
			return nil, model.WrapError(model.KindFormat, "DCHUNK-HASH-005", "value has no canonical encoding", err)
		}
		return h.Hash(b)
	}
}
