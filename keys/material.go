package keys

import (
	"fmt"

	"xdao.co/dchunk/model"
)

// Tag is the algorithm-identifying byte prefixed to every exported key.
type Tag byte

// Assigned tags. Symmetric keys use 0x01-0x0f, asymmetric public keys
// 0x10-0x1f and the matching private keys 0x20-0x2f.
const (
	TagAES256            Tag = 0x01
	TagXChaCha20Poly1305 Tag = 0x02

	TagRSAPublic        Tag = 0x10
	TagDilithium3Public Tag = 0x11

	TagRSAPrivate        Tag = 0x20
	TagDilithium3Private Tag = 0x21
)

type tagClass uint8

const (
	classUnknown tagClass = iota
	classSymmetric
	classPublic
	classPrivate
)

func (t Tag) class() tagClass {
	switch t {
	case TagAES256, TagXChaCha20Poly1305:
		return classSymmetric
	case TagRSAPublic, TagDilithium3Public:
		return classPublic
	case TagRSAPrivate, TagDilithium3Private:
		return classPrivate
	default:
		return classUnknown
	}
}

// Algorithm names the algorithm a tag selects.
func (t Tag) Algorithm() string {
	switch t {
	case TagAES256:
		return AlgAES256
	case TagXChaCha20Poly1305:
		return AlgXChaCha20Poly1305
	case TagRSAPublic, TagRSAPrivate:
		return AlgRSA
	case TagDilithium3Public, TagDilithium3Private:
		return AlgDilithium3
	default:
		return fmt.Sprintf("unknown(0x%02x)", byte(t))
	}
}

func (t Tag) String() string { return t.Algorithm() }

// Material is exported key material. The concrete type (SymmetricKey,
// PublicKey, PrivateKey) fixes which providers can import it.
type Material interface {
	Tag() Tag
	// Raw is the key bytes without the tag.
	Raw() []byte
	// Encode is the tagged export form.
	Encode() []byte

	isMaterial()
}

// SymmetricKey is exported secret-key material for a Cryptor.
type SymmetricKey struct {
	tag Tag
	key []byte
}

// PublicKey is exported material for a SignatureChecker.
type PublicKey struct {
	tag Tag
	key []byte
}

// PrivateKey is exported material for a Signer.
type PrivateKey struct {
	tag Tag
	key []byte
}

func (k SymmetricKey) Tag() Tag       { return k.tag }
func (k SymmetricKey) Raw() []byte    { return k.key }
func (k SymmetricKey) Encode() []byte { return encodeTagged(k.tag, k.key) }
func (SymmetricKey) isMaterial()      {}

func (k PublicKey) Tag() Tag       { return k.tag }
func (k PublicKey) Raw() []byte    { return k.key }
func (k PublicKey) Encode() []byte { return encodeTagged(k.tag, k.key) }
func (PublicKey) isMaterial()      {}

func (k PrivateKey) Tag() Tag       { return k.tag }
func (k PrivateKey) Raw() []byte    { return k.key }
func (k PrivateKey) Encode() []byte { return encodeTagged(k.tag, k.key) }
func (PrivateKey) isMaterial()      {}

func encodeTagged(tag Tag, key []byte) []byte {
	out := make([]byte, 1+len(key))
	out[0] = byte(tag)
	copy(out[1:], key)
	return out
}

// ParseMaterial splits tagged key bytes and returns the variant the tag selects.
func ParseMaterial(b []byte) (Material, error) {
	if len(b) < 2 {
		return nil, model.NewError(model.KindTruncated, "DCHUNK-MAT-001", "key material shorter than tag plus key")
	}
	tag := Tag(b[0])
	key := append([]byte(nil), b[1:]...)
	switch tag.class() {
	case classSymmetric:
		return SymmetricKey{tag: tag, key: key}, nil
	case classPublic:
		return PublicKey{tag: tag, key: key}, nil
	case classPrivate:
		return PrivateKey{tag: tag, key: key}, nil
	default:
		return nil, model.NewError(model.KindKeyTag, "DCHUNK-MAT-002", fmt.Sprintf("unknown key tag 0x%02x", b[0]))
	}
}

func parseSymmetric(b []byte) (SymmetricKey, error) {
	m, err := ParseMaterial(b)
	if err != nil {
		return SymmetricKey{}, err
	}
	k, ok := m.(SymmetricKey)
	if !ok {
		return SymmetricKey{}, tagMismatch("symmetric", m.Tag())
	}
	return k, nil
}

func parsePublic(b []byte) (PublicKey, error) {
	m, err := ParseMaterial(b)
	if err != nil {
		return PublicKey{}, err
	}
	k, ok := m.(PublicKey)
	if !ok {
		return PublicKey{}, tagMismatch("public", m.Tag())
	}
	return k, nil
}

func parsePrivate(b []byte) (PrivateKey, error) {
	m, err := ParseMaterial(b)
	if err != nil {
		return PrivateKey{}, err
	}
	k, ok := m.(PrivateKey)
	if !ok {
		return PrivateKey{}, tagMismatch("private", m.Tag())
	}
	return k, nil
}

func tagMismatch(want string, got Tag) error {
	return model.NewError(model.KindKeyTag, "DCHUNK-MAT-003",
		fmt.Sprintf("expected %s key, got %s key material", want, got))
}
