package keys

import (
	"github.com/cloudflare/circl/sign/dilithium/mode3"

	"xdao.co/dchunk/model"
)

// Dilithium3 identities sign and verify only; they have no encryption
// primitive, so Encrypt and Decrypt fail with KindUnsupported.

type dilithiumChecker struct {
	pub     *mode3.PublicKey
	encoded PublicKey
	hashAlg string
}

type dilithiumSigner struct {
	priv    *mode3.PrivateKey
	encoded PrivateKey
	hashAlg string
}

type dilithiumIdentity struct {
	*dilithiumSigner
	*dilithiumChecker
}

func newDilithiumIdentity(f *Factory) (*dilithiumIdentity, error) {
	pub, priv, err := mode3.GenerateKey(f.rand)
	if err != nil {
		return nil, model.WrapError(model.KindConfig, "DCHUNK-DIL-001", "dilithium3 key generation failed", err)
	}
	signer, err := newDilithiumSigner(f, priv)
	if err != nil {
		return nil, err
	}
	checker, err := newDilithiumChecker(f, pub)
	if err != nil {
		return nil, err
	}
	return &dilithiumIdentity{dilithiumSigner: signer, dilithiumChecker: checker}, nil
}

func newDilithiumSigner(f *Factory, priv *mode3.PrivateKey) (*dilithiumSigner, error) {
	raw, err := priv.MarshalBinary()
	if err != nil {
		return nil, model.WrapError(model.KindFormat, "DCHUNK-DIL-002", "dilithium3 private key export failed", err)
	}
	return &dilithiumSigner{
		priv:    priv,
		encoded: PrivateKey{tag: TagDilithium3Private, key: raw},
		hashAlg: f.HashAlgorithm(),
	}, nil
}

func newDilithiumChecker(f *Factory, pub *mode3.PublicKey) (*dilithiumChecker, error) {
	raw, err := pub.MarshalBinary()
	if err != nil {
		return nil, model.WrapError(model.KindFormat, "DCHUNK-DIL-003", "dilithium3 public key export failed", err)
	}
	return &dilithiumChecker{
		pub:     pub,
		encoded: PublicKey{tag: TagDilithium3Public, key: raw},
		hashAlg: f.HashAlgorithm(),
	}, nil
}

func parseDilithiumPrivate(f *Factory, k PrivateKey) (*dilithiumSigner, error) {
	var priv mode3.PrivateKey
	if err := priv.UnmarshalBinary(k.key); err != nil {
		return nil, model.WrapError(model.KindFormat, "DCHUNK-DIL-002", "invalid dilithium3 private key", err)
	}
	return newDilithiumSigner(f, &priv)
}

func parseDilithiumPublic(f *Factory, k PublicKey) (*dilithiumChecker, error) {
	var pub mode3.PublicKey
	if err := pub.UnmarshalBinary(k.key); err != nil {
		return nil, model.WrapError(model.KindFormat, "DCHUNK-DIL-003", "invalid dilithium3 public key", err)
	}
	return newDilithiumChecker(f, &pub)
}

func dilithiumIdentityFromKey(f *Factory, k PrivateKey) (*dilithiumIdentity, error) {
	s, err := parseDilithiumPrivate(f, k)
	if err != nil {
		return nil, err
	}
	pub, ok := s.priv.Public().(*mode3.PublicKey)
	if !ok {
		return nil, model.NewError(model.KindFormat, "DCHUNK-DIL-003", "dilithium3 private key has no public half")
	}
	c, err := newDilithiumChecker(f, pub)
	if err != nil {
		return nil, err
	}
	return &dilithiumIdentity{dilithiumSigner: s, dilithiumChecker: c}, nil
}

func (s *dilithiumSigner) Algorithm() string     { return AlgDilithium3 }
func (s *dilithiumSigner) HashAlgorithm() string { return s.hashAlg }
func (s *dilithiumSigner) SignKey() []byte       { return s.encoded.Encode() }
func (s *dilithiumSigner) DecryptionKey() []byte { return s.encoded.Encode() }
func (s *dilithiumSigner) SignatureBytes() int   { return mode3.SignatureSize }

func (s *dilithiumSigner) Sign(message []byte) ([]byte, error) {
	digest, err := naturalDigest(s.hashAlg, message)
	if err != nil {
		return nil, err
	}
	sig := make([]byte, mode3.SignatureSize)
	mode3.SignTo(s.priv, digest, sig)
	return sig, nil
}

func (s *dilithiumSigner) Decrypt([]byte) ([]byte, error) {
	return nil, model.NewError(model.KindUnsupported, "DCHUNK-DIL-004", "dilithium3 cannot decrypt")
}

func (c *dilithiumChecker) Algorithm() string         { return AlgDilithium3 }
func (c *dilithiumChecker) HashAlgorithm() string     { return c.hashAlg }
func (c *dilithiumChecker) SignatureCheckKey() []byte { return c.encoded.Encode() }
func (c *dilithiumChecker) EncryptionKey() []byte     { return c.encoded.Encode() }
func (c *dilithiumChecker) MaxClearTextBytes() int    { return 0 }
func (c *dilithiumChecker) FixedCipherTextBytes() int { return 0 }

func (c *dilithiumChecker) IsSignatureValid(message, signature []byte) bool {
	if len(signature) != mode3.SignatureSize {
		return false
	}
	digest, err := naturalDigest(c.hashAlg, message)
	if err != nil {
		return false
	}
	return mode3.Verify(c.pub, digest, signature)
}

func (c *dilithiumChecker) Encrypt([]byte) ([]byte, error) {
	return nil, model.NewError(model.KindUnsupported, "DCHUNK-DIL-004", "dilithium3 cannot encrypt")
}

func (id *dilithiumIdentity) Algorithm() string     { return AlgDilithium3 }
func (id *dilithiumIdentity) HashAlgorithm() string { return id.dilithiumSigner.hashAlg }
