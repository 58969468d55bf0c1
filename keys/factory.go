package keys

import (
	"crypto/rand"
	"crypto/rsa"
	"fmt"
	"io"
	"sync"

	"xdao.co/dchunk/model"
)

// Factory manufactures default crypto providers and rebuilds providers from
// exported, tagged key bytes. A Factory is safe for concurrent use.
type Factory struct {
	hashName   string
	symmetric  Tag
	asymmetric Tag
	rsaBits    int
	rand       io.Reader

	hashOnce sync.Once
	hashAlg  string
}

// Option configures a Factory.
type Option func(*Factory)

// WithHashAlgorithm selects the hash used by signers and NewHasher.
func WithHashAlgorithm(name string) Option {
	return func(f *Factory) { f.hashName = name }
}

// WithSymmetric selects the algorithm of NewCryptor by its key tag.
func WithSymmetric(tag Tag) Option {
	return func(f *Factory) { f.symmetric = tag }
}

// WithAsymmetric selects the algorithm of NewIdentity by its public key tag.
func WithAsymmetric(tag Tag) Option {
	return func(f *Factory) { f.asymmetric = tag }
}

// WithRSABits sets the modulus size of new RSA identities.
func WithRSABits(bits int) Option {
	return func(f *Factory) { f.rsaBits = bits }
}

// WithRandom replaces crypto/rand as the source for keys, nonces and padding.
func WithRandom(r io.Reader) Option {
	return func(f *Factory) { f.rand = r }
}

// NewFactory returns a factory producing AES-256 cryptors, RSA-2048
// identities and sha512 hashers unless configured otherwise.
func NewFactory(opts ...Option) (*Factory, error) {
	f := &Factory{
		hashName:   DefaultHashAlgorithm,
		symmetric:  TagAES256,
		asymmetric: TagRSAPublic,
		rsaBits:    DefaultRSABits,
		rand:       rand.Reader,
	}
	for _, opt := range opts {
		opt(f)
	}
	if _, err := CanonicalHashName(f.hashName); err != nil {
		return nil, err
	}
	if f.symmetric.class() != classSymmetric {
		return nil, model.NewError(model.KindConfig, "DCHUNK-FAC-001", "symmetric algorithm tag expected, got "+f.symmetric.String())
	}
	if f.asymmetric.class() != classPublic {
		return nil, model.NewError(model.KindConfig, "DCHUNK-FAC-002", "public key algorithm tag expected, got "+f.asymmetric.String())
	}
	if f.rsaBits < 1024 {
		return nil, model.NewError(model.KindConfig, "DCHUNK-FAC-003", fmt.Sprintf("RSA modulus of %d bits is too small", f.rsaBits))
	}
	if f.rand == nil {
		return nil, model.NewError(model.KindConfig, "DCHUNK-FAC-004", "nil random source")
	}
	return f, nil
}

// HashAlgorithm returns the canonical name of the configured hash. The
// lookup is resolved once and cached.
func (f *Factory) HashAlgorithm() string {
	f.hashOnce.Do(func() {
		// Validated in NewFactory.
		f.hashAlg, _ = CanonicalHashName(f.hashName)
	})
	return f.hashAlg
}

// NewHasher returns a hasher for the configured algorithm at its natural length.
func (f *Factory) NewHasher() *Hasher {
	alg := f.HashAlgorithm()
	return &Hasher{algorithm: alg, bits: digestBits[alg]}
}

// NewCryptor returns a symmetric cryptor with a fresh random key.
func (f *Factory) NewCryptor() (Cryptor, error) {
	key := make([]byte, 32)
	if _, err := io.ReadFull(f.rand, key); err != nil {
		return nil, fmt.Errorf("generating symmetric key: %w", err)
	}
	return f.cryptorFor(SymmetricKey{tag: f.symmetric, key: key})
}

// NewIdentity returns a keypair with fresh key material.
func (f *Factory) NewIdentity() (Identity, error) {
	switch f.asymmetric {
	case TagRSAPublic:
		priv, err := rsa.GenerateKey(f.rand, f.rsaBits)
		if err != nil {
			return nil, model.WrapError(model.KindConfig, "DCHUNK-RSA-006", "RSA key generation failed", err)
		}
		return newRSAIdentity(f, priv), nil
	case TagDilithium3Public:
		return newDilithiumIdentity(f)
	default:
		return nil, model.NewError(model.KindConfig, "DCHUNK-FAC-002", "no identity for "+f.asymmetric.String())
	}
}

// CryptorFromKey rebuilds a cryptor from bytes exported by EncryptionKey.
func (f *Factory) CryptorFromKey(raw []byte) (Cryptor, error) {
	k, err := parseSymmetric(raw)
	if err != nil {
		return nil, err
	}
	return f.cryptorFor(k)
}

func (f *Factory) cryptorFor(k SymmetricKey) (Cryptor, error) {
	switch k.tag {
	case TagAES256:
		return newAESCryptor(k)
	case TagXChaCha20Poly1305:
		return newXChaChaCryptor(k, f.rand)
	default:
		return nil, tagMismatch("symmetric", k.tag)
	}
}

// SignerFromKey rebuilds a signer from bytes exported by SignKey.
func (f *Factory) SignerFromKey(raw []byte) (Signer, error) {
	return f.IdentityFromKey(raw)
}

// IdentityFromKey rebuilds the full keypair from exported private key bytes.
func (f *Factory) IdentityFromKey(raw []byte) (Identity, error) {
	k, err := parsePrivate(raw)
	if err != nil {
		return nil, err
	}
	switch k.tag {
	case TagRSAPrivate:
		s, err := parseRSAPrivate(f, k)
		if err != nil {
			return nil, err
		}
		return &rsaIdentity{rsaSigner: s, rsaChecker: newRSAChecker(f, &s.priv.PublicKey)}, nil
	case TagDilithium3Private:
		return dilithiumIdentityFromKey(f, k)
	default:
		return nil, tagMismatch("private", k.tag)
	}
}

// CheckerFromKey rebuilds a signature checker from bytes exported by
// SignatureCheckKey.
func (f *Factory) CheckerFromKey(raw []byte) (SignatureChecker, error) {
	k, err := parsePublic(raw)
	if err != nil {
		return nil, err
	}
	switch k.tag {
	case TagRSAPublic:
		return parseRSAPublic(f, k)
	case TagDilithium3Public:
		return parseDilithiumPublic(f, k)
	default:
		return nil, tagMismatch("public", k.tag)
	}
}
