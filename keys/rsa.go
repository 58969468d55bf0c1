package keys

import (
	"crypto"
	"crypto/rsa"
	"crypto/x509"
	"io"

	"xdao.co/dchunk/model"
)

// DefaultRSABits is the default modulus size for new identities.
const DefaultRSABits = 2048

// pkcs1v15Overhead is the padding cost of PKCS#1 v1.5 encryption.
const pkcs1v15Overhead = 11

// cryptoHash returns the crypto.Hash that PKCS#1 v1.5 can embed in its
// DigestInfo. Other algorithms sign the bare digest (crypto.Hash(0)).
func cryptoHash(alg string) crypto.Hash {
	switch alg {
	case HashSHA256:
		return crypto.SHA256
	case HashSHA512:
		return crypto.SHA512
	default:
		return 0
	}
}

type rsaChecker struct {
	pub     *rsa.PublicKey
	encoded PublicKey
	hashAlg string
	rand    io.Reader
}

type rsaSigner struct {
	priv    *rsa.PrivateKey
	encoded PrivateKey
	hashAlg string
	factory *Factory
}

type rsaIdentity struct {
	*rsaSigner
	*rsaChecker
}

func newRSAIdentity(f *Factory, priv *rsa.PrivateKey) *rsaIdentity {
	return &rsaIdentity{
		rsaSigner:  newRSASigner(f, priv),
		rsaChecker: newRSAChecker(f, &priv.PublicKey),
	}
}

func newRSASigner(f *Factory, priv *rsa.PrivateKey) *rsaSigner {
	return &rsaSigner{
		priv:    priv,
		encoded: PrivateKey{tag: TagRSAPrivate, key: x509.MarshalPKCS1PrivateKey(priv)},
		hashAlg: f.HashAlgorithm(),
		factory: f,
	}
}

func newRSAChecker(f *Factory, pub *rsa.PublicKey) *rsaChecker {
	return &rsaChecker{
		pub:     pub,
		encoded: PublicKey{tag: TagRSAPublic, key: x509.MarshalPKCS1PublicKey(pub)},
		hashAlg: f.HashAlgorithm(),
		rand:    f.rand,
	}
}

func parseRSAPrivate(f *Factory, k PrivateKey) (*rsaSigner, error) {
	priv, err := x509.ParsePKCS1PrivateKey(k.key)
	if err != nil {
		return nil, model.WrapError(model.KindFormat, "DCHUNK-RSA-001", "invalid RSA private key", err)
	}
	return newRSASigner(f, priv), nil
}

func parseRSAPublic(f *Factory, k PublicKey) (*rsaChecker, error) {
	pub, err := x509.ParsePKCS1PublicKey(k.key)
	if err != nil {
		return nil, model.WrapError(model.KindFormat, "DCHUNK-RSA-002", "invalid RSA public key", err)
	}
	return newRSAChecker(f, pub), nil
}

func (s *rsaSigner) Algorithm() string     { return AlgRSA }
func (s *rsaSigner) HashAlgorithm() string { return s.hashAlg }
func (s *rsaSigner) SignKey() []byte       { return s.encoded.Encode() }
func (s *rsaSigner) DecryptionKey() []byte { return s.encoded.Encode() }
func (s *rsaSigner) SignatureBytes() int   { return s.priv.Size() }

func (s *rsaSigner) Sign(message []byte) ([]byte, error) {
	digest, err := naturalDigest(s.hashAlg, message)
	if err != nil {
		return nil, err
	}
	sig, err := rsa.SignPKCS1v15(s.factory.rand, s.priv, cryptoHash(s.hashAlg), digest)
	if err != nil {
		return nil, model.WrapError(model.KindConfig, "DCHUNK-RSA-003", "RSA signing failed", err)
	}
	return sig, nil
}

// Decrypt opens a hybrid envelope addressed to this key.
func (s *rsaSigner) Decrypt(envelope []byte) ([]byte, error) {
	return openEnvelope(s.factory, s.unwrap, envelope)
}

func (s *rsaSigner) unwrap(block []byte) ([]byte, error) {
	out, err := rsa.DecryptPKCS1v15(nil, s.priv, block)
	if err != nil {
		return nil, model.WrapError(model.KindDecrypt, "DCHUNK-RSA-004", "RSA decryption failed", err)
	}
	return out, nil
}

func (c *rsaChecker) Algorithm() string         { return AlgRSA }
func (c *rsaChecker) HashAlgorithm() string     { return c.hashAlg }
func (c *rsaChecker) SignatureCheckKey() []byte { return c.encoded.Encode() }
func (c *rsaChecker) EncryptionKey() []byte     { return c.encoded.Encode() }
func (c *rsaChecker) MaxClearTextBytes() int    { return c.pub.Size() - pkcs1v15Overhead }
func (c *rsaChecker) FixedCipherTextBytes() int { return c.pub.Size() }

func (c *rsaChecker) IsSignatureValid(message, signature []byte) bool {
	digest, err := naturalDigest(c.hashAlg, message)
	if err != nil {
		return false
	}
	return rsa.VerifyPKCS1v15(c.pub, cryptoHash(c.hashAlg), digest, signature) == nil
}

// Encrypt is direct PKCS#1 v1.5 encryption, bounded by MaxClearTextBytes.
// Use SealEnvelope for larger payloads.
func (c *rsaChecker) Encrypt(clearText []byte) ([]byte, error) {
	if len(clearText) > c.MaxClearTextBytes() {
		return nil, model.NewError(model.KindFormat, "DCHUNK-RSA-005", "clear text exceeds RSA block capacity")
	}
	out, err := rsa.EncryptPKCS1v15(c.rand, c.pub, clearText)
	if err != nil {
		return nil, model.WrapError(model.KindFormat, "DCHUNK-RSA-005", "RSA encryption failed", err)
	}
	return out, nil
}

func (id *rsaIdentity) Algorithm() string     { return AlgRSA }
func (id *rsaIdentity) HashAlgorithm() string { return id.rsaSigner.hashAlg }

// SignatureScheme is the composed scheme name, e.g. SHA512withRSA.
func (id *rsaIdentity) SignatureScheme() string {
	return SignatureScheme(id.HashAlgorithm(), AlgRSA)
}
