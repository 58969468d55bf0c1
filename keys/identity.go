package keys

import "strings"

// SignatureChecker verifies signatures and encrypts to the holder of the
// matching private key.
type SignatureChecker interface {
	Encryptor

	Algorithm() string
	HashAlgorithm() string

	// SignatureCheckKey and EncryptionKey return the tagged public key.
	SignatureCheckKey() []byte
	EncryptionKey() []byte

	IsSignatureValid(message, signature []byte) bool

	// MaxClearTextBytes bounds direct Encrypt input; 0 means the algorithm
	// cannot encrypt.
	MaxClearTextBytes() int
	FixedCipherTextBytes() int
}

// Signer signs messages and opens hybrid envelopes addressed to its key.
type Signer interface {
	Decryptor

	Algorithm() string
	HashAlgorithm() string

	// SignKey and DecryptionKey return the tagged private key.
	SignKey() []byte
	DecryptionKey() []byte

	Sign(message []byte) ([]byte, error)
	// SignatureBytes is the length of every signature this signer emits.
	SignatureBytes() int
}

// Identity is a keypair acting as both Signer and SignatureChecker.
type Identity interface {
	Signer
	SignatureChecker
}

// SignatureScheme composes the hash-then-sign scheme name, e.g.
// SignatureScheme("sha512", "RSA") == "SHA512withRSA".
func SignatureScheme(hashAlg, alg string) string {
	return strings.ToUpper(hashAlg) + "with" + alg
}
