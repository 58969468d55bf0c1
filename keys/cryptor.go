package keys

import (
	"crypto/aes"
	"crypto/cipher"
	"math"

	"xdao.co/dchunk/model"
)

// Algorithm names.
const (
	AlgAES256            = "AES256"
	AlgXChaCha20Poly1305 = "XChaCha20-Poly1305"
	AlgRSA               = "RSA"
	AlgDilithium3        = "Dilithium3"
)

// Encryptor is the encrypting half of any cipher in this package.
type Encryptor interface {
	Encrypt(clearText []byte) ([]byte, error)
}

// Decryptor is the decrypting half of any cipher in this package.
type Decryptor interface {
	Decrypt(cipherText []byte) ([]byte, error)
}

// Cryptor is a symmetric cipher holding one key.
type Cryptor interface {
	Encryptor
	Decryptor

	Algorithm() string
	KeyBits() int

	// EncryptionKey and DecryptionKey return the tagged export form; they
	// are equal for symmetric ciphers.
	EncryptionKey() []byte
	DecryptionKey() []byte

	// MaxClearTextBytes is the largest accepted input.
	MaxClearTextBytes() int
	BlockBytes() int
	// FixedCipherTextBytes is 0 when output length depends on input length.
	FixedCipherTextBytes() int
	OutputBytes(inputSize int) int
}

const aes256KeyBytes = 32

// aesCryptor is AES-256 in ECB mode with PKCS#7 padding. Encryption is
// deterministic under a fixed key.
type aesCryptor struct {
	key   SymmetricKey
	block cipher.Block
}

func newAESCryptor(k SymmetricKey) (*aesCryptor, error) {
	if k.tag != TagAES256 {
		return nil, tagMismatch(AlgAES256, k.tag)
	}
	if len(k.key) != aes256KeyBytes {
		return nil, model.NewError(model.KindConfig, "DCHUNK-SYM-001", "AES256 key must be 32 bytes")
	}
	block, err := aes.NewCipher(k.key)
	if err != nil {
		return nil, model.WrapError(model.KindConfig, "DCHUNK-SYM-001", "invalid AES key", err)
	}
	return &aesCryptor{key: k, block: block}, nil
}

func (c *aesCryptor) Algorithm() string         { return AlgAES256 }
func (c *aesCryptor) KeyBits() int              { return aes256KeyBytes * 8 }
func (c *aesCryptor) EncryptionKey() []byte     { return c.key.Encode() }
func (c *aesCryptor) DecryptionKey() []byte     { return c.key.Encode() }
func (c *aesCryptor) MaxClearTextBytes() int    { return math.MaxInt32 }
func (c *aesCryptor) BlockBytes() int           { return aes.BlockSize }
func (c *aesCryptor) FixedCipherTextBytes() int { return 0 }

// OutputBytes always accounts for a full padding block, even for exact
// multiples of the block size.
func (c *aesCryptor) OutputBytes(n int) int {
	return (n/aes.BlockSize + 1) * aes.BlockSize
}

func (c *aesCryptor) Encrypt(clearText []byte) ([]byte, error) {
	if len(clearText) > c.MaxClearTextBytes() {
		return nil, model.NewError(model.KindFormat, "DCHUNK-SYM-003", "clear text too large")
	}
	out := pkcs7Pad(clearText, aes.BlockSize)
	for i := 0; i < len(out); i += aes.BlockSize {
		c.block.Encrypt(out[i:i+aes.BlockSize], out[i:i+aes.BlockSize])
	}
	return out, nil
}

func (c *aesCryptor) Decrypt(cipherText []byte) ([]byte, error) {
	if len(cipherText) == 0 || len(cipherText)%aes.BlockSize != 0 {
		return nil, model.NewError(model.KindDecrypt, "DCHUNK-SYM-002", "cipher text is not a whole number of blocks")
	}
	out := make([]byte, len(cipherText))
	for i := 0; i < len(out); i += aes.BlockSize {
		c.block.Decrypt(out[i:i+aes.BlockSize], cipherText[i:i+aes.BlockSize])
	}
	return pkcs7Unpad(out, aes.BlockSize)
}

func pkcs7Pad(b []byte, blockSize int) []byte {
	n := blockSize - len(b)%blockSize
	out := make([]byte, len(b)+n)
	copy(out, b)
	for i := len(b); i < len(out); i++ {
		out[i] = byte(n)
	}
	return out
}

func pkcs7Unpad(b []byte, blockSize int) ([]byte, error) {
	n := int(b[len(b)-1])
	if n == 0 || n > blockSize || n > len(b) {
		return nil, model.NewError(model.KindDecrypt, "DCHUNK-SYM-002", "invalid padding")
	}
	for _, p := range b[len(b)-n:] {
		if int(p) != n {
			return nil, model.NewError(model.KindDecrypt, "DCHUNK-SYM-002", "invalid padding")
		}
	}
	return b[:len(b)-n], nil
}
