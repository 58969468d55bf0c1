package keys

import (
	"crypto/cipher"
	"fmt"
	"io"
	"math"

	"golang.org/x/crypto/chacha20poly1305"

	"xdao.co/dchunk/model"
)

// xchachaCryptor is XChaCha20-Poly1305 with a random nonce prefixed to each
// ciphertext: nonce(24) | sealed(clear) | tag(16).
type xchachaCryptor struct {
	key  SymmetricKey
	aead cipher.AEAD
	rand io.Reader
}

func newXChaChaCryptor(k SymmetricKey, rand io.Reader) (*xchachaCryptor, error) {
	if k.tag != TagXChaCha20Poly1305 {
		return nil, tagMismatch(AlgXChaCha20Poly1305, k.tag)
	}
	aead, err := chacha20poly1305.NewX(k.key)
	if err != nil {
		return nil, model.WrapError(model.KindConfig, "DCHUNK-SYM-001", "invalid XChaCha20-Poly1305 key", err)
	}
	return &xchachaCryptor{key: k, aead: aead, rand: rand}, nil
}

func (c *xchachaCryptor) Algorithm() string         { return AlgXChaCha20Poly1305 }
func (c *xchachaCryptor) KeyBits() int              { return chacha20poly1305.KeySize * 8 }
func (c *xchachaCryptor) EncryptionKey() []byte     { return c.key.Encode() }
func (c *xchachaCryptor) DecryptionKey() []byte     { return c.key.Encode() }
func (c *xchachaCryptor) MaxClearTextBytes() int    { return math.MaxInt32 - c.OutputBytes(0) }
func (c *xchachaCryptor) BlockBytes() int           { return 1 }
func (c *xchachaCryptor) FixedCipherTextBytes() int { return 0 }

func (c *xchachaCryptor) OutputBytes(n int) int {
	return chacha20poly1305.NonceSizeX + n + chacha20poly1305.Overhead
}

func (c *xchachaCryptor) Encrypt(clearText []byte) ([]byte, error) {
	if len(clearText) > c.MaxClearTextBytes() {
		return nil, model.NewError(model.KindFormat, "DCHUNK-SYM-003", "clear text too large")
	}
	nonce := make([]byte, chacha20poly1305.NonceSizeX, c.OutputBytes(len(clearText)))
	if _, err := io.ReadFull(c.rand, nonce); err != nil {
		return nil, fmt.Errorf("generating nonce: %w", err)
	}
	return c.aead.Seal(nonce, nonce, clearText, nil), nil
}

func (c *xchachaCryptor) Decrypt(cipherText []byte) ([]byte, error) {
	if len(cipherText) < c.OutputBytes(0) {
		return nil, model.NewError(model.KindDecrypt, "DCHUNK-SYM-002", "cipher text shorter than nonce and tag")
	}
	nonce := cipherText[:chacha20poly1305.NonceSizeX]
	out, err := c.aead.Open(nil, nonce, cipherText[chacha20poly1305.NonceSizeX:], nil)
	if err != nil {
		return nil, model.WrapError(model.KindDecrypt, "DCHUNK-SYM-002", "authentication failed", err)
	}
	return out, nil
}
