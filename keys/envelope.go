package keys

import (
	"encoding/binary"

	"xdao.co/dchunk/model"
)

// envelopeLengthBytes is the size of the big-endian wrapped-key length prefix.
const envelopeLengthBytes = 4

// SealEnvelope protects clearText of any size for recipient:
//
//	keyLen(4B BE) | recipient.Encrypt(taggedSymmetricKey) | cryptor.Encrypt(clearText)
//
// A fresh symmetric key from f is used for every envelope. The recipient's
// Signer.Decrypt reverses it.
func SealEnvelope(f *Factory, recipient SignatureChecker, clearText []byte) ([]byte, error) {
	c, err := f.NewCryptor()
	if err != nil {
		return nil, err
	}
	body, err := c.Encrypt(clearText)
	if err != nil {
		return nil, err
	}
	wrapped, err := recipient.Encrypt(c.EncryptionKey())
	if err != nil {
		return nil, err
	}
	out := make([]byte, envelopeLengthBytes, envelopeLengthBytes+len(wrapped)+len(body))
	binary.BigEndian.PutUint32(out, uint32(len(wrapped)))
	out = append(out, wrapped...)
	return append(out, body...), nil
}

// openEnvelope reads the length prefix, unwraps the symmetric key with
// unwrap, rebuilds the cryptor through f and decrypts the remainder.
func openEnvelope(f *Factory, unwrap func([]byte) ([]byte, error), envelope []byte) ([]byte, error) {
	if len(envelope) < envelopeLengthBytes {
		return nil, model.NewError(model.KindTruncated, "DCHUNK-ENV-001", "envelope shorter than length prefix")
	}
	n := binary.BigEndian.Uint32(envelope)
	rest := envelope[envelopeLengthBytes:]
	if uint64(n) > uint64(len(rest)) {
		return nil, model.NewError(model.KindTruncated, "DCHUNK-ENV-002", "envelope shorter than wrapped key")
	}
	rawKey, err := unwrap(rest[:n])
	if err != nil {
		return nil, err
	}
	c, err := f.CryptorFromKey(rawKey)
	if err != nil {
		return nil, model.WrapError(model.KindDecrypt, "DCHUNK-ENV-003", "wrapped key is not a symmetric key", err)
	}
	return c.Decrypt(rest[n:])
}

// EnvelopeEncryptor is an Encryptor that seals every input to one recipient.
type EnvelopeEncryptor struct {
	factory   *Factory
	recipient SignatureChecker
}

func NewEnvelopeEncryptor(f *Factory, recipient SignatureChecker) *EnvelopeEncryptor {
	return &EnvelopeEncryptor{factory: f, recipient: recipient}
}

func (e *EnvelopeEncryptor) Encrypt(clearText []byte) ([]byte, error) {
	return SealEnvelope(e.factory, e.recipient, clearText)
}
