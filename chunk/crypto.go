package chunk

import (
	"xdao.co/dchunk/addr"
	"xdao.co/dchunk/keys"
)

// ChunkerCrypto bundles the capabilities used to build one chunk. Use one of
// the constructors; the zero value builds plain, unsigned chunks.
type ChunkerCrypto struct {
	mode      SignMode
	signer    keys.Signer
	checker   keys.SignatureChecker
	encryptor keys.Encryptor
}

// PlainCrypto builds unsigned chunks. encryptor may be nil.
func PlainCrypto(encryptor keys.Encryptor) ChunkerCrypto {
	return ChunkerCrypto{mode: NoKey, encryptor: encryptor}
}

// EmbeddedKeyCrypto signs with id and embeds its public key in every chunk.
func EmbeddedKeyCrypto(id keys.Identity, encryptor keys.Encryptor) ChunkerCrypto {
	return ChunkerCrypto{mode: EmbeddedKey, signer: id, checker: id, encryptor: encryptor}
}

// ExternalKeyCrypto signs with signer; verifiers obtain the key elsewhere.
func ExternalKeyCrypto(signer keys.Signer, encryptor keys.Encryptor) ChunkerCrypto {
	return ChunkerCrypto{mode: NoKey, signer: signer, encryptor: encryptor}
}

// ListKeyCrypto signs with the list's own identity. Chunks must be keyed by
// the list Id.
func ListKeyCrypto(list keys.Identity, encryptor keys.Encryptor) ChunkerCrypto {
	return ChunkerCrypto{mode: ListIdKey, signer: list, checker: list, encryptor: encryptor}
}

func (c ChunkerCrypto) Mode() SignMode                 { return c.mode }
func (c ChunkerCrypto) Signer() keys.Signer            { return c.signer }
func (c ChunkerCrypto) Checker() keys.SignatureChecker { return c.checker }
func (c ChunkerCrypto) Encryptor() keys.Encryptor      { return c.encryptor }

// ListID returns the list Id for list-signed bundles.
func (c ChunkerCrypto) ListID() (addr.Id, bool) {
	if c.mode != ListIdKey || c.checker == nil {
		return addr.Id{}, false
	}
	return ListID(c.checker), true
}

// DeChunkerCrypto bundles the capabilities used to verify and open a chunk.
// Either field may be nil.
type DeChunkerCrypto struct {
	checker   keys.SignatureChecker
	decryptor keys.Decryptor
}

func NewDeChunkerCrypto(checker keys.SignatureChecker, decryptor keys.Decryptor) DeChunkerCrypto {
	return DeChunkerCrypto{checker: checker, decryptor: decryptor}
}

func (c DeChunkerCrypto) Checker() keys.SignatureChecker { return c.checker }
func (c DeChunkerCrypto) Decryptor() keys.Decryptor      { return c.decryptor }
