package chunk

import (
	"xdao.co/dchunk/addr"
	"xdao.co/dchunk/model"
)

// Seal builds a version 1 chunk for key: the payload is encrypted with
// cc's encryptor (if any), the public key is embedded for EmbeddedKey, and
// the signable part is signed with cc's signer (if any).
func Seal(key addr.Key, payload []byte, refs [][]byte, cc ChunkerCrypto) (DataChunk, error) {
	if err := checkKey(key); err != nil {
		return DataChunk{}, err
	}
	b := NewBuilderV1()
	b.SetReferences(refs)
	body, err := encryptPayload(cc, payload)
	if err != nil {
		return DataChunk{}, err
	}
	b.SetPayload(body)
	if err := prepareSignature(&b.blockFields, key, cc, false); err != nil {
		return DataChunk{}, err
	}
	if err := sign(&b.blockFields, cc, false); err != nil {
		return DataChunk{}, err
	}
	return b.CreateChunk(key)
}

func checkKey(key addr.Key) error {
	if key.ID.IsZero() {
		return model.NewError(model.KindContract, "DCHUNK-SEAL-004", "chunk key has no id")
	}
	return nil
}

func encryptPayload(cc ChunkerCrypto, payload []byte) ([]byte, error) {
	if cc.encryptor == nil {
		return payload, nil
	}
	return cc.encryptor.Encrypt(payload)
}

// prepareSignature sets the sign mode, the embedded key and a zero-filled
// signature of the final length, so size budgets already account for it.
func prepareSignature(f *blockFields, key addr.Key, cc ChunkerCrypto, placeholder bool) error {
	if cc.signer == nil {
		return nil
	}
	if cc.mode == ListIdKey {
		listID, ok := cc.ListID()
		if !ok {
			return model.NewError(model.KindContract, "DCHUNK-SEAL-001", "list signing requires the list identity")
		}
		if key.ID != listID {
			return model.NewError(model.KindContract, "DCHUNK-SEAL-002", "list-signed chunk must be keyed by the list id")
		}
	}
	f.SetSignMode(cc.mode)
	if cc.mode == EmbeddedKey {
		if cc.checker == nil {
			return model.NewError(model.KindContract, "DCHUNK-SEAL-003", "embedded-key signing requires a signature checker")
		}
		f.SetPublicKey(cc.checker.SignatureCheckKey())
	}
	if placeholder {
		f.SetSignature(make([]byte, cc.signer.SignatureBytes()))
	}
	return nil
}

func sign(f *blockFields, cc ChunkerCrypto, sized bool) error {
	if cc.signer == nil {
		return nil
	}
	part, err := f.signablePart(sized)
	if err != nil {
		return err
	}
	sig, err := cc.signer.Sign(part)
	if err != nil {
		return err
	}
	f.SetSignature(sig)
	return nil
}
