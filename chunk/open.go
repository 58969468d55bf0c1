package chunk

import (
	"bytes"

	"go.uber.org/zap"

	"xdao.co/dchunk/addr"
	"xdao.co/dchunk/keys"
	"xdao.co/dchunk/model"
)

// Opened is a verified (and possibly decrypted) chunk.
type Opened struct {
	Structure Structure
	// Signed reports whether a Signature block was present and verified.
	Signed bool
	Mode   SignMode
	// Checker is the key that verified the signature.
	Checker keys.SignatureChecker
	// Payload is the decrypted payload, or Structure.Payload when no
	// decryptor was supplied.
	Payload []byte
}

// References returns the content of every ReferencedChunk block.
func (o *Opened) References() [][]byte {
	var out [][]byte
	for _, b := range o.Structure.All(TypeReferencedChunk) {
		out = append(out, b.Content())
	}
	return out
}

// Opener verifies chunk signatures, resolving the verification key by the
// signature block's sign mode, and decrypts payloads.
type Opener struct {
	factory *keys.Factory
	logger  *zap.Logger
}

// NewOpener returns an Opener. factory rebuilds embedded public keys; logger
// may be nil.
func NewOpener(factory *keys.Factory, logger *zap.Logger) *Opener {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Opener{factory: factory, logger: logger}
}

// Open verifies c and decrypts its payload with dc's decryptor.
func (o *Opener) Open(c DataChunk, dc DeChunkerCrypto) (*Opened, error) {
	s, err := c.Structure()
	if err != nil {
		return nil, err
	}
	opened, err := o.verify(s, c.Key.ID, dc)
	if err != nil {
		return nil, err
	}
	if dc.decryptor == nil {
		return opened, nil
	}
	clear, err := dc.decryptor.Decrypt(s.Payload)
	if err != nil {
		return nil, err
	}
	opened.Payload = clear
	return opened, nil
}

// Verify checks c's signature without decrypting.
func (o *Opener) Verify(c DataChunk, dc DeChunkerCrypto) (*Opened, error) {
	s, err := c.Structure()
	if err != nil {
		return nil, err
	}
	return o.verify(s, c.Key.ID, dc)
}

// verify checks s's signature. contextID is the Id the chunk was addressed
// by; ListIdKey chunks must match the list Id of dc's checker. An unsigned
// chunk is accepted only when dc carries no checker.
func (o *Opener) verify(s Structure, contextID addr.Id, dc DeChunkerCrypto) (*Opened, error) {
	opened := &Opened{Structure: s, Payload: s.Payload}
	sigBlock, ok := s.Find(TypeSignature)
	if !ok {
		// A supplied checker means the caller expects a signature.
		if dc.checker != nil {
			return nil, model.NewError(model.KindSignature, "DCHUNK-OPEN-007", "chunk is unsigned but a trusted key was supplied")
		}
		o.logger.Debug("chunk is unsigned", zap.Stringer("id", contextID))
		return opened, nil
	}
	mode, err := SignModeFromTag(sigBlock.Tag())
	if err != nil {
		return nil, err
	}
	checker, err := o.resolveChecker(mode, s, contextID, dc)
	if err != nil {
		return nil, err
	}
	if !checker.IsSignatureValid(s.SignablePart(), sigBlock.Content()) {
		o.logger.Debug("chunk signature rejected", zap.Stringer("id", contextID), zap.Stringer("mode", mode))
		return nil, model.NewError(model.KindSignature, "DCHUNK-OPEN-001", "chunk signature does not verify")
	}
	o.logger.Debug("chunk signature verified", zap.Stringer("id", contextID), zap.Stringer("mode", mode))
	opened.Signed = true
	opened.Mode = mode
	opened.Checker = checker
	return opened, nil
}

func (o *Opener) resolveChecker(mode SignMode, s Structure, contextID addr.Id, dc DeChunkerCrypto) (keys.SignatureChecker, error) {
	switch mode {
	case NoKey:
		if dc.checker == nil {
			return nil, model.NewError(model.KindSignature, "DCHUNK-OPEN-002", "signed chunk needs an out-of-band key")
		}
		return dc.checker, nil
	case EmbeddedKey:
		pk, ok := s.Find(TypePublicKey)
		if !ok {
			return nil, model.NewError(model.KindFormat, "DCHUNK-OPEN-003", "embedded-key chunk has no PublicKey block")
		}
		embedded, err := o.factory.CheckerFromKey(pk.Content())
		if err != nil {
			return nil, err
		}
		// A supplied checker is the trust anchor for the embedded key.
		if dc.checker != nil && !bytes.Equal(dc.checker.SignatureCheckKey(), embedded.SignatureCheckKey()) {
			return nil, model.NewError(model.KindSignature, "DCHUNK-OPEN-004", "embedded key is not the trusted key")
		}
		return embedded, nil
	case ListIdKey:
		if dc.checker == nil {
			return nil, model.NewError(model.KindSignature, "DCHUNK-OPEN-005", "list-signed chunk needs the list key")
		}
		if ListID(dc.checker) != contextID {
			return nil, model.NewError(model.KindSignature, "DCHUNK-OPEN-006", "list key does not derive the chunk's list id")
		}
		return dc.checker, nil
	default:
		return nil, model.NewError(model.KindFormat, "DCHUNK-SIG-001", "unknown sign mode "+mode.String())
	}
}
