package chunk

import (
	"fmt"

	"github.com/ipfs/go-cid"
	"go.uber.org/zap"

	"xdao.co/dchunk/addr"
	"xdao.co/dchunk/cidutil"
	"xdao.co/dchunk/model"
	"xdao.co/dchunk/storage"
)

// Chainer splits payloads that exceed one version 2 chunk into a chain.
//
// The chunk returned by Split holds the tail of the payload and references
// the chunk holding the bytes before it, and so on down to the head. Every
// chunk in the chain carries the same key and is signed on its own; the
// payload is encrypted once, before splitting.
type Chainer struct {
	store     storage.CAS
	chunkSize int
	crypto    ChunkerCrypto
	refBytes  int
	logger    *zap.Logger
}

// NewChainer returns a Chainer writing to store. logger may be nil.
func NewChainer(store storage.CAS, chunkSize int, cc ChunkerCrypto, logger *zap.Logger) (*Chainer, error) {
	if store == nil {
		return nil, model.NewError(model.KindConfig, "DCHUNK-CHN-001", "chain store is required")
	}
	if _, err := NewBuilderV2(chunkSize); err != nil {
		return nil, err
	}
	probe, err := cidutil.CIDv1RawSHA256CID(nil)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Chainer{
		store:     store,
		chunkSize: chunkSize,
		crypto:    cc,
		refBytes:  len(probe.Bytes()),
		logger:    logger,
	}, nil
}

// Split encrypts payload, cuts it tail-first into chunks of at most the
// configured size, stores every chunk and returns the top one.
func (c *Chainer) Split(key addr.Key, payload []byte) (DataChunk, error) {
	if err := checkKey(key); err != nil {
		return DataChunk{}, err
	}
	body, err := encryptPayload(c.crypto, payload)
	if err != nil {
		return DataChunk{}, err
	}

	// Plan top-down so each chunk's budget accounts for its reference,
	// then build bottom-up so each reference is a known CID.
	var parts [][]byte
	rest := body
	for {
		last, err := c.newBuilder(key, false)
		if err != nil {
			return DataChunk{}, err
		}
		if len(rest) <= last.AvailablePayloadBytes() {
			parts = append(parts, rest)
			break
		}
		linked, err := c.newBuilder(key, true)
		if err != nil {
			return DataChunk{}, err
		}
		if linked.AvailablePayloadBytes() <= 0 {
			return DataChunk{}, model.NewError(model.KindConfig, "DCHUNK-CHN-002",
				fmt.Sprintf("chunk size %d leaves no payload room in a linked chunk", c.chunkSize))
		}
		rest = linked.SetPayloadPart(rest)
		parts = append(parts, linked.Payload())
	}

	var ref []byte
	var top DataChunk
	for i := len(parts) - 1; i >= 0; i-- {
		b, err := c.newBuilder(key, false)
		if err != nil {
			return DataChunk{}, err
		}
		if ref != nil {
			b.AddReference(ref)
		}
		if head := b.SetPayloadPart(parts[i]); len(head) != 0 {
			return DataChunk{}, model.NewError(model.KindContract, "DCHUNK-CHN-003", "planned part does not fit its chunk")
		}
		if err := sign(&b.blockFields, c.crypto, true); err != nil {
			return DataChunk{}, err
		}
		top, err = b.CreateChunk(key)
		if err != nil {
			return DataChunk{}, err
		}
		id, err := c.store.Put(top.Data)
		if err != nil {
			return DataChunk{}, err
		}
		ref = id.Bytes()
		c.logger.Debug("stored chain chunk",
			zap.Stringer("cid", id),
			zap.Int("depth", i),
			zap.Int("bytes", len(top.Data)))
	}
	c.logger.Info("split payload", zap.Int("bytes", len(payload)), zap.Int("chunks", len(parts)))
	return top, nil
}

// newBuilder prepares a builder with the signature placeholder and, when
// linked, a placeholder reference of CID length.
func (c *Chainer) newBuilder(key addr.Key, linked bool) (*BuilderV2, error) {
	b, err := NewBuilderV2(c.chunkSize)
	if err != nil {
		return nil, err
	}
	if err := prepareSignature(&b.blockFields, key, c.crypto, true); err != nil {
		return nil, err
	}
	if linked {
		b.AddReference(make([]byte, c.refBytes))
	}
	return b, nil
}

// Join reassembles the payload of the chain rooted at top, verifying every
// chunk with opener and decrypting the whole with dc's decryptor.
func Join(store storage.CAS, opener *Opener, top DataChunk, dc DeChunkerCrypto) ([]byte, error) {
	s, err := top.Structure()
	if err != nil {
		return nil, err
	}
	body, err := join(store, opener, s, top.Key.ID, dc, map[cid.Cid]bool{})
	if err != nil {
		return nil, err
	}
	if dc.decryptor == nil {
		return body, nil
	}
	return dc.decryptor.Decrypt(body)
}

func join(store storage.CAS, opener *Opener, s Structure, contextID addr.Id, dc DeChunkerCrypto, seen map[cid.Cid]bool) ([]byte, error) {
	if _, err := opener.verify(s, contextID, dc); err != nil {
		return nil, err
	}
	var out []byte
	for _, b := range s.All(TypeReferencedChunk) {
		id, err := cid.Cast(b.Content())
		if err != nil {
			return nil, model.WrapError(model.KindFormat, "DCHUNK-CHN-004", "reference is not a CID", err)
		}
		if seen[id] {
			return nil, model.NewError(model.KindFormat, "DCHUNK-CHN-005", "chunk "+id.String()+" is referenced twice")
		}
		seen[id] = true
		data, err := store.Get(id)
		if err != nil {
			return nil, err
		}
		child, err := DecodeStructure(data)
		if err != nil {
			return nil, err
		}
		part, err := join(store, opener, child, contextID, dc, seen)
		if err != nil {
			return nil, err
		}
		out = append(out, part...)
	}
	return append(out, s.Payload...), nil
}
