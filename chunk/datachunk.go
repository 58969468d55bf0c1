package chunk

import (
	"bytes"

	"github.com/ipfs/go-cid"

	"xdao.co/dchunk/addr"
	"xdao.co/dchunk/cidutil"
)

// DataChunk is one addressable unit as exchanged between peers.
type DataChunk struct {
	Key  addr.Key
	Data []byte
}

// Equal compares keys and the exact bytes.
func (c DataChunk) Equal(o DataChunk) bool {
	return c.Key == o.Key && bytes.Equal(c.Data, o.Data)
}

// Structure decodes the chunk body.
func (c DataChunk) Structure() (Structure, error) {
	return DecodeStructure(c.Data)
}

// CID is the content address of the encoded bytes.
func (c DataChunk) CID() (cid.Cid, error) {
	return cidutil.CIDv1RawSHA256CID(c.Data)
}
