package storage

import "github.com/ipfs/go-cid"

// CAS holds encoded chunks under their content address. A chunk chain
// references its links by the CIDs Put returns, so a store that rewrites or
// loses bytes breaks every chain above them.
//
// Implementations guarantee:
//   - the CID of a chunk is CIDv1 raw sha2-256 over its encoded bytes;
//   - putting the same chunk twice returns the same CID and stores it once;
//   - a stored chunk never changes, and Get verifies it before returning;
//   - Get returns ErrNotFound for a chunk that was never put.
type CAS interface {
	Put(chunk []byte) (cid.Cid, error)
	Get(id cid.Cid) ([]byte, error)
	Has(id cid.Cid) bool
}
