package cidutil

import (
	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"

	"xdao.co/dchunk/addr"
)

// CIDv1RawSHA256 returns a CIDv1 string using the "raw" multicodec
// and a sha2-256 multihash.
func CIDv1RawSHA256(data []byte) string {
	id, err := CIDv1RawSHA256CID(data)
	if err != nil {
		// multihash.Sum only errors for invalid inputs; with SHA2_256 and -1 length,
		// this should be unreachable.
		return ""
	}
	return id.String()
}

// CIDv1RawSHA256CID returns a CIDv1 (raw + sha2-256) derived from data.
func CIDv1RawSHA256CID(data []byte) (cid.Cid, error) {
	sum, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		return cid.Undef, err
	}
	return cid.NewCidV1(cid.Raw, sum), nil
}

// ContentID returns the content address of encoded chunk bytes as an Id.
// The Id is the binary CID in base58btc, which cid.Decode also accepts.
func ContentID(data []byte) (addr.Id, error) {
	c, err := CIDv1RawSHA256CID(data)
	if err != nil {
		return addr.Id{}, err
	}
	return FromCID(c), nil
}

// FromCID wraps a CID's binary form in an Id.
func FromCID(c cid.Cid) addr.Id {
	return addr.IdFromBytes(c.Bytes())
}
