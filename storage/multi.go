package storage

import (
	"github.com/ipfs/go-cid"
)

// MultiCAS reads through an ordered list of adapters, e.g. a chain's own
// store in front of a shared one.
//
// Lookup order is the slice order; Put writes only to the first adapter.
type MultiCAS struct {
	Adapters []CAS
}

var _ CAS = MultiCAS{}

func (m MultiCAS) Put(bytes []byte) (cid.Cid, error) {
	if len(m.Adapters) == 0 {
		return cid.Undef, ErrNoAdapters
	}
	return m.Adapters[0].Put(bytes)
}

// Get returns the first hit. Errors other than ErrNotFound stop the search.
func (m MultiCAS) Get(id cid.Cid) ([]byte, error) {
	for _, cas := range m.Adapters {
		b, err := cas.Get(id)
		if err == nil {
			return b, nil
		}
		if IsNotFound(err) {
			continue
		}
		return nil, err
	}
	return nil, ErrNotFound
}

func (m MultiCAS) Has(id cid.Cid) bool {
	for _, cas := range m.Adapters {
		if cas.Has(id) {
			return true
		}
	}
	return false
}
