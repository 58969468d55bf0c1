package storage

import "errors"

var (
	// ErrNotFound: no chunk is stored under the CID.
	ErrNotFound = errors.New("storage: chunk not found")

	// ErrInvalidCID: the CID is undefined.
	ErrInvalidCID = errors.New("storage: undefined chunk cid")

	// ErrCIDMismatch: stored or supplied chunk bytes do not hash to their CID.
	ErrCIDMismatch = errors.New("storage: chunk bytes do not match cid")

	// ErrImmutable: different bytes were put under an existing CID.
	ErrImmutable = errors.New("storage: stored chunk differs from put bytes")

	ErrNoAdapters = errors.New("storage: MultiCAS has no adapters")
)

// IsNotFound reports whether err means a chunk is absent from the store.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
