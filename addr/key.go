package addr

import (
	"fmt"

	"xdao.co/dchunk/model"
)

// Key addresses one version of a chunk: an Id plus a timestamp and an
// optional epoch. A zero timestamp marks an untimed key, which never
// carries an epoch.
type Key struct {
	ID Id

	timestamp int64
	epoch     int64
	hasEpoch  bool
}

// Untimed returns the untimed key for id.
func Untimed(id Id) Key {
	return Key{ID: id}
}

// NewKey returns a key without an epoch.
func NewKey(id Id, timestamp int64) (Key, error) {
	if timestamp < 0 {
		return Key{}, model.NewError(model.KindContract, "DCHUNK-KEY-001", "key timestamp must not be negative")
	}
	return Key{ID: id, timestamp: timestamp}, nil
}

// NewEpochKey returns a timed key carrying an epoch.
func NewEpochKey(id Id, timestamp, epoch int64) (Key, error) {
	if timestamp < 0 {
		return Key{}, model.NewError(model.KindContract, "DCHUNK-KEY-001", "key timestamp must not be negative")
	}
	if timestamp == 0 {
		return Key{}, model.NewError(model.KindContract, "DCHUNK-KEY-002", "untimed key cannot carry an epoch")
	}
	return Key{ID: id, timestamp: timestamp, epoch: epoch, hasEpoch: true}, nil
}

// IsUntimed reports whether k belongs to the untimed equivalence class.
func (k Key) IsUntimed() bool { return k.timestamp == 0 }

// Timestamp returns the key's timestamp; zero for untimed keys.
func (k Key) Timestamp() int64 { return k.timestamp }

// Epoch returns the epoch and whether one is present.
func (k Key) Epoch() (int64, bool) { return k.epoch, k.hasEpoch }

func (k Key) String() string {
	switch {
	case k.IsUntimed():
		return k.ID.String()
	case k.hasEpoch:
		return fmt.Sprintf("%s@%d#%d", k.ID, k.timestamp, k.epoch)
	default:
		return fmt.Sprintf("%s@%d", k.ID, k.timestamp)
	}
}
