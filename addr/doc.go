// Package addr defines chunk addressing: Id, an opaque content address, and
// Key, which pins an Id to a timestamp and optional epoch.
package addr
