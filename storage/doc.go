// Package storage holds chunk bytes by content address.
//
// Chunks that reference other chunks (see chunk.Chainer) carry the referenced
// chunk's CID bytes; a CAS resolves those references back to encoded chunks.
package storage
