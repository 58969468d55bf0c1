// Package chunk implements the versioned binary chunk format.
//
// A chunk body is a version byte followed, for versions 1 and 2, by a run of
// control blocks terminated by CEND, and then the payload:
//
//	v0: 0x00 | payload
//	v1: 0x01 | block* | 0x00 | payload
//	v2: 0x02 | block* | 0x00 | payload   (built against a size budget)
//
// Each control block is type(1B) | tag<<12|len (2B BE) | content. A
// Signature block's tag is the SignMode telling verifiers where the key is.
//
// BuilderV1 assembles chunks of any size; BuilderV2 fills a fixed capacity
// tail-first and hands back the head that did not fit. Seal and Opener bind
// a ChunkerCrypto/DeChunkerCrypto to the format, and Chainer links
// oversized payloads through ReferencedChunk blocks stored in a storage.CAS.
package chunk
