// Package keys provides the crypto capabilities embedded in chunks: hashers,
// symmetric cryptors, asymmetric signers and checkers, and the Factory that
// creates them or rebuilds them from exported key bytes.
//
// Exported key bytes always carry a one-byte algorithm Tag. Importers
// validate the tag before use, so a public key can never be loaded as a
// symmetric key (KindKeyTag).
//
// Defaults:
//   - Cryptor: AES-256, ECB with PKCS#7 padding (no IV, deterministic).
//   - Identity: RSA-2048, PKCS#1 v1.5, hash-then-sign with sha512 (SHA512withRSA).
//   - Hasher: sha512.
//
// Large payloads are protected for an RSA key holder with SealEnvelope; the
// holder's Signer.Decrypt opens the envelope.
package keys
