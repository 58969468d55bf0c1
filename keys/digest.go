package keys

import (
	"crypto/sha256"
	"crypto/sha512"
	"strings"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/sha3"

	"xdao.co/dchunk/model"
)

// Hash algorithm names accepted by Hasher and Factory.
const (
	HashSHA256  = "sha256"
	HashSHA512  = "sha512"
	HashSHA3256 = "sha3-256"
	HashSHA3512 = "sha3-512"
	HashBLAKE3  = "blake3"
)

// DefaultHashAlgorithm is used for hash-then-sign unless a Factory is
// configured otherwise.
const DefaultHashAlgorithm = HashSHA512

// digestBits is the natural output size per algorithm. BLAKE3 is an XOF and
// has no upper bound; its entry is the default length.
var digestBits = map[string]int{
	HashSHA256:  256,
	HashSHA512:  512,
	HashSHA3256: 256,
	HashSHA3512: 512,
	HashBLAKE3:  256,
}

var hashAliases = map[string]string{
	"sha256":   HashSHA256,
	"sha-256":  HashSHA256,
	"sha2-256": HashSHA256,
	"sha512":   HashSHA512,
	"sha-512":  HashSHA512,
	"sha2-512": HashSHA512,
	"sha3-256": HashSHA3256,
	"sha3_256": HashSHA3256,
	"sha3-512": HashSHA3512,
	"sha3_512": HashSHA3512,
	"blake3":   HashBLAKE3,
}

// CanonicalHashName maps an algorithm spelling ("SHA-512", "sha2-512") to
// its canonical name.
func CanonicalHashName(name string) (string, error) {
	if alg, ok := hashAliases[strings.ToLower(strings.TrimSpace(name))]; ok {
		return alg, nil
	}
	return "", model.NewError(model.KindConfig, "DCHUNK-HASH-002", "unsupported hash algorithm: "+name)
}

func isXOF(alg string) bool { return alg == HashBLAKE3 }

// digestFor returns size bytes of alg(message). size must not exceed the
// algorithm's natural output unless alg is an XOF.
func digestFor(alg string, message []byte, size int) ([]byte, error) {
	var full []byte
	switch alg {
	case HashSHA256:
		s := sha256.Sum256(message)
		full = s[:]
	case HashSHA512:
		s := sha512.Sum512(message)
		full = s[:]
	case HashSHA3256:
		s := sha3.Sum256(message)
		full = s[:]
	case HashSHA3512:
		s := sha3.Sum512(message)
		full = s[:]
	case HashBLAKE3:
		h := blake3.New()
		_, _ = h.Write(message)
		out := make([]byte, size)
		if _, err := h.Digest().Read(out); err != nil {
			return nil, model.WrapError(model.KindConfig, "DCHUNK-HASH-004", "blake3 output failed", err)
		}
		return out, nil
	default:
		return nil, model.NewError(model.KindConfig, "DCHUNK-HASH-002", "unsupported hash algorithm: "+alg)
	}
	if size > len(full) {
		return nil, model.NewError(model.KindConfig, "DCHUNK-HASH-003", "hash length exceeds "+alg+" output")
	}
	return full[:size], nil
}

// naturalDigest hashes message at the algorithm's default length.
func naturalDigest(alg string, message []byte) ([]byte, error) {
	bits, ok := digestBits[alg]
	if !ok {
		return nil, model.NewError(model.KindConfig, "DCHUNK-HASH-002", "unsupported hash algorithm: "+alg)
	}
	return digestFor(alg, message, bits/8)
}
