package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"xdao.co/dchunk/keys"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate: %v", err)
	}
}

func TestLoadFile_PartialOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dchunk.yaml")
	body := "crypto:\n  symmetric: xchacha20-poly1305\n  hash: SHA3-256\nchunk:\n  size: 1024\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Chunk.Size != 1024 || cfg.Crypto.RSABits != keys.DefaultRSABits || cfg.Crypto.Asymmetric != keys.AlgRSA {
		t.Fatalf("unexpected config: %+v", cfg)
	}

	f, err := cfg.Factory()
	if err != nil {
		t.Fatalf("Factory: %v", err)
	}
	if f.HashAlgorithm() != keys.HashSHA3256 {
		t.Fatalf("HashAlgorithm: got %q", f.HashAlgorithm())
	}
	c, err := f.NewCryptor()
	if err != nil {
		t.Fatalf("NewCryptor: %v", err)
	}
	if c.Algorithm() != keys.AlgXChaCha20Poly1305 {
		t.Fatalf("cryptor algorithm: got %q", c.Algorithm())
	}
}

func TestParse_Rejects(t *testing.T) {
	cases := map[string]string{
		"unknown field": "crypto:\n  cipher: des\n",
		"hash":          "crypto:\n  hash: md5\n",
		"symmetric":     "crypto:\n  symmetric: RSA\n",
		"asymmetric":    "crypto:\n  asymmetric: AES256\n",
		"rsa bits":      "crypto:\n  rsa_bits: 512\n",
		"chunk size":    "chunk:\n  size: 2\n",
		"syntax":        "crypto: [\n",
	}
	for name, body := range cases {
		cfg := Default()
		if err := Parse([]byte(body), &cfg); err == nil {
			t.Fatalf("%s: expected error", name)
		} else if !strings.HasPrefix(err.Error(), "config:") {
			t.Fatalf("%s: error %q lacks package prefix", name, err)
		}
	}
}

func TestLoadFile_EmptyPath(t *testing.T) {
	if _, err := LoadFile(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}
