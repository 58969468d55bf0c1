package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"xdao.co/dchunk/chunk"
	"xdao.co/dchunk/keys"
)

// DefaultChunkSize is the chunk capacity used when none is configured.
const DefaultChunkSize = 4096

// Config selects the crypto defaults and chunk capacity used by the CLI.
//
// Example:
//
//	crypto:
//	  hash: sha512
//	  symmetric: AES256
//	  asymmetric: RSA
//	  rsa_bits: 2048
//	chunk:
//	  size: 4096
type Config struct {
	Crypto CryptoConfig `yaml:"crypto"`
	Chunk  ChunkConfig  `yaml:"chunk"`
}

type CryptoConfig struct {
	Hash string `yaml:"hash,omitempty"`
	// Symmetric is AES256 or XChaCha20-Poly1305.
	Symmetric string `yaml:"symmetric,omitempty"`
	// Asymmetric is RSA or Dilithium3.
	Asymmetric string `yaml:"asymmetric,omitempty"`
	RSABits    int    `yaml:"rsa_bits,omitempty"`
}

type ChunkConfig struct {
	Size int `yaml:"size,omitempty"`
}

// Default mirrors keys.NewFactory's defaults.
func Default() Config {
	return Config{
		Crypto: CryptoConfig{
			Hash:       keys.DefaultHashAlgorithm,
			Symmetric:  keys.AlgAES256,
			Asymmetric: keys.AlgRSA,
			RSABits:    keys.DefaultRSABits,
		},
		Chunk: ChunkConfig{Size: DefaultChunkSize},
	}
}

// LoadFile reads a YAML config. Fields left out keep their Default values;
// unknown fields are rejected.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, errors.New("config: empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	return cfg, Parse(b, &cfg)
}

// Parse decodes YAML into cfg and validates the result.
func Parse(b []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return cfg.Validate()
}

func (c Config) Validate() error {
	if _, err := keys.CanonicalHashName(c.Crypto.Hash); err != nil {
		return fmt.Errorf("config: crypto.hash: %w", err)
	}
	if _, err := symmetricTag(c.Crypto.Symmetric); err != nil {
		return err
	}
	if _, err := asymmetricTag(c.Crypto.Asymmetric); err != nil {
		return err
	}
	if c.Crypto.RSABits < 1024 {
		return fmt.Errorf("config: crypto.rsa_bits %d is below 1024", c.Crypto.RSABits)
	}
	if c.Chunk.Size <= chunk.MinHeaderSizeV2 {
		return fmt.Errorf("config: chunk.size %d leaves no room for payload", c.Chunk.Size)
	}
	return nil
}

// Factory builds the keys.Factory the config describes.
func (c Config) Factory(opts ...keys.Option) (*keys.Factory, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	sym, _ := symmetricTag(c.Crypto.Symmetric)
	asym, _ := asymmetricTag(c.Crypto.Asymmetric)
	base := []keys.Option{
		keys.WithHashAlgorithm(c.Crypto.Hash),
		keys.WithSymmetric(sym),
		keys.WithAsymmetric(asym),
		keys.WithRSABits(c.Crypto.RSABits),
	}
	return keys.NewFactory(append(base, opts...)...)
}

func symmetricTag(name string) (keys.Tag, error) {
	return lookupTag("crypto.symmetric", name, keys.TagAES256, keys.TagXChaCha20Poly1305)
}

func asymmetricTag(name string) (keys.Tag, error) {
	return lookupTag("crypto.asymmetric", name, keys.TagRSAPublic, keys.TagDilithium3Public)
}

func lookupTag(field, name string, candidates ...keys.Tag) (keys.Tag, error) {
	for _, t := range candidates {
		if strings.EqualFold(name, t.Algorithm()) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("config: invalid %s %q", field, name)
}
