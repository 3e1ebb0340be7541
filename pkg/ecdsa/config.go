package ecdsa

import (
	"bytes"
	"crypto/sha256"
	"crypto/sha512"
	"errors"
	"fmt"
	"hash"
	"io"
	"sort"

	"golang.org/x/crypto/sha3"
	"gopkg.in/yaml.v3"
)

// DefaultMaxNonceAttempts bounds how many RFC 6979 candidates Sign tries.
const DefaultMaxNonceAttempts = 4

// Config holds the tunables of a Scheme.
type Config struct {
	// Hash names the message digest. See HashNames.
	Hash string `yaml:"hash"`

	// HashFunc overrides Hash when set.
	HashFunc func() hash.Hash `yaml:"-"`

	// MaxNonceAttempts is the number of nonce candidates Sign tries before
	// failing with ErrNonceExhausted.
	MaxNonceAttempts int `yaml:"max_nonce_attempts"`

	// ConstantTimeVerify makes verification use the constant-time ladder for
	// u*G + v*Q. Both scalars are public, so the faster double-and-add is
	// used by default.
	ConstantTimeVerify bool `yaml:"constant_time_verify"`
}

var hashes = map[string]func() hash.Hash{
	"sha256":   sha256.New,
	"sha384":   sha512.New384,
	"sha512":   sha512.New,
	"sha3-256": sha3.New256,
	"sha3-384": sha3.New384,
	"sha3-512": sha3.New512,
}

// DefaultConfig returns ECDSA with SHA-256 and a four nonce retry budget.
func DefaultConfig() Config {
	return Config{
		Hash:             "sha256",
		MaxNonceAttempts: DefaultMaxNonceAttempts,
	}
}

// HashNames lists the accepted values of Config.Hash.
func HashNames() []string {
	names := make([]string, 0, len(hashes))
	for name := range hashes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks the configuration and returns an ErrInvalidConfig error
// describing the first problem found.
func (c Config) Validate() error {
	if c.HashFunc == nil {
		if _, ok := hashes[c.Hash]; !ok {
			return makeError(ErrInvalidConfig, fmt.Sprintf("unknown hash %q", c.Hash), nil)
		}
	}
	if c.MaxNonceAttempts < 1 {
		return makeError(ErrInvalidConfig,
			fmt.Sprintf("max_nonce_attempts must be at least 1, got %d", c.MaxNonceAttempts), nil)
	}
	return nil
}

func (c Config) hashFunc() func() hash.Hash {
	if c.HashFunc != nil {
		return c.HashFunc
	}
	return hashes[c.Hash]
}

// ParseConfig reads a YAML document over DefaultConfig. Unknown keys are
// rejected. An empty document yields the defaults.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, makeError(ErrInvalidConfig, "cannot parse config", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
