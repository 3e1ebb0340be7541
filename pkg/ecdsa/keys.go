package ecdsa

import (
	"io"
	"math/big"

	"github.com/smallyu/go-p256/internal/crypto/curves"
	"github.com/smallyu/go-p256/internal/crypto/field"
)

// PrivateKeySize is the length of an encoded private scalar.
const PrivateKeySize = field.ByteSize

// ParsePrivateKey decodes a 32-byte big-endian private scalar in [1, q-1].
func ParsePrivateKey(b []byte) (*big.Int, error) {
	k, err := field.FqFromBytes(b)
	if err != nil {
		return nil, makeError(ErrInvalidPrivateKey, "invalid private key encoding", err)
	}
	if k.IsZero() {
		return nil, makeError(ErrInvalidPrivateKey, "private key is zero", nil)
	}
	return k.BigInt(), nil
}

// GenerateKey draws a private scalar from rand and returns it with the
// uncompressed public key.
func GenerateKey(rand io.Reader) (*big.Int, []byte, error) {
	k, err := curves.RandomScalar(rand)
	if err != nil {
		return nil, nil, err
	}
	return k.BigInt(), curves.Generator().ScalarMult(k).Encode(false), nil
}

// PublicKeyFromPrivate returns the uncompressed SEC1 encoding of priv*G.
func PublicKeyFromPrivate(priv *big.Int) ([]byte, error) {
	if priv == nil || !inScalarRange(priv) {
		return nil, makeError(ErrInvalidPrivateKey, "private key is not in [1, q-1]", nil)
	}
	return curves.Generator().ScalarMult(field.NewFq(priv)).Encode(false), nil
}

// CompressPublicKey re-encodes a SEC1 public key in compressed form.
func CompressPublicKey(pub []byte) ([]byte, error) {
	q, err := parsePublicKey(pub)
	if err != nil {
		return nil, err
	}
	return q.Encode(true), nil
}

// DecompressPublicKey re-encodes a SEC1 public key in uncompressed form.
func DecompressPublicKey(pub []byte) ([]byte, error) {
	q, err := parsePublicKey(pub)
	if err != nil {
		return nil, err
	}
	return q.Encode(false), nil
}
