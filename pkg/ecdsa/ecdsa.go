// Package ecdsa implements ECDSA over NIST P-256: signature verification,
// deterministic signing with RFC 6979 nonces, SEC1 public key handling and
// extraction of the subject public key from an X.509 certificate.
//
// Keys are exchanged as SEC1 encoded points and signatures as DER encoded
// SEQUENCE { r, s }. Signing always multiplies secret scalars with the
// constant-time ladder.
package ecdsa

import (
	"fmt"
	"hash"
	"math/big"

	"github.com/smallyu/go-p256/internal/crypto/curves"
	"github.com/smallyu/go-p256/internal/crypto/der"
	"github.com/smallyu/go-p256/internal/crypto/field"
	"github.com/smallyu/go-p256/internal/crypto/rfc6979"
)

// nonceSource yields nonce candidates in [1, q-1].
type nonceSource interface {
	Next() *big.Int
}

// Scheme signs and verifies with a fixed configuration. It holds no mutable
// state and is safe for concurrent use.
type Scheme struct {
	hash               func() hash.Hash
	maxNonceAttempts   int
	constantTimeVerify bool

	newNonceSource func(x *big.Int, digest []byte) nonceSource
}

var defaultScheme = mustNew(DefaultConfig())

// New returns a Scheme for cfg.
func New(cfg Config) (*Scheme, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Scheme{
		hash:               cfg.hashFunc(),
		maxNonceAttempts:   cfg.MaxNonceAttempts,
		constantTimeVerify: cfg.ConstantTimeVerify,
	}
	s.newNonceSource = func(x *big.Int, digest []byte) nonceSource {
		return rfc6979.NewFromDigest(field.Q(), x, digest, s.hash)
	}
	return s, nil
}

func mustNew(cfg Config) *Scheme {
	s, err := New(cfg)
	if err != nil {
		panic(err)
	}
	return s
}

// Default returns the Scheme built from DefaultConfig.
func Default() *Scheme { return defaultScheme }

// Digest hashes msg with the configured hash function.
func (s *Scheme) Digest(msg []byte) []byte {
	h := s.hash()
	h.Write(msg)
	return h.Sum(nil)
}

// hashToScalar keeps the leftmost bits of the digest up to the bit length of
// q and reduces the result modulo q.
func hashToScalar(digest []byte) field.Fq {
	return field.NewFq(rfc6979.Bits2Int(digest, curves.P256().N().BitLen()))
}

// Verify reports whether sig is a valid signature of msg under pub. Any
// malformed input yields false.
func (s *Scheme) Verify(pub, msg, sig []byte) bool {
	return s.CheckSignature(pub, msg, sig) == nil
}

// VerifyDigest is Verify for a precomputed message digest.
func (s *Scheme) VerifyDigest(pub, digest, sig []byte) bool {
	return s.CheckSignatureDigest(pub, digest, sig) == nil
}

// CheckSignature is Verify with the reason for rejection. The error is
// ErrPublicKeyFormat, ErrSignatureFormat or ErrInvalidSignature.
func (s *Scheme) CheckSignature(pub, msg, sig []byte) error {
	q, err := parsePublicKey(pub)
	if err != nil {
		return err
	}
	r, sv, err := parseSignature(sig)
	if err != nil {
		return err
	}
	return s.verify(q, s.Digest(msg), r, sv)
}

// CheckSignatureDigest is CheckSignature for a precomputed message digest.
func (s *Scheme) CheckSignatureDigest(pub, digest, sig []byte) error {
	q, err := parsePublicKey(pub)
	if err != nil {
		return err
	}
	r, sv, err := parseSignature(sig)
	if err != nil {
		return err
	}
	return s.verify(q, digest, r, sv)
}

func parsePublicKey(pub []byte) (*curves.Point, error) {
	q, err := curves.DecodeNonInfinity(pub)
	if err != nil {
		return nil, makeError(ErrPublicKeyFormat, "invalid public key", err)
	}
	return q, nil
}

func parseSignature(sig []byte) (*big.Int, *big.Int, error) {
	r, s, err := der.ParseSignature(sig)
	if err != nil {
		return nil, nil, makeError(ErrSignatureFormat, "invalid signature encoding", err)
	}
	return r, s, nil
}

// inScalarRange reports whether 1 <= n <= q-1.
func inScalarRange(n *big.Int) bool {
	return n.Sign() > 0 && n.Cmp(curves.P256().N()) < 0
}

func (s *Scheme) verify(q *curves.Point, digest []byte, rInt, sInt *big.Int) error {
	if !inScalarRange(rInt) {
		return makeError(ErrInvalidSignature, "r is not in [1, q-1]", nil)
	}
	if !inScalarRange(sInt) {
		return makeError(ErrInvalidSignature, "s is not in [1, q-1]", nil)
	}

	h := hashToScalar(digest)
	r, sv := field.NewFq(rInt), field.NewFq(sInt)
	w, err := sv.Inv()
	if err != nil {
		return makeError(ErrInvalidSignature, "s is not invertible", err)
	}
	u := h.Mul(w)
	v := r.Mul(w)

	// R = u*G + v*Q
	var R *curves.Point
	if s.constantTimeVerify {
		R = curves.Generator().ScalarMult(u).Add(q.ScalarMult(v))
	} else {
		R = curves.Generator().ScalarMultSimple(u).Add(q.ScalarMultSimple(v))
	}

	x, err := R.XModQ()
	if err != nil {
		return makeError(ErrInvalidSignature, "u*G + v*Q is the point at infinity", err)
	}
	if !x.Equal(r) {
		return makeError(ErrInvalidSignature, "signature mismatch", nil)
	}
	return nil
}

// Sign hashes msg and signs the digest with the private scalar priv.
func (s *Scheme) Sign(priv *big.Int, msg []byte) ([]byte, error) {
	return s.SignDigest(priv, s.Digest(msg))
}

// SignDigest signs a precomputed digest with the private scalar priv. The
// nonce is derived deterministically per RFC 6979, so equal inputs give
// equal signatures. s is not normalized to the lower half of the order.
func (s *Scheme) SignDigest(priv *big.Int, digest []byte) ([]byte, error) {
	if priv == nil || !inScalarRange(priv) {
		return nil, makeError(ErrInvalidPrivateKey, "private key is not in [1, q-1]", nil)
	}
	x := field.NewFq(priv)
	h := hashToScalar(digest)
	g := curves.Generator()

	nonces := s.newNonceSource(x.BigInt(), digest)
	for attempt := 0; attempt < s.maxNonceAttempts; attempt++ {
		k := field.NewFq(nonces.Next())

		r, err := g.ScalarMult(k).XModQ()
		if err != nil || r.IsZero() {
			continue
		}
		sv, err := h.Add(r.Mul(x)).Div(k)
		if err != nil || sv.IsZero() {
			continue
		}

		sig, err := der.MarshalSignature(r.BigInt(), sv.BigInt())
		if err != nil {
			return nil, fmt.Errorf("encode signature: %w", err)
		}
		return sig, nil
	}
	return nil, makeError(ErrNonceExhausted,
		fmt.Sprintf("no usable nonce in %d attempts", s.maxNonceAttempts), nil)
}

// Verify uses the default scheme.
func Verify(pub, msg, sig []byte) bool {
	return defaultScheme.Verify(pub, msg, sig)
}

// CheckSignature uses the default scheme.
func CheckSignature(pub, msg, sig []byte) error {
	return defaultScheme.CheckSignature(pub, msg, sig)
}

// Sign uses the default scheme.
func Sign(priv *big.Int, msg []byte) ([]byte, error) {
	return defaultScheme.Sign(priv, msg)
}

// SignDigest uses the default scheme.
func SignDigest(priv *big.Int, digest []byte) ([]byte, error) {
	return defaultScheme.SignDigest(priv, digest)
}
