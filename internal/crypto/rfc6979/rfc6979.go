// Package rfc6979 generates deterministic ECDSA nonces as described in
// RFC 6979 section 3.2.
package rfc6979

import (
	"bytes"
	"crypto/hmac"
	"hash"
	"math/big"
)

// Generator yields the candidate nonce sequence for one (q, x, h, hash)
// tuple. A Generator holds secret state and must not be shared between
// signing operations.
type Generator struct {
	q       *big.Int
	qlen    int
	hash    func() hash.Hash
	k, v    []byte
	started bool
}

// New seeds a generator for private key x and message representative h,
// both already reduced modulo q.
func New(q, x, h *big.Int, hashFunc func() hash.Hash) *Generator {
	rlen := (q.BitLen() + 7) / 8
	return seed(q, x, Int2Octets(new(big.Int).Mod(h, q), rlen), hashFunc)
}

// NewFromDigest seeds a generator directly from the message digest, which
// is converted with bits2octets.
func NewFromDigest(q, x *big.Int, digest []byte, hashFunc func() hash.Hash) *Generator {
	return seed(q, x, Bits2Octets(digest, q), hashFunc)
}

func seed(q, x *big.Int, ho []byte, hashFunc func() hash.Hash) *Generator {
	g := &Generator{
		q:    new(big.Int).Set(q),
		qlen: q.BitLen(),
		hash: hashFunc,
	}
	rlen := (g.qlen + 7) / 8
	hlen := hashFunc().Size()

	xo := Int2Octets(x, rlen)

	// Steps b-g.
	g.v = bytes.Repeat([]byte{0x01}, hlen)
	g.k = make([]byte, hlen)
	g.k = g.mac(g.k, g.v, []byte{0x00}, xo, ho)
	g.v = g.mac(g.k, g.v)
	g.k = g.mac(g.k, g.v, []byte{0x01}, xo, ho)
	g.v = g.mac(g.k, g.v)
	return g
}

// Next returns the next candidate in [1, q-1]. The sequence is infinite and
// depends only on the inputs to New.
func (g *Generator) Next() *big.Int {
	for {
		if g.started {
			g.k = g.mac(g.k, g.v, []byte{0x00})
			g.v = g.mac(g.k, g.v)
		}
		g.started = true

		var t []byte
		for len(t)*8 < g.qlen {
			g.v = g.mac(g.k, g.v)
			t = append(t, g.v...)
		}
		k := Bits2Int(t, g.qlen)
		if k.Sign() > 0 && k.Cmp(g.q) < 0 {
			return k
		}
	}
}

func (g *Generator) mac(key []byte, parts ...[]byte) []byte {
	m := hmac.New(g.hash, key)
	for _, p := range parts {
		m.Write(p)
	}
	return m.Sum(nil)
}

// Bits2Int interprets b as a big-endian integer and keeps its leftmost qlen
// bits.
func Bits2Int(b []byte, qlen int) *big.Int {
	n := new(big.Int).SetBytes(b)
	if blen := len(b) * 8; blen > qlen {
		n.Rsh(n, uint(blen-qlen))
	}
	return n
}

// Int2Octets encodes x as rlen big-endian bytes. x must fit.
func Int2Octets(x *big.Int, rlen int) []byte {
	return x.FillBytes(make([]byte, rlen))
}

// Bits2Octets is bits2int(b) mod q encoded with the byte length of q.
func Bits2Octets(b []byte, q *big.Int) []byte {
	z := Bits2Int(b, q.BitLen())
	z.Mod(z, q)
	return Int2Octets(z, (q.BitLen()+7)/8)
}
