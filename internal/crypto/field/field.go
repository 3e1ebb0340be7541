// Package field implements arithmetic in the two prime fields used by P-256:
// Fp, the coordinate field modulo the curve prime p, and Fq, the scalar field
// modulo the group order q.
//
// Elements are immutable values. Every element observable outside this package
// is fully reduced.
package field

import (
	"crypto/subtle"
	"errors"
	"math/big"
)

// ByteSize is the width of the fixed big-endian encoding of an element.
const ByteSize = 32

var (
	ErrEncoding       = errors.New("field: invalid element encoding")
	ErrDivisionByZero = errors.New("field: division by zero")
	ErrNoSquareRoot   = errors.New("field: no square root")
)

var (
	p = mustParseHex("ffffffff00000001000000000000000000000000ffffffffffffffffffffffff")
	q = mustParseHex("ffffffff00000000ffffffffffffffffbce6faada7179e84f3b9cac2fc632551")

	pMinus2 = new(big.Int).Sub(p, big.NewInt(2))
	qMinus2 = new(big.Int).Sub(q, big.NewInt(2))

	// (p+1)/4, valid because p = 3 mod 4.
	sqrtExp = new(big.Int).Rsh(new(big.Int).Add(p, big.NewInt(1)), 2)

	zero = new(big.Int)
)

// P returns a copy of the field prime.
func P() *big.Int { return new(big.Int).Set(p) }

// Q returns a copy of the group order.
func Q() *big.Int { return new(big.Int).Set(q) }

func mustParseHex(s string) *big.Int {
	n, ok := new(big.Int).SetString(s, 16)
	if !ok {
		panic("field: bad constant " + s)
	}
	return n
}

func reduce(x, m *big.Int) *big.Int {
	// Mod is Euclidean, so negative inputs land in [0, m).
	return new(big.Int).Mod(x, m)
}

func add(x, y, m *big.Int) *big.Int {
	r := new(big.Int).Add(x, y)
	if r.Cmp(m) >= 0 {
		r.Sub(r, m)
	}
	return r
}

func sub(x, y, m *big.Int) *big.Int {
	r := new(big.Int).Sub(x, y)
	if r.Sign() < 0 {
		r.Add(r, m)
	}
	return r
}

func neg(x, m *big.Int) *big.Int {
	if x.Sign() == 0 {
		return new(big.Int)
	}
	return new(big.Int).Sub(m, x)
}

func mul(x, y, m *big.Int) *big.Int {
	r := new(big.Int).Mul(x, y)
	return r.Mod(r, m)
}

func fromBytes(b []byte, m *big.Int) (*big.Int, error) {
	if len(b) != ByteSize {
		return nil, ErrEncoding
	}
	n := new(big.Int).SetBytes(b)
	if n.Cmp(m) >= 0 {
		return nil, ErrEncoding
	}
	return n, nil
}

func toBytes(x *big.Int) []byte {
	return x.FillBytes(make([]byte, ByteSize))
}

// condSwap exchanges x and y when swap is 1 and leaves them when swap is 0.
// The selection is done on fixed-width encodings so that both outcomes touch
// the same memory.
func condSwap(swap int, x, y *big.Int) (*big.Int, *big.Int) {
	xb, yb := toBytes(x), toBytes(y)
	tmp := make([]byte, ByteSize)
	copy(tmp, xb)
	subtle.ConstantTimeCopy(swap, xb, yb)
	subtle.ConstantTimeCopy(swap, yb, tmp)
	return new(big.Int).SetBytes(xb), new(big.Int).SetBytes(yb)
}
