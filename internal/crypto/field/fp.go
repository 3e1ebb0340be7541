package field

import (
	"fmt"
	"math/big"
)

// Fp is an element of the coordinate field GF(p). The zero value is 0.
type Fp struct {
	n *big.Int
}

// NewFp reduces x modulo p.
func NewFp(x *big.Int) Fp {
	return Fp{reduce(x, p)}
}

// FpFromUint64 returns x mod p.
func FpFromUint64(x uint64) Fp {
	return NewFp(new(big.Int).SetUint64(x))
}

// FpFromBytes decodes a 32-byte big-endian encoding. Values >= p are rejected.
func FpFromBytes(b []byte) (Fp, error) {
	n, err := fromBytes(b, p)
	if err != nil {
		return Fp{}, err
	}
	return Fp{n}, nil
}

func (e Fp) int() *big.Int {
	if e.n == nil {
		return zero
	}
	return e.n
}

// Bytes returns the 32-byte big-endian encoding of e.
func (e Fp) Bytes() []byte { return toBytes(e.int()) }

// BigInt returns a copy of the reduced representative.
func (e Fp) BigInt() *big.Int { return new(big.Int).Set(e.int()) }

func (e Fp) IsZero() bool { return e.int().Sign() == 0 }

func (e Fp) Equal(o Fp) bool { return e.int().Cmp(o.int()) == 0 }

func (e Fp) Add(o Fp) Fp { return Fp{add(e.int(), o.int(), p)} }

func (e Fp) Sub(o Fp) Fp { return Fp{sub(e.int(), o.int(), p)} }

func (e Fp) Neg() Fp { return Fp{neg(e.int(), p)} }

func (e Fp) Mul(o Fp) Fp { return Fp{mul(e.int(), o.int(), p)} }

func (e Fp) Square() Fp { return e.Mul(e) }

func (e Fp) Cube() Fp { return e.Square().Mul(e) }

// Inv returns e^(p-2), the multiplicative inverse of e.
func (e Fp) Inv() (Fp, error) {
	if e.IsZero() {
		return Fp{}, ErrDivisionByZero
	}
	return Fp{new(big.Int).Exp(e.int(), pMinus2, p)}, nil
}

// Div returns e / o.
func (e Fp) Div(o Fp) (Fp, error) {
	inv, err := o.Inv()
	if err != nil {
		return Fp{}, err
	}
	return e.Mul(inv), nil
}

// Parity returns the least significant bit of e.
func (e Fp) Parity() uint { return e.int().Bit(0) }

// Sqrt returns the square root of e whose least significant bit equals
// parity. The only other root is its negation.
func (e Fp) Sqrt(parity uint) (Fp, error) {
	c := Fp{new(big.Int).Exp(e.int(), sqrtExp, p)}
	if !c.Square().Equal(e) {
		return Fp{}, ErrNoSquareRoot
	}
	if c.Parity() != parity&1 {
		c = c.Neg()
	}
	return c, nil
}

func (e Fp) String() string { return fmt.Sprintf("%064x", e.int()) }

// CondSwapFp returns (y, x) when swap is 1 and (x, y) when swap is 0.
func CondSwapFp(swap uint, x, y Fp) (Fp, Fp) {
	a, b := condSwap(int(swap&1), x.int(), y.int())
	return Fp{a}, Fp{b}
}
