package field

import (
	"fmt"
	"math/big"
)

// Fq is an element of the scalar field GF(q). The zero value is 0.
type Fq struct {
	n *big.Int
}

// NewFq reduces x modulo q.
func NewFq(x *big.Int) Fq {
	return Fq{reduce(x, q)}
}

func FqFromUint64(x uint64) Fq {
	return NewFq(new(big.Int).SetUint64(x))
}

// FqFromBytes decodes a 32-byte big-endian encoding. Values >= q are rejected.
func FqFromBytes(b []byte) (Fq, error) {
	n, err := fromBytes(b, q)
	if err != nil {
		return Fq{}, err
	}
	return Fq{n}, nil
}

func (e Fq) int() *big.Int {
	if e.n == nil {
		return zero
	}
	return e.n
}

func (e Fq) Bytes() []byte { return toBytes(e.int()) }

func (e Fq) BigInt() *big.Int { return new(big.Int).Set(e.int()) }

func (e Fq) IsZero() bool { return e.int().Sign() == 0 }

func (e Fq) Equal(o Fq) bool { return e.int().Cmp(o.int()) == 0 }

func (e Fq) Add(o Fq) Fq { return Fq{add(e.int(), o.int(), q)} }

func (e Fq) Sub(o Fq) Fq { return Fq{sub(e.int(), o.int(), q)} }

func (e Fq) Neg() Fq { return Fq{neg(e.int(), q)} }

func (e Fq) Mul(o Fq) Fq { return Fq{mul(e.int(), o.int(), q)} }

// Inv returns e^(q-2).
func (e Fq) Inv() (Fq, error) {
	if e.IsZero() {
		return Fq{}, ErrDivisionByZero
	}
	return Fq{new(big.Int).Exp(e.int(), qMinus2, q)}, nil
}

func (e Fq) Div(o Fq) (Fq, error) {
	inv, err := o.Inv()
	if err != nil {
		return Fq{}, err
	}
	return e.Mul(inv), nil
}

// Bit returns bit i of the reduced representative.
func (e Fq) Bit(i int) uint { return e.int().Bit(i) }

func (e Fq) BitLen() int { return e.int().BitLen() }

func (e Fq) String() string { return fmt.Sprintf("%064x", e.int()) }
