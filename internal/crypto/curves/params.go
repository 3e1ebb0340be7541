package curves

import (
	"crypto/elliptic"
	"math/big"

	"github.com/smallyu/go-p256/internal/crypto/field"
)

// P-256 domain parameters as published in SEC 2 / FIPS 186-4.
const (
	PHex     = "ffffffff00000001000000000000000000000000ffffffffffffffffffffffff"
	AHex     = "ffffffff00000001000000000000000000000000fffffffffffffffffffffffc"
	BHex     = "5ac635d8aa3a93e7b3ebbd55769886bc651d06b0cc53b0f63bce3c3e27d2604b"
	GxHex    = "6b17d1f2e12c4247f8bce6e563a440f277037d812deb33a0f4a13945d898c296"
	GyHex    = "4fe342e2fe1a7f9b8ee7eb4a7c0f9e162bce33576b315ececbb6406837bf51f5"
	NHex     = "ffffffff00000000ffffffffffffffffbce6faada7179e84f3b9cac2fc632551"
	Cofactor = 1
)

// Params holds the curve constants. The value returned by P256 is shared and
// never modified.
type Params struct {
	Name     string
	BitSize  int
	A, B     field.Fp
	Gx, Gy   field.Fp
	Cofactor int

	b4 field.Fp // 4b, used by the co-Z formulas
}

var p256 = newP256Params()

func newP256Params() *Params {
	c := &Params{
		Name:     "P-256",
		BitSize:  256,
		A:        mustFp(AHex),
		B:        mustFp(BHex),
		Gx:       mustFp(GxHex),
		Gy:       mustFp(GyHex),
		Cofactor: Cofactor,
	}
	c.b4 = c.B.Mul(field.FpFromUint64(4))
	if !c.A.Equal(field.FpFromUint64(3).Neg()) {
		panic("curves: a must be -3")
	}
	if !c.Gy.Square().Equal(c.rhs(c.Gx)) {
		panic("curves: generator is not on the curve")
	}
	return c
}

func mustFp(s string) field.Fp {
	n, ok := new(big.Int).SetString(s, 16)
	if !ok || n.Cmp(field.P()) >= 0 {
		panic("curves: bad constant " + s)
	}
	return field.NewFp(n)
}

// P256 returns the domain parameters.
func P256() *Params { return p256 }

// P returns a copy of the field prime.
func (c *Params) P() *big.Int { return field.P() }

// N returns a copy of the group order.
func (c *Params) N() *big.Int { return field.Q() }

// CurveParams converts to the crypto/elliptic representation.
func (c *Params) CurveParams() *elliptic.CurveParams {
	return &elliptic.CurveParams{
		P:       c.P(),
		N:       c.N(),
		B:       c.B.BigInt(),
		Gx:      c.Gx.BigInt(),
		Gy:      c.Gy.BigInt(),
		BitSize: c.BitSize,
		Name:    c.Name,
	}
}
