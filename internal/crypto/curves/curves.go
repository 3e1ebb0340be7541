// Package curves implements the P-256 group: affine points with an explicit
// identity, the group law, scalar multiplication and SEC1 encoding.
package curves

import (
	"crypto/elliptic"
	"crypto/rand"
	"io"
	"math/big"

	"github.com/smallyu/go-p256/internal/crypto/field"
)

// Curve is a big.Int coordinate view of the group in the shape of
// crypto/elliptic. The identity is reported as (0, 0).
type Curve interface {
	// Params returns the curve parameters (Order, etc.)
	Params() *elliptic.CurveParams

	// NewScalar generates a random scalar in [1, q-1]
	NewScalar() (*big.Int, error)

	// ScalarBaseMult computes k * G (base point multiplication)
	ScalarBaseMult(k *big.Int) (*big.Int, *big.Int)

	// ScalarMult computes k * P
	ScalarMult(Px, Py, k *big.Int) (*big.Int, *big.Int)

	// Add combines two points
	Add(x1, y1, x2, y2 *big.Int) (*big.Int, *big.Int)
}

type P256Curve struct{}

// NewP256 returns the P-256 curve wrapper. Multiplications go through the
// constant-time ladder.
func NewP256() Curve {
	return &P256Curve{}
}

func (c *P256Curve) Params() *elliptic.CurveParams {
	return p256.CurveParams()
}

func (c *P256Curve) NewScalar() (*big.Int, error) {
	k, err := RandomScalar(rand.Reader)
	if err != nil {
		return nil, err
	}
	return k.BigInt(), nil
}

func (c *P256Curve) ScalarBaseMult(k *big.Int) (*big.Int, *big.Int) {
	return toAffine(Generator().ScalarMult(field.NewFq(k)))
}

func (c *P256Curve) ScalarMult(Px, Py, k *big.Int) (*big.Int, *big.Int) {
	return toAffine(fromAffine(Px, Py).ScalarMult(field.NewFq(k)))
}

func (c *P256Curve) Add(x1, y1, x2, y2 *big.Int) (*big.Int, *big.Int) {
	return toAffine(fromAffine(x1, y1).Add(fromAffine(x2, y2)))
}

// fromAffine maps (0, 0) to the identity. Other off-curve inputs panic, as
// crypto/elliptic does.
func fromAffine(x, y *big.Int) *Point {
	if x.Sign() == 0 && y.Sign() == 0 {
		return Infinity()
	}
	pt, err := NewPoint(field.NewFp(x), field.NewFp(y))
	if err != nil {
		panic("curves: invalid point passed to Curve method")
	}
	return pt
}

func toAffine(pt *Point) (*big.Int, *big.Int) {
	if pt.IsInfinity() {
		return new(big.Int), new(big.Int)
	}
	return pt.x.BigInt(), pt.y.BigInt()
}

// RandomScalar returns a uniformly random scalar in [1, q-1] read from r.
func RandomScalar(r io.Reader) (field.Fq, error) {
	qMinus1 := new(big.Int).Sub(field.Q(), big.NewInt(1))
	// Generate random integer in [0, q-2], then shift
	k, err := rand.Int(r, qMinus1)
	if err != nil {
		return field.Fq{}, err
	}
	return field.NewFq(k.Add(k, big.NewInt(1))), nil
}
