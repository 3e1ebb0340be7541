package curves

import (
	"errors"

	"github.com/smallyu/go-p256/internal/crypto/field"
)

var (
	ErrNotOnCurve      = errors.New("curves: point is not on the curve")
	ErrInvalidEncoding = errors.New("curves: invalid point encoding")
	ErrInfinity        = errors.New("curves: point at infinity")
)

// Point is an element of the P-256 group: either the point at infinity or an
// affine point satisfying y^2 = x^3 + ax + b. The zero value is the point at
// infinity. Points are immutable; every operation returns a new value.
type Point struct {
	x, y   field.Fp
	affine bool
}

// Infinity returns the group identity.
func Infinity() *Point { return &Point{} }

// Generator returns the base point G.
func Generator() *Point {
	return &Point{x: p256.Gx, y: p256.Gy, affine: true}
}

// NewPoint returns the affine point (x, y) after checking curve membership.
func NewPoint(x, y field.Fp) (*Point, error) {
	if !Contains(x, y) {
		return nil, ErrNotOnCurve
	}
	return &Point{x: x, y: y, affine: true}, nil
}

// Contains reports whether (x, y) satisfies the curve equation.
func Contains(x, y field.Fp) bool {
	return y.Square().Equal(p256.rhs(x))
}

// rhs evaluates x^3 + ax + b.
func (c *Params) rhs(x field.Fp) field.Fp {
	return x.Cube().Add(c.A.Mul(x)).Add(c.B)
}

func (pt *Point) IsInfinity() bool { return !pt.affine }

// Coordinates returns the affine coordinates. ok is false for the point at
// infinity.
func (pt *Point) Coordinates() (x, y field.Fp, ok bool) {
	return pt.x, pt.y, pt.affine
}

func (pt *Point) Equal(o *Point) bool {
	if !pt.affine || !o.affine {
		return pt.affine == o.affine
	}
	return pt.x.Equal(o.x) && pt.y.Equal(o.y)
}

func (pt *Point) Neg() *Point {
	if !pt.affine {
		return Infinity()
	}
	return &Point{x: pt.x, y: pt.y.Neg(), affine: true}
}

// Double returns 2*pt.
func (pt *Point) Double() *Point {
	if !pt.affine || pt.y.IsZero() {
		return Infinity()
	}
	// slope = (3x^2 + a) / 2y
	num := pt.x.Square().Mul(field.FpFromUint64(3)).Add(p256.A)
	slope := mustDiv(num, pt.y.Add(pt.y))
	x3 := slope.Square().Sub(pt.x).Sub(pt.x)
	y3 := slope.Mul(pt.x.Sub(x3)).Sub(pt.y)
	return &Point{x: x3, y: y3, affine: true}
}

// Add returns pt + o.
func (pt *Point) Add(o *Point) *Point {
	switch {
	case !pt.affine:
		return o
	case !o.affine:
		return pt
	case pt.x.Equal(o.x) && pt.y.Equal(o.y):
		return pt.Double()
	case pt.x.Equal(o.x):
		// Same x with a different y means o = -pt.
		return Infinity()
	}
	slope := mustDiv(pt.y.Sub(o.y), pt.x.Sub(o.x))
	x3 := slope.Square().Sub(pt.x).Sub(o.x)
	y3 := slope.Mul(pt.x.Sub(x3)).Sub(pt.y)
	return &Point{x: x3, y: y3, affine: true}
}

// ScalarMultSimple returns k*pt using most-significant-bit-first
// double-and-add. Its running time depends on k; use it only for public
// scalars.
func (pt *Point) ScalarMultSimple(k field.Fq) *Point {
	r := Infinity()
	if !pt.affine || k.IsZero() {
		return r
	}
	for i := k.BitLen() - 1; i >= 0; i-- {
		r = r.Double()
		if k.Bit(i) == 1 {
			r = r.Add(pt)
		}
	}
	return r
}

// XModQ returns the x coordinate reduced modulo the group order.
func (pt *Point) XModQ() (field.Fq, error) {
	if !pt.affine {
		return field.Fq{}, ErrInfinity
	}
	return field.NewFq(pt.x.BigInt()), nil
}

func (pt *Point) String() string {
	if !pt.affine {
		return "(inf)"
	}
	return "(" + pt.x.String() + ", " + pt.y.String() + ")"
}

// mustDiv is only reached after the case analysis above has excluded a zero
// denominator.
func mustDiv(num, den field.Fp) field.Fp {
	r, err := num.Div(den)
	if err != nil {
		panic("curves: " + err.Error())
	}
	return r
}
