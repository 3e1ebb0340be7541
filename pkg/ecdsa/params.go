package ecdsa

import (
	"crypto/elliptic"

	"github.com/smallyu/go-p256/internal/crypto/curves"
)

// P-256 domain parameters, big-endian hex.
const (
	P  = curves.PHex
	A  = curves.AHex
	B  = curves.BHex
	Gx = curves.GxHex
	Gy = curves.GyHex
	N  = curves.NHex
	H  = curves.Cofactor
)

// Curve is the group in big.Int coordinates, shaped like crypto/elliptic.
// The point at infinity is reported as (0, 0) and off-curve inputs panic.
type Curve = curves.Curve

// NewCurve returns P-256 as a Curve. Its multiplications run the
// constant-time ladder.
func NewCurve() Curve {
	return curves.NewP256()
}

// Params returns the domain parameters in crypto/elliptic form. The result
// is a fresh copy.
func Params() *elliptic.CurveParams {
	return NewCurve().Params()
}
