package curves

import (
	"math/big"

	"github.com/smallyu/go-p256/internal/crypto/field"
)

// ladderBits is the fixed length of the rewritten scalar k+q or k+2q.
const ladderBits = 257

var (
	ladderQ  = field.Q()
	ladderQ2 = new(big.Int).Lsh(field.Q(), 1)
	ladderLo = new(big.Int).Lsh(big.NewInt(1), ladderBits-1)
)

// ScalarMult returns k*pt with a co-Z Montgomery ladder. Every scalar is
// processed with the same sequence of field operations, so this is the
// variant to use for secret scalars.
//
// The ladder keeps x-only co-Z coordinates (X1, X2, Z) of R0 = j*pt and
// R1 = (j+1)*pt for each prefix j of the scalar, recovers y at the end and
// performs a single inversion.
func (pt *Point) ScalarMult(k field.Fq) *Point {
	if !pt.affine {
		return Infinity()
	}

	// The scalars below make an intermediate ladder point the identity once
	// k is rewritten to 257 bits.
	switch {
	case k.IsZero():
		return Infinity()
	case k.Equal(field.FqFromUint64(1)):
		return pt
	case k.Equal(field.FqFromUint64(1).Neg()):
		return pt.Neg()
	case k.Equal(field.FqFromUint64(2).Neg()):
		return pt.Double().Neg()
	}

	// k' = k+q or k+2q, whichever has exactly 257 bits. k'*pt = k*pt.
	kk := new(big.Int).Add(k.BigInt(), ladderQ)
	if kk.Cmp(ladderLo) < 0 {
		kk.Add(kk, ladderQ)
	}

	xP, yP := pt.x, pt.y

	// Top bit is 1: R0 = pt, R1 = 2*pt.
	X1, X2, Z := addDblCoZ(field.Fp{}, xP, field.FpFromUint64(1), xP)
	X1 = xP.Mul(Z)

	for i := ladderBits - 2; i >= 0; i-- {
		swap := 1 - kk.Bit(i)
		X1, X2 = field.CondSwapFp(swap, X1, X2)
		X1, X2, Z = addDblCoZ(X1, X2, Z, xP)
		X1, X2 = field.CondSwapFp(swap, X1, X2)
	}

	XX, YY, ZZ := recoverCoZ(X1, X2, Z, xP, yP)
	inv, err := ZZ.Inv()
	if err != nil {
		panic("curves: ladder reached the identity")
	}
	return &Point{x: XX.Mul(inv), y: YY.Mul(inv), affine: true}
}

// addDblCoZ takes x-only co-Z coordinates of P = (X1/Z), Q = (X2/Z) with
// x(Q-P) = xD and returns co-Z coordinates of P+Q and 2Q.
func addDblCoZ(X1, X2, Z, xD field.Fp) (field.Fp, field.Fp, field.Fp) {
	a, b4 := p256.A, p256.b4

	R2 := Z.Square()
	R3 := a.Mul(R2)
	R1 := Z.Mul(R2)
	R2 = b4.Mul(R1)
	R1 = X2.Square()
	R5 := R1.Sub(R3)
	R4 := R5.Square()
	R1 = R1.Add(R3)
	R5 = X2.Mul(R1)
	R5 = R5.Add(R5)
	R5 = R5.Add(R5)
	R5 = R5.Add(R2)
	R1 = R1.Add(R3)
	R3 = X1.Square()
	R1 = R1.Add(R3)
	X1 = X1.Sub(X2)
	X2 = X2.Add(X2)
	R3 = X2.Mul(R2)
	R4 = R4.Sub(R3)
	R3 = X1.Square()
	R1 = R1.Sub(R3)
	X1 = X1.Add(X2)
	X2 = X1.Mul(R1)
	X2 = X2.Add(R2)
	R2 = Z.Mul(R3)
	Z = xD.Mul(R2)
	X2 = X2.Sub(Z)
	X1 = R5.Mul(X2)
	X2 = R3.Mul(R4)
	Z = R2.Mul(R5)
	return X1, X2, Z
}

// recoverCoZ returns projective (X, Y, Z) of R0 from the co-Z x coordinates
// of R0 and R1 = R0 + D, where D = (xD, yD).
func recoverCoZ(X1, X2, Z, xD, yD field.Fp) (field.Fp, field.Fp, field.Fp) {
	a, b4 := p256.A, p256.b4

	R1 := xD.Mul(Z)
	R2 := X1.Sub(R1)
	R3 := R2.Square()
	R4 := R3.Mul(X2)
	R2 = R1.Mul(X1)
	R1 = X1.Add(R1)
	X2 = Z.Square()
	R3 = a.Mul(X2)
	R2 = R2.Add(R3)
	R3 = R2.Mul(R1)
	R3 = R3.Sub(R4)
	R3 = R3.Add(R3)
	R1 = yD.Add(yD)
	R1 = R1.Add(R1)
	R2 = R1.Mul(X1)
	X1 = R2.Mul(X2)
	R2 = X2.Mul(Z)
	Z = R2.Mul(R1)
	R4 = b4.Mul(R2)
	X2 = R4.Add(R3)
	return X1, X2, Z
}
