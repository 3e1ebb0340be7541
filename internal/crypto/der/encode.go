package der

import (
	"math/big"

	"golang.org/x/crypto/cryptobyte"
	"golang.org/x/crypto/cryptobyte/asn1"
)

// MarshalInteger encodes n as a minimal two's-complement INTEGER.
func MarshalInteger(n *big.Int) ([]byte, error) {
	var b cryptobyte.Builder
	b.AddASN1BigInt(n)
	return b.Bytes()
}

// MarshalBitString encodes data as a BIT STRING with no unused bits.
func MarshalBitString(data []byte) ([]byte, error) {
	var b cryptobyte.Builder
	b.AddASN1BitString(data)
	return b.Bytes()
}

// MarshalSequence wraps already encoded elements in a SEQUENCE.
func MarshalSequence(elems ...[]byte) ([]byte, error) {
	var b cryptobyte.Builder
	b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		for _, e := range elems {
			b.AddBytes(e)
		}
	})
	return b.Bytes()
}

// MarshalSignature encodes SEQUENCE { INTEGER r, INTEGER s }.
func MarshalSignature(r, s *big.Int) ([]byte, error) {
	var b cryptobyte.Builder
	b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1BigInt(r)
		b.AddASN1BigInt(s)
	})
	return b.Bytes()
}
