package curves

import (
	"fmt"

	"github.com/smallyu/go-p256/internal/crypto/field"
)

// SEC1 point encoding tags.
const (
	tagInfinity     = 0x00
	tagCompressed   = 0x02
	tagUncompressed = 0x04

	CompressedLen   = 1 + field.ByteSize
	UncompressedLen = 1 + 2*field.ByteSize
)

// Encode returns the SEC1 encoding of pt. The point at infinity is a single
// zero byte in both modes.
func (pt *Point) Encode(compressed bool) []byte {
	if !pt.affine {
		return []byte{tagInfinity}
	}
	if compressed {
		out := make([]byte, 0, CompressedLen)
		out = append(out, tagCompressed|byte(pt.y.Parity()))
		return append(out, pt.x.Bytes()...)
	}
	out := make([]byte, 0, UncompressedLen)
	out = append(out, tagUncompressed)
	out = append(out, pt.x.Bytes()...)
	return append(out, pt.y.Bytes()...)
}

// Decode parses a SEC1 encoded point. Hybrid encodings are not accepted.
func Decode(b []byte) (*Point, error) {
	switch {
	case len(b) == 1 && b[0] == tagInfinity:
		return Infinity(), nil

	case len(b) == UncompressedLen && b[0] == tagUncompressed:
		x, err := field.FpFromBytes(b[1 : 1+field.ByteSize])
		if err != nil {
			return nil, fmt.Errorf("%w: x: %w", ErrInvalidEncoding, err)
		}
		y, err := field.FpFromBytes(b[1+field.ByteSize:])
		if err != nil {
			return nil, fmt.Errorf("%w: y: %w", ErrInvalidEncoding, err)
		}
		return NewPoint(x, y)

	case len(b) == CompressedLen && (b[0] == tagCompressed || b[0] == tagCompressed|1):
		x, err := field.FpFromBytes(b[1:])
		if err != nil {
			return nil, fmt.Errorf("%w: x: %w", ErrInvalidEncoding, err)
		}
		y, err := p256.rhs(x).Sqrt(uint(b[0] & 1))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidEncoding, err)
		}
		return &Point{x: x, y: y, affine: true}, nil
	}
	return nil, ErrInvalidEncoding
}

// DecodeNonInfinity is Decode for contexts where the identity is not a valid
// value, such as public keys.
func DecodeNonInfinity(b []byte) (*Point, error) {
	pt, err := Decode(b)
	if err != nil {
		return nil, err
	}
	if pt.IsInfinity() {
		return nil, ErrInfinity
	}
	return pt, nil
}
