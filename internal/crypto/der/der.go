// Package der decodes and encodes the DER subset needed for ECDSA signatures
// and for reaching the public key inside an X.509 certificate: INTEGER,
// BIT STRING and SEQUENCE.
//
// Decoding is strict. Indefinite lengths, non-minimal lengths, non-minimal
// integers, short values and trailing bytes are all rejected.
package der

import (
	"errors"
	"fmt"
	"math/big"
)

// Tags used by this package.
const (
	TagInteger   byte = 0x02
	TagBitString byte = 0x03
	TagSequence  byte = 0x30
)

// ErrFormat is the root of every decoding error.
var ErrFormat = errors.New("der: malformed encoding")

var (
	ErrTruncated         = fmt.Errorf("%w: truncated", ErrFormat)
	ErrIndefiniteLength  = fmt.Errorf("%w: indefinite length", ErrFormat)
	ErrNonMinimalLength  = fmt.Errorf("%w: non-minimal length", ErrFormat)
	ErrLengthTooLarge    = fmt.Errorf("%w: length too large", ErrFormat)
	ErrTrailingData      = fmt.Errorf("%w: trailing data", ErrFormat)
	ErrUnexpectedTag     = fmt.Errorf("%w: unexpected tag", ErrFormat)
	ErrEmptyValue        = fmt.Errorf("%w: empty value", ErrFormat)
	ErrNonMinimalInteger = fmt.Errorf("%w: non-minimal integer", ErrFormat)
	ErrUnusedBits        = fmt.Errorf("%w: bit string with unused bits", ErrFormat)
	ErrElementCount      = fmt.Errorf("%w: unexpected element count", ErrFormat)
)

// maxLengthOctets bounds long-form lengths to what fits in an int on every
// platform.
const maxLengthOctets = 4

// TLV is one parsed tag-length-value node. Length holds the raw length
// octets so that Raw can reproduce the element exactly.
type TLV struct {
	Tag    byte
	Length []byte
	Value  []byte
}

// Raw returns the element's full encoding.
func (t TLV) Raw() []byte {
	out := make([]byte, 0, 1+len(t.Length)+len(t.Value))
	out = append(out, t.Tag)
	out = append(out, t.Length...)
	return append(out, t.Value...)
}

// ExtractTLV parses the element at the start of b and returns it along with
// the bytes that follow it.
func ExtractTLV(b []byte) (TLV, []byte, error) {
	if len(b) < 2 {
		return TLV{}, nil, ErrTruncated
	}
	tag := b[0]
	rest := b[1:]

	lenOctets, n, err := parseLength(rest)
	if err != nil {
		return TLV{}, nil, err
	}
	rest = rest[len(lenOctets):]
	if len(rest) < n {
		return TLV{}, nil, ErrTruncated
	}
	return TLV{Tag: tag, Length: lenOctets, Value: rest[:n]}, rest[n:], nil
}

// parseLength returns the raw length octets at the start of b and their value.
func parseLength(b []byte) ([]byte, int, error) {
	if len(b) == 0 {
		return nil, 0, ErrTruncated
	}
	first := b[0]
	switch {
	case first == 0x80:
		return nil, 0, ErrIndefiniteLength
	case first < 0x80:
		return b[:1], int(first), nil
	}

	count := int(first & 0x7f)
	if count > maxLengthOctets {
		return nil, 0, ErrLengthTooLarge
	}
	if len(b) < 1+count {
		return nil, 0, ErrTruncated
	}
	octets := b[1 : 1+count]
	// Long form must be needed: no leading zero octet, and a single octet
	// must not fit the short form.
	if octets[0] == 0 || (count == 1 && octets[0] < 0x80) {
		return nil, 0, ErrNonMinimalLength
	}
	n := 0
	for _, o := range octets {
		n = n<<8 | int(o)
	}
	if n < 0 {
		return nil, 0, ErrLengthTooLarge
	}
	return b[:1+count], n, nil
}

// extract parses a single element with the expected tag and no trailing
// bytes.
func extract(b []byte, tag byte) ([]byte, error) {
	tlv, rest, err := ExtractTLV(b)
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, ErrTrailingData
	}
	if tlv.Tag != tag {
		return nil, fmt.Errorf("%w: got 0x%02x, want 0x%02x", ErrUnexpectedTag, tlv.Tag, tag)
	}
	return tlv.Value, nil
}

// ParseInteger decodes a signed INTEGER.
func ParseInteger(b []byte) (*big.Int, error) {
	v, err := extract(b, TagInteger)
	if err != nil {
		return nil, err
	}
	if len(v) == 0 {
		return nil, ErrEmptyValue
	}
	if len(v) > 1 && ((v[0] == 0x00 && v[1] < 0x80) || (v[0] == 0xff && v[1] >= 0x80)) {
		return nil, ErrNonMinimalInteger
	}

	n := new(big.Int).SetBytes(v)
	if v[0]&0x80 != 0 {
		// Two's complement: subtract 2^(8*len).
		n.Sub(n, new(big.Int).Lsh(big.NewInt(1), uint(8*len(v))))
	}
	return n, nil
}

// ParseBitString decodes a BIT STRING whose length is a whole number of
// octets and returns those octets.
func ParseBitString(b []byte) ([]byte, error) {
	v, err := extract(b, TagBitString)
	if err != nil {
		return nil, err
	}
	if len(v) == 0 {
		return nil, ErrEmptyValue
	}
	if v[0] != 0 {
		return nil, ErrUnusedBits
	}
	return v[1:], nil
}

// ParseSequence decodes a SEQUENCE into the raw encodings of its elements.
// Elements are not interpreted.
func ParseSequence(b []byte) ([][]byte, error) {
	v, err := extract(b, TagSequence)
	if err != nil {
		return nil, err
	}
	var items [][]byte
	for len(v) > 0 {
		var tlv TLV
		tlv, v, err = ExtractTLV(v)
		if err != nil {
			return nil, err
		}
		items = append(items, tlv.Raw())
	}
	return items, nil
}

// ParseSignature decodes SEQUENCE { INTEGER r, INTEGER s }. Range checks on
// r and s are left to the caller.
func ParseSignature(b []byte) (r, s *big.Int, err error) {
	items, err := ParseSequence(b)
	if err != nil {
		return nil, nil, err
	}
	if len(items) != 2 {
		return nil, nil, fmt.Errorf("%w: signature has %d elements", ErrElementCount, len(items))
	}
	if r, err = ParseInteger(items[0]); err != nil {
		return nil, nil, fmt.Errorf("r: %w", err)
	}
	if s, err = ParseInteger(items[1]); err != nil {
		return nil, nil, fmt.Errorf("s: %w", err)
	}
	return r, s, nil
}
