package ecdsa

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/smallyu/go-p256/internal/crypto/curves"
	"github.com/smallyu/go-p256/internal/crypto/der"
)

// p256KeyAlgorithm is the DER AlgorithmIdentifier
// SEQUENCE { id-ecPublicKey, secp256r1 } from RFC 5480.
var p256KeyAlgorithm = []byte{
	0x30, 0x13,
	0x06, 0x07, 0x2a, 0x86, 0x48, 0xce, 0x3d, 0x02, 0x01,
	0x06, 0x08, 0x2a, 0x86, 0x48, 0xce, 0x3d, 0x03, 0x01, 0x07,
}

// subjectPublicKeyInfoIndex is the position of subjectPublicKeyInfo in
// TBSCertificate when the explicit version field is present.
const subjectPublicKeyInfoIndex = 6

// ExtractPublicKeyFromCertificate returns the SEC1 public key of a DER
// encoded X.509 certificate whose key is a P-256 id-ecPublicKey. Only the
// path Certificate -> tbsCertificate -> subjectPublicKeyInfo is interpreted.
// Every failure is reported as ErrCertificateFormat.
func ExtractPublicKeyFromCertificate(cert []byte) ([]byte, error) {
	pub, err := extractPublicKey(cert)
	if err != nil {
		return nil, makeError(ErrCertificateFormat, "cannot extract public key from certificate", err)
	}
	return pub, nil
}

func extractPublicKey(cert []byte) ([]byte, error) {
	// Certificate ::= SEQUENCE { tbsCertificate, signatureAlgorithm, signatureValue }
	top, err := der.ParseSequence(cert)
	if err != nil {
		return nil, fmt.Errorf("certificate: %w", err)
	}
	if len(top) != 3 {
		return nil, fmt.Errorf("certificate: %w", der.ErrElementCount)
	}

	tbs, err := der.ParseSequence(top[0])
	if err != nil {
		return nil, fmt.Errorf("tbsCertificate: %w", err)
	}
	if len(tbs) <= subjectPublicKeyInfoIndex {
		return nil, fmt.Errorf("tbsCertificate: %w", der.ErrElementCount)
	}

	// SubjectPublicKeyInfo ::= SEQUENCE { algorithm, subjectPublicKey BIT STRING }
	spki, err := der.ParseSequence(tbs[subjectPublicKeyInfoIndex])
	if err != nil {
		return nil, fmt.Errorf("subjectPublicKeyInfo: %w", err)
	}
	if len(spki) != 2 {
		return nil, fmt.Errorf("subjectPublicKeyInfo: %w", der.ErrElementCount)
	}
	if !bytes.Equal(spki[0], p256KeyAlgorithm) {
		return nil, errors.New("subjectPublicKeyInfo: algorithm is not id-ecPublicKey on P-256")
	}

	pub, err := der.ParseBitString(spki[1])
	if err != nil {
		return nil, fmt.Errorf("subjectPublicKey: %w", err)
	}
	if _, err := curves.DecodeNonInfinity(pub); err != nil {
		return nil, fmt.Errorf("subjectPublicKey: %w", err)
	}
	return pub, nil
}
