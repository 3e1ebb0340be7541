package ecdsa

// ErrorKind identifies a kind of error. It has full support for errors.Is
// and errors.As, so the caller can directly check against an error kind
// when determining the reason for an error.
type ErrorKind string

const (
	// ErrPublicKeyFormat indicates a public key that is not a valid SEC1
	// encoding of a curve point, or that encodes the point at infinity.
	ErrPublicKeyFormat = ErrorKind("ErrPublicKeyFormat")

	// ErrSignatureFormat indicates a signature that is not a DER SEQUENCE of
	// two INTEGERs.
	ErrSignatureFormat = ErrorKind("ErrSignatureFormat")

	// ErrInvalidSignature indicates a well-formed signature that does not
	// verify, including r or s outside [1, q-1].
	ErrInvalidSignature = ErrorKind("ErrInvalidSignature")

	// ErrCertificateFormat indicates a certificate from which no P-256
	// public key could be extracted.
	ErrCertificateFormat = ErrorKind("ErrCertificateFormat")

	// ErrInvalidPrivateKey indicates a private scalar outside [1, q-1] or
	// with the wrong encoded length.
	ErrInvalidPrivateKey = ErrorKind("ErrInvalidPrivateKey")

	// ErrNonceExhausted indicates that no usable nonce was found within the
	// configured number of attempts.
	ErrNonceExhausted = ErrorKind("ErrNonceExhausted")

	// ErrInvalidConfig indicates a Config that failed validation.
	ErrInvalidConfig = ErrorKind("ErrInvalidConfig")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}

// Error identifies an error related to ECDSA keys, signatures and
// certificates. Cause, when set, is the lower level error that triggered it.
type Error struct {
	Err         error
	Description string
	Cause       error
}

// Error satisfies the error interface and prints human-readable errors.
func (e Error) Error() string {
	if e.Cause != nil {
		return e.Description + ": " + e.Cause.Error()
	}
	return e.Description
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e Error) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Cause}
}

func makeError(kind ErrorKind, desc string, cause error) Error {
	return Error{Err: kind, Description: desc, Cause: cause}
}
