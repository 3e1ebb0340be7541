//go:build js && wasm

package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"syscall/js"

	"github.com/smallyu/go-p256/pkg/ecdsa"
)

// scheme is replaced by Configure.
var scheme = ecdsa.Default()

func main() {
	c := make(chan struct{}, 0)

	fmt.Println("Go P-256 WASM Initialized")

	// Expose Go functions to JS
	js.Global().Set("GoP256", map[string]interface{}{
		"Configure":           js.FuncOf(Configure),
		"Verify":              js.FuncOf(Verify),
		"Sign":                js.FuncOf(Sign),
		"ExtractPublicKey":    js.FuncOf(ExtractPublicKey),
		"CompressPublicKey":   js.FuncOf(CompressPublicKey),
		"DecompressPublicKey": js.FuncOf(DecompressPublicKey),
		"PublicKey":           js.FuncOf(PublicKey),
		"Params":              js.FuncOf(Params),
	})

	<-c
}

// Configure replaces the signing scheme.
// Arguments:
// 0: YAML config document
// Returns:
// "ok" or an error string
func Configure(this js.Value, args []js.Value) interface{} {
	if len(args) != 1 {
		return "error: expected 1 argument (yamlConfig)"
	}
	cfg, err := ecdsa.ParseConfig([]byte(args[0].String()))
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	s, err := ecdsa.New(cfg)
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	scheme = s
	return "ok"
}

// Verify checks a DER signature.
// Arguments:
// 0: public key (hex, SEC1)
// 1: message (hex)
// 2: signature (hex, DER)
// Returns:
// bool, or an error string for undecodable hex
func Verify(this js.Value, args []js.Value) interface{} {
	in, errStr := hexArgs(args, "publicKey", "message", "signature")
	if errStr != "" {
		return errStr
	}
	return scheme.Verify(in[0], in[1], in[2])
}

// Sign produces a deterministic DER signature.
// Arguments:
// 0: private key (hex, 32 bytes)
// 1: message (hex)
// Returns:
// signature (hex) or an error string
func Sign(this js.Value, args []js.Value) interface{} {
	in, errStr := hexArgs(args, "privateKey", "message")
	if errStr != "" {
		return errStr
	}
	priv, err := ecdsa.ParsePrivateKey(in[0])
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	sig, err := scheme.Sign(priv, in[1])
	if err != nil {
		return fmt.Sprintf("error: sign failed: %v", err)
	}
	return hex.EncodeToString(sig)
}

// ExtractPublicKey returns the P-256 key of a DER certificate.
// Arguments:
// 0: certificate (hex, DER)
// Returns:
// public key (hex, uncompressed SEC1) or an error string
func ExtractPublicKey(this js.Value, args []js.Value) interface{} {
	in, errStr := hexArgs(args, "certificate")
	if errStr != "" {
		return errStr
	}
	return hexResult(ecdsa.ExtractPublicKeyFromCertificate(in[0]))
}

func CompressPublicKey(this js.Value, args []js.Value) interface{} {
	in, errStr := hexArgs(args, "publicKey")
	if errStr != "" {
		return errStr
	}
	return hexResult(ecdsa.CompressPublicKey(in[0]))
}

func DecompressPublicKey(this js.Value, args []js.Value) interface{} {
	in, errStr := hexArgs(args, "publicKey")
	if errStr != "" {
		return errStr
	}
	return hexResult(ecdsa.DecompressPublicKey(in[0]))
}

// PublicKey derives the uncompressed public key of a private key.
func PublicKey(this js.Value, args []js.Value) interface{} {
	in, errStr := hexArgs(args, "privateKey")
	if errStr != "" {
		return errStr
	}
	priv, err := ecdsa.ParsePrivateKey(in[0])
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return hexResult(ecdsa.PublicKeyFromPrivate(priv))
}

// Params returns the curve domain parameters as a JSON object of hex
// strings. JS numbers cannot hold them.
func Params(this js.Value, args []js.Value) interface{} {
	resp := map[string]interface{}{
		"p":  ecdsa.P,
		"a":  ecdsa.A,
		"b":  ecdsa.B,
		"gx": ecdsa.Gx,
		"gy": ecdsa.Gy,
		"n":  ecdsa.N,
		"h":  ecdsa.H,
	}
	respBytes, err := json.Marshal(resp)
	if err != nil {
		return fmt.Sprintf("error: marshal params failed: %v", err)
	}
	return string(respBytes)
}

// Helpers

func hexArgs(args []js.Value, names ...string) ([][]byte, string) {
	if len(args) != len(names) {
		return nil, fmt.Sprintf("error: expected %d argument(s) %v", len(names), names)
	}
	out := make([][]byte, len(args))
	for i, a := range args {
		b, err := hex.DecodeString(a.String())
		if err != nil {
			return nil, fmt.Sprintf("error: invalid hex %s: %v", names[i], err)
		}
		out[i] = b
	}
	return out, ""
}

func hexResult(b []byte, err error) interface{} {
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return hex.EncodeToString(b)
}
