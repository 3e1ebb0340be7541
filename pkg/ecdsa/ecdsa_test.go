package ecdsa

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"math/big"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smallyu/go-p256/internal/crypto/curves"
	"github.com/smallyu/go-p256/internal/crypto/der"
	"github.com/smallyu/go-p256/internal/crypto/field"
)

const (
	// RFC 6979 A.2.5
	testPrivHex = "c9afa9d845ba75166b5c215767b1d6934e50c3db36e89b127b8a622b120f6721"
	testPubHex  = "0460fed4ba255a9d31c961eb74c6356d68c049b8923b61fa6ce669622e60f29fb67903fe1008b8bc99a41ae9e95628bc64f2f1b20c2d7e9f5177a3c294d4462299"
	testSigHex  = "3046022100efd48b2aacb6a8fd1140dd9cd45e81d69d2c877b56aaf991c34d0ea84eaf3716022100f7cb1c942d657c41d436c7a1b6e29f65f3e900dbb9aff4064dc4ab2f843acda8"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

func testPriv(t *testing.T) *big.Int {
	t.Helper()
	k, err := ParsePrivateKey(mustHex(t, testPrivHex))
	require.NoError(t, err)
	return k
}

func TestVerifyKnownVector(t *testing.T) {
	pub := mustHex(t, testPubHex)
	sig := mustHex(t, testSigHex)
	msg := []byte("sample")

	assert.True(t, Verify(pub, msg, sig))
	assert.NoError(t, CheckSignature(pub, msg, sig))

	t.Run("last byte flipped", func(t *testing.T) {
		bad := append([]byte{}, sig...)
		bad[len(bad)-1] ^= 0xff
		assert.False(t, Verify(pub, msg, bad))
		assert.ErrorIs(t, CheckSignature(pub, msg, bad), ErrInvalidSignature)
	})

	t.Run("other message", func(t *testing.T) {
		assert.False(t, Verify(pub, []byte("sample!"), sig))
	})

	t.Run("compressed key", func(t *testing.T) {
		compressed, err := CompressPublicKey(pub)
		require.NoError(t, err)
		assert.True(t, Verify(compressed, msg, sig))
	})

	t.Run("both verify paths agree", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.ConstantTimeVerify = true
		s, err := New(cfg)
		require.NoError(t, err)
		assert.True(t, s.Verify(pub, msg, sig))
		bad := append([]byte{}, sig...)
		bad[10] ^= 1
		assert.False(t, s.Verify(pub, msg, bad))
	})
}

func TestVerifyRejections(t *testing.T) {
	pub := mustHex(t, testPubHex)
	sig := mustHex(t, testSigHex)
	msg := []byte("sample")
	q := curves.P256().N()

	encodeSig := func(r, s *big.Int) []byte {
		b, err := der.MarshalSignature(r, s)
		require.NoError(t, err)
		return b
	}
	r, s, err := der.ParseSignature(sig)
	require.NoError(t, err)

	offCurve := append([]byte{}, pub...)
	offCurve[len(offCurve)-1] ^= 1

	tests := []struct {
		name string
		pub  []byte
		sig  []byte
		want error
	}{
		{"empty key", nil, sig, ErrPublicKeyFormat},
		{"infinity key", []byte{0}, sig, ErrPublicKeyFormat},
		{"off-curve key", offCurve, sig, ErrPublicKeyFormat},
		{"empty signature", pub, nil, ErrSignatureFormat},
		{"truncated signature", pub, sig[:len(sig)-1], ErrSignatureFormat},
		{"trailing bytes", pub, append(append([]byte{}, sig...), 0), ErrSignatureFormat},
		{"indefinite length", pub, mustHex(t, "3080020101020101"), ErrSignatureFormat},
		{"r zero", pub, encodeSig(big.NewInt(0), s), ErrInvalidSignature},
		{"s zero", pub, encodeSig(r, big.NewInt(0)), ErrInvalidSignature},
		{"r negative", pub, encodeSig(new(big.Int).Neg(r), s), ErrInvalidSignature},
		{"r equals q", pub, encodeSig(q, s), ErrInvalidSignature},
		{"s plus q", pub, encodeSig(r, new(big.Int).Add(s, q)), ErrInvalidSignature},
		{"swapped", pub, encodeSig(s, r), ErrInvalidSignature},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.False(t, Verify(tc.pub, msg, tc.sig))
			err := CheckSignature(tc.pub, msg, tc.sig)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	t.Run("format errors keep their cause", func(t *testing.T) {
		err := CheckSignature(pub, msg, sig[:len(sig)-1])
		assert.ErrorIs(t, err, der.ErrFormat)
		assert.ErrorIs(t, err, der.ErrTruncated)

		err = CheckSignature(offCurve, msg, sig)
		assert.ErrorIs(t, err, curves.ErrNotOnCurve)
	})
}

func TestSignKnownVectors(t *testing.T) {
	priv := testPriv(t)

	tests := []struct {
		hash string
		msg  string
		sig  string
	}{
		{"sha256", "sample", testSigHex},
		{"sha256", "test", "3045022100f1abb023518351cd71d881567b1ea663ed3efcf6c5132b354f28d3b0b7d383670220019f4113742a2b14bd25926b49c649155f267e60d3814b4c0cc84250e46f0083"},
		{"sha384", "sample", "304402200eafea039b20e9b42309fb1d89e213057cbf973dc0cfc8f129edddc800ef771902204861f0491e6998b9455193e34e7b0d284ddd7149a74b95b9261f13abde940954"},
		{"sha512", "sample", "30450221008496a60b5e9b47c825488827e0495b0e3fa109ec4568fd3f8d1097678eb97f0002202362ab1adbe2b8adf9cb9edab740ea6049c028114f2460f96554f61fae3302fe"},
		{"sha512", "test", "30440220461d93f31b6540894788fd206c07cfa0cc35f46fa3c91816fff1040ad1581a04022039af9f15de0db8d97e72719c74820d304ce5226e32dedae67519e840d1194e55"},
		{"sha3-256", "sample", "30450221008fedfdf147364db550f840aebfe7c26df77a9ab56c9aea20ac33e45e1aedd7ac02203a5bd6183374df2517910db14e0a9cc4666ae679c4d1ebb89242fb3062db6068"},
		{"sha3-384", "test", "304502205595acfa1f91e91c36799a7fcfe3f58a7c0db62683e21ddab75a574cee243696022100edd4ab67fea9405fc986ce4b60484a4f2dea4362accb67dbfac99f0e7440341a"},
		{"sha3-512", "sample", "304502210083efc3ac4508ed1749c9d7ae1fc1235c259cc1c6b15e9f3903736f435751fff50220411aadc5274dd77051f8bfc5673a024b04a71248d995a22fa079a98fbd1fc85a"},
	}

	pub := mustHex(t, testPubHex)
	for _, tc := range tests {
		t.Run(tc.hash+"/"+tc.msg, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Hash = tc.hash
			s, err := New(cfg)
			require.NoError(t, err)

			sig, err := s.Sign(priv, []byte(tc.msg))
			require.NoError(t, err)
			assert.Equal(t, tc.sig, hex.EncodeToString(sig))
			assert.True(t, s.Verify(pub, []byte(tc.msg), sig))
		})
	}
}

func TestSignDeterministic(t *testing.T) {
	priv := testPriv(t)
	msg := []byte("deterministic")

	a, err := Sign(priv, msg)
	require.NoError(t, err)
	b, err := Sign(priv, msg)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	digest := sha256.Sum256(msg)
	c, err := SignDigest(priv, digest[:])
	require.NoError(t, err)
	assert.Equal(t, a, c)
	assert.True(t, Default().VerifyDigest(mustHex(t, testPubHex), digest[:], c))
}

func TestSignRoundTrip(t *testing.T) {
	for i := 0; i < 4; i++ {
		priv, pub, err := GenerateKey(rand.Reader)
		require.NoError(t, err)

		msg := []byte{byte(i), 'm', 's', 'g'}
		sig, err := Sign(priv, msg)
		require.NoError(t, err)
		assert.True(t, Verify(pub, msg, sig))
		assert.False(t, Verify(pub, append(msg, 0), sig))
	}
}

func TestSignRejectsBadPrivateKey(t *testing.T) {
	q := curves.P256().N()
	for name, priv := range map[string]*big.Int{
		"nil":      nil,
		"zero":     big.NewInt(0),
		"negative": big.NewInt(-5),
		"order":    q,
		"above":    new(big.Int).Add(q, big.NewInt(1)),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Sign(priv, []byte("sample"))
			assert.ErrorIs(t, err, ErrInvalidPrivateKey)
			_, err = PublicKeyFromPrivate(priv)
			assert.ErrorIs(t, err, ErrInvalidPrivateKey)
		})
	}
}

type fixedNonces struct {
	ks []*big.Int
	i  int
}

func (f *fixedNonces) Next() *big.Int {
	k := f.ks[min(f.i, len(f.ks)-1)]
	f.i++
	return k
}

// A digest chosen so that s = 0 for one nonce exercises the retry path.
func TestSignRetriesAndExhaustion(t *testing.T) {
	priv := testPriv(t)
	x := field.NewFq(priv)

	badK := field.FqFromUint64(0x1234567)
	r, err := curves.Generator().ScalarMult(badK).XModQ()
	require.NoError(t, err)
	// h = -r*x makes h + r*x = 0.
	digest := r.Mul(x).Neg().Bytes()

	newScheme := func(t *testing.T, ks ...*big.Int) (*Scheme, *fixedNonces) {
		s, err := New(DefaultConfig())
		require.NoError(t, err)
		src := &fixedNonces{ks: ks}
		s.newNonceSource = func(*big.Int, []byte) nonceSource { return src }
		return s, src
	}

	t.Run("exhausted", func(t *testing.T) {
		s, src := newScheme(t, badK.BigInt())
		_, err := s.SignDigest(priv, digest)
		assert.ErrorIs(t, err, ErrNonceExhausted)
		assert.Equal(t, DefaultMaxNonceAttempts, src.i)
	})

	t.Run("next candidate used", func(t *testing.T) {
		s, src := newScheme(t, badK.BigInt(), big.NewInt(0x7654321))
		sig, err := s.SignDigest(priv, digest)
		require.NoError(t, err)
		assert.Equal(t, 2, src.i)
		assert.True(t, s.VerifyDigest(mustHex(t, testPubHex), digest, sig))
	})

	t.Run("attempt budget from config", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.MaxNonceAttempts = 1
		s, err := New(cfg)
		require.NoError(t, err)
		src := &fixedNonces{ks: []*big.Int{badK.BigInt(), big.NewInt(0x7654321)}}
		s.newNonceSource = func(*big.Int, []byte) nonceSource { return src }

		_, err = s.SignDigest(priv, digest)
		assert.ErrorIs(t, err, ErrNonceExhausted)
		assert.Equal(t, 1, src.i)
	})
}

func TestHashTruncation(t *testing.T) {
	// A 64-byte digest keeps only its leftmost 256 bits.
	long := make([]byte, 64)
	for i := range long {
		long[i] = byte(i + 1)
	}
	h := hashToScalar(long)
	want := field.NewFq(new(big.Int).SetBytes(long[:32]))
	assert.True(t, h.Equal(want))

	// Digests of q's length or shorter are used as is, then reduced.
	short := []byte{0x01, 0x02}
	assert.True(t, hashToScalar(short).Equal(field.FqFromUint64(0x0102)))
	assert.True(t, hashToScalar(curves.P256().N().Bytes()).IsZero())
}

// A key is built so that u*G + v*Q lands on a point whose x-coordinate is
// q+3. The signature (r=3, s=1) is valid only once x is reduced mod q.
func TestVerifyReducesXModQ(t *testing.T) {
	msg := []byte("x above the order")
	xb := new(big.Int).Add(field.Q(), big.NewInt(3)).FillBytes(make([]byte, field.ByteSize))
	R, err := curves.Decode(append([]byte{0x02}, xb...))
	require.NoError(t, err)

	// s = 1 gives u = h and v = r, so Q = r^-1 * (R - h*G).
	h := hashToScalar(Default().Digest(msg))
	rInv, err := field.FqFromUint64(3).Inv()
	require.NoError(t, err)
	q := R.Add(curves.Generator().ScalarMult(h).Neg()).ScalarMult(rInv)
	require.False(t, q.IsInfinity())
	pub := q.Encode(false)

	sig, err := der.MarshalSignature(big.NewInt(3), big.NewInt(1))
	require.NoError(t, err)

	ct := DefaultConfig()
	ct.ConstantTimeVerify = true
	ctScheme, err := New(ct)
	require.NoError(t, err)

	for name, s := range map[string]*Scheme{"default": Default(), "constant time": ctScheme} {
		t.Run(name, func(t *testing.T) {
			assert.NoError(t, s.CheckSignature(pub, msg, sig))
			assert.False(t, s.Verify(pub, []byte("another message"), sig))

			unreduced, err := der.MarshalSignature(new(big.Int).SetBytes(xb), big.NewInt(1))
			require.NoError(t, err)
			assert.ErrorIs(t, s.CheckSignature(pub, msg, unreduced), ErrInvalidSignature)
		})
	}
}

func TestConcurrentUse(t *testing.T) {
	priv := testPriv(t)
	pub := mustHex(t, testPubHex)
	want := mustHex(t, testSigHex)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sig, err := Sign(priv, []byte("sample"))
			if err != nil {
				errs <- err
				return
			}
			if !Verify(pub, []byte("sample"), sig) || string(sig) != string(want) {
				errs <- ErrInvalidSignature
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}
