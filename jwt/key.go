package jwt

import (
	"crypto/ed25519"
	"crypto/rsa"
	"crypto/sha256"
	"math/big"
	"time"

	"filippo.io/edwards25519"
	"github.com/cockroachdb/errors"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/effective-security/jwtinspect/jwk"
	"github.com/effective-security/jwtinspect/metricskey"
	"github.com/effective-security/xlog"
)

// Key is a verification key of one of the supported families:
// *SymmetricKey, *RSAKey, *Ed25519Key or *K256Key.
// Keys are immutable.
type Key interface {
	// Family returns the algorithm family of the key
	Family() Family

	verifySignature(alg Algorithm, signingInput string, sig []byte) error
}

// SymmetricKey is a secret for HMAC algorithms
type SymmetricKey struct {
	secret []byte
}

// NewSymmetricKey returns HMAC key; the secret is copied
func NewSymmetricKey(secret []byte) *SymmetricKey {
	return &SymmetricKey{secret: append([]byte(nil), secret...)}
}

// Family returns FamilySymmetric
func (k *SymmetricKey) Family() Family { return FamilySymmetric }

// Size returns the size of the secret in bytes
func (k *SymmetricKey) Size() int { return len(k.secret) }

func (k *SymmetricKey) verifySignature(alg Algorithm, signingInput string, sig []byte) error {
	return alg.method.Verify(signingInput, sig, k.secret)
}

// RSAKey is a public key for RS* and PS* algorithms
type RSAKey struct {
	pub *rsa.PublicKey
}

// NewRSAKey returns RSA key
func NewRSAKey(pub *rsa.PublicKey) *RSAKey {
	return &RSAKey{pub: &rsa.PublicKey{N: new(big.Int).Set(pub.N), E: pub.E}}
}

// Family returns FamilyRSA
func (k *RSAKey) Family() Family { return FamilyRSA }

// Bits returns the size of the modulus
func (k *RSAKey) Bits() int { return k.pub.N.BitLen() }

func (k *RSAKey) verifySignature(alg Algorithm, signingInput string, sig []byte) error {
	return alg.method.Verify(signingInput, sig, k.pub)
}

// Ed25519Key is a public key for EdDSA algorithm
type Ed25519Key struct {
	pub ed25519.PublicKey
}

// NewEd25519Key returns Ed25519 key, or error if the public key is not
// a valid point encoding
func NewEd25519Key(pub ed25519.PublicKey) (*Ed25519Key, error) {
	if len(pub) != ed25519.PublicKeySize {
		return nil, errors.Errorf("invalid Ed25519 public key size: %d", len(pub))
	}
	if _, err := new(edwards25519.Point).SetBytes(pub); err != nil {
		return nil, errors.WithMessage(err, "invalid Ed25519 public key")
	}
	return &Ed25519Key{pub: append(ed25519.PublicKey(nil), pub...)}, nil
}

// Family returns FamilyEd25519
func (k *Ed25519Key) Family() Family { return FamilyEd25519 }

func (k *Ed25519Key) verifySignature(alg Algorithm, signingInput string, sig []byte) error {
	return alg.method.Verify(signingInput, sig, k.pub)
}

// K256Key is a public key on secp256k1 curve for ES256K algorithm
type K256Key struct {
	pub *secp256k1.PublicKey
}

// NewK256Key returns secp256k1 key
func NewK256Key(pub *secp256k1.PublicKey) *K256Key {
	return &K256Key{pub: pub}
}

// Family returns FamilyK256
func (k *K256Key) Family() Family { return FamilyK256 }

func (k *K256Key) verifySignature(_ Algorithm, signingInput string, sig []byte) error {
	var r, s secp256k1.ModNScalar
	if overflow := r.SetByteSlice(sig[:32]); overflow || r.IsZero() {
		return errors.New("signature R is out of range")
	}
	if overflow := s.SetByteSlice(sig[32:]); overflow || s.IsZero() {
		return errors.New("signature S is out of range")
	}
	if s.IsOverHalfOrder() {
		return errors.New("signature S is not normalized")
	}

	digest := sha256.Sum256([]byte(signingInput))
	if !ecdsa.NewSignature(&r, &s).Verify(digest[:], k.pub) {
		return errors.New("ES256K signature is invalid")
	}
	return nil
}

// NewKey returns verification key for the JWK.
// The returned error is *jwk.KeyError.
func NewKey(k *jwk.Key) (key Key, err error) {
	defer func(started time.Time) {
		result := "ok"
		if err != nil {
			result = "error"
		}
		metricskey.PerfKeyConstruction.MeasureSince(started, k.KeyType, result)
	}(time.Now())

	switch k.KeyType {
	case jwk.KeyTypeSymmetric:
		secret, err := k.Bytes("k")
		if err != nil {
			return nil, err
		}
		return &SymmetricKey{secret: secret}, nil

	case jwk.KeyTypeRSA:
		key, err := newRSAKey(k)
		if err != nil {
			return nil, err
		}
		return key, nil

	case jwk.KeyTypeOKP:
		if err := expectCurve(k, jwk.CurveEd25519); err != nil {
			return nil, err
		}
		x, err := k.Bytes("x")
		if err != nil {
			return nil, err
		}
		key, err := NewEd25519Key(x)
		if err != nil {
			return nil, jwk.MalformedError(err, "invalid Ed25519 key")
		}
		return key, nil

	case jwk.KeyTypeEC:
		if err := expectCurve(k, jwk.CurveSecp256k1); err != nil {
			return nil, err
		}
		key, err := newK256Key(k)
		if err != nil {
			return nil, err
		}
		return key, nil
	}

	logger.KV(xlog.DEBUG, "reason", "unsupported", "kty", k.KeyType)
	return nil, jwk.UnexpectedValueError("kty", "oct, RSA, OKP or EC", k.KeyType)
}

func expectCurve(k *jwk.Key, crv string) error {
	if !k.Has("crv") {
		return jwk.AbsentFieldError("crv")
	}
	if k.Curve != crv {
		return jwk.UnexpectedValueError("crv", crv, k.Curve)
	}
	return nil
}

func newRSAKey(k *jwk.Key) (*RSAKey, error) {
	nb, err := k.Bytes("n")
	if err != nil {
		return nil, err
	}
	eb, err := k.Bytes("e")
	if err != nil {
		return nil, err
	}

	n := new(big.Int).SetBytes(nb)
	if n.Sign() == 0 || n.Bit(0) == 0 {
		return nil, jwk.MalformedError(nil, "invalid RSA modulus")
	}
	e := new(big.Int).SetBytes(eb)
	if !e.IsInt64() || e.Int64() < 2 || e.Int64() > 1<<31-1 {
		return nil, jwk.MalformedError(nil, "invalid RSA public exponent")
	}

	return &RSAKey{pub: &rsa.PublicKey{N: n, E: int(e.Int64())}}, nil
}

func newK256Key(k *jwk.Key) (*K256Key, error) {
	x, err := k.Bytes("x")
	if err != nil {
		return nil, err
	}
	y, err := k.Bytes("y")
	if err != nil {
		return nil, err
	}
	if len(x) != 32 || len(y) != 32 {
		return nil, jwk.MalformedError(nil, "invalid secp256k1 point coordinates size")
	}

	uncompressed := make([]byte, 0, 65)
	uncompressed = append(uncompressed, 0x04)
	uncompressed = append(uncompressed, x...)
	uncompressed = append(uncompressed, y...)

	pub, err := secp256k1.ParsePubKey(uncompressed)
	if err != nil {
		return nil, jwk.MalformedError(err, "invalid secp256k1 key")
	}
	return &K256Key{pub: pub}, nil
}
