// Package jwk parses JSON Web Keys (RFC 7517) and computes their
// thumbprints (RFC 7638).
//
// Parsing is structural only: the key material is decoded and validated
// when a verification key is constructed from the JWK.
package jwk

import (
	"bytes"
	"crypto"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"
	jose "github.com/go-jose/go-jose/v3"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/jwtinspect", "jwk")

// Key types
const (
	KeyTypeSymmetric = "oct"
	KeyTypeRSA       = "RSA"
	KeyTypeEC        = "EC"
	KeyTypeOKP       = "OKP"
)

// Curve names
const (
	CurveSecp256k1 = "secp256k1"
	CurveEd25519   = "Ed25519"
)

// Key is a JSON Web Key with members kept in the encoded form
type Key struct {
	KeyType   string `json:"kty"`
	KeyID     string `json:"kid,omitempty"`
	Algorithm string `json:"alg,omitempty"`
	Use       string `json:"use,omitempty"`
	Curve     string `json:"crv,omitempty"`

	// K is the symmetric secret
	K string `json:"k,omitempty"`
	// N is RSA modulus
	N string `json:"n,omitempty"`
	// E is RSA public exponent
	E string `json:"e,omitempty"`
	// X is the public point, or its X coordinate for EC
	X string `json:"x,omitempty"`
	// Y is Y coordinate of the EC public point
	Y string `json:"y,omitempty"`
	// D is the private exponent or scalar
	D string `json:"d,omitempty"`

	// present holds names of all members found in the parsed JSON
	present map[string]bool
}

// UnmarshalJSON implements json.Unmarshaler
func (k *Key) UnmarshalJSON(data []byte) error {
	type plain Key
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	var members map[string]json.RawMessage
	if err := json.Unmarshal(data, &members); err != nil {
		return err
	}

	*k = Key(p)
	k.present = make(map[string]bool, len(members))
	for name := range members {
		k.present[name] = true
	}
	return nil
}

// Has returns true if the member is present in the JWK
func (k *Key) Has(name string) bool {
	if k.present != nil {
		return k.present[name]
	}
	return k.member(name) != ""
}

// Parse returns the JWK decoded from JSON
func Parse(raw []byte) (*Key, error) {
	k := new(Key)
	dec := json.NewDecoder(bytes.NewReader(bytes.TrimSpace(raw)))
	if err := dec.Decode(k); err != nil {
		return nil, MalformedError(err, "unable to parse JWK")
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, MalformedError(nil, "unable to parse JWK: unexpected data after the key")
	}
	if k.KeyType == "" {
		return nil, AbsentFieldError("kty")
	}
	return k, nil
}

// member returns the value of the named member
func (k *Key) member(name string) string {
	switch name {
	case "kty":
		return k.KeyType
	case "crv":
		return k.Curve
	case "k":
		return k.K
	case "n":
		return k.N
	case "e":
		return k.E
	case "x":
		return k.X
	case "y":
		return k.Y
	case "d":
		return k.D
	}
	return ""
}

// Bytes returns base64url-decoded value of the required member
func (k *Key) Bytes(name string) ([]byte, error) {
	if !k.Has(name) {
		return nil, AbsentFieldError(name)
	}
	b, err := base64.RawURLEncoding.DecodeString(k.member(name))
	if err != nil {
		return nil, MalformedError(err, "invalid base64url encoding of `%s`", name)
	}
	return b, nil
}

// requiredMembers returns the members used for the thumbprint, RFC 7638 Section 3.2
func requiredMembers(kty string) ([]string, error) {
	switch kty {
	case KeyTypeSymmetric:
		return []string{"k", "kty"}, nil
	case KeyTypeRSA:
		return []string{"e", "kty", "n"}, nil
	case KeyTypeEC:
		return []string{"crv", "kty", "x", "y"}, nil
	case KeyTypeOKP:
		return []string{"crv", "kty", "x"}, nil
	default:
		return nil, UnsupportedError("unsupported key type: %s", kty)
	}
}

// Thumbprint computes RFC 7638 thumbprint of the key.
// The hash is computed over the required members as they appear in the JWK.
func (k *Key) Thumbprint(hash crypto.Hash) ([]byte, error) {
	names, err := requiredMembers(k.KeyType)
	if err != nil {
		return nil, err
	}

	canonical := make(map[string]string, len(names))
	for _, name := range names {
		if !k.Has(name) {
			return nil, AbsentFieldError(name)
		}
		canonical[name] = k.member(name)
	}

	// encoding/json sorts map keys and emits no whitespace
	js, err := json.Marshal(canonical)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if !hash.Available() {
		return nil, errors.Errorf("hash function is not available: %v", hash)
	}
	h := hash.New()
	_, _ = h.Write(js)
	return h.Sum(nil), nil
}

// SHA256Thumbprint returns base64url-encoded SHA-256 thumbprint of the key
func SHA256Thumbprint(k *Key) (string, error) {
	tb, err := k.Thumbprint(crypto.SHA256)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(tb), nil
}

// IsSigningKey returns true if the JWK contains private key material.
// A symmetric key is always a signing key.
func (k *Key) IsSigningKey() bool {
	if k.KeyType == KeyTypeSymmetric {
		return true
	}
	return k.D != ""
}

// Info describes the key for display
type Info struct {
	// Type is the display type, like "RSA (2048 bits)"
	Type    string `json:"type"`
	KeyType string `json:"kty"`
	Curve   string `json:"crv,omitempty"`
	// Size is the size of RSA modulus or symmetric secret in bits
	Size         int  `json:"size,omitempty"`
	IsSigningKey bool `json:"signing_key"`
}

// Describe returns display information about the key
func (k *Key) Describe() *Info {
	info := &Info{
		KeyType:      k.KeyType,
		IsSigningKey: k.IsSigningKey(),
	}

	switch k.KeyType {
	case KeyTypeRSA:
		n, _ := base64.RawURLEncoding.DecodeString(k.N)
		info.Size = len(n) * 8
		info.Type = fmt.Sprintf("RSA (%d bits)", info.Size)
	case KeyTypeSymmetric:
		secret, _ := base64.RawURLEncoding.DecodeString(k.K)
		info.Size = len(secret) * 8
		info.Type = fmt.Sprintf("Symmetric (%d bytes)", len(secret))
	case KeyTypeEC, KeyTypeOKP:
		info.Curve = k.Curve
		info.Type = fmt.Sprintf("Elliptic curve (%s)", k.Curve)
	default:
		info.Type = fmt.Sprintf("Unknown (%s)", k.KeyType)
	}
	return info
}

// MarshalSymmetric returns JWK for the symmetric secret
func MarshalSymmetric(secret []byte, kid string) ([]byte, error) {
	k := jose.JSONWebKey{
		Key:   secret,
		KeyID: kid,
		Use:   "sig",
	}
	js, err := k.MarshalJSON()
	if err != nil {
		return nil, errors.WithMessage(err, "unable to encode JWK")
	}
	logger.KV(xlog.DEBUG, "reason", "marshal", "kty", KeyTypeSymmetric, "kid", kid)
	return js, nil
}
