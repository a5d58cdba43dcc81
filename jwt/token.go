package jwt

import (
	"encoding/base64"
	"encoding/json"
)

// Thumbprint is a binary digest displayed in base64url encoding
type Thumbprint []byte

// String returns base64url encoding of the thumbprint
func (t Thumbprint) String() string {
	return EncodeSegment(t)
}

// MarshalJSON implements json.Marshaler
func (t Thumbprint) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// Header is the token header
type Header struct {
	// Algorithm is the mandatory `alg` header
	Algorithm string `json:"alg"`
	// TokenType is `typ` header
	TokenType string `json:"typ,omitempty"`
	// KeyID is `kid` header
	KeyID string `json:"kid,omitempty"`
	// KeySetURL is `jku` header
	KeySetURL string `json:"jku,omitempty"`
	// CertificateURL is `x5u` header
	CertificateURL string `json:"x5u,omitempty"`
	// CertificateThumbprint is decoded `x5t#S256` header
	CertificateThumbprint Thumbprint `json:"x5t#S256,omitempty"`
	// Extra holds other header members
	Extra map[string]any `json:"-"`
}

// UntrustedToken is a parsed token whose integrity is not verified.
// It is immutable once parsed.
type UntrustedToken struct {
	raw           string
	header        Header
	signingInput  string
	claimsSegment []byte
	signature     string
}

// Raw returns the token string, as it was parsed
func (t *UntrustedToken) Raw() string {
	return t.raw
}

// Header returns a copy of the token header
func (t *UntrustedToken) Header() Header {
	h := t.header
	h.CertificateThumbprint = append(Thumbprint(nil), t.header.CertificateThumbprint...)
	if t.header.Extra != nil {
		h.Extra = make(map[string]any, len(t.header.Extra))
		for k, v := range t.header.Extra {
			h.Extra[k] = v
		}
	}
	return h
}

// Algorithm returns the algorithm declared in the header
func (t *UntrustedToken) Algorithm() string {
	return t.header.Algorithm
}

// SigningInput returns the `header.payload` part of the token
func (t *UntrustedToken) SigningInput() string {
	return t.signingInput
}

// ClaimsSegment returns base64url-decoded claims, not yet parsed as JSON
func (t *UntrustedToken) ClaimsSegment() []byte {
	return append([]byte(nil), t.claimsSegment...)
}

// SignatureSegment returns the signature segment in base64url encoding
func (t *UntrustedToken) SignatureSegment() string {
	return t.signature
}

// DecodeSegment JWT specific base64url encoding with padding stripped
func DecodeSegment(seg string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(seg)
}

// EncodeSegment returns JWT specific base64url encoding with padding stripped
func EncodeSegment(seg []byte) string {
	return base64.RawURLEncoding.EncodeToString(seg)
}
