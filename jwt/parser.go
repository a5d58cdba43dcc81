package jwt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"
)

// ParseErrorKind specifies the reason of the parsing failure
type ParseErrorKind int

// Parse error kinds
const (
	// InvalidTokenStructure is returned if the token does not have 3 segments
	InvalidTokenStructure ParseErrorKind = iota + 1
	// InvalidBase64 is returned if a segment is not base64url encoded
	InvalidBase64
	// InvalidJSON is returned if the header is not a valid JSON object
	InvalidJSON
)

// String returns the kind name
func (k ParseErrorKind) String() string {
	switch k {
	case InvalidTokenStructure:
		return "invalid_token_structure"
	case InvalidBase64:
		return "invalid_base64"
	case InvalidJSON:
		return "invalid_json"
	}
	return fmt.Sprintf("ParseErrorKind(%d)", int(k))
}

// ParseError is returned when the token cannot be parsed
type ParseError struct {
	Kind ParseErrorKind
	Err  error
}

// Error returns the error message
func (e *ParseError) Error() string {
	switch e.Kind {
	case InvalidTokenStructure:
		return "invalid token structure"
	case InvalidBase64:
		return "invalid base64 decoding: " + e.Err.Error()
	default:
		return "malformed token header: " + e.Err.Error()
	}
}

// Unwrap returns the cause
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parse returns untrusted token in the compact serialization.
// Leading and trailing whitespace is ignored.
func Parse(raw string) (*UntrustedToken, error) {
	raw = strings.TrimSpace(raw)
	parts := strings.Split(raw, ".")
	if len(parts) != 3 {
		logger.KV(xlog.DEBUG, "reason", "structure", "segments", len(parts))
		return nil, &ParseError{Kind: InvalidTokenStructure}
	}

	headerJSON, err := DecodeSegment(parts[0])
	if err != nil {
		return nil, &ParseError{Kind: InvalidBase64, Err: errors.WithMessage(err, "header")}
	}
	claimsJSON, err := DecodeSegment(parts[1])
	if err != nil {
		return nil, &ParseError{Kind: InvalidBase64, Err: errors.WithMessage(err, "claims")}
	}

	header, err := parseHeader(headerJSON)
	if err != nil {
		return nil, &ParseError{Kind: InvalidJSON, Err: err}
	}

	return &UntrustedToken{
		raw:           raw,
		header:        *header,
		signingInput:  parts[0] + "." + parts[1],
		claimsSegment: claimsJSON,
		signature:     parts[2],
	}, nil
}

func parseHeader(raw []byte) (*Header, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var members map[string]any
	if err := dec.Decode(&members); err != nil {
		return nil, errors.WithStack(err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("unexpected data after the header")
	}
	if members == nil {
		return nil, errors.New("header must be an object")
	}

	h := new(Header)
	strs := []struct {
		name string
		dst  *string
	}{
		{"alg", &h.Algorithm},
		{"typ", &h.TokenType},
		{"kid", &h.KeyID},
		{"jku", &h.KeySetURL},
		{"x5u", &h.CertificateURL},
	}
	for _, s := range strs {
		v, ok := members[s.name]
		if !ok {
			continue
		}
		str, ok := v.(string)
		if !ok {
			return nil, errors.Errorf("`%s` must be a string", s.name)
		}
		*s.dst = str
		delete(members, s.name)
	}
	if h.Algorithm == "" {
		return nil, errors.New("missing field `alg`")
	}

	if v, ok := members["x5t#S256"]; ok {
		str, ok := v.(string)
		if !ok {
			return nil, errors.New("`x5t#S256` must be a string")
		}
		tb, err := DecodeSegment(str)
		if err != nil {
			return nil, errors.WithMessage(err, "invalid `x5t#S256`")
		}
		h.CertificateThumbprint = tb
		delete(members, "x5t#S256")
	}

	if len(members) > 0 {
		h.Extra = members
	}
	return h, nil
}
