// Package inspect combines key construction, token parsing and verification
// into a single report, as presented to the user.
package inspect

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/jwtinspect/fields"
	"github.com/effective-security/jwtinspect/jwk"
	"github.com/effective-security/jwtinspect/jwt"
	"github.com/effective-security/jwtinspect/metricskey"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/jwtinspect", "inspect")

// ErrNoKey is reported when the token cannot be verified
// since no valid verifying key is provided
var ErrNoKey = errors.New("cannot verify integrity since no valid verifying key is provided")

// Status of the inspection
type Status int

// Statuses
const (
	// StatusNone is reported when there is no token to verify
	StatusNone Status = iota
	// StatusVerified is reported when the token is verified
	StatusVerified
	// StatusFailed is reported when the token failed verification
	StatusFailed
)

// String returns the status name
func (s Status) String() string {
	switch s {
	case StatusVerified:
		return "verified"
	case StatusFailed:
		return "failed"
	default:
		return "none"
	}
}

// MarshalText implements encoding.TextMarshaler
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Report is the result of the inspection
type Report struct {
	Status Status

	// Key describes the key used for verification
	Key *jwk.Info
	// KeyThumbprint is base64url SHA-256 thumbprint of the key
	KeyThumbprint string
	// KeyError is *jwk.KeyError if the key cannot be used
	KeyError error

	// Header is the token header
	Header *jwt.Header
	// ParseError is *jwt.ParseError if the token cannot be parsed
	ParseError error

	// Verified is true if the claims are verified,
	// otherwise the claims are untrusted
	Verified bool
	// Error is *jwt.ValidationError or ErrNoKey
	Error error
	// Claims are verified or recovered claims
	Claims *jwt.Claims
	// Groups are claim names grouped by category
	Groups []fields.ClaimGroup
}

// Tip returns a hint to fix the verification error, if any
func (r *Report) Tip() string {
	return Tip(r.Error)
}

// Tip returns a hint to fix the verification error
func Tip(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrNoKey) {
		return "Provide the key in JWK format to verify the token."
	}
	switch jwt.ErrorKind(err) {
	case jwt.InvalidSignature, jwt.AlgorithmMismatch:
		return "Check that the key is appropriate for token verification. " +
			"If the token provides `kid` header, it can be used to identify the key, " +
			"especially if `kid` is a key thumbprint."
	case jwt.MalformedSignature:
		return "Check that the token is pasted fully into the corresponding input."
	case jwt.MalformedClaims:
		return "Check that the token is correctly pasted into the corresponding input."
	}
	return ""
}

// Inspect constructs the key, parses the token and verifies it.
// The key may be a JWK or a JWK set, in which case the key is selected
// by `kid` header of the token.
// Empty inputs are allowed.
func Inspect(rawKey, rawToken string) *Report {
	return InspectWithOptions(rawKey, rawToken, nil)
}

// InspectWithOptions is Inspect with verification options
func InspectWithOptions(rawKey, rawToken string, opts *jwt.VerifyOptions) *Report {
	r := new(Report)
	defer func(started time.Time) {
		metricskey.PerfInspection.MeasureSince(started, r.Status.String())
	}(time.Now())

	var token *jwt.UntrustedToken
	if strings.TrimSpace(rawToken) != "" {
		t, err := jwt.Parse(rawToken)
		if err != nil {
			r.ParseError = err
		} else {
			token = t
			h := t.Header()
			r.Header = &h
		}
	}

	var key jwt.Key
	if strings.TrimSpace(rawKey) != "" {
		kid := ""
		if r.Header != nil {
			kid = r.Header.KeyID
		}
		key = r.loadKey(rawKey, kid)
	}

	if token == nil {
		r.Status = StatusNone
		return r
	}

	if key == nil {
		r.Status = StatusFailed
		r.Error = ErrNoKey
		r.setClaims(jwt.RecoverClaims(token, ErrNoKey))
		return r
	}

	claims, err := jwt.VerifyWithOptions(key, token, opts)
	if err != nil {
		logger.KV(xlog.DEBUG, "reason", "failed", "alg", token.Algorithm(), "err", err.Error())
		r.Status = StatusFailed
		r.Error = err
		r.setClaims(jwt.RecoverClaims(token, err))
		return r
	}

	r.Status = StatusVerified
	r.Verified = true
	r.setClaims(claims)
	return r
}

func (r *Report) loadKey(rawKey, kid string) jwt.Key {
	set, err := jwk.ParseSet([]byte(rawKey))
	if err != nil {
		r.KeyError = err
		return nil
	}
	k, err := set.Find(kid)
	if err != nil {
		r.KeyError = err
		return nil
	}

	r.Key = k.Describe()
	if tb, err := jwk.SHA256Thumbprint(k); err == nil {
		r.KeyThumbprint = tb
	}

	key, err := jwt.NewKey(k)
	if err != nil {
		r.KeyError = err
		return nil
	}
	return key
}

func (r *Report) setClaims(claims *jwt.Claims) {
	r.Claims = claims
	if claims != nil {
		r.Groups = fields.Default().GroupClaims(claims.Names())
	}
}

type errorJSON struct {
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message"`
	Tip     string `json:"tip,omitempty"`
}

type reportJSON struct {
	Status        Status              `json:"status"`
	Key           *jwk.Info           `json:"key,omitempty"`
	KeyThumbprint string              `json:"key_thumbprint,omitempty"`
	KeyError      *errorJSON          `json:"key_error,omitempty"`
	Header        *jwt.Header         `json:"header,omitempty"`
	ParseError    *errorJSON          `json:"parse_error,omitempty"`
	Verified      bool                `json:"verified"`
	Error         *errorJSON          `json:"error,omitempty"`
	Claims        *jwt.Claims         `json:"claims,omitempty"`
	Groups        []fields.ClaimGroup `json:"groups,omitempty"`
}

// MarshalJSON implements json.Marshaler
func (r *Report) MarshalJSON() ([]byte, error) {
	return json.Marshal(&reportJSON{
		Status:        r.Status,
		Key:           r.Key,
		KeyThumbprint: r.KeyThumbprint,
		KeyError:      newErrorJSON(r.KeyError),
		Header:        r.Header,
		ParseError:    newErrorJSON(r.ParseError),
		Verified:      r.Verified,
		Error:         newErrorJSON(r.Error),
		Claims:        r.Claims,
		Groups:        r.Groups,
	})
}

func newErrorJSON(err error) *errorJSON {
	if err == nil {
		return nil
	}
	res := &errorJSON{
		Message: err.Error(),
		Tip:     Tip(err),
	}

	var kerr *jwk.KeyError
	var perr *jwt.ParseError
	var verr *jwt.ValidationError
	switch {
	case errors.As(err, &kerr):
		res.Kind = kerr.Kind.String()
	case errors.As(err, &perr):
		res.Kind = perr.Kind.String()
	case errors.As(err, &verr):
		res.Kind = verr.Kind.String()
	case errors.Is(err, ErrNoKey):
		res.Kind = "no_key"
	}
	return res
}
