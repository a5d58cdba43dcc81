package jwk

import "fmt"

// KeyErrorKind classifies key construction errors
type KeyErrorKind int

const (
	// KeyUnsupported is returned for unknown key types and missing members
	KeyUnsupported KeyErrorKind = iota
	// KeyMalformed is returned for invalid JSON or invalid key material
	KeyMalformed
	// KeyUnsupportedCurve is returned for a curve other than the supported one
	KeyUnsupportedCurve
	// KeyNotFound is returned when a key set has no key for the token
	KeyNotFound
)

func (k KeyErrorKind) String() string {
	switch k {
	case KeyUnsupported:
		return "unsupported"
	case KeyMalformed:
		return "malformed"
	case KeyUnsupportedCurve:
		return "unsupported_curve"
	case KeyNotFound:
		return "not_found"
	default:
		return fmt.Sprintf("KeyErrorKind(%d)", int(k))
	}
}

// KeyError is returned when a JWK is present but cannot be used
type KeyError struct {
	Kind    KeyErrorKind
	Message string
	// Err is the upstream error, if any
	Err error
}

// Error implements the error interface
func (e *KeyError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

// Unwrap returns the upstream error
func (e *KeyError) Unwrap() error {
	return e.Err
}

// UnsupportedError returns KeyUnsupported error
func UnsupportedError(format string, args ...any) *KeyError {
	return &KeyError{Kind: KeyUnsupported, Message: fmt.Sprintf(format, args...)}
}

// MalformedError returns KeyMalformed error wrapping err
func MalformedError(err error, format string, args ...any) *KeyError {
	return &KeyError{Kind: KeyMalformed, Message: fmt.Sprintf(format, args...), Err: err}
}

// AbsentFieldError returns error for a missing required member
func AbsentFieldError(field string) *KeyError {
	return UnsupportedError("field `%s` is absent from JWK", field)
}

// UnexpectedValueError returns error for a member with unexpected value.
// The error for the `crv` member is classified as KeyUnsupportedCurve.
func UnexpectedValueError(field, expected, actual string) *KeyError {
	kind := KeyUnsupported
	if field == "crv" {
		kind = KeyUnsupportedCurve
	}
	return &KeyError{
		Kind:    kind,
		Message: fmt.Sprintf("`%s` has unexpected value (expected: %s, actual: %s)", field, expected, actual),
	}
}
