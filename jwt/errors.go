package jwt

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// ValidationErrorKind specifies the reason of the verification failure
type ValidationErrorKind int

// Validation error kinds
const (
	// AlgorithmMismatch is returned when the token algorithm does not belong to the key family
	AlgorithmMismatch ValidationErrorKind = iota + 1
	// InvalidSignature is returned when the signature does not match
	InvalidSignature
	// MalformedSignature is returned when the signature cannot be decoded
	MalformedSignature
	// MalformedClaims is returned when the claims cannot be decoded
	MalformedClaims
	// Expired is returned when the token is expired
	Expired
	// NotYetValid is returned when the token is not valid yet
	NotYetValid
	// Other is returned for all other errors
	Other
)

var kindNames = map[ValidationErrorKind]string{
	AlgorithmMismatch:  "algorithm_mismatch",
	InvalidSignature:   "invalid_signature",
	MalformedSignature: "malformed_signature",
	MalformedClaims:    "malformed_claims",
	Expired:            "expired",
	NotYetValid:        "not_yet_valid",
	Other:              "other",
}

// String returns the kind name, suitable for metric tags
func (k ValidationErrorKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("ValidationErrorKind(%d)", int(k))
}

// ValidationError is returned when the token fails verification
type ValidationError struct {
	Kind ValidationErrorKind
	// Expected is the algorithm family label of the key, for AlgorithmMismatch
	Expected string
	// Actual is the token algorithm, for AlgorithmMismatch
	Actual string
	// Err is the underlying error
	Err error
}

// Error returns the error message
func (e *ValidationError) Error() string {
	switch e.Kind {
	case AlgorithmMismatch:
		return fmt.Sprintf("token algorithm (%s) differs from expected (%s)", e.Actual, e.Expected)
	case InvalidSignature:
		return "signature has failed verification"
	case MalformedSignature:
		return "malformed token signature: " + e.cause()
	case MalformedClaims:
		return "cannot deserialize claims: " + e.cause()
	case Expired:
		return "token has expired"
	case NotYetValid:
		return "token is not yet ready"
	default:
		return e.cause()
	}
}

func (e *ValidationError) cause() string {
	if e.Err == nil {
		return "unknown error"
	}
	return e.Err.Error()
}

// Unwrap returns the cause
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Is returns true if target is ValidationError of the same kind.
// It allows errors.Is(err, &ValidationError{Kind: Expired}).
func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	return ok && t.Kind == e.Kind
}

func validationError(kind ValidationErrorKind, err error) *ValidationError {
	return &ValidationError{Kind: kind, Err: err}
}

// ErrorKind returns the kind of ValidationError in the chain,
// or zero if err is not a validation error
func ErrorKind(err error) ValidationErrorKind {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Kind
	}
	return 0
}
