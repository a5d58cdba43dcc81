package jwt

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/jwtinspect/metricskey"
	"github.com/effective-security/xlog"
)

// TimeNowFn to override in unit tests
var TimeNowFn = time.Now

// VerifyOptions specifies options for token verification
type VerifyOptions struct {
	// Leeway is allowed clock skew for `exp` and `nbf` checks
	Leeway time.Duration
	// Now returns the current time, TimeNowFn is used if not set
	Now func() time.Time
}

func (o *VerifyOptions) now() time.Time {
	if o != nil && o.Now != nil {
		return o.Now()
	}
	return TimeNowFn()
}

func (o *VerifyOptions) leeway() time.Duration {
	if o == nil || o.Leeway < 0 {
		return 0
	}
	return o.Leeway
}

// Verify checks the token integrity with the key and returns its claims.
// The returned error is *ValidationError.
func Verify(key Key, token *UntrustedToken) (*Claims, error) {
	return VerifyWithOptions(key, token, nil)
}

// VerifyWithOptions checks the token integrity with the key and returns its claims.
// The checks are performed in order: the algorithm family, the signature,
// the claims encoding, then `exp` and `nbf` against a single sampled time.
// The returned error is *ValidationError.
func VerifyWithOptions(key Key, token *UntrustedToken, opts *VerifyOptions) (claims *Claims, err error) {
	alg, known := LookupAlgorithm(token.Algorithm())

	defer func(started time.Time) {
		algTag := alg.Name
		if !known {
			algTag = "unknown"
		}
		result := "ok"
		if err != nil {
			result = ErrorKind(err).String()
		}
		metricskey.PerfVerification.MeasureSince(started, algTag, result)
	}(time.Now())

	if key == nil {
		return nil, validationError(Other, errors.New("verification key is not provided"))
	}

	if !known || alg.Family != key.Family() {
		logger.KV(xlog.DEBUG,
			"reason", "algorithm_mismatch",
			"alg", token.Algorithm(),
			"family", key.Family(),
		)
		return nil, &ValidationError{
			Kind:     AlgorithmMismatch,
			Expected: key.Family().Expected(),
			Actual:   token.Algorithm(),
		}
	}

	sig, err := DecodeSegment(token.SignatureSegment())
	if err != nil {
		return nil, validationError(MalformedSignature, errors.WithStack(err))
	}
	if alg.SignatureSize > 0 && len(sig) != alg.SignatureSize {
		return nil, validationError(MalformedSignature,
			errors.Errorf("unexpected signature length: expected %d, actual %d", alg.SignatureSize, len(sig)))
	}

	if err = key.verifySignature(alg, token.SigningInput(), sig); err != nil {
		logger.KV(xlog.DEBUG, "reason", "invalid_signature", "alg", alg.Name, "err", err.Error())
		return nil, validationError(InvalidSignature, err)
	}

	claims, err = decodeClaims(token.claimsSegment)
	if err != nil {
		return nil, validationError(MalformedClaims, err)
	}

	now := opts.now()
	leeway := opts.leeway()
	if claims.Expiration != nil && claims.Expiration.Before(now.Add(-leeway)) {
		logger.KV(xlog.DEBUG, "reason", "expired", "exp", claims.Expiration, "now", now)
		return nil, validationError(Expired, nil)
	}
	if claims.NotBefore != nil && claims.NotBefore.After(now.Add(leeway)) {
		logger.KV(xlog.DEBUG, "reason", "not_yet_valid", "nbf", claims.NotBefore, "now", now)
		return nil, validationError(NotYetValid, nil)
	}

	return claims, nil
}
