package jwt

import (
	"github.com/effective-security/xlog"
)

// DecodeClaimsUnchecked returns the token claims without verifying its integrity
func DecodeClaimsUnchecked(token *UntrustedToken) (*Claims, error) {
	return decodeClaims(token.claimsSegment)
}

// RecoverClaims returns claims of the token that failed verification,
// to be displayed as untrusted.
// It returns nil if the failure was caused by malformed claims,
// or if the claims cannot be decoded.
func RecoverClaims(token *UntrustedToken, cause error) *Claims {
	if ErrorKind(cause) == MalformedClaims {
		return nil
	}
	claims, err := DecodeClaimsUnchecked(token)
	if err != nil {
		logger.KV(xlog.DEBUG, "reason", "recover", "err", err.Error())
		return nil
	}
	return claims
}
