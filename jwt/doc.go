// Package jwt parses JSON Web Tokens in the compact serialization (RFC 7519),
// verifies them with keys constructed from JWK, and classifies the failures.
//
// Supported algorithms:
//   - HS256, HS384, HS512 with a symmetric key
//   - RS256, RS384, RS512, PS256, PS384, PS512 with RSA key
//   - EdDSA with Ed25519 key
//   - ES256K with secp256k1 key
//
// A token that failed verification can still be inspected,
// see RecoverClaims.
package jwt

import "github.com/effective-security/xlog"

var logger = xlog.NewPackageLogger("github.com/effective-security/jwtinspect", "jwt")
