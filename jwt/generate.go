package jwt

import (
	"crypto/rand"
	"encoding/json"
	"io"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/jwtinspect/jwk"
	"github.com/effective-security/xlog"
	jwtgo "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// RandomKeySize is the size of generated symmetric key
const RandomKeySize = 64

// SelfTestIssuer is the issuer of generated tokens
const SelfTestIssuer = "https://justwebtoken.io/"

// SelfTestLifetime is the lifetime of generated tokens
const SelfTestLifetime = time.Hour

var randReader io.Reader = rand.Reader

// RandomKey returns random secret for HS256
func RandomKey() ([]byte, error) {
	secret := make([]byte, RandomKeySize)
	if _, err := io.ReadFull(randReader, secret); err != nil {
		return nil, errors.WithMessage(err, "cannot access CSPRNG")
	}
	return secret, nil
}

// RandomToken returns HS256 token signed with the secret.
// The token has `kid` header and the registered claims with random
// `sub` and `jti`, expiring in one hour.
func RandomToken(secret []byte, kid string) (string, error) {
	sub, err := uuid.NewRandomFromReader(randReader)
	if err != nil {
		return "", errors.WithMessage(err, "cannot access CSPRNG")
	}
	jti, err := uuid.NewRandomFromReader(randReader)
	if err != nil {
		return "", errors.WithMessage(err, "cannot access CSPRNG")
	}

	now := TimeNowFn().UTC()
	claims := jwtgo.MapClaims{
		"iss": SelfTestIssuer,
		"sub": sub.String(),
		"jti": jti.String(),
		"aud": []string{SelfTestIssuer, "https://example.com"},
		"iat": now.Unix(),
		"exp": now.Add(SelfTestLifetime).Unix(),
	}

	token := jwtgo.NewWithClaims(jwtgo.SigningMethodHS256, claims)
	if kid != "" {
		token.Header["kid"] = kid
	}
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", errors.WithMessage(err, "unable to sign token")
	}
	return signed, nil
}

// SelfTest contains generated key and token signed by it
type SelfTest struct {
	KeyID string `json:"kid"`
	// JWK is the generated key in JWK format
	JWK json.RawMessage `json:"jwk"`
	// Token is the generated token
	Token string `json:"token"`
}

// GenerateSelfTest returns random symmetric key and a token signed by it,
// the key ID is a random UUID
func GenerateSelfTest() (*SelfTest, error) {
	secret, err := RandomKey()
	if err != nil {
		return nil, err
	}
	id, err := uuid.NewRandomFromReader(randReader)
	if err != nil {
		return nil, errors.WithMessage(err, "cannot access CSPRNG")
	}
	kid := id.String()

	js, err := jwk.MarshalSymmetric(secret, kid)
	if err != nil {
		return nil, err
	}
	token, err := RandomToken(secret, kid)
	if err != nil {
		return nil, err
	}

	logger.KV(xlog.DEBUG, "reason", "self_test", "kid", kid)
	return &SelfTest{KeyID: kid, JWK: js, Token: token}, nil
}
