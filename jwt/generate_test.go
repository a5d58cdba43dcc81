package jwt_test

import (
	"testing"
	"time"

	"github.com/effective-security/jwtinspect/jwk"
	"github.com/effective-security/jwtinspect/jwt"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomKey(t *testing.T) {
	k1, err := jwt.RandomKey()
	require.NoError(t, err)
	assert.Len(t, k1, jwt.RandomKeySize)

	k2, err := jwt.RandomKey()
	require.NoError(t, err)
	assert.NotEqual(t, k1, k2)
}

func TestGenerateSelfTest(t *testing.T) {
	st, err := jwt.GenerateSelfTest()
	require.NoError(t, err)
	_, err = uuid.Parse(st.KeyID)
	require.NoError(t, err)

	k, err := jwk.Parse(st.JWK)
	require.NoError(t, err)
	assert.Equal(t, jwk.KeyTypeSymmetric, k.KeyType)
	assert.Equal(t, st.KeyID, k.KeyID)
	assert.Equal(t, "Symmetric (64 bytes)", k.Describe().Type)

	token := mustParse(t, st.Token)
	h := token.Header()
	assert.Equal(t, "HS256", h.Algorithm)
	assert.Equal(t, "JWT", h.TokenType)
	assert.Equal(t, st.KeyID, h.KeyID)

	key, err := jwt.NewKey(k)
	require.NoError(t, err)
	claims, err := jwt.Verify(key, token)
	require.NoError(t, err)

	assert.Equal(t, jwt.SelfTestIssuer, claims.String("iss"))
	assert.Equal(t, []any{jwt.SelfTestIssuer, "https://example.com"}, claims.Custom["aud"])
	_, err = uuid.Parse(claims.String("sub"))
	assert.NoError(t, err)
	_, err = uuid.Parse(claims.String("jti"))
	assert.NoError(t, err)
	assert.NotEqual(t, claims.String("sub"), claims.String("jti"))

	require.NotNil(t, claims.IssuedAt)
	require.NotNil(t, claims.Expiration)
	assert.Equal(t, time.Hour, claims.Expiration.Sub(*claims.IssuedAt))
}

func TestRandomTokenExpires(t *testing.T) {
	secret, err := jwt.RandomKey()
	require.NoError(t, err)

	saved := jwt.TimeNowFn
	defer func() { jwt.TimeNowFn = saved }()
	jwt.TimeNowFn = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	raw, err := jwt.RandomToken(secret, "")
	require.NoError(t, err)
	token := mustParse(t, raw)
	assert.Empty(t, token.Header().KeyID)

	jwt.TimeNowFn = saved
	_, err = jwt.Verify(jwt.NewSymmetricKey(secret), token)
	require.Error(t, err)
	assert.Equal(t, jwt.Expired, jwt.ErrorKind(err))
}
