package print_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/effective-security/jwtinspect/fields"
	"github.com/effective-security/jwtinspect/inspect"
	"github.com/effective-security/jwtinspect/jwk"
	"github.com/effective-security/jwtinspect/jwt"
	"github.com/effective-security/jwtinspect/x/print"
	"github.com/stretchr/testify/assert"
)

const (
	hs256Token = "eyJ0eXAiOiJKV1QiLA0KICJhbGciOiJIUzI1NiJ9." +
		"eyJpc3MiOiJqb2UiLA0KICJleHAiOjEzMDA4MTkzODAsDQogImh0dHA6Ly9leGFtcGxlLmNvbS9pc19yb290Ijp0cnVlfQ." +
		"dBjftJeZ4CVP-mB92K27uhbUJU1p1r_wW1gFWFOEjXk"
	hs256JWK = `{"kty":"oct","k":"AyM1SysPpbyDfgZld3umj1qzKObwVMkoqQ-EstJQLr_T-1qS0gZH75aKtMN3Yj0iPS4hcgUuTwjAzZr1Z9CAow"}`
	k256JWK  = `{"crv":"secp256k1","kty":"EC","x":"IMZEVh0rQx-QkffNRvdOtM0eUmlWEs6n9RXLUwd4KTQ","y":"TAWfWF5I1G8CKS0JN0RO2hgPPlzboRsjVIuCfjfYmeI"}`
)

func TestReport(t *testing.T) {
	w := bytes.NewBuffer([]byte{})
	print.Report(w, inspect.Inspect(k256JWK, hs256Token))

	out := w.String()
	assert.Contains(t, out, "Key: Elliptic curve (secp256k1)\n")
	assert.Contains(t, out, "Usage: verification\n")
	assert.Contains(t, out, "Thumbprint: WXjRM2dXofF2PGP339yJXhia89VsAQRBMZA5_lWuYFY\n")
	assert.Contains(t, out, "Status: failed\n")
	assert.Contains(t, out, "Error: token algorithm (HS256) differs from expected (ES256K)\n")
	assert.Contains(t, out, "Tip: Check that the key is appropriate")
	assert.Contains(t, out, "Claims (untrusted):\n")
	assert.Contains(t, out, "Issuer")
	assert.Contains(t, out, "joe")
	assert.Contains(t, out, "2011-03-22T18:43:00Z")
	assert.Contains(t, out, "http://example.com/is_root")
	assert.Contains(t, out, fields.UnknownCategoryTitle)
	assert.NotContains(t, out, "Key error:")
}

func TestReportVerified(t *testing.T) {
	w := bytes.NewBuffer([]byte{})
	r := inspect.InspectWithOptions(hs256JWK, hs256Token, &jwt.VerifyOptions{
		Now: func() time.Time { return time.Date(2011, 3, 22, 0, 0, 0, 0, time.UTC) },
	})
	print.Report(w, r)

	out := w.String()
	assert.Contains(t, out, "Key: Symmetric (64 bytes)\n")
	assert.Contains(t, out, "Usage: signing and verification\n")
	assert.Contains(t, out, "Status: verified\n")
	assert.Contains(t, out, "Claims:\n")
	assert.NotContains(t, out, "Error:")
	assert.Contains(t, out, "true")
}

func TestReportErrors(t *testing.T) {
	w := bytes.NewBuffer([]byte{})
	print.Report(w, inspect.Inspect(`{"kty":"EC","crv":"P-256","x":"","y":""}`, "bogus"))

	out := w.String()
	assert.Contains(t, out, "Key error: `crv` has unexpected value (expected: secp256k1, actual: P-256)\n")
	assert.Contains(t, out, "Token error: invalid token structure\n")
	assert.Contains(t, out, "Status: none\n")
	assert.NotContains(t, out, "Claims")
}

func TestHeader(t *testing.T) {
	header := `{"alg":"HS256","kid":"key-1","x5t#S256":"AQID","cty":"custom","n":1}`
	token, err := jwt.Parse(jwt.EncodeSegment([]byte(header)) + ".e30.")
	assert.NoError(t, err)

	h := token.Header()
	w := bytes.NewBuffer([]byte{})
	print.Header(w, &h)

	out := w.String()
	assert.Contains(t, out, "Key ID")
	assert.Contains(t, out, "key-1")
	assert.Contains(t, out, "AQID")
	assert.Contains(t, out, "custom")
}

func TestHeaderExtraNotJSON(t *testing.T) {
	h := &jwt.Header{
		Algorithm: "HS256",
		Extra: map[string]any{
			"ch":   make(chan int),
			"crit": []any{"b64"},
		},
	}
	w := bytes.NewBuffer([]byte{})
	print.Header(w, h)

	out := w.String()
	assert.Contains(t, out, "HS256")
	assert.Contains(t, out, `["b64"]`)
}

func TestKeyInfo(t *testing.T) {
	k, err := jwk.Parse([]byte(hs256JWK))
	assert.NoError(t, err)

	w := bytes.NewBuffer([]byte{})
	print.KeyInfo(w, k.Describe(), "")
	assert.Equal(t, "Key: Symmetric (64 bytes)\nUsage: signing and verification\n", w.String())
}

func TestFields(t *testing.T) {
	w := bytes.NewBuffer([]byte{})
	print.Fields(w, fields.Default(), false)
	out := w.String()
	assert.Contains(t, out, "Expiration timestamp")
	assert.Contains(t, out, "preferred_username")
	assert.NotContains(t, out, "x5t#S256")

	w.Reset()
	print.Fields(w, fields.Default(), true)
	out = w.String()
	assert.Contains(t, out, "x5t#S256")
	assert.Contains(t, out, "Key ID")
	assert.NotContains(t, out, "preferred_username")
}

func TestJSON(t *testing.T) {
	w := bytes.NewBuffer([]byte{})
	print.JSON(w, map[string]string{"status": "none"})
	assert.Equal(t, "{\n  \"status\": \"none\"\n}\n", w.String())
}
