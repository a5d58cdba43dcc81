package cli

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/effective-security/jwtinspect/inspect"
	"github.com/effective-security/jwtinspect/jwt"
)

const hs256Thumbprint = "y_x3gCJnL6oKGBBIXScabduwxTVy2Wd2bzRVEUbdUzc"

func (s *testSuite) TestVerifyExpired() {
	cmd := VerifyCmd{
		Token: "testdata/hs256.jwt",
		Key:   "testdata/hs256.jwk",
	}
	err := cmd.Run(s.ctl)
	s.EqualError(err, "token is not verified: token has expired")
	s.HasText("Key: Symmetric (64 bytes)\n",
		"Thumbprint: "+hs256Thumbprint+"\n",
		"Status: failed\n",
		"Error: token has expired\n",
		"Claims (untrusted):\n",
		"joe",
	)
	s.HasNoText("Tip:")
}

func (s *testSuite) TestVerifyLeeway() {
	cmd := VerifyCmd{
		Token:  "testdata/hs256.jwt",
		Key:    "testdata/hs256.jwk",
		Leeway: 30 * 365 * 24 * time.Hour,
	}
	err := cmd.Run(s.ctl)
	s.Require().NoError(err)
	s.HasText("Status: verified\n", "Claims:\n", "2011-03-22T18:43:00Z")
	s.HasNoText("Error:", "untrusted")
}

func (s *testSuite) TestVerifyMismatch() {
	cmd := VerifyCmd{
		Token: "testdata/hs256.jwt",
		Key:   "testdata/k256.jwk",
	}
	err := cmd.Run(s.ctl)
	s.EqualError(err, "token is not verified: token algorithm (HS256) differs from expected (ES256K)")
	s.HasText("Key: Elliptic curve (secp256k1)\n", "Tip: Check that the key is appropriate")
}

func (s *testSuite) TestVerifyNoKey() {
	cmd := VerifyCmd{
		Token: "testdata/hs256.jwt",
	}
	err := cmd.Run(s.ctl)
	s.EqualError(err, "token is not verified: "+inspect.ErrNoKey.Error())
	s.HasText("Tip: Provide the key in JWK format to verify the token.\n", "Claims (untrusted):\n")
	s.HasNoText("Key:")
}

func (s *testSuite) TestVerifyUnsupportedKey() {
	cmd := VerifyCmd{
		Token: "testdata/hs256.jwt",
		Key:   "testdata/p256.jwk",
	}
	err := cmd.Run(s.ctl)
	s.Error(err)
	s.HasText("Key error: `crv` has unexpected value (expected: secp256k1, actual: secp256r1)\n")
}

func (s *testSuite) TestVerifyJSON() {
	cmd := VerifyCmd{
		Token: "testdata/hs256.jwt",
		Key:   "testdata/k256.jwk",
		JSON:  true,
	}
	err := cmd.Run(s.ctl)
	s.Error(err)

	var m map[string]any
	s.Require().NoError(json.Unmarshal(s.Out.Bytes(), &m))
	s.Equal("failed", m["status"])
	s.Equal("algorithm_mismatch", m["error"].(map[string]any)["kind"])
	s.Equal("joe", m["claims"].(map[string]any)["iss"])
}

func (s *testSuite) TestVerifyStdin() {
	s.ctl.WithReader(strings.NewReader("  not a token\n"))
	cmd := VerifyCmd{
		Token: "-",
		Key:   "testdata/hs256.jwk",
	}
	err := cmd.Run(s.ctl)
	s.EqualError(err, "unable to parse token: invalid token structure")
	s.HasText("Token error: invalid token structure\n", "Status: none\n")

	s.Out.Reset()
	s.ctl.WithReader(strings.NewReader("\n"))
	err = cmd.Run(s.ctl)
	s.EqualError(err, "token is not provided")
	s.HasText("Status: none\n")
}

func (s *testSuite) TestVerifyInputErrors() {
	cmd := VerifyCmd{
		Token: "-",
		Key:   "-",
	}
	err := cmd.Run(s.ctl)
	s.EqualError(err, "only one of the key or token can be read from stdin")

	cmd = VerifyCmd{
		Token: "testdata/hs256.jwt",
		Key:   "testdata/missing.jwk",
	}
	err = cmd.Run(s.ctl)
	s.Require().Error(err)
	s.Contains(err.Error(), "unable to load key")

	cmd = VerifyCmd{
		Token: "testdata/missing.jwt",
	}
	err = cmd.Run(s.ctl)
	s.Require().Error(err)
	s.Contains(err.Error(), "unable to load token")
}

func (s *testSuite) TestKey() {
	cmd := KeyCmd{
		In: "testdata/hs256.jwk",
	}
	err := cmd.Run(s.ctl)
	s.Require().NoError(err)
	s.Equal("Key: Symmetric (64 bytes)\n"+
		"Usage: signing and verification\n"+
		"Thumbprint: "+hs256Thumbprint+"\n", s.Out.String())
}

func (s *testSuite) TestKeyJSON() {
	cmd := KeyCmd{
		In:   "testdata/k256.jwk",
		JSON: true,
	}
	err := cmd.Run(s.ctl)
	s.Require().NoError(err)

	var m map[string]any
	s.Require().NoError(json.Unmarshal(s.Out.Bytes(), &m))
	s.Equal("Elliptic curve (secp256k1)", m["type"])
	s.Equal("EC", m["kty"])
	s.Equal("secp256k1", m["crv"])
	s.Equal("WXjRM2dXofF2PGP339yJXhia89VsAQRBMZA5_lWuYFY", m["thumbprint"])
	s.Equal(true, m["supported"])
	s.Equal(false, m["signing_key"])
}

func (s *testSuite) TestKeyUnsupported() {
	s.ctl.WithReader(strings.NewReader(`{"crv":"secp256r1","kty":"EC","x":"","y":""}`))
	cmd := KeyCmd{
		In: "-",
	}
	err := cmd.Run(s.ctl)
	s.EqualError(err, "key cannot be used for verification: "+
		"`crv` has unexpected value (expected: secp256k1, actual: secp256r1)")
	s.HasText("Key: Elliptic curve (secp256r1)\n", "Thumbprint: ")

	s.Out.Reset()
	s.ctl.WithReader(strings.NewReader(`{"kty":"oct"`))
	err = cmd.Run(s.ctl)
	s.Error(err)
	s.Empty(s.Out.String())

	err = (&KeyCmd{In: ""}).Run(s.ctl)
	s.EqualError(err, "unable to load key: empty file name")
}

func (s *testSuite) TestGenerate() {
	cmd := GenerateCmd{}
	err := cmd.Run(s.ctl)
	s.Require().NoError(err)
	s.HasText("Key ID: ", "JWK: {", "Token: ey")
}

func (s *testSuite) TestGenerateJSON() {
	cmd := GenerateCmd{JSON: true}
	err := cmd.Run(s.ctl)
	s.Require().NoError(err)

	var st jwt.SelfTest
	s.Require().NoError(json.Unmarshal(s.Out.Bytes(), &st))
	s.NotEmpty(st.KeyID)

	r := inspect.Inspect(string(st.JWK), st.Token)
	s.Equal(inspect.StatusVerified, r.Status)
	s.Equal(st.KeyID, r.Header.KeyID)
	s.Equal(jwt.SelfTestIssuer, r.Claims.String("iss"))
}

func (s *testSuite) TestFields() {
	cmd := FieldsCmd{}
	err := cmd.Run(s.ctl)
	s.Require().NoError(err)
	s.HasText("General claims", "Time-related claims", "Expiration timestamp")
	s.HasNoText("x5t#S256")

	s.Out.Reset()
	cmd.Headers = true
	err = cmd.Run(s.ctl)
	s.Require().NoError(err)
	s.HasText("x5t#S256", "Key ID")
	s.HasNoText("General claims")
}

func (s *testSuite) TestFieldsConfig() {
	cmd := FieldsCmd{
		Config: "testdata/fields.yaml",
	}
	err := cmd.Run(s.ctl)
	s.Require().NoError(err)
	s.HasText("Custom claims", "Tenant", "Issuer")
	s.HasNoText("Expiration timestamp")

	cmd.Config = "testdata/fields_invalid.yaml"
	err = cmd.Run(s.ctl)
	s.EqualError(err, "invalid configuration: category ID is reserved: unknown")

	cmd.Config = "testdata/missing.yaml"
	err = cmd.Run(s.ctl)
	s.Require().Error(err)
	s.Contains(err.Error(), "unable to load configuration")
}
