package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const hs256JWK = `{"kty":"oct","k":"AyM1SysPpbyDfgZld3umj1qzKObwVMkoqQ-EstJQLr_T-1qS0gZH75aKtMN3Yj0iPS4hcgUuTwjAzZr1Z9CAow"}`

type exitCode struct {
	rc int
}

// exit records the first code only, the same as os.Exit would
func (e *exitCode) exit(c int) {
	if e.rc == 0 {
		e.rc = c
	}
}

func TestMain(t *testing.T) {
	out := bytes.NewBuffer([]byte{})
	errout := bytes.NewBuffer([]byte{})
	ec := &exitCode{}

	realMain([]string{"jwt-tool", "version"}, strings.NewReader(""), out, errout, ec.exit)
	assert.NotZero(t, ec.rc)
	assert.Equal(t, "jwt-tool: error: unexpected argument version\n", errout.String())
	assert.Empty(t, out.String())
}

func TestVerifyFromStdin(t *testing.T) {
	out := bytes.NewBuffer([]byte{})
	errout := bytes.NewBuffer([]byte{})
	ec := &exitCode{}

	realMain([]string{"jwt-tool", "verify", "--key=-", "cli/testdata/hs256.jwt"},
		strings.NewReader(hs256JWK), out, errout, ec.exit)
	assert.Equal(t, 1, ec.rc)
	assert.Contains(t, out.String(), "Status: failed\n")
	assert.Equal(t, "jwt-tool: error: token is not verified: token has expired\n", errout.String())
}

func TestGenerate(t *testing.T) {
	out := bytes.NewBuffer([]byte{})
	errout := bytes.NewBuffer([]byte{})
	ec := &exitCode{}

	realMain([]string{"jwt-tool", "generate"}, strings.NewReader(""), out, errout, ec.exit)
	assert.Equal(t, 0, ec.rc)
	assert.Empty(t, errout.String())
	assert.Contains(t, out.String(), "Key ID: ")
	assert.Contains(t, out.String(), "Token: ey")
}
