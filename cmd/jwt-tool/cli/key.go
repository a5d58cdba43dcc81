package cli

import (
	"github.com/cockroachdb/errors"
	"github.com/effective-security/jwtinspect/jwk"
	"github.com/effective-security/jwtinspect/jwt"
	"github.com/effective-security/jwtinspect/x/print"
)

// KeyCmd prints the key info
type KeyCmd struct {
	In   string `kong:"arg" required:"" help:"JWK file name, or - to read from stdin"`
	JSON bool   `name:"json" help:"print the key info in JSON format"`
}

type keyInfo struct {
	*jwk.Info
	Thumbprint string `json:"thumbprint,omitempty"`
	Supported  bool   `json:"supported"`
	Error      string `json:"error,omitempty"`
}

// Run the command
func (a *KeyCmd) Run(ctx *Cli) error {
	b, err := ctx.ReadFile(a.In)
	if err != nil {
		return errors.WithMessage(err, "unable to load key")
	}
	k, err := jwk.Parse(b)
	if err != nil {
		return err
	}

	res := keyInfo{
		Info:      k.Describe(),
		Supported: true,
	}
	res.Thumbprint, err = jwk.SHA256Thumbprint(k)
	if err != nil {
		return err
	}

	_, kerr := jwt.NewKey(k)
	if kerr != nil {
		res.Supported = false
		res.Error = kerr.Error()
	}

	if a.JSON {
		ctx.WriteJSON(res)
	} else {
		print.KeyInfo(ctx.Writer(), res.Info, res.Thumbprint)
	}

	if kerr != nil {
		return errors.WithMessage(kerr, "key cannot be used for verification")
	}
	return nil
}
