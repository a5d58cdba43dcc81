package cli

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/jwtinspect/inspect"
	"github.com/effective-security/jwtinspect/jwt"
	"github.com/effective-security/jwtinspect/x/print"
)

// VerifyCmd specifies flags for Verify action
type VerifyCmd struct {
	Token  string        `kong:"arg" required:"" help:"token file name, or - to read from stdin"`
	Key    string        `help:"optional, JWK or JWK set file name, or - to read from stdin"`
	Leeway time.Duration `help:"optional, allowed clock skew for exp and nbf claims" default:"0s"`
	JSON   bool          `name:"json" help:"print the report in JSON format"`
}

// Run the command
func (a *VerifyCmd) Run(ctx *Cli) error {
	rawKey, rawToken, err := ctx.readInputs(a.Key, a.Token)
	if err != nil {
		return err
	}

	r := inspect.InspectWithOptions(rawKey, rawToken, &jwt.VerifyOptions{
		Leeway: a.Leeway,
	})
	if a.JSON {
		ctx.WriteJSON(r)
	} else {
		print.Report(ctx.Writer(), r)
	}

	switch {
	case r.Status == inspect.StatusVerified:
		return nil
	case r.ParseError != nil:
		return errors.WithMessage(r.ParseError, "unable to parse token")
	case r.Error != nil:
		return errors.WithMessage(r.Error, "token is not verified")
	default:
		return errors.New("token is not provided")
	}
}
