package cli

import (
	"github.com/cockroachdb/errors"
	"github.com/effective-security/jwtinspect/fields"
	"github.com/effective-security/jwtinspect/x/print"
)

// FieldsCmd lists the standard claims or headers
type FieldsCmd struct {
	Headers bool   `help:"list the standard headers instead of claims"`
	Config  string `help:"optional, fields configuration file in YAML format"`
}

// Run the command
func (a *FieldsCmd) Run(ctx *Cli) error {
	reg := fields.Default()
	if a.Config != "" {
		b, err := ctx.ReadFile(a.Config)
		if err != nil {
			return errors.WithMessage(err, "unable to load configuration")
		}
		cfg, err := fields.LoadConfig(b)
		if err != nil {
			return err
		}
		reg, err = fields.NewRegistry(cfg)
		if err != nil {
			return errors.WithMessage(err, "invalid configuration")
		}
	}

	print.Fields(ctx.Writer(), reg, a.Headers)
	return nil
}
