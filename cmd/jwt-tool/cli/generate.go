package cli

import (
	"fmt"

	"github.com/effective-security/jwtinspect/jwt"
)

// GenerateCmd generates a random key and a token signed by it
type GenerateCmd struct {
	JSON bool `name:"json" help:"print the key and token in JSON format"`
}

// Run the command
func (a *GenerateCmd) Run(ctx *Cli) error {
	st, err := jwt.GenerateSelfTest()
	if err != nil {
		return err
	}

	if a.JSON {
		ctx.WriteJSON(st)
		return nil
	}

	w := ctx.Writer()
	fmt.Fprintf(w, "Key ID: %s\n", st.KeyID)
	fmt.Fprintf(w, "JWK: %s\n", string(st.JWK))
	fmt.Fprintf(w, "Token: %s\n", st.Token)
	return nil
}
