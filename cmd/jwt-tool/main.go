package main

import (
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/effective-security/jwtinspect/cmd/jwt-tool/cli"
	"github.com/effective-security/jwtinspect/internal/version"
	"github.com/effective-security/x/ctl"
)

type app struct {
	cli.Cli

	Verify   cli.VerifyCmd   `cmd:"" help:"verify the token and print its claims"`
	Key      cli.KeyCmd      `cmd:"" help:"print key info"`
	Generate cli.GenerateCmd `cmd:"" help:"generate a random key and a token signed by it"`
	Fields   cli.FieldsCmd   `cmd:"" help:"list standard claims and headers"`
}

func main() {
	realMain(os.Args, os.Stdin, os.Stdout, os.Stderr, os.Exit)
}

func realMain(args []string, in io.Reader, out io.Writer, errout io.Writer, exit func(int)) {
	cl := app{
		Cli: cli.Cli{},
	}
	cl.Cli.WithErrWriter(errout).
		WithWriter(out).
		WithReader(in)

	parser, err := kong.New(&cl,
		kong.Name("jwt-tool"),
		kong.Description("JWT inspection tools"),
		kong.Writers(out, errout),
		kong.Exit(exit),
		ctl.BoolPtrMapper,
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version.Current().String(),
		})
	if err != nil {
		panic(err)
	}

	ctx, err := parser.Parse(args[1:])
	parser.FatalIfErrorf(err)

	if ctx != nil {
		err = ctx.Run(&cl.Cli)
		ctx.FatalIfErrorf(err)
	}
}
