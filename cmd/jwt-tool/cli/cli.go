package cli

import (
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/cockroachdb/errors"
	"github.com/effective-security/jwtinspect/x/print"
	"github.com/effective-security/x/ctl"
	"github.com/effective-security/xlog"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/jwtinspect", "cli")

// Cli provides CLI context to run commands
type Cli struct {
	Version ctl.VersionFlag `name:"version" help:"Print version information and quit" hidden:""`
	Debug   bool            `help:"Enable debug logging"`

	// Stdin is the source to read from, typically set to os.Stdin
	stdin io.Reader
	// Output is the destination for all output from the command, typically set to os.Stdout
	output io.Writer
	// ErrOutput is the destinaton for errors.
	// If not set, errors will be written to os.StdError
	errOutput io.Writer
}

// Reader is the source to read from, typically set to os.Stdin
func (c *Cli) Reader() io.Reader {
	if c.stdin != nil {
		return c.stdin
	}
	return os.Stdin
}

// WithReader allows to specify a custom reader
func (c *Cli) WithReader(reader io.Reader) *Cli {
	c.stdin = reader
	return c
}

// Writer returns a writer for control output
func (c *Cli) Writer() io.Writer {
	if c.output != nil {
		return c.output
	}
	return os.Stdout
}

// WithWriter allows to specify a custom writer
func (c *Cli) WithWriter(out io.Writer) *Cli {
	c.output = out
	return c
}

// ErrWriter returns a writer for control output
func (c *Cli) ErrWriter() io.Writer {
	if c.errOutput != nil {
		return c.errOutput
	}
	return os.Stderr
}

// WithErrWriter allows to specify a custom error writer
func (c *Cli) WithErrWriter(out io.Writer) *Cli {
	c.errOutput = out
	return c
}

// AfterApply hook sets the log level
func (c *Cli) AfterApply(_ *kong.Kong, _ kong.Vars) error {
	if c.Debug {
		xlog.SetGlobalLogLevel(xlog.DEBUG)
	} else {
		xlog.SetGlobalLogLevel(xlog.ERROR)
	}
	return nil
}

// WriteJSON prints response to out
func (c *Cli) WriteJSON(value any) {
	print.JSON(c.Writer(), value)
}

// ReadFile reads from stdin if the file is "-"
func (c *Cli) ReadFile(filename string) ([]byte, error) {
	if filename == "" {
		return nil, errors.New("empty file name")
	}
	if filename == "-" {
		return io.ReadAll(c.Reader())
	}
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return b, nil
}

// readInputs reads the key and token files,
// only one of them can be read from stdin
func (c *Cli) readInputs(keyFile, tokenFile string) (string, string, error) {
	if keyFile == "-" && tokenFile == "-" {
		return "", "", errors.New("only one of the key or token can be read from stdin")
	}

	var rawKey string
	if keyFile != "" {
		b, err := c.ReadFile(keyFile)
		if err != nil {
			return "", "", errors.WithMessage(err, "unable to load key")
		}
		rawKey = string(b)
	}

	b, err := c.ReadFile(tokenFile)
	if err != nil {
		return "", "", errors.WithMessage(err, "unable to load token")
	}
	logger.KV(xlog.DEBUG, "key", keyFile, "token", tokenFile)
	return rawKey, strings.TrimSpace(string(b)), nil
}
