// Command oasmd renders an OpenAPI 3.x document as Markdown files.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Exit codes.
const (
	exitOK     = 0
	exitFailed = 1
	exitUsage  = 2
	// exitIssues is returned with --strict when the run recorded issues.
	exitIssues = 3
)

func main() {
	os.Exit(run(os.Args[1:], afero.NewOsFs(), os.Stderr))
}

// run parses args and executes the command, returning the exit code.
func run(args []string, fs afero.Fs, stderr io.Writer) int {
	app := kingpin.New("oasmd", "Render an OpenAPI 3.x document as Markdown for LLM consumption.")
	app.UsageWriter(stderr).ErrorWriter(stderr)

	var logConfig LoggerConfig
	logConfig.Register(app)

	var generate GenerateCommand
	generate.Register(app, fs, func() (*zap.Logger, error) { return logConfig.NewLogger(stderr) })

	if _, err := app.Parse(args); err != nil {
		fmt.Fprintf(stderr, "oasmd: %v\n", err)
		return exitCode(err)
	}
	return exitOK
}

// exitError carries the exit code of a failed command action. Errors without
// one come from flag parsing.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func exitCode(err error) int {
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitUsage
}
