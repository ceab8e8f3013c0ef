// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"flag"
	"io"

	"kbreport/internal/agent"
	"kbreport/internal/config"
	"kbreport/internal/errkind"
	"kbreport/internal/exitcode"
)

// Factory builds the pipeline runner from resolved configuration.
// Injected by main (real backends) and by tests (fakes).
type Factory func(ctx context.Context, cfg *config.Config) (*agent.Runner, error)

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsPipeline returns true if the command talks to backends.
	// Commands like help and version return false and receive a nil
	// factory.
	NeedsPipeline() bool

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command.
	// cfg is always provided; factory is nil if NeedsPipeline()
	// returns false. args contains positional arguments after flag
	// parsing. Returns exit code.
	Run(ctx context.Context, cfg *config.Config, factory Factory, args []string, out, errOut io.Writer) int
}

// exitFor maps a pipeline error to an exit code.
func exitFor(err error) int {
	switch {
	case errkind.Is(err, errkind.Auth):
		return exitcode.AuthError
	case errkind.Is(err, errkind.Write):
		return exitcode.WriteError
	default:
		return exitcode.BackendError
	}
}
