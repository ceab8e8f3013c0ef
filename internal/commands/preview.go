package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"kbreport/internal/config"
	"kbreport/internal/exitcode"
)

func init() {
	Register(&PreviewCmd{})
}

// PreviewCmd implements the preview command: render the report text
// without the model call, writing nothing. Useful for checking the
// report format against live data.
type PreviewCmd struct{}

func (c *PreviewCmd) Name() string        { return "preview" }
func (c *PreviewCmd) Aliases() []string   { return nil }
func (c *PreviewCmd) Synopsis() string    { return "Render the report without a model call" }
func (c *PreviewCmd) Usage() string       { return "kbreport preview" }
func (c *PreviewCmd) NeedsPipeline() bool { return true }

func (c *PreviewCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *PreviewCmd) Run(ctx context.Context, cfg *config.Config, factory Factory, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	if err := cfg.ValidateFetch(); err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.AuthError
	}

	runner, err := factory(ctx, cfg)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.BackendError
	}

	rep, err := runner.Collect(ctx)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitFor(err)
	}

	fmt.Fprint(out, rep.Render())
	return exitcode.Success
}
