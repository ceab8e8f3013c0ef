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
	Register(&RunCmd{})
}

// RunCmd implements the run command: the full pipeline of fetch,
// classify, summarize, write, and optionally notify.
type RunCmd struct {
	dryRun  bool
	noEmail bool
}

// SetDryRun sets the dry-run flag (for testing).
func (c *RunCmd) SetDryRun(v bool) { c.dryRun = v }

// SetNoEmail sets the no-email flag (for testing).
func (c *RunCmd) SetNoEmail(v bool) { c.noEmail = v }

func (c *RunCmd) Name() string        { return "run" }
func (c *RunCmd) Aliases() []string   { return nil }
func (c *RunCmd) Synopsis() string    { return "Generate and deliver the report" }
func (c *RunCmd) Usage() string       { return "kbreport run [--dry-run] [--no-email]" }
func (c *RunCmd) NeedsPipeline() bool { return true }

func (c *RunCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.dryRun, "dry-run", false, "")
	fs.BoolVar(&c.noEmail, "no-email", false, "")
}

func (c *RunCmd) Run(ctx context.Context, cfg *config.Config, factory Factory, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	if c.noEmail {
		cfg.Email.Enabled = false
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.AuthError
	}

	runner, err := factory(ctx, cfg)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.BackendError
	}

	if c.dryRun {
		rep, err := runner.RunDry(ctx)
		if err != nil {
			fmt.Fprintf(errOut, "error: %s\n", err)
			return exitFor(err)
		}
		fmt.Fprint(out, rep.Render())
		return exitcode.Success
	}

	result, err := runner.Run(ctx)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitFor(err)
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "report written: %s\n", result.Path)
		if result.Emailed {
			fmt.Fprintf(out, "report emailed to %d recipient(s)\n", len(cfg.Email.RecipientList()))
		}
	}
	return exitcode.Success
}
