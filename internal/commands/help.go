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
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string        { return "help" }
func (c *HelpCmd) Aliases() []string   { return nil }
func (c *HelpCmd) Synopsis() string    { return "Print usage" }
func (c *HelpCmd) Usage() string       { return "kbreport help" }
func (c *HelpCmd) NeedsPipeline() bool { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, factory Factory, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  kbreport run [common flags] [--dry-run] [--no-email]   Generate and deliver the report
  kbreport tasks [common flags]                          Fetch and classify tasks
  kbreport preview [common flags]                        Render the report without a model call
  kbreport help
  kbreport version

Common flags:
  --config <file>  Override config file path
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
`
