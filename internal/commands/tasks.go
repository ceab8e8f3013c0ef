package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"kbreport/internal/config"
	"kbreport/internal/exitcode"
	"kbreport/internal/output"
)

func init() {
	Register(&TasksCmd{})
}

// TasksCmd implements the tasks command: fetch and classify only,
// printing the buckets without any model call.
type TasksCmd struct{}

func (c *TasksCmd) Name() string        { return "tasks" }
func (c *TasksCmd) Aliases() []string   { return []string{"ls"} }
func (c *TasksCmd) Synopsis() string    { return "Fetch and classify tasks" }
func (c *TasksCmd) Usage() string       { return "kbreport tasks" }
func (c *TasksCmd) NeedsPipeline() bool { return true }

func (c *TasksCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *TasksCmd) Run(ctx context.Context, cfg *config.Config, factory Factory, args []string, out, errOut io.Writer) int {
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

	if rep.Buckets.Total() == 0 && !cfg.Quiet {
		fmt.Fprintln(out, "no tasks found")
		return exitcode.Success
	}

	output.FormatBuckets(out, rep.Buckets)
	return exitcode.Success
}
