package commands

import (
	"context"
	"flag"
	"io"

	"vatask/internal/config"
	"vatask/internal/exitcode"
	"vatask/internal/output"
	"vatask/internal/service"
	"vatask/internal/view"
)

func init() {
	Register(&ShowCmd{})
}

// ShowCmd implements the show command.
type ShowCmd struct{}

func (c *ShowCmd) Name() string      { return "show" }
func (c *ShowCmd) Aliases() []string { return nil }
func (c *ShowCmd) Synopsis() string  { return "Show one task" }
func (c *ShowCmd) Usage() string     { return "vatask show <id>" }
func (c *ShowCmd) NeedsAuth() bool   { return true }

func (c *ShowCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ShowCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	id, ok := parseTaskIDOrFail(args, errOut)
	if !ok {
		return exitcode.UserError
	}

	task, err := svc.GetTask(ctx, id)
	if err != nil {
		return banner(errOut, view.MsgLoadFailed)
	}

	output.FormatTaskDetail(out, task)
	return exitcode.Success
}
