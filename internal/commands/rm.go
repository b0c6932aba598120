package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"vatask/internal/config"
	"vatask/internal/exitcode"
	"vatask/internal/service"
	"vatask/internal/view"
)

func init() {
	Register(&RmCmd{})
}

// RmCmd implements the rm command.
type RmCmd struct{}

func (c *RmCmd) Name() string      { return "rm" }
func (c *RmCmd) Aliases() []string { return []string{"delete"} }
func (c *RmCmd) Synopsis() string  { return "Delete a task" }
func (c *RmCmd) Usage() string     { return "vatask rm <id>" }
func (c *RmCmd) NeedsAuth() bool   { return true }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *RmCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	id, ok := parseTaskIDOrFail(args, errOut)
	if !ok {
		return exitcode.UserError
	}

	if err := svc.DeleteTask(ctx, id); err != nil {
		return banner(errOut, view.MsgDeleteFailed)
	}

	if cfg.Notify() {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
