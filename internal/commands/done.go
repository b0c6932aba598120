package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"vatask/internal/config"
	"vatask/internal/exitcode"
	"vatask/internal/schema"
	"vatask/internal/service"
	"vatask/internal/view"
)

func init() {
	Register(&DoneCmd{})
}

// DoneCmd implements the done command.
type DoneCmd struct{}

func (c *DoneCmd) Name() string      { return "done" }
func (c *DoneCmd) Aliases() []string { return nil }
func (c *DoneCmd) Synopsis() string  { return "Mark a task completed" }
func (c *DoneCmd) Usage() string     { return "vatask done <id>" }
func (c *DoneCmd) NeedsAuth() bool   { return true }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DoneCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	id, ok := parseTaskIDOrFail(args, errOut)
	if !ok {
		return exitcode.UserError
	}

	completed := schema.StatusCompleted
	if err := svc.UpdateTask(ctx, id, service.TaskUpdate{Status: &completed}); err != nil {
		return banner(errOut, view.MsgUpdateFailed)
	}

	if cfg.Notify() {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
