package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"vatask/internal/config"
	"vatask/internal/exitcode"
	"vatask/internal/service"
	"vatask/internal/view"
)

func init() {
	Register(&UpdateCmd{})
}

// UpdateCmd implements the update command. Only the given flags are sent;
// an empty value clears the field (except the title).
type UpdateCmd struct {
	title      optString
	status     optString
	due        optString
	assignedTo optString
}

func (c *UpdateCmd) Name() string      { return "update" }
func (c *UpdateCmd) Aliases() []string { return []string{"edit"} }
func (c *UpdateCmd) Synopsis() string  { return "Change fields of a task" }
func (c *UpdateCmd) Usage() string {
	return "vatask update [--title <t>] [--status <s>] [--due <yyyy-mm-dd>] [--assigned-to <name>] <id>"
}
func (c *UpdateCmd) NeedsAuth() bool { return true }

func (c *UpdateCmd) RegisterFlags(fs *flag.FlagSet) {
	c.title, c.status, c.due, c.assignedTo = optString{}, optString{}, optString{}, optString{}
	fs.Var(&c.title, "title", "")
	fs.Var(&c.status, "status", "")
	fs.Var(&c.due, "due", "")
	fs.Var(&c.assignedTo, "assigned-to", "")
}

func (c *UpdateCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	id, ok := parseTaskIDOrFail(args, errOut)
	if !ok {
		return exitcode.UserError
	}

	upd := service.TaskUpdate{
		Title:      c.title.ptr(),
		Status:     c.status.ptr(),
		DueDate:    c.due.ptr(),
		AssignedTo: c.assignedTo.ptr(),
	}
	if upd.Empty() {
		fmt.Fprintln(errOut, "error: nothing to update")
		return exitcode.UserError
	}
	if upd.Title != nil {
		*upd.Title = strings.TrimSpace(*upd.Title)
		if *upd.Title == "" {
			fmt.Fprintf(errOut, "error: %s\n", view.MsgTitleRequired)
			return exitcode.UserError
		}
	}
	if err := validateTaskFields(c.status.val, c.due.val); err != nil {
		return reportInvalid(errOut, err)
	}

	if err := svc.UpdateTask(ctx, id, upd); err != nil {
		return banner(errOut, view.MsgUpdateFailed)
	}

	if cfg.Notify() {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
