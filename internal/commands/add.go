package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"vatask/internal/config"
	"vatask/internal/exitcode"
	"vatask/internal/schema"
	"vatask/internal/service"
	"vatask/internal/view"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	status      string
	due         string
	interactive bool
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"new"} }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string {
	return "vatask add [--status <status>] [--due <yyyy-mm-dd>] [-i] <title...>"
}
func (c *AddCmd) NeedsAuth() bool { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.status, "status", "", "")
	fs.StringVar(&c.due, "due", "", "")
	fs.BoolVar(&c.interactive, "i", false, "")
	fs.BoolVar(&c.interactive, "interactive", false, "")
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	task := service.TaskItem{
		Title:   strings.TrimSpace(strings.Join(args, " ")),
		Status:  c.status,
		DueDate: c.due,
	}

	if c.interactive {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			fmt.Fprintln(errOut, "error: interactive mode requires a terminal")
			return exitcode.UserError
		}
		if task.Status == "" {
			task.Status = schema.StatusPending
		}
		if err := taskForm(&task).Run(); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return exitcode.Success
			}
			fmt.Fprintf(errOut, "error: form: %v\n", err)
			return exitcode.UserError
		}
		task.Title = strings.TrimSpace(task.Title)
	}

	if task.Title == "" {
		fmt.Fprintf(errOut, "error: %s\n", view.MsgTitleRequired)
		return exitcode.UserError
	}
	if err := validateTaskFields(task.Status, task.DueDate); err != nil {
		return reportInvalid(errOut, err)
	}

	created, err := svc.CreateTask(ctx, task)
	if err != nil {
		return banner(errOut, view.MsgCreateFailed)
	}

	if c.interactive {
		// Back on the task page with the confirmation banner.
		page := view.NewPage(nil)
		page.Flash(view.MsgTaskCreated)
		list := &TasksCmd{page: 1}
		return list.render(ctx, cfg, svc, page, out, errOut)
	}

	if cfg.Notify() {
		fmt.Fprintf(out, "ok %d\n", created.ID)
	}
	return exitcode.Success
}

// taskForm is the interactive new task dialog.
func taskForm(task *service.TaskItem) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New(view.MsgTitleRequired)
					}
					return nil
				}).
				Value(&task.Title),
			huh.NewSelect[string]().
				Title("Status").
				Options(huh.NewOptions(schema.Statuses...)...).
				Value(&task.Status),
			huh.NewInput().
				Title("Due date").
				Description("yyyy-mm-dd, leave empty for none").
				Validate(validDue).
				Value(&task.DueDate),
		),
	)
}
