package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"vatask/internal/config"
	"vatask/internal/exitcode"
	"vatask/internal/output"
	"vatask/internal/service"
	"vatask/internal/view"
)

func init() {
	Register(&DashboardCmd{})
}

// DashboardCmd implements the dashboard command, the default when no command is given.
type DashboardCmd struct{}

func (c *DashboardCmd) Name() string      { return "dashboard" }
func (c *DashboardCmd) Aliases() []string { return nil }
func (c *DashboardCmd) Synopsis() string  { return "Show task totals and recent tasks" }
func (c *DashboardCmd) Usage() string     { return "vatask [dashboard]" }
func (c *DashboardCmd) NeedsAuth() bool   { return true }

func (c *DashboardCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DashboardCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	page := view.NewPage(nil)
	if err := page.Load(ctx, svc.ListTasks); err != nil {
		return banner(errOut, page.Error())
	}

	output.FormatDashboard(out, page.Tasks())
	return exitcode.Success
}
