package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"time"

	"vatask/internal/config"
	"vatask/internal/exitcode"
	"vatask/internal/output"
	"vatask/internal/service"
	"vatask/internal/view"
)

func init() {
	Register(&TasksCmd{})
}

// TasksCmd implements the tasks command.
// The store returns every task; paging happens here by items_per_page.
type TasksCmd struct {
	page int

	// refresh loop hooks, replaced in tests
	after        func(time.Duration) <-chan time.Time
	maxRefreshes int
}

// SetPage sets the page number (for testing).
func (c *TasksCmd) SetPage(page int) {
	c.page = page
}

// SetRefreshHooks replaces the refresh timer and stops the loop after n
// refreshes (for testing).
func (c *TasksCmd) SetRefreshHooks(after func(time.Duration) <-chan time.Time, n int) {
	c.after = after
	c.maxRefreshes = n
}

func (c *TasksCmd) Name() string      { return "tasks" }
func (c *TasksCmd) Aliases() []string { return []string{"ls"} }
func (c *TasksCmd) Synopsis() string  { return "List tasks" }
func (c *TasksCmd) Usage() string     { return "vatask tasks [--page <n>]" }
func (c *TasksCmd) NeedsAuth() bool   { return true }

func (c *TasksCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.page, "page", 1, "")
}

func (c *TasksCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if c.page < 1 {
		fmt.Fprintf(errOut, "error: invalid page number: %d\n", c.page)
		return exitcode.UserError
	}
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	page := view.NewPage(nil)
	code := c.render(ctx, cfg, svc, page, out, errOut)
	if !cfg.Settings.AutoRefresh || code == exitcode.UserError {
		return code
	}
	return c.refreshLoop(ctx, cfg, svc, page, out, errOut)
}

// refreshLoop re-renders the page every refresh interval until ctx is done.
// A failed refresh shows the banner and the loop keeps going.
func (c *TasksCmd) refreshLoop(ctx context.Context, cfg *config.Config, svc service.Service, page *view.Page, out, errOut io.Writer) int {
	after := c.after
	if after == nil {
		after = time.After
	}
	interval := cfg.Settings.Interval()
	if !cfg.Quiet {
		fmt.Fprintf(errOut, "refreshing every %s, press Ctrl-C to stop\n", interval)
	}

	code := exitcode.Success
	for n := 0; c.maxRefreshes == 0 || n < c.maxRefreshes; n++ {
		select {
		case <-ctx.Done():
			return exitcode.Success
		case <-after(interval):
		}
		if !cfg.Quiet {
			fmt.Fprintln(errOut, view.MsgLoading)
		}
		fmt.Fprintln(out)
		code = c.render(ctx, cfg, svc, page, out, errOut)
	}
	return code
}

func (c *TasksCmd) render(ctx context.Context, cfg *config.Config, svc service.Service, page *view.Page, out, errOut io.Writer) int {
	if err := page.Load(ctx, svc.ListTasks); err != nil {
		return banner(errOut, page.Error())
	}
	if page.Empty() {
		if !cfg.Quiet {
			fmt.Fprintln(out, view.MsgEmpty)
		}
		return exitcode.Success
	}

	tasks := page.Tasks()
	size := cfg.Settings.PageSize()
	pages := (len(tasks) + size - 1) / size
	if c.page > pages {
		fmt.Fprintf(errOut, "error: page out of range: %d (of %d)\n", c.page, pages)
		return exitcode.UserError
	}

	start := (c.page - 1) * size
	end := min(start+size, len(tasks))

	if msg := page.Success(); msg != "" && cfg.Notify() {
		fmt.Fprintln(out, msg)
	}
	output.FormatTaskHeader(out)
	for _, task := range tasks[start:end] {
		output.FormatTask(out, task)
	}
	if pages > 1 {
		output.FormatPageFooter(out, c.page, pages, len(tasks))
	}
	return exitcode.Success
}
