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
	Register(&PingCmd{})
}

// PingCmd tests the connection to the site.
type PingCmd struct{}

func (c *PingCmd) Name() string      { return "ping" }
func (c *PingCmd) Aliases() []string { return nil }
func (c *PingCmd) Synopsis() string  { return "Test the connection to the site" }
func (c *PingCmd) Usage() string     { return "vatask ping" }
func (c *PingCmd) NeedsAuth() bool   { return true }

func (c *PingCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *PingCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	title, err := svc.Ping(ctx)
	if err != nil {
		return banner(errOut, view.MsgPingFailed)
	}
	fmt.Fprintf(out, "connected: %s\n", title)
	return exitcode.Success
}
