package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"vatask/internal/config"
	"vatask/internal/exitcode"
	"vatask/internal/service"
)

func init() {
	Register(&LoginCmd{})
}

// LoginCmd stores the site connection in credentials.yaml.
//
// Environment variables still win over the stored values when a command
// connects, so login is for machines where they are not set.
type LoginCmd struct {
	conn config.Connection
}

func (c *LoginCmd) Name() string      { return "login" }
func (c *LoginCmd) Aliases() []string { return nil }
func (c *LoginCmd) Synopsis() string  { return "Save site credentials" }
func (c *LoginCmd) Usage() string {
	return "vatask login --site <url> --client-id <id> --client-secret <secret> [--tenant <id>] [--list <title>]"
}
func (c *LoginCmd) NeedsAuth() bool { return false }

func (c *LoginCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.conn.SiteURL, "site", "", "")
	fs.StringVar(&c.conn.ClientID, "client-id", "", "")
	fs.StringVar(&c.conn.ClientSecret, "client-secret", "", "")
	fs.StringVar(&c.conn.TenantID, "tenant", "", "")
	fs.StringVar(&c.conn.ListTitle, "list", "", "")
}

func (c *LoginCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	if err := cfg.SaveConnection(c.conn); err != nil {
		var cerr *config.ConfigurationError
		if errors.As(err, &cerr) {
			fmt.Fprintf(errOut, "error: %v\n", cerr)
			return exitcode.UserError
		}
		fmt.Fprintf(errOut, "error: failed to save credentials: %v\n", err)
		return exitcode.AuthError
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
