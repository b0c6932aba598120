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
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "vatask help [command]" }
func (c *HelpCmd) NeedsAuth() bool   { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		cmd, ok := DefaultRegistry.Find(args[0])
		if !ok {
			fmt.Fprintf(errOut, "error: unknown command: %s\n", args[0])
			return exitcode.UserError
		}
		writeCommandHelp(out, cmd)
		return exitcode.Success
	}

	fmt.Fprintln(out, "Usage:")
	for _, cmd := range DefaultRegistry.All() {
		fmt.Fprintf(out, "  %-12s %s\n", cmd.Name(), cmd.Synopsis())
	}
	fmt.Fprint(out, commonFlagsText)
	return exitcode.Success
}

func writeCommandHelp(w io.Writer, cmd Command) {
	fmt.Fprintf(w, "Usage:\n  %s\n\n%s\n", cmd.Usage(), cmd.Synopsis())
	if aliases := cmd.Aliases(); len(aliases) > 0 {
		fmt.Fprintf(w, "Aliases: %s\n", strings.Join(aliases, ", "))
	}
	fmt.Fprint(w, commonFlagsText)
}

const commonFlagsText = `
Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Write debug logs

Environment:
  SITE_URL (or TENANT_URL), CLIENT_ID, CLIENT_SECRET   Site connection, override credentials.yaml
  TENANT_ID                                            Realm, discovered when empty
  LIST_TITLE                                           Task list title (default VATaskList)
  VATASK_RATE_LIMIT                                    Max store requests per second (default unlimited)
  VATASK_LOG_FILE, VATASK_LOG_LEVEL                    Log destination and level
`
