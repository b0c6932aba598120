package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"runtime"

	"vatask/internal/config"
	"vatask/internal/exitcode"
	"vatask/internal/service"
)

// Version is the application version. Set at build time with
// -ldflags "-X vatask/internal/commands.Version=...".
var Version = "0.1.0"

func init() {
	Register(&VersionCmd{})
}

// VersionCmd prints the version, and with -v where vatask keeps its files.
type VersionCmd struct {
	verbose bool
}

func (c *VersionCmd) Name() string      { return "version" }
func (c *VersionCmd) Aliases() []string { return nil }
func (c *VersionCmd) Synopsis() string  { return "Print version" }
func (c *VersionCmd) Usage() string     { return "vatask version [-v]" }
func (c *VersionCmd) NeedsAuth() bool   { return false }

func (c *VersionCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.verbose, "v", false, "")
}

func (c *VersionCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	fmt.Fprintf(out, "vatask %s\n", Version)
	if c.verbose {
		fmt.Fprintf(out, "go:          %s\n", runtime.Version())
		fmt.Fprintf(out, "settings:    %s\n", cfg.SettingsPath())
		fmt.Fprintf(out, "credentials: %s\n", cfg.CredentialsPath())
		fmt.Fprintf(out, "log:         %s\n", cfg.LogPath())
	}
	return exitcode.Success
}
