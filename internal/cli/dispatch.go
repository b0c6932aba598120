// Package cli parses the vatask command line and runs the chosen command.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"vatask/internal/commands"
	"vatask/internal/config"
	"vatask/internal/exitcode"
	"vatask/internal/service"
)

// DefaultCommand runs when no command is given.
const DefaultCommand = "dashboard"

// ServiceFactory connects to the list store. It is only called for
// commands that need it.
type ServiceFactory func(ctx context.Context, cfg *config.Config) (service.Service, error)

// Dispatcher resolves a command from the registry, parses its flags and
// runs it.
type Dispatcher struct {
	registry *commands.Registry
	factory  ServiceFactory
	onConfig func(cfg *config.Config) error
}

// NewDispatcher creates a dispatcher. A nil factory makes every command
// that needs the store fail.
func NewDispatcher(registry *commands.Registry, factory ServiceFactory) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		factory:  factory,
	}
}

// OnConfig registers fn to run once the command's config is resolved and
// before the command runs. A failing fn ends the run with a user error.
func (d *Dispatcher) OnConfig(fn func(cfg *config.Config) error) {
	d.onConfig = fn
}

// commonFlags are accepted by every command.
type commonFlags struct {
	configDir string
	quiet     bool
	debug     bool
}

func (f *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.configDir, "config", "", "")
	fs.BoolVar(&f.quiet, "quiet", false, "")
	fs.BoolVar(&f.debug, "debug", false, "")
}

// Run dispatches args and returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	name := DefaultCommand
	if len(args) > 0 {
		name, args = args[0], args[1:]
	}

	// Flags before the command name are not supported, so "-x" is looked
	// up like any other name and reported as unknown.
	cmd, ok := d.registry.Find(name)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", name)
		return exitcode.UserError
	}
	return d.runCommand(ctx, cmd, args, out, errOut)
}

func (d *Dispatcher) runCommand(ctx context.Context, cmd commands.Command, args []string, out, errOut io.Writer) int {
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var common commonFlags
	common.register(fs)
	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fmt.Fprintf(out, "Usage: %s\n\n%s\n", cmd.Usage(), cmd.Synopsis())
			return exitcode.Success
		}
		fmt.Fprintf(errOut, "error: %s\n", flagError(err))
		return exitcode.UserError
	}

	positional := fs.Args()
	if len(positional) > 0 && strings.HasPrefix(positional[0], "-") {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", positional[0])
		return exitcode.UserError
	}

	cfg, err := config.New(common.configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}
	cfg.Quiet = common.quiet
	cfg.Debug = common.debug
	if d.onConfig != nil {
		if err := d.onConfig(cfg); err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
	}
	// After the hook, which may reset the global level.
	if common.debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	log.Debug().Str("command", cmd.Name()).Strs("args", positional).Str("config", cfg.Dir).Msg("dispatch")

	var svc service.Service
	if cmd.NeedsAuth() {
		var code int
		if svc, code = d.connect(ctx, cfg, errOut); svc == nil {
			return code
		}
	}

	return cmd.Run(ctx, cfg, svc, positional, out, errOut)
}

// connect builds the store client. On failure svc is nil and code is the
// exit code to return.
func (d *Dispatcher) connect(ctx context.Context, cfg *config.Config, errOut io.Writer) (svc service.Service, code int) {
	if d.factory == nil {
		if !cfg.HasCredentials() && os.Getenv(config.EnvSiteURL) == "" && os.Getenv(config.EnvTenantURL) == "" {
			fmt.Fprintln(errOut, "error: not logged in (run: vatask login)")
			return nil, exitcode.AuthError
		}
		fmt.Fprintln(errOut, "error: backend error: no backend configured")
		return nil, exitcode.BackendError
	}

	svc, err := d.factory(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Msg("connect failed")
		return nil, reportFactoryError(errOut, err)
	}
	return svc, exitcode.Success
}

// flagError rewrites the flag package's messages into vatask's wording.
func flagError(err error) string {
	msg := err.Error()
	if name, ok := strings.CutPrefix(msg, "flag provided but not defined: "); ok {
		return "unknown flag: " + name
	}
	return msg
}

// reportFactoryError maps a failure to build the backend to an exit code.
// Missing or invalid connection values are user errors.
func reportFactoryError(errOut io.Writer, err error) int {
	var cerr *config.ConfigurationError
	if errors.As(err, &cerr) {
		fmt.Fprintf(errOut, "error: %s\n", cerr)
		return exitcode.UserError
	}
	msg := err.Error()
	if strings.Contains(msg, "token") || strings.Contains(msg, "auth") || strings.Contains(msg, "realm") {
		fmt.Fprintf(errOut, "error: auth error: %s\n", err)
		return exitcode.AuthError
	}
	fmt.Fprintf(errOut, "error: backend error: %s\n", err)
	return exitcode.BackendError
}
