// Package commands holds the vatask subcommands. Each file registers one
// command with DefaultRegistry from init.
package commands

import (
	"context"
	"flag"
	"io"

	"vatask/internal/config"
	"vatask/internal/service"
)

// Command is a single vatask subcommand.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsAuth reports whether Run needs a connected service.
	// help, version, login, logout and settings work offline.
	NeedsAuth() bool

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command and returns its exit code.
	// svc is nil when NeedsAuth is false. args holds what is left
	// after flag parsing.
	Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int
}
