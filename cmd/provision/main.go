// Command provision creates the task list and its columns on the site.
//
// It reads the same connection variables as vatask and is meant to be run
// once, before the CLI is used. An existing list is left untouched.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"

	"vatask/internal/config"
	"vatask/internal/exitcode"
	"vatask/internal/logging"
	"vatask/internal/provision"
	"vatask/internal/sharepoint"
)

const userAgent = "vatask-provision/0.1.0"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args, os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}

// run executes the provision command. extra options are appended to the
// site client options.
func run(ctx context.Context, args []string, stdout, stderr io.Writer, extra ...sharepoint.Option) int {
	var (
		conn  config.Connection
		debug bool
	)

	app := &cli.Command{
		Name:      "provision",
		Usage:     "Create the task list and its columns",
		UsageText: "provision [options]",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "site-url",
				Usage:       "site URL",
				Sources:     cli.EnvVars(config.EnvSiteURL),
				Destination: &conn.SiteURL,
			},
			&cli.StringFlag{
				Name:        "client-id",
				Usage:       "app-only client id",
				Sources:     cli.EnvVars(config.EnvClientID),
				Destination: &conn.ClientID,
			},
			&cli.StringFlag{
				Name:        "client-secret",
				Usage:       "app-only client secret",
				Sources:     cli.EnvVars(config.EnvClientSecret),
				Destination: &conn.ClientSecret,
			},
			&cli.StringFlag{
				Name:        "tenant-id",
				Usage:       "realm; discovered from the site when empty",
				Sources:     cli.EnvVars(config.EnvTenantID),
				Destination: &conn.TenantID,
			},
			&cli.StringFlag{
				Name:        "list-title",
				Usage:       "title of the list to create",
				Sources:     cli.EnvVars(config.EnvListTitle),
				Destination: &conn.ListTitle,
			},
			&cli.BoolFlag{
				Name:        "debug",
				Usage:       "log every field",
				Destination: &debug,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			level := zerolog.InfoLevel
			if debug {
				level = zerolog.DebugLevel
			}
			logger := logging.Console(stderr, level).With().Str("component", "provision").Logger()

			// Flags win; anything left empty resolves like vatask does,
			// so an empty SITE_URL still falls back to TENANT_URL.
			conn = conn.Merge(config.ConnectionFromEnv(os.Getenv))

			if err := conn.Validate(); err != nil {
				return err
			}

			opts := []sharepoint.Option{
				sharepoint.WithClientCredentials(conn.ClientID, conn.ClientSecret),
				sharepoint.WithUserAgent(userAgent),
			}
			if conn.TenantID != "" {
				opts = append(opts, sharepoint.WithRealm(conn.TenantID))
			}
			opts = append(opts, extra...)

			svc, err := sharepoint.NewService(ctx, conn.SiteURL, opts...)
			if err != nil {
				return fmt.Errorf("connect to %s: %w", conn.SiteURL, err)
			}

			p := provision.New(provision.NewSiteStore(svc), conn.List(), logger)
			res, err := p.Run(ctx)
			if err != nil {
				return err
			}

			for _, w := range res.Warnings {
				fmt.Fprintf(stderr, "warning: %v\n", w)
			}
			if res.List.ID != "" {
				fmt.Fprintln(stdout, res.List.ID)
			} else {
				fmt.Fprintln(stdout, "ok")
			}
			fmt.Fprintln(stdout, "Provisioning complete.")
			return nil
		},
	}

	// Configuration and store failures both exit 1.
	if err := app.Run(ctx, args); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitcode.UserError
	}
	return exitcode.Success
}
