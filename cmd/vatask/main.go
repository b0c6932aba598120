// Package main is the entry point for the vatask CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"vatask/internal/backend/splist"
	"vatask/internal/cli"
	"vatask/internal/commands"
	"vatask/internal/config"
	"vatask/internal/logging"
	"vatask/internal/service"
)

const (
	envLogFile  = "VATASK_LOG_FILE"
	envLogLevel = "VATASK_LOG_LEVEL"
)

func main() {
	// Nothing is logged until the config dir is known.
	log.Logger = zerolog.Nop()
	closeLog := func() {}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	factory := func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		return splist.New(ctx, cfg)
	}

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)
	dispatcher.OnConfig(func(cfg *config.Config) error {
		closer, err := setupLogger(cfg, os.Getenv)
		if err != nil {
			return fmt.Errorf("setup logger: %w", err)
		}
		closeLog = closer
		log.Debug().Strs("args", os.Args[1:]).Msg("starting")
		return nil
	})

	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	log.Debug().Int("exit_code", code).Msg("finished")

	cancel()
	closeLog()
	os.Exit(code)
}

// setupLogger points the global logger at VATASK_LOG_FILE, or at vatask.log
// in the resolved config dir. The logger itself accepts every level and the
// global level filters, so --debug can lower it afterwards.
func setupLogger(cfg *config.Config, getenv func(string) string) (func(), error) {
	file := getenv(envLogFile)
	if file == "" {
		file = cfg.LogPath()
	}

	levelName := getenv(envLogLevel)
	if levelName == "" {
		levelName = "info"
	}
	level, err := zerolog.ParseLevel(levelName)
	if err != nil {
		return func() {}, err
	}

	logger, closer, err := logging.New(zerolog.LevelDebugValue, file)
	if err != nil {
		return closer, err
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = logger
	return closer, nil
}
