package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"ecobin-backend/internal/commands"
	"ecobin-backend/internal/config"
	"ecobin-backend/internal/logger"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	version = "dev"
	commit  = "HEAD"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	flags := &commands.Flags{}

	app := &cli.Command{
		Name:      "ecobinctl",
		Usage:     "Administer an ecobin backend",
		UsageText: "ecobinctl [global options] command [command options]",
		Version:   fmt.Sprintf("%s (%s)", version, commit),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error)",
				Sources:     cli.EnvVars("LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			if err := logger.Setup(flags.LogLevel, "console"); err != nil {
				return ctx, err
			}
			cfg, err := config.Load()
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}
			flags.Config = cfg
			return ctx, nil
		},
	}

	app = commands.NewMigrateCmd(flags).Register(app)
	app = commands.NewSeedCmd(flags).Register(app)
	app = commands.NewCreateUserCmd(flags).Register(app)
	app = commands.NewWatchCmd(flags).Register(app)

	if err := app.Run(ctx, os.Args); err != nil {
		log.Error().Err(err).Msg("❌ Command failed")
		stop()
		os.Exit(1)
	}
}
