package commands

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"ecobin-backend/internal/database"
)

type MigrateCmd struct {
	flags *Flags
}

func NewMigrateCmd(flags *Flags) *MigrateCmd {
	return &MigrateCmd{flags: flags}
}

func (cmd *MigrateCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "migrate",
		Usage:     "Create or update the users and notifications tables",
		UsageText: "ecobinctl migrate",
		Action:    cmd.run,
	})
	return app
}

func (cmd *MigrateCmd) run(ctx context.Context, c *cli.Command) error {
	db, err := cmd.flags.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	log.Info().Str("driver", cmd.flags.Config.Database.Driver).Msg("✅ Database migrations completed")
	return nil
}

type SeedCmd struct {
	flags *Flags
}

func NewSeedCmd(flags *Flags) *SeedCmd {
	return &SeedCmd{flags: flags}
}

func (cmd *SeedCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "seed",
		Usage:     "Insert the sample users and notifications into empty tables",
		UsageText: "ecobinctl seed",
		Description: `Seeding only touches empty tables, so running it twice is harmless.
Sample users log in with the password "` + database.SeedPassword + `".`,
		Action: cmd.run,
	})
	return app
}

func (cmd *SeedCmd) run(ctx context.Context, c *cli.Command) error {
	db, err := cmd.flags.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Seed(ctx, db); err != nil {
		return err
	}
	log.Info().Msg("🌱 Database seeded")
	return nil
}
