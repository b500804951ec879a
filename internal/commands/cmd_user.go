package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
	"golang.org/x/crypto/bcrypt"

	"ecobin-backend/internal/database"
	"ecobin-backend/internal/models"
)

type CreateUserCmd struct {
	flags *Flags

	username string
	email    string
	password string
	role     string
}

func NewCreateUserCmd(flags *Flags) *CreateUserCmd {
	return &CreateUserCmd{flags: flags}
}

func (cmd *CreateUserCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "create-user",
		Usage:     "Create a dashboard account",
		UsageText: "ecobinctl create-user --username NAME --email EMAIL --password PASS [--role admin]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "username",
				Aliases:     []string{"u"},
				Usage:       "login and display name",
				Required:    true,
				Destination: &cmd.username,
			},
			&cli.StringFlag{
				Name:        "email",
				Aliases:     []string{"e"},
				Usage:       "email address, also accepted at login",
				Required:    true,
				Destination: &cmd.email,
			},
			&cli.StringFlag{
				Name:        "password",
				Aliases:     []string{"p"},
				Usage:       "initial password (at least 6 characters)",
				Sources:     cli.EnvVars("ECOBIN_USER_PASSWORD"),
				Required:    true,
				Destination: &cmd.password,
			},
			&cli.StringFlag{
				Name:        "role",
				Usage:       "admin or staff",
				Value:       models.RoleStaff,
				Destination: &cmd.role,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *CreateUserCmd) run(ctx context.Context, c *cli.Command) error {
	user, err := cmd.user()
	if err != nil {
		return err
	}

	db, err := cmd.flags.openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.NewUserStore(db).Create(ctx, user); err != nil {
		if errors.Is(err, database.ErrConflict) {
			return fmt.Errorf("a user named %q or with email %q already exists", user.Username, user.Email)
		}
		return err
	}

	log.Info().Str("id", user.ID).Str("email", user.Email).Str("role", user.Role).Msg("✅ User created")
	fmt.Fprintln(c.Root().Writer, user.ID)
	return nil
}

func (cmd *CreateUserCmd) user() (models.User, error) {
	username := strings.TrimSpace(cmd.username)
	email := strings.ToLower(strings.TrimSpace(cmd.email))

	switch {
	case username == "":
		return models.User{}, errors.New("username must not be blank")
	case !strings.Contains(email, "@"):
		return models.User{}, fmt.Errorf("invalid email %q", cmd.email)
	case len(cmd.password) < 6:
		return models.User{}, errors.New("password must be at least 6 characters")
	case !models.IsValidRole(cmd.role):
		return models.User{}, fmt.Errorf("invalid role %q: want admin or staff", cmd.role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	return models.User{
		ID:        uuid.New().String(),
		Username:  username,
		Email:     email,
		Password:  string(hash),
		Role:      cmd.role,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}, nil
}
