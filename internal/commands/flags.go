package commands

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"ecobin-backend/internal/config"
	"ecobin-backend/internal/database"
)

// Flags holds the global flags and state shared by every command
type Flags struct {
	LogLevel string

	// Config is loaded in the Before hook and available to all commands
	Config config.Config
}

// openDatabase connects and migrates so every command sees the current schema
func (f *Flags) openDatabase() (*sqlx.DB, error) {
	if f.Config.Database.URL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	db, err := database.Connect(f.Config.Database.Driver, f.Config.Database.URL)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
