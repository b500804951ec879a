package database

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

// Supported SQL drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var (
	// ErrNotFound is returned when a row does not exist
	ErrNotFound = errors.New("record not found")

	// ErrConflict is returned when a unique column already holds the value
	ErrConflict = errors.New("record already exists")
)

func init() {
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

// Connect opens and pings the users/notifications database
func Connect(driver, dsn string) (*sqlx.DB, error) {
	if driver == "" {
		driver = DriverPostgres
	}
	if driver != DriverPostgres && driver != DriverSQLite {
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	log.Info().Str("driver", driver).Int("dsn_length", len(dsn)).Msg("🔌 DATABASE CONNECTION ATTEMPT")

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		log.Error().Err(err).Msg("❌ DATABASE CONNECTION FAILED AT sqlx.Open()")
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if driver == DriverSQLite {
		// An in-memory database lives only as long as its single connection
		db.SetMaxOpenConns(1)
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	}

	if err := db.Ping(); err != nil {
		log.Error().Err(err).Msg("❌ DATABASE CONNECTION FAILED AT Ping()")
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info().Str("driver", driver).Msg("✅ DATABASE CONNECTION SUCCESSFUL")
	return db, nil
}

// Migrate creates the schema. Statements are idempotent and valid for both drivers.
func Migrate(db *sqlx.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			email TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'staff' CHECK(role IN ('admin', 'staff')),
			created_at TIMESTAMP NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS notifications (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			message TEXT NOT NULL,
			type TEXT NOT NULL DEFAULT 'info' CHECK(type IN ('info', 'success', 'warning', 'error')),
			bin_id TEXT,
			read_status BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS idx_notifications_read_status ON notifications(read_status)`,
		`CREATE INDEX IF NOT EXISTS idx_notifications_created_at ON notifications(created_at)`,
	}

	for i, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	log.Info().Int("statements", len(migrations)).Msg("✅ Database migrations completed")
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
