package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Store modes select the primary activity store at startup
const (
	StoreModeFirestore = "firestore"
	StoreModeFallback  = "fallback"
)

// ConfigPathEnv names an optional YAML file applied before environment variables
const ConfigPathEnv = "ECOBIN_CONFIG_PATH"

// Config defines server configuration
type Config struct {
	Port        string         `yaml:"port" env:"PORT"`
	StoreMode   string         `yaml:"store_mode" env:"STORE_MODE"`
	JWTSecret   string         `yaml:"jwt_secret" env:"APP_JWT_SECRET"`
	CORSOrigins []string       `yaml:"cors_origins" env:"CORS_ORIGINS" envSeparator:","`
	Database    DatabaseConfig `yaml:"database"`
	Firebase    FirebaseConfig `yaml:"firebase"`
	Kafka       KafkaConfig    `yaml:"kafka"`
	Log         LogConfig      `yaml:"log"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver" env:"DATABASE_DRIVER"`
	URL    string `yaml:"url" env:"DATABASE_URL"`
	Seed   bool   `yaml:"seed" env:"DATABASE_SEED"`
}

type FirebaseConfig struct {
	CredentialsBase64 string `yaml:"credentials_base64" env:"FIREBASE_CREDENTIALS_BASE64"`
	CredentialsFile   string `yaml:"credentials_file" env:"FIREBASE_CREDENTIALS_FILE"`
	ProjectID         string `yaml:"project_id" env:"FIREBASE_PROJECT_ID"`
	Collection        string `yaml:"collection" env:"FIRESTORE_COLLECTION"`
	FCMTopic          string `yaml:"fcm_topic" env:"FCM_TOPIC"`
}

// Enabled reports whether any credential source is configured
func (f FirebaseConfig) Enabled() bool {
	return f.CredentialsBase64 != "" || f.CredentialsFile != "" || f.ProjectID != ""
}

type KafkaConfig struct {
	Brokers []string `yaml:"brokers" env:"KAFKA_BROKERS" envSeparator:","`
	Topic   string   `yaml:"topic" env:"KAFKA_TOPIC"`
}

// Enabled reports whether events should be mirrored to Kafka
func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0
}

type LogConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL"`
	Format string `yaml:"format" env:"LOG_FORMAT"`
}

// Default returns the configuration used when nothing overrides it
func Default() Config {
	return Config{
		Port:        "8080",
		StoreMode:   StoreModeFirestore,
		CORSOrigins: []string{"*"},
		Database: DatabaseConfig{
			Driver: "postgres",
			Seed:   true,
		},
		Firebase: FirebaseConfig{
			Collection: "activitylogs",
			FCMTopic:   "ecobin-notifications",
		},
		Kafka: KafkaConfig{
			Topic: "ecobin.events",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads .env, then an optional YAML file, then environment variables.
// Later sources win.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()

	if path := os.Getenv(ConfigPathEnv); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}

	return cfg, nil
}

// Validate checks the values the server cannot start without
func (c Config) Validate() error {
	switch c.StoreMode {
	case StoreModeFirestore, StoreModeFallback:
	default:
		return fmt.Errorf("invalid STORE_MODE %q: want %q or %q", c.StoreMode, StoreModeFirestore, StoreModeFallback)
	}

	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("invalid DATABASE_DRIVER %q: want postgres or sqlite", c.Database.Driver)
	}

	if c.Database.URL == "" {
		return errors.New("DATABASE_URL is required")
	}
	if c.JWTSecret == "" {
		return errors.New("APP_JWT_SECRET is required")
	}
	if c.StoreMode == StoreModeFirestore && !c.Firebase.Enabled() {
		return errors.New("STORE_MODE=firestore needs FIREBASE_CREDENTIALS_BASE64, FIREBASE_CREDENTIALS_FILE or FIREBASE_PROJECT_ID")
	}
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
