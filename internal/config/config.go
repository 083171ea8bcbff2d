// Package config loads remdocs settings from a YAML file, the environment
// and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

const (
	dbFileName       = "remdocs.db"
	activityFileName = "activity.log"
	logFileName      = "remdocs.log"
)

// Config holds all runtime settings.
type Config struct {
	LogLevel  string   `yaml:"log_level" env:"REMDOCS_LOG_LEVEL" env-default:"INFO"`
	DataDir   string   `yaml:"data_dir" env:"REMDOCS_DATA_DIR"`
	DBDriver  string   `yaml:"db_driver" env:"REMDOCS_DB_DRIVER" env-default:"sqlite3"`
	DBAddress string   `yaml:"db_address" env:"REMDOCS_DB_ADDRESS"`
	UserID    string   `yaml:"user_id" env:"REMDOCS_USER" env-default:"local"`
	Reminder  Reminder `yaml:"reminder"`
}

// Reminder configures the reminder scheduler.
type Reminder struct {
	Interval  time.Duration `yaml:"interval" env:"REMDOCS_REMINDER_INTERVAL" env-default:"1m"`
	StartHour int           `yaml:"start_hour" env:"REMDOCS_REMINDER_START_HOUR" env-default:"7"`
	EndHour   int           `yaml:"end_hour" env:"REMDOCS_REMINDER_END_HOUR" env-default:"22"`
}

// Load reads configuration. A .env file in the working directory is applied
// to the environment first. If path is empty or does not exist, only the
// environment is read.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}

	var cfg Config
	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return Config{}, fmt.Errorf("failed to read env: %w", err)
		}
	} else if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		var pe *os.PathError
		if !errors.As(err, &pe) {
			return Config{}, fmt.Errorf("failed to read config %q: %w", path, err)
		}
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return Config{}, fmt.Errorf("failed to read env: %w", err)
		}
	}

	if cfg.DataDir == "" {
		dir, err := defaultDataDir()
		if err != nil {
			return Config{}, err
		}
		cfg.DataDir = dir
	}
	if cfg.DBAddress == "" && cfg.DBDriver == DriverSQLite {
		cfg.DBAddress = filepath.Join(cfg.DataDir, dbFileName)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the settings for consistency.
func (c Config) Validate() error {
	switch c.DBDriver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unsupported db_driver %q (want %s or %s)", c.DBDriver, DriverSQLite, DriverPostgres)
	}
	if c.DBAddress == "" {
		return fmt.Errorf("db_address is required for %s", c.DBDriver)
	}
	if c.UserID == "" {
		return fmt.Errorf("user_id must not be empty")
	}
	r := c.Reminder
	if r.StartHour < 0 || r.StartHour > 23 || r.EndHour < 0 || r.EndHour > 23 {
		return fmt.Errorf("reminder hours must be within 0-23")
	}
	if r.StartHour > r.EndHour {
		return fmt.Errorf("reminder start_hour %d is after end_hour %d", r.StartHour, r.EndHour)
	}
	if r.Interval < time.Second {
		return fmt.Errorf("reminder interval must be at least 1s, got %s", r.Interval)
	}
	return nil
}

// ActivityLogPath returns where lifecycle events are appended.
func (c Config) ActivityLogPath() string {
	return filepath.Join(c.DataDir, activityFileName)
}

// LogFilePath returns where the TUI writes its log.
func (c Config) LogFilePath() string {
	return filepath.Join(c.DataDir, logFileName)
}

// EnsureDataDir creates the data directory if needed.
func (c Config) EnsureDataDir() error {
	if err := os.MkdirAll(c.DataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	return nil
}

func defaultDataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".remdocs"), nil
}
