package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// HTTP Server
	Port string `yaml:"port"`

	// Database
	SQLiteDBPath string `yaml:"db_path"`

	// PDF export. FontURL points at a TTF with CJK coverage; export stays
	// disabled while it is empty.
	FontURL     string        `yaml:"font_url"`
	FontTimeout time.Duration `yaml:"font_timeout"`

	// Scheduled JSON backup snapshots. Disabled while BackupCron is empty.
	BackupCron string `yaml:"backup_cron"`
	BackupDir  string `yaml:"backup_dir"`
}

// Load builds the configuration from an optional YAML file (STONE_CONFIG)
// overridden by environment variables.
func Load() *Config {
	cfg := &Config{
		Port:         "8081",
		SQLiteDBPath: "./data/stone.db",
		FontTimeout:  30 * time.Second,
		BackupDir:    "./data/backups",
	}

	if path := os.Getenv("STONE_CONFIG"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			// Env values still apply; a broken file should not take the
			// defaults down with it.
			fmt.Fprintf(os.Stderr, "config file %s ignored: %v\n", path, err)
		}
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.SQLiteDBPath = getEnv("SQLITE_DB_PATH", cfg.SQLiteDBPath)
	cfg.FontURL = getEnv("FONT_URL", cfg.FontURL)
	cfg.FontTimeout = getEnvDuration("FONT_TIMEOUT", cfg.FontTimeout)
	cfg.BackupCron = getEnv("BACKUP_CRON", cfg.BackupCron)
	cfg.BackupDir = getEnv("BACKUP_DIR", cfg.BackupDir)

	return cfg
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, c)
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.SQLiteDBPath == "" {
		errors = append(errors, "SQLite database path cannot be empty")
	} else {
		dir := filepath.Dir(c.SQLiteDBPath)
		if dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
				}
			}
		}
	}

	if c.FontURL != "" {
		if parsed, err := url.Parse(c.FontURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid font URL '%s': %v", c.FontURL, err))
		} else if parsed.Scheme != "http" && parsed.Scheme != "https" {
			errors = append(errors, fmt.Sprintf("invalid font URL scheme '%s': must be 'http' or 'https'", parsed.Scheme))
		}
	}

	if c.FontTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid font timeout %v: must be at least 1 second", c.FontTimeout))
	}

	if c.BackupCron != "" {
		if _, err := cron.ParseStandard(c.BackupCron); err != nil {
			errors = append(errors, fmt.Sprintf("invalid backup cron '%s': %v", c.BackupCron, err))
		}
		if c.BackupDir == "" {
			errors = append(errors, "backup directory cannot be empty when a backup cron is set")
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
