package config

import (
	"fmt"
	"strings"

	"fdrtidy/adapters/render"
	"fdrtidy/domain/table"
	"fdrtidy/internal/errors"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Output   OutputConfig
	Export   ExportConfig
	Log      LogConfig
}

// DatabaseConfig holds database connection settings. An empty URL selects
// the in-memory result store.
type DatabaseConfig struct {
	URL string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// OutputConfig holds the defaults used when tabulating and rendering
type OutputConfig struct {
	Flavor     table.Flavor
	Format     render.Format
	StrictRows bool
}

// ExportConfig holds batch export settings
type ExportConfig struct {
	Concurrency int
}

// LogConfig holds logger settings
type LogConfig struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
}

// UsesDatabase reports whether results are persisted in PostgreSQL
func (c *Config) UsesDatabase() bool {
	return c.Database.URL != ""
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	return LoadFrom(v)
}

// LoadFrom reads configuration from v, which may carry flag bindings on top of the environment
func LoadFrom(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	flavor, err := table.ParseFlavor(v.GetString("TIDY_FLAVOR"))
	if err != nil {
		return nil, errors.WithCode(errors.CodeConfigInvalid, errors.Wrap(err, "invalid TIDY_FLAVOR"))
	}
	format, err := render.ParseFormat(v.GetString("TIDY_FORMAT"))
	if err != nil {
		return nil, errors.WithCode(errors.CodeConfigInvalid, errors.Wrap(err, "invalid TIDY_FORMAT"))
	}

	config := &Config{
		Database: DatabaseConfig{
			URL: strings.TrimSpace(v.GetString("DATABASE_URL")),
		},
		Server: ServerConfig{
			Port:    v.GetString("PORT"),
			GinMode: v.GetString("GIN_MODE"),
		},
		Output: OutputConfig{
			Flavor:     flavor,
			Format:     format,
			StrictRows: v.GetBool("TIDY_STRICT_ROWS"),
		},
		Export: ExportConfig{
			Concurrency: v.GetInt("EXPORT_CONCURRENCY"),
		},
		Log: LogConfig{
			Level:      strings.ToUpper(v.GetString("LOG_LEVEL")),
			File:       v.GetString("LOG_FILE"),
			MaxSizeMB:  v.GetInt("LOG_MAX_SIZE_MB"),
			MaxBackups: v.GetInt("LOG_MAX_BACKUPS"),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

// SetDefaults registers the default value of every configuration key
func SetDefaults(v *viper.Viper) {
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("TIDY_FLAVOR", string(table.DefaultFlavor))
	v.SetDefault("TIDY_FORMAT", string(render.FormatCSV))
	v.SetDefault("TIDY_STRICT_ROWS", false)
	v.SetDefault("EXPORT_CONCURRENCY", 4)
	v.SetDefault("LOG_LEVEL", "INFO")
	v.SetDefault("LOG_FILE", "")
	v.SetDefault("LOG_MAX_SIZE_MB", 100)
	v.SetDefault("LOG_MAX_BACKUPS", 3)
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("PORT is required")
	}
	switch config.Server.GinMode {
	case "debug", "release", "test":
	default:
		return errors.ConfigInvalid(fmt.Sprintf("GIN_MODE must be debug, release or test, got %q", config.Server.GinMode))
	}
	if config.Export.Concurrency <= 0 {
		return errors.ConfigInvalid(fmt.Sprintf("EXPORT_CONCURRENCY must be positive, got %d", config.Export.Concurrency))
	}
	switch config.Log.Level {
	case "ERROR", "WARN", "INFO", "DEBUG", "TRACE":
	default:
		return errors.ConfigInvalid(fmt.Sprintf("unknown LOG_LEVEL %q", config.Log.Level))
	}
	if config.Log.File != "" && (config.Log.MaxSizeMB <= 0 || config.Log.MaxBackups < 0) {
		return errors.ConfigInvalid("LOG_MAX_SIZE_MB must be positive and LOG_MAX_BACKUPS non-negative")
	}
	return nil
}
