package config

import (
	"net"
	"os"
	"path/filepath"
	"time"

	"task-manager/internal/content"
	"task-manager/internal/events"
)

// Config holds all configuration options for the task manager
type Config struct {
	Database    DatabaseConfig
	Content     ContentConfig
	Reminder    ReminderConfig
	Settings    SettingsConfig
	Redis       RedisConfig
	Logging     LoggingConfig
	Application ApplicationConfig
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Dir            string        `env:"TD_DB_DIR"`
	Filename       string        `env:"TD_DB_FILENAME"`
	QueryTimeout   time.Duration `env:"TD_DB_QUERY_TIMEOUT"`
	DirPermissions uint32        `env:"TD_DB_DIR_PERMISSIONS"`
}

// ContentConfig holds the external content interface configuration
type ContentConfig struct {
	Authority    string        `env:"TD_CONTENT_AUTHORITY"`
	Host         string        `env:"TD_HTTP_HOST"`
	Port         string        `env:"TD_HTTP_PORT"`
	ReadTimeout  time.Duration `env:"TD_HTTP_READ_TIMEOUT"`
	WriteTimeout time.Duration `env:"TD_HTTP_WRITE_TIMEOUT"`
	CallTimeout  time.Duration `env:"TD_CONTENT_CALL_TIMEOUT"`
}

// ReminderConfig holds reminder scheduling configuration
type ReminderConfig struct {
	Enabled   bool   `env:"TD_REMINDERS_ENABLED"`
	StatePath string `env:"TD_STATE_PATH"`
}

// SettingsConfig holds user settings storage configuration
type SettingsConfig struct {
	Persist bool `env:"TD_SETTINGS_PERSIST"`
}

// RedisConfig holds the optional change feed configuration
type RedisConfig struct {
	URL     string `env:"TD_REDIS_URL"`
	Channel string `env:"TD_REDIS_CHANNEL"`
}

// LoggingConfig holds logger configuration
type LoggingConfig struct {
	Level    string `env:"TD_LOG_LEVEL"`
	Encoding string `env:"TD_LOG_ENCODING"`
}

// ApplicationConfig holds application-level configuration
type ApplicationConfig struct {
	Timeout time.Duration `env:"TD_APP_TIMEOUT"`
	Verbose bool          `env:"TD_APP_VERBOSE"`
}

// NewConfig creates a new configuration with sensible defaults
func NewConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	defaultDBDir := filepath.Join(homeDir, ".td")

	return &Config{
		Database: DatabaseConfig{
			Dir:            defaultDBDir,
			Filename:       "tasks.db",
			QueryTimeout:   10 * time.Second,
			DirPermissions: 0755,
		},
		Content: ContentConfig{
			Authority:    content.DefaultAuthority,
			Host:         "127.0.0.1",
			Port:         "8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			CallTimeout:  5 * time.Second,
		},
		Reminder: ReminderConfig{
			Enabled: true,
		},
		Settings: SettingsConfig{
			Persist: true,
		},
		Redis: RedisConfig{
			Channel: events.DefaultChannel,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Encoding: "console",
		},
		Application: ApplicationConfig{
			Timeout: 60 * time.Second,
		},
	}
}

// GetDatabasePath returns the full path to the database file
func (c *Config) GetDatabasePath() string {
	return filepath.Join(c.Database.Dir, c.Database.Filename)
}

// GetStatePath returns the BoltDB file holding settings and reminder jobs
func (c *Config) GetStatePath() string {
	if c.Reminder.StatePath != "" {
		return c.Reminder.StatePath
	}
	return filepath.Join(c.Database.Dir, "state.db")
}

// GetQueryTimeout returns the database query timeout
func (c *Config) GetQueryTimeout() time.Duration {
	return c.Database.QueryTimeout
}

// HTTPAddr returns the listen address of the content HTTP transport
func (c *Config) HTTPAddr() string {
	return net.JoinHostPort(c.Content.Host, c.Content.Port)
}

// LoadFromEnvironment loads configuration from environment variables
func (c *Config) LoadFromEnvironment() error {
	// Database configuration
	c.Database.Dir = getString("TD_DB_DIR", c.Database.Dir)
	c.Database.Filename = getString("TD_DB_FILENAME", c.Database.Filename)
	c.Database.QueryTimeout = ParseDurationWithFallback(os.Getenv("TD_DB_QUERY_TIMEOUT"), c.Database.QueryTimeout)
	c.Database.DirPermissions = ParseUint32WithFallback(os.Getenv("TD_DB_DIR_PERMISSIONS"), 8, c.Database.DirPermissions)

	// Content interface configuration
	c.Content.Authority = getString("TD_CONTENT_AUTHORITY", c.Content.Authority)
	c.Content.Host = getString("TD_HTTP_HOST", c.Content.Host)
	c.Content.Port = getString("TD_HTTP_PORT", c.Content.Port)
	c.Content.ReadTimeout = ParseDurationWithFallback(os.Getenv("TD_HTTP_READ_TIMEOUT"), c.Content.ReadTimeout)
	c.Content.WriteTimeout = ParseDurationWithFallback(os.Getenv("TD_HTTP_WRITE_TIMEOUT"), c.Content.WriteTimeout)
	c.Content.CallTimeout = ParseDurationWithFallback(os.Getenv("TD_CONTENT_CALL_TIMEOUT"), c.Content.CallTimeout)

	// Reminder and settings configuration
	c.Reminder.Enabled = ParseBoolWithFallback(os.Getenv("TD_REMINDERS_ENABLED"), c.Reminder.Enabled)
	c.Reminder.StatePath = getString("TD_STATE_PATH", c.Reminder.StatePath)
	c.Settings.Persist = ParseBoolWithFallback(os.Getenv("TD_SETTINGS_PERSIST"), c.Settings.Persist)

	// Redis configuration
	c.Redis.URL = getString("TD_REDIS_URL", c.Redis.URL)
	c.Redis.Channel = getString("TD_REDIS_CHANNEL", c.Redis.Channel)

	// Logging configuration
	c.Logging.Level = getString("TD_LOG_LEVEL", c.Logging.Level)
	c.Logging.Encoding = getString("TD_LOG_ENCODING", c.Logging.Encoding)

	// Application configuration
	c.Application.Timeout = ParseDurationWithFallback(os.Getenv("TD_APP_TIMEOUT"), c.Application.Timeout)
	c.Application.Verbose = ParseBoolWithFallback(os.Getenv("TD_APP_VERBOSE"), c.Application.Verbose)

	return nil
}

// Validate validates the configuration and returns any errors
func (c *Config) Validate() error {
	// Validate database configuration
	if c.Database.Dir == "" {
		return &ConfigError{Field: "database.dir", Message: "database directory cannot be empty"}
	}
	if c.Database.Filename == "" {
		return &ConfigError{Field: "database.filename", Message: "database filename cannot be empty"}
	}
	if c.Database.QueryTimeout <= 0 {
		return &ConfigError{Field: "database.query_timeout", Message: "query timeout must be positive"}
	}

	// Validate content interface configuration
	if c.Content.Authority == "" {
		return &ConfigError{Field: "content.authority", Message: "authority cannot be empty"}
	}
	if c.Content.Port == "" {
		return &ConfigError{Field: "content.port", Message: "HTTP port cannot be empty"}
	}
	if c.Content.ReadTimeout <= 0 || c.Content.WriteTimeout <= 0 {
		return &ConfigError{Field: "content.timeouts", Message: "HTTP timeouts must be positive"}
	}
	if c.Content.CallTimeout <= 0 {
		return &ConfigError{Field: "content.call_timeout", Message: "call timeout must be positive"}
	}

	// Validate logging configuration
	switch c.Logging.Encoding {
	case "json", "console":
	default:
		return &ConfigError{Field: "logging.encoding", Message: "encoding must be json or console"}
	}

	// Validate application configuration
	if c.Application.Timeout <= 0 {
		return &ConfigError{Field: "application.timeout", Message: "application timeout must be positive"}
	}

	return nil
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}

func getString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
