package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/gear6io/tableserve/pkg/errors"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the server configuration
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
}

// HTTPConfig represents the web server configuration
type HTTPConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DatabaseConfig represents the connection settings for the backing database
type DatabaseConfig struct {
	Host         string   `yaml:"host"`
	Port         int      `yaml:"port"`
	Name         string   `yaml:"name"`
	User         string   `yaml:"user"`
	Password     string   `yaml:"password"`
	SSLMode      string   `yaml:"ssl_mode"`
	Table        string   `yaml:"table"`
	QueryTimeout Duration `yaml:"query_timeout"`
}

// Duration wraps time.Duration so YAML values like "5s" parse.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// LogConfig represents logging configuration
type LogConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`      // "json" or "console"
	FilePath   string `yaml:"file_path"`   // Path to log file, empty disables file logging
	Console    bool   `yaml:"console"`     // Whether to log to console
	MaxSize    int    `yaml:"max_size"`    // Max file size in MB before rotation
	MaxBackups int    `yaml:"max_backups"` // Max number of rotated files to keep
}

// Table names are interpolated into the fixed query, so only plain
// identifiers are accepted.
var identRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// LoadDefaultConfig returns a default configuration
func LoadDefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Database: DatabaseConfig{
			Host:         "localhost",
			Port:         5432,
			Name:         "example",
			User:         "example",
			Password:     "example",
			SSLMode:      "disable",
			Table:        "titles",
			QueryTimeout: Duration(5 * time.Second),
		},
		Log: LogConfig{
			Level:      "info",
			Format:     "console",
			FilePath:   "",
			Console:    true,
			MaxSize:    100,
			MaxBackups: 3,
		},
	}
}

// LoadConfig loads configuration from a file
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.New(ErrConfigFileReadFailed, "failed to read config file", err)
	}

	config := LoadDefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, errors.New(ErrConfigFileParseFailed, "failed to parse config file", err)
	}

	if err := config.Validate(); err != nil {
		return nil, errors.New(ErrConfigValidationFailed, "configuration validation failed", err)
	}

	return config, nil
}

// FromEnv applies environment overrides on top of cfg. A local .env file is
// loaded first when present; the container composition injects the same
// variables directly.
func FromEnv(cfg *Config) *Config {
	_ = godotenv.Load()

	if v := os.Getenv("TABLESERVE_HTTP_HOST"); v != "" {
		cfg.HTTP.Host = v
	}
	if v := os.Getenv("TABLESERVE_HTTP_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.Port = port
		}
	}
	if v := os.Getenv("POSTGRES_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("POSTGRES_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Database.Port = port
		}
	}
	if v := os.Getenv("POSTGRES_DB"); v != "" {
		cfg.Database.Name = v
	}
	if v := os.Getenv("POSTGRES_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("POSTGRES_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("TABLESERVE_DB_TABLE"); v != "" {
		cfg.Database.Table = v
	}
	if v := os.Getenv("TABLESERVE_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}

	return cfg
}

// SaveConfig saves configuration to a file
func SaveConfig(config *Config, filename string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return errors.New(ErrConfigFileMarshalFailed, "failed to marshal config", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return errors.New(ErrConfigFileWriteFailed, "failed to write config file", err)
	}

	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return errors.Newf(ErrInvalidPort, "http port %d out of range", c.HTTP.Port)
	}

	if err := c.Database.Validate(); err != nil {
		return err
	}

	return nil
}

// Validate validates the database configuration
func (d *DatabaseConfig) Validate() error {
	if d.Host == "" {
		return errors.New(ErrDatabaseHostRequired, "database host is required", nil)
	}
	if d.Port <= 0 || d.Port > 65535 {
		return errors.Newf(ErrInvalidPort, "database port %d out of range", d.Port)
	}
	if d.Name == "" {
		return errors.New(ErrDatabaseNameRequired, "database name is required", nil)
	}
	if d.User == "" {
		return errors.New(ErrDatabaseUserRequired, "database user is required", nil)
	}
	if !identRegex.MatchString(d.Table) {
		return errors.Newf(ErrInvalidTableName, "table name %q is not a plain identifier", d.Table)
	}
	if d.QueryTimeout < 0 {
		return errors.New(ErrInvalidQueryTimeout, "query timeout must not be negative", nil)
	}
	return nil
}

// GetHTTPAddress returns the host:port the web server binds to
func (c *Config) GetHTTPAddress() string {
	return fmt.Sprintf("%s:%d", c.HTTP.Host, c.HTTP.Port)
}

// GetTable returns the table rendered by the root page
func (c *Config) GetTable() string {
	return c.Database.Table
}
