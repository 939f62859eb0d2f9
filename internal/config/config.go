package config

import (
	"io/fs"
	"path/filepath"
	"time"
)

// Config holds all configuration options for singletask
type Config struct {
	Storage     StorageConfig     `mapstructure:"storage"`
	Snapshot    SnapshotConfig    `mapstructure:"snapshot"`
	Application ApplicationConfig `mapstructure:"app"`
	Logging     LoggingConfig     `mapstructure:"log"`
	Commands    CommandsConfig    `mapstructure:"commands"`
}

// StorageConfig locates the database and snapshot files
type StorageConfig struct {
	Dir            string `mapstructure:"dir"`
	DatabaseFile   string `mapstructure:"database_file"`
	SnapshotFile   string `mapstructure:"snapshot_file"`
	DirPermissions uint32 `mapstructure:"dir_permissions"`
}

// SnapshotConfig controls periodic state saving
type SnapshotConfig struct {
	SaveInterval time.Duration `mapstructure:"save_interval"`
}

// ApplicationConfig holds application-level configuration
type ApplicationConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
	Verbose bool          `mapstructure:"verbose"`
}

// LoggingConfig holds log destinations
type LoggingConfig struct {
	File string `mapstructure:"file"`
}

// CommandsConfig holds command-specific defaults
type CommandsConfig struct {
	ListDefaultFormat string `mapstructure:"list_format"`
}

// Output formats accepted by list-style commands
var OutputFormats = []string{"table", "json", "yaml", "csv"}

// NewConfig creates a configuration with defaults. Files live in the working
// directory unless storage.dir says otherwise.
func NewConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Dir:            ".",
			DatabaseFile:   "tasks.db",
			SnapshotFile:   "app_state.json",
			DirPermissions: 0755,
		},
		Snapshot: SnapshotConfig{
			SaveInterval: 60 * time.Second,
		},
		Application: ApplicationConfig{
			Timeout: 60 * time.Second,
			Verbose: false,
		},
		Commands: CommandsConfig{
			ListDefaultFormat: "table",
		},
	}
}

// GetDatabasePath returns the full path to the database file
func (c *Config) GetDatabasePath() string {
	return filepath.Join(c.Storage.Dir, c.Storage.DatabaseFile)
}

// GetSnapshotPath returns the full path to the snapshot file
func (c *Config) GetSnapshotPath() string {
	return filepath.Join(c.Storage.Dir, c.Storage.SnapshotFile)
}

// GetDirPermissions returns the mode used when creating the storage directory
func (c *Config) GetDirPermissions() fs.FileMode {
	return fs.FileMode(c.Storage.DirPermissions)
}

// Validate validates the configuration and returns the first problem found
func (c *Config) Validate() error {
	if c.Storage.Dir == "" {
		return &ConfigError{Field: "storage.dir", Message: "storage directory cannot be empty"}
	}
	if c.Storage.DatabaseFile == "" {
		return &ConfigError{Field: "storage.database_file", Message: "database filename cannot be empty"}
	}
	if c.Storage.SnapshotFile == "" {
		return &ConfigError{Field: "storage.snapshot_file", Message: "snapshot filename cannot be empty"}
	}
	if c.Storage.DatabaseFile == c.Storage.SnapshotFile {
		return &ConfigError{Field: "storage.snapshot_file", Message: "snapshot and database must be different files"}
	}
	if c.Storage.DirPermissions == 0 || c.Storage.DirPermissions > 0777 {
		return &ConfigError{Field: "storage.dir_permissions", Message: "directory permissions must be between 0001 and 0777"}
	}

	if c.Snapshot.SaveInterval <= 0 {
		return &ConfigError{Field: "snapshot.save_interval", Message: "save interval must be positive"}
	}

	if c.Application.Timeout <= 0 {
		return &ConfigError{Field: "app.timeout", Message: "application timeout must be positive"}
	}

	if !IsOutputFormat(c.Commands.ListDefaultFormat) {
		return &ConfigError{Field: "commands.list_format", Message: "list format must be one of table, json, yaml, csv"}
	}

	return nil
}

// IsOutputFormat reports whether format is a supported output format
func IsOutputFormat(format string) bool {
	for _, f := range OutputFormats {
		if f == format {
			return true
		}
	}
	return false
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
