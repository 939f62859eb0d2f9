package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. SINGLETASK_STORAGE_DIR
const EnvPrefix = "SINGLETASK"

// Loader handles loading configuration from multiple sources
type Loader struct {
	v          *viper.Viper
	configFile string
}

// NewLoader creates a new configuration loader with defaults registered
func NewLoader() *Loader {
	l := &Loader{v: viper.New()}
	l.setDefaults(NewConfig())
	return l
}

func (l *Loader) setDefaults(c *Config) {
	l.v.SetDefault("storage.dir", c.Storage.Dir)
	l.v.SetDefault("storage.database_file", c.Storage.DatabaseFile)
	l.v.SetDefault("storage.snapshot_file", c.Storage.SnapshotFile)
	l.v.SetDefault("storage.dir_permissions", c.Storage.DirPermissions)
	l.v.SetDefault("snapshot.save_interval", c.Snapshot.SaveInterval)
	l.v.SetDefault("app.timeout", c.Application.Timeout)
	l.v.SetDefault("app.verbose", c.Application.Verbose)
	l.v.SetDefault("log.file", c.Logging.File)
	l.v.SetDefault("commands.list_format", c.Commands.ListDefaultFormat)
}

// SetConfigFile sets an explicit config file (yaml, toml or json by extension)
func (l *Loader) SetConfigFile(path string) {
	l.configFile = path
}

// BindPFlag makes a command line flag override the given key when the flag is set
func (l *Loader) BindPFlag(key string, flag *pflag.Flag) error {
	if flag == nil {
		return fmt.Errorf("no flag for config key %q", key)
	}
	return l.v.BindPFlag(key, flag)
}

// Load resolves configuration in this order, later sources winning:
// 1. defaults
// 2. config file (SetConfigFile, else SINGLETASK_CONFIG)
// 3. environment variables
// 4. bound command line flags
func (l *Loader) Load() (*Config, error) {
	l.v.SetEnvPrefix(EnvPrefix)
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	l.v.AutomaticEnv()

	configFile := l.configFile
	if configFile == "" {
		configFile = os.Getenv(EnvPrefix + "_CONFIG")
	}
	if configFile != "" {
		l.v.SetConfigFile(configFile)
		if err := l.v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	cfg := &Config{}
	if err := l.v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
