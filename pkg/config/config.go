package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

// Config holds all process configuration. Values are loaded from an optional
// YAML config file (CONFIG_FILE, default /config/config.yaml) and then
// overridden by environment variables (DATABASE_FILE_PATH, DATA_DIRECTORY,
// and so on).
type Config struct {
	DatabaseBusyTimeout       time.Duration `koanf:"database_busy_timeout" default:"5s"`
	DatabaseConnectRetryCount int           `koanf:"database_connect_retry_count" default:"5"`
	DatabaseConnectRetryDelay time.Duration `koanf:"database_connect_retry_delay" default:"2s"`
	DatabaseDebug             bool          `koanf:"database_debug"`
	DatabaseFilePath          string        `koanf:"database_file_path"`
	DatabaseMaxRetries        int           `koanf:"database_max_retries" default:"5"`
	DataDirectory             string        `koanf:"data_directory"`
	ServerHost                string        `koanf:"server_host" default:"0.0.0.0"`
	ServerPort                int           `koanf:"server_port" default:"3690"`
	WorkerProcesses           int           `koanf:"worker_processes" default:"2"`
}

const defaultConfigFilePath = "/config/config.yaml"

func New() (*Config, error) {
	k := koanf.New(".")

	configFilePath := os.Getenv("CONFIG_FILE")
	if configFilePath == "" {
		configFilePath = defaultConfigFilePath
	}
	if _, err := os.Stat(configFilePath); err == nil {
		if err := k.Load(file.Provider(configFilePath), yaml.Parser()); err != nil {
			return nil, errors.Wrap(err, "failed to load config file")
		}
	}

	// Environment variables override file values. DATABASE_FILE_PATH maps to
	// the database_file_path key.
	err := k.Load(env.Provider("", ".", strings.ToLower), nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load environment")
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, errors.WithStack(err)
	}
	if err := defaults.Set(cfg); err != nil {
		return nil, errors.WithStack(err)
	}

	if cfg.DatabaseFilePath == "" {
		return nil, errors.New(missingRequired("DATABASE_FILE_PATH", "database_file_path"))
	}

	return cfg, nil
}

func missingRequired(envName, key string) string {
	return fmt.Sprintf("missing required config: %s (%s)", envName, key)
}
