// Package config manages configuration for the ecstasks CLI and services.
// It uses Viper for unified configuration management from files and environment variables.
package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	awsconfig "github.com/runvoy/ecstasks/internal/config/aws"
	"github.com/runvoy/ecstasks/internal/constants"
	awsConstants "github.com/runvoy/ecstasks/internal/providers/aws/constants"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config is the configuration shared by the task runner Lambda, the CLI and the local harness.
type Config struct {
	LogLevel    string        `mapstructure:"log_level" yaml:"log_level"`
	InitTimeout time.Duration `mapstructure:"init_timeout" yaml:"init_timeout" validate:"gt=0"`

	// Polling
	PollInterval    time.Duration `mapstructure:"poll_interval" yaml:"poll_interval" validate:"gt=0"`
	SafetyMargin    time.Duration `mapstructure:"safety_margin" yaml:"safety_margin" validate:"gte=0"`
	FailureLogLines int           `mapstructure:"failure_log_lines" yaml:"failure_log_lines" validate:"gte=0"`

	// ECS paging
	DescribeBatchSize int `mapstructure:"describe_batch_size" yaml:"describe_batch_size" validate:"min=1,max=100"`
	MaxListPages      int `mapstructure:"max_list_pages" yaml:"max_list_pages" validate:"min=1"`

	// InvocationsTable is the DynamoDB ledger table. Empty disables the ledger.
	InvocationsTable string `mapstructure:"invocations_table" yaml:"invocations_table"`

	// Port of the local event harness.
	Port int `mapstructure:"port" yaml:"port" validate:"min=1,max=65535"`

	AWS *awsconfig.Config `mapstructure:"aws" yaml:"aws"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load loads the configuration using Viper.
// Values come from ~/.ecstasks/config.yaml when present and from ECSTASKS_ environment
// variables, which take precedence over the file.
func Load() (*Config, error) {
	v := newViper()

	if err := loadConfigFile(v); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	return unmarshal(v)
}

// LoadTaskRunner loads the configuration of the task runner Lambda from the environment only.
func LoadTaskRunner() (*Config, error) {
	return unmarshal(newViper())
}

// MustLoadTaskRunner loads task runner configuration and exits on error.
// Suitable for application startup where configuration errors should be fatal.
func MustLoadTaskRunner() *Config {
	cfg, err := LoadTaskRunner()
	if err != nil {
		slog.Error("failed to load task runner configuration", "error", err)
		os.Exit(1)
	}
	return cfg
}

// Save writes the CLI settings of cfg to ~/.ecstasks/config.yaml.
// Only the settings a user is expected to keep in the file are written.
func Save(cfg *Config) error {
	configFile, err := GetConfigPath()
	if err != nil {
		return err
	}

	if err = os.MkdirAll(filepath.Dir(configFile), constants.ConfigDirPermissions); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	v := viper.New()
	v.Set("log_level", cfg.LogLevel)
	v.Set("failure_log_lines", cfg.FailureLogLines)
	v.Set("invocations_table", cfg.InvocationsTable)
	if cfg.AWS != nil {
		if cfg.AWS.Region != "" {
			v.Set("aws.region", cfg.AWS.Region)
		}
		if cfg.AWS.Profile != "" {
			v.Set("aws.profile", cfg.AWS.Profile)
		}
	}

	if err = v.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	if err = os.Chmod(configFile, constants.ConfigFilePermissions); err != nil {
		return fmt.Errorf("error setting config file permissions: %w", err)
	}

	return nil
}

// GetConfigPath returns the path to the CLI config file.
func GetConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("error getting home directory: %w", err)
	}
	return filepath.Join(constants.ConfigDirPath(home), constants.ConfigFileName), nil
}

// GetLogLevel returns the slog.Level from the string configuration.
// Defaults to INFO if the level string is invalid.
func (c *Config) GetLogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// LedgerEnabled reports whether invocations are recorded.
func (c *Config) LedgerEnabled() bool {
	return c.InvocationsTable != ""
}

// LoadSDKConfig loads the AWS SDK configuration into c.AWS.
func (c *Config) LoadSDKConfig(ctx context.Context) error {
	if c.AWS == nil {
		c.AWS = &awsconfig.Config{}
	}
	return c.AWS.LoadSDKConfig(ctx)
}

// Helper functions

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvVars(v)
	awsconfig.BindEnvVars(v)

	return v
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "INFO")
	v.SetDefault("init_timeout", constants.DefaultInitTimeout.String())
	v.SetDefault("poll_interval", constants.DefaultPollInterval.String())
	v.SetDefault("safety_margin", constants.DefaultSafetyMargin.String())
	v.SetDefault("failure_log_lines", constants.DefaultFailureLogLines)
	v.SetDefault("describe_batch_size", awsConstants.DescribeTasksMaxBatch)
	v.SetDefault("max_list_pages", awsConstants.DefaultMaxListPages)
	v.SetDefault("invocations_table", "")
	v.SetDefault("port", constants.DevServerPort)
}

func loadConfigFile(v *viper.Viper) error {
	configFile, err := GetConfigPath()
	if err != nil {
		return err
	}

	v.SetConfigFile(configFile)
	v.SetConfigType("yaml")

	return v.ReadInConfig()
}

func bindEnvVars(v *viper.Viper) {
	envVars := []string{
		"DESCRIBE_BATCH_SIZE",
		"DEV_SERVER_PORT",
		"FAILURE_LOG_LINES",
		"INIT_TIMEOUT",
		"INVOCATIONS_TABLE",
		"LOG_LEVEL",
		"MAX_LIST_PAGES",
		"POLL_INTERVAL",
		"SAFETY_MARGIN",
	}

	for _, envVar := range envVars {
		if envVar == "DEV_SERVER_PORT" {
			_ = v.BindEnv("port", constants.EnvPrefix+"_DEV_SERVER_PORT")
			continue
		}
		_ = v.BindEnv(strings.ToLower(envVar), constants.EnvPrefix+"_"+envVar)
	}
}
