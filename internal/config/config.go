// Package config provides configuration management for chunkdown's CLI.
// It follows Uber Go Style Guide conventions for struct organization and error handling.
package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

// Common configuration errors
var (
	ErrConfigNotFound = errors.New("configuration file not found")
	ErrInvalidConfig  = errors.New("invalid configuration")
)

// ChunkingConfig defines the splitter parameters surfaced to the CLI:
// chunkdown.SplitterOptions' size fields, the link/image style and the
// table-header flag. Per-node split rules are not configurable here; the
// CLI uses chunkdown.DefaultRules.
type ChunkingConfig struct {
	// Size constraints
	ChunkSize        int     `mapstructure:"chunk_size" validate:"required,min=1"`
	MaxOverflowRatio float64 `mapstructure:"max_overflow_ratio" validate:"omitempty,min=1.0"`
	MaxRawSize       *int    `mapstructure:"max_raw_size" validate:"omitempty,min=1"`

	// LinkStyle and ImageStyle, when "inline", set the link/image rule's
	// Style to chunkdown.StyleInline (see there for what that does).
	LinkStyle  string `mapstructure:"link_style"`
	ImageStyle string `mapstructure:"image_style"`

	// PreserveTableHeaders is passed on as
	// SplitterOptions.Experimental.PreserveTableHeaders; the table
	// splitter repeats the header row in every chunk whether it is true
	// or false.
	PreserveTableHeaders bool `mapstructure:"preserve_table_headers"`
}

// Validate checks the chunking configuration and sets defaults.
func (c *ChunkingConfig) Validate() error {
	if c.ChunkSize == 0 {
		c.ChunkSize = 512
	}
	if c.MaxOverflowRatio == 0 {
		c.MaxOverflowRatio = 1.2
	}

	if c.MaxOverflowRatio < 1.0 {
		return fmt.Errorf("%w: max_overflow_ratio must be >= 1.0", ErrInvalidConfig)
	}
	return nil
}

// LoggingConfig controls the CLI's zap logger.
type LoggingConfig struct {
	// Level is a zapcore.Level name: debug, info, warn, error. Unknown
	// or empty values fall back to info.
	Level string `mapstructure:"level"`

	// Encoding is "console" (human-readable, the CLI default) or
	// "json" (for piping into a log aggregator).
	Encoding string `mapstructure:"encoding"`
}

// OutputConfig controls how chunks are written to stdout.
type OutputConfig struct {
	// Delimiter separates chunks when writing them to a single stream.
	// Defaults to a line of three dashes, Format: "json" switches to a
	// JSON array of strings instead.
	Delimiter string `mapstructure:"delimiter"`
	Format    string `mapstructure:"format"`
}

// Config represents chunkdown CLI's complete configuration.
type Config struct {
	// Processing configuration
	Chunking ChunkingConfig `mapstructure:"chunking"`

	// Output configuration
	Output OutputConfig `mapstructure:"output"`

	// Logging configuration
	Logging LoggingConfig `mapstructure:"logging"`
}

// Validate performs configuration validation and sets defaults.
func (c *Config) Validate() error {
	if err := c.Chunking.Validate(); err != nil {
		return fmt.Errorf("chunking config: %w", err)
	}
	if c.Output.Delimiter == "" {
		c.Output.Delimiter = "\n---\n"
	}
	if c.Output.Format == "" {
		c.Output.Format = "text"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Encoding == "" {
		c.Logging.Encoding = "console"
	}
	return nil
}

// LoadConfig loads configuration from file and environment variables.
// It follows Uber Go Style Guide error handling patterns.
func LoadConfig(configPath string) (*Config, error) {
	// Configure viper
	viper.SetConfigName("chunkdown")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configPath)
	viper.SetEnvPrefix("CHUNKDOWN")
	viper.AutomaticEnv()

	// Set intelligent defaults
	setDefaults()

	// Read configuration
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			// A missing config file is not fatal: defaults and
			// environment/flag overrides are enough to run.
			var config Config
			if err := viper.Unmarshal(&config); err != nil {
				return nil, fmt.Errorf("failed to unmarshal config: %w", err)
			}
			if err := config.Validate(); err != nil {
				return nil, fmt.Errorf("config validation failed: %w", err)
			}
			return &config, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	// Unmarshal into struct
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// setDefaults configures sensible default values.
func setDefaults() {
	viper.SetDefault("chunking.chunk_size", 512)
	viper.SetDefault("chunking.max_overflow_ratio", 1.2)
	viper.SetDefault("chunking.link_style", "reference")
	viper.SetDefault("chunking.image_style", "reference")
	viper.SetDefault("chunking.preserve_table_headers", true)

	viper.SetDefault("output.delimiter", "\n---\n")
	viper.SetDefault("output.format", "text")

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.encoding", "console")
}

// MustLoadConfig loads configuration and panics on failure.
// Use this only in main() or init() functions where failure should be fatal.
func MustLoadConfig(configPath string) *Config {
	config, err := LoadConfig(configPath)
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return config
}
