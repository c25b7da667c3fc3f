// Package config provides Viper-based hierarchical configuration management.
package config

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	CSV struct {
		Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
	} `mapstructure:"csv" yaml:"csv"`

	Import struct {
		// DateFormats is the ordered list of Go time layouts tried when the
		// fast generic parse fails. Order matters for ambiguous dates.
		DateFormats []string `mapstructure:"date_formats" yaml:"date_formats"`
		// DefaultEncoding is used when encoding detection is not confident.
		DefaultEncoding string `mapstructure:"default_encoding" yaml:"default_encoding"`
		// AmountPattern is the currency-shape regex used during column
		// inference to recognize amount-like text columns.
		AmountPattern string `mapstructure:"amount_pattern" yaml:"amount_pattern"`
		// PositiveIsIncome is the source polarity flag: when false, positive
		// raw values represent expenses and every parsed amount is negated.
		PositiveIsIncome bool `mapstructure:"positive_is_income" yaml:"positive_is_income"`
	} `mapstructure:"import" yaml:"import"`

	Categories struct {
		File string `mapstructure:"file" yaml:"file"`
	} `mapstructure:"categories" yaml:"categories"`

	AI struct {
		Enabled        bool   `mapstructure:"enabled" yaml:"enabled"`
		Model          string `mapstructure:"model" yaml:"model"`
		TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
		APIKey         string `mapstructure:"api_key" yaml:"-"` // Never serialize API key
	} `mapstructure:"ai" yaml:"ai"`

	Categorization struct {
		ConfidenceThreshold float64 `mapstructure:"confidence_threshold" yaml:"confidence_threshold"`
	} `mapstructure:"categorization" yaml:"categorization"`

	Classifier struct {
		ModelPath  string `mapstructure:"model_path" yaml:"model_path"`
		MinSamples int    `mapstructure:"min_samples" yaml:"min_samples"`
	} `mapstructure:"classifier" yaml:"classifier"`
}

// InitializeConfig initializes Viper configuration with hierarchical loading:
// defaults, then an optional config file, then environment variables.
func InitializeConfig() (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.ledgersort")
	v.AddConfigPath(".ledgersort")
	v.AddConfigPath(".")

	// 3. Environment variables
	v.SetEnvPrefix("LEDGERSORT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// 4. Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Log the error but don't fail - continue with defaults and env vars
			fmt.Printf("Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
	}

	// 5. The API key always comes from the environment, unprefixed
	if err := v.BindEnv("ai.api_key", "GEMINI_API_KEY"); err != nil {
		fmt.Printf("Warning: failed to bind GEMINI_API_KEY environment variable: %v\n", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 6. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	// CSV defaults
	v.SetDefault("csv.delimiter", ",")

	// Import defaults
	v.SetDefault("import.date_formats", []string{
		"2006-01-02",
		"01/02/2006",
		"02/01/2006",
		"01-02-2006",
		"02-01-2006",
		"02.01.2006",
		"Jan 2, 2006",
		"2 Jan 2006",
		"20060102",
	})
	v.SetDefault("import.default_encoding", "utf-8")
	v.SetDefault("import.amount_pattern", `[$£€]?\s*\(?-?\d[\d,']*(\.\d+)?\)?(\s*(?i:cr|dr))?`)
	v.SetDefault("import.positive_is_income", true)

	// Categories defaults
	v.SetDefault("categories.file", "categories.yaml")

	// AI defaults
	v.SetDefault("ai.enabled", false)
	v.SetDefault("ai.model", "gemini-2.0-flash")
	v.SetDefault("ai.timeout_seconds", 30)

	// Categorization defaults
	v.SetDefault("categorization.confidence_threshold", 0.7)

	// Classifier defaults
	v.SetDefault("classifier.model_path", "models/classifier.gob")
	v.SetDefault("classifier.min_samples", 50)
}

// validateConfig validates the configuration values.
func validateConfig(config *Config) error {
	// Validate log level
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	// Validate log format
	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	// Validate CSV delimiter
	if len(config.CSV.Delimiter) != 1 {
		return fmt.Errorf("CSV delimiter must be a single character, got: %s", config.CSV.Delimiter)
	}

	// Validate import settings
	if len(config.Import.DateFormats) == 0 {
		return fmt.Errorf("import.date_formats must list at least one layout")
	}
	if _, err := regexp.Compile(config.Import.AmountPattern); err != nil {
		return fmt.Errorf("invalid import.amount_pattern: %w", err)
	}

	// Validate AI configuration
	if config.AI.Enabled {
		if config.AI.APIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY required when AI is enabled")
		}
		if config.AI.TimeoutSeconds < 1 || config.AI.TimeoutSeconds > 300 {
			return fmt.Errorf("ai.timeout_seconds must be between 1 and 300, got: %d", config.AI.TimeoutSeconds)
		}
	}

	// Validate confidence threshold
	if config.Categorization.ConfidenceThreshold < 0.0 || config.Categorization.ConfidenceThreshold > 1.0 {
		return fmt.Errorf("categorization.confidence_threshold must be between 0.0 and 1.0, got: %f", config.Categorization.ConfidenceThreshold)
	}

	// Validate classifier settings
	if config.Classifier.MinSamples < 2 {
		return fmt.Errorf("classifier.min_samples must be at least 2, got: %d", config.Classifier.MinSamples)
	}

	return nil
}

// ConfigureLoggingFromConfig configures a logrus logger based on the Config.
func ConfigureLoggingFromConfig(config *Config) *logrus.Logger {
	logger := logrus.New()

	logLevel, err := logrus.ParseLevel(strings.ToLower(config.Log.Level))
	if err != nil {
		logger.Warnf("Invalid log level '%s', using 'info'", config.Log.Level)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if strings.ToLower(config.Log.Format) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}
