package logger

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds logging configuration
type Config struct {
	Level          string `yaml:"level"`
	ConsoleEnabled bool   `yaml:"console_enabled"`
	ConsoleFormat  string `yaml:"console_format"`
	FileEnabled    bool   `yaml:"file_enabled"`
	FilePath       string `yaml:"file_path"`
	FileFormat     string `yaml:"file_format"`
	FileMaxSizeMB  int    `yaml:"file_max_size_mb"`
	FileMaxBackups int    `yaml:"file_max_backups"`
	FileMaxAgeDays int    `yaml:"file_max_age_days"`
	FileCompress   bool   `yaml:"file_compress"`
}

// LoggingConfig wraps the Config for YAML parsing
type LoggingConfig struct {
	Logging Config `yaml:"logging"`
}

// DefaultConfig returns the logging defaults: INFO text output on the console
func DefaultConfig() Config {
	return Config{
		Level:          "INFO",
		ConsoleEnabled: true,
		ConsoleFormat:  "text",
		FileEnabled:    false,
		FilePath:       "logs/overworld.log",
		FileFormat:     "json",
		FileMaxSizeMB:  10,
		FileMaxBackups: 5,
		FileMaxAgeDays: 30,
	}
}

// LoadConfig loads logging configuration from a YAML file
// and applies environment variable overrides.
// Fields missing from the file keep their defaults.
func LoadConfig(configPath string) (Config, error) {
	config := DefaultConfig()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err == nil {
			// Decoding into a pre-filled struct keeps defaults for absent keys
			wrapper := LoggingConfig{Logging: config}
			if err := yaml.Unmarshal(data, &wrapper); err == nil {
				config = wrapper.Logging
			}
		}
		// Silently use defaults if file doesn't exist or can't be parsed
	}

	if logLevel := os.Getenv("LOG_LEVEL"); logLevel != "" {
		config.Level = logLevel
	}

	if consoleFormat := os.Getenv("LOG_CONSOLE_FORMAT"); consoleFormat != "" {
		config.ConsoleFormat = consoleFormat
	}

	if fileEnabled := os.Getenv("LOG_FILE_ENABLED"); fileEnabled != "" {
		if enabled, err := strconv.ParseBool(fileEnabled); err == nil {
			config.FileEnabled = enabled
		}
	}

	if filePath := os.Getenv("LOG_FILE_PATH"); filePath != "" {
		config.FilePath = filePath
	}

	return config, nil
}
