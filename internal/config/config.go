// Package config provides application configuration management with
// multi-source priority.
//
// Configuration sources (highest to lowest priority):
//  1. Environment variables (runtime override)
//  2. Config file (~/.quill/config.yaml)
//  3. Default values (sensible defaults for quick start)
//
// Main configuration categories:
//   - Composer: placeholder text, clear-on-send, retrieval mode
//   - Upload: document ingestion endpoint and throttling
//   - Image: attachment bounding box
//   - History: persistent input history bounds
//   - Telemetry: OTLP trace export (see telemetry.go)
//
// Error Handling:
//   - Uses sentinel errors for Go-idiomatic error checking with errors.Is()
//   - Wrap with context using fmt.Errorf("%w: details", ErrXxx)
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Default values for composer and collaborator configuration.
const (
	// DefaultUploadEndpoint is the local ingestion endpoint documents are
	// posted to.
	DefaultUploadEndpoint = "http://localhost:8000/upload"

	// DefaultMaxImageDimension bounds attached images per axis.
	DefaultMaxImageDimension = 800

	// DefaultHistoryEntries bounds the persistent input history.
	DefaultHistoryEntries = 100
)

// UploadConfig holds document upload settings.
type UploadConfig struct {
	// Endpoint is the URL documents are posted to (multipart field "file").
	Endpoint string `mapstructure:"endpoint" json:"endpoint"`
	// Rate is the token refill rate for upload throttling (tokens/second).
	Rate float64 `mapstructure:"rate" json:"rate"`
	// Burst is the maximum (and initial) upload token allowance.
	Burst int `mapstructure:"burst" json:"burst"`
}

// ImageConfig holds attachment resize bounds.
type ImageConfig struct {
	MaxWidth  int `mapstructure:"max_width" json:"max_width"`
	MaxHeight int `mapstructure:"max_height" json:"max_height"`
}

// HistoryConfig holds persistent input history settings.
type HistoryConfig struct {
	// MaxEntries caps the number of drafts kept in ~/.quill/history.
	MaxEntries int `mapstructure:"max_entries" json:"max_entries"`
}

// Config stores application configuration.
type Config struct {
	// Composer behavior
	Placeholder string `mapstructure:"placeholder" json:"placeholder"`
	ClearOnSend bool   `mapstructure:"clear_on_send" json:"clear_on_send"`

	// RetrievalMode hides the image-attachment affordance; messages feed a
	// retrieval pipeline that only consumes text and uploaded documents.
	RetrievalMode bool `mapstructure:"retrieval_mode" json:"retrieval_mode"`

	// ConversationID pins an existing conversation. Empty means a fresh
	// UUID is generated per run.
	ConversationID string `mapstructure:"conversation_id" json:"conversation_id"`

	Upload    UploadConfig    `mapstructure:"upload" json:"upload"`
	Image     ImageConfig     `mapstructure:"image" json:"image"`
	History   HistoryConfig   `mapstructure:"history" json:"history"`
	Telemetry TelemetryConfig `mapstructure:"telemetry" json:"telemetry"`
}

// Load loads configuration.
// Priority: Environment variables > Configuration file > Default values
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting user home directory: %w", err)
	}

	configDir := filepath.Join(home, ".quill")

	// Ensure directory exists (0750 keeps config private to the user)
	if err := os.MkdirAll(configDir, 0o750); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configDir)
	viper.AddConfigPath(".") // Also support current directory

	setDefaults()
	bindEnvVariables()

	// Read configuration file (if exists)
	if err := viper.ReadInConfig(); err != nil {
		// Configuration file not found is not an error, use default values
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		slog.Debug("configuration file not found, using default values",
			"search_paths", []string{configDir, "."},
			"config_name", "config.yaml")
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	// Validate immediately (fail-fast)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets all default configuration values.
func setDefaults() {
	// Composer defaults
	viper.SetDefault("placeholder", "Type a message...")
	viper.SetDefault("clear_on_send", true)
	viper.SetDefault("retrieval_mode", false)

	// Upload defaults
	viper.SetDefault("upload.endpoint", DefaultUploadEndpoint)
	viper.SetDefault("upload.rate", 0.5)
	viper.SetDefault("upload.burst", 3)

	// Image defaults
	viper.SetDefault("image.max_width", DefaultMaxImageDimension)
	viper.SetDefault("image.max_height", DefaultMaxImageDimension)

	// History defaults
	viper.SetDefault("history.max_entries", DefaultHistoryEntries)

	// Telemetry defaults
	viper.SetDefault("telemetry.enabled", false)
	viper.SetDefault("telemetry.endpoint", "localhost:4318")
	viper.SetDefault("telemetry.environment", "dev")
	viper.SetDefault("telemetry.service_name", "quill")
}

// bindEnvVariables binds runtime override environment variables explicitly.
func bindEnvVariables() {
	// Helper to panic on unexpected bind errors (hardcoded strings can't fail).
	// If this panics, it's a BUG in our code, not a runtime error.
	mustBind := func(key, envVar string) {
		if err := viper.BindEnv(key, envVar); err != nil {
			panic(fmt.Sprintf("BUG: failed to bind %q to %q: %v", key, envVar, err))
		}
	}

	mustBind("upload.endpoint", "QUILL_UPLOAD_ENDPOINT")
	mustBind("retrieval_mode", "QUILL_RETRIEVAL_MODE")
	mustBind("conversation_id", "QUILL_CONVERSATION_ID")
	mustBind("telemetry.enabled", "QUILL_TELEMETRY_ENABLED")
	mustBind("telemetry.endpoint", "QUILL_TELEMETRY_ENDPOINT")
}
