// Package config provides configuration loading and validation for the onboarding service.
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// DefaultAllowedOrigin is the intake web app allowed to call the API from a browser.
const DefaultAllowedOrigin = "https://white-river-06f67820f.5.azurestaticapps.net"

// PDF endpoint modes
const (
	PDFModeLocal   = "local"   // assemble documents in-process
	PDFModeForward = "forward" // proxy the request to PDFFunctionURL
)

// Intake validation modes
const (
	ValidationStrict      = "strict"      // JSON schema plus struct rules
	ValidationPassthrough = "passthrough" // any well-formed JSON object
)

// Log levels
const (
	LogDebug = "debug"
	LogInfo  = "info"
	LogWarn  = "warn"
	LogError = "error"
)

// Config holds process-wide settings. It is built once at startup and injected
// into the server, never read per call site.
type Config struct {
	Port           int    `json:"port,omitempty"`
	AllowedOrigin  string `json:"allowed_origin,omitempty"`
	LogLevel       string `json:"log_level,omitempty"`
	PDFFunctionURL string `json:"pdf_function_url,omitempty"`
	PDFMode        string `json:"pdf_mode,omitempty"`
	ValidationMode string `json:"validation_mode,omitempty"`

	// Database
	DatabaseURL      string `json:"database_url,omitempty"`
	SSNEncryptionKey string `json:"ssn_encryption_key,omitempty"` // 64 hex characters

	// Template sources; embedded templates are used when all are empty
	TemplateDir    string `json:"template_dir,omitempty"`
	TemplateBucket string `json:"template_bucket,omitempty"`
	TemplatePrefix string `json:"template_prefix,omitempty"`
	AWSRegion      string `json:"aws_region,omitempty"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	return Config{
		Port:           8080,
		AllowedOrigin:  DefaultAllowedOrigin,
		LogLevel:       LogInfo,
		PDFMode:        PDFModeLocal,
		ValidationMode: ValidationStrict,
	}
}

// FromEnv reads configuration from environment variables. Unset variables stay empty
// so the result can be merged over a file config or the defaults.
func FromEnv() (Config, error) {
	cfg := Config{
		AllowedOrigin:    os.Getenv("ALLOWED_ORIGIN"),
		LogLevel:         strings.ToLower(os.Getenv("LOG_LEVEL")),
		PDFFunctionURL:   os.Getenv("PDF_FUNCTION_URL"),
		PDFMode:          strings.ToLower(os.Getenv("PDF_MODE")),
		ValidationMode:   strings.ToLower(os.Getenv("VALIDATION_MODE")),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		SSNEncryptionKey: os.Getenv("SSN_ENCRYPTION_KEY"),
		TemplateDir:      os.Getenv("TEMPLATE_DIR"),
		TemplateBucket:   os.Getenv("TEMPLATE_BUCKET"),
		TemplatePrefix:   os.Getenv("TEMPLATE_PREFIX"),
		AWSRegion:        os.Getenv("AWS_REGION"),
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid PORT: %v", err)
		}
		cfg.Port = port
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = databaseURLFromParts(
			os.Getenv("SQL_SERVER"),
			os.Getenv("SQL_DATABASE"),
			os.Getenv("SQL_USER"),
			os.Getenv("SQL_PASSWORD"),
		)
	}

	return cfg, nil
}

// databaseURLFromParts builds a postgres URL from discrete connection parameters.
// Returns "" unless both server and database are set.
func databaseURLFromParts(server, database, user, password string) string {
	if server == "" || database == "" {
		return ""
	}
	u := url.URL{
		Scheme:   "postgres",
		Host:     server,
		Path:     "/" + database,
		RawQuery: "sslmode=require",
	}
	if user != "" {
		if password != "" {
			u.User = url.UserPassword(user, password)
		} else {
			u.User = url.User(user)
		}
	}
	return u.String()
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Load builds the effective configuration: environment over file (if path is set)
// over defaults. The result is validated.
func Load(path string) (*Config, error) {
	env, err := FromEnv()
	if err != nil {
		return nil, err
	}

	base := Defaults()
	if path != "" {
		fileCfg, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		base = fileCfg.MergeWithDefaults(base)
	}

	cfg := env.MergeWithDefaults(base)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' out of range: %d", c.Port)
	}

	switch c.LogLevel {
	case LogDebug, LogInfo, LogWarn, LogError:
	default:
		return fmt.Errorf("config error: unknown log level %q (want debug, info, warn or error)", c.LogLevel)
	}

	switch c.PDFMode {
	case PDFModeLocal:
	case PDFModeForward:
		if c.PDFFunctionURL == "" {
			return fmt.Errorf("config error: pdf mode 'forward' requires PDF_FUNCTION_URL")
		}
	default:
		return fmt.Errorf("config error: unknown pdf mode %q (want local or forward)", c.PDFMode)
	}

	switch c.ValidationMode {
	case ValidationStrict, ValidationPassthrough:
	default:
		return fmt.Errorf("config error: unknown validation mode %q (want strict or passthrough)", c.ValidationMode)
	}

	if c.PDFFunctionURL != "" {
		u, err := url.Parse(c.PDFFunctionURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("config error: invalid PDF_FUNCTION_URL %q", c.PDFFunctionURL)
		}
	}

	if c.DatabaseURL != "" && c.SSNEncryptionKey == "" {
		return fmt.Errorf("config error: SSN_ENCRYPTION_KEY is required when a database is configured")
	}

	if c.TemplateDir != "" && c.TemplateBucket != "" {
		return fmt.Errorf("config error: 'template_dir' and 'template_bucket' are mutually exclusive")
	}
	if c.TemplateDir != "" {
		if _, err := os.Stat(c.TemplateDir); os.IsNotExist(err) {
			return fmt.Errorf("config error: template directory not found: %s", c.TemplateDir)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.AllowedOrigin == "" {
		result.AllowedOrigin = defaults.AllowedOrigin
	}
	if result.LogLevel == "" {
		result.LogLevel = defaults.LogLevel
	}
	if result.PDFFunctionURL == "" {
		result.PDFFunctionURL = defaults.PDFFunctionURL
	}
	if result.PDFMode == "" {
		result.PDFMode = defaults.PDFMode
	}
	if result.ValidationMode == "" {
		result.ValidationMode = defaults.ValidationMode
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.SSNEncryptionKey == "" {
		result.SSNEncryptionKey = defaults.SSNEncryptionKey
	}
	if result.TemplateDir == "" {
		result.TemplateDir = defaults.TemplateDir
	}
	if result.TemplateBucket == "" {
		result.TemplateBucket = defaults.TemplateBucket
	}
	if result.TemplatePrefix == "" {
		result.TemplatePrefix = defaults.TemplatePrefix
	}
	if result.AWSRegion == "" {
		result.AWSRegion = defaults.AWSRegion
	}

	return result
}
