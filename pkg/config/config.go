package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "/etc/rbac/config"
	ConfigFileName    = "rbac.yml"
)

// ValidLogFormats is the list of supported log formats
var ValidLogFormats = []string{"text", "json"}

// RBACConfig holds all server configuration settings
type RBACConfig struct {
	// LogLevel is a logrus level name
	LogLevel string `yaml:"log_level" json:"log_level"`

	// LogFormat is text or json
	LogFormat string `yaml:"log_format" json:"log_format"`

	// TokenTTL is the lifetime of access tokens in seconds
	TokenTTL int `yaml:"token_ttl" json:"token_ttl"`

	// BcryptCost is the cost used to hash new passwords
	BcryptCost int `yaml:"bcrypt_cost" json:"bcrypt_cost"`

	// RegistrationEnabled allows POST /auth/register
	RegistrationEnabled bool `yaml:"registration_enabled" json:"registration_enabled"`

	// EnforceWritePermissions gates mutating routes with permission checks
	EnforceWritePermissions bool `yaml:"enforce_write_permissions" json:"enforce_write_permissions"`

	// CORSAllowedOrigins enables CORS for the listed origins
	CORSAllowedOrigins []string `yaml:"cors_allowed_origins" json:"cors_allowed_origins"`

	// BootstrapFile is a bootstrap document applied at server start
	BootstrapFile string `yaml:"bootstrap_file" json:"bootstrap_file"`

	// sources tracks where each value came from
	sources map[string]string

	// configFilePath is the path to the config file
	configFilePath string
}

// fileConfig mirrors RBACConfig with pointers so explicit false and zero
// values in the file are not mistaken for absent keys.
type fileConfig struct {
	LogLevel                *string  `yaml:"log_level"`
	LogFormat               *string  `yaml:"log_format"`
	TokenTTL                *int     `yaml:"token_ttl"`
	BcryptCost              *int     `yaml:"bcrypt_cost"`
	RegistrationEnabled     *bool    `yaml:"registration_enabled"`
	EnforceWritePermissions *bool    `yaml:"enforce_write_permissions"`
	CORSAllowedOrigins      []string `yaml:"cors_allowed_origins"`
	BootstrapFile           *string  `yaml:"bootstrap_file"`
}

// Attribute represents a configuration attribute with its value and source
type Attribute struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

// Global singleton config
var (
	globalConfig *RBACConfig
	configMu     sync.RWMutex
)

// Get returns the global configuration, loading it if necessary
func Get() *RBACConfig {
	configMu.RLock()
	if globalConfig != nil {
		configMu.RUnlock()
		return globalConfig
	}
	configMu.RUnlock()

	configMu.Lock()
	defer configMu.Unlock()

	if globalConfig == nil {
		cfg, err := Load()
		if err != nil {
			// Return defaults on error
			globalConfig = newDefault()
		} else {
			globalConfig = cfg
		}
	}
	return globalConfig
}

// Reload reloads the configuration from file and environment
func Reload() error {
	cfg, err := Load()
	if err != nil {
		return err
	}

	configMu.Lock()
	globalConfig = cfg
	configMu.Unlock()
	return nil
}

// newDefault returns a config with default values
func newDefault() *RBACConfig {
	return &RBACConfig{
		LogLevel:                "info",
		LogFormat:               "text",
		TokenTTL:                3600,
		BcryptCost:              10,
		RegistrationEnabled:     true,
		EnforceWritePermissions: true,
		CORSAllowedOrigins:      []string{},
		sources:                 make(map[string]string),
	}
}

// Load loads configuration from file and environment variables
// Environment variables take precedence over file values
func Load() (*RBACConfig, error) {
	config := newDefault()

	for _, name := range attributeNames() {
		config.sources[name] = "default"
	}

	configPath := os.Getenv("RBAC_CONFIG_PATH")
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	config.configFilePath = filepath.Join(configPath, ConfigFileName)

	if data, err := os.ReadFile(config.configFilePath); err == nil {
		var file fileConfig
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", config.configFilePath, err)
		}
		config.applyFileConfig(&file)
	}

	if err := config.applyEnvConfig(); err != nil {
		return nil, err
	}

	return config, nil
}

func attributeNames() []string {
	return []string{
		"log_level", "log_format", "token_ttl", "bcrypt_cost",
		"registration_enabled", "enforce_write_permissions",
		"cors_allowed_origins", "bootstrap_file",
	}
}

func (c *RBACConfig) applyFileConfig(file *fileConfig) {
	if file.LogLevel != nil {
		c.LogLevel = *file.LogLevel
		c.sources["log_level"] = "file"
	}
	if file.LogFormat != nil {
		c.LogFormat = *file.LogFormat
		c.sources["log_format"] = "file"
	}
	if file.TokenTTL != nil {
		c.TokenTTL = *file.TokenTTL
		c.sources["token_ttl"] = "file"
	}
	if file.BcryptCost != nil {
		c.BcryptCost = *file.BcryptCost
		c.sources["bcrypt_cost"] = "file"
	}
	if file.RegistrationEnabled != nil {
		c.RegistrationEnabled = *file.RegistrationEnabled
		c.sources["registration_enabled"] = "file"
	}
	if file.EnforceWritePermissions != nil {
		c.EnforceWritePermissions = *file.EnforceWritePermissions
		c.sources["enforce_write_permissions"] = "file"
	}
	if len(file.CORSAllowedOrigins) > 0 {
		c.CORSAllowedOrigins = file.CORSAllowedOrigins
		c.sources["cors_allowed_origins"] = "file"
	}
	if file.BootstrapFile != nil {
		c.BootstrapFile = *file.BootstrapFile
		c.sources["bootstrap_file"] = "file"
	}
}

func (c *RBACConfig) applyEnvConfig() error {
	if val := os.Getenv("RBAC_LOG_LEVEL"); val != "" {
		c.LogLevel = val
		c.sources["log_level"] = "environment"
	}
	if val := os.Getenv("RBAC_LOG_FORMAT"); val != "" {
		c.LogFormat = val
		c.sources["log_format"] = "environment"
	}
	if val := os.Getenv("RBAC_TOKEN_TTL"); val != "" {
		i, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid RBAC_TOKEN_TTL %q: %w", val, err)
		}
		c.TokenTTL = i
		c.sources["token_ttl"] = "environment"
	}
	if val := os.Getenv("RBAC_BCRYPT_COST"); val != "" {
		i, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("invalid RBAC_BCRYPT_COST %q: %w", val, err)
		}
		c.BcryptCost = i
		c.sources["bcrypt_cost"] = "environment"
	}
	if val := os.Getenv("RBAC_REGISTRATION_ENABLED"); val != "" {
		c.RegistrationEnabled = val == "true" || val == "1"
		c.sources["registration_enabled"] = "environment"
	}
	if val := os.Getenv("RBAC_ENFORCE_WRITE_PERMISSIONS"); val != "" {
		c.EnforceWritePermissions = val == "true" || val == "1"
		c.sources["enforce_write_permissions"] = "environment"
	}
	if val := os.Getenv("RBAC_CORS_ALLOWED_ORIGINS"); val != "" {
		c.CORSAllowedOrigins = splitAndTrim(val)
		c.sources["cors_allowed_origins"] = "environment"
	}
	if val := os.Getenv("RBAC_BOOTSTRAP_FILE"); val != "" {
		c.BootstrapFile = val
		c.sources["bootstrap_file"] = "environment"
	}
	return nil
}

// ConfigFilePath returns the path to the config file
func (c *RBACConfig) ConfigFilePath() string {
	return c.configFilePath
}

// Source returns the source of a configuration attribute
func (c *RBACConfig) Source(name string) string {
	if c.sources == nil {
		return "default"
	}
	if s, ok := c.sources[name]; ok {
		return s
	}
	return "default"
}

// TokenLifetime returns the token TTL as a duration
func (c *RBACConfig) TokenLifetime() time.Duration {
	return time.Duration(c.TokenTTL) * time.Second
}

// Validate validates the configuration
func (c *RBACConfig) Validate() error {
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level: %s", c.LogLevel)
	}

	validFormat := false
	for _, f := range ValidLogFormats {
		if c.LogFormat == f {
			validFormat = true
		}
	}
	if !validFormat {
		return fmt.Errorf("invalid log_format: %s", c.LogFormat)
	}

	if c.TokenTTL <= 0 {
		return fmt.Errorf("token_ttl must be positive, got %d", c.TokenTTL)
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("bcrypt_cost must be between 4 and 31, got %d", c.BcryptCost)
	}

	return nil
}

// NewLogger builds a logger from the log settings.
func (c *RBACConfig) NewLogger() *logrus.Logger {
	logger := logrus.New()
	if level, err := logrus.ParseLevel(c.LogLevel); err == nil {
		logger.SetLevel(level)
	}
	if c.LogFormat == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger
}

// Attributes returns all configuration attributes with their values and sources
func (c *RBACConfig) Attributes() []Attribute {
	return []Attribute{
		{Name: "log_level", Value: c.LogLevel, Source: c.Source("log_level")},
		{Name: "log_format", Value: c.LogFormat, Source: c.Source("log_format")},
		{Name: "token_ttl", Value: strconv.Itoa(c.TokenTTL), Source: c.Source("token_ttl")},
		{Name: "bcrypt_cost", Value: strconv.Itoa(c.BcryptCost), Source: c.Source("bcrypt_cost")},
		{Name: "registration_enabled", Value: strconv.FormatBool(c.RegistrationEnabled), Source: c.Source("registration_enabled")},
		{Name: "enforce_write_permissions", Value: strconv.FormatBool(c.EnforceWritePermissions), Source: c.Source("enforce_write_permissions")},
		{Name: "cors_allowed_origins", Value: strings.Join(c.CORSAllowedOrigins, ","), Source: c.Source("cors_allowed_origins")},
		{Name: "bootstrap_file", Value: c.BootstrapFile, Source: c.Source("bootstrap_file")},
	}
}

// FormatText returns a text representation of the configuration
func (c *RBACConfig) FormatText() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Config file: %s\n\n", c.configFilePath))
	sb.WriteString(fmt.Sprintf("%-30s %-30s %s\n", "NAME", "VALUE", "SOURCE"))
	sb.WriteString(fmt.Sprintf("%-30s %-30s %s\n", "----", "-----", "------"))

	for _, attr := range c.Attributes() {
		value := attr.Value
		if value == "" {
			value = "(not set)"
		}
		sb.WriteString(fmt.Sprintf("%-30s %-30s %s\n", attr.Name, value, attr.Source))
	}
	return sb.String()
}

// FormatJSON returns a JSON representation of the configuration
func (c *RBACConfig) FormatJSON() (string, error) {
	result := map[string]interface{}{
		"config_file": c.configFilePath,
		"attributes":  c.Attributes(),
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
