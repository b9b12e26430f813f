// Package config loads xrayctl credentials and settings from a YAML file and
// the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/sirupsen/logrus"

	"github.com/robotomize/xrayctl/internal/xray"
	"github.com/robotomize/xrayctl/internal/xrayclient"
)

const (
	DefaultRequestsPerSecond = 5.0
	DefaultLogLevel          = "info"

	LogFormatText = "text"
	LogFormatJSON = "json"
)

// envOverrides maps environment variables to the config keys they replace.
var envOverrides = map[string]string{
	"XRAY_URL":                 "xray.url",
	"XRAY_CLIENT_ID":           "xray.client_id",
	"XRAY_CLIENT_SECRET":       "xray.client_secret",
	"JIRA_URL":                 "jira.url",
	"JIRA_BASIC_TOKEN":         "jira.basic_token",
	"JIRA_REQUESTS_PER_SECOND": "jira.requests_per_second",
	"XRAYCTL_LOG_LEVEL":        "log.level",
	"XRAYCTL_LOG_FORMAT":       "log.format",
}

var possiblePaths = []string{
	".xrayctl.yaml",
	".xrayctl.yml",
	filepath.Join(".xrayctl", "config.yaml"),
}

type Config struct {
	Xray XrayConfig `koanf:"xray"`
	Jira JiraConfig `koanf:"jira"`
	Log  LogConfig  `koanf:"log"`
}

type XrayConfig struct {
	URL          string `koanf:"url"`
	ClientID     string `koanf:"client_id"`
	ClientSecret string `koanf:"client_secret"`
}

type JiraConfig struct {
	URL        string `koanf:"url"`
	BasicToken string `koanf:"basic_token"`
	// RequestsPerSecond paces the custom field updates.
	RequestsPerSecond float64 `koanf:"requests_per_second"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Load reads configFile, or the first config file found from the working
// directory upwards when it is empty, and applies environment overrides.
// Having no config file at all is fine.
func Load(configFile string) (*Config, error) {
	if configFile == "" {
		configFile = findConfigFile()
	}

	return load(configFile, os.Getenv)
}

func load(configFile string, getenv func(string) string) (*Config, error) {
	k := koanf.New(".")

	if configFile != "" {
		if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error loading config file %s: %w", configFile, err)
		}
	}

	for envKey, configKey := range envOverrides {
		if val := getenv(envKey); val != "" {
			if err := k.Set(configKey, val); err != nil {
				return nil, fmt.Errorf("error setting %s from env: %w", envKey, err)
			}
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Xray.URL == "" {
		cfg.Xray.URL = xrayclient.DefaultBaseURL
	}

	if cfg.Jira.RequestsPerSecond == 0 {
		cfg.Jira.RequestsPerSecond = DefaultRequestsPerSecond
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}

	if cfg.Log.Format == "" {
		cfg.Log.Format = LogFormatText
	}
}

func (c *Config) Validate() error {
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return &xray.ConfigError{Field: "log.level", Reason: err.Error()}
	}

	switch strings.ToLower(c.Log.Format) {
	case LogFormatText, LogFormatJSON:
	default:
		return &xray.ConfigError{Field: "log.format", Reason: fmt.Sprintf("%q is not one of text | json", c.Log.Format)}
	}

	if c.Jira.RequestsPerSecond < 0 {
		return &xray.ConfigError{Field: "jira.requests_per_second", Reason: "must be positive"}
	}

	return nil
}

func findConfigFile() string {
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}

	currentDir := wd
	for {
		for _, relPath := range possiblePaths {
			fullPath := filepath.Join(currentDir, relPath)
			if _, err := os.Stat(fullPath); err == nil {
				return fullPath
			}
		}

		parent := filepath.Dir(currentDir)
		if parent == currentDir || parent == "." {
			break
		}

		currentDir = parent
	}

	if home, err := os.UserHomeDir(); err == nil {
		fullPath := filepath.Join(home, ".xrayctl.yaml")
		if _, err := os.Stat(fullPath); err == nil {
			return fullPath
		}
	}

	return ""
}
