package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is everything LearnAI reads at startup.
type Config struct {
	APIURL         string
	UploadSecret   string
	DeleteSecret   string
	LogFile        string
	LogLevel       string
	RequestTimeout time.Duration

	// Path is the config file that was read; empty when none existed.
	Path string
}

const (
	defaultConfigPath = "~/.config/learnai/config.toml"
	defaultAPIURL     = "http://localhost:8000"
	defaultLogFile    = "~/.local/state/learnai/learnai.log"
	defaultLogLevel   = "info"

	envPrefix = "LEARNAI"
)

// DefaultPath returns the config path used when none is given.
func DefaultPath() string {
	return defaultConfigPath
}

// Load reads the TOML file at path (or LEARNAI_CONFIG, or the default
// location) and applies LEARNAI_* environment overrides. A missing file is
// not an error.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	v := viper.New()
	v.SetDefault("api_url", defaultAPIURL)
	v.SetDefault("upload_secret", "")
	v.SetDefault("delete_secret", "")
	v.SetDefault("log_file", defaultLogFile)
	v.SetDefault("log_level", defaultLogLevel)
	v.SetDefault("request_timeout", "0s")

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	// The web frontend read VITE_API_URL; keep honoring it after our own name.
	if err := v.BindEnv("api_url", envPrefix+"_API_URL", "VITE_API_URL"); err != nil {
		return Config{}, fmt.Errorf("bind env: %w", err)
	}

	v.SetConfigFile(resolved)
	v.SetConfigType("toml")

	cfg := Config{}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, os.ErrNotExist) && !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	} else {
		cfg.Path = resolved
	}

	cfg.APIURL = strings.TrimSpace(v.GetString("api_url"))
	if cfg.APIURL == "" {
		cfg.APIURL = defaultAPIURL
	}
	if err := validateURL(cfg.APIURL); err != nil {
		return Config{}, err
	}

	cfg.UploadSecret = v.GetString("upload_secret")
	cfg.DeleteSecret = v.GetString("delete_secret")

	cfg.LogFile = strings.TrimSpace(v.GetString("log_file"))
	if cfg.LogFile == "" {
		cfg.LogFile = defaultLogFile
	}
	cfg.LogFile = mustExpand(cfg.LogFile)

	cfg.LogLevel = strings.ToLower(strings.TrimSpace(v.GetString("log_level")))
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	case "":
		cfg.LogLevel = defaultLogLevel
	default:
		return Config{}, fmt.Errorf("log_level %q: want debug, info, warn or error", cfg.LogLevel)
	}

	rawTimeout := strings.TrimSpace(v.GetString("request_timeout"))
	if rawTimeout != "" {
		timeout, err := time.ParseDuration(rawTimeout)
		if err != nil {
			return Config{}, fmt.Errorf("request_timeout: %w", err)
		}
		if timeout < 0 {
			return Config{}, fmt.Errorf("request_timeout %s is negative", timeout)
		}
		cfg.RequestTimeout = timeout
	}

	return cfg, nil
}

// HasSecrets reports whether both secrets are configured.
func (c Config) HasSecrets() bool {
	return c.UploadSecret != "" && c.DeleteSecret != ""
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("api_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api_url %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("api_url %q: missing host", raw)
	}
	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		if env := strings.TrimSpace(os.Getenv(envPrefix + "_CONFIG")); env != "" {
			return expandPath(env)
		}
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
