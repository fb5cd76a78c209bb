package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds runlog's settings. The API token itself is never stored;
// TokenEnv names the environment variable that carries it.
type Config struct {
	APIURL         string
	TokenEnv       string
	LogLevel       string
	LogFile        string
	ShowTimestamps bool
	PollSeconds    int
}

const (
	defaultConfigPath  = "~/.config/runlog/config.toml"
	defaultAPIURL      = "https://api.github.com"
	defaultTokenEnv    = "GITHUB_TOKEN"
	defaultLogLevel    = "info"
	defaultLogFile     = "~/.local/state/runlog/runlog.log"
	defaultPollSeconds = 5
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		APIURL:         defaultAPIURL,
		TokenEnv:       defaultTokenEnv,
		LogLevel:       defaultLogLevel,
		LogFile:        mustExpand(defaultLogFile),
		ShowTimestamps: true,
		PollSeconds:    defaultPollSeconds,
	}
}

// Load locates and parses the runlog config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIURL         string `toml:"api_url"`
		TokenEnv       string `toml:"token_env"`
		LogLevel       string `toml:"log_level"`
		LogFile        string `toml:"log_file"`
		ShowTimestamps *bool  `toml:"show_timestamps"`
		PollSeconds    int    `toml:"poll_seconds"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.APIURL); v != "" {
		cfg.APIURL = strings.TrimRight(v, "/")
	}
	if v := strings.TrimSpace(raw.TokenEnv); v != "" {
		cfg.TokenEnv = v
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		cfg.LogFile = mustExpand(v)
	}
	if raw.ShowTimestamps != nil {
		cfg.ShowTimestamps = *raw.ShowTimestamps
	}
	if raw.PollSeconds > 0 {
		cfg.PollSeconds = raw.PollSeconds
	}

	return cfg, nil
}

// Token reads the API token from the configured environment variable.
// An empty result means unauthenticated requests.
func (c Config) Token() string {
	if strings.TrimSpace(c.TokenEnv) == "" {
		return ""
	}
	return strings.TrimSpace(os.Getenv(c.TokenEnv))
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
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

// ExpandPath is expandPath for callers outside the package (--config,
// --prefs and --dir flags).
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}
