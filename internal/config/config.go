package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures how smartmix reaches the music server and where it logs.
type Config struct {
	Server         string
	Player         string
	Plugin         string
	Language       string
	LogFile        string
	LogLevel       string
	RequestTimeout time.Duration
	PollInterval   time.Duration
	GenreLimit     int
}

const (
	defaultConfigPath     = "~/.config/smartmix/config.toml"
	defaultLogFile        = "~/.local/state/smartmix/smartmix.log"
	defaultServer         = "127.0.0.1:9000"
	defaultPlugin         = "musicsimilarity"
	defaultLanguage       = "en"
	defaultLogLevel       = "info"
	defaultRequestTimeout = 10 * time.Second
	defaultPollInterval   = 30 * time.Second
	defaultGenreLimit     = 10000
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Server:         defaultServer,
		Plugin:         defaultPlugin,
		Language:       defaultLanguage,
		LogFile:        mustExpand(defaultLogFile),
		LogLevel:       defaultLogLevel,
		RequestTimeout: defaultRequestTimeout,
		PollInterval:   defaultPollInterval,
		GenreLimit:     defaultGenreLimit,
	}
}

// Load locates and parses the smartmix config, falling back to defaults when missing.
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
		Server         string `toml:"server"`
		Player         string `toml:"player"`
		Plugin         string `toml:"plugin"`
		Language       string `toml:"language"`
		LogFile        string `toml:"log_file"`
		LogLevel       string `toml:"log_level"`
		RequestTimeout string `toml:"request_timeout"`
		PollInterval   string `toml:"poll_interval"`
		GenreLimit     int    `toml:"genre_limit"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg.Server = orDefault(raw.Server, defaultServer)
	cfg.Player = strings.TrimSpace(raw.Player)
	cfg.Plugin = orDefault(raw.Plugin, defaultPlugin)
	cfg.Language = orDefault(raw.Language, defaultLanguage)
	cfg.LogLevel = strings.ToLower(orDefault(raw.LogLevel, defaultLogLevel))
	cfg.LogFile = mustExpand(orDefault(raw.LogFile, defaultLogFile))

	if cfg.RequestTimeout, err = parseDuration(raw.RequestTimeout, defaultRequestTimeout); err != nil {
		return Config{}, fmt.Errorf("parse config: request_timeout: %w", err)
	}
	if cfg.PollInterval, err = parseDuration(raw.PollInterval, defaultPollInterval); err != nil {
		return Config{}, fmt.Errorf("parse config: poll_interval: %w", err)
	}
	if raw.GenreLimit > 0 {
		cfg.GenreLimit = raw.GenreLimit
	}

	return cfg, nil
}

// LogDir returns the directory holding the log file.
func (c Config) LogDir() string {
	if strings.TrimSpace(c.LogFile) == "" {
		return filepath.Dir(mustExpand(defaultLogFile))
	}
	return filepath.Dir(c.LogFile)
}

func orDefault(value, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}

func parseDuration(value string, fallback time.Duration) (time.Duration, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(trimmed)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return fallback, nil
	}
	return d, nil
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
