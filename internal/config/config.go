package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// DefaultURL is the hosted curriculum service.
const DefaultURL = "https://mcq-curriculum-ai.navgurukul.org"

// Environment overrides, applied after the file.
const (
	EnvBaseURL = "CURRICULUM_BASE_URL"
	EnvToken   = "CURRICULUM_TOKEN"
)

// Config is the persisted config file schema (~/.curriculum/config.toml).
type Config struct {
	URL            string `toml:"url"`
	AuthPath       string `toml:"auth_path,omitempty"`
	Language       string `toml:"language,omitempty"`
	IntervalMS     int    `toml:"interval_ms,omitempty"`
	TimeoutSeconds int    `toml:"timeout_seconds,omitempty"`
	MaxItems       int    `toml:"max_items,omitempty"`
	LogLevel       string `toml:"log_level,omitempty"`

	// Token 仅来自环境变量或 -c token=...，不会写回配置文件。
	Token  string `toml:"-"`
	Source string `toml:"-"`
}

func Default() Config {
	return Config{
		URL:            DefaultURL,
		Language:       "en",
		IntervalMS:     75,
		TimeoutSeconds: 60,
		MaxItems:       7,
		LogLevel:       "info",
	}
}

// Dir returns ~/.curriculum, or "" when $HOME cannot be resolved.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".curriculum")
}

func DefaultPath() string {
	dir := Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.toml")
}

// Load reads the TOML file at path (DefaultPath when empty). A missing file is
// not an error: defaults plus environment overrides are returned.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}
	if path == "" {
		return cfg, errors.New("config path is empty and $HOME is not set")
	}
	cfg.Source = path

	content, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return cfg, err
	default:
		if err := toml.Unmarshal(content, &cfg); err != nil {
			return cfg, err
		}
	}
	applyEnv(&cfg)
	return cfg.normalized(), nil
}

func applyEnv(cfg *Config) {
	if env := strings.TrimSpace(os.Getenv(EnvBaseURL)); env != "" {
		cfg.URL = env
	}
	if env := strings.TrimSpace(os.Getenv(EnvToken)); env != "" {
		cfg.Token = env
	}
}

// normalized fills zero values left by a partial file with defaults.
func (c Config) normalized() Config {
	def := Default()
	c.URL = strings.TrimRight(strings.TrimSpace(c.URL), "/")
	if c.URL == "" {
		c.URL = def.URL
	}
	if c.IntervalMS <= 0 {
		c.IntervalMS = def.IntervalMS
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = def.TimeoutSeconds
	}
	if c.MaxItems <= 0 {
		c.MaxItems = def.MaxItems
	}
	if strings.TrimSpace(c.Language) == "" {
		c.Language = def.Language
	}
	if strings.TrimSpace(c.LogLevel) == "" {
		c.LogLevel = def.LogLevel
	}
	return c
}

// ResolvedAuthPath returns the session file location.
func (c Config) ResolvedAuthPath() string {
	if p := strings.TrimSpace(c.AuthPath); p != "" {
		return p
	}
	dir := Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "auth.json")
}

// TopicsPath is where the local topic history lives.
func (c Config) TopicsPath() string {
	dir := Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "topics.jsonl")
}
