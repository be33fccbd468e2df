package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"slices"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var ErrNoStages = errors.New("no stages configured")
var ErrBadInterval = errors.New("poll interval must be positive")
var ErrBadFetchTimeout = errors.New("fetch timeout must be positive")

// Config is the display server's environment.
type Config struct {
	Addr         string `env:"ROSTER_ADDR" envDefault:":8080"`
	UpstreamURL  string `env:"ROSTER_UPSTREAM_URL" envDefault:"http://localhost:3000"`
	UpstreamPath string `env:"ROSTER_UPSTREAM_PATH" envDefault:"/api/redistributed"`

	// Stages maps stage code to upstream base URL, e.g. "side=http://10.0.0.5:3000".
	Stages       map[string]string `env:"ROSTER_STAGES" envSeparator:"," envKeyValSeparator:"="`
	DefaultStage string            `env:"ROSTER_DEFAULT_STAGE" envDefault:"main"`

	PollInterval    time.Duration `env:"ROSTER_POLL_INTERVAL" envDefault:"5s"`
	FetchTimeout    time.Duration `env:"ROSTER_FETCH_TIMEOUT" envDefault:"30s"`
	CursorHideDelay time.Duration `env:"ROSTER_CURSOR_HIDE_DELAY" envDefault:"1s"`

	SkipOverlappingPolls bool `env:"ROSTER_SKIP_OVERLAPPING_POLLS" envDefault:"false"`
	ClearErrorOnSuccess  bool `env:"ROSTER_CLEAR_ERROR_ON_SUCCESS" envDefault:"false"`

	DatabaseURL  string `env:"ROSTER_DATABASE_URL"`
	PollLogLimit int    `env:"ROSTER_POLL_LOG_LIMIT" envDefault:"50"`

	LogLevel string `env:"ROSTER_LOG_LEVEL" envDefault:"info"`
	LogDev   bool   `env:"ROSTER_LOG_DEV" envDefault:"false"`
}

// KioskConfig drives the kiosk browser launcher.
type KioskConfig struct {
	URL     string `env:"ROSTER_KIOSK_URL" envDefault:"http://localhost:8080/"`
	Browser string `env:"ROSTER_KIOSK_BROWSER"`

	LogLevel string `env:"ROSTER_LOG_LEVEL" envDefault:"info"`
	LogDev   bool   `env:"ROSTER_LOG_DEV" envDefault:"false"`
}

// LoadDotEnv reads a .env file if present. Real environment variables win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

func Load() (Config, error) {
	var cfg Config
	if err := LoadDotEnv(); err != nil {
		return cfg, err
	}
	if err := ParseEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func LoadKiosk() (KioskConfig, error) {
	var cfg KioskConfig
	if err := LoadDotEnv(); err != nil {
		return cfg, err
	}
	if err := ParseEnv(&cfg); err != nil {
		return cfg, err
	}
	if _, err := url.ParseRequestURI(cfg.URL); err != nil {
		return cfg, fmt.Errorf("kiosk url: %w", err)
	}
	return cfg, nil
}

// StageUpstreams resolves every stage to its upstream base URL. The default
// stage falls back to UpstreamURL unless ROSTER_STAGES overrides it.
func (c Config) StageUpstreams() map[string]string {
	out := make(map[string]string, len(c.Stages)+1)
	if c.UpstreamURL != "" && c.DefaultStage != "" {
		out[c.DefaultStage] = c.UpstreamURL
	}
	for code, u := range c.Stages {
		out[code] = u
	}
	return out
}

// StageCodes returns the configured stage codes in sorted order.
func (c Config) StageCodes() []string {
	ups := c.StageUpstreams()
	codes := make([]string, 0, len(ups))
	for code := range ups {
		codes = append(codes, code)
	}
	slices.Sort(codes)
	return codes
}

func (c Config) Validate() error {
	if c.PollInterval <= 0 {
		return ErrBadInterval
	}
	// a zero http.Client timeout means no timeout at all
	if c.FetchTimeout <= 0 {
		return ErrBadFetchTimeout
	}
	ups := c.StageUpstreams()
	if len(ups) == 0 {
		return ErrNoStages
	}
	if _, ok := ups[c.DefaultStage]; !ok {
		return fmt.Errorf("default stage %q has no upstream", c.DefaultStage)
	}
	for code, u := range ups {
		if code == "" {
			return errors.New("stage code is empty")
		}
		parsed, err := url.Parse(u)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("stage %q: invalid upstream url %q", code, u)
		}
	}
	return nil
}
