// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config reads the HANMARU_* environment into Config.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/caarlos0/env/v11"
)

// MinSessionSecretLength is the shortest accepted session secret, in bytes.
const MinSessionSecretLength = 32

// Environments accepted in HANMARU_ENV.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// exampleSecrets ship in sample env files and are refused.
var exampleSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

const secretHint = "generate one with: openssl rand -base64 32"

// Config is the process configuration.
type Config struct {
	APIBaseURL string        `env:"HANMARU_API_BASE_URL" envDefault:"http://localhost:5000"`
	APITimeout time.Duration `env:"HANMARU_API_TIMEOUT" envDefault:"15s"`

	SessionSecret string     `env:"HANMARU_SESSION_SECRET,required"`
	DBPath        string     `env:"HANMARU_DB_PATH" envDefault:"./data/hanmaru.db"`
	ServerHost    string     `env:"HANMARU_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int        `env:"HANMARU_SERVER_PORT" envDefault:"8080"`
	Env           string     `env:"HANMARU_ENV" envDefault:"development"`
	LogLevel      slog.Level `env:"HANMARU_LOG_LEVEL" envDefault:"info"`

	// RedisURL switches the read cache to Redis; empty keeps it in memory.
	RedisURL     string `env:"HANMARU_REDIS_URL"`
	CachePrefix  string `env:"HANMARU_CACHE_PREFIX" envDefault:"hanmaru:"`
	CacheTTL     int    `env:"HANMARU_CACHE_TTL" envDefault:"300"`
	CacheMaxSize int    `env:"HANMARU_CACHE_MAX_SIZE" envDefault:"1000"`
	CacheRefresh string `env:"HANMARU_CACHE_REFRESH" envDefault:"*/5 * * * *"`

	EventRetentionDays int `env:"HANMARU_EVENT_RETENTION_DAYS" envDefault:"30"`

	VerifyRedirectSeconds int           `env:"HANMARU_VERIFY_REDIRECT_SECONDS" envDefault:"3"`
	ResendCooldown        time.Duration `env:"HANMARU_RESEND_COOLDOWN" envDefault:"60s"`

	MaxUploadMB int `env:"HANMARU_MAX_UPLOAD_MB" envDefault:"5"`
}

// Load reads the process environment.
func Load() (*Config, error) {
	return parse(env.Options{})
}

func parse(opts env.Options) (*Config, error) {
	cfg, err := env.ParseAsWithOptions[Config](opts)
	if err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")

	if secretClasses(cfg.SessionSecret) < 3 {
		slog.Warn("HANMARU_SESSION_SECRET mixes few character classes; " + secretHint)
	}
	return &cfg, nil
}

// validate reports every invalid setting at once.
func (c Config) validate() error {
	var errs []error

	switch {
	case len(c.SessionSecret) < MinSessionSecretLength:
		errs = append(errs, fmt.Errorf("HANMARU_SESSION_SECRET must be at least %d bytes, got %d; %s",
			MinSessionSecretLength, len(c.SessionSecret), secretHint))
	case slices.Contains(exampleSecrets, c.SessionSecret):
		errs = append(errs, errors.New("HANMARU_SESSION_SECRET is an example value; "+secretHint))
	}

	if u, err := url.Parse(c.APIBaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("HANMARU_API_BASE_URL must be an absolute http(s) URL, got %q", c.APIBaseURL))
	}
	if c.Env != EnvDevelopment && c.Env != EnvProduction {
		errs = append(errs, fmt.Errorf("HANMARU_ENV must be %s or %s, got %q", EnvDevelopment, EnvProduction, c.Env))
	}
	if c.ResendCooldown < 0 || c.VerifyRedirectSeconds < 0 {
		errs = append(errs, errors.New("verification timers must not be negative"))
	}
	if c.MaxUploadMB <= 0 {
		errs = append(errs, fmt.Errorf("HANMARU_MAX_UPLOAD_MB must be positive, got %d", c.MaxUploadMB))
	}
	if c.CacheTTL <= 0 || c.EventRetentionDays <= 0 {
		errs = append(errs, errors.New("HANMARU_CACHE_TTL and HANMARU_EVENT_RETENTION_DAYS must be positive"))
	}
	return errors.Join(errs...)
}

// secretClasses counts the character classes in s: lower, upper, digit
// and other.
func secretClasses(s string) int {
	var lower, upper, digit, other bool
	for _, r := range s {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		default:
			other = true
		}
	}
	n := 0
	for _, b := range []bool{lower, upper, digit, other} {
		if b {
			n++
		}
	}
	return n
}

// IsDevelopment reports whether HANMARU_ENV is development.
func (c Config) IsDevelopment() bool { return c.Env == EnvDevelopment }

// ServerAddr is the listen address.
func (c Config) ServerAddr() string {
	return net.JoinHostPort(c.ServerHost, strconv.Itoa(c.ServerPort))
}

// UseRedisCache reports whether a Redis URL was given.
func (c Config) UseRedisCache() bool { return c.RedisURL != "" }

// CacheTTLDuration is the lifetime of cached public reads.
func (c Config) CacheTTLDuration() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

// EventRetention is how long event log rows are kept.
func (c Config) EventRetention() time.Duration {
	return time.Duration(c.EventRetentionDays) * 24 * time.Hour
}

// MaxUploadBytes is the picture upload limit.
func (c Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}
