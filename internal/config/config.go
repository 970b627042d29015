package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the top-level bankist.yaml configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Session   SessionConfig   `yaml:"session"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Addr         string `yaml:"addr"`
	MaxBodyBytes int64  `yaml:"max_body_bytes"`
}

// SessionConfig controls issued session tokens.
type SessionConfig struct {
	TokenTTLMinutes int `yaml:"token_ttl_minutes"`
}

// RateLimitConfig is the per-client-IP token bucket.
type RateLimitConfig struct {
	Burst     int `yaml:"burst"`
	PerSecond int `yaml:"per_second"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Server:    ServerConfig{Addr: ":8080", MaxBodyBytes: 1 << 20},
		Session:   SessionConfig{TokenTTLMinutes: 15},
		RateLimit: RateLimitConfig{Burst: 20, PerSecond: 10},
	}
}

// Load reads a bankist.yaml file from disk, filling unset fields with defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	return cfg.normalized(), nil
}

// FromEnv loads the file named by BANKIST_CONFIG, or defaults when unset.
func FromEnv() (Config, error) {
	path := os.Getenv("BANKIST_CONFIG")
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// TokenTTL returns the session token lifetime as a duration.
func (c Config) TokenTTL() time.Duration {
	return time.Duration(c.Session.TokenTTLMinutes) * time.Minute
}

func (c Config) normalized() Config {
	def := Default()
	if c.Server.Addr == "" {
		c.Server.Addr = def.Server.Addr
	}
	if c.Server.MaxBodyBytes <= 0 {
		c.Server.MaxBodyBytes = def.Server.MaxBodyBytes
	}
	if c.Session.TokenTTLMinutes <= 0 {
		c.Session.TokenTTLMinutes = def.Session.TokenTTLMinutes
	}
	if c.RateLimit.Burst <= 0 {
		c.RateLimit.Burst = def.RateLimit.Burst
	}
	if c.RateLimit.PerSecond <= 0 {
		c.RateLimit.PerSecond = def.RateLimit.PerSecond
	}
	return c
}
