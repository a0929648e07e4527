package provider

import (
	"errors"
	"os"
)

// Config holds external model settings.
type Config struct {
	Model     string `toml:"model"`
	APIKey    string `toml:"api_key"`
	MaxTokens int64  `toml:"max_tokens"`
}

// Env names for config overrides.
type Env struct {
	Model     string
	APIKey    string
	MaxTokens string
}

// Finalize applies defaults and environment overrides, then validates.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	c.loadEnv(env)
	return c.validate()
}

// Merge overlays non-zero fields from o onto c.
func (c *Config) Merge(o *Config) {
	if o.Model != "" {
		c.Model = o.Model
	}
	if o.APIKey != "" {
		c.APIKey = o.APIKey
	}
	if o.MaxTokens > 0 {
		c.MaxTokens = o.MaxTokens
	}
}

func (c *Config) loadDefaults() {
	if c.Model == "" {
		c.Model = "claude-sonnet-4-5"
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = 1024
	}
}

func (c *Config) loadEnv(env *Env) {
	if env == nil {
		return
	}
	if v := os.Getenv(env.Model); v != "" {
		c.Model = v
	}
	if v := os.Getenv(env.APIKey); v != "" {
		c.APIKey = v
	}
}

func (c *Config) validate() error {
	if c.Model == "" {
		return errors.New("provider model is required")
	}
	return nil
}
