package extractor

import (
	"fmt"
	"os"
	"time"
)

// Config holds connection parameters for the chunking model endpoint. The
// endpoint speaks the OpenAI-compatible chat completions protocol.
type Config struct {
	BaseURL        string `toml:"base_url"`
	APIKey         string `toml:"api_key"`
	Model          string `toml:"model"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	MaxConcurrent  int    `toml:"max_concurrent"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	BaseURL string
	APIKey  string
	Model   string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	if c.BaseURL == "" {
		c.BaseURL = "http://localhost:11434/v1"
	}
	if c.Model == "" {
		c.Model = "llama3.2"
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 300
	}
	if c.MaxConcurrent <= 0 {
		c.MaxConcurrent = 4
	}

	if env != nil {
		if env.BaseURL != "" {
			if v := os.Getenv(env.BaseURL); v != "" {
				c.BaseURL = v
			}
		}
		if env.APIKey != "" {
			if v := os.Getenv(env.APIKey); v != "" {
				c.APIKey = v
			}
		}
		if env.Model != "" {
			if v := os.Getenv(env.Model); v != "" {
				c.Model = v
			}
		}
	}

	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
	if overlay.APIKey != "" {
		c.APIKey = overlay.APIKey
	}
	if overlay.Model != "" {
		c.Model = overlay.Model
	}
	if overlay.TimeoutSeconds > 0 {
		c.TimeoutSeconds = overlay.TimeoutSeconds
	}
	if overlay.MaxConcurrent > 0 {
		c.MaxConcurrent = overlay.MaxConcurrent
	}
}

// Timeout returns the configured request timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c *Config) validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url required")
	}
	if c.Model == "" {
		return fmt.Errorf("model required")
	}
	if c.TimeoutSeconds <= 0 {
		return fmt.Errorf("timeout_seconds must be positive, got %d", c.TimeoutSeconds)
	}
	return nil
}
