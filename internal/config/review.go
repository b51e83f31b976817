package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	EnvReviewScopeTypes  = "CLAUSEFLOW_REVIEW_SCOPE_TYPES"
	EnvReviewMinGapLines = "CLAUSEFLOW_REVIEW_MIN_GAP_LINES"
)

// ReviewConfig holds the scope taxonomy and extraction coverage settings.
type ReviewConfig struct {
	// ScopeTypes is the set of assignable scope values. The unset state is
	// implicit and always valid.
	ScopeTypes []string `toml:"scope_types"`

	// MinGapLines is the smallest uncovered span between accepted references
	// that raises a coverage warning.
	MinGapLines int `toml:"min_gap_lines"`
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *ReviewConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *ReviewConfig) Merge(overlay *ReviewConfig) {
	if len(overlay.ScopeTypes) > 0 {
		c.ScopeTypes = overlay.ScopeTypes
	}
	if overlay.MinGapLines != 0 {
		c.MinGapLines = overlay.MinGapLines
	}
}

func (c *ReviewConfig) loadDefaults() {
	if len(c.ScopeTypes) == 0 {
		c.ScopeTypes = []string{"po_wide", "line_specific"}
	}
	if c.MinGapLines == 0 {
		c.MinGapLines = 10
	}
}

func (c *ReviewConfig) loadEnv() {
	if v := os.Getenv(EnvReviewScopeTypes); v != "" {
		var scopes []string
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				scopes = append(scopes, s)
			}
		}
		if len(scopes) > 0 {
			c.ScopeTypes = scopes
		}
	}
	if v := os.Getenv(EnvReviewMinGapLines); v != "" {
		if gap, err := strconv.Atoi(v); err == nil {
			c.MinGapLines = gap
		}
	}
}

func (c *ReviewConfig) validate() error {
	for _, s := range c.ScopeTypes {
		if s == "unset" {
			return fmt.Errorf("scope_types must not include the reserved value %q", s)
		}
	}
	if c.MinGapLines < 1 {
		return fmt.Errorf("invalid min_gap_lines: %d", c.MinGapLines)
	}
	return nil
}
