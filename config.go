package ensemble

import (
	"fmt"
	"time"

	"github.com/viant/ensemble/service/agent"
)

// Config is a serialisable representation of the session configuration. It
// can be populated from JSON, YAML, environment variables, etc. The
// zero-value is useful – all nested fields inherit their package defaults.
type Config struct {
	LogDir    string      `json:"logDir,omitempty" yaml:"logDir,omitempty"`
	MaxRounds int         `json:"maxRounds,omitempty" yaml:"maxRounds,omitempty"`
	Retry     RetryConfig `json:"retry" yaml:"retry"`
}

// RetryConfig is the declarative form of the agent retry policy.
type RetryConfig struct {
	MaxAttempts         int      `json:"maxAttempts,omitempty" yaml:"maxAttempts,omitempty"`
	Delay               string   `json:"delay,omitempty" yaml:"delay,omitempty"`
	TransientSignatures []string `json:"transientSignatures,omitempty" yaml:"transientSignatures,omitempty"`
}

// DefaultConfig returns a Config populated with the package defaults.
func DefaultConfig() *Config {
	retry := agent.DefaultRetry()
	return &Config{
		Retry: RetryConfig{
			MaxAttempts:         retry.MaxAttempts,
			Delay:               retry.Delay.String(),
			TransientSignatures: retry.TransientSignatures,
		},
	}
}

// Validate returns an error describing invalid settings or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	if c.Retry.MaxAttempts < 0 {
		return fmt.Errorf("retry.maxAttempts must be >= 0")
	}
	if c.Retry.Delay != "" {
		if _, err := time.ParseDuration(c.Retry.Delay); err != nil {
			return fmt.Errorf("invalid retry.delay: %w", err)
		}
	}
	if c.MaxRounds < 0 {
		return fmt.Errorf("maxRounds must be >= 0")
	}
	return nil
}

// Options converts the declarative config into session options.
func (c *Config) Options() ([]Option, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	var options []Option
	if c.LogDir != "" {
		options = append(options, WithLogDir(c.LogDir))
	}
	if c.MaxRounds > 0 {
		options = append(options, WithMaxRounds(c.MaxRounds))
	}
	retry := agent.DefaultRetry()
	if c.Retry.MaxAttempts > 0 {
		retry.MaxAttempts = c.Retry.MaxAttempts
	}
	if c.Retry.Delay != "" {
		retry.Delay, _ = time.ParseDuration(c.Retry.Delay)
	}
	if len(c.Retry.TransientSignatures) > 0 {
		retry.TransientSignatures = c.Retry.TransientSignatures
	}
	options = append(options, WithRetry(retry))
	return options, nil
}

// NewFromConfig creates a session from a declarative config plus optional
// overriding options.
func NewFromConfig(config *Config, options ...Option) (*Session, error) {
	base, err := config.Options()
	if err != nil {
		return nil, err
	}
	return New(append(base, options...)...)
}
