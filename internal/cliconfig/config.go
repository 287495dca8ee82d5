package cliconfig

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/bft-labs/fndeploy/internal/domain"
)

// DefaultAPIURL is the functions API the deploy client talks to.
const DefaultAPIURL = "https://api.segmentapis.com"

// DefaultSourcePath is where the function source is read from.
const DefaultSourcePath = "./src/index.js"

// Config holds CLI configuration for fndeploy.
type Config struct {
	SourcePath string

	JobID      string
	FunctionID string
	Token      string

	APIURL      string
	HTTPTimeout time.Duration

	MaxAttempts int
	BackoffBase time.Duration
	MaxBackoff  time.Duration

	ReportPath    string
	Watch         bool
	DebounceDelay time.Duration
	LogLevel      string
}

// DefaultConfig returns a Config with default values.
// JobID, FunctionID and Token have no defaults.
func DefaultConfig() Config {
	return Config{
		SourcePath:    DefaultSourcePath,
		APIURL:        DefaultAPIURL,
		HTTPTimeout:   30 * time.Second,
		MaxAttempts:   domain.DefaultMaxAttempts,
		BackoffBase:   domain.DefaultBackoffBase,
		DebounceDelay: 250 * time.Millisecond,
		LogLevel:      "info",
	}
}

// ValidateLocal checks only what is needed to package and validate the source.
func (c *Config) ValidateLocal() error {
	if c.SourcePath == "" {
		return invalid("source is required")
	}
	if _, err := c.Level(); err != nil {
		return invalid(err.Error())
	}
	return nil
}

// Validate checks the configuration for errors and normalises the API URL.
func (c *Config) Validate() error {
	if err := c.ValidateLocal(); err != nil {
		return err
	}
	if c.JobID == "" {
		return invalid("job id is required (GITHUB_JOB or --job-id)")
	}
	if c.FunctionID == "" {
		return invalid("function id is required (FUNCTION_ID or --function-id)")
	}
	if c.Token == "" {
		return invalid("api token is required (PUBLIC_API_TOKEN or --token)")
	}

	if c.APIURL == "" {
		c.APIURL = DefaultAPIURL
	}
	c.APIURL = strings.TrimRight(c.APIURL, "/")
	u, err := url.Parse(c.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return invalid(fmt.Sprintf("api url %q is not an absolute URL", c.APIURL))
	}

	if c.MaxAttempts < 1 {
		return invalid("max attempts must be at least 1")
	}
	if c.BackoffBase <= 0 {
		return invalid("backoff base must be positive")
	}
	if c.MaxBackoff < 0 {
		return invalid("max backoff must not be negative")
	}
	if c.HTTPTimeout < 0 {
		return invalid("http timeout must not be negative")
	}

	return nil
}

// RetryPolicy builds the retry policy described by the configuration.
func (c Config) RetryPolicy() domain.RetryPolicy {
	return domain.RetryPolicy{
		MaxAttempts: c.MaxAttempts,
		Backoff:     domain.ExponentialBackoff(c.BackoffBase, c.MaxBackoff),
		Retryable:   domain.RetryOnFailure,
	}
}

// Level parses LogLevel.
func (c Config) Level() (zerolog.Level, error) {
	if c.LogLevel == "" {
		return zerolog.InfoLevel, nil
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		return zerolog.InfoLevel, fmt.Errorf("log level: %w", err)
	}
	return lvl, nil
}

// Masked returns a copy safe to log.
func (c Config) Masked() Config {
	if c.Token != "" {
		c.Token = "*****"
	}
	return c
}

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidConfig, msg)
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses a string to int and sets the destination if valid.
// Used for environment variables that come as strings.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
