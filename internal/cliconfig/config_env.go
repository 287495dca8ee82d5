package cliconfig

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Environment variables read by ApplyEnvConfig. The first three match the
// names the deploy job has always exported.
const (
	EnvJobID       = "GITHUB_JOB"
	EnvFunctionID  = "FUNCTION_ID"
	EnvToken       = "PUBLIC_API_TOKEN"
	EnvSource      = "FNDEPLOY_SOURCE"
	EnvAPIURL      = "FNDEPLOY_API_URL"
	EnvHTTPTimeout = "FNDEPLOY_HTTP_TIMEOUT"
	EnvMaxAttempts = "FNDEPLOY_MAX_ATTEMPTS"
	EnvBackoffBase = "FNDEPLOY_BACKOFF_BASE"
	EnvMaxBackoff  = "FNDEPLOY_MAX_BACKOFF"
	EnvReport      = "FNDEPLOY_REPORT"
	EnvWatch       = "FNDEPLOY_WATCH"
	EnvDebounce    = "FNDEPLOY_DEBOUNCE"
	EnvLogLevel    = "FNDEPLOY_LOG_LEVEL"
)

// LoadDotEnv loads variables from a .env file into the process environment.
// A missing file is not an error. Variables that are already set win.
func LoadDotEnv(path string) error {
	if path == "" || !FileExists(path) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// ApplyEnvConfig applies configuration from environment variables.
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("job-id", os.Getenv(EnvJobID), &cfg.JobID)
	s.setString("function-id", os.Getenv(EnvFunctionID), &cfg.FunctionID)
	s.setString("token", os.Getenv(EnvToken), &cfg.Token)
	s.setString("source", os.Getenv(EnvSource), &cfg.SourcePath)
	s.setString("api-url", os.Getenv(EnvAPIURL), &cfg.APIURL)
	s.setString("report", os.Getenv(EnvReport), &cfg.ReportPath)
	s.setString("log-level", os.Getenv(EnvLogLevel), &cfg.LogLevel)

	if err := s.setDuration("timeout", os.Getenv(EnvHTTPTimeout), &cfg.HTTPTimeout); err != nil {
		return err
	}
	if err := s.setDuration("backoff-base", os.Getenv(EnvBackoffBase), &cfg.BackoffBase); err != nil {
		return err
	}
	if err := s.setDuration("max-backoff", os.Getenv(EnvMaxBackoff), &cfg.MaxBackoff); err != nil {
		return err
	}
	if err := s.setDuration("debounce", os.Getenv(EnvDebounce), &cfg.DebounceDelay); err != nil {
		return err
	}

	if err := s.setIntFromString("max-attempts", os.Getenv(EnvMaxAttempts), &cfg.MaxAttempts); err != nil {
		return err
	}

	s.setBoolFromString("watch", os.Getenv(EnvWatch), &cfg.Watch)

	return nil
}
