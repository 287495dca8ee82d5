package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	Source        string `toml:"source"`
	JobID         string `toml:"job_id"`
	FunctionID    string `toml:"function_id"`
	Token         string `toml:"token"`
	APIURL        string `toml:"api_url"`
	HTTPTimeout   string `toml:"http_timeout"`
	MaxAttempts   int    `toml:"max_attempts"`
	BackoffBase   string `toml:"backoff_base"`
	MaxBackoff    string `toml:"max_backoff"`
	Report        string `toml:"report"`
	Watch         *bool  `toml:"watch"`
	DebounceDelay string `toml:"debounce"`
	LogLevel      string `toml:"log_level"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns ~/.fndeploy/config.toml, or "" without a home directory.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".fndeploy", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("source", fc.Source, &cfg.SourcePath)
	s.setString("job-id", fc.JobID, &cfg.JobID)
	s.setString("function-id", fc.FunctionID, &cfg.FunctionID)
	s.setString("token", fc.Token, &cfg.Token)
	s.setString("api-url", fc.APIURL, &cfg.APIURL)
	s.setString("report", fc.Report, &cfg.ReportPath)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)

	if err := s.setDuration("timeout", fc.HTTPTimeout, &cfg.HTTPTimeout); err != nil {
		return err
	}
	if err := s.setDuration("backoff-base", fc.BackoffBase, &cfg.BackoffBase); err != nil {
		return err
	}
	if err := s.setDuration("max-backoff", fc.MaxBackoff, &cfg.MaxBackoff); err != nil {
		return err
	}
	if err := s.setDuration("debounce", fc.DebounceDelay, &cfg.DebounceDelay); err != nil {
		return err
	}

	s.setInt("max-attempts", fc.MaxAttempts, &cfg.MaxAttempts)
	s.setBool("watch", fc.Watch, &cfg.Watch)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
