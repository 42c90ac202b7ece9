// ABOUTME: Server configuration: capture defaults, execution limits, file scope, app mappings
// ABOUTME: YAML file merged over built-in defaults; DESKMOTE_CONFIG selects the file

package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvConfigPath names the environment variable that overrides the config path.
const EnvConfigPath = "DESKMOTE_CONFIG"

// Config is the merged server configuration.
type Config struct {
	Capture CaptureConfig     `yaml:"capture"`
	Exec    ExecConfig        `yaml:"exec"`
	Files   FilesConfig       `yaml:"files"`
	Apps    map[string]string `yaml:"apps"`
}

// CaptureConfig holds defaults for capture operations.
type CaptureConfig struct {
	// IntervalSeconds is the default auto-refresh interval.
	IntervalSeconds float64 `yaml:"interval_seconds"`
	// Quality is the default encoding quality (1-100).
	Quality int `yaml:"quality"`
	// MaxWidth/MaxHeight bound encoded frame dimensions; zero disables scaling.
	MaxWidth  int `yaml:"max_width"`
	MaxHeight int `yaml:"max_height"`
}

// ExecConfig bounds command execution.
type ExecConfig struct {
	// MaxOutputBytes caps combined captured output per command.
	MaxOutputBytes int `yaml:"max_output_bytes"`
}

// FilesConfig scopes filesystem tools.
type FilesConfig struct {
	// Root confines file and directory tools when set; empty means the whole
	// filesystem (subject to path validation).
	Root string `yaml:"root"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Capture: CaptureConfig{
			IntervalSeconds: 2,
			Quality:         85,
			MaxWidth:        1920,
			MaxHeight:       1080,
		},
		Exec: ExecConfig{
			MaxOutputBytes: 1 << 20,
		},
	}
}

// Load reads the YAML file at path (or $DESKMOTE_CONFIG when path is empty)
// and merges it over defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("loading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Capture.IntervalSeconds <= 0 {
		return fmt.Errorf("capture.interval_seconds must be positive, got %v", c.Capture.IntervalSeconds)
	}
	if c.Capture.Quality < 1 || c.Capture.Quality > 100 {
		return fmt.Errorf("capture.quality must be in [1,100], got %d", c.Capture.Quality)
	}
	if c.Exec.MaxOutputBytes <= 0 {
		return fmt.Errorf("exec.max_output_bytes must be positive, got %d", c.Exec.MaxOutputBytes)
	}
	return nil
}

// Interval returns the default auto-refresh interval as a duration.
func (c *CaptureConfig) Interval() time.Duration {
	return time.Duration(c.IntervalSeconds * float64(time.Second))
}
