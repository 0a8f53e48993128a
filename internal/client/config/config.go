// Package config loads runtime settings for the ReelFlow CLI.
//
// Sources are overlaid in order, later ones winning:
// defaults → environment (with optional .env file) → JSON file → flags.
package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds runtime settings for the ReelFlow CLI.
//
// Fields:
//   - ServerBaseURL: base URL of the backend API, e.g. http://127.0.0.1:8080.
//   - RequestTimeout: upper bound for any single backend request. A request
//     hitting it is reported as a failure, so no mutation stays pending
//     forever.
//   - PreviewDir: directory where staged preview references live.
//   - ProbeCommand: executable used to measure clip duration.
type Config struct {
	ServerBaseURL  string
	RequestTimeout time.Duration
	PreviewDir     string
	ProbeCommand   string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://127.0.0.1:8080"
	c.RequestTimeout = 15 * time.Second
	c.PreviewDir = filepath.Join(os.TempDir(), "reelflow-previews")
	c.ProbeCommand = "ffprobe"
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from the environment, a JSON file (if given) and command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJSON(cfg)
	parseFlags(cfg)
	return cfg
}
