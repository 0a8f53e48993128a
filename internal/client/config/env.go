package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv overlays Config with values from the environment. A .env file in
// the working directory is loaded first when present; real environment
// variables win over it (godotenv does not override existing ones).
//
// Recognized variables:
//
//	REELFLOW_SERVER_URL       base URL of the backend API
//	REELFLOW_REQUEST_TIMEOUT  Go duration string, e.g. "15s"
//	REELFLOW_PREVIEW_DIR      preview staging directory
//	REELFLOW_PROBE_COMMAND    duration probe executable
func parseEnv(cfg *Config) {
	_ = godotenv.Load()

	if v := os.Getenv("REELFLOW_SERVER_URL"); v != "" {
		cfg.ServerBaseURL = v
	}
	if v := os.Getenv("REELFLOW_REQUEST_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.RequestTimeout = d
		}
	}
	if v := os.Getenv("REELFLOW_PREVIEW_DIR"); v != "" {
		cfg.PreviewDir = v
	}
	if v := os.Getenv("REELFLOW_PROBE_COMMAND"); v != "" {
		cfg.ProbeCommand = v
	}
}
