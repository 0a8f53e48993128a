package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// duration lets JSON specify intervals either as strings like "15s" or as
// integer nanoseconds.
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
		return nil
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		d.Duration = parsed
		return nil
	default:
		return fmt.Errorf("invalid duration %q", string(data))
	}
}

// jsonConfig is a DTO used exclusively for JSON unmarshalling. Values are
// copied into the runtime Config afterwards.
type jsonConfig struct {
	ServerBaseURL  string   `json:"server_base_url"`
	RequestTimeout duration `json:"request_timeout"`
	PreviewDir     string   `json:"preview_dir"`
	ProbeCommand   string   `json:"probe_command"`
}

// parseJSON overlays Config with values loaded from the JSON file named by
// the -c/-config flag. When no file is given, it does nothing. Read or
// unmarshal errors panic; configuration is a startup concern.
func parseJSON(cfg *Config) {
	path := jsonConfigPath()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}
	var jc jsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerBaseURL != "" {
		cfg.ServerBaseURL = jc.ServerBaseURL
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.PreviewDir != "" {
		cfg.PreviewDir = jc.PreviewDir
	}
	if jc.ProbeCommand != "" {
		cfg.ProbeCommand = jc.ProbeCommand
	}
}
