package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	require.Equal(t, "http://127.0.0.1:8080", cfg.ServerBaseURL)
	require.Equal(t, 15*time.Second, cfg.RequestTimeout)
	require.NotEmpty(t, cfg.PreviewDir)
	require.Equal(t, "ffprobe", cfg.ProbeCommand)
}

func TestParseEnv(t *testing.T) {
	t.Setenv("REELFLOW_SERVER_URL", "http://feed.example:9000")
	t.Setenv("REELFLOW_REQUEST_TIMEOUT", "3s")
	t.Setenv("REELFLOW_PREVIEW_DIR", "/tmp/previews")
	t.Setenv("REELFLOW_PROBE_COMMAND", "/usr/local/bin/ffprobe")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	require.Equal(t, "http://feed.example:9000", cfg.ServerBaseURL)
	require.Equal(t, 3*time.Second, cfg.RequestTimeout)
	require.Equal(t, "/tmp/previews", cfg.PreviewDir)
	require.Equal(t, "/usr/local/bin/ffprobe", cfg.ProbeCommand)
}

func TestParseEnv_InvalidTimeoutIgnored(t *testing.T) {
	t.Setenv("REELFLOW_REQUEST_TIMEOUT", "soon")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	require.Equal(t, 15*time.Second, cfg.RequestTimeout)
}

func TestParseJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf.json")
	require.NoError(t, os.WriteFile(path, []byte(
		`{"server_base_url":"http://json.example","request_timeout":"7s","probe_command":"avprobe"}`,
	), 0o600))

	orig := os.Args
	t.Cleanup(func() { os.Args = orig })
	os.Args = []string{"cli", "-c", path}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJSON(cfg)

	require.Equal(t, "http://json.example", cfg.ServerBaseURL)
	require.Equal(t, 7*time.Second, cfg.RequestTimeout)
	require.Equal(t, "avprobe", cfg.ProbeCommand)
	// Unset fields keep their defaults.
	require.NotEmpty(t, cfg.PreviewDir)
}

func TestParseJSON_NanosecondDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"request_timeout":2000000000}`), 0o600))

	orig := os.Args
	t.Cleanup(func() { os.Args = orig })
	os.Args = []string{"cli", "-config", path}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJSON(cfg)

	require.Equal(t, 2*time.Second, cfg.RequestTimeout)
}

func TestParseFlags(t *testing.T) {
	orig := os.Args
	t.Cleanup(func() { os.Args = orig })
	os.Args = []string{"cli", "-a", "http://flags.example", "-t", "5", "-p", "/tmp/p"}

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	require.Equal(t, "http://flags.example", cfg.ServerBaseURL)
	require.Equal(t, 5*time.Second, cfg.RequestTimeout)
	require.Equal(t, "/tmp/p", cfg.PreviewDir)
}
