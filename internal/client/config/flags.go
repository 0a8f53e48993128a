package config

import (
	"flag"
	"os"
	"time"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   base URL of the backend API (default from Config)
//	-t int      request timeout in seconds (default from Config)
//	-p string   preview staging directory (default from Config)
//
// os.Args is filtered down to the flags handled here so this parse does not
// trip over flags owned by other layers (such as -c/-config).
func parseFlags(cfg *Config) {
	args := filterArgs(os.Args[1:], []string{"-a", "-t", "-p"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerBaseURL, "a", cfg.ServerBaseURL, "base URL of the backend API")
	timeoutSec := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.PreviewDir, "p", cfg.PreviewDir, "preview staging directory")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeoutSec) * time.Second
}
