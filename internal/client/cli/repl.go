package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Feed(ctx context.Context) error
	Profile(ctx context.Context) error
	Upload(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the ReelFlow CLI.
//
// It reads a line, parses the first token as the command, and dispatches to
// methods on 'a'. Unknown commands are reported back to the user. The loop
// exits on EOF or when the user types "exit" or "quit".
//
// The feed is open to everyone; like, comment and upload need an account
// and are offered only when logged in.
//
// Any errors returned by command handlers are ignored here; handlers print
// their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("reelflow> %s > ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			if errors.Is(err, io.EOF) {
				return
			}
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: (f)eed, profile, upload, logout, exit")
			} else {
				printlnFn("Available commands: register, login, (f)eed, profile, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "f", "feed":
			_ = a.Feed(ctx)

		case "profile":
			_ = a.Profile(ctx)

		case "upload":
			_ = a.Upload(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if errors.Is(err, io.EOF) {
			return
		}
	}
}
