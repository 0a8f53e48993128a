// Package cli is the terminal front end of the ReelFlow client: a REPL with
// login/register, a scrollable feed page, a profile page and an upload page.
package cli

import (
	"bufio"
	"context"
	"os"

	"github.com/itskiranbabu/InstaReelFlow/internal/client/api"
	"github.com/itskiranbabu/InstaReelFlow/internal/client/config"
	"github.com/itskiranbabu/InstaReelFlow/internal/client/session"
	"github.com/itskiranbabu/InstaReelFlow/internal/logging"
)

type App struct {
	config  *config.Config
	api     api.Client
	session *session.Session
	log     logging.Logger
	reader  *bufio.Reader
}

func NewApp(cfg *config.Config) (*App, error) {
	sess := session.New()
	return &App{
		config:  cfg,
		api:     api.NewHTTPClient(cfg.ServerBaseURL, sess),
		session: sess,
		log:     logging.NewTextLogger(os.Stderr, os.Getenv("REELFLOW_DEBUG") != ""),
		reader:  bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) Run(ctx context.Context) {
	defer func() { _ = a.api.Close() }()
	runREPL(ctx, a, a.status, a.reader)
}

func (a *App) isLoggedIn() bool {
	return a.session.CurrentUser() != nil
}

func (a *App) status() string {
	if user := a.session.CurrentUser(); user != nil {
		return user.DisplayName
	}
	return "guest"
}

// requestCtx bounds a single backend request. Hitting the timeout surfaces
// as a request failure, so no mutation stays pending forever.
func (a *App) requestCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, a.config.RequestTimeout)
}
