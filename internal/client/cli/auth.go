package cli

import (
	"context"
	"log"
	"os"
)

// Login prompts for credentials, exchanges them for an access token and
// installs it in the session.
func (a *App) Login(ctx context.Context) error {
	username, err := GetSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	password, err := GetPassword(os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	rctx, cancel := a.requestCtx(ctx)
	defer cancel()

	token, err := a.api.Login(rctx, username, string(password))
	if err != nil {
		log.Printf("Login unsuccessful: %v", err)
		return err
	}
	if err := a.session.SetToken(token); err != nil {
		log.Printf("error: %v", err)
		return err
	}
	log.Printf("Logged in as %s", a.session.CurrentUser().DisplayName)
	return nil
}

// Register creates an account and logs straight into it, like the web
// client does after its register form.
func (a *App) Register(ctx context.Context) error {
	username, err := GetSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	password, err := GetPassword(os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}

	rctx, cancel := a.requestCtx(ctx)
	defer cancel()

	token, err := a.api.Register(rctx, username, string(password))
	if err != nil {
		log.Printf("Registration unsuccessful: %v", err)
		return err
	}
	if err := a.session.SetToken(token); err != nil {
		log.Printf("error: %v", err)
		return err
	}
	log.Printf("Welcome, %s", a.session.CurrentUser().DisplayName)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.session.Clear()
	log.Printf("Logged out")
	return nil
}
