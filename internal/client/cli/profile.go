package cli

import (
	"context"
	"fmt"
	"log"
	"os"
)

// Profile lists the videos of one user, newest ordering left to the backend.
func (a *App) Profile(ctx context.Context) error {
	userID, err := GetSimpleText(a.reader, "Enter user id (empty for yourself)", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return err
	}
	if userID == "" {
		user := a.session.CurrentUser()
		if user == nil {
			fmt.Println("Log in or provide a user id")
			return nil
		}
		userID = user.ID
	}

	rctx, cancel := a.requestCtx(ctx)
	defer cancel()

	items, err := a.api.ListUserMedia(rctx, userID)
	if err != nil {
		log.Printf("Failed to load profile: %v", err)
		return err
	}
	if len(items) == 0 {
		fmt.Println("No videos yet")
		return nil
	}

	for i, item := range items {
		a.printItem(i+1, len(items), item)
	}
	return nil
}
