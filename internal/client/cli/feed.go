package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/itskiranbabu/InstaReelFlow/internal/client/interact"
	"github.com/itskiranbabu/InstaReelFlow/internal/client/models"
	"github.com/itskiranbabu/InstaReelFlow/internal/client/playback"
)

// Feed loads the video feed and runs the feed page: scrolling moves a
// simulated viewport whose visibility events drive autoplay, and like/
// comment go through the per-item interaction coordinator.
func (a *App) Feed(ctx context.Context) error {
	rctx, cancel := a.requestCtx(ctx)
	items, err := a.api.ListFeed(rctx)
	cancel()
	if err != nil {
		log.Printf("Failed to load videos: %v", err)
		return err
	}
	if len(items) == 0 {
		fmt.Println("No videos yet. Be the first to share one!")
		return nil
	}

	viewport := newViewportSource()
	controller := playback.NewController(viewport, a.log)
	coordinators := make([]*interact.Coordinator, len(items))
	for i, item := range items {
		coordinators[i] = interact.NewCoordinator(a.api, item, a.log)
		if err := controller.Register(item.ID, &termSurface{item: item, out: os.Stdout}); err != nil {
			log.Printf("error: %v", err)
		}
	}
	defer func() {
		// Teardown pauses whatever is playing and detaches the
		// coordinators so late responses cannot touch dead state.
		for _, item := range items {
			controller.Unregister(item.ID)
		}
		for _, c := range coordinators {
			c.Close()
		}
	}()

	cursor := 0
	viewport.SetCursor(cursor)
	a.printItem(cursor+1, len(items), items[cursor])

	for {
		line, err := GetSimpleText(a.reader, "(n)ext (b)ack (t)oggle (l)ike (c)omment (s)how comments (q)uit", os.Stdout)
		if err != nil {
			return nil
		}

		switch line {
		case "n", "next":
			if cursor < len(items)-1 {
				cursor++
				viewport.SetCursor(cursor)
			}
			a.printItem(cursor+1, len(items), items[cursor])

		case "b", "back":
			if cursor > 0 {
				cursor--
				viewport.SetCursor(cursor)
			}
			a.printItem(cursor+1, len(items), items[cursor])

		case "t", "toggle":
			controller.Toggle(items[cursor].ID)

		case "l", "like":
			a.like(ctx, coordinators[cursor])

		case "c", "comment":
			a.comment(ctx, coordinators[cursor])

		case "s", "show":
			printComments(items[cursor])

		case "q", "quit", "":
			return nil

		default:
			fmt.Println("Unknown command:", line)
		}
	}
}

func (a *App) like(ctx context.Context, c *interact.Coordinator) {
	user := a.session.CurrentUser()
	if user == nil {
		fmt.Println("Log in to like videos")
		return
	}

	rctx, cancel := a.requestCtx(ctx)
	defer cancel()

	if err := c.ToggleLike(rctx, user); err != nil {
		log.Printf("Like failed: %v", err)
		return
	}
	item := c.Item()
	fmt.Printf("%d like(s)\n", item.LikeCount())
}

func (a *App) comment(ctx context.Context, c *interact.Coordinator) {
	user := a.session.CurrentUser()
	if user == nil {
		fmt.Println("Log in to comment")
		return
	}

	text, err := GetSimpleText(a.reader, "Add a comment", os.Stdout)
	if err != nil {
		log.Printf("error: %v", err)
		return
	}

	rctx, cancel := a.requestCtx(ctx)
	defer cancel()

	if err := c.AddComment(rctx, user, text); err != nil {
		if errors.Is(err, interact.ErrEmptyComment) {
			fmt.Println("Comment text is empty")
			return
		}
		// The entered text stays valid for retry; nothing was changed locally.
		log.Printf("Comment failed (your text is kept): %q: %v", text, err)
		return
	}
	printComments(c.Item())
}

func (a *App) printItem(pos, total int, item *models.MediaItem) {
	liked := ""
	if user := a.session.CurrentUser(); user != nil && item.LikedBy(user.ID) {
		liked = " (liked)"
	}
	fmt.Printf("\n[%d/%d] %s, %s\n", pos, total, item.Owner.DisplayName, item.CreatedAt.Format("Jan 2, 2006"))
	fmt.Println(item.Description)
	fmt.Printf("%d like(s)%s, %d comment(s)\n", item.LikeCount(), liked, item.CommentCount())
}

func printComments(item *models.MediaItem) {
	if len(item.Comments) == 0 {
		fmt.Println("No comments yet")
		return
	}
	for _, c := range item.Comments {
		fmt.Printf("%s: %s\n", c.Author.DisplayName, strings.TrimSpace(c.Text))
	}
}
