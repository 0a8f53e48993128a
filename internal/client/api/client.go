// Package api is the client's boundary with the ReelFlow backend. It defines
// the Client interface consumed by the feed and upload engines and an HTTP
// implementation speaking the backend's JSON API.
package api

import (
	"context"
	"io"

	"github.com/itskiranbabu/InstaReelFlow/internal/client/models"
)

// Client is the set of backend operations the ReelFlow client depends on.
//
// Contract:
//   - ListFeed / ListUserMedia return items in the order the backend ranks
//     them; the client never reorders.
//   - ToggleLike and AddComment return the full authoritative like set /
//     comment sequence after the mutation.
//   - SubmitUpload sends the clip and its description as one multipart
//     request and returns the new media id.
//
// All methods must honor context cancellation/timeouts.
type Client interface {
	Close() error
	Register(ctx context.Context, username, password string) (string, error)
	Login(ctx context.Context, username, password string) (string, error)
	ListFeed(ctx context.Context) ([]*models.MediaItem, error)
	ListUserMedia(ctx context.Context, userID string) ([]*models.MediaItem, error)
	ToggleLike(ctx context.Context, mediaID string) ([]string, error)
	AddComment(ctx context.Context, mediaID string, text string) ([]models.Comment, error)
	SubmitUpload(ctx context.Context, file io.Reader, filename, description string) (string, error)
}
