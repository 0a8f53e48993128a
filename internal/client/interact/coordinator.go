// Package interact applies like/comment mutations to a media item ahead of
// server confirmation and reconciles the local state with the authoritative
// response, rolling back on failure.
package interact

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/itskiranbabu/InstaReelFlow/internal/client/models"
	"github.com/itskiranbabu/InstaReelFlow/internal/logging"
)

// ErrEmptyComment rejects a comment whose trimmed text is empty. It is a
// local validation failure; no request is sent.
var ErrEmptyComment = errors.New("comment text is empty")

// Phase is the state of the most recent mutation of one kind.
type Phase int

const (
	Idle Phase = iota
	Pending
	Committed
	RolledBack
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case Committed:
		return "committed"
	case RolledBack:
		return "rolled back"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Backend is the slice of the API client the coordinator needs.
type Backend interface {
	ToggleLike(ctx context.Context, mediaID string) ([]string, error)
	AddComment(ctx context.Context, mediaID string, text string) ([]models.Comment, error)
}

// Coordinator serializes interaction mutations for a single media item.
//
// Each mutation kind carries a monotonically increasing sequence number;
// a server response (success or failure) is applied only if it belongs to
// the latest issued request of its kind, so a stale response can neither
// commit over nor roll back newer local state. After Close, completions
// become no-ops instead of mutating detached state.
type Coordinator struct {
	mu      sync.Mutex
	backend Backend
	item    *models.MediaItem
	log     logging.Logger

	likeSeq      uint64
	likePhase    Phase
	commentSeq   uint64
	commentPhase Phase
	closed       bool
}

func NewCoordinator(backend Backend, item *models.MediaItem, log logging.Logger) *Coordinator {
	if log == nil {
		log = logging.NopLogger{}
	}
	return &Coordinator{backend: backend, item: item, log: log}
}

// Item returns the coordinated media item.
func (c *Coordinator) Item() *models.MediaItem { return c.item }

func (c *Coordinator) LikeState() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.likePhase
}

func (c *Coordinator) CommentState() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.commentPhase
}

// Close detaches the coordinator. In-flight requests resolve without
// touching the item.
func (c *Coordinator) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

// ToggleLike flips actor's membership in the item's like set locally, then
// asks the backend to do the same. The server's returned set replaces the
// local one wholesale on success; on failure the pre-toggle set is restored.
// A nil actor is a silent no-op: liking is disabled, not an error, when
// nobody is signed in.
func (c *Coordinator) ToggleLike(ctx context.Context, actor *models.User) error {
	if actor == nil {
		c.log.Debug(ctx, "like ignored, no signed-in user", "media_id", c.item.ID)
		return nil
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	prev := append([]string(nil), c.item.Likes...)
	if c.item.LikedBy(actor.ID) {
		next := make([]string, 0, len(prev))
		for _, id := range prev {
			if id != actor.ID {
				next = append(next, id)
			}
		}
		c.item.Likes = next
	} else {
		c.item.Likes = append(append([]string(nil), prev...), actor.ID)
	}
	c.likeSeq++
	seq := c.likeSeq
	c.likePhase = Pending
	mediaID := c.item.ID
	c.mu.Unlock()

	reqID := uuid.NewString()
	c.log.Debug(ctx, "like toggle issued", "media_id", mediaID, "request_id", reqID, "seq", seq)

	likes, err := c.backend.ToggleLike(ctx, mediaID)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || seq != c.likeSeq {
		// Superseded or torn down: the response is discarded entirely.
		c.log.Debug(ctx, "like response discarded", "media_id", mediaID, "request_id", reqID)
		return nil
	}
	if err != nil {
		c.item.Likes = prev
		c.likePhase = RolledBack
		c.log.Warn(ctx, "like rolled back", "media_id", mediaID, "request_id", reqID, "error", err)
		return fmt.Errorf("toggle like: %w", err)
	}
	c.item.SetLikes(likes)
	c.likePhase = Committed
	return nil
}

// AddComment sends the trimmed text to the backend and replaces the local
// comment sequence with the authoritative one. Nothing is appended
// optimistically: the server assigns ordering and resolves the author.
// On failure no local state changes; the caller keeps the text for retry.
func (c *Coordinator) AddComment(ctx context.Context, actor *models.User, text string) error {
	if actor == nil {
		c.log.Debug(ctx, "comment ignored, no signed-in user", "media_id", c.item.ID)
		return nil
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyComment
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.commentSeq++
	seq := c.commentSeq
	c.commentPhase = Pending
	mediaID := c.item.ID
	c.mu.Unlock()

	reqID := uuid.NewString()
	c.log.Debug(ctx, "comment issued", "media_id", mediaID, "request_id", reqID, "seq", seq)

	comments, err := c.backend.AddComment(ctx, mediaID, text)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || seq != c.commentSeq {
		c.log.Debug(ctx, "comment response discarded", "media_id", mediaID, "request_id", reqID)
		return nil
	}
	if err != nil {
		c.commentPhase = RolledBack
		c.log.Warn(ctx, "comment failed", "media_id", mediaID, "request_id", reqID, "error", err)
		return fmt.Errorf("add comment: %w", err)
	}
	c.item.Comments = comments
	c.commentPhase = Committed
	return nil
}
