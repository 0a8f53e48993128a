// Package upload composes a staged preview file and a description into a
// single backend submission and tracks the submission phase.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/itskiranbabu/InstaReelFlow/internal/client/api"
	"github.com/itskiranbabu/InstaReelFlow/internal/client/models"
	"github.com/itskiranbabu/InstaReelFlow/internal/client/preview"
	"github.com/itskiranbabu/InstaReelFlow/internal/logging"
)

// MaxDescriptionLen is the description limit in characters.
const MaxDescriptionLen = 500

// Field-level validation failures. All are caught locally; none causes a
// network request.
var (
	ErrNoFile              = errors.New("select a video file first")
	ErrFileNotReady        = errors.New("video is still being checked")
	ErrDescriptionRequired = errors.New("description is required")
	ErrDescriptionTooLong  = errors.New("description is too long")
)

// Phase is the submission state.
type Phase int

const (
	Editing Phase = iota
	Submitting
	Succeeded
)

func (p Phase) String() string {
	switch p {
	case Editing:
		return "editing"
	case Submitting:
		return "submitting"
	case Succeeded:
		return "succeeded"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Backend is the slice of the API client the pipeline needs.
type Backend interface {
	SubmitUpload(ctx context.Context, file io.Reader, filename, description string) (string, error)
}

// Pipeline drives one upload form: Editing → Submitting → Succeeded. A
// failed submission returns to Editing with the staged file and description
// intact, so the user can retry without re-selecting anything; LastError
// carries the failure message.
type Pipeline struct {
	mu      sync.Mutex
	backend Backend
	log     logging.Logger

	phase       Phase
	handle      *preview.Handle
	description string
	lastError   string
	mediaID     string
}

func NewPipeline(backend Backend, log logging.Logger) *Pipeline {
	if log == nil {
		log = logging.NopLogger{}
	}
	return &Pipeline{backend: backend, log: log}
}

// Attach stages the validated preview handle for submission.
func (p *Pipeline) Attach(h *preview.Handle) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handle = h
}

func (p *Pipeline) SetDescription(s string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.description = s
}

func (p *Pipeline) Description() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.description
}

func (p *Pipeline) Phase() Phase {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.phase
}

// LastError returns the user-facing message of the most recent failure.
func (p *Pipeline) LastError() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastError
}

// MediaID returns the id assigned by the backend after a successful submit.
func (p *Pipeline) MediaID() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mediaID
}

// Reset clears the form back to a pristine Editing state. The caller is
// responsible for revoking the preview via its manager.
func (p *Pipeline) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.phase = Editing
	p.handle = nil
	p.description = ""
	p.lastError = ""
	p.mediaID = ""
}

// Submit validates the staged file and description, then performs exactly
// one backend request. Local validation failures send nothing. A repeated
// Submit while one is in flight is ignored. A nil actor is a silent no-op:
// uploading is disabled when nobody is signed in.
func (p *Pipeline) Submit(ctx context.Context, actor *models.User) error {
	if actor == nil {
		return nil
	}

	p.mu.Lock()
	if p.phase == Submitting || p.phase == Succeeded {
		p.mu.Unlock()
		return nil
	}

	verr := p.validateLocked()
	if verr != nil {
		p.lastError = verr.Error()
		p.mu.Unlock()
		return verr
	}

	h := p.handle
	ref, _ := h.Ref()
	description := strings.TrimSpace(p.description)
	p.phase = Submitting
	p.lastError = ""
	p.mu.Unlock()

	err := p.send(ctx, ref, filepath.Base(h.SourcePath()), description)

	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		// Back to the form, everything still filled in.
		p.phase = Editing
		p.lastError = failureMessage(err)
		return fmt.Errorf("submit upload: %w", err)
	}
	p.phase = Succeeded
	return nil
}

func (p *Pipeline) validateLocked() error {
	switch {
	case p.handle == nil:
		return ErrNoFile
	default:
		if _, ok := p.handle.Ref(); !ok {
			return ErrNoFile
		}
		if _, ok := p.handle.Duration(); !ok {
			return ErrFileNotReady
		}
	}
	description := strings.TrimSpace(p.description)
	if description == "" {
		return ErrDescriptionRequired
	}
	if utf8.RuneCountInString(description) > MaxDescriptionLen {
		return ErrDescriptionTooLong
	}
	return nil
}

func (p *Pipeline) send(ctx context.Context, ref, filename, description string) error {
	f, err := os.Open(ref)
	if err != nil {
		return fmt.Errorf("open staged file: %w", err)
	}
	defer func() { _ = f.Close() }()

	id, err := p.backend.SubmitUpload(ctx, f, filename, description)
	if err != nil {
		return err
	}

	p.mu.Lock()
	p.mediaID = id
	p.mu.Unlock()
	p.log.Info(ctx, "upload accepted", "media_id", id)
	return nil
}

// failureMessage prefers the backend's own explanation, falling back to a
// generic one.
func failureMessage(err error) string {
	var se *api.ServerError
	if errors.As(err, &se) && se.Message != "" {
		return se.Message
	}
	return "Upload failed"
}
