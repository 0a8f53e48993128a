package upload

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/itskiranbabu/InstaReelFlow/internal/client/api"
	"github.com/itskiranbabu/InstaReelFlow/internal/client/models"
	"github.com/itskiranbabu/InstaReelFlow/internal/client/preview"
	"github.com/stretchr/testify/require"
)

// ---- fakes ----

type fakeBackend struct {
	mu       sync.Mutex
	calls    int
	lastName string
	lastDesc string
	lastBody string

	id  string
	err error
	// when non-nil, SubmitUpload waits for it
	block chan struct{}
}

func (f *fakeBackend) SubmitUpload(ctx context.Context, file io.Reader, filename, description string) (string, error) {
	body, _ := io.ReadAll(file)
	f.mu.Lock()
	f.calls++
	f.lastName = filename
	f.lastDesc = description
	f.lastBody = string(body)
	id, err := f.id, f.err
	block := f.block
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	return id, err
}

func (f *fakeBackend) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fixedProber struct{ d time.Duration }

func (p fixedProber) Duration(ctx context.Context, path string) (time.Duration, error) {
	return p.d, nil
}

var actor = &models.User{ID: "u1", DisplayName: "alice"}

// stageHandle runs a file through the preview manager and returns the
// validated handle, duration already measured.
func stageHandle(t *testing.T, content string) *preview.Handle {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.mp4")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	m := preview.NewManager(fixedProber{d: 12 * time.Second}, t.TempDir(), nil)
	t.Cleanup(m.Close)
	done := make(chan error, 1)
	m.SetNotify(func(_ *preview.Handle, _ time.Duration, err error) { done <- err })

	h, err := m.Select(context.Background(), path)
	require.NoError(t, err)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("probe never finished")
	}
	return h
}

// ---- tests ----

func TestSubmit_Success(t *testing.T) {
	backend := &fakeBackend{id: "v42"}
	p := NewPipeline(backend, nil)
	p.Attach(stageHandle(t, "clip-bytes"))
	p.SetDescription("  my first reel  ")

	require.NoError(t, p.Submit(context.Background(), actor))

	require.Equal(t, Succeeded, p.Phase())
	require.Equal(t, "v42", p.MediaID())
	require.Equal(t, 1, backend.callCount())
	require.Equal(t, "clip.mp4", backend.lastName)
	require.Equal(t, "my first reel", backend.lastDesc)
	require.Equal(t, "clip-bytes", backend.lastBody)
}

func TestSubmit_EmptyDescriptionSendsNothing(t *testing.T) {
	backend := &fakeBackend{}
	p := NewPipeline(backend, nil)
	p.Attach(stageHandle(t, "clip-bytes"))
	p.SetDescription("   ")

	err := p.Submit(context.Background(), actor)

	require.ErrorIs(t, err, ErrDescriptionRequired)
	require.Zero(t, backend.callCount())
	require.Equal(t, Editing, p.Phase())
	require.Equal(t, ErrDescriptionRequired.Error(), p.LastError())
}

func TestSubmit_DescriptionTooLong(t *testing.T) {
	backend := &fakeBackend{}
	p := NewPipeline(backend, nil)
	p.Attach(stageHandle(t, "x"))
	p.SetDescription(strings.Repeat("a", MaxDescriptionLen+1))

	require.ErrorIs(t, p.Submit(context.Background(), actor), ErrDescriptionTooLong)
	require.Zero(t, backend.callCount())

	// Exactly the limit is fine.
	p.SetDescription(strings.Repeat("a", MaxDescriptionLen))
	require.NoError(t, p.Submit(context.Background(), actor))
	require.Equal(t, 1, backend.callCount())
}

func TestSubmit_NoFile(t *testing.T) {
	backend := &fakeBackend{}
	p := NewPipeline(backend, nil)
	p.SetDescription("hello")

	require.ErrorIs(t, p.Submit(context.Background(), actor), ErrNoFile)
	require.Zero(t, backend.callCount())
}

func TestSubmit_RevokedFileRejected(t *testing.T) {
	backend := &fakeBackend{}
	p := NewPipeline(backend, nil)
	h := stageHandle(t, "x")
	p.Attach(h)
	p.SetDescription("hello")

	h.Revoke()

	require.ErrorIs(t, p.Submit(context.Background(), actor), ErrNoFile)
	require.Zero(t, backend.callCount())
}

func TestSubmit_NoActorIsSilentNoop(t *testing.T) {
	backend := &fakeBackend{}
	p := NewPipeline(backend, nil)
	p.Attach(stageHandle(t, "x"))
	p.SetDescription("hello")

	require.NoError(t, p.Submit(context.Background(), nil))
	require.Zero(t, backend.callCount())
	require.Equal(t, Editing, p.Phase())
}

func TestSubmit_RepeatedWhileSubmittingIgnored(t *testing.T) {
	block := make(chan struct{})
	backend := &fakeBackend{id: "v1", block: block}
	p := NewPipeline(backend, nil)
	p.Attach(stageHandle(t, "x"))
	p.SetDescription("hello")

	done := make(chan error, 1)
	go func() { done <- p.Submit(context.Background(), actor) }()

	require.Eventually(t, func() bool { return p.Phase() == Submitting }, 5*time.Second, 5*time.Millisecond)

	// Double-click while in flight: no second request.
	require.NoError(t, p.Submit(context.Background(), actor))

	close(block)
	require.NoError(t, <-done)
	require.Equal(t, 1, backend.callCount())
}

func TestSubmit_FailureKeepsFormForRetry(t *testing.T) {
	backend := &fakeBackend{err: errors.New("connection reset")}
	p := NewPipeline(backend, nil)
	h := stageHandle(t, "clip-bytes")
	p.Attach(h)
	p.SetDescription("hello")

	require.Error(t, p.Submit(context.Background(), actor))
	require.Equal(t, Editing, p.Phase(), "a failed submission returns to the form")
	require.Equal(t, "Upload failed", p.LastError())
	require.Equal(t, "hello", p.Description())

	// Same file, same description, one more request, no re-selection.
	backend.mu.Lock()
	backend.err = nil
	backend.id = "v7"
	backend.mu.Unlock()

	require.NoError(t, p.Submit(context.Background(), actor))
	require.Equal(t, Succeeded, p.Phase())
	require.Equal(t, "v7", p.MediaID())
	require.Equal(t, 2, backend.callCount())
}

func TestSubmit_ServerMessageSurfaced(t *testing.T) {
	backend := &fakeBackend{err: &api.ServerError{Status: 422, Message: "clip rejected by moderation"}}
	p := NewPipeline(backend, nil)
	p.Attach(stageHandle(t, "x"))
	p.SetDescription("hello")

	require.Error(t, p.Submit(context.Background(), actor))
	require.Equal(t, "clip rejected by moderation", p.LastError())
}

func TestSubmit_AfterSuccessIgnored(t *testing.T) {
	backend := &fakeBackend{id: "v1"}
	p := NewPipeline(backend, nil)
	p.Attach(stageHandle(t, "x"))
	p.SetDescription("hello")

	require.NoError(t, p.Submit(context.Background(), actor))
	require.NoError(t, p.Submit(context.Background(), actor))
	require.Equal(t, 1, backend.callCount())
}

func TestReset(t *testing.T) {
	backend := &fakeBackend{id: "v1"}
	p := NewPipeline(backend, nil)
	p.Attach(stageHandle(t, "x"))
	p.SetDescription("hello")
	require.NoError(t, p.Submit(context.Background(), actor))

	p.Reset()

	require.Equal(t, Editing, p.Phase())
	require.Empty(t, p.Description())
	require.Empty(t, p.MediaID())
	require.ErrorIs(t, p.Submit(context.Background(), actor), ErrNoFile)
}
