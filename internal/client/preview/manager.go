// Package preview stages a locally selected file for upload: it checks the
// media type, materializes a revocable local preview reference, and measures
// the clip duration asynchronously. At most one live reference exists per
// upload session and every exit path revokes it exactly once.
package preview

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/itskiranbabu/InstaReelFlow/internal/logging"
)

var (
	// ErrNotVideo rejects a file that does not declare a video media type.
	ErrNotVideo = errors.New("not a video file")
	// ErrDurationExceeded rejects a clip longer than MaxDuration. The
	// offending preview is revoked before the error is delivered.
	ErrDurationExceeded = errors.New("video is longer than 60 seconds")
)

// MaxDuration is the longest clip the feed accepts. A clip of exactly
// MaxDuration passes.
const MaxDuration = 60 * time.Second

// removeFile is a test seam for os.Remove.
var removeFile = os.Remove

func init() {
	// Go's built-in extension table has no video types, and the OS table is
	// not guaranteed to be present. Register the common ones so selection by
	// extension works everywhere; unknown extensions fall back to sniffing.
	for ext, typ := range map[string]string{
		".mp4":  "video/mp4",
		".m4v":  "video/mp4",
		".mov":  "video/quicktime",
		".webm": "video/webm",
		".avi":  "video/x-msvideo",
		".mkv":  "video/x-matroska",
	} {
		_ = mime.AddExtensionType(ext, typ)
	}
}

// Prober measures the playable duration of a media file.
type Prober interface {
	Duration(ctx context.Context, path string) (time.Duration, error)
}

// Handle is a staged upload candidate: the selected source file plus a
// revocable local reference used for inline preview.
type Handle struct {
	mu       sync.Mutex
	source   string
	size     int64
	ref      string
	revoked  bool
	duration time.Duration
	measured bool
}

// SourcePath returns the path of the originally selected file.
func (h *Handle) SourcePath() string { return h.source }

// Size returns the source file size in bytes.
func (h *Handle) Size() int64 { return h.size }

// Ref returns the local preview reference. ok is false once the handle has
// been revoked.
func (h *Handle) Ref() (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.revoked {
		return "", false
	}
	return h.ref, true
}

// Duration returns the measured clip duration. ok is false until the
// asynchronous metadata probe has completed.
func (h *Handle) Duration() (time.Duration, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.duration, h.measured
}

// Revoke releases the local reference. It is unconditional and idempotent:
// the backing file is removed exactly once no matter how often it is called.
func (h *Handle) Revoke() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.revoked {
		return
	}
	h.revoked = true
	_ = removeFile(h.ref)
}

func (h *Handle) setDuration(d time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.duration = d
	h.measured = true
}

// Manager owns the single live preview reference of one upload session.
type Manager struct {
	mu      sync.Mutex
	prober  Prober
	dir     string
	log     logging.Logger
	current *Handle
	notify  func(h *Handle, d time.Duration, err error)
}

// NewManager returns a manager staging preview references under dir.
func NewManager(prober Prober, dir string, log logging.Logger) *Manager {
	if log == nil {
		log = logging.NopLogger{}
	}
	return &Manager{prober: prober, dir: dir, log: log}
}

// SetNotify installs the callback that receives the asynchronous duration
// result for a staged handle. On a duration or probe failure the handle has
// already been revoked and cleared when the callback runs.
func (m *Manager) SetNotify(fn func(h *Handle, d time.Duration, err error)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notify = fn
}

// Current returns the staged handle, or nil.
func (m *Manager) Current() *Handle {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Select validates and stages path for upload. Picking a file always resets
// the previous selection, like a file input replacing its value: the old
// handle is revoked even when the new pick is rejected. The duration check
// runs asynchronously; its result arrives via the notify callback.
func (m *Manager) Select(ctx context.Context, path string) (*Handle, error) {
	if !isVideo(path) {
		m.Cancel()
		return nil, ErrNotVideo
	}
	fi, err := os.Stat(path)
	if err != nil {
		m.Cancel()
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	m.Cancel()

	ref, err := stageRef(m.dir, path)
	if err != nil {
		return nil, fmt.Errorf("stage preview: %w", err)
	}
	h := &Handle{source: path, size: fi.Size(), ref: ref}

	m.mu.Lock()
	m.current = h
	prober := m.prober
	m.mu.Unlock()

	m.log.Debug(ctx, "preview staged", "source", path, "ref", ref, "bytes", fi.Size())
	go m.measure(context.WithoutCancel(ctx), prober, h)
	return h, nil
}

// Replace swaps the staged file for a new one. Equivalent to Select; the
// previous reference is revoked first.
func (m *Manager) Replace(ctx context.Context, path string) (*Handle, error) {
	return m.Select(ctx, path)
}

// Cancel revokes and clears the staged handle, if any.
func (m *Manager) Cancel() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current != nil {
		m.current.Revoke()
		m.current = nil
	}
}

// Close releases the session's preview resources. Safe to call on every
// teardown path.
func (m *Manager) Close() { m.Cancel() }

func (m *Manager) measure(ctx context.Context, prober Prober, h *Handle) {
	d, err := prober.Duration(ctx, h.SourcePath())
	if err == nil && d > MaxDuration {
		err = ErrDurationExceeded
	}

	m.mu.Lock()
	if m.current != h {
		// Replaced or cancelled while probing; the handle is already revoked.
		m.mu.Unlock()
		return
	}
	if err != nil {
		h.Revoke()
		m.current = nil
	} else {
		h.setDuration(d)
	}
	notify := m.notify
	m.mu.Unlock()

	if err != nil {
		m.log.Warn(ctx, "preview rejected", "source", h.SourcePath(), "error", err)
	} else {
		m.log.Debug(ctx, "preview duration measured", "source", h.SourcePath(), "duration", d)
	}
	if notify != nil {
		notify(h, d, err)
	}
}

// isVideo checks the declared media type by extension, falling back to
// content sniffing on the first 512 bytes.
func isVideo(path string) bool {
	if t := mime.TypeByExtension(strings.ToLower(filepath.Ext(path))); strings.HasPrefix(t, "video/") {
		return true
	}
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer func() { _ = f.Close() }()

	buf := make([]byte, 512)
	n, err := f.Read(buf)
	if n == 0 && err != nil {
		return false
	}
	return strings.HasPrefix(http.DetectContentType(buf[:n]), "video/")
}

// stageRef materializes the revocable preview reference: a hard link when
// the filesystem allows it, otherwise a copy.
func stageRef(dir, path string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	ref := filepath.Join(dir, uuid.NewString()+filepath.Ext(path))
	if err := os.Link(path, ref); err == nil {
		return ref, nil
	}

	src, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = src.Close() }()

	dst, err := os.Create(ref)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		_ = removeFile(ref)
		return "", err
	}
	if err := dst.Close(); err != nil {
		_ = removeFile(ref)
		return "", err
	}
	return ref, nil
}
