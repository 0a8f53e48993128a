package cli

import (
	"fmt"
	"io"
	"sync"

	"github.com/itskiranbabu/InstaReelFlow/internal/client/models"
)

// Visibility ratios emitted by the terminal viewport. The focused item fills
// the screen, its neighbours peek in from the edges, everything else is off
// screen. Only the focused item crosses the playback threshold.
const (
	ratioFocused  = 1.0
	ratioAdjacent = 0.25
)

// viewportSource simulates the browser viewport for the terminal feed: the
// cursor position determines how visible each registered surface is. It
// implements playback.VisibilitySource.
type viewportSource struct {
	mu     sync.Mutex
	order  []string
	subs   map[string]func(float64)
	cursor int
}

func newViewportSource() *viewportSource {
	return &viewportSource{subs: map[string]func(float64){}, cursor: -1}
}

func (v *viewportSource) Observe(surfaceID string, fn func(ratio float64)) (func(), error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if _, ok := v.subs[surfaceID]; ok {
		return nil, fmt.Errorf("surface %q already observed", surfaceID)
	}
	v.subs[surfaceID] = fn
	v.order = append(v.order, surfaceID)

	cancel := func() {
		v.mu.Lock()
		defer v.mu.Unlock()
		delete(v.subs, surfaceID)
		for i, id := range v.order {
			if id == surfaceID {
				v.order = append(v.order[:i], v.order[i+1:]...)
				break
			}
		}
	}
	return cancel, nil
}

// SetCursor scrolls the viewport to position i and emits fresh ratios for
// every surface, in document order.
func (v *viewportSource) SetCursor(i int) {
	type emit struct {
		fn    func(float64)
		ratio float64
	}

	v.mu.Lock()
	v.cursor = i
	emits := make([]emit, 0, len(v.order))
	for idx, id := range v.order {
		var ratio float64
		switch idx - i {
		case 0:
			ratio = ratioFocused
		case -1, 1:
			ratio = ratioAdjacent
		default:
			ratio = 0
		}
		emits = append(emits, emit{fn: v.subs[id], ratio: ratio})
	}
	v.mu.Unlock()

	// Callbacks run outside the lock so the playback controller is free to
	// call back into Observe cancels.
	for _, e := range emits {
		e.fn(e.ratio)
	}
}

// termSurface is the terminal stand-in for a video element: playback state
// changes are narrated instead of rendered.
type termSurface struct {
	item *models.MediaItem
	out  io.Writer
}

func (s *termSurface) Play() {
	fmt.Fprintf(s.out, "[autoplay] %s: %s\n", s.item.Owner.DisplayName, s.item.MediaURL)
}

func (s *termSurface) Pause() {
	fmt.Fprintf(s.out, "[paused]   %s\n", s.item.MediaURL)
}
