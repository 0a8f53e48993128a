// Package playback decides which of several registered video surfaces plays,
// based on how much of each surface is inside the viewport. At most one
// surface plays at a time; a manual toggle overrides the automatic choice
// until the toggled surface leaves the viewport.
package playback

import (
	"context"
	"fmt"
	"sync"

	"github.com/itskiranbabu/InstaReelFlow/internal/logging"
)

// Threshold is the visible fraction at which a surface becomes eligible
// for automatic playback.
const Threshold = 0.5

// Surface is a playable video element bound to one media item.
// Play and Pause must not call back into the Controller.
type Surface interface {
	Play()
	Pause()
}

// VisibilitySource delivers visibility-ratio updates for registered
// surfaces. The returned cancel stops updates for that surface.
//
// When several surfaces change in one batch, the source must invoke the
// callbacks in registration (document) order.
type VisibilitySource interface {
	Observe(surfaceID string, fn func(ratio float64)) (cancel func(), err error)
}

type binding struct {
	surface Surface
	ratio   float64
	playing bool
	cancel  func()
}

// Controller enforces the single-playing rule over a set of surfaces.
// It is the only component allowed to start or stop playback.
type Controller struct {
	mu     sync.Mutex
	source VisibilitySource
	log    logging.Logger

	order    []string
	entries  map[string]*binding
	override string // surface toggled by the user; cleared when it leaves the viewport
}

func NewController(source VisibilitySource, log logging.Logger) *Controller {
	if log == nil {
		log = logging.NopLogger{}
	}
	return &Controller{
		source:  source,
		log:     log,
		entries: map[string]*binding{},
	}
}

// Register adds a surface and subscribes it to visibility updates.
// Registration order defines document order.
func (c *Controller) Register(surfaceID string, s Surface) error {
	c.mu.Lock()
	if _, ok := c.entries[surfaceID]; ok {
		c.mu.Unlock()
		return fmt.Errorf("surface %q already registered", surfaceID)
	}
	b := &binding{surface: s}
	c.entries[surfaceID] = b
	c.order = append(c.order, surfaceID)
	c.mu.Unlock()

	// Subscribe outside the lock: sources may deliver the first ratio
	// synchronously from Observe.
	cancel, err := c.source.Observe(surfaceID, func(ratio float64) {
		c.onVisibility(surfaceID, ratio)
	})
	if err != nil {
		c.mu.Lock()
		c.removeLocked(surfaceID)
		c.mu.Unlock()
		return fmt.Errorf("observe surface %q: %w", surfaceID, err)
	}

	c.mu.Lock()
	if cur, ok := c.entries[surfaceID]; ok && cur == b {
		b.cancel = cancel
		c.mu.Unlock()
		return nil
	}
	// Unregistered while we were subscribing.
	c.mu.Unlock()
	cancel()
	return nil
}

// Unregister removes a surface. A playing surface is paused first so no
// playback dangles, and its subscription is cancelled.
func (c *Controller) Unregister(surfaceID string) {
	c.mu.Lock()
	b, ok := c.entries[surfaceID]
	if !ok {
		c.mu.Unlock()
		return
	}
	if b.playing {
		c.pauseLocked(surfaceID, b)
	}
	if c.override == surfaceID {
		c.override = ""
	}
	cancel := b.cancel
	c.removeLocked(surfaceID)
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// Toggle is the user's click on a surface. It flips that surface's state
// directly, bypassing the automatic rule, and keeps the automatic rule
// suspended until the surface next leaves the viewport.
func (c *Controller) Toggle(surfaceID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	b, ok := c.entries[surfaceID]
	if !ok {
		return
	}
	c.override = surfaceID
	if b.playing {
		c.pauseLocked(surfaceID, b)
		return
	}
	c.startLocked(surfaceID, b)
}

// Playing returns the id of the currently playing surface, if any.
func (c *Controller) Playing() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range c.order {
		if c.entries[id].playing {
			return id, true
		}
	}
	return "", false
}

func (c *Controller) onVisibility(surfaceID string, ratio float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	b, ok := c.entries[surfaceID]
	if !ok {
		return
	}
	b.ratio = ratio
	eligible := ratio >= Threshold

	if !eligible {
		if c.override == surfaceID {
			// Leaving the viewport returns control to automatic selection.
			c.override = ""
		}
		if b.playing {
			// No eager replacement scan: the next visibility event that
			// raises an eligible surface will start it.
			c.pauseLocked(surfaceID, b)
		}
		return
	}

	if c.override != "" {
		// A manual choice is pending; the automatic rule stays out of it.
		return
	}
	c.startLocked(surfaceID, b)
}

// startLocked makes surfaceID the single playing surface, pausing any other.
func (c *Controller) startLocked(surfaceID string, b *binding) {
	for _, id := range c.order {
		if id == surfaceID {
			continue
		}
		if other := c.entries[id]; other.playing {
			c.pauseLocked(id, other)
		}
	}
	if !b.playing {
		b.playing = true
		c.log.Debug(context.Background(), "playback started", "surface", surfaceID)
		b.surface.Play()
	}
}

func (c *Controller) pauseLocked(surfaceID string, b *binding) {
	b.playing = false
	c.log.Debug(context.Background(), "playback paused", "surface", surfaceID)
	b.surface.Pause()
}

func (c *Controller) removeLocked(surfaceID string) {
	delete(c.entries, surfaceID)
	for i, id := range c.order {
		if id == surfaceID {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}
