package cli

import (
	"bytes"
	"testing"

	"github.com/itskiranbabu/InstaReelFlow/internal/client/models"
	"github.com/itskiranbabu/InstaReelFlow/internal/client/playback"
	"github.com/stretchr/testify/require"
)

func TestViewportRatios(t *testing.T) {
	v := newViewportSource()

	ratios := map[string]float64{}
	for _, id := range []string{"v0", "v1", "v2", "v3"} {
		id := id
		_, err := v.Observe(id, func(r float64) { ratios[id] = r })
		require.NoError(t, err)
	}

	v.SetCursor(1)

	require.Equal(t, ratioAdjacent, ratios["v0"])
	require.Equal(t, ratioFocused, ratios["v1"])
	require.Equal(t, ratioAdjacent, ratios["v2"])
	require.Zero(t, ratios["v3"])
}

func TestViewportDuplicateObserve(t *testing.T) {
	v := newViewportSource()
	_, err := v.Observe("v1", func(float64) {})
	require.NoError(t, err)

	_, err = v.Observe("v1", func(float64) {})
	require.Error(t, err)
}

func TestViewportCancelStopsEmits(t *testing.T) {
	v := newViewportSource()
	calls := 0
	cancel, err := v.Observe("v1", func(float64) { calls++ })
	require.NoError(t, err)

	v.SetCursor(0)
	cancel()
	v.SetCursor(0)

	require.Equal(t, 1, calls)
}

// The viewport drives the real playback controller: scrolling the cursor
// moves playback from item to item, never leaving two playing at once.
func TestViewportDrivesPlayback(t *testing.T) {
	v := newViewportSource()
	c := playback.NewController(v, nil)

	var out bytes.Buffer
	for _, id := range []string{"v0", "v1", "v2"} {
		item := &models.MediaItem{ID: id, MediaURL: "http://cdn/" + id + ".mp4"}
		require.NoError(t, c.Register(id, &termSurface{item: item, out: &out}))
	}

	playing := func() string {
		id, ok := c.Playing()
		require.True(t, ok)
		return id
	}

	v.SetCursor(0)
	require.Equal(t, "v0", playing())

	v.SetCursor(1)
	require.Equal(t, "v1", playing())

	v.SetCursor(2)
	require.Equal(t, "v2", playing())

	require.Contains(t, out.String(), "[autoplay]")
	require.Contains(t, out.String(), "[paused]")
}
