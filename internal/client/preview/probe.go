package preview

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// FFProbe measures clip duration by shelling out to ffprobe.
type FFProbe struct {
	// Command overrides the executable name. Empty means "ffprobe" on PATH.
	Command string
}

func (p FFProbe) Duration(ctx context.Context, path string) (time.Duration, error) {
	command := p.Command
	if command == "" {
		command = "ffprobe"
	}
	cmd := exec.CommandContext(ctx, command,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: %w", path, err)
	}

	durationStr := strings.TrimSpace(string(output))
	durationFloat, err := strconv.ParseFloat(durationStr, 64)
	if err != nil {
		return 0, fmt.Errorf("ffprobe: parse duration %q: %w", durationStr, err)
	}
	if durationFloat <= 0 {
		return 0, fmt.Errorf("ffprobe: invalid duration %v", durationFloat)
	}
	return time.Duration(durationFloat * float64(time.Second)), nil
}
