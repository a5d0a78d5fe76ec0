package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
)

// DetectScenes finds scene-change timestamps in a video using ffmpeg's
// content-based scene detection. Each returned timestamp marks the first
// frame of a new scene; a video with no content changes returns none.
func (e *Executor) DetectScenes(ctx context.Context, input string, threshold float64) ([]time.Duration, error) {
	e.logger.Info().
		Str("input", input).
		Float64("threshold", threshold).
		Msg("detecting scene changes")

	var stderrBuf bytes.Buffer
	var mu sync.Mutex

	opts := RunOptions{
		Args: []string{
			"-i", input,
			"-vf", fmt.Sprintf("select='gt(scene,%f)',showinfo", threshold),
			"-f", "null",
			"-",
		},
		LogHandler: func(line string) {
			mu.Lock()
			stderrBuf.WriteString(line + "\n")
			mu.Unlock()
		},
	}

	err := e.Run(ctx, opts)

	mu.Lock()
	output := stderrBuf.String()
	mu.Unlock()

	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("scene detection failed: %w", err)
	}

	boundaries := parsePTSTimes(output)
	e.logger.Info().Int("boundaries", len(boundaries)).Msg("scene detection complete")
	return boundaries, nil
}

// parsePTSTimes extracts showinfo pts_time values from ffmpeg stderr, in
// stream order.
func parsePTSTimes(output string) []time.Duration {
	var times []time.Duration

	for _, line := range strings.Split(output, "\n") {
		idx := strings.Index(line, "pts_time:")
		if idx < 0 {
			continue
		}
		rest := strings.TrimSpace(line[idx+len("pts_time:"):])
		fields := strings.Fields(rest)
		if len(fields) == 0 {
			continue
		}
		if seconds, err := strconv.ParseFloat(fields[0], 64); err == nil {
			times = append(times, time.Duration(seconds*float64(time.Second)))
		}
	}

	return times
}
