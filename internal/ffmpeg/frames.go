package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"image/jpeg"
	"io"
	"os/exec"

	"github.com/kikiluvv/sceneseek/pkg/util"
)

// SampleFrames decodes the frames of one scene, inclusive of start and end,
// in ascending frame order. step samples every Nth frame (1 = every frame).
// Frames ffmpeg cannot decode, or that arrive corrupt, are skipped rather
// than failing the scene; the result may hold fewer frames than requested.
func (e *Executor) SampleFrames(ctx context.Context, input string, start, end, step int, fps float64) ([]Frame, error) {
	if end < start {
		return nil, fmt.Errorf("invalid frame range [%d..%d]", start, end)
	}
	if step < 1 {
		step = 1
	}

	expr := fmt.Sprintf("between(n,%d,%d)", start, end)
	if step > 1 {
		expr = fmt.Sprintf("%s*not(mod(n-%d,%d))", expr, start, step)
	}

	args := e.baseArgs()
	args = append(args,
		"-i", input,
		"-vf", fmt.Sprintf("select='%s',showinfo", expr),
		"-vsync", "0",
		"-f", "image2pipe",
		"-vcodec", "mjpeg",
		"-q:v", "2",
		"-",
	)

	e.logger.Debug().
		Str("input", input).
		Int("start", start).
		Int("end", end).
		Int("step", step).
		Msg("sampling frames")

	cmd := exec.CommandContext(ctx, e.ffmpegPath, args...)

	var stderrBuf bytes.Buffer
	cmd.Stderr = &stderrBuf

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create stdout pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	data, readErr := io.ReadAll(stdout)
	waitErr := cmd.Wait()
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if readErr != nil {
		return nil, fmt.Errorf("reading frame stream: %w", readErr)
	}
	// A decode error late in the stream still leaves usable frames; only a
	// run that produced nothing is treated as a sampling failure.
	if waitErr != nil && len(data) == 0 {
		return nil, fmt.Errorf("frame sampling failed: %w", waitErr)
	}

	images := splitJPEGs(data)
	times := parsePTSTimes(stderrBuf.String())

	frames := make([]Frame, 0, len(images))
	for i, img := range images {
		// Attribute each image to its source index via showinfo timing;
		// fall back to arithmetic when the counts disagree.
		index := start + i*step
		if i < len(times) {
			index = util.DurationToFrame(times[i], fps)
		}

		if _, err := jpeg.DecodeConfig(bytes.NewReader(img)); err != nil {
			e.logger.Warn().
				Int("frame", index).
				Err(err).
				Msg("skipping undecodable frame")
			continue
		}

		frames = append(frames, Frame{Index: index, Data: img})
	}

	e.logger.Debug().
		Int("requested", (end-start)/step+1).
		Int("decoded", len(frames)).
		Msg("frame sampling complete")

	return frames, nil
}

// splitJPEGs cuts a concatenated mjpeg stream into individual images on
// SOI/EOI markers.
func splitJPEGs(data []byte) [][]byte {
	soi := []byte{0xFF, 0xD8}
	eoi := []byte{0xFF, 0xD9}

	var images [][]byte
	for {
		start := bytes.Index(data, soi)
		if start < 0 {
			break
		}
		rel := bytes.Index(data[start+2:], eoi)
		if rel < 0 {
			break
		}
		end := start + 2 + rel + 2
		images = append(images, data[start:end])
		data = data[end:]
	}

	return images
}
