package ffmpeg

import (
	"context"
	"fmt"
)

// ExtractFrameRange re-encodes an inclusive frame range of the source into
// a standalone clip, preserving the source frame rate and resolution. The
// source is re-read from disk; frames come out in original order.
func (e *Executor) ExtractFrameRange(ctx context.Context, input string, opts ClipOptions) error {
	if opts.EndFrame < opts.StartFrame {
		return fmt.Errorf("invalid frame range [%d..%d]", opts.StartFrame, opts.EndFrame)
	}
	if opts.Output == "" {
		return fmt.Errorf("output path is required")
	}

	e.logger.Info().
		Str("input", input).
		Str("output", opts.Output).
		Int("start_frame", opts.StartFrame).
		Int("end_frame", opts.EndFrame).
		Msg("extracting scene clip")

	codec := opts.VideoCodec
	if codec == "" {
		codec = DefaultVideoCodec
	}
	crf := opts.CRF
	if crf == 0 {
		crf = DefaultCRF
	}

	args := []string{
		"-i", input,
		"-vf", fmt.Sprintf("select='between(n,%d,%d)',setpts=PTS-STARTPTS", opts.StartFrame, opts.EndFrame),
	}
	if opts.FPS > 0 {
		args = append(args, "-r", fmt.Sprintf("%g", opts.FPS))
	}
	args = append(args,
		"-an",
		"-c:v", codec,
		"-crf", fmt.Sprintf("%d", crf),
		opts.Output,
	)

	runOpts := RunOptions{
		Args:            args,
		ProgressHandler: opts.ProgressFunc,
		LogHandler: func(line string) {
			e.logger.Debug().Str("ffmpeg", line).Msg("clip extraction")
		},
	}

	if err := e.Run(ctx, runOpts); err != nil {
		return fmt.Errorf("clip extraction failed: %w", err)
	}

	e.logger.Info().Str("output", opts.Output).Msg("clip extraction complete")
	return nil
}
