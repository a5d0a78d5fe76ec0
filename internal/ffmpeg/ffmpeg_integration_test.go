package ffmpeg

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

// skipIfNoFFmpeg skips the test if ffmpeg is not available
func skipIfNoFFmpeg(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not found in PATH")
	}
	if _, err := exec.LookPath("ffprobe"); err != nil {
		t.Skip("ffprobe not found in PATH")
	}
}

// makeTestVideo synthesizes a short test clip with lavfi
func makeTestVideo(t *testing.T, seconds, fps int) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.mp4")
	cmd := exec.Command(
		"ffmpeg", "-y",
		"-f", "lavfi",
		"-i", fmt.Sprintf("testsrc=duration=%d:size=320x240:rate=%d", seconds, fps),
		"-pix_fmt", "yuv420p",
		path,
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Skipf("could not synthesize test video: %v\n%s", err, out)
	}
	return path
}

func testExecutor(t *testing.T) *Executor {
	t.Helper()
	logger := zerolog.New(os.Stderr)
	e, err := New(logger, 2)
	if err != nil {
		t.Fatalf("failed to create executor: %v", err)
	}
	return e
}

func TestExecutorCreation(t *testing.T) {
	skipIfNoFFmpeg(t)

	e := testExecutor(t)
	if e.ffmpegPath == "" {
		t.Error("ffmpeg path is empty")
	}
	if e.ffprobePath == "" {
		t.Error("ffprobe path is empty")
	}
}

func TestProbeVideo(t *testing.T) {
	skipIfNoFFmpeg(t)

	video := makeTestVideo(t, 2, 10)
	info, err := testExecutor(t).ProbeVideo(context.Background(), video)
	if err != nil {
		t.Fatalf("ProbeVideo() error: %v", err)
	}

	if info.Width != 320 || info.Height != 240 {
		t.Errorf("resolution = %dx%d, want 320x240", info.Width, info.Height)
	}
	if info.FPS != 10 {
		t.Errorf("fps = %v, want 10", info.FPS)
	}
	if info.FrameCount != 20 {
		t.Errorf("frame count = %d, want 20", info.FrameCount)
	}
}

func TestProbeVideoMissingFile(t *testing.T) {
	skipIfNoFFmpeg(t)

	_, err := testExecutor(t).ProbeVideo(context.Background(), "/nonexistent/video.mp4")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestDetectScenesUniformContent(t *testing.T) {
	skipIfNoFFmpeg(t)

	// testsrc content changes smoothly, so no scene cuts are expected
	video := makeTestVideo(t, 2, 10)
	boundaries, err := testExecutor(t).DetectScenes(context.Background(), video, 0.4)
	if err != nil {
		t.Fatalf("DetectScenes() error: %v", err)
	}
	if len(boundaries) != 0 {
		t.Errorf("expected no boundaries for uniform content, got %v", boundaries)
	}
}

func TestSampleFrames(t *testing.T) {
	skipIfNoFFmpeg(t)

	video := makeTestVideo(t, 2, 10)
	e := testExecutor(t)

	frames, err := e.SampleFrames(context.Background(), video, 5, 9, 1, 10)
	if err != nil {
		t.Fatalf("SampleFrames() error: %v", err)
	}
	if len(frames) == 0 || len(frames) > 5 {
		t.Fatalf("sampled %d frames, want 1..5", len(frames))
	}
	prev := -1
	for _, f := range frames {
		if f.Index < 5 || f.Index > 9 {
			t.Errorf("frame index %d outside requested range [5..9]", f.Index)
		}
		if f.Index <= prev {
			t.Errorf("frame indices not ascending: %d after %d", f.Index, prev)
		}
		prev = f.Index
		if len(f.Data) == 0 {
			t.Error("frame has no data")
		}
	}
}

func TestSampleFramesStep(t *testing.T) {
	skipIfNoFFmpeg(t)

	video := makeTestVideo(t, 2, 10)
	frames, err := testExecutor(t).SampleFrames(context.Background(), video, 0, 9, 5, 10)
	if err != nil {
		t.Fatalf("SampleFrames() error: %v", err)
	}
	if len(frames) != 2 {
		t.Fatalf("sampled %d frames with step 5 over 10, want 2", len(frames))
	}
}

func TestExtractFrameRange(t *testing.T) {
	skipIfNoFFmpeg(t)

	video := makeTestVideo(t, 2, 10)
	e := testExecutor(t)
	output := filepath.Join(t.TempDir(), "clip.mp4")

	err := e.ExtractFrameRange(context.Background(), video, ClipOptions{
		StartFrame: 5,
		EndFrame:   14,
		FPS:        10,
		Output:     output,
	})
	if err != nil {
		t.Fatalf("ExtractFrameRange() error: %v", err)
	}

	info, err := e.ProbeVideo(context.Background(), output)
	if err != nil {
		t.Fatalf("probing extracted clip: %v", err)
	}
	if info.FrameCount != 10 {
		t.Errorf("clip has %d frames, want 10", info.FrameCount)
	}
	if info.Width != 320 || info.Height != 240 {
		t.Errorf("clip resolution = %dx%d, want source 320x240", info.Width, info.Height)
	}
	if info.FPS != 10 {
		t.Errorf("clip fps = %v, want source 10", info.FPS)
	}
}

func TestExtractFrameRangeInvalidRange(t *testing.T) {
	skipIfNoFFmpeg(t)

	err := testExecutor(t).ExtractFrameRange(context.Background(), "in.mp4", ClipOptions{
		StartFrame: 10,
		EndFrame:   5,
		Output:     "out.mp4",
	})
	if err == nil {
		t.Fatal("expected error for inverted range")
	}
}
