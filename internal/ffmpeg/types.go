package ffmpeg

import "time"

// VideoInfo contains metadata about a video file
type VideoInfo struct {
	FilePath   string
	Duration   time.Duration
	Width      int
	Height     int
	FPS        float64
	FrameCount int
	VideoCodec string
}

// Frame is one decoded frame: encoded JPEG bytes plus its source frame index.
// Frames are transient; they live only while one scene is being processed.
type Frame struct {
	Index int
	Data  []byte
}

// Progress represents ffmpeg progress data
type Progress struct {
	Frame int
	FPS   float64
	Time  string
	Speed string
}

// ProgressFunc is a callback for progress updates during ffmpeg operations.
type ProgressFunc func(*Progress)

// RunOptions configures ffmpeg execution
type RunOptions struct {
	Args            []string
	ProgressHandler ProgressFunc
	LogHandler      func(line string)
}

// ClipOptions defines frame-range extraction parameters. The range is
// inclusive on both ends and cut on exact frame indices, so the output is
// re-encoded rather than stream-copied.
type ClipOptions struct {
	StartFrame   int
	EndFrame     int
	FPS          float64
	Output       string
	VideoCodec   string
	CRF          int
	ProgressFunc ProgressFunc
}

// Default encoding settings
const (
	DefaultCRF        = 23
	DefaultVideoCodec = "libx264"
)
