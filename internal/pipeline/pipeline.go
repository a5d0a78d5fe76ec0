// Package pipeline orchestrates the scene search: detect scene intervals,
// caption and embed sampled frames, score each scene against the query, and
// extract the winning scene as a standalone clip.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/kikiluvv/sceneseek/internal/embedding"
	"github.com/kikiluvv/sceneseek/internal/ffmpeg"
	"github.com/kikiluvv/sceneseek/internal/scene"
	"github.com/kikiluvv/sceneseek/internal/vision"
	"github.com/kikiluvv/sceneseek/pkg/util"
)

var (
	// ErrEmptyQuery is returned when the query is blank. The CLI validates
	// this before invoking the core; the core refuses regardless.
	ErrEmptyQuery = errors.New("query must not be empty")

	// ErrQueryEmbedding is returned when the query cannot be embedded.
	// Without the query vector no ranking is possible, so the run aborts.
	ErrQueryEmbedding = errors.New("failed to embed query")

	// ErrNoRelevantScene is returned when every scene scored at the
	// sentinel floor. Distinct from a crash: the run completed, it just
	// found nothing usable.
	ErrNoRelevantScene = errors.New("no relevant scene found")
)

// VideoTool is the slice of the ffmpeg executor the pipeline consumes.
type VideoTool interface {
	ProbeVideo(ctx context.Context, path string) (*ffmpeg.VideoInfo, error)
	DetectScenes(ctx context.Context, path string, threshold float64) ([]time.Duration, error)
	SampleFrames(ctx context.Context, path string, start, end, step int, fps float64) ([]ffmpeg.Frame, error)
	ExtractFrameRange(ctx context.Context, path string, opts ffmpeg.ClipOptions) error
}

// Options configures a pipeline.
type Options struct {
	// SceneThreshold is the ffmpeg scene-change score that starts a new
	// scene (0..1).
	SceneThreshold float64

	// SampleRate captions every Nth frame of a scene. 1 = every frame.
	SampleRate int

	// OutputDir receives the extracted scene clip.
	OutputDir string

	VideoCodec string
	CRF        int
}

// Pipeline runs one query against one video. All model capabilities are
// injected so tests can substitute deterministic doubles.
type Pipeline struct {
	logger    zerolog.Logger
	video     VideoTool
	captioner vision.Captioner
	embedder  embedding.Provider
	opts      Options
}

// Result describes a successful run.
type Result struct {
	// OutputPath is the extracted clip containing only the winning scene.
	OutputPath string

	// Best is the winning scene and its score.
	Best scene.Score

	// SceneCount is the number of scenes the detector produced.
	SceneCount int
}

// New creates a pipeline around the given capabilities.
func New(logger zerolog.Logger, video VideoTool, captioner vision.Captioner, embedder embedding.Provider, opts Options) *Pipeline {
	if opts.SceneThreshold <= 0 {
		opts.SceneThreshold = 0.4
	}
	if opts.SampleRate < 1 {
		opts.SampleRate = 1
	}
	if opts.OutputDir == "" {
		opts.OutputDir = "."
	}

	return &Pipeline{
		logger:    logger.With().Str("component", "pipeline").Logger(),
		video:     video,
		captioner: captioner,
		embedder:  embedder,
		opts:      opts,
	}
}

// Run locates the scene most relevant to the query and extracts it as a new
// clip. Nothing computed here outlives the call: scenes, frames, captions,
// and embeddings are all rebuilt per invocation.
func (p *Pipeline) Run(ctx context.Context, videoPath, query string) (*Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	runID := uuid.NewString()[:8]
	logger := p.logger.With().
		Str("run_id", runID).
		Str("video", videoPath).
		Logger()

	logger.Info().Str("query", query).Msg("starting scene search")

	info, err := p.video.ProbeVideo(ctx, videoPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open video: %w", err)
	}

	boundaries, err := p.video.DetectScenes(ctx, videoPath, p.opts.SceneThreshold)
	if err != nil {
		return nil, fmt.Errorf("scene detection failed: %w", err)
	}

	intervals := scene.IntervalsFromBoundaries(boundaries, info.FPS, info.FrameCount)
	logger.Info().
		Int("scenes", len(intervals)).
		Int("frames", info.FrameCount).
		Float64("fps", info.FPS).
		Msg("scene detection complete")

	// The query is embedded exactly once and reused across all scenes.
	queryEmb, err := p.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQueryEmbedding, err)
	}

	scores := make([]scene.Score, 0, len(intervals))
	for _, iv := range intervals {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		vectors := p.gatherEvidence(ctx, logger, videoPath, iv, info.FPS)
		s := scene.Score{
			Interval: iv,
			Value:    scene.ScoreScene(queryEmb.Vector, vectors),
		}

		if s.Failed() {
			logger.Warn().Stringer("scene", iv).Msg("scene produced no usable evidence")
		} else {
			logger.Info().
				Stringer("scene", iv).
				Int("evidence_frames", len(vectors)).
				Float64("score", s.Value).
				Msg("scene scored")
		}

		scores = append(scores, s)
	}

	best, found := scene.SelectBest(scores)
	if !found {
		return nil, ErrNoRelevantScene
	}

	logger.Info().
		Stringer("scene", best.Interval).
		Float64("score", best.Value).
		Msg("best scene selected")

	if err := util.EnsureDir(p.opts.OutputDir); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	output := filepath.Join(p.opts.OutputDir,
		fmt.Sprintf("scene_%s_%s.mp4", time.Now().Format("20060102_150405"), runID))

	// The winning scene is re-read from the source so the clip reproduces
	// original frame order, count, rate, and resolution.
	err = p.video.ExtractFrameRange(ctx, videoPath, ffmpeg.ClipOptions{
		StartFrame: best.Interval.Start,
		EndFrame:   best.Interval.End,
		FPS:        info.FPS,
		Output:     output,
		VideoCodec: p.opts.VideoCodec,
		CRF:        p.opts.CRF,
	})
	if err != nil {
		return nil, err
	}

	logger.Info().Str("output", output).Msg("scene search complete")

	return &Result{
		OutputPath: output,
		Best:       best,
		SceneCount: len(intervals),
	}, nil
}

// gatherEvidence folds one scene's frames into the per-frame embedding
// vectors that back its score. Every failure is local: a frame that cannot
// be sampled, captioned, or embedded is excluded and the rest of the scene
// still counts. A scene losing all its frames simply yields no vectors.
func (p *Pipeline) gatherEvidence(ctx context.Context, logger zerolog.Logger, videoPath string, iv scene.Interval, fps float64) [][]float32 {
	frames, err := p.video.SampleFrames(ctx, videoPath, iv.Start, iv.End, p.opts.SampleRate, fps)
	if err != nil {
		logger.Warn().Stringer("scene", iv).Err(err).Msg("frame sampling failed, scene has no evidence")
		return nil
	}

	vectors := make([][]float32, 0, len(frames))
	for _, frame := range frames {
		caption, err := p.captioner.Caption(ctx, frame.Data)
		if err != nil {
			logger.Warn().Int("frame", frame.Index).Err(err).Msg("captioning failed, frame excluded")
			continue
		}

		emb, err := p.embedder.Embed(ctx, caption)
		if err != nil {
			logger.Warn().Int("frame", frame.Index).Err(err).Msg("caption embedding failed, frame excluded")
			continue
		}

		logger.Debug().
			Int("frame", frame.Index).
			Str("caption", caption).
			Msg("frame captioned")

		vectors = append(vectors, emb.Vector)
	}

	return vectors
}
