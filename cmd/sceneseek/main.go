package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/kikiluvv/sceneseek/internal/config"
	"github.com/kikiluvv/sceneseek/internal/embedding"
	"github.com/kikiluvv/sceneseek/internal/ffmpeg"
	"github.com/kikiluvv/sceneseek/internal/logging"
	"github.com/kikiluvv/sceneseek/internal/ollama"
	"github.com/kikiluvv/sceneseek/internal/pipeline"
	"github.com/kikiluvv/sceneseek/internal/scene"
	"github.com/kikiluvv/sceneseek/internal/vision"
	"github.com/kikiluvv/sceneseek/pkg/util"
)

var (
	cfgFile string
	verbose bool

	query      string
	outputDir  string
	threshold  float64
	sampleRate int
)

func main() {
	ctx := context.Background()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "sceneseek",
	Short: "sceneseek - natural-language scene search for video files",
	Long:  "Finds the scene in a video that best matches a text query and extracts it as a standalone clip.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.Init(verbose)

		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}

		ctx := config.WithConfig(cmd.Context(), cfg)
		cmd.SetContext(ctx)

		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./sceneseek.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	findCmd.Flags().StringVarP(&query, "query", "q", "", "text query describing the scene to find")
	findCmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "directory for the extracted clip")
	findCmd.Flags().Float64VarP(&threshold, "threshold", "t", 0, "scene detection threshold (0..1)")
	findCmd.Flags().IntVar(&sampleRate, "sample-rate", 0, "caption every Nth frame of a scene")
	findCmd.MarkFlagRequired("query")

	scenesCmd.Flags().Float64VarP(&threshold, "threshold", "t", 0, "scene detection threshold (0..1)")

	rootCmd.AddCommand(findCmd)
	rootCmd.AddCommand(scenesCmd)
	rootCmd.AddCommand(configCmd)
}

var findCmd = &cobra.Command{
	Use:   "find [input video]",
	Short: "Find and extract the scene matching a query",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())
		videoPath := args[0]

		// Validate inputs before spinning up models
		if query == "" {
			return pipeline.ErrEmptyQuery
		}
		if !util.FileExists(videoPath) {
			return fmt.Errorf("video file not found: %s", videoPath)
		}

		if outputDir != "" {
			cfg.OutputDir = outputDir
		}
		if threshold > 0 {
			cfg.Scene.Threshold = threshold
		}
		if sampleRate > 0 {
			cfg.Scene.SampleRate = sampleRate
		}

		executor, err := ffmpeg.New(log.Logger, cfg.FFmpeg.Threads)
		if err != nil {
			return err
		}

		client := newOllamaClient(cfg)
		if err := preflight(cmd.Context(), client, cfg); err != nil {
			return err
		}

		captioner := vision.NewOllamaCaptioner(client, cfg.Ollama.CaptionModel)
		embedder := embedding.NewOllamaProvider(client, cfg.Ollama.EmbedModel, cfg.Ollama.Dimensions)

		pipe := pipeline.New(log.Logger, executor, captioner, embedder, pipeline.Options{
			SceneThreshold: cfg.Scene.Threshold,
			SampleRate:     cfg.Scene.SampleRate,
			OutputDir:      cfg.OutputDir,
			VideoCodec:     cfg.FFmpeg.VideoCodec,
			CRF:            cfg.FFmpeg.CRF,
		})

		result, err := pipe.Run(cmd.Context(), videoPath, query)
		if err != nil {
			return err
		}

		cliLog := logging.WithComponent("cli")
		cliLog.Info().
			Stringer("scene", result.Best.Interval).
			Float64("score", result.Best.Value).
			Int("scenes_considered", result.SceneCount).
			Msg("scene found")

		fmt.Println(result.OutputPath)
		return nil
	},
}

var scenesCmd = &cobra.Command{
	Use:   "scenes [input video]",
	Short: "List detected scenes without captioning or scoring",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.FromContext(cmd.Context())
		videoPath := args[0]

		if !util.FileExists(videoPath) {
			return fmt.Errorf("video file not found: %s", videoPath)
		}
		if threshold > 0 {
			cfg.Scene.Threshold = threshold
		}

		executor, err := ffmpeg.New(log.Logger, cfg.FFmpeg.Threads)
		if err != nil {
			return err
		}

		info, err := executor.ProbeVideo(cmd.Context(), videoPath)
		if err != nil {
			return fmt.Errorf("failed to open video: %w", err)
		}

		boundaries, err := executor.DetectScenes(cmd.Context(), videoPath, cfg.Scene.Threshold)
		if err != nil {
			return err
		}

		intervals := scene.IntervalsFromBoundaries(boundaries, info.FPS, info.FrameCount)
		for i, iv := range intervals {
			start := util.FrameToDuration(iv.Start, info.FPS)
			end := util.FrameToDuration(iv.End, info.FPS)
			fmt.Printf("scene %d: frames %v  %s - %s  (%d frames)\n",
				i+1, iv, util.FormatDuration(start), util.FormatDuration(end), iv.Frames())
		}

		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Config management commands",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration to ./sceneseek.yaml",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "./sceneseek.yaml"
		if util.FileExists(path) {
			return fmt.Errorf("config file already exists: %s", path)
		}

		cfg := config.FromContext(cmd.Context())
		if err := cfg.Save(path); err != nil {
			return err
		}

		cliLog := logging.WithComponent("cli")
		cliLog.Info().Str("path", path).Msg("config written")
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
}

func newOllamaClient(cfg *config.Config) *ollama.Client {
	opts := []ollama.Option{ollama.WithBaseURL(cfg.Ollama.BaseURL)}
	if cfg.Ollama.TimeoutSeconds > 0 {
		opts = append(opts, ollama.WithTimeout(time.Duration(cfg.Ollama.TimeoutSeconds)*time.Second))
	}
	return ollama.NewClient(opts...)
}

// preflight checks the Ollama server is reachable and both models are
// pulled, so a missing model fails fast instead of on the first frame.
func preflight(ctx context.Context, client *ollama.Client, cfg *config.Config) error {
	if err := client.IsAvailable(ctx); err != nil {
		return fmt.Errorf("ollama not reachable at %s: %w", client.BaseURL(), err)
	}

	for _, model := range []string{cfg.Ollama.CaptionModel, cfg.Ollama.EmbedModel} {
		ok, err := client.HasModel(ctx, model)
		if err != nil {
			return fmt.Errorf("checking model %s: %w", model, err)
		}
		if !ok {
			return fmt.Errorf("model %s not found, pull it with: ollama pull %s", model, model)
		}
	}

	return nil
}
