package config

import (
	"context"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type contextKey string

const configKey contextKey = "config"

// Config holds all application configuration
type Config struct {
	// OutputDir is where extracted scene clips are written
	OutputDir string `yaml:"output_dir"`

	// Scene detection and sampling settings
	Scene SceneConfig `yaml:"scene"`

	// Ollama model settings
	Ollama OllamaConfig `yaml:"ollama"`

	// FFmpeg settings
	FFmpeg FFmpegConfig `yaml:"ffmpeg"`
}

type SceneConfig struct {
	// Threshold is the ffmpeg scene-change score above which a new
	// scene begins (0..1, higher = fewer scenes)
	Threshold float64 `yaml:"threshold"`

	// SampleRate samples every Nth frame of a scene for captioning.
	// 1 means every frame.
	SampleRate int `yaml:"sample_rate"`
}

type OllamaConfig struct {
	BaseURL      string `yaml:"base_url"`
	CaptionModel string `yaml:"caption_model"`
	EmbedModel   string `yaml:"embed_model"`

	// Dimensions is the expected embedding size. 0 skips the check.
	Dimensions int `yaml:"dimensions"`

	// TimeoutSeconds bounds a single model call. 0 means no timeout;
	// the pipeline itself imposes none.
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

type FFmpegConfig struct {
	Threads    int    `yaml:"threads"`
	VideoCodec string `yaml:"video_codec"`
	CRF        int    `yaml:"crf"`
}

// Load reads configuration from file or returns defaults
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	if path == "" {
		path = findConfigFile()
	}

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes configuration to file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

func defaultConfig() *Config {
	return &Config{
		OutputDir: "./scenes",
		Scene: SceneConfig{
			Threshold:  0.4,
			SampleRate: 1,
		},
		Ollama: OllamaConfig{
			BaseURL:        "http://localhost:11434",
			CaptionModel:   "llama3.2-vision:11b",
			EmbedModel:     "nomic-embed-text",
			Dimensions:     0,
			TimeoutSeconds: 0,
		},
		FFmpeg: FFmpegConfig{
			Threads:    0,
			VideoCodec: "libx264",
			CRF:        23,
		},
	}
}

func findConfigFile() string {
	candidates := []string{
		"./sceneseek.yaml",
		"./sceneseek.yml",
		filepath.Join(os.Getenv("HOME"), ".sceneseek", "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// WithConfig stores config in context
func WithConfig(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// FromContext retrieves config from context
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(configKey).(*Config); ok {
		return cfg
	}
	return defaultConfig()
}
