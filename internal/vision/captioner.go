// Package vision produces natural-language captions for single video frames
// using a vision-language model.
package vision

import (
	"context"
	"fmt"
	"strings"

	"github.com/kikiluvv/sceneseek/internal/ollama"
)

// DefaultModel is the default vision model.
const DefaultModel = "llama3.2-vision:11b"

// DefaultPrompt asks for a short, search-friendly description. Captions are
// embedded and compared against user queries, so brevity beats detail here.
const DefaultPrompt = "Describe the visual content of this image in one short sentence."

// Captioner maps one frame image to one caption.
type Captioner interface {
	// Caption describes the given encoded image (JPEG bytes).
	Caption(ctx context.Context, image []byte) (string, error)

	// ModelName returns the name of the caption model.
	ModelName() string
}

// OllamaCaptioner captions frames using an Ollama vision model.
type OllamaCaptioner struct {
	client *ollama.Client
	model  string
	prompt string
}

// NewOllamaCaptioner creates a captioner backed by an Ollama client.
func NewOllamaCaptioner(client *ollama.Client, model string) *OllamaCaptioner {
	if model == "" {
		model = DefaultModel
	}
	return &OllamaCaptioner{
		client: client,
		model:  model,
		prompt: DefaultPrompt,
	}
}

// Caption describes the given frame image.
func (c *OllamaCaptioner) Caption(ctx context.Context, image []byte) (string, error) {
	if len(image) == 0 {
		return "", fmt.Errorf("empty image")
	}

	text, err := c.client.Generate(ctx, c.model, c.prompt, [][]byte{image})
	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("model %s returned an empty caption", c.model)
	}

	return text, nil
}

// ModelName returns the name of the caption model.
func (c *OllamaCaptioner) ModelName() string {
	return c.model
}
