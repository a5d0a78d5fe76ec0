package embedding

import (
	"context"
	"fmt"

	"github.com/kikiluvv/sceneseek/internal/ollama"
)

// DefaultModel is the default embedding model.
const DefaultModel = "nomic-embed-text"

// OllamaProvider generates embeddings using the Ollama API.
type OllamaProvider struct {
	client *ollama.Client
	model  string

	// dimensions, when non-zero, is enforced on every response. A mismatch
	// means captions and query would land in different spaces.
	dimensions int
}

// NewOllamaProvider creates an embedding provider backed by an Ollama client.
// dimensions of 0 disables the size check.
func NewOllamaProvider(client *ollama.Client, model string, dimensions int) *OllamaProvider {
	if model == "" {
		model = DefaultModel
	}
	return &OllamaProvider{
		client:     client,
		model:      model,
		dimensions: dimensions,
	}
}

// Embed generates an embedding for the given text.
func (p *OllamaProvider) Embed(ctx context.Context, text string) (Embedding, error) {
	vec, err := p.client.Embeddings(ctx, p.model, text)
	if err != nil {
		return Embedding{}, err
	}

	if len(vec) == 0 {
		return Embedding{}, fmt.Errorf("model %s returned an empty embedding", p.model)
	}
	if p.dimensions > 0 && len(vec) != p.dimensions {
		return Embedding{}, fmt.Errorf("unexpected embedding dimensions: got %d, want %d", len(vec), p.dimensions)
	}

	return Embedding{Vector: vec}, nil
}

// ModelName returns the name of the embedding model.
func (p *OllamaProvider) ModelName() string {
	return p.model
}
