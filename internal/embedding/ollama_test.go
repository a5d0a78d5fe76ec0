package embedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kikiluvv/sceneseek/internal/ollama"
)

func embedServer(t *testing.T, vector []float32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"embedding": vector})
	}))
}

func TestNewOllamaProviderDefaultModel(t *testing.T) {
	p := NewOllamaProvider(ollama.NewClient(), "", 0)
	if p.ModelName() != DefaultModel {
		t.Errorf("ModelName() = %s, want %s", p.ModelName(), DefaultModel)
	}

	p2 := NewOllamaProvider(ollama.NewClient(), "custom-model", 0)
	if p2.ModelName() != "custom-model" {
		t.Errorf("ModelName() = %s, want custom-model", p2.ModelName())
	}
}

func TestEmbed(t *testing.T) {
	srv := embedServer(t, []float32{0.5, -0.5, 0.25})
	defer srv.Close()

	p := NewOllamaProvider(ollama.NewClient(ollama.WithBaseURL(srv.URL)), "m", 0)
	emb, err := p.Embed(context.Background(), "a sunset over the ocean")
	if err != nil {
		t.Fatalf("Embed() error: %v", err)
	}
	if emb.Dimensions() != 3 {
		t.Errorf("Dimensions() = %d, want 3", emb.Dimensions())
	}
}

func TestEmbedDimensionMismatch(t *testing.T) {
	srv := embedServer(t, []float32{0.5, -0.5, 0.25})
	defer srv.Close()

	p := NewOllamaProvider(ollama.NewClient(ollama.WithBaseURL(srv.URL)), "m", 768)
	_, err := p.Embed(context.Background(), "text")
	if err == nil {
		t.Fatal("expected dimension mismatch error")
	}
	if !strings.Contains(err.Error(), "got 3, want 768") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestEmbedEmptyVector(t *testing.T) {
	srv := embedServer(t, []float32{})
	defer srv.Close()

	p := NewOllamaProvider(ollama.NewClient(ollama.WithBaseURL(srv.URL)), "m", 0)
	_, err := p.Embed(context.Background(), "text")
	if err == nil {
		t.Fatal("expected error for empty embedding")
	}
}
