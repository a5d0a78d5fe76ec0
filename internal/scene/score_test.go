package scene

import (
	"math"
	"math/rand"
	"testing"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float32
		expected float64
	}{
		{"identical", []float32{1, 0, 0}, []float32{1, 0, 0}, 1.0},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0.0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1.0},
		{"45 degrees", []float32{1, 1}, []float32{1, 0}, 0.7071067811865475},
		{"empty", []float32{}, []float32{}, 0.0},
		{"length mismatch", []float32{1, 0}, []float32{1, 0, 0}, 0.0},
		{"zero vector", []float32{0, 0}, []float32{1, 0}, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CosineSimilarity(tt.a, tt.b)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("CosineSimilarity(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.expected)
			}
		})
	}
}

func TestScoreSceneMean(t *testing.T) {
	query := []float32{1, 0}
	embeddings := [][]float32{
		{1, 0},  // similarity 1
		{0, 1},  // similarity 0
		{-1, 0}, // similarity -1
	}

	got := ScoreScene(query, embeddings)
	if math.Abs(got-0.0) > 1e-9 {
		t.Errorf("ScoreScene = %v, want 0", got)
	}
}

func TestScoreSceneSentinelOnEmpty(t *testing.T) {
	got := ScoreScene([]float32{1, 0}, nil)
	if got != SentinelScore {
		t.Errorf("ScoreScene with no embeddings = %v, want %v", got, SentinelScore)
	}
	if !(Score{Value: got}).Failed() {
		t.Error("sentinel score should report Failed")
	}
}

// The mean must not depend on the order embeddings were produced, so a
// parallelized producer cannot change the result.
func TestScoreSceneOrderInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	query := []float32{0.3, -0.7, 0.65}
	embeddings := make([][]float32, 20)
	for i := range embeddings {
		embeddings[i] = []float32{rng.Float32()*2 - 1, rng.Float32()*2 - 1, rng.Float32()*2 - 1}
	}

	want := ScoreScene(query, embeddings)

	for trial := 0; trial < 10; trial++ {
		shuffled := make([][]float32, len(embeddings))
		copy(shuffled, embeddings)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		got := ScoreScene(query, shuffled)
		if math.Abs(got-want) > 1e-9 {
			t.Fatalf("trial %d: mean changed under reordering: %v vs %v", trial, got, want)
		}
	}
}

func TestSelectBest(t *testing.T) {
	tests := []struct {
		name      string
		scores    []Score
		wantFound bool
		wantStart int
	}{
		{
			name:      "empty input",
			scores:    nil,
			wantFound: false,
		},
		{
			name: "all sentinel",
			scores: []Score{
				{Interval{0, 9}, SentinelScore},
				{Interval{10, 19}, SentinelScore},
			},
			wantFound: false,
		},
		{
			name: "highest wins",
			scores: []Score{
				{Interval{0, 9}, 0.2},
				{Interval{10, 19}, 0.8},
				{Interval{20, 29}, 0.5},
			},
			wantFound: true,
			wantStart: 10,
		},
		{
			name: "earlier scene wins ties",
			scores: []Score{
				{Interval{0, 9}, 0.1},
				{Interval{10, 19}, 0.6},
				{Interval{20, 29}, 0.6},
			},
			wantFound: true,
			wantStart: 10,
		},
		{
			name: "sentinel never beats a valid score",
			scores: []Score{
				{Interval{0, 9}, SentinelScore},
				{Interval{10, 19}, -0.99},
			},
			wantFound: true,
			wantStart: 10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			best, found := SelectBest(tt.scores)
			if found != tt.wantFound {
				t.Fatalf("found = %v, want %v", found, tt.wantFound)
			}
			if found && best.Interval.Start != tt.wantStart {
				t.Errorf("best interval starts at %d, want %d", best.Interval.Start, tt.wantStart)
			}
		})
	}
}
