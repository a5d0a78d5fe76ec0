package scene

import "math"

// SentinelScore marks a scene with no usable frame evidence. It sits at the
// floor of the cosine range so a sentinel-scored scene can never win a
// strict-greater-than selection.
const SentinelScore = -1.0

// Score pairs an interval with its relevance against the query.
type Score struct {
	Interval Interval
	Value    float64
}

// Failed reports whether the scene produced no usable evidence.
func (s Score) Failed() bool {
	return s.Value == SentinelScore
}

// CosineSimilarity computes the cosine similarity between two vectors.
// Returns 0 for mismatched lengths, empty input, or a zero vector.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	denominator := math.Sqrt(normA) * math.Sqrt(normB)
	if denominator == 0 {
		return 0
	}

	return dot / denominator
}

// ScoreScene folds per-frame caption embeddings into one relevance value:
// the arithmetic mean of each frame's cosine similarity to the query.
// A scene with zero usable embeddings scores SentinelScore. The mean is
// order-independent, so callers may produce the vectors in any order.
func ScoreScene(query []float32, frameEmbeddings [][]float32) float64 {
	if len(frameEmbeddings) == 0 {
		return SentinelScore
	}

	var sum float64
	for _, emb := range frameEmbeddings {
		sum += CosineSimilarity(query, emb)
	}
	return sum / float64(len(frameEmbeddings))
}

// SelectBest picks the scene with the maximum score using strict
// greater-than against a running maximum seeded at SentinelScore, so the
// earliest-detected scene wins ties and sentinel-scored scenes never win.
// The second return is false when no scene rises above the sentinel.
func SelectBest(scores []Score) (Score, bool) {
	best := Score{Value: SentinelScore}
	found := false

	for _, s := range scores {
		if s.Value > best.Value {
			best = s
			found = true
		}
	}

	return best, found
}
