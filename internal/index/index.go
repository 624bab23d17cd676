// Package index implements named, persistable vector indexes with
// brute-force cosine similarity search.
package index

import (
	"sort"

	"github.com/ameympatil/AI-Chatbot/internal/domain"
)

// Index is an immutable set of embedded chunks for one document.
// Chunks[i] corresponds to Vectors[i]; vectors are L2-normalized, so dot
// product equals cosine similarity. Instances are never mutated after build,
// which makes Search safe for concurrent callers.
type Index struct {
	Name      string
	Model     string
	Dimension int
	Chunks    []domain.Chunk
	Vectors   [][]float32
}

// Search returns up to topK chunks ranked by descending similarity to the
// query vector. Ties keep original chunk insertion order. An empty index
// yields an empty result.
func (ix *Index) Search(query []float32, topK int) []domain.SearchResult {
	if len(ix.Chunks) == 0 || len(query) != ix.Dimension {
		return nil
	}
	if topK <= 0 {
		topK = 3
	}
	results := make([]domain.SearchResult, len(ix.Chunks))
	for i := range ix.Chunks {
		results[i] = domain.SearchResult{
			Chunk: ix.Chunks[i],
			Score: dot(query, ix.Vectors[i]),
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if topK < len(results) {
		results = results[:topK]
	}
	return results
}

func dot(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float32
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
