package recommend

import (
	"math"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/musiq-plus/backend/internal/catalog"
)

// Recommendation pairs a catalog item with its similarity to a profile
type Recommendation struct {
	Item       catalog.Item
	Similarity float64
}

// Rank scores every catalog item against the profile and returns candidates
// sorted by descending similarity, with catalog order breaking ties.
// Items in exclude never appear. An empty genreFilter matches all genres;
// topK <= 0 returns all candidates. workers <= 0 uses one worker per CPU.
func (vs *VectorSpace) Rank(profile []float64, exclude map[int]bool, genreFilter string, topK, workers int) []Recommendation {
	sims := vs.similarities(profile, workers)

	candidates := make([]Recommendation, 0, len(vs.items))
	for i, item := range vs.items {
		if exclude[item.ID] {
			continue
		}
		if genreFilter != "" && !strings.EqualFold(item.Genre, genreFilter) {
			continue
		}
		candidates = append(candidates, Recommendation{Item: item, Similarity: sims[i]})
	}

	// Stable sort keeps catalog order for equal scores, so the result is
	// identical regardless of how the scan was scheduled.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Similarity > candidates[j].Similarity
	})

	if topK > 0 && len(candidates) > topK {
		candidates = candidates[:topK]
	}
	return candidates
}

// similarities fans the per-item cosine computation out across workers.
// Each worker writes to disjoint indices of the result slice, so there is
// no shared mutable state and no ordering dependency between workers.
func (vs *VectorSpace) similarities(profile []float64, workers int) []float64 {
	n := len(vs.vectors)
	sims := make([]float64, n)

	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		for i := range vs.vectors {
			sims[i] = CosineSimilarity(profile, vs.vectors[i])
		}
		return sims
	}

	var wg sync.WaitGroup
	chunk := (n + workers - 1) / workers
	for start := 0; start < n; start += chunk {
		end := start + chunk
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				sims[i] = CosineSimilarity(profile, vs.vectors[i])
			}
		}(start, end)
	}
	wg.Wait()
	return sims
}

// CosineSimilarity calculates the cosine similarity between two vectors.
// Returns 0 when either vector has zero norm.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
