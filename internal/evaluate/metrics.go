package evaluate

import (
	"github.com/musiq-plus/backend/internal/catalog"
	"github.com/musiq-plus/backend/internal/rating"
)

// Metrics reports retrieval quality for one user's recommender-origin ratings
type Metrics struct {
	Precision        float64 `json:"precision"`
	Recall           float64 `json:"recall"`
	F1               float64 `json:"f1"`
	Hits             int     `json:"hits"`
	RecommendedCount int     `json:"recommended_count"`
	RelevantCount    int     `json:"relevant_count"`
}

// GenreStat counts a user's likes and total ratings within one genre
type GenreStat struct {
	Likes int `json:"likes"`
	Total int `json:"total"`
}

// ComputeMetrics scores a user's ratings against the globally relevant set.
// Only ratings with recommender origin count; a hit is a liked rating on a
// relevant item. RelevantCount is reported even when the user has no
// recommender-origin ratings at all.
func ComputeMetrics(ratings []rating.Rating, relevant map[int]bool) Metrics {
	m := Metrics{RelevantCount: len(relevant)}

	recommended := make(map[int]bool)
	for _, r := range ratings {
		if r.Origin != rating.OriginRecommender {
			continue
		}
		recommended[r.ItemID] = true
		if r.Liked && relevant[r.ItemID] {
			m.Hits++
		}
	}
	m.RecommendedCount = len(recommended)

	if m.RecommendedCount > 0 {
		m.Precision = float64(m.Hits) / float64(m.RecommendedCount)
	}
	if m.RelevantCount > 0 {
		m.Recall = float64(m.Hits) / float64(m.RelevantCount)
	}
	if m.Precision+m.Recall > 0 {
		m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
	}
	return m
}

// GenreStats joins a user's ratings to catalog genres and tallies likes and
// totals per genre. Ratings on items no longer in the catalog are skipped.
func GenreStats(ratings []rating.Rating, cat *catalog.Store) map[string]GenreStat {
	stats := make(map[string]GenreStat)
	for _, r := range ratings {
		item, ok := cat.ByID(r.ItemID)
		if !ok {
			continue
		}
		stat := stats[item.Genre]
		stat.Total++
		if r.Liked {
			stat.Likes++
		}
		stats[item.Genre] = stat
	}
	return stats
}
