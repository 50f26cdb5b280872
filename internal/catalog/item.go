package catalog

import "strings"

// Item represents a single catalog entry (a song)
type Item struct {
	ID              int    `json:"item_id"`
	Name            string `json:"name"`
	Artist          string `json:"artist"`
	Genre           string `json:"genre"`
	Tempo           string `json:"tempo"`
	Instrumentation string `json:"instrumentation"`
	Keyword         string `json:"keyword"`
	Mood            string `json:"mood"`
	DurationSeconds int    `json:"duration_seconds"`
	Language        string `json:"language"`
	Tags            string `json:"tags"`
	Description     string `json:"description"`
	YouTubeURL      string `json:"youtube_url,omitempty"`
}

// FeatureText concatenates the textual fields used for vectorization.
// Field order is fixed: genre, tags, keyword, mood, instrumentation,
// language, description.
func (it Item) FeatureText() string {
	parts := []string{
		it.Genre,
		it.Tags,
		it.Keyword,
		it.Mood,
		it.Instrumentation,
		it.Language,
		it.Description,
	}
	var nonEmpty []string
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, " ")
}
