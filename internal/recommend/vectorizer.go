package recommend

import (
	"math"
)

// TFIDFVectorizer implements Term Frequency - Inverse Document Frequency
// over a vocabulary learned from a fixed corpus.
type TFIDFVectorizer struct {
	Vocabulary map[string]int
	IDF        map[string]float64
}

func NewTFIDFVectorizer() *TFIDFVectorizer {
	return &TFIDFVectorizer{
		Vocabulary: make(map[string]int),
		IDF:        make(map[string]float64),
	}
}

// Fit analyzes the corpus to build vocabulary and IDF stats. It must be
// called exactly once; Transform output is only comparable across texts
// transformed by the same fitted instance.
func (v *TFIDFVectorizer) Fit(docs []string) {
	docCount := float64(len(docs))
	wordDocCounts := make(map[string]int)

	// 1. Build vocabulary and count document occurrences
	for _, doc := range docs {
		tokens := Tokenize(doc)
		seenInDoc := make(map[string]bool)
		for _, token := range tokens {
			if !seenInDoc[token] {
				wordDocCounts[token]++
				seenInDoc[token] = true
			}
			if _, exists := v.Vocabulary[token]; !exists {
				v.Vocabulary[token] = len(v.Vocabulary)
			}
		}
	}

	// 2. Calculate IDF
	for word, count := range wordDocCounts {
		// idf = log(N / (df + 1)) + 1
		v.IDF[word] = math.Log(docCount/(float64(count)+1)) + 1
	}
}

// Transform converts text to a dense vector over the learned vocabulary
func (v *TFIDFVectorizer) Transform(text string) []float64 {
	vector := make([]float64, len(v.Vocabulary))
	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return vector
	}

	// Term frequency
	tf := make(map[string]float64)
	for _, token := range tokens {
		tf[token]++
	}

	// tf * idf
	for token, count := range tf {
		if idx, exists := v.Vocabulary[token]; exists {
			vector[idx] = (count / float64(len(tokens))) * v.IDF[token]
		}
	}

	return vector
}

// Dim returns the dimensionality of the fitted vector space.
func (v *TFIDFVectorizer) Dim() int {
	return len(v.Vocabulary)
}
