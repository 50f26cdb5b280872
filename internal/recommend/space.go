package recommend

import (
	"fmt"

	"github.com/musiq-plus/backend/internal/apperr"
	"github.com/musiq-plus/backend/internal/catalog"
)

// VectorSpace holds the fitted vectorizer and one vector per catalog item,
// indexed by catalog row order. Built once per process; immutable afterward.
type VectorSpace struct {
	vectorizer *TFIDFVectorizer
	items      []catalog.Item
	vectors    [][]float64
	rowByID    map[int]int
}

// BuildSpace fits a TF-IDF vectorizer on the catalog's feature texts and
// vectorizes every item in row order.
func BuildSpace(cat *catalog.Store) (*VectorSpace, error) {
	items := cat.Items()
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: cannot fit vectorizer on an empty catalog", apperr.ErrConfiguration)
	}

	texts := make([]string, len(items))
	for i, item := range items {
		texts[i] = item.FeatureText()
	}

	vectorizer := NewTFIDFVectorizer()
	vectorizer.Fit(texts)

	vs := &VectorSpace{
		vectorizer: vectorizer,
		items:      items,
		vectors:    make([][]float64, len(items)),
		rowByID:    make(map[int]int, len(items)),
	}
	for i, item := range items {
		vs.vectors[i] = vectorizer.Transform(texts[i])
		vs.rowByID[item.ID] = i
	}
	return vs, nil
}

// Dim returns the vector space dimensionality.
func (vs *VectorSpace) Dim() int {
	return vs.vectorizer.Dim()
}

// ItemVector returns the vector for an item id.
func (vs *VectorSpace) ItemVector(itemID int) ([]float64, bool) {
	row, ok := vs.rowByID[itemID]
	if !ok {
		return nil, false
	}
	return vs.vectors[row], true
}

// Profile averages the vectors of the given liked items into a single
// dense profile vector of the same dimensionality.
func (vs *VectorSpace) Profile(likedItemIDs []int) ([]float64, error) {
	if len(likedItemIDs) == 0 {
		return nil, fmt.Errorf("%w: user has no liked items to build a profile from", apperr.ErrInsufficientData)
	}

	var rows []int
	seen := make(map[int]bool)
	for _, id := range likedItemIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		if row, ok := vs.rowByID[id]; ok {
			rows = append(rows, row)
		}
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: liked items no longer exist in the catalog", apperr.ErrInsufficientData)
	}

	profile := make([]float64, vs.Dim())
	for _, row := range rows {
		for i, val := range vs.vectors[row] {
			profile[i] += val
		}
	}
	n := float64(len(rows))
	for i := range profile {
		profile[i] /= n
	}
	return profile, nil
}
