package evaluate

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/musiq-plus/backend/internal/apperr"
)

// DefaultThreshold is the minimum mean liked-ratio for an item to count
// as globally relevant. Metrics always evaluate at this threshold.
const DefaultThreshold = 0.6

// GroundTruthRating is one fixed benchmark judgment. Its user-id space is
// disjoint from the live rating store and never mutated by the system.
type GroundTruthRating struct {
	UserID int
	ItemID int
	Liked  bool
}

// Oracle derives global item relevance from the ground-truth table
type Oracle struct {
	ratings []GroundTruthRating
}

// LoadOracle reads the ground-truth table once; it is immutable afterward.
func LoadOracle(path string) (*Oracle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: ground-truth table %s: %v", apperr.ErrConfiguration, path, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", apperr.ErrConfiguration, path, err)
	}

	o := &Oracle{}
	for i, rec := range records {
		if i == 0 || len(rec) < 3 {
			continue // header
		}
		userID, err := strconv.Atoi(strings.TrimSpace(rec[0]))
		if err != nil {
			return nil, fmt.Errorf("%w: bad user_id %q in %s", apperr.ErrConfiguration, rec[0], path)
		}
		itemID, err := strconv.Atoi(strings.TrimSpace(rec[1]))
		if err != nil {
			return nil, fmt.Errorf("%w: bad item_id %q in %s", apperr.ErrConfiguration, rec[1], path)
		}
		o.ratings = append(o.ratings, GroundTruthRating{
			UserID: userID,
			ItemID: itemID,
			Liked:  strings.TrimSpace(rec[2]) == "1",
		})
	}
	return o, nil
}

// NewOracle builds an oracle from in-memory judgments.
func NewOracle(ratings []GroundTruthRating) *Oracle {
	return &Oracle{ratings: ratings}
}

// RelevantSet returns the ids of items whose mean liked value across all
// ground-truth ratings is at least threshold. Empty data yields an empty set.
func (o *Oracle) RelevantSet(threshold float64) map[int]bool {
	likes := make(map[int]int)
	totals := make(map[int]int)
	for _, r := range o.ratings {
		totals[r.ItemID]++
		if r.Liked {
			likes[r.ItemID]++
		}
	}

	relevant := make(map[int]bool)
	for itemID, total := range totals {
		if float64(likes[itemID])/float64(total) >= threshold {
			relevant[itemID] = true
		}
	}
	return relevant
}
