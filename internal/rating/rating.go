package rating

import (
	"fmt"

	"github.com/musiq-plus/backend/internal/apperr"
)

// Origin tags where a rating was made
type Origin string

const (
	// OriginSeed marks ratings made while browsing the catalog
	OriginSeed Origin = "seed"
	// OriginRecommender marks ratings made on recommended items;
	// only these count toward quality metrics
	OriginRecommender Origin = "recommender"
	// OriginOther marks everything else
	OriginOther Origin = "other"
)

// ParseOrigin validates an origin string, defaulting blank to OriginOther.
func ParseOrigin(s string) (Origin, error) {
	switch Origin(s) {
	case OriginSeed, OriginRecommender, OriginOther:
		return Origin(s), nil
	case "":
		return OriginOther, nil
	}
	return "", fmt.Errorf("%w: unknown origin %q", apperr.ErrValidation, s)
}

// Rating is a single (user, item) fact. At most one exists per pair.
type Rating struct {
	UserID int    `json:"user_id"`
	ItemID int    `json:"item_id"`
	Liked  bool   `json:"liked"`
	Origin Origin `json:"origin"`
}

// User is a registered account
type User struct {
	ID   int    `json:"user_id"`
	Name string `json:"name"`
}
