package engine

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/musiq-plus/backend/internal/apperr"
	"github.com/musiq-plus/backend/internal/catalog"
	"github.com/musiq-plus/backend/internal/config"
	"github.com/musiq-plus/backend/internal/evaluate"
	"github.com/musiq-plus/backend/internal/rating"
	"github.com/musiq-plus/backend/internal/recommend"
)

// Engine orchestrates the recommender components. It owns the lazily built
// vector space; everything else is constructed up front.
type Engine struct {
	Config  *config.Config
	Logger  *logrus.Entry
	Catalog *catalog.Store
	Ratings *rating.Store
	Oracle  *evaluate.Oracle

	spaceOnce sync.Once
	space     *recommend.VectorSpace
	spaceErr  error
}

// RatedItem is a rating joined with item metadata for the analysis view
type RatedItem struct {
	rating.Rating
	Name   string `json:"name"`
	Genre  string `json:"genre"`
	Artist string `json:"artist"`
}

// Analysis is the full per-user report
type Analysis struct {
	User                    rating.User                   `json:"user"`
	TotalRatings            int                           `json:"total_ratings"`
	TotalRecommenderRatings int                           `json:"total_recommender_ratings"`
	Genres                  map[string]evaluate.GenreStat `json:"genres"`
	Metrics                 evaluate.Metrics              `json:"metrics"`
	Ratings                 []RatedItem                   `json:"ratings"`
}

func NewEngine(cfg *config.Config, logger *logrus.Entry, cat *catalog.Store, ratings *rating.Store, oracle *evaluate.Oracle) *Engine {
	return &Engine{
		Config:  cfg,
		Logger:  logger,
		Catalog: cat,
		Ratings: ratings,
		Oracle:  oracle,
	}
}

// Space returns the fitted vector space, building it on first use. The
// sync.Once guard guarantees a single space per process even under
// concurrent first requests.
func (e *Engine) Space() (*recommend.VectorSpace, error) {
	e.spaceOnce.Do(func() {
		e.space, e.spaceErr = recommend.BuildSpace(e.Catalog)
		if e.spaceErr == nil {
			e.Logger.WithFields(logrus.Fields{
				"items": e.Catalog.Len(),
				"terms": e.space.Dim(),
			}).Info("Fitted TF-IDF vector space")
		}
	})
	return e.space, e.spaceErr
}

// SearchItems filters the catalog by free text and/or genre.
func (e *Engine) SearchItems(query, genre string) []catalog.Item {
	return e.Catalog.Search(query, genre)
}

// Users lists registered users.
func (e *Engine) Users() []rating.User {
	return e.Ratings.Users()
}

// CreateUser registers a new user.
func (e *Engine) CreateUser(name string) (rating.User, error) {
	user, err := e.Ratings.CreateUser(name)
	if err != nil {
		return rating.User{}, err
	}
	e.Logger.WithFields(logrus.Fields{"user_id": user.ID, "name": user.Name}).Info("Created user")
	return user, nil
}

// SubmitRating records a rating for a known user.
func (e *Engine) SubmitRating(userID, itemID int, liked bool, origin rating.Origin) error {
	if !e.Ratings.HasUser(userID) {
		return fmt.Errorf("%w: user %d", apperr.ErrNotFound, userID)
	}
	return e.Ratings.Record(userID, itemID, liked, origin)
}

// Recommend builds the user's profile and ranks the catalog against it.
// Already-liked items never appear in the result.
func (e *Engine) Recommend(userID, topK int, genre string) ([]recommend.Recommendation, error) {
	if !e.Ratings.HasUser(userID) {
		return nil, fmt.Errorf("%w: user %d", apperr.ErrNotFound, userID)
	}
	space, err := e.Space()
	if err != nil {
		return nil, err
	}

	likedIDs := e.Ratings.LikedItemIDs(userID)
	profile, err := space.Profile(likedIDs)
	if err != nil {
		return nil, err
	}

	exclude := make(map[int]bool, len(likedIDs))
	for _, id := range likedIDs {
		exclude[id] = true
	}
	if topK == 0 {
		topK = e.Config.Recommender.DefaultTopK
	}
	return space.Rank(profile, exclude, genre, topK, e.Config.Recommender.RankWorkers), nil
}

// Metrics evaluates the user's recommender-origin ratings against the
// ground-truth relevance set.
func (e *Engine) Metrics(userID int) (evaluate.Metrics, error) {
	if !e.Ratings.HasUser(userID) {
		return evaluate.Metrics{}, fmt.Errorf("%w: user %d", apperr.ErrNotFound, userID)
	}
	relevant := e.Oracle.RelevantSet(evaluate.DefaultThreshold)
	return evaluate.ComputeMetrics(e.Ratings.Ratings(userID), relevant), nil
}

// Analyze combines genre stats, metrics and rating counts for one user.
func (e *Engine) Analyze(userID int) (Analysis, error) {
	if !e.Ratings.HasUser(userID) {
		return Analysis{}, fmt.Errorf("%w: user %d", apperr.ErrNotFound, userID)
	}

	ratings := e.Ratings.Ratings(userID)
	recommenderCount := 0
	rated := make([]RatedItem, 0, len(ratings))
	for _, r := range ratings {
		if r.Origin == rating.OriginRecommender {
			recommenderCount++
		}
		ri := RatedItem{Rating: r}
		if item, ok := e.Catalog.ByID(r.ItemID); ok {
			ri.Name = item.Name
			ri.Genre = item.Genre
			ri.Artist = item.Artist
		}
		rated = append(rated, ri)
	}

	metrics, err := e.Metrics(userID)
	if err != nil {
		return Analysis{}, err
	}

	return Analysis{
		User:                    rating.User{ID: userID, Name: e.Ratings.UserName(userID)},
		TotalRatings:            len(ratings),
		TotalRecommenderRatings: recommenderCount,
		Genres:                  evaluate.GenreStats(ratings, e.Catalog),
		Metrics:                 metrics,
		Ratings:                 rated,
	}, nil
}
