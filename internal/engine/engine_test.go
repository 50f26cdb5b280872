package engine_test

import (
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/musiq-plus/backend/internal/apperr"
	"github.com/musiq-plus/backend/internal/catalog"
	"github.com/musiq-plus/backend/internal/config"
	"github.com/musiq-plus/backend/internal/engine"
	"github.com/musiq-plus/backend/internal/evaluate"
	"github.com/musiq-plus/backend/internal/rating"
)

func newTestEngine(t *testing.T) *engine.Engine {
	t.Helper()

	cat := catalog.New([]catalog.Item{
		{ID: 1, Name: "A", Genre: "Rock", Tags: "guitar riff distortion"},
		{ID: 2, Name: "B", Genre: "Jazz", Tags: "saxophone swing improvisation"},
		{ID: 3, Name: "C", Genre: "Rock", Tags: "guitar solo distortion"},
	})

	ratings, err := rating.Open(filepath.Join(t.TempDir(), "ratings.csv"))
	require.NoError(t, err)

	oracle := evaluate.NewOracle([]evaluate.GroundTruthRating{
		{UserID: 1, ItemID: 1, Liked: true},
		{UserID: 2, ItemID: 1, Liked: true},
		{UserID: 1, ItemID: 2, Liked: false},
		{UserID: 2, ItemID: 2, Liked: false},
		{UserID: 1, ItemID: 3, Liked: true},
		{UserID: 2, ItemID: 3, Liked: false},
	})

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	entry := logger.WithField("service", "test")

	cfg := config.Load()
	cfg.Recommender.DefaultTopK = 10
	cfg.Recommender.RankWorkers = 2

	return engine.NewEngine(cfg, entry, cat, ratings, oracle)
}

func TestRecommendExcludesLikedItems(t *testing.T) {
	eng := newTestEngine(t)

	user, err := eng.CreateUser("Alice")
	require.NoError(t, err)
	require.NoError(t, eng.SubmitRating(user.ID, 1, true, rating.OriginSeed))

	recs, err := eng.Recommend(user.ID, 0, "")
	require.NoError(t, err)
	require.Len(t, recs, 2)
	for _, rec := range recs {
		assert.NotEqual(t, 1, rec.Item.ID)
	}

	// Item 3 shares vocabulary with the liked item, item 2 does not
	assert.Equal(t, 3, recs[0].Item.ID)
	assert.Greater(t, recs[0].Similarity, recs[1].Similarity)
}

func TestRecommendUnknownUser(t *testing.T) {
	eng := newTestEngine(t)

	_, err := eng.Recommend(42, 0, "")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestRecommendUserWithoutLikes(t *testing.T) {
	eng := newTestEngine(t)

	user, err := eng.CreateUser("Alice")
	require.NoError(t, err)

	_, err = eng.Recommend(user.ID, 0, "")
	assert.ErrorIs(t, err, apperr.ErrInsufficientData)
}

func TestRecommendGenreFilter(t *testing.T) {
	eng := newTestEngine(t)

	user, err := eng.CreateUser("Alice")
	require.NoError(t, err)
	require.NoError(t, eng.SubmitRating(user.ID, 1, true, rating.OriginSeed))

	recs, err := eng.Recommend(user.ID, 0, "rock")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, 3, recs[0].Item.ID)
}

func TestSubmitRatingUnknownUser(t *testing.T) {
	eng := newTestEngine(t)

	err := eng.SubmitRating(42, 1, true, rating.OriginSeed)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestSpaceBuiltOnce(t *testing.T) {
	eng := newTestEngine(t)

	first, err := eng.Space()
	require.NoError(t, err)
	second, err := eng.Space()
	require.NoError(t, err)
	assert.Same(t, first, second, "vector space must be fitted exactly once per process")
}

func TestMetricsFlow(t *testing.T) {
	eng := newTestEngine(t)

	user, err := eng.CreateUser("Alice")
	require.NoError(t, err)

	// Item 1 is globally relevant (mean 1.0); items 2 and 3 are not.
	require.NoError(t, eng.SubmitRating(user.ID, 1, true, rating.OriginRecommender))
	require.NoError(t, eng.SubmitRating(user.ID, 2, true, rating.OriginSeed))

	m, err := eng.Metrics(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, m.Hits)
	assert.Equal(t, 1, m.RecommendedCount)
	assert.Equal(t, 1, m.RelevantCount)
	assert.InDelta(t, 1.0, m.Precision, 1e-9)
	assert.InDelta(t, 1.0, m.Recall, 1e-9)
}

func TestMetricsUnknownUser(t *testing.T) {
	eng := newTestEngine(t)

	_, err := eng.Metrics(42)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestAnalyze(t *testing.T) {
	eng := newTestEngine(t)

	user, err := eng.CreateUser("Alice")
	require.NoError(t, err)
	require.NoError(t, eng.SubmitRating(user.ID, 1, true, rating.OriginRecommender))
	require.NoError(t, eng.SubmitRating(user.ID, 2, false, rating.OriginSeed))

	analysis, err := eng.Analyze(user.ID)
	require.NoError(t, err)

	assert.Equal(t, user.ID, analysis.User.ID)
	assert.Equal(t, "Alice", analysis.User.Name)
	assert.Equal(t, 2, analysis.TotalRatings)
	assert.Equal(t, 1, analysis.TotalRecommenderRatings)
	assert.Equal(t, evaluate.GenreStat{Likes: 1, Total: 1}, analysis.Genres["Rock"])
	assert.Equal(t, evaluate.GenreStat{Likes: 0, Total: 1}, analysis.Genres["Jazz"])
	require.Len(t, analysis.Ratings, 2)
	assert.Equal(t, "A", analysis.Ratings[0].Name)
}

func TestAnalyzeUnknownUser(t *testing.T) {
	eng := newTestEngine(t)

	_, err := eng.Analyze(42)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
