package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/musiq-plus/backend/internal/api"
	"github.com/musiq-plus/backend/internal/catalog"
	"github.com/musiq-plus/backend/internal/config"
	"github.com/musiq-plus/backend/internal/engine"
	"github.com/musiq-plus/backend/internal/evaluate"
	"github.com/musiq-plus/backend/internal/rating"
)

func newTestServer(t *testing.T) *api.Server {
	t.Helper()

	cat := catalog.New([]catalog.Item{
		{ID: 1, Name: "A", Artist: "X", Genre: "Rock", Tags: "guitar riff distortion"},
		{ID: 2, Name: "B", Artist: "Y", Genre: "Jazz", Tags: "saxophone swing improvisation"},
		{ID: 3, Name: "C", Artist: "Z", Genre: "Rock", Tags: "guitar solo distortion"},
	})

	ratings, err := rating.Open(filepath.Join(t.TempDir(), "ratings.csv"))
	require.NoError(t, err)

	oracle := evaluate.NewOracle([]evaluate.GroundTruthRating{
		{UserID: 1, ItemID: 1, Liked: true},
		{UserID: 2, ItemID: 1, Liked: true},
	})

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	entry := logger.WithField("service", "test")

	cfg := config.Load()
	cfg.Data.ImageDir = t.TempDir()

	eng := engine.NewEngine(cfg, entry, cat, ratings, oracle)
	return api.NewServer(eng, entry)
}

func doJSON(t *testing.T, srv *api.Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Router.ServeHTTP(rec, req)
	return rec
}

func TestListItems(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/v1/items", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var items []api.ItemView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	assert.Len(t, items, 3)

	rec = doJSON(t, srv, http.MethodGet, "/api/v1/items?genre=jazz", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "B", items[0].Name)
}

func TestCreateAndListUsers(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/users", api.CreateUserRequest{Name: "Alice"})
	require.Equal(t, http.StatusCreated, rec.Code)

	var user rating.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	assert.Equal(t, 1, user.ID)

	rec = doJSON(t, srv, http.MethodGet, "/api/v1/users", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var users []rating.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &users))
	assert.Len(t, users, 1)
}

func TestCreateUserBlankName(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/users", api.CreateUserRequest{Name: "  "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitRatingAndRecommend(t *testing.T) {
	srv := newTestServer(t)

	doJSON(t, srv, http.MethodPost, "/api/v1/users", api.CreateUserRequest{Name: "Alice"})

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/ratings", api.RatingRequest{
		UserID: 1, ItemID: 1, Liked: true, Origin: "seed",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, srv, http.MethodPost, "/api/v1/recommendations", api.RecommendationRequest{UserID: 1})
	require.Equal(t, http.StatusOK, rec.Code)

	var recs []api.ItemView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &recs))
	require.Len(t, recs, 2)
	for _, r := range recs {
		assert.NotEqual(t, 1, r.ID, "liked item must not be recommended")
		require.NotNil(t, r.Similarity)
	}
}

func TestRecommendUnknownUser(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/recommendations", api.RecommendationRequest{UserID: 42})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRecommendWithoutLikes(t *testing.T) {
	srv := newTestServer(t)

	doJSON(t, srv, http.MethodPost, "/api/v1/users", api.CreateUserRequest{Name: "Alice"})

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/recommendations", api.RecommendationRequest{UserID: 1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitRatingUnknownOrigin(t *testing.T) {
	srv := newTestServer(t)

	doJSON(t, srv, http.MethodPost, "/api/v1/users", api.CreateUserRequest{Name: "Alice"})

	rec := doJSON(t, srv, http.MethodPost, "/api/v1/ratings", api.RatingRequest{
		UserID: 1, ItemID: 1, Liked: true, Origin: "browsing",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t)

	doJSON(t, srv, http.MethodPost, "/api/v1/users", api.CreateUserRequest{Name: "Alice"})
	doJSON(t, srv, http.MethodPost, "/api/v1/ratings", api.RatingRequest{
		UserID: 1, ItemID: 1, Liked: true, Origin: "recommender",
	})

	rec := doJSON(t, srv, http.MethodGet, "/api/v1/metrics/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var m evaluate.Metrics
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	assert.Equal(t, 1, m.Hits)
	assert.InDelta(t, 1.0, m.Precision, 1e-9)

	rec = doJSON(t, srv, http.MethodGet, "/api/v1/metrics/42", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, srv, http.MethodGet, "/api/v1/metrics/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalysisEndpoint(t *testing.T) {
	srv := newTestServer(t)

	doJSON(t, srv, http.MethodPost, "/api/v1/users", api.CreateUserRequest{Name: "Alice"})
	doJSON(t, srv, http.MethodPost, "/api/v1/ratings", api.RatingRequest{
		UserID: 1, ItemID: 1, Liked: true, Origin: "recommender",
	})

	rec := doJSON(t, srv, http.MethodGet, "/api/v1/analysis/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var analysis engine.Analysis
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &analysis))
	assert.Equal(t, 1, analysis.TotalRatings)
	assert.Equal(t, 1, analysis.TotalRecommenderRatings)

	rec = doJSON(t, srv, http.MethodGet, "/api/v1/analysis/42", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStatusEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/v1/status", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var status api.StatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, 3, status.Items)
}
