package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"

	"github.com/musiq-plus/backend/internal/apperr"
	"github.com/musiq-plus/backend/internal/catalog"
	"github.com/musiq-plus/backend/internal/engine"
	"github.com/musiq-plus/backend/internal/rating"
)

type Server struct {
	Engine   *engine.Engine
	Logger   *logrus.Entry
	Router   chi.Router
	imageDir string
	started  time.Time
}

func NewServer(eng *engine.Engine, logger *logrus.Entry) *Server {
	s := &Server{
		Engine:   eng,
		Logger:   logger,
		Router:   chi.NewRouter(),
		imageDir: eng.Config.Data.ImageDir,
		started:  time.Now(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.Router.Use(middleware.RequestID)
	s.Router.Use(middleware.Recoverer)
	if s.Engine.Config.Server.EnableCORS {
		s.Router.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"*"},
		}))
	}

	s.Router.Route("/api/v1", func(r chi.Router) {
		r.Get("/items", s.handleListItems)
		r.Get("/users", s.handleListUsers)
		r.Post("/users", s.handleCreateUser)
		r.Post("/ratings", s.handleSubmitRating)
		r.Post("/recommendations", s.handleRecommend)
		r.Get("/metrics/{userID}", s.handleMetrics)
		r.Get("/analysis/{userID}", s.handleAnalysis)
		r.Get("/status", s.handleStatus)
	})

	// Cover art
	fileServer := http.FileServer(http.Dir(s.imageDir))
	s.Router.Handle("/static/*", http.StripPrefix("/static/", fileServer))
}

func (s *Server) Start(port string) error {
	s.Logger.Infof("Starting API Server on %s", port)
	return http.ListenAndServe(port, s.Router)
}

// Responses

type ErrorResponse struct {
	Error string `json:"error"`
}

type ItemView struct {
	catalog.Item
	CoverURL   string   `json:"cover_url"`
	Similarity *float64 `json:"similarity,omitempty"`
}

type StatusResponse struct {
	Items  int    `json:"items"`
	Users  int    `json:"users"`
	Uptime string `json:"uptime"`
}

// Requests

type CreateUserRequest struct {
	Name string `json:"name"`
}

type RatingRequest struct {
	UserID int    `json:"user_id"`
	ItemID int    `json:"item_id"`
	Liked  bool   `json:"liked"`
	Origin string `json:"origin"`
}

type RecommendationRequest struct {
	UserID int    `json:"user_id"`
	TopK   int    `json:"top_k"`
	Genre  string `json:"genre"`
}

// Handlers

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	genre := r.URL.Query().Get("genre")

	items := s.Engine.SearchItems(query, genre)
	views := make([]ItemView, len(items))
	for i, item := range items {
		views[i] = ItemView{Item: item, CoverURL: s.coverURL(item.ID)}
	}
	jsonResponse(w, http.StatusOK, views)
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, s.Engine.Users())
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonResponse(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid JSON"})
		return
	}

	user, err := s.Engine.CreateUser(req.Name)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	jsonResponse(w, http.StatusCreated, user)
}

func (s *Server) handleSubmitRating(w http.ResponseWriter, r *http.Request) {
	var req RatingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonResponse(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid JSON"})
		return
	}

	origin, err := rating.ParseOrigin(req.Origin)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	if err := s.Engine.SubmitRating(req.UserID, req.ItemID, req.Liked, origin); err != nil {
		s.errorResponse(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var req RecommendationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonResponse(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid JSON"})
		return
	}

	recs, err := s.Engine.Recommend(req.UserID, req.TopK, req.Genre)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	views := make([]ItemView, len(recs))
	for i, rec := range recs {
		sim := rec.Similarity
		views[i] = ItemView{Item: rec.Item, CoverURL: s.coverURL(rec.Item.ID), Similarity: &sim}
	}
	jsonResponse(w, http.StatusOK, views)
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.Atoi(chi.URLParam(r, "userID"))
	if err != nil {
		jsonResponse(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid user id"})
		return
	}

	metrics, err := s.Engine.Metrics(userID)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, metrics)
}

func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.Atoi(chi.URLParam(r, "userID"))
	if err != nil {
		jsonResponse(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid user id"})
		return
	}

	analysis, err := s.Engine.Analyze(userID)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, analysis)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, StatusResponse{
		Items:  s.Engine.Catalog.Len(),
		Users:  len(s.Engine.Users()),
		Uptime: time.Since(s.started).String(),
	})
}

// coverURL resolves an item's cover art: {id}.jpg, then {id}.png, then the
// shared placeholder, else empty.
func (s *Server) coverURL(itemID int) string {
	id := strconv.Itoa(itemID)
	for _, name := range []string{id + ".jpg", id + ".png", "placeholder.jpg"} {
		if _, err := os.Stat(filepath.Join(s.imageDir, name)); err == nil {
			return "/static/" + name
		}
	}
	return ""
}

func (s *Server) errorResponse(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		jsonResponse(w, http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperr.ErrValidation), errors.Is(err, apperr.ErrInsufficientData):
		jsonResponse(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	default:
		s.Logger.WithError(err).Error("Request failed")
		jsonResponse(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}
}

func jsonResponse(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
