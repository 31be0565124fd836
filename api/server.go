package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/docutag/articlegen"
	"github.com/docutag/articlegen/apperrors"
	"github.com/docutag/articlegen/db"
	"github.com/docutag/articlegen/models"
	"github.com/docutag/articlegen/storage"
	"github.com/docutag/articlegen/validation"
)

// maxBodyBytes caps request bodies; templates and body blocks arrive inline.
const maxBodyBytes = 10 << 20

// RunStore persists run history
type RunStore interface {
	SaveRun(ctx context.Context, run *models.Run) error
	GetRun(ctx context.Context, id string) (*models.Run, error)
	ListRuns(ctx context.Context, limit, offset int) ([]*models.Run, error)
	Count(ctx context.Context) (int, error)
	DeleteRun(ctx context.Context, id string) error
}

// Server represents the API server
type Server struct {
	generator      *articlegen.Generator
	runs           RunStore
	sink           storage.Sink
	validator      *validation.Validator
	logger         *slog.Logger
	metricsHandler http.Handler
	archiveName    string
	addr           string
	server         *http.Server
	mux            *http.ServeMux
	corsEnabled    bool
}

// Config contains server configuration
type Config struct {
	Addr        string
	ArchiveName string // Download name for ?format=zip
	CORSEnabled bool
}

// DefaultConfig returns default server configuration
func DefaultConfig() Config {
	return Config{
		Addr:        ":8080",
		ArchiveName: storage.DefaultArchiveName,
		CORSEnabled: true,
	}
}

// Option configures a Server
type Option func(*Server)

// WithRunStore enables run history under /api/runs
func WithRunStore(runs RunStore) Option {
	return func(s *Server) { s.runs = runs }
}

// WithSink stores generated documents when a request asks for it with ?save=true
func WithSink(sink storage.Sink) Option {
	return func(s *Server) { s.sink = sink }
}

// WithLogger sets the request logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetricsHandler replaces the default Prometheus handler served on /metrics
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		if h != nil {
			s.metricsHandler = h
		}
	}
}

// NewServer creates a new API server around generator
func NewServer(config Config, generator *articlegen.Generator, opts ...Option) *Server {
	s := &Server{
		generator:      generator,
		validator:      validation.New(),
		logger:         slog.Default(),
		metricsHandler: promhttp.Handler(),
		archiveName:    storage.ArchiveName(config.ArchiveName),
		addr:           config.Addr,
		mux:            http.NewServeMux(),
		corsEnabled:    config.CORSEnabled,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Register routes
	s.registerRoutes()

	// Create HTTP server
	s.server = &http.Server{
		Addr:         config.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	return s
}

// registerRoutes sets up all API routes
func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.Handle("/metrics", s.metricsHandler)
	s.mux.HandleFunc("/api/anchors", s.handleAnchors)
	s.mux.HandleFunc("/api/links", s.handleLinks)
	s.mux.HandleFunc("/api/images", s.handleImages)
	s.mux.HandleFunc("/api/generate", s.handleGenerate)
	s.mux.HandleFunc("/api/preview", s.handlePreview)
	s.mux.HandleFunc("/api/runs", s.handleListRuns)
	s.mux.HandleFunc("/api/runs/", s.handleRun) // Handles /api/runs/{id}
}

// Handler returns the fully wrapped HTTP handler
func (s *Server) Handler() http.Handler {
	return otelhttp.NewHandler(s.middleware(s.mux), "articlegen",
		otelhttp.WithFilter(func(r *http.Request) bool {
			return r.URL.Path != "/health" && r.URL.Path != "/metrics"
		}))
}

// Start starts the API server
func (s *Server) Start() error {
	s.logger.Info("starting API server", "addr", s.addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down API server")
	return s.server.Shutdown(ctx)
}

// middleware applies common middleware to all routes
func (s *Server) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// CORS headers
		if s.corsEnabled {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}
		}

		// Logging (skip health checks to reduce noise)
		start := time.Now()
		next.ServeHTTP(w, r)

		if r.URL.Path != "/health" {
			s.logger.Info("request completed",
				"method", r.Method,
				"path", r.URL.Path,
				"duration", time.Since(start))
		}
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	body := map[string]any{
		"status": "healthy",
		"time":   time.Now(),
	}
	if s.runs != nil {
		count, err := s.runs.Count(r.Context())
		if err != nil {
			respondError(w, http.StatusInternalServerError, "failed to get count")
			return
		}
		body["runs"] = count
	}

	respondJSON(w, http.StatusOK, body)
}

// decode reads a JSON body into v and validates its struct tags
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return false
	}

	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return false
	}

	if err := s.validator.Validate(v); err != nil {
		s.respondAppError(w, err)
		return false
	}
	return true
}

// handleAnchors builds anchors for a list of titles
func (s *Server) handleAnchors(w http.ResponseWriter, r *http.Request) {
	var req models.AnchorsRequest
	if !s.decode(w, r, &req) {
		return
	}

	opts := articlegen.AnchorOptions{
		BaseURL:       req.BaseURL,
		Suffix:        req.Suffix,
		SlugLimit:     req.SlugLimit,
		SlugTolerance: req.SlugTolerance,
	}

	build := s.generator.MakeAnchors
	if req.Global {
		build = s.generator.MakeGlobalAnchors
	}

	anchors, err := build(r.Context(), req.Titles, opts)
	if err != nil {
		s.respondAppError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, models.AnchorsResponse{
		Anchors: anchors,
		Links:   articlegen.Links(anchors),
	})
}

// handleLinks extracts href values from anchor markup lines
func (s *Server) handleLinks(w http.ResponseWriter, r *http.Request) {
	var req models.LinksRequest
	if !s.decode(w, r, &req) {
		return
	}

	links := articlegen.ExtractLinks(req.Anchors)
	if links == nil {
		links = []string{}
	}
	respondJSON(w, http.StatusOK, models.LinksResponse{Links: links})
}

// handleImages returns a numbered image link series
func (s *Server) handleImages(w http.ResponseWriter, r *http.Request) {
	var req models.ImagesRequest
	if !s.decode(w, r, &req) {
		return
	}

	links, err := articlegen.ImageLinks(req.Domain, req.BaseName, req.Ext, req.Count)
	if err != nil {
		s.respondAppError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, models.LinksResponse{Links: links})
}

// GenerateResponse is a batch result plus the paths it was stored under
type GenerateResponse struct {
	*models.BatchResult
	Stored []string `json:"stored,omitempty"`
}

// handleGenerate renders a batch.
// ?format=zip streams the documents as an archive; ?save=true stores them.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateRequest
	if !s.decode(w, r, &req) {
		return
	}

	ctx := r.Context()
	result, err := s.generator.Generate(ctx, req)
	s.recordRun(ctx, req, result, err)
	if err != nil {
		s.respondAppError(w, err)
		return
	}

	resp := GenerateResponse{BatchResult: result}
	if save, _ := strconv.ParseBool(r.URL.Query().Get("save")); save {
		if s.sink == nil {
			respondError(w, http.StatusBadRequest, "document storage is not configured")
			return
		}
		resp.Stored, err = storage.SaveAll(ctx, s.sink, result.RunID, result.Documents)
		if err != nil {
			s.logger.Error("failed to store documents", "run_id", result.RunID, "error", err)
			respondError(w, http.StatusInternalServerError, "failed to store documents")
			return
		}
	}

	if r.URL.Query().Get("format") == "zip" {
		w.Header().Set("Content-Type", "application/zip")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", s.archiveName))
		w.Header().Set("X-Run-ID", result.RunID)
		w.WriteHeader(http.StatusOK)
		if err := storage.WriteArchive(w, result.Documents); err != nil {
			s.logger.Error("failed to stream archive", "run_id", result.RunID, "error", err)
		}
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

// handlePreview renders a batch and returns its first document as HTML
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateRequest
	if !s.decode(w, r, &req) {
		return
	}

	doc, err := s.generator.Preview(r.Context(), req)
	if err != nil {
		s.respondAppError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-Filename", doc.Filename)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(doc.Content))
}

// recordRun stores a run summary when run history is enabled
func (s *Server) recordRun(ctx context.Context, req models.GenerateRequest, result *models.BatchResult, genErr error) {
	if s.runs == nil {
		return
	}

	var run *models.Run
	switch {
	case genErr == nil:
		run = db.RunFromResult(result, models.RunStatusOK)
		if len(result.FailedRows()) > 0 {
			run.Status = models.RunStatusIntegrityFailed
		}
	case result != nil:
		run = db.RunFromResult(result, models.RunStatusIntegrityFailed)
	default:
		strict := s.generator.Config().Strict
		if req.Strict != nil {
			strict = *req.Strict
		}
		run = &models.Run{
			ID:        uuid.New().String(),
			Strict:    strict,
			Status:    models.RunStatusRejected,
			CreatedAt: time.Now().UTC(),
		}
	}

	if err := s.runs.SaveRun(ctx, run); err != nil {
		s.logger.Error("failed to save run", "run_id", run.ID, "error", err)
	}
}

// handleListRuns lists stored runs, newest first
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.runs == nil {
		respondError(w, http.StatusNotFound, "run history is not enabled")
		return
	}

	// Parse pagination parameters
	limit := 20
	offset := 0
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	if o := r.URL.Query().Get("offset"); o != "" {
		if n, err := strconv.Atoi(o); err == nil && n >= 0 {
			offset = n
		}
	}

	runs, err := s.runs.ListRuns(r.Context(), limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "database error")
		return
	}
	total, err := s.runs.Count(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "database error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"runs":   runs,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

// handleRun handles GET and DELETE on /api/runs/{id}
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	if s.runs == nil {
		respondError(w, http.StatusNotFound, "run history is not enabled")
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/runs/")
	if id == "" || strings.Contains(id, "/") {
		respondError(w, http.StatusBadRequest, "id is required")
		return
	}

	switch r.Method {
	case http.MethodGet:
		run, err := s.runs.GetRun(r.Context(), id)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "database error")
			return
		}
		if run == nil {
			respondError(w, http.StatusNotFound, "run not found")
			return
		}
		respondJSON(w, http.StatusOK, run)
	case http.MethodDelete:
		if err := s.runs.DeleteRun(r.Context(), id); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				respondError(w, http.StatusNotFound, "run not found")
				return
			}
			respondError(w, http.StatusInternalServerError, "failed to delete run")
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{
			"message": "run deleted successfully",
		})
	default:
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// respondAppError maps a pipeline error to its status and coded body
func (s *Server) respondAppError(w http.ResponseWriter, err error) {
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) {
		s.logger.Error("unexpected error", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	respondJSON(w, appErr.HTTPStatus(), models.ErrorResponse{
		Code:    string(appErr.Code),
		Message: appErr.Message,
		Details: appErr.Details,
	})
}
