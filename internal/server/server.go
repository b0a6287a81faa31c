// internal/server/server.go

// Package server exposes the query pipeline over HTTP. The surface is small:
// one query endpoint, the supported-language list, health probes, and the
// Prometheus metrics handler.
package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"agri-intelligence/internal/common/config"
	"agri-intelligence/internal/common/logger"
	"agri-intelligence/internal/common/validation"
	"agri-intelligence/internal/language"
	"agri-intelligence/internal/models"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const maxRequestBody = 64 << 10

// QueryProcessor is the pipeline contract the server depends on.
type QueryProcessor interface {
	ProcessQuery(ctx context.Context, query string, farmer *models.FarmerContext) models.QueryResponse
}

// Server handles the HTTP boundary of the query service.
type Server struct {
	pipeline QueryProcessor
	cfg      *config.Config
	logger   logger.Logger
}

func New(pipeline QueryProcessor, cfg *config.Config, log logger.Logger) *Server {
	return &Server{pipeline: pipeline, cfg: cfg, logger: log}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/query", s.handleQuery)
	mux.HandleFunc("/api/v1/languages", s.handleLanguages)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/ready", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

// ListenAndServe runs the server until the listener fails or the context is
// cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	address := ":8080"
	readTimeout := 10 * time.Second
	writeTimeout := 30 * time.Second
	if s.cfg != nil {
		if s.cfg.Server.Address != "" {
			address = s.cfg.Server.Address
		}
		if s.cfg.Server.ReadTimeout > 0 {
			readTimeout = time.Duration(s.cfg.Server.ReadTimeout) * time.Millisecond
		}
		if s.cfg.Server.WriteTimeout > 0 {
			writeTimeout = time.Duration(s.cfg.Server.WriteTimeout) * time.Millisecond
		}
	}

	httpServer := &http.Server{
		Addr:         address,
		Handler:      s.Handler(),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	s.logger.Info("http server listening", map[string]interface{}{"address": address})
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// ==========================
// Handlers
// ==========================

type queryRequest struct {
	Query         string                `json:"query"`
	FarmerContext *models.FarmerContext `json:"farmer_context,omitempty"`
}

type errorResponse struct {
	Success bool     `json:"success"`
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "failed to read request body"})
		return
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}

	result, err := validation.ValidateQueryRequest(payload)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "request validation error"})
		return
	}
	if !result.Valid {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:   "request validation failed",
			Details: result.GetErrorMessages(),
		})
		return
	}

	var request queryRequest
	if err := json.Unmarshal(body, &request); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request structure"})
		return
	}

	response := s.pipeline.ProcessQuery(r.Context(), request.Query, request.FarmerContext)
	writeJSON(w, http.StatusOK, response)
}

func (s *Server) handleLanguages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"languages": language.SupportedLanguages(),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
