// Package api provides the HTTP front end: run the pipeline for a
// symbol, list and download its artifacts, and stream progress events
// over WebSocket.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/kpraghav/scripdesk/internal/collect"
	"github.com/kpraghav/scripdesk/internal/config"
	"github.com/kpraghav/scripdesk/pkg/utils"
)

// Server is the HTTP API server.
type Server struct {
	router    chi.Router
	cfg       *config.Config
	runner    *collect.Runner
	outputDir string
	wsHub     *WSHub
	log       *zap.Logger
}

// NewServer creates a configured API server with all routes and
// middleware.
func NewServer(cfg *config.Config, runner *collect.Runner, log *zap.Logger) *Server {
	srv := &Server{
		cfg:       cfg,
		runner:    runner,
		outputDir: cfg.Output.Dir,
		wsHub:     NewWSHub(),
		log:       log,
	}
	srv.router = srv.buildRouter()
	return srv
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// ListenAndServe starts the HTTP server with graceful shutdown.
func (s *Server) ListenAndServe(addr string) error {
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go s.wsHub.Run()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-done
	s.log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return httpSrv.Shutdown(ctx)
}

// buildRouter configures all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(300 * time.Second))

	origins := []string{"*"}
	if len(s.cfg.API.CORSOrigins) > 0 {
		origins = s.cfg.API.CORSOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/api/health", s.handleHealth)
	r.Post("/api/analyze", s.handleAnalyze)
	r.Get("/api/artifacts/{symbol}", s.handleArtifacts)
	r.Get("/api/artifacts/{symbol}/archive", s.handleArchive)
	r.Get("/ws", s.handleWebSocket)

	return r
}

// APIResponse is the standard JSON envelope.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// AnalyzeRequest is the body for POST /api/analyze.
type AnalyzeRequest struct {
	Symbol string `json:"symbol"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"status":        "ok",
			"market_status": utils.MarketStatus(),
			"time_ist":      utils.NowIST().Format("2006-01-02 15:04:05"),
		},
	})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	symbol, err := utils.ValidateSymbol(req.Symbol)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Minute)
	defer cancel()

	s.wsHub.Broadcast(WSMessage{
		Type: "analysis_started",
		Data: map[string]string{"symbol": symbol},
	})

	res, err := s.runner.Run(ctx, symbol)
	if err != nil {
		s.wsHub.Broadcast(WSMessage{
			Type: "analysis_failed",
			Data: map[string]string{"symbol": symbol, "error": err.Error()},
		})
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.wsHub.Broadcast(WSMessage{
		Type: "analysis_complete",
		Data: map[string]string{
			"symbol": symbol,
			"report": res.ReportPath,
			"series": res.SeriesPath,
		},
	})

	writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: res})
}

func (s *Server) handleArtifacts(w http.ResponseWriter, r *http.Request) {
	symbol, err := utils.ValidateSymbol(chi.URLParam(r, "symbol"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	files, err := collect.ListArtifacts(s.outputDir, symbol)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"symbol": symbol,
			"files":  files,
		},
	})
}

func (s *Server) handleArchive(w http.ResponseWriter, r *http.Request) {
	symbol, err := utils.ValidateSymbol(chi.URLParam(r, "symbol"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	files, err := collect.ListArtifacts(s.outputDir, symbol)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if len(files) == 0 {
		writeError(w, http.StatusNotFound, fmt.Sprintf("no artifacts for %s", symbol))
		return
	}

	zipPath := filepath.Join(os.TempDir(), symbol+"_artifacts.zip")
	if err := collect.ZipInto(zipPath, files); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	defer os.Remove(zipPath)

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="%s_artifacts.zip"`, symbol))
	http.ServeFile(w, r, zipPath)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, APIResponse{Success: false, Error: msg})
}
