// Package http exposes the store over a local JSON API: record and category
// CRUD, the derived balance views, JSON backup and PDF report download.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	applog "github.com/zhangshanggaoqing-glitch/stone-record/internal/log"
	"github.com/zhangshanggaoqing-glitch/stone-record/internal/report"
	"github.com/zhangshanggaoqing-glitch/stone-record/internal/store"
)

// DocumentRenderer turns a shaped report document into PDF bytes. The pdf
// exporter implements it; the server runs without one when no font source
// is configured.
type DocumentRenderer interface {
	Render(ctx context.Context, doc report.Document) ([]byte, error)
}

type Server struct {
	http.Server
	store    *store.Store
	renderer DocumentRenderer
	limiter  *rateLimiter
	logger   *applog.Logger
}

func NewServer(addr string, st *store.Store, renderer DocumentRenderer, logger *applog.Logger) *Server {
	if logger == nil {
		logger = applog.New(applog.ComponentHTTP, nil)
	}
	s := &Server{
		store:    st,
		renderer: renderer,
		limiter:  newRateLimiter(0),
		logger:   logger.WithComponent(applog.ComponentHTTP),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)

	mux.HandleFunc("GET /api/records", s.handleListRecords)
	mux.HandleFunc("POST /api/records", s.handleAddRecord)
	mux.HandleFunc("DELETE /api/records/{id}", s.handleRemoveRecord)

	mux.HandleFunc("GET /api/balance", s.handleBalance)
	mux.HandleFunc("GET /api/trend", s.handleTrend)
	mux.HandleFunc("GET /api/report", s.handleReport)
	mux.HandleFunc("GET /api/report/pdf", s.handleReportPDF)

	mux.HandleFunc("GET /api/categories", s.handleListCategories)
	mux.HandleFunc("POST /api/categories", s.handleAddCategory)
	mux.HandleFunc("DELETE /api/categories/{id}", s.handleRemoveCategory)
	mux.HandleFunc("GET /api/icons", s.handleIcons)

	mux.HandleFunc("GET /api/limit", s.handleGetLimit)
	mux.HandleFunc("PUT /api/limit", s.handleSetLimit)

	mux.HandleFunc("GET /api/backup", s.handleExport)
	mux.HandleFunc("POST /api/backup", s.handleImport)
	mux.HandleFunc("POST /api/reset", s.handleReset)

	s.Server = http.Server{
		Addr:    addr,
		Handler: s.limiter.middleware(s.withRequestLogging(mux)),
	}
	return s
}

// statusRecorder captures the response code for the request log.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) withRequestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := newRequestID()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		level := slog.LevelInfo
		if rec.status >= 500 {
			level = slog.LevelError
		} else if rec.status >= 400 {
			level = slog.LevelWarn
		}
		s.logger.Log(r.Context(), level, "Request handled",
			applog.FieldRequestID, requestID,
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path,
			applog.FieldStatusCode, rec.status,
			applog.FieldDuration, time.Since(start).Milliseconds())
	})
}

// newRequestID tags each request log line so concurrent requests can be
// told apart.
func newRequestID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(b)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Shutdown drains in-flight requests and stops the rate limiter.
func (s *Server) ShutdownGracefully(ctx context.Context, timeout time.Duration) {
	shutdownCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := s.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown error", "error", err)
	}
	s.limiter.Stop()
}
