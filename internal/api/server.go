// Package api exposes the scanner over a small REST surface. The server is
// a thin wrapper: request validation and serialization live here, all scan
// semantics live in internal/scanner.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/huyng-sec/cyberhealth/internal/api/middleware"
	"github.com/huyng-sec/cyberhealth/internal/qr"
	"github.com/huyng-sec/cyberhealth/internal/scanner"
)

const serviceName = "Cyber Health Check API"

// ScanService runs a scan for one domain.
type ScanService interface {
	Scan(ctx context.Context, domain string, kinds []scanner.Kind) (*scanner.ScanResult, error)
}

// RenderFunc renders a scan result into PDF bytes.
type RenderFunc func(result *scanner.ScanResult) ([]byte, error)

// ScanRequest is the POST /api/scan body.
type ScanRequest struct {
	Domain string   `json:"domain"`
	Scans  []string `json:"scans,omitempty"`
}

// QRRequest is the POST /api/qr/analyze body. Content is the decoded QR
// payload; image decoding is the client's responsibility.
type QRRequest struct {
	Content string `json:"content"`
}

// Config wires the server's collaborators.
type Config struct {
	Scanner     ScanService
	RenderPDF   RenderFunc
	Logger      *zap.Logger
	CORSOrigins []string // allowed CORS origins (empty = allow all)
}

// Server is the HTTP API front for the scanner.
type Server struct {
	cfg Config
	mux *http.ServeMux
}

// NewServer builds the server and registers its routes.
func NewServer(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	srv := &Server{
		cfg: cfg,
		mux: http.NewServeMux(),
	}
	srv.routes()
	return srv
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Middleware chain: RequestID -> Logging -> CORS -> Handler
	handler := middleware.RequestID(s.withLogging(s.withCORS(s.mux)))
	handler.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/api/health", s.handleHealth)
	s.mux.HandleFunc("/api/scan", s.handleScan)
	s.mux.HandleFunc("/api/report", s.handleReport)
	s.mux.HandleFunc("/api/qr/analyze", s.handleQR)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"service":   serviceName,
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.methodNotAllowed(w, r)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1048576) // 1MB limit
	var req ScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}

	kinds, err := scanner.ParseKinds(req.Scans)
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}

	result, err := s.cfg.Scanner.Scan(r.Context(), req.Domain, kinds)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, scanner.ErrEmptyDomain) || errors.Is(err, scanner.ErrUnknownKind) {
			status = http.StatusBadRequest
		}
		s.writeError(w, r, status, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.methodNotAllowed(w, r)
		return
	}
	if s.cfg.RenderPDF == nil {
		s.writeError(w, r, http.StatusNotFound, errors.New("report rendering not available"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1048576)
	var result scanner.ScanResult
	if err := json.NewDecoder(r.Body).Decode(&result); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	if result.Domain == "" || result.Timestamp.IsZero() {
		s.writeError(w, r, http.StatusBadRequest, errors.New("missing domain or timestamp"))
		return
	}

	pdfBytes, err := s.cfg.RenderPDF(&result)
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}

	filename := strings.ReplaceAll(result.Domain, ".", "_") + "_security_report.pdf"
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdfBytes); err != nil {
		s.cfg.Logger.Error("failed to write report response", zap.Error(err))
	}
}

func (s *Server) handleQR(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.methodNotAllowed(w, r)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1048576)
	var req QRRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		s.writeError(w, r, http.StatusBadRequest, errors.New("content is required"))
		return
	}

	writeJSON(w, http.StatusOK, qr.Analyze(req.Content))
}

func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		allowOrigin := "*"
		if len(s.cfg.CORSOrigins) > 0 {
			allowOrigin = ""
			for _, allowed := range s.cfg.CORSOrigins {
				if allowed == origin {
					allowOrigin = origin
					break
				}
			}
		}

		if allowOrigin != "" {
			w.Header().Set("Access-Control-Allow-Origin", allowOrigin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
			w.Header().Set("Access-Control-Max-Age", "3600")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(lrw, r)

		s.cfg.Logger.Info("http_request",
			zap.String("request_id", middleware.GetRequestID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("remote_addr", r.RemoteAddr),
			zap.Int("status", lrw.statusCode),
			zap.Duration("duration", time.Since(start)),
			zap.Int64("bytes", lrw.bytesWritten),
		)
	})
}

// loggingResponseWriter wraps http.ResponseWriter to capture status code and
// bytes written.
type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int64
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Write(b []byte) (int, error) {
	n, err := lrw.ResponseWriter.Write(b)
	lrw.bytesWritten += int64(n)
	return n, err
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	msg := err.Error()

	// 5xx details are logged server-side, not leaked to the caller.
	if status >= 500 {
		s.requestLogger(r).Error("internal_server_error",
			zap.Error(err),
			zap.Int("status", status),
		)
		msg = "internal server error"
	}

	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) requestLogger(r *http.Request) *zap.Logger {
	return s.cfg.Logger.With(
		zap.String("request_id", middleware.GetRequestID(r.Context())),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	)
}

func (s *Server) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	s.writeError(w, r, http.StatusMethodNotAllowed, errors.New("method not allowed"))
}
