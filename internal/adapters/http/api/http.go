// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"unicode/utf8"

	"github.com/okian/enrichdash/internal/domain/catalog"
	"github.com/okian/enrichdash/internal/domain/ingest"
	"github.com/okian/enrichdash/pkg/logger"
)

// Default request limits, overridable with options.
const (
	defaultMaxBodyBytes   = 1 << 20
	defaultMaxUploadBytes = 10 << 20
)

// Catalog serves the fixed dashboard payloads.
type Catalog interface {
	Hello(ctx context.Context) catalog.Greeting
	Dashboard(ctx context.Context) catalog.Dashboard
	Enrichments(ctx context.Context) []catalog.Enrichment
	Contacts(ctx context.Context) []catalog.Contact
	Campaigns(ctx context.Context) []catalog.Campaign
	Settings(ctx context.Context) catalog.Settings
	History(ctx context.Context) []catalog.HistoryEntry
}

// Ingestor parses uploaded lead files.
type Ingestor interface {
	Ingest(ctx context.Context, filename string, data []byte) ([]ingest.Row, error)
}

// Automator acknowledges automation start requests and returns the status.
type Automator interface {
	StartAutomation(ctx context.Context, rows int) string
}

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	Catalog
	Ingestor
	Automator
}

// Server wires HTTP routes for the business API.
type Server struct {
	logger         logger.Logger
	cors           CORSOptions
	maxBodyBytes   int64
	maxUploadBytes int64

	healthHandler     *HealthHandler
	catalogHandler    *CatalogHandler
	echoHandler       *EchoHandler
	uploadHandler     *UploadHandler
	automationHandler *AutomationHandler
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithLogger sets the access and error logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMaxBodyBytes caps JSON request bodies.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBodyBytes = n
		}
	}
}

// WithMaxUploadBytes caps multipart uploads.
func WithMaxUploadBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxUploadBytes = n
		}
	}
}

// WithCORS replaces the CORS policy.
func WithCORS(opts CORSOptions) Option {
	return func(s *Server) {
		s.cors = opts
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{
		logger:         logger.Discard(),
		cors:           PermissiveCORS(),
		maxBodyBytes:   defaultMaxBodyBytes,
		maxUploadBytes: defaultMaxUploadBytes,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.healthHandler = NewHealthHandler()
	s.catalogHandler = NewCatalogHandler(deps)
	s.echoHandler = NewEchoHandler(s.maxBodyBytes)
	s.uploadHandler = NewUploadHandler(deps, s.maxUploadBytes)
	s.automationHandler = NewAutomationHandler(deps, s.maxBodyBytes)
	return s
}

// Register attaches all HTTP routes to mux. Wrong methods on known paths
// get 405 from the mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc("GET /healthz", s.healthHandler.HandleHealth)
	mux.HandleFunc("GET /metrics", s.healthHandler.HandleMetrics)

	mux.HandleFunc("GET /api/hello", MetricsMiddleware(s.catalogHandler.HandleHello, "hello"))
	mux.HandleFunc("POST /api/echo", MetricsMiddleware(s.echoHandler.HandleEcho, "echo"))
	mux.HandleFunc("GET /api/dashboard", MetricsMiddleware(s.catalogHandler.HandleDashboard, "dashboard"))
	mux.HandleFunc("GET /api/enrichments", MetricsMiddleware(s.catalogHandler.HandleEnrichments, "enrichments"))
	mux.HandleFunc("GET /api/contacts", MetricsMiddleware(s.catalogHandler.HandleContacts, "contacts"))
	mux.HandleFunc("GET /api/campaigns", MetricsMiddleware(s.catalogHandler.HandleCampaigns, "campaigns"))
	mux.HandleFunc("GET /api/settings", MetricsMiddleware(s.catalogHandler.HandleSettings, "settings"))
	mux.HandleFunc("GET /api/history", MetricsMiddleware(s.catalogHandler.HandleHistory, "history"))
	mux.HandleFunc("POST /api/upload-csv", MetricsMiddleware(s.uploadHandler.HandleUpload, "upload_csv"))
	mux.HandleFunc("POST /api/automation/start", MetricsMiddleware(s.automationHandler.HandleStart, "automation_start"))
}

// Handler wraps next with the cross-cutting middleware: CORS outermost so
// preflights never reach the mux, then request ids and access logging.
func (s *Server) Handler(next http.Handler) http.Handler {
	return Chain(next,
		CORS(s.cors),
		RequestID,
		AccessLog(s.logger.Named("http")),
	)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status, code := classify(err)
	msg := http.StatusText(status)
	if err != nil && status < http.StatusInternalServerError {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// readBody reads at most limit bytes of the request body.
func readBody(w http.ResponseWriter, r *http.Request, op string, limit int64) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, NewKind(op, ErrInvalidInput, fmt.Sprintf("request body exceeds %d bytes", limit))
		}
		return nil, WrapKind(op, ErrInvalidInput, err)
	}
	return body, nil
}

// decodeObject validates that body is exactly one UTF-8 JSON object and
// returns it untouched.
func decodeObject(op string, body []byte) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(body)
	switch {
	case len(trimmed) == 0:
		return nil, NewKind(op, ErrInvalidInput, "request body must be a JSON object")
	case !utf8.Valid(trimmed):
		return nil, NewKind(op, ErrInvalidInput, "request body is not valid UTF-8")
	case !json.Valid(trimmed):
		return nil, NewKind(op, ErrInvalidInput, "request body is not valid JSON")
	case trimmed[0] != '{':
		return nil, NewKind(op, ErrInvalidInput, "request body must be a JSON object")
	}
	return json.RawMessage(trimmed), nil
}
