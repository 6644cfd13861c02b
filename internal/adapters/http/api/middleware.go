package api

import (
	"context"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/okian/enrichdash/pkg/logger"
	"github.com/okian/enrichdash/pkg/metrics"
)

// Header names.
const (
	headerRequestID = "X-Request-ID"
	headerOrigin    = "Origin"
	headerVary      = "Vary"

	headerAllowOrigin      = "Access-Control-Allow-Origin"
	headerAllowCredentials = "Access-Control-Allow-Credentials"
	headerAllowMethods     = "Access-Control-Allow-Methods"
	headerAllowHeaders     = "Access-Control-Allow-Headers"
	headerExposeHeaders    = "Access-Control-Expose-Headers"
	headerMaxAge           = "Access-Control-Max-Age"
	headerRequestMethod    = "Access-Control-Request-Method"
	headerRequestHeaders   = "Access-Control-Request-Headers"
)

const maxRequestIDLen = 128

// allMethods is advertised on preflight when every method is allowed.
const allMethods = "DELETE, GET, HEAD, OPTIONS, PATCH, POST, PUT"

// Middleware decorates an http.Handler.
type Middleware func(http.Handler) http.Handler

// Chain applies mws so that the first one is the outermost.
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// MetricsMiddleware wraps HTTP handlers to record Prometheus metrics.
func MetricsMiddleware(next http.HandlerFunc, endpoint string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		metrics.IncInFlight()
		defer metrics.DecInFlight()

		wrapped := wrapResponseWriter(w)
		next.ServeHTTP(wrapped, r)

		durationMs := float64(time.Since(start).Microseconds()) / 1000
		statusCode := strconv.Itoa(wrapped.statusCode)
		metrics.RecordHTTPRequest(endpoint, r.Method, statusCode, durationMs)

		if wrapped.statusCode >= http.StatusBadRequest {
			errorType := getErrorType(wrapped.statusCode)
			metrics.RecordErrorByEndpoint(endpoint, r.Method, errorType)
			metrics.RecordErrorByType(errorType, getErrorSeverity(wrapped.statusCode))
		}
	}
}

// getErrorType returns a standardized error type based on HTTP status code.
func getErrorType(statusCode int) string {
	switch {
	case statusCode >= http.StatusInternalServerError:
		return "server_error"
	case statusCode == http.StatusMethodNotAllowed:
		return "method_not_allowed"
	case statusCode == http.StatusNotFound:
		return "not_found"
	case statusCode >= http.StatusBadRequest:
		return "client_error"
	default:
		return "unknown"
	}
}

// getErrorSeverity returns error severity based on HTTP status code.
func getErrorSeverity(statusCode int) string {
	switch {
	case statusCode >= http.StatusInternalServerError:
		return "high"
	case statusCode >= http.StatusBadRequest:
		return "medium"
	default:
		return "low"
	}
}

type requestIDKey struct{}

// RequestID propagates a client supplied X-Request-ID or assigns a UUID.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(headerRequestID))
		if id == "" || len(id) > maxRequestIDLen {
			id = uuid.NewString()
		}
		w.Header().Set(headerRequestID, id)
		ctx := context.WithValue(r.Context(), requestIDKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestIDFromContext returns the id assigned by RequestID, or "".
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// AccessLog logs one line per request. Client errors log at warn, server
// errors at error.
func AccessLog(l logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := wrapResponseWriter(w)
			next.ServeHTTP(wrapped, r)

			ctx := r.Context()
			fields := []logger.Field{
				logger.String("method", r.Method),
				logger.String("path", r.URL.Path),
				logger.Int("status", wrapped.statusCode),
				logger.Int64("bytes", wrapped.written),
				logger.Float64("duration_ms", float64(time.Since(start).Microseconds())/1000),
				logger.String("request_id", RequestIDFromContext(ctx)),
			}
			switch {
			case wrapped.statusCode >= http.StatusInternalServerError:
				l.Error(ctx, "request failed", fields...)
			case wrapped.statusCode >= http.StatusBadRequest:
				l.Warn(ctx, "request rejected", fields...)
			default:
				l.Info(ctx, "request served", fields...)
			}
		})
	}
}

// CORSOptions configures the CORS middleware.
type CORSOptions struct {
	// AllowOrigins lists permitted origins; "*" permits any.
	AllowOrigins []string
	// AllowCredentials sets Access-Control-Allow-Credentials: true.
	AllowCredentials bool
	// MaxAge is advertised on preflight responses.
	MaxAge time.Duration
}

// PermissiveCORS allows every origin, method and header, with credentials.
// Not suitable for production deployments.
func PermissiveCORS() CORSOptions {
	return CORSOptions{
		AllowOrigins:     []string{"*"},
		AllowCredentials: true,
		MaxAge:           10 * time.Minute,
	}
}

// CORS applies opts. Any method and any requested header are allowed. When
// every origin is allowed together with credentials, the request origin is
// echoed back because browsers refuse "*" on credentialed requests.
func CORS(opts CORSOptions) Middleware {
	allowAll := slices.Contains(opts.AllowOrigins, "*")
	maxAge := strconv.Itoa(int(opts.MaxAge.Seconds()))

	allowOrigin := func(h http.Header, origin string) {
		if allowAll && !opts.AllowCredentials {
			h.Set(headerAllowOrigin, "*")
		} else {
			h.Set(headerAllowOrigin, origin)
			h.Add(headerVary, headerOrigin)
		}
		if opts.AllowCredentials {
			h.Set(headerAllowCredentials, "true")
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get(headerOrigin)
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}
			allowed := allowAll || slices.Contains(opts.AllowOrigins, origin)
			preflight := r.Method == http.MethodOptions && r.Header.Get(headerRequestMethod) != ""

			if preflight {
				if !allowed {
					http.Error(w, "Disallowed CORS origin", http.StatusBadRequest)
					return
				}
				h := w.Header()
				allowOrigin(h, origin)
				h.Set(headerAllowMethods, allMethods)
				if reqHeaders := r.Header.Get(headerRequestHeaders); reqHeaders != "" {
					h.Set(headerAllowHeaders, reqHeaders)
				}
				h.Set(headerMaxAge, maxAge)
				w.WriteHeader(http.StatusOK)
				return
			}

			if allowed {
				allowOrigin(w.Header(), origin)
				w.Header().Set(headerExposeHeaders, headerRequestID)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture status code and size.
type responseWriter struct {
	http.ResponseWriter
	statusCode  int
	written     int64
	wroteHeader bool
}

func wrapResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.statusCode = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	n, err := rw.ResponseWriter.Write(b)
	rw.written += int64(n)
	return n, err
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}
