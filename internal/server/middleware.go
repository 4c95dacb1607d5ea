package server

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/turtlyscope/turtlyscope/pkg/buildinfo"
	tserrors "github.com/turtlyscope/turtlyscope/pkg/errors"
	"github.com/turtlyscope/turtlyscope/pkg/observability"
)

const (
	headerRequestID = "X-Request-ID"
	headerCache     = "X-Cache"
	headerPartial   = "X-Layout-Partial"
)

// Inline styles and scripts are allowed so that a browser can open the
// SVG and JSON responses directly.
const contentSecurityPolicy = "default-src 'self' data: blob:; img-src 'self' data: blob:; " +
	"style-src 'self' 'unsafe-inline'; script-src 'self' 'unsafe-inline';"

// requestID accepts a client X-Request-ID or assigns a UUID, stores it
// where chi's GetReqID finds it and echoes it in the response.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(headerRequestID)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		w.Header().Set(headerRequestID, id)
		ctx := context.WithValue(r.Context(), chimiddleware.RequestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Content-Security-Policy", contentSecurityPolicy)
		h.Set("Server", buildinfo.UserAgent())
		next.ServeHTTP(w, r)
	})
}

// compressedTypes are gzip-compressed when the client accepts it. PNG and
// PDF are already compressed.
var compressedTypes = []string{
	"application/json",
	"image/svg+xml",
	"text/vnd.graphviz",
	"text/turtle",
	"text/plain",
}

// trustedHosts rejects requests whose Host header matches none of the
// allowed patterns. A pattern is an exact host, "*.domain" for any
// subdomain, or "*" for any host. Ports are ignored.
func trustedHosts(allowed []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !hostAllowed(r.Host, allowed) {
				writeError(w, r, tserrors.New(tserrors.ErrCodeInvalidInput, "invalid host header"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func hostAllowed(host string, allowed []string) bool {
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	for _, pattern := range allowed {
		pattern = strings.ToLower(pattern)
		switch {
		case pattern == "*":
			return true
		case strings.HasPrefix(pattern, "*."):
			if strings.HasSuffix(host, pattern[1:]) {
				return true
			}
		case host == strings.Trim(pattern, "[]"):
			return true
		}
	}
	return false
}

// requestLogger logs one line per request.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		logf := s.logger.Info
		if status >= http.StatusInternalServerError {
			logf = s.logger.Error
		}
		logf("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", chimiddleware.GetReqID(r.Context()),
			"remote", r.RemoteAddr)
	})
}

// observe reports requests to the registered HTTP hooks, labeled by the
// matched route pattern rather than the raw path.
func observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks.OnResponse(r.Context(), r.Method, route, status, time.Since(start))
	})
}
