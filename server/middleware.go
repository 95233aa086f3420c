package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/hazyhaar/xpick/idgen"
	"github.com/hazyhaar/xpick/kit"
)

// securityHeaders are set on every API response.
var securityHeaders = map[string]string{
	"X-Content-Type-Options":  "nosniff",
	"X-Frame-Options":         "DENY",
	"Referrer-Policy":         "no-referrer",
	"Content-Security-Policy": "default-src 'none'; frame-ancestors 'none'",
}

// SecurityHeaders sets the API security headers.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for k, v := range securityHeaders {
			w.Header().Set(k, v)
		}
		next.ServeHTTP(w, r)
	})
}

// RequestLog stamps each request with an ID (the caller's X-Request-ID
// when present, otherwise one from gen), echoes it in the response and
// logs the request once it completes.
func RequestLog(logger *slog.Logger, gen idgen.Generator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get("X-Request-ID")
			if id == "" {
				id = gen()
			}
			w.Header().Set("X-Request-ID", id)
			ctx := kit.WithRequestID(r.Context(), id)

			start := time.Now()
			next.ServeHTTP(w, r.WithContext(ctx))
			logger.Info("server: request",
				"request_id", id,
				"method", r.Method,
				"path", r.URL.Path,
				"remote_addr", r.RemoteAddr,
				"duration", time.Since(start))
		})
	}
}
