package middleware

import (
	"net/http"
	"strconv"
	"time"

	"slackproxy/metrics"
)

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.ResponseWriter.Write(b)
}

// Metrics records request counts and latencies per route.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		path := normalizePath(r.URL.Path)
		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

var knownPaths = map[string]bool{
	"/health":                 true,
	"/metrics":                true,
	"/slack/commands":         true,
	"/slack/interactions":     true,
	"/slack/events":           true,
	"/slack/install":          true,
	"/slack/oauth_redirect":   true,
	"/g2s/relation-test":      true,
	"/g2s/supported-commands": true,
}

// normalizePath collapses unknown paths into one label.
func normalizePath(path string) string {
	if knownPaths[path] {
		return path
	}
	return "other"
}
