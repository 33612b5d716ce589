// cmd/blog-generator/server.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"blog-generator/internal/blog/index"
	"blog-generator/internal/common/logger"

	"github.com/aws/aws-lambda-go/events"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	maxBodyBytes  = 1 << 20
	defaultRecent = 20
	maxRecent     = 100
)

type proxyHandler interface {
	Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)
}

type recentLister interface {
	Recent(ctx context.Context, n int) ([]index.Entry, error)
}

// newRouter exposes the Lambda handler over HTTP. recent may be nil.
func newRouter(h proxyHandler, recent recentLister, log logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Post("/generate", handleGenerate(h, log))
	r.Get("/health", handleHealth)
	r.Handle("/metrics", promhttp.Handler())
	if recent != nil {
		r.Get("/recent", handleRecent(recent, log))
	}
	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

// handleGenerate forwards the request as an API Gateway proxy event and
// writes the proxy response back unchanged.
func handleGenerate(h proxyHandler, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			log.Warn("request body too large", map[string]interface{}{"limit": tooLarge.Limit})
			writeJSON(w, http.StatusRequestEntityTooLarge, "Invalid request: Request body too large")
			return
		}
		if err != nil {
			log.Warn("failed to read request body", map[string]interface{}{"error": err.Error()})
			writeJSON(w, http.StatusBadRequest, "Invalid request: Malformed request body")
			return
		}

		headers := make(map[string]string, len(r.Header))
		for k := range r.Header {
			headers[k] = r.Header.Get(k)
		}

		resp, err := h.Handle(r.Context(), events.APIGatewayProxyRequest{
			HTTPMethod: r.Method,
			Path:       r.URL.Path,
			Headers:    headers,
			Body:       string(body),
			RequestContext: events.APIGatewayProxyRequestContext{
				RequestID: middleware.GetReqID(r.Context()),
			},
		})
		if err != nil {
			log.Error("handler returned an error", map[string]interface{}{"error": err.Error()})
			writeJSON(w, http.StatusInternalServerError, "Internal server error.")
			return
		}

		for k, v := range resp.Headers {
			w.Header().Set(k, v)
		}
		w.WriteHeader(resp.StatusCode)
		_, _ = io.WriteString(w, resp.Body)
	}
}

func handleRecent(recent recentLister, log logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n := defaultRecent
		if raw := r.URL.Query().Get("n"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 0 {
				writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "n must be a non-negative integer"})
				return
			}
			n = min(parsed, maxRecent)
		}

		entries, err := recent.Recent(r.Context(), n)
		if err != nil {
			log.Error("failed to read artifact index", map[string]interface{}{"error": err.Error()})
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"detail": "artifact index unavailable"})
			return
		}
		writeJSON(w, http.StatusOK, entries)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
