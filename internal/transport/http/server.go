package http

import (
	"log/slog"
	"net/http"
)

// NewServer создает роутер API с middleware для идентификаторов запросов, логирования и CORS.
// metrics отдается по /metrics, если не nil.
func NewServer(log *slog.Logger, h *Handler, metrics http.Handler) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/report", h.getReport)
	mux.HandleFunc("GET /api/articles", h.getArticles)
	mux.HandleFunc("GET /api/terms", h.getTerms)
	mux.HandleFunc("GET /api/health", h.healthCheck)
	if metrics != nil {
		mux.Handle("GET /metrics", metrics)
	}
	var handler http.Handler = mux
	handler = loggingMiddleware(log)(handler)
	handler = requestIDMiddleware()(handler)
	handler = corsMiddleware()(handler)
	return handler
}
