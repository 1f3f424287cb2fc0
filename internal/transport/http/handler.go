package http

import (
	"context"
	"coverage/internal/analysis"
	"coverage/internal/domain"
	"coverage/internal/textstat"
	"coverage/internal/usecase"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
)

const (
	defaultArticlesLimit = 100
	defaultTermsLimit    = 30
)

type datasetReader interface {
	Report(ctx context.Context) (*analysis.Report, error)
	Articles(ctx context.Context, limit int) ([]domain.Record, error)
	Terms(ctx context.Context, k, year int, months []int) ([]textstat.TermCount, error)
}

type Handler struct {
	log     *slog.Logger
	dataset datasetReader
}

func NewHandler(log *slog.Logger, dataset datasetReader) *Handler {
	return &Handler{
		log:     log,
		dataset: dataset,
	}
}

// getReport - хендлер для эндпоинта GET /api/report
func (h *Handler) getReport(w http.ResponseWriter, r *http.Request) {
	log := h.requestLogger(r, "transport.http/getReport")
	rep, err := h.dataset.Report(r.Context())
	if err != nil {
		h.respondWithDatasetError(w, log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, rep)
}

// getArticles - хендлер для эндпоинта GET /api/articles?limit=
func (h *Handler) getArticles(w http.ResponseWriter, r *http.Request) {
	log := h.requestLogger(r, "transport.http/getArticles")
	limit, ok := positiveParam(r, "limit", defaultArticlesLimit)
	if !ok {
		log.Warn("invalid limit parameter", slog.String("limit", r.URL.Query().Get("limit")))
		respondWithError(w, http.StatusBadRequest, "Invalid 'limit' parameter")
		return
	}
	records, err := h.dataset.Articles(r.Context(), limit)
	if err != nil {
		h.respondWithDatasetError(w, log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, records)
}

// getTerms - хендлер для эндпоинта GET /api/terms?k=&year=&months=
func (h *Handler) getTerms(w http.ResponseWriter, r *http.Request) {
	log := h.requestLogger(r, "transport.http/getTerms")
	k, ok := positiveParam(r, "k", defaultTermsLimit)
	if !ok {
		log.Warn("invalid k parameter", slog.String("k", r.URL.Query().Get("k")))
		respondWithError(w, http.StatusBadRequest, "Invalid 'k' parameter")
		return
	}
	year, ok := positiveParam(r, "year", 0)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid 'year' parameter")
		return
	}
	months, err := parseMonths(r.URL.Query().Get("months"))
	if err != nil || (len(months) > 0 && year == 0) {
		respondWithError(w, http.StatusBadRequest, "Invalid 'months' parameter")
		return
	}
	terms, err := h.dataset.Terms(r.Context(), k, year, months)
	if err != nil {
		h.respondWithDatasetError(w, log, err)
		return
	}
	respondWithJSON(w, http.StatusOK, terms)
}

// healthCheck - хендлер для проверки состояния сервиса
func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	if _, err := h.dataset.Report(r.Context()); errors.Is(err, usecase.ErrNotReady) {
		status = "loading"
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"status": status})
}

func (h *Handler) requestLogger(r *http.Request, op string) *slog.Logger {
	return h.log.With(
		slog.String("op", op),
		slog.String("request_id", getRequestID(r.Context())),
	)
}

func (h *Handler) respondWithDatasetError(w http.ResponseWriter, log *slog.Logger, err error) {
	if errors.Is(err, usecase.ErrNotReady) {
		respondWithError(w, http.StatusServiceUnavailable, "Dataset is not loaded yet")
		return
	}
	log.Error("Failed to read dataset", slog.Any("error", err))
	respondWithError(w, http.StatusInternalServerError, "Internal Server Error")
}

// positiveParam читает положительный целый параметр запроса; отсутствие дает def.
func positiveParam(r *http.Request, name string, def int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

// parseMonths разбирает список месяцев вида "2,3,4".
func parseMonths(raw string) ([]int, error) {
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		m, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || m < 1 || m > 12 {
			return nil, errors.New("month out of range")
		}
		out = append(out, m)
	}
	return out, nil
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "Failed to marshal JSON response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
