package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

const errorBodyLimit = 4 << 10

// Observer получает результат каждого HTTP-запроса. Используется для метрик.
type Observer interface {
	ObserveFetch(status int, duration time.Duration)
}

// HTTPFetcher реализует интерфейс PageFetcher для загрузки страниц поискового API по HTTP.
// Запросы выполняются строго последовательно, без повторов.
type HTTPFetcher struct {
	client    *http.Client
	limiter   *rate.Limiter
	userAgent string
	observer  Observer
	log       *slog.Logger
}

// Option настраивает HTTPFetcher.
type Option func(*HTTPFetcher)

// WithTimeout задает общий таймаут одного запроса.
func WithTimeout(d time.Duration) Option {
	return func(f *HTTPFetcher) {
		if d > 0 {
			f.client = &http.Client{Timeout: d}
		}
	}
}

// WithUserAgent задает заголовок User-Agent.
func WithUserAgent(ua string) Option {
	return func(f *HTTPFetcher) { f.userAgent = ua }
}

// WithRateLimit ограничивает частоту запросов. Значение <= 0 снимает ограничение.
func WithRateLimit(rps float64) Option {
	return func(f *HTTPFetcher) {
		if rps > 0 {
			f.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// WithObserver подключает наблюдателя за запросами.
func WithObserver(o Observer) Option {
	return func(f *HTTPFetcher) { f.observer = o }
}

// NewHTTPFetcher создает новый экземпляр HTTPFetcher.
// По умолчанию используется стандартный HTTP-клиент без ограничения частоты.
func NewHTTPFetcher(log *slog.Logger, opts ...Option) *HTTPFetcher {
	f := &HTTPFetcher{
		client:  http.DefaultClient,
		limiter: rate.NewLimiter(rate.Inf, 1),
		log:     log,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch выполняет GET-запрос и возвращает тело ответа, которое должно быть закрыто после использования.
// Ответ со статусом, отличным от 200, возвращается как ошибка с текстом сообщения API, если он есть.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	safeURL := RedactURL(rawURL)
	log := f.log.With(slog.String("url", safeURL))
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait for url %s: %w", safeURL, err)
	}
	log.Debug("Fetching URL")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		log.Error("Failed to create HTTP request", slog.Any("error", err))
		return nil, fmt.Errorf("failed to create request for url %s: %w", safeURL, err)
	}
	req.Header.Set("Accept", "application/json")
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		f.observe(0, time.Since(start))
		log.Error(
			"HTTP request failed",
			slog.Any("error", err),
		)
		return nil, fmt.Errorf("failed to fetch url %s: %w", safeURL, err)
	}
	f.observe(resp.StatusCode, time.Since(start))
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		message := apiMessage(resp.Body)
		log.Error(
			"Unexpected status code",
			slog.Int("status_code", resp.StatusCode),
			slog.String("message", message),
		)
		if message != "" {
			return nil, fmt.Errorf("unexpected status code: %d for url %s: %s", resp.StatusCode, safeURL, message)
		}
		return nil, fmt.Errorf("unexpected status code: %d for url %s", resp.StatusCode, safeURL)
	}
	log.Debug("Successfully fetched URL", slog.Duration("duration", time.Since(start)))
	return resp.Body, nil
}

func (f *HTTPFetcher) observe(status int, d time.Duration) {
	if f.observer != nil {
		f.observer.ObserveFetch(status, d)
	}
}

// apiMessage достает поле message из тела ошибки API, если тело - JSON.
func apiMessage(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, errorBodyLimit))
	if err != nil || len(data) == 0 {
		return ""
	}
	var payload struct {
		Message  string `json:"message"`
		Response struct {
			Message string `json:"message"`
		} `json:"response"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return ""
	}
	if payload.Response.Message != "" {
		return payload.Response.Message
	}
	return payload.Message
}

// RedactURL скрывает значение api-key, чтобы ключ не попадал в логи и тексты ошибок.
func RedactURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	q := u.Query()
	if q.Get("api-key") == "" {
		return rawURL
	}
	q.Set("api-key", "REDACTED")
	u.RawQuery = q.Encode()
	return u.String()
}
