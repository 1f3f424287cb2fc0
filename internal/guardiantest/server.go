// Package guardiantest поднимает поддельный поисковый API для тестов сборщика и CLI.
package guardiantest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"
)

// Article - статья, которую отдает поддельный API.
type Article struct {
	Title     string
	Section   string
	Type      string
	Published time.Time
}

// Server - поддельный API поверх httptest.Server.
type Server struct {
	*httptest.Server

	// APIKey - ожидаемый ключ; пустой ключ не проверяется.
	APIKey string
	// Served ограничивает число реально отдаваемых статей, метаданные при этом
	// продолжают обещать все. 0 означает без ограничения.
	Served int

	articles []Article
	mu       sync.Mutex
	requests []int
}

// NewServer запускает сервер и закрывает его по завершении теста.
func NewServer(t *testing.T, articles []Article) *Server {
	t.Helper()
	s := &Server{articles: articles}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)
	return s
}

// Endpoint возвращает URL поиска.
func (s *Server) Endpoint() string {
	return s.URL + "/search"
}

// Requests возвращает номера запрошенных страниц в порядке запросов.
func (s *Server) Requests() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int(nil), s.requests...)
}

// Articles генерирует n статей, по одной в день начиная с from.
func Articles(n int, from time.Time) []Article {
	out := make([]Article, n)
	for i := range out {
		out[i] = Article{
			Title:     fmt.Sprintf("Headline number %d", i+1),
			Section:   "World news",
			Type:      "article",
			Published: from.AddDate(0, 0, i),
		}
	}
	return out
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	q := r.URL.Query()
	if s.APIKey != "" && q.Get("api-key") != s.APIKey {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Unauthorized"})
		return
	}
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(q.Get("page-size"))
	if pageSize < 1 {
		pageSize = 10
	}
	s.mu.Lock()
	s.requests = append(s.requests, page)
	s.mu.Unlock()

	total := len(s.articles)
	pages := (total + pageSize - 1) / pageSize
	if total > 0 && page > pages {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{"response": map[string]any{
			"status":  "error",
			"message": "requested page is beyond the number of available pages",
		}})
		return
	}

	available := s.articles
	if s.Served > 0 && s.Served < len(available) {
		available = available[:s.Served]
	}
	results := []map[string]string{}
	for i := (page - 1) * pageSize; i < page*pageSize && i < len(available); i++ {
		a := available[i]
		results = append(results, map[string]string{
			"id":                 fmt.Sprintf("world/%d", i),
			"type":               a.Type,
			"sectionId":          "world",
			"sectionName":        a.Section,
			"webPublicationDate": a.Published.UTC().Format(time.RFC3339),
			"webTitle":           a.Title,
		})
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"response": map[string]any{
		"status":      "ok",
		"userTier":    "developer",
		"total":       total,
		"startIndex":  (page-1)*pageSize + 1,
		"pageSize":    pageSize,
		"currentPage": page,
		"pages":       pages,
		"orderBy":     "newest",
		"results":     results,
	}})
}
