package usecase

import (
	"context"
	"coverage/internal/domain"
	"io"

	"github.com/google/uuid"
)

// PageFetcher загружает одну страницу выдачи поискового API.
// Возвращает io.ReadCloser, который должен быть закрыт после использования.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (io.ReadCloser, error)
}

// PageParser разбирает тело ответа API в страницу с метаданными пагинации.
type PageParser interface {
	Parse(ctx context.Context, reader io.Reader) (*domain.Page, error)
}

// CollectionObserver получает итог каждого сбора. Используется для метрик.
type CollectionObserver interface {
	ObserveCollection(c *domain.Collection)
}

// CollectionStorage сохраняет снимки собранных таблиц и читает последний снимок.
type CollectionStorage interface {
	SaveCollection(ctx context.Context, c *domain.Collection) (uuid.UUID, error)
	LatestCollection(ctx context.Context, keyword string) (*domain.Collection, error)
}
