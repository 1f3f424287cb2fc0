package usecase

import (
	"context"
	"coverage/internal/dataset"
	"coverage/internal/domain"
	"coverage/internal/pagination"
	"fmt"
	"log/slog"
	"time"
)

// CollectUseCase собирает все статьи по запросу: проверяет метаданные первой страницы,
// генерирует URL страниц, последовательно загружает их, извлекает записи и собирает таблицу.
type CollectUseCase struct {
	fetcher  PageFetcher
	parser   PageParser
	query    pagination.Query
	maxPages int
	observer CollectionObserver
	log      *slog.Logger
	now      func() time.Time
}

// NewCollectUseCase создает сборщик. maxPages > 0 ограничивает число загружаемых страниц.
func NewCollectUseCase(
	fetcher PageFetcher,
	parser PageParser,
	query pagination.Query,
	maxPages int,
	log *slog.Logger,
) *CollectUseCase {
	return &CollectUseCase{
		fetcher:  fetcher,
		parser:   parser,
		query:    query,
		maxPages: maxPages,
		log:      log,
		now:      time.Now,
	}
}

// WithObserver подключает наблюдателя за результатом сбора.
func (uc *CollectUseCase) WithObserver(o CollectionObserver) *CollectUseCase {
	uc.observer = o
	return uc
}

// Collect выполняет полный цикл сбора. Любая ошибка загрузки или разбора прерывает сбор.
// Нехватка данных относительно метаданных ошибкой не считается: коллекция получает
// состояние ExtractExhausted и все записи, прочитанные до нехватки.
func (uc *CollectUseCase) Collect(ctx context.Context) (*domain.Collection, error) {
	const op = "usecase.Collect"
	start := time.Now()
	log := uc.log.With(
		slog.String("component", "collector"),
		slog.String("op", op),
		slog.String("keyword", uc.query.Keyword),
	)
	log.Info("Collection started")

	urls := pagination.PageURLs(uc.query, 1)
	probe, err := uc.fetchPage(ctx, log, urls[0], 1)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	expected := probe.Pages
	if uc.maxPages > 0 && expected > uc.maxPages {
		expected = uc.maxPages
	}
	log.Info("Metadata received",
		slog.String("stage", "probe"),
		slog.Int("total", probe.Total),
		slog.Int("pages", probe.Pages),
		slog.Int("pages_to_read", expected),
	)

	pages := []domain.Page{*probe}
	urls = pagination.PageURLs(uc.query, expected)
	for i := 1; i < len(urls); i++ {
		page, err := uc.fetchPage(ctx, log, urls[i], i+1)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		pages = append(pages, *page)
	}

	pageSize := probe.PageSize
	if pageSize <= 0 {
		pageSize = uc.query.PageSize
	}
	extraction := dataset.Extract(pages, expected, pageSize)
	log.Info("Extraction finished",
		slog.String("stage", "extract"),
		slog.String("state", extraction.State.String()),
		slog.Int("pages_read", extraction.PagesRead),
		slog.Int("expected_pages", extraction.ExpectedPages),
		slog.Int("count", len(extraction.Articles)),
	)

	table, err := dataset.Assemble(extraction.Articles)
	if err != nil {
		log.Error("Table assembly failed", slog.String("stage", "assemble"), slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	c := &domain.Collection{
		Keyword:       uc.query.Keyword,
		FromDate:      uc.query.FromDate,
		CollectedAt:   uc.now().UTC(),
		TotalResults:  probe.Total,
		PagesRead:     extraction.PagesRead,
		ExpectedPages: extraction.ExpectedPages,
		State:         extraction.State,
		Table:         table,
	}
	if uc.observer != nil {
		uc.observer.ObserveCollection(c)
	}
	log.Info("Collection completed",
		slog.Int("count", table.Len()),
		slog.Duration("duration", time.Since(start)),
	)
	return c, nil
}

func (uc *CollectUseCase) fetchPage(ctx context.Context, log *slog.Logger, url string, page int) (*domain.Page, error) {
	reader, err := uc.fetcher.Fetch(ctx, url)
	if err != nil {
		log.Error("Page fetch failed",
			slog.String("stage", "fetch"),
			slog.Int("page", page),
			slog.Any("error", err),
		)
		return nil, fmt.Errorf("fetch page %d: %w", page, err)
	}
	defer reader.Close()

	p, err := uc.parser.Parse(ctx, reader)
	if err != nil {
		log.Error("Page parsing failed",
			slog.String("stage", "parse"),
			slog.Int("page", page),
			slog.Any("error", err),
		)
		return nil, fmt.Errorf("parse page %d: %w", page, err)
	}
	log.Debug("Page loaded",
		slog.Int("page", page),
		slog.Int("results", len(p.Results)),
	)
	return p, nil
}
