// Package dataset превращает загруженные страницы выдачи в одну упорядоченную таблицу.
package dataset

import (
	"coverage/internal/domain"
	"coverage/internal/pagination"
)

// Extract разворачивает результаты каждой страницы в плоские записи.
//
// Граница чтения задается метаданными: expectedPages страниц и total результатов
// (total берется из первой страницы). Если очередная страница отсутствует или содержит
// меньше результатов, чем обещано, чтение останавливается с состоянием ExtractExhausted,
// а все записи, прочитанные до этого, сохраняются.
func Extract(pages []domain.Page, expectedPages, pageSize int) domain.Extraction {
	if pageSize <= 0 {
		pageSize = pagination.DefaultPageSize
	}
	out := domain.Extraction{
		ExpectedPages: expectedPages,
		State:         domain.ExtractComplete,
	}
	if expectedPages <= 0 {
		return out
	}
	total := 0
	if len(pages) > 0 {
		total = pages[0].Total
	}
	for idx := 0; idx < expectedPages; idx++ {
		if idx >= len(pages) {
			out.State = domain.ExtractExhausted
			return out
		}
		results := pages[idx].Results
		want := expectedOnPage(idx, pageSize, total)
		if total <= 0 && idx == expectedPages-1 && len(results) < want {
			want = len(results)
		}
		n := len(results)
		if n > want {
			n = want
		}
		for _, r := range results[:n] {
			out.Articles = append(out.Articles, domain.Article{
				Headline:    r.WebTitle,
				Category:    r.SectionName,
				PublishedAt: r.WebPublicationDate,
				ItemType:    r.Type,
			})
		}
		out.PagesRead++
		if n < want {
			out.State = domain.ExtractExhausted
			return out
		}
	}
	return out
}

// expectedOnPage возвращает число результатов, которое должно быть на странице idx (с нуля).
// При неизвестном total (0) ожидается полная страница.
func expectedOnPage(idx, pageSize, total int) int {
	if total <= 0 {
		return pageSize
	}
	left := total - idx*pageSize
	if left < 0 {
		return 0
	}
	if left < pageSize {
		return left
	}
	return pageSize
}
