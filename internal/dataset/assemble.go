package dataset

import (
	"coverage/internal/domain"
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// NormalizeDate отбрасывает время суток у ISO-8601 метки и разбирает оставшуюся дату.
// "2013-11-08T12:00:00Z" -> 2013-11-08 00:00 UTC.
func NormalizeDate(ts string) (time.Time, error) {
	day, _, _ := strings.Cut(strings.TrimSpace(ts), "T")
	d, err := time.Parse(dateLayout, day)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid publication date %q: %w", ts, err)
	}
	return d, nil
}

// Assemble собирает таблицу из записей, сохраняя их порядок, и нормализует колонку даты.
func Assemble(articles []domain.Article) (*domain.Table, error) {
	const op = "dataset.Assemble"
	table := &domain.Table{Records: make([]domain.Record, 0, len(articles))}
	for i, a := range articles {
		date, err := NormalizeDate(a.PublishedAt)
		if err != nil {
			return nil, fmt.Errorf("%s: row %d: %w", op, i, err)
		}
		table.Records = append(table.Records, domain.Record{
			Headline: a.Headline,
			Category: a.Category,
			Date:     date,
			ItemType: a.ItemType,
		})
	}
	return table, nil
}
