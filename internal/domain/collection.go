package domain

import "time"

// ExtractState - итоговое состояние извлечения записей из страниц.
type ExtractState int

const (
	// ExtractComplete - прочитаны все страницы и записи, обещанные метаданными.
	ExtractComplete ExtractState = iota
	// ExtractExhausted - данные закончились раньше, чем обещали метаданные.
	// Это штатное завершение: все записи до нехватки сохраняются.
	ExtractExhausted
)

func (s ExtractState) String() string {
	switch s {
	case ExtractComplete:
		return "complete"
	case ExtractExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// ParseExtractState разбирает строковое представление состояния.
func ParseExtractState(s string) ExtractState {
	if s == "exhausted" {
		return ExtractExhausted
	}
	return ExtractComplete
}

// MarshalText позволяет отдавать состояние в JSON строкой.
func (s ExtractState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Extraction - результат работы экстрактора.
type Extraction struct {
	Articles      []Article
	PagesRead     int
	ExpectedPages int
	State         ExtractState
}

// Collection объединяет собранную таблицу с параметрами запроса и итогами пагинации.
type Collection struct {
	Keyword       string
	FromDate      string
	CollectedAt   time.Time
	TotalResults  int
	PagesRead     int
	ExpectedPages int
	State         ExtractState
	Table         *Table
}
