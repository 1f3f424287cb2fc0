package domain

import "time"

// Result представляет одну запись из массива response.results ответа поискового API.
type Result struct {
	ID                 string
	Type               string
	SectionID          string
	SectionName        string
	WebPublicationDate string
	WebTitle           string
	WebURL             string
	APIURL             string
}

// Page представляет одну загруженную страницу выдачи вместе с метаданными пагинации.
// Создается парсером, один раз читается экстрактором и далее не нужна.
type Page struct {
	Status      string
	Total       int
	StartIndex  int
	PageSize    int
	CurrentPage int
	Pages       int
	Results     []Result
}

// Article представляет плоскую запись о статье с полями, скопированными из ответа без изменений.
type Article struct {
	Headline    string `json:"headline"`
	Category    string `json:"category"`
	PublishedAt string `json:"published_at"`
	ItemType    string `json:"item_type"`
}

// Record - строка таблицы: статья с датой публикации, усеченной до дня.
type Record struct {
	Headline string    `json:"headline"`
	Category string    `json:"category"`
	Date     time.Time `json:"date"`
	ItemType string    `json:"item_type"`
}

// Table - упорядоченный набор записей. Порядок строк совпадает с порядком загрузки.
// После сборки таблица только читается.
type Table struct {
	Records []Record
}

// Len возвращает количество строк таблицы. Безопасен для nil.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// Filter возвращает новую таблицу из строк, удовлетворяющих предикату.
func (t *Table) Filter(keep func(Record) bool) *Table {
	out := &Table{}
	if t == nil {
		return out
	}
	for _, r := range t.Records {
		if keep(r) {
			out.Records = append(out.Records, r)
		}
	}
	return out
}

// Headlines возвращает заголовки всех строк в порядке таблицы.
func (t *Table) Headlines() []string {
	if t == nil {
		return nil
	}
	out := make([]string, 0, len(t.Records))
	for _, r := range t.Records {
		out = append(out, r.Headline)
	}
	return out
}
