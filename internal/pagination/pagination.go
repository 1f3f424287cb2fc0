package pagination

import (
	"net/url"
	"strconv"
)

// DefaultPageSize - размер страницы поискового API по умолчанию.
const DefaultPageSize = 10

// Query описывает неизменную часть поискового запроса: адрес, ключевое слово,
// начальную дату, ключ доступа и размер страницы.
type Query struct {
	Endpoint string
	Keyword  string
	FromDate string
	APIKey   string
	PageSize int
}

// PageURL возвращает URL запроса для страницы с номером page (нумерация с 1).
func (q Query) PageURL(page int) string {
	values := url.Values{}
	values.Set("q", q.Keyword)
	if q.FromDate != "" {
		values.Set("from-date", q.FromDate)
	}
	if q.APIKey != "" {
		values.Set("api-key", q.APIKey)
	}
	pageSize := q.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	values.Set("page-size", strconv.Itoa(pageSize))
	values.Set("page", strconv.Itoa(page))
	return q.Endpoint + "?" + values.Encode()
}

// PageURLs возвращает ровно n URL для страниц 1..n, отличающихся только параметром page.
// Значение n не сверяется с реальным числом страниц: его передает вызывающий код
// по результатам предварительной проверки метаданных.
func PageURLs(q Query, n int) []string {
	if n <= 0 {
		return []string{}
	}
	urls := make([]string, 0, n)
	for page := 1; page <= n; page++ {
		urls = append(urls, q.PageURL(page))
	}
	return urls
}
