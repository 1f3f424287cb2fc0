// Package analysis содержит чистые агрегаты над таблицей статей.
// Все функции допускают пустую или nil таблицу и тогда возвращают пустой результат.
package analysis

import (
	"coverage/internal/domain"
	"sort"
	"time"
)

// YearMonthCount - число статей за месяц конкретного года.
type YearMonthCount struct {
	Year      int    `json:"year"`
	Month     int    `json:"month"`
	MonthName string `json:"month_name"`
	Count     int    `json:"count"`
}

// YearCount - число статей за год.
type YearCount struct {
	Year  int `json:"year"`
	Count int `json:"count"`
}

// MonthCount - число статей за месяц внутри выбранного года.
type MonthCount struct {
	Month     int    `json:"month"`
	MonthName string `json:"month_name"`
	Count     int    `json:"count"`
}

// ValueCount - частота значения колонки.
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// YearMonthCounts группирует строки по (год, месяц). Порядок: год, затем календарный месяц.
func YearMonthCounts(t *domain.Table) []YearMonthCount {
	type key struct{ year, month int }
	counts := make(map[key]int)
	for _, r := range records(t) {
		counts[key{r.Date.Year(), int(r.Date.Month())}]++
	}
	out := make([]YearMonthCount, 0, len(counts))
	for k, n := range counts {
		out = append(out, YearMonthCount{
			Year:      k.year,
			Month:     k.month,
			MonthName: time.Month(k.month).String(),
			Count:     n,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Month < out[j].Month
	})
	return out
}

// YearCounts считает строки по годам по возрастанию года.
func YearCounts(t *domain.Table) []YearCount {
	counts := make(map[int]int)
	for _, r := range records(t) {
		counts[r.Date.Year()]++
	}
	out := make([]YearCount, 0, len(counts))
	for y, n := range counts {
		out = append(out, YearCount{Year: y, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

// MonthCounts считает строки выбранного года по месяцам по возрастанию номера месяца.
func MonthCounts(t *domain.Table, year int) []MonthCount {
	var counts [13]int
	for _, r := range records(t) {
		if r.Date.Year() == year {
			counts[r.Date.Month()]++
		}
	}
	out := []MonthCount{}
	for m := 1; m <= 12; m++ {
		if counts[m] == 0 {
			continue
		}
		out = append(out, MonthCount{Month: m, MonthName: time.Month(m).String(), Count: counts[m]})
	}
	return out
}

// CategoryCounts - частота разделов (section) по убыванию.
func CategoryCounts(t *domain.Table) []ValueCount {
	return valueCounts(t, func(r domain.Record) string { return r.Category })
}

// TypeCounts - частота типов материалов по убыванию.
func TypeCounts(t *domain.Table) []ValueCount {
	return valueCounts(t, func(r domain.Record) string { return r.ItemType })
}

// valueCounts считает частоту значений колонки. При равных частотах раньше идет
// значение, встреченное первым.
func valueCounts(t *domain.Table, column func(domain.Record) string) []ValueCount {
	index := make(map[string]int)
	out := []ValueCount{}
	for _, r := range records(t) {
		v := column(r)
		if i, ok := index[v]; ok {
			out[i].Count++
			continue
		}
		index[v] = len(out)
		out = append(out, ValueCount{Value: v, Count: 1})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// InYear возвращает предикат для строк выбранного года.
func InYear(year int) func(domain.Record) bool {
	return func(r domain.Record) bool { return r.Date.Year() == year }
}

// InMonths возвращает предикат для строк выбранного года и месяцев.
// Без месяцев предикат совпадает с InYear.
func InMonths(year int, months ...int) func(domain.Record) bool {
	if len(months) == 0 {
		return InYear(year)
	}
	set := make(map[time.Month]bool, len(months))
	for _, m := range months {
		set[time.Month(m)] = true
	}
	return func(r domain.Record) bool {
		return r.Date.Year() == year && set[r.Date.Month()]
	}
}

// PeakYears возвращает k лет с наибольшим числом статей. При равенстве раньше идет более ранний год.
func PeakYears(t *domain.Table, k int) []YearCount {
	years := YearCounts(t)
	sort.SliceStable(years, func(i, j int) bool { return years[i].Count > years[j].Count })
	if k >= 0 && k < len(years) {
		years = years[:k]
	}
	return years
}

// PeakMonth возвращает месяц выбранного года с наибольшим числом статей.
func PeakMonth(t *domain.Table, year int) (MonthCount, bool) {
	var best MonthCount
	found := false
	for _, mc := range MonthCounts(t, year) {
		if !found || mc.Count > best.Count {
			best = mc
			found = true
		}
	}
	return best, found
}

func records(t *domain.Table) []domain.Record {
	if t == nil {
		return nil
	}
	return t.Records
}
