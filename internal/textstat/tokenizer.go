package textstat

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// EdgeCutset - символы, срезаемые с краев каждого токена.
const EdgeCutset = " .,-–—!?(){}[]\"'|/:;‘’“”"

// Tokenizer нормализует заголовки: split по пробельным символам, срез пунктуации с краев,
// нижний регистр, удаление стоп-слов и пустых токенов.
type Tokenizer struct {
	stopwords Stopwords
	cutset    string
}

// NewTokenizer создает токенизатор с явно переданным множеством стоп-слов.
func NewTokenizer(stopwords Stopwords) *Tokenizer {
	if stopwords == nil {
		stopwords = Stopwords{}
	}
	return &Tokenizer{stopwords: stopwords, cutset: EdgeCutset}
}

// Tokens возвращает нормализованные термины заголовка в порядке появления.
func (t *Tokenizer) Tokens(headline string) []string {
	lower := cases.Lower(language.Und)
	fields := strings.Fields(headline)
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		term := lower.String(strings.Trim(f, t.cutset))
		if term == "" || t.stopwords.Contains(term) {
			continue
		}
		out = append(out, term)
	}
	return out
}

// Count считает частоту терминов одного заголовка.
func (t *Tokenizer) Count(headline string) *TermFrequency {
	tf := NewTermFrequency()
	for _, term := range t.Tokens(headline) {
		tf.Inc(term)
	}
	return tf
}

// CountAll считает частоту по каждому заголовку отдельно и суммирует результаты.
func (t *Tokenizer) CountAll(headlines []string) *TermFrequency {
	total := NewTermFrequency()
	for _, h := range headlines {
		total.Add(t.Count(h))
	}
	return total
}

// TermCount - термин и число его появлений.
type TermCount struct {
	Term  string `json:"term"`
	Count int    `json:"count"`
}

// TermFrequency - счетчик терминов, помнящий порядок первого появления.
type TermFrequency struct {
	counts map[string]int
	order  []string
}

func NewTermFrequency() *TermFrequency {
	return &TermFrequency{counts: make(map[string]int)}
}

// Inc увеличивает счетчик термина на единицу.
func (f *TermFrequency) Inc(term string) {
	f.addN(term, 1)
}

// Add прибавляет к счетчику все значения other. Новые термины встают в конец порядка.
func (f *TermFrequency) Add(other *TermFrequency) {
	if other == nil {
		return
	}
	for _, term := range other.order {
		f.addN(term, other.counts[term])
	}
}

func (f *TermFrequency) addN(term string, n int) {
	if _, ok := f.counts[term]; !ok {
		f.order = append(f.order, term)
	}
	f.counts[term] += n
}

// Count возвращает число появлений термина.
func (f *TermFrequency) Count(term string) int {
	return f.counts[term]
}

// Len возвращает число различных терминов.
func (f *TermFrequency) Len() int {
	return len(f.order)
}

// Total возвращает сумму всех счетчиков.
func (f *TermFrequency) Total() int {
	n := 0
	for _, c := range f.counts {
		n += c
	}
	return n
}

// MostCommon возвращает k самых частых терминов по убыванию счетчика.
// При равенстве раньше идет термин, встреченный первым. k <= 0 возвращает все.
func (f *TermFrequency) MostCommon(k int) []TermCount {
	out := make([]TermCount, 0, len(f.order))
	for _, term := range f.order {
		out = append(out, TermCount{Term: term, Count: f.counts[term]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	if k > 0 && k < len(out) {
		out = out[:k]
	}
	return out
}
