package analysis

import (
	"coverage/internal/domain"
	"coverage/internal/textstat"
	"fmt"
	"strings"
	"time"
)

// Window - срез таблицы для детального разбора: год и, при необходимости, месяцы.
type Window struct {
	Label          string   `json:"label"`
	Year           int      `json:"year"`
	Months         []int    `json:"months,omitempty"`
	ExtraStopwords []string `json:"extra_stopwords,omitempty"`
}

// Name возвращает подпись окна; при пустом Label она строится из года и месяцев.
func (w Window) Name() string {
	if w.Label != "" {
		return w.Label
	}
	if len(w.Months) == 0 {
		return fmt.Sprintf("%d", w.Year)
	}
	names := make([]string, 0, len(w.Months))
	for _, m := range w.Months {
		names = append(names, time.Month(m).String())
	}
	return fmt.Sprintf("%s %d", strings.Join(names, ", "), w.Year)
}

// Options задает параметры отчета.
type Options struct {
	Stopwords       textstat.Stopwords
	TopTerms        int
	TopTermsOverall int
	Windows         []Window
	// PeakYears - сколько пиковых лет разбирать, если окна не заданы явно.
	PeakYears int
}

// Breakdown - типы, разделы и частые термины заголовков для подмножества строк.
type Breakdown struct {
	Articles   int                  `json:"articles"`
	Types      []ValueCount         `json:"types"`
	Categories []ValueCount         `json:"categories"`
	Terms      []textstat.TermCount `json:"terms"`
}

// FocusReport - разбор одного окна.
type FocusReport struct {
	Window       Window       `json:"window"`
	MonthsOfYear []MonthCount `json:"months_of_year"`
	Breakdown    Breakdown    `json:"breakdown"`
}

// Report - полный набор описательной статистики по собранной таблице.
type Report struct {
	Keyword       string              `json:"keyword"`
	FromDate      string              `json:"from_date"`
	CollectedAt   time.Time           `json:"collected_at"`
	TotalArticles int                 `json:"total_articles"`
	PagesRead     int                 `json:"pages_read"`
	ExpectedPages int                 `json:"expected_pages"`
	State         domain.ExtractState `json:"state"`
	YearMonth     []YearMonthCount    `json:"year_month"`
	Years         []YearCount         `json:"years"`
	Focus         []FocusReport       `json:"focus"`
	Overall       Breakdown           `json:"overall"`
}

// BuildReport выполняет все агрегаты для таблицы коллекции и для каждого окна.
func BuildReport(c *domain.Collection, opts Options) *Report {
	rep := &Report{
		Keyword:       c.Keyword,
		FromDate:      c.FromDate,
		CollectedAt:   c.CollectedAt,
		TotalArticles: c.Table.Len(),
		PagesRead:     c.PagesRead,
		ExpectedPages: c.ExpectedPages,
		State:         c.State,
		YearMonth:     YearMonthCounts(c.Table),
		Years:         YearCounts(c.Table),
		Focus:         []FocusReport{},
	}
	windows := opts.Windows
	if len(windows) == 0 && opts.PeakYears > 0 {
		windows = DeriveWindows(c.Table, opts.PeakYears)
	}
	for _, w := range windows {
		subset := c.Table.Filter(InMonths(w.Year, w.Months...))
		tok := textstat.NewTokenizer(opts.Stopwords.With(w.ExtraStopwords...))
		rep.Focus = append(rep.Focus, FocusReport{
			Window:       w,
			MonthsOfYear: MonthCounts(c.Table, w.Year),
			Breakdown:    Summarize(subset, tok, opts.TopTerms),
		})
	}
	rep.Overall = Summarize(c.Table, textstat.NewTokenizer(opts.Stopwords), opts.TopTermsOverall)
	return rep
}

// Summarize считает типы, разделы и topK терминов заголовков для таблицы.
func Summarize(t *domain.Table, tok *textstat.Tokenizer, topK int) Breakdown {
	return Breakdown{
		Articles:   t.Len(),
		Types:      TypeCounts(t),
		Categories: CategoryCounts(t),
		Terms:      tok.CountAll(t.Headlines()).MostCommon(topK),
	}
}

// DeriveWindows строит окна по k пиковым годам: в каждом берется самый насыщенный месяц.
func DeriveWindows(t *domain.Table, k int) []Window {
	var out []Window
	for _, yc := range PeakYears(t, k) {
		mc, ok := PeakMonth(t, yc.Year)
		if !ok {
			continue
		}
		out = append(out, Window{Year: yc.Year, Months: []int{mc.Month}})
	}
	return out
}
