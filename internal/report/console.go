// Package report выводит отчет анализа в консоль: таблицы, цветные заголовки и текстовые диаграммы.
package report

import (
	"coverage/internal/analysis"
	"coverage/internal/domain"
	"coverage/internal/textstat"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// DefaultChartWidth - ширина самой длинной полосы диаграммы в символах.
const DefaultChartWidth = 50

// maxCategories ограничивает таблицы разделов внутри окон.
const maxCategories = 15

// Options настраивает вывод.
type Options struct {
	Colors     bool
	ChartWidth int
}

// Renderer печатает отчет в writer.
type Renderer struct {
	out        io.Writer
	colors     bool
	chartWidth int
}

func NewRenderer(out io.Writer, opts Options) *Renderer {
	width := opts.ChartWidth
	if width <= 0 {
		width = DefaultChartWidth
	}
	return &Renderer{out: out, colors: opts.Colors, chartWidth: width}
}

// Render печатает все разделы отчета.
func (r *Renderer) Render(rep *analysis.Report) error {
	title := fmt.Sprintf("Coverage of %q", rep.Keyword)
	if rep.FromDate != "" {
		title += " since " + rep.FromDate
	}
	r.header(title)
	r.printf("Articles: %d\n", rep.TotalArticles)
	r.printf("Pages read: %d of %d\n", rep.PagesRead, rep.ExpectedPages)
	if !rep.CollectedAt.IsZero() {
		r.printf("Collected at: %s\n", rep.CollectedAt.Format("2006-01-02 15:04:05 MST"))
	}
	if rep.State == domain.ExtractExhausted {
		r.warn("Results ran out before the advertised page count; the table holds what was returned.")
	}

	r.header("Articles per year")
	bars := make([]Bar, 0, len(rep.Years))
	for _, yc := range rep.Years {
		bars = append(bars, Bar{Label: strconv.Itoa(yc.Year), Value: yc.Count})
	}
	if err := WriteBarChart(r.out, bars, r.chartWidth); err != nil {
		return err
	}

	r.header("Articles per year and month")
	rows := make([][]string, 0, len(rep.YearMonth))
	for _, ym := range rep.YearMonth {
		rows = append(rows, []string{strconv.Itoa(ym.Year), ym.MonthName, strconv.Itoa(ym.Count)})
	}
	if err := r.table([]string{"year", "month", "articles"}, rows); err != nil {
		return err
	}

	for _, f := range rep.Focus {
		r.header(fmt.Sprintf("%s (%d articles)", f.Window.Name(), f.Breakdown.Articles))
		r.subheader(fmt.Sprintf("Articles per month in %d", f.Window.Year))
		bars := make([]Bar, 0, len(f.MonthsOfYear))
		for _, mc := range f.MonthsOfYear {
			bars = append(bars, Bar{Label: mc.MonthName, Value: mc.Count})
		}
		if err := WriteBarChart(r.out, bars, r.chartWidth); err != nil {
			return err
		}
		if err := r.breakdown(f.Breakdown, maxCategories); err != nil {
			return err
		}
	}

	r.header(fmt.Sprintf("All articles (%d)", rep.Overall.Articles))
	return r.breakdown(rep.Overall, 0)
}

func (r *Renderer) breakdown(b analysis.Breakdown, maxRows int) error {
	r.subheader("Item types")
	if err := r.table([]string{"type", "articles"}, valueRows(b.Types, 0)); err != nil {
		return err
	}
	r.subheader("Sections")
	if err := r.table([]string{"section", "articles"}, valueRows(b.Categories, maxRows)); err != nil {
		return err
	}
	r.subheader("Headline terms")
	return r.table([]string{"term", "count"}, termRows(b.Terms))
}

func valueRows(counts []analysis.ValueCount, limit int) [][]string {
	if limit > 0 && len(counts) > limit {
		counts = counts[:limit]
	}
	rows := make([][]string, 0, len(counts))
	for _, c := range counts {
		rows = append(rows, []string{c.Value, strconv.Itoa(c.Count)})
	}
	return rows
}

func termRows(terms []textstat.TermCount) [][]string {
	rows := make([][]string, 0, len(terms))
	for _, t := range terms {
		rows = append(rows, []string{t.Term, strconv.Itoa(t.Count)})
	}
	return rows
}

func (r *Renderer) table(header []string, rows [][]string) error {
	if len(rows) == 0 {
		r.printf("(none)\n")
		return nil
	}
	table := tablewriter.NewTable(r.out,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoWrap: tw.WrapNone},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoFormat: tw.On},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{ShowHeader: tw.Off},
			},
		}),
	)
	table.Header(header)
	if err := table.Bulk(rows); err != nil {
		return fmt.Errorf("failed to fill table: %w", err)
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}
	return nil
}

func (r *Renderer) header(title string) {
	width := runewidth.StringWidth(title)
	if r.colors {
		color.New(color.FgWhite, color.Bold).Fprintf(r.out, "\n%s\n", title)
		color.New(color.FgWhite).Fprintf(r.out, "%s\n", strings.Repeat("─", width))
		return
	}
	fmt.Fprintf(r.out, "\n%s\n%s\n", title, strings.Repeat("-", width))
}

func (r *Renderer) subheader(title string) {
	if r.colors {
		color.New(color.FgCyan).Fprintf(r.out, "\n%s\n", title)
		return
	}
	fmt.Fprintf(r.out, "\n%s\n", title)
}

func (r *Renderer) warn(msg string) {
	if r.colors {
		color.New(color.FgYellow).Fprintf(r.out, "⚠ %s\n", msg)
		return
	}
	fmt.Fprintf(r.out, "[WARN] %s\n", msg)
}

func (r *Renderer) printf(format string, args ...any) {
	fmt.Fprintf(r.out, format, args...)
}

// WriteJSON печатает отчет в виде JSON с отступами.
func WriteJSON(w io.Writer, rep *analysis.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rep); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}
