package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

const barRune = "█"

// Bar - одна полоса горизонтальной диаграммы.
type Bar struct {
	Label string
	Value int
}

// WriteBarChart печатает горизонтальную диаграмму. Подписи выравниваются по ширине
// на экране, самая длинная полоса занимает width символов, ненулевое значение
// получает хотя бы один символ.
func WriteBarChart(w io.Writer, bars []Bar, width int) error {
	if len(bars) == 0 {
		_, err := fmt.Fprintln(w, "(none)")
		return err
	}
	if width <= 0 {
		width = DefaultChartWidth
	}
	labelWidth, maxValue := 0, 0
	for _, b := range bars {
		labelWidth = max(labelWidth, runewidth.StringWidth(b.Label))
		maxValue = max(maxValue, b.Value)
	}
	for _, b := range bars {
		n := BarLength(b.Value, maxValue, width)
		line := fmt.Sprintf("%s │%s %d", runewidth.FillRight(b.Label, labelWidth), strings.Repeat(barRune, n), b.Value)
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("failed to write chart: %w", err)
		}
	}
	return nil
}

// BarLength возвращает длину полосы для value при максимуме maxValue.
func BarLength(value, maxValue, width int) int {
	if value <= 0 || maxValue <= 0 {
		return 0
	}
	n := value * width / maxValue
	if n == 0 {
		n = 1
	}
	return n
}
