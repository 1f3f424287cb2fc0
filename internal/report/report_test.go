package report

import (
	"bytes"
	"coverage/internal/analysis"
	"coverage/internal/domain"
	"coverage/internal/textstat"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() *analysis.Report {
	c := &domain.Collection{
		Keyword:       "philippines",
		FromDate:      "2000-01-01",
		CollectedAt:   time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		PagesRead:     2,
		ExpectedPages: 3,
		State:         domain.ExtractExhausted,
		Table: &domain.Table{Records: []domain.Record{
			{Headline: "Typhoon Haiyan: the Philippines' worst disaster?", Category: "World news", ItemType: "article", Date: time.Date(2013, 11, 8, 0, 0, 0, 0, time.UTC)},
			{Headline: "Haiyan aid arrives", Category: "Environment", ItemType: "article", Date: time.Date(2013, 11, 12, 0, 0, 0, 0, time.UTC)},
			{Headline: "Manila lockdown", Category: "World news", ItemType: "liveblog", Date: time.Date(2020, 3, 16, 0, 0, 0, 0, time.UTC)},
		}},
	}
	return analysis.BuildReport(c, analysis.Options{
		Stopwords:       textstat.EnglishStopwords(),
		TopTerms:        5,
		TopTermsOverall: 5,
		PeakYears:       1,
	})
}

func TestBarLength(t *testing.T) {
	assert.Equal(t, 50, BarLength(10, 10, 50))
	assert.Equal(t, 25, BarLength(5, 10, 50))
	assert.Equal(t, 1, BarLength(1, 1000, 50))
	assert.Equal(t, 0, BarLength(0, 10, 50))
	assert.Equal(t, 0, BarLength(3, 0, 50))
}

func TestWriteBarChart_AlignsLabels(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, WriteBarChart(&buf, []Bar{{"May", 2}, {"November", 4}}, 4))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "May      │██ 2", lines[0])
	assert.Equal(t, "November │████ 4", lines[1])
}

func TestWriteBarChart_WideLabels(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, WriteBarChart(&buf, []Bar{{"日本", 1}, {"abcd", 1}}, 2))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Equal(t, "日本 │██ 1", lines[0])
	assert.Equal(t, "abcd │██ 1", lines[1])
}

func TestWriteBarChart_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteBarChart(&buf, nil, 10))
	assert.Equal(t, "(none)\n", buf.String())
}

func TestRenderer_Render(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, NewRenderer(&buf, Options{ChartWidth: 10}).Render(sampleReport()))

	out := buf.String()
	assert.Contains(t, out, `Coverage of "philippines" since 2000-01-01`)
	assert.Contains(t, out, "Pages read: 2 of 3")
	assert.Contains(t, out, "[WARN]")
	assert.Contains(t, out, "2013 │██████████ 2")
	assert.Contains(t, out, "2020 │█████ 1")
	assert.Contains(t, out, "November 2013 (2 articles)")
	assert.Contains(t, out, "haiyan")
	assert.Contains(t, out, "All articles (3)")
	assert.NotContains(t, out, "\x1b[")
}

func TestRenderer_EmptyReport(t *testing.T) {
	var buf bytes.Buffer
	rep := analysis.BuildReport(&domain.Collection{Keyword: "none", Table: &domain.Table{}}, analysis.Options{})

	require.NoError(t, NewRenderer(&buf, Options{}).Render(rep))
	assert.Contains(t, buf.String(), "(none)")
	assert.Contains(t, buf.String(), "Articles: 0")
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, WriteJSON(&buf, sampleReport()))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "philippines", decoded["keyword"])
	assert.Equal(t, "exhausted", decoded["state"])
	assert.EqualValues(t, 3, decoded["total_articles"])
}
