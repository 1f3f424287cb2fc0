package metrics

import (
	"coverage/internal/domain"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticSource struct {
	c *domain.Collection
}

func (s staticSource) Collection() *domain.Collection { return s.c }

func testCollection() *domain.Collection {
	return &domain.Collection{
		Keyword:     "philippines",
		CollectedAt: time.Unix(1_700_000_000, 0),
		State:       domain.ExtractExhausted,
		Table: &domain.Table{Records: []domain.Record{
			{Category: "World news", ItemType: "article", Date: time.Date(2013, 11, 8, 0, 0, 0, 0, time.UTC)},
			{Category: "World news", ItemType: "liveblog", Date: time.Date(2013, 11, 9, 0, 0, 0, 0, time.UTC)},
			{Category: "Opinion", ItemType: "article", Date: time.Date(2016, 5, 1, 0, 0, 0, 0, time.UTC)},
		}},
	}
}

func TestObserveFetch(t *testing.T) {
	m := New()

	m.ObserveFetch(200, 120*time.Millisecond)
	m.ObserveFetch(200, 80*time.Millisecond)
	m.ObserveFetch(429, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.pagesFetched.WithLabelValues("200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.pagesFetched.WithLabelValues("429")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.fetchDuration))
}

func TestObserveCollection(t *testing.T) {
	m := New()

	m.ObserveCollection(testCollection())

	assert.Equal(t, 3.0, testutil.ToFloat64(m.articles.WithLabelValues("philippines")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.exhausted.WithLabelValues("philippines")))
	assert.Equal(t, 1.7e9, testutil.ToFloat64(m.lastCollected.WithLabelValues("philippines")))
}

func TestDatasetCollector(t *testing.T) {
	collector := &DatasetCollector{src: staticSource{c: testCollection()}}

	expected := `
# HELP coverage_dataset_articles_by_year Articles in the loaded dataset by publication year
# TYPE coverage_dataset_articles_by_year gauge
coverage_dataset_articles_by_year{keyword="philippines",year="2013"} 2
coverage_dataset_articles_by_year{keyword="philippines",year="2016"} 1
`
	require.NoError(t, testutil.CollectAndCompare(collector, strings.NewReader(expected), "coverage_dataset_articles_by_year"))
	assert.Equal(t, 6, testutil.CollectAndCount(collector))
}

func TestDatasetCollector_NotLoaded(t *testing.T) {
	collector := &DatasetCollector{src: staticSource{}}
	assert.Equal(t, 0, testutil.CollectAndCount(collector))
}

func TestHandler(t *testing.T) {
	m := New()
	require.NoError(t, m.RegisterDataset(staticSource{c: testCollection()}))
	m.ObserveFetch(200, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `coverage_pages_fetched_total{status="200"} 1`)
	assert.Contains(t, body, `coverage_dataset_articles_by_section{keyword="philippines",section="World news"} 2`)
	assert.Contains(t, body, "go_goroutines")
}
