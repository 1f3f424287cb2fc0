// Package metrics публикует метрики сбора и распределения статей в формате Prometheus.
package metrics

import (
	"coverage/internal/analysis"
	"coverage/internal/domain"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "coverage"

var (
	articlesByYearDesc = prometheus.NewDesc(
		namespace+"_dataset_articles_by_year",
		"Articles in the loaded dataset by publication year",
		[]string{"keyword", "year"},
		nil,
	)
	articlesBySectionDesc = prometheus.NewDesc(
		namespace+"_dataset_articles_by_section",
		"Articles in the loaded dataset by section",
		[]string{"keyword", "section"},
		nil,
	)
	articlesByTypeDesc = prometheus.NewDesc(
		namespace+"_dataset_articles_by_type",
		"Articles in the loaded dataset by item type",
		[]string{"keyword", "type"},
		nil,
	)
)

// Metrics держит собственный реестр и счетчики сбора.
type Metrics struct {
	registry      *prometheus.Registry
	pagesFetched  *prometheus.CounterVec
	fetchDuration prometheus.Histogram
	articles      *prometheus.GaugeVec
	exhausted     *prometheus.GaugeVec
	lastCollected *prometheus.GaugeVec
}

// New создает реестр со стандартными метриками процесса и метриками сбора.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		pagesFetched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pages_fetched_total",
			Help:      "Search API page requests by HTTP status (0 means transport error)",
		}, []string{"status"}),
		fetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "page_fetch_duration_seconds",
			Help:      "Duration of search API page requests",
			Buckets:   prometheus.DefBuckets,
		}),
		articles: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "collected_articles",
			Help:      "Articles in the last collection",
		}, []string{"keyword"}),
		exhausted: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "collection_exhausted",
			Help:      "1 if the last collection ended before the advertised page count",
		}, []string{"keyword"}),
		lastCollected: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "collection_timestamp_seconds",
			Help:      "Unix time of the last collection",
		}, []string{"keyword"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.pagesFetched,
		m.fetchDuration,
		m.articles,
		m.exhausted,
		m.lastCollected,
	)
	return m
}

// Registry возвращает реестр метрик.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler отдает метрики реестра по HTTP.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveFetch учитывает один запрос страницы.
func (m *Metrics) ObserveFetch(status int, d time.Duration) {
	m.pagesFetched.WithLabelValues(strconv.Itoa(status)).Inc()
	m.fetchDuration.Observe(d.Seconds())
}

// ObserveCollection фиксирует итог сбора.
func (m *Metrics) ObserveCollection(c *domain.Collection) {
	m.articles.WithLabelValues(c.Keyword).Set(float64(c.Table.Len()))
	exhausted := 0.0
	if c.State == domain.ExtractExhausted {
		exhausted = 1
	}
	m.exhausted.WithLabelValues(c.Keyword).Set(exhausted)
	m.lastCollected.WithLabelValues(c.Keyword).Set(float64(c.CollectedAt.Unix()))
}

// RegisterDataset подключает коллектор распределений загруженной таблицы.
func (m *Metrics) RegisterDataset(src CollectionSource) error {
	return m.registry.Register(&DatasetCollector{src: src})
}

// CollectionSource отдает текущую коллекцию или nil, если она еще не загружена.
type CollectionSource interface {
	Collection() *domain.Collection
}

// DatasetCollector считает распределения по годам, разделам и типам в момент опроса.
type DatasetCollector struct {
	src CollectionSource
}

func (c *DatasetCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- articlesByYearDesc
	ch <- articlesBySectionDesc
	ch <- articlesByTypeDesc
}

func (c *DatasetCollector) Collect(ch chan<- prometheus.Metric) {
	col := c.src.Collection()
	if col == nil {
		return
	}
	for _, yc := range analysis.YearCounts(col.Table) {
		ch <- prometheus.MustNewConstMetric(articlesByYearDesc, prometheus.GaugeValue,
			float64(yc.Count), col.Keyword, strconv.Itoa(yc.Year))
	}
	for _, vc := range analysis.CategoryCounts(col.Table) {
		ch <- prometheus.MustNewConstMetric(articlesBySectionDesc, prometheus.GaugeValue,
			float64(vc.Count), col.Keyword, vc.Value)
	}
	for _, vc := range analysis.TypeCounts(col.Table) {
		ch <- prometheus.MustNewConstMetric(articlesByTypeDesc, prometheus.GaugeValue,
			float64(vc.Count), col.Keyword, vc.Value)
	}
}
