package usecase

import (
	"context"
	"coverage/internal/adapter/fetcher"
	"coverage/internal/adapter/parser"
	"coverage/internal/analysis"
	"coverage/internal/config"
	"coverage/internal/domain"
	"coverage/internal/guardiantest"
	"coverage/internal/pagination"
	"coverage/internal/textstat"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newCollector(srv *guardiantest.Server, key string, maxPages int) *CollectUseCase {
	log := discardLogger()
	q := pagination.Query{
		Endpoint: srv.Endpoint(),
		Keyword:  "philippines",
		FromDate: "2000-01-01",
		APIKey:   key,
		PageSize: 10,
	}
	return NewCollectUseCase(fetcher.NewHTTPFetcher(log), parser.NewJSONParser(log), q, maxPages, log)
}

type recordingObserver struct {
	got *domain.Collection
}

func (o *recordingObserver) ObserveCollection(c *domain.Collection) { o.got = c }

func TestCollect_AllPages(t *testing.T) {
	srv := guardiantest.NewServer(t, guardiantest.Articles(25, time.Date(2013, 11, 1, 8, 0, 0, 0, time.UTC)))
	obs := &recordingObserver{}

	c, err := newCollector(srv, "k", 0).WithObserver(obs).Collect(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3}, srv.Requests(), "page 1 is fetched once")
	assert.Equal(t, 25, c.Table.Len())
	assert.Equal(t, 25, c.TotalResults)
	assert.Equal(t, 3, c.PagesRead)
	assert.Equal(t, 3, c.ExpectedPages)
	assert.Equal(t, domain.ExtractComplete, c.State)
	assert.Equal(t, "philippines", c.Keyword)
	assert.Equal(t, "Headline number 1", c.Table.Records[0].Headline)
	assert.Equal(t, "Headline number 25", c.Table.Records[24].Headline)
	assert.Equal(t, time.Date(2013, 11, 25, 0, 0, 0, 0, time.UTC), c.Table.Records[24].Date)
	assert.Same(t, c, obs.got)
}

func TestCollect_MaxPages(t *testing.T) {
	srv := guardiantest.NewServer(t, guardiantest.Articles(45, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)))

	c, err := newCollector(srv, "k", 2).Collect(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2}, srv.Requests())
	assert.Equal(t, 20, c.Table.Len())
	assert.Equal(t, 45, c.TotalResults)
	assert.Equal(t, domain.ExtractComplete, c.State)
}

func TestCollect_ShortfallIsExhausted(t *testing.T) {
	srv := guardiantest.NewServer(t, guardiantest.Articles(30, time.Date(2016, 5, 1, 0, 0, 0, 0, time.UTC)))
	srv.Served = 14

	c, err := newCollector(srv, "k", 0).Collect(context.Background())
	require.NoError(t, err)

	assert.Equal(t, domain.ExtractExhausted, c.State)
	assert.Equal(t, 14, c.Table.Len())
	assert.Equal(t, 2, c.PagesRead)
	assert.Equal(t, 3, c.ExpectedPages)
}

func TestCollect_NoResults(t *testing.T) {
	srv := guardiantest.NewServer(t, nil)

	c, err := newCollector(srv, "k", 0).Collect(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, c.Table.Len())
	assert.Equal(t, domain.ExtractComplete, c.State)
	assert.Equal(t, []int{1}, srv.Requests())
}

func TestCollect_FetchErrorAborts(t *testing.T) {
	srv := guardiantest.NewServer(t, guardiantest.Articles(5, time.Now()))
	srv.APIKey = "expected"

	_, err := newCollector(srv, "wrong", 0).Collect(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "Unauthorized")
	assert.NotContains(t, err.Error(), "wrong")
}

type stubFetcher struct {
	bodies []string
	calls  int
}

func (f *stubFetcher) Fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	body := f.bodies[f.calls]
	f.calls++
	return io.NopCloser(strings.NewReader(body)), nil
}

func TestCollect_MalformedResultAborts(t *testing.T) {
	f := &stubFetcher{bodies: []string{
		`{"response":{"status":"ok","total":1,"pageSize":10,"currentPage":1,"pages":1,"results":[{"webTitle":"x","type":"article","sectionName":"World"}]}}`,
	}}
	uc := NewCollectUseCase(f, parser.NewJSONParser(discardLogger()), pagination.Query{Endpoint: "http://api", PageSize: 10}, 0, discardLogger())

	_, err := uc.Collect(context.Background())
	assert.ErrorIs(t, err, parser.ErrMissingField)
}

func TestCollect_MalformedDateAborts(t *testing.T) {
	f := &stubFetcher{bodies: []string{
		`{"response":{"status":"ok","total":1,"pageSize":10,"currentPage":1,"pages":1,"results":[{"webTitle":"x","type":"article","sectionName":"World","webPublicationDate":"yesterday"}]}}`,
	}}
	uc := NewCollectUseCase(f, parser.NewJSONParser(discardLogger()), pagination.Query{Endpoint: "http://api", PageSize: 10}, 0, discardLogger())

	_, err := uc.Collect(context.Background())
	assert.Error(t, err)
}

func testCollection() *domain.Collection {
	return &domain.Collection{
		Keyword: "philippines",
		Table: &domain.Table{Records: []domain.Record{
			{Headline: "Typhoon Haiyan says aid", Category: "World news", ItemType: "article", Date: time.Date(2013, 11, 8, 0, 0, 0, 0, time.UTC)},
			{Headline: "Haiyan recovery", Category: "World news", ItemType: "article", Date: time.Date(2013, 11, 9, 0, 0, 0, 0, time.UTC)},
			{Headline: "Coronavirus lockdown", Category: "World news", ItemType: "liveblog", Date: time.Date(2020, 3, 16, 0, 0, 0, 0, time.UTC)},
		}},
	}
}

func TestAnalysisOptions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stop.txt")
	require.NoError(t, os.WriteFile(path, []byte("manila\n"), 0o644))
	cfg := config.New().Analysis
	cfg.StopwordsFile = path
	cfg.ExtraStopwords = []string{"says"}
	cfg.Focus = []config.FocusConfig{{Year: 2013, Months: []int{11}}}

	opts, err := AnalysisOptions(cfg)
	require.NoError(t, err)

	assert.True(t, opts.Stopwords.Contains("the"))
	assert.True(t, opts.Stopwords.Contains("manila"))
	assert.True(t, opts.Stopwords.Contains("says"))
	assert.Equal(t, []analysis.Window{{Year: 2013, Months: []int{11}}}, opts.Windows)
	assert.Equal(t, 30, opts.TopTerms)

	cfg.StopwordsFile = filepath.Join(t.TempDir(), "absent.txt")
	_, err = AnalysisOptions(cfg)
	assert.Error(t, err)
}

func TestDatasetUseCase(t *testing.T) {
	opts := analysis.Options{Stopwords: textstat.EnglishStopwords().With("says"), TopTerms: 5, PeakYears: 1}
	uc := NewDatasetUseCase(NewAnalyzeUseCase(opts, discardLogger()))
	ctx := context.Background()

	_, err := uc.Report(ctx)
	assert.ErrorIs(t, err, ErrNotReady)
	_, err = uc.Articles(ctx, 1)
	assert.ErrorIs(t, err, ErrNotReady)
	_, err = uc.Terms(ctx, 1, 0, nil)
	assert.ErrorIs(t, err, ErrNotReady)

	rep := uc.Load(testCollection())
	assert.Equal(t, 3, rep.TotalArticles)
	require.Len(t, rep.Focus, 1)
	assert.Equal(t, 2013, rep.Focus[0].Window.Year)

	got, err := uc.Report(ctx)
	require.NoError(t, err)
	assert.Same(t, rep, got)

	records, err := uc.Articles(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, records, 2)
	records, err = uc.Articles(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, records, 3)

	terms, err := uc.Terms(ctx, 1, 2013, []int{11})
	require.NoError(t, err)
	assert.Equal(t, []textstat.TermCount{{Term: "haiyan", Count: 2}}, terms)

	terms, err = uc.Terms(ctx, 0, 0, nil)
	require.NoError(t, err)
	assert.Len(t, terms, 6)
}

type memoryStorage struct {
	saved []*domain.Collection
	err   error
}

func (m *memoryStorage) SaveCollection(ctx context.Context, c *domain.Collection) (uuid.UUID, error) {
	if m.err != nil {
		return uuid.Nil, m.err
	}
	m.saved = append(m.saved, c)
	return uuid.New(), nil
}

func (m *memoryStorage) LatestCollection(ctx context.Context, keyword string) (*domain.Collection, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := len(m.saved) - 1; i >= 0; i-- {
		if m.saved[i].Keyword == keyword {
			return m.saved[i], nil
		}
	}
	return nil, errors.New("not found")
}

func TestSnapshotUseCase(t *testing.T) {
	store := &memoryStorage{}
	uc := NewSnapshotUseCase(store, discardLogger())
	ctx := context.Background()

	id, err := uc.Save(ctx, testCollection())
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, id)

	c, err := uc.Latest(ctx, "philippines")
	require.NoError(t, err)
	assert.Equal(t, 3, c.Table.Len())

	_, err = uc.Latest(ctx, "manila")
	assert.Error(t, err)

	store.err = errors.New("db down")
	_, err = uc.Save(ctx, testCollection())
	assert.ErrorContains(t, err, "db down")
}
