package parser

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONParser_Parse_Success(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	parser := NewJSONParser(logger)

	jsonData := `{
	"response": {
		"status": "ok",
		"total": 12,
		"startIndex": 1,
		"pageSize": 10,
		"currentPage": 1,
		"pages": 2,
		"results": [
			{
				"id": "world/2013/nov/08/typhoon-haiyan",
				"type": "article",
				"sectionId": "world",
				"sectionName": "World news",
				"webPublicationDate": "2013-11-08T12:00:00Z",
				"webTitle": "Typhoon Haiyan: the Philippines' worst disaster?",
				"webUrl": "https://www.theguardian.com/world/2013/nov/08/typhoon-haiyan",
				"apiUrl": "https://content.guardianapis.com/world/2013/nov/08/typhoon-haiyan"
			},
			{
				"id": "world/live/2020/mar/16/coronavirus",
				"type": "liveblog",
				"sectionId": "world",
				"sectionName": "World news",
				"webPublicationDate": "2020-03-16T23:59:00Z",
				"webTitle": "Coronavirus live: what happened today"
			}
		]
	}
}`

	ctx := context.Background()
	page, err := parser.Parse(ctx, strings.NewReader(jsonData))

	require.NoError(t, err)
	require.NotNil(t, page)

	assert.Equal(t, "ok", page.Status)
	assert.Equal(t, 12, page.Total)
	assert.Equal(t, 2, page.Pages)
	assert.Equal(t, 1, page.CurrentPage)
	assert.Equal(t, 10, page.PageSize)
	require.Len(t, page.Results, 2)

	assert.Equal(t, "Typhoon Haiyan: the Philippines' worst disaster?", page.Results[0].WebTitle)
	assert.Equal(t, "World news", page.Results[0].SectionName)
	assert.Equal(t, "2013-11-08T12:00:00Z", page.Results[0].WebPublicationDate)
	assert.Equal(t, "article", page.Results[0].Type)
	assert.Equal(t, "https://www.theguardian.com/world/2013/nov/08/typhoon-haiyan", page.Results[0].WebURL)

	assert.Equal(t, "liveblog", page.Results[1].Type)
	assert.Empty(t, page.Results[1].WebURL)
}

func TestJSONParser_Parse_InvalidJSON(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	parser := NewJSONParser(logger)

	page, err := parser.Parse(context.Background(), strings.NewReader(`{"response": {"results": [`))

	assert.Error(t, err)
	assert.Nil(t, page)
	assert.Contains(t, err.Error(), "failed to decode JSON")
}

func TestJSONParser_Parse_MissingResponse(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	parser := NewJSONParser(logger)

	page, err := parser.Parse(context.Background(), strings.NewReader(`{"message": "no"}`))

	assert.ErrorIs(t, err, ErrMalformedResponse)
	assert.Nil(t, page)
}

func TestJSONParser_Parse_MissingField(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	parser := NewJSONParser(logger)

	jsonData := `{"response": {"status": "ok", "currentPage": 3, "pages": 3, "results": [
		{"type": "article", "sectionName": "Opinion", "webTitle": "No date here"}
	]}}`

	page, err := parser.Parse(context.Background(), strings.NewReader(jsonData))

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingField))
	assert.Contains(t, err.Error(), "webPublicationDate")
	assert.Nil(t, page)
}

func TestJSONParser_Parse_EmptyStringIsPresent(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	parser := NewJSONParser(logger)

	jsonData := `{"response": {"status": "ok", "results": [
		{"type": "article", "sectionName": "", "webPublicationDate": "2001-01-01T00:00:00Z", "webTitle": ""}
	]}}`

	page, err := parser.Parse(context.Background(), strings.NewReader(jsonData))

	require.NoError(t, err)
	require.Len(t, page.Results, 1)
	assert.Empty(t, page.Results[0].SectionName)
}

func TestJSONParser_Parse_ErrorStatus(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	parser := NewJSONParser(logger)

	jsonData := `{"response": {"status": "error", "message": "requested page is beyond the number of available pages"}}`

	page, err := parser.Parse(context.Background(), strings.NewReader(jsonData))

	assert.ErrorIs(t, err, ErrAPIStatus)
	assert.Contains(t, err.Error(), "beyond the number of available pages")
	assert.Nil(t, page)
}

func TestJSONParser_Parse_ContextCancelled(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	parser := NewJSONParser(logger)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	page, err := parser.Parse(ctx, strings.NewReader(`{"response": {"status": "ok"}}`))
	assert.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Nil(t, page)
}

func TestJSONParser_Parse_EmptyResults(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	parser := NewJSONParser(logger)

	page, err := parser.Parse(context.Background(), strings.NewReader(`{"response": {"status": "ok", "total": 0, "pages": 0, "results": []}}`))

	require.NoError(t, err)
	require.NotNil(t, page)
	assert.Equal(t, 0, page.Pages)
	assert.Empty(t, page.Results)
}
