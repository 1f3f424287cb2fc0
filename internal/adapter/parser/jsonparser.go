package parser

import (
	"context"
	"coverage/internal/domain"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
)

var (
	ErrMalformedResponse = errors.New("response object is missing")
	ErrMissingField      = errors.New("result is missing a required field")
	ErrAPIStatus         = errors.New("api returned non-ok status")
)

type envelopeJSON struct {
	Response *responseJSON `json:"response"`
}
type responseJSON struct {
	Status      string       `json:"status"`
	Message     string       `json:"message"`
	Total       int          `json:"total"`
	StartIndex  int          `json:"startIndex"`
	PageSize    int          `json:"pageSize"`
	CurrentPage int          `json:"currentPage"`
	Pages       int          `json:"pages"`
	Results     []resultJSON `json:"results"`
}

// Обязательные поля объявлены указателями: отсутствие ключа отличается от пустой строки.
type resultJSON struct {
	ID                 string  `json:"id"`
	Type               *string `json:"type"`
	SectionID          string  `json:"sectionId"`
	SectionName        *string `json:"sectionName"`
	WebPublicationDate *string `json:"webPublicationDate"`
	WebTitle           *string `json:"webTitle"`
	WebURL             string  `json:"webUrl"`
	APIURL             string  `json:"apiUrl"`
}

type JSONParser struct {
	log *slog.Logger
}

func NewJSONParser(log *slog.Logger) *JSONParser {
	return &JSONParser{
		log: log,
	}
}

// Parse реализует метод интерфейса PageParser.
func (p *JSONParser) Parse(ctx context.Context, reader io.Reader) (*domain.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var env envelopeJSON
	decoder := json.NewDecoder(reader)
	if err := decoder.Decode(&env); err != nil {
		p.log.Error(
			"Error decoding JSON",
			slog.Any("error", err),
		)
		return nil, fmt.Errorf("failed to decode JSON: %w", err)
	}
	if env.Response == nil {
		return nil, ErrMalformedResponse
	}
	resp := env.Response
	if resp.Status != "" && resp.Status != "ok" {
		p.log.Error(
			"API returned error status",
			slog.String("status", resp.Status),
			slog.String("message", resp.Message),
		)
		return nil, fmt.Errorf("%w: %s: %s", ErrAPIStatus, resp.Status, resp.Message)
	}
	page := domain.Page{
		Status:      resp.Status,
		Total:       resp.Total,
		StartIndex:  resp.StartIndex,
		PageSize:    resp.PageSize,
		CurrentPage: resp.CurrentPage,
		Pages:       resp.Pages,
		Results:     make([]domain.Result, 0, len(resp.Results)),
	}
	for i, dto := range resp.Results {
		if err := checkRequired(dto); err != nil {
			p.log.Error(
				"Malformed result entry",
				slog.Int("page", resp.CurrentPage),
				slog.Int("index", i),
				slog.Any("error", err),
			)
			return nil, fmt.Errorf("page %d result %d: %w", resp.CurrentPage, i, err)
		}
		page.Results = append(page.Results, domain.Result{
			ID:                 dto.ID,
			Type:               *dto.Type,
			SectionID:          dto.SectionID,
			SectionName:        *dto.SectionName,
			WebPublicationDate: *dto.WebPublicationDate,
			WebTitle:           *dto.WebTitle,
			WebURL:             dto.WebURL,
			APIURL:             dto.APIURL,
		})
	}
	return &page, nil
}

func checkRequired(dto resultJSON) error {
	switch {
	case dto.WebTitle == nil:
		return fmt.Errorf("%w: webTitle", ErrMissingField)
	case dto.SectionName == nil:
		return fmt.Errorf("%w: sectionName", ErrMissingField)
	case dto.WebPublicationDate == nil:
		return fmt.Errorf("%w: webPublicationDate", ErrMissingField)
	case dto.Type == nil:
		return fmt.Errorf("%w: type", ErrMissingField)
	}
	return nil
}
