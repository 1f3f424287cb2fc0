package usecase

import (
	"context"
	"coverage/internal/analysis"
	"coverage/internal/domain"
	"coverage/internal/textstat"
	"errors"
	"sync"
)

// ErrNotReady возвращается, пока коллекция для API еще не загружена.
var ErrNotReady = errors.New("dataset is not loaded yet")

// DatasetUseCase хранит последнюю собранную коллекцию и отчет по ней и отдает их API.
// Коллекция после загрузки только читается.
type DatasetUseCase struct {
	analyzer   *AnalyzeUseCase
	mu         sync.RWMutex
	collection *domain.Collection
	report     *analysis.Report
}

// NewDatasetUseCase создает пустое хранилище коллекции для API.
func NewDatasetUseCase(analyzer *AnalyzeUseCase) *DatasetUseCase {
	return &DatasetUseCase{analyzer: analyzer}
}

// Load строит отчет по коллекции и делает ее текущей.
func (uc *DatasetUseCase) Load(c *domain.Collection) *analysis.Report {
	rep := uc.analyzer.Analyze(c)
	uc.mu.Lock()
	uc.collection = c
	uc.report = rep
	uc.mu.Unlock()
	return rep
}

// Collection возвращает текущую коллекцию или nil.
func (uc *DatasetUseCase) Collection() *domain.Collection {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	return uc.collection
}

// Report возвращает отчет по текущей коллекции.
func (uc *DatasetUseCase) Report(ctx context.Context) (*analysis.Report, error) {
	uc.mu.RLock()
	defer uc.mu.RUnlock()
	if uc.report == nil {
		return nil, ErrNotReady
	}
	return uc.report, nil
}

// Articles возвращает первые limit строк таблицы. limit <= 0 возвращает все строки.
func (uc *DatasetUseCase) Articles(ctx context.Context, limit int) ([]domain.Record, error) {
	c := uc.Collection()
	if c == nil {
		return nil, ErrNotReady
	}
	records := c.Table.Records
	if limit > 0 && limit < len(records) {
		records = records[:limit]
	}
	out := make([]domain.Record, len(records))
	copy(out, records)
	return out, nil
}

// Terms возвращает k самых частых терминов для года и месяцев; year == 0 означает всю таблицу.
func (uc *DatasetUseCase) Terms(ctx context.Context, k, year int, months []int) ([]textstat.TermCount, error) {
	c := uc.Collection()
	if c == nil {
		return nil, ErrNotReady
	}
	return uc.analyzer.Terms(c, k, year, months), nil
}
