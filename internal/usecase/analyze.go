package usecase

import (
	"coverage/internal/analysis"
	"coverage/internal/config"
	"coverage/internal/domain"
	"coverage/internal/textstat"
	"fmt"
	"log/slog"
)

// AnalyzeUseCase строит отчет описательной статистики по собранной коллекции.
type AnalyzeUseCase struct {
	opts analysis.Options
	log  *slog.Logger
}

// NewAnalyzeUseCase создает анализатор с готовыми параметрами отчета.
func NewAnalyzeUseCase(opts analysis.Options, log *slog.Logger) *AnalyzeUseCase {
	return &AnalyzeUseCase{opts: opts, log: log}
}

// AnalysisOptions собирает параметры отчета из конфигурации: встроенный английский
// список стоп-слов, дополненный файлом и явными словами, окна разбора и лимиты терминов.
func AnalysisOptions(cfg config.AnalysisConfig) (analysis.Options, error) {
	stopwords := textstat.EnglishStopwords()
	if cfg.StopwordsFile != "" {
		fromFile, err := textstat.LoadStopwordsFile(cfg.StopwordsFile)
		if err != nil {
			return analysis.Options{}, fmt.Errorf("usecase.AnalysisOptions: %w", err)
		}
		for w := range fromFile {
			stopwords[w] = struct{}{}
		}
	}
	return analysis.Options{
		Stopwords:       stopwords.With(cfg.ExtraStopwords...),
		TopTerms:        cfg.TopTerms,
		TopTermsOverall: cfg.TopTermsOverall,
		Windows:         cfg.Windows(),
		PeakYears:       cfg.PeakYears,
	}, nil
}

// Analyze выполняет все агрегаты для коллекции.
func (uc *AnalyzeUseCase) Analyze(c *domain.Collection) *analysis.Report {
	rep := analysis.BuildReport(c, uc.opts)
	uc.log.Info("Report built",
		slog.String("component", "analyzer"),
		slog.Int("count", rep.TotalArticles),
		slog.Int("years", len(rep.Years)),
		slog.Int("windows", len(rep.Focus)),
	)
	return rep
}

// Terms возвращает k самых частых терминов заголовков для года и месяцев.
// year == 0 означает всю таблицу.
func (uc *AnalyzeUseCase) Terms(c *domain.Collection, k, year int, months []int) []textstat.TermCount {
	subset := c.Table
	if year != 0 {
		subset = c.Table.Filter(analysis.InMonths(year, months...))
	}
	tok := textstat.NewTokenizer(uc.opts.Stopwords)
	return tok.CountAll(subset.Headlines()).MostCommon(k)
}
