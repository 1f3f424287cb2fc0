// Package cli содержит команды coverage: analyze, report, serve и version.
package cli

import (
	"context"
	"coverage/internal/app"
	"coverage/internal/config"
	"coverage/internal/logger"
	"coverage/internal/report"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

// SetBuildInfo задает сведения о сборке, переданные через ldflags.
func SetBuildInfo(v, c, bt string) {
	if v != "" {
		version = v
	}
	if c != "" {
		commit = c
	}
	if bt != "" {
		buildTime = bt
	}
}

// options - общее состояние команд: флаги, загруженная конфигурация и логгер.
type options struct {
	cfgFile  string
	verbose  bool
	noColor  bool
	keyword  string
	fromDate string
	maxPages int

	cfg      *config.Config
	log      *slog.Logger
	closeLog func() error
}

// NewRootCommand создает дерево команд.
func NewRootCommand() *cobra.Command {
	root, _ := newRootCommand()
	return root
}

func newRootCommand() (*cobra.Command, *options) {
	opts := &options{}
	root := &cobra.Command{
		Use:   "coverage",
		Short: "Topic coverage analyzer for the Guardian content API",
		Long: `coverage retrieves every article matching a keyword from the Guardian
content search API and reports how coverage is distributed over time,
sections, item types and headline terms.

Example usage:
  coverage analyze                       # Collect and print the report
  coverage analyze --keyword manila      # Override the configured keyword
  coverage analyze --save --json         # Store a snapshot, print JSON
  coverage report                        # Render the latest stored snapshot
  coverage serve                         # Serve the report over HTTP`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			opts.close()
		},
	}
	flags := root.PersistentFlags()
	flags.StringVar(&opts.cfgFile, "config", "", "config file (default is ./coverage.yaml)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")
	flags.BoolVar(&opts.noColor, "no-color", false, "disable colored output")
	flags.StringVar(&opts.keyword, "keyword", "", "search keyword (overrides api.keyword)")
	flags.StringVar(&opts.fromDate, "from-date", "", "earliest publication date, YYYY-MM-DD (overrides api.from_date)")
	flags.IntVar(&opts.maxPages, "max-pages", -1, "maximum pages to fetch, 0 for all (overrides api.max_pages)")

	root.AddCommand(
		newAnalyzeCommand(opts),
		newReportCommand(opts),
		newServeCommand(opts),
		newVersionCommand(),
	)
	return root, opts
}

// Execute запускает CLI с аргументами командной строки.
func Execute(ctx context.Context) error {
	root, opts := newRootCommand()
	defer opts.close()
	return root.ExecuteContext(ctx)
}

// load загружает конфигурацию, применяет флаги и создает логгер.
func (o *options) load(cmd *cobra.Command) error {
	cfg, err := config.Load(o.cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if o.applyOverrides(cfg) {
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid flags: %w", err)
		}
	}
	if o.verbose {
		cfg.Logger.Level = "debug"
	}
	log, closeLog, err := logger.New(cfg.Logger)
	if err != nil {
		return fmt.Errorf("failed to setup logger: %w", err)
	}
	o.cfg = cfg
	o.log = log
	o.closeLog = closeLog
	log.Debug("Configuration loaded",
		slog.String("component", "cli"),
		slog.String("command", cmd.Name()),
		slog.String("keyword", cfg.API.Keyword),
		slog.String("from_date", cfg.API.FromDate),
		slog.Int("max_pages", cfg.API.MaxPages),
	)
	return nil
}

func (o *options) applyOverrides(cfg *config.Config) bool {
	changed := false
	if o.keyword != "" {
		cfg.API.Keyword = o.keyword
		changed = true
	}
	if o.fromDate != "" {
		cfg.API.FromDate = o.fromDate
		changed = true
	}
	if o.maxPages >= 0 {
		cfg.API.MaxPages = o.maxPages
		changed = true
	}
	return changed
}

func (o *options) close() {
	if o.closeLog != nil {
		o.closeLog()
		o.closeLog = nil
	}
}

func (o *options) newApp(cmd *cobra.Command) (*app.App, error) {
	a, err := app.New(cmd.Context(), o.cfg, o.log)
	if err != nil {
		return nil, fmt.Errorf("failed to init app: %w", err)
	}
	return a, nil
}

// renderer учитывает output.colors, флаг --no-color и переменную NO_COLOR.
func (o *options) renderer(cmd *cobra.Command) *report.Renderer {
	colors := o.cfg.Output.Colors && !o.noColor
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		colors = false
	}
	return report.NewRenderer(cmd.OutOrStdout(), report.Options{
		Colors:     colors,
		ChartWidth: o.cfg.Output.ChartWidth,
	})
}
