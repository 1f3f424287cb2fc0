package logger

import (
	"context"
	"coverage/internal/config"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"
)

// New создает логгер приложения на основе конфигурации.
// Обычные сообщения пишутся в cfg.File, ошибки в cfg.ErrorFile; пустое имя означает stderr.
// Возвращает функцию закрытия открытых файлов.
func New(cfg config.LoggerConfig) (*slog.Logger, func() error, error) {
	var closers []io.Closer
	closeAll := func() error {
		var firstErr error
		for _, c := range closers {
			if err := c.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		return firstErr
	}
	open := func(path string) (io.Writer, error) {
		if path == "" {
			return os.Stderr, nil
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %w", path, err)
		}
		closers = append(closers, f)
		return f, nil
	}
	logWriter, err := open(cfg.File)
	if err != nil {
		return nil, nil, err
	}
	errorWriter, err := open(cfg.ErrorFile)
	if err != nil {
		closeAll()
		return nil, nil, err
	}
	return NewWithWriters(logWriter, errorWriter, cfg.Level), closeAll, nil
}

// NewWithWriters создает логгер с маршрутизацией по уровням поверх произвольных writer'ов.
func NewWithWriters(out, errOut io.Writer, level string) *slog.Logger {
	handler := NewLevelDispatcherHandler(out, errOut, &slog.HandlerOptions{
		AddSource: true,
		Level:     parseLogLevel(level),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.SourceKey {
				if source, ok := a.Value.Any().(*slog.Source); ok {
					source.File = filepath.Base(source.File)
				}
			}
			return a
		},
	})
	return slog.New(handler)
}

// parseLogLevel преобразует уровень из конфигурации; неизвестное значение дает info.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LevelDispatcherHandler направляет записи уровня ERROR и выше в отдельный обработчик.
type LevelDispatcherHandler struct {
	defaultHandler slog.Handler
	errorHandler   slog.Handler
}

// NewLevelDispatcherHandler создает обработчик, пишущий ошибки в errorOut, остальное в defaultOut.
func NewLevelDispatcherHandler(defaultOut, errorOut io.Writer, opts *slog.HandlerOptions) *LevelDispatcherHandler {
	return &LevelDispatcherHandler{
		defaultHandler: NewReadableHandler(defaultOut, opts),
		errorHandler:   NewReadableHandler(errorOut, opts),
	}
}

func (h *LevelDispatcherHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.defaultHandler.Enabled(ctx, level)
}

func (h *LevelDispatcherHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelError {
		return h.errorHandler.Handle(ctx, r)
	}
	return h.defaultHandler.Handle(ctx, r)
}

func (h *LevelDispatcherHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &LevelDispatcherHandler{
		defaultHandler: h.defaultHandler.WithAttrs(attrs),
		errorHandler:   h.errorHandler.WithAttrs(attrs),
	}
}

func (h *LevelDispatcherHandler) WithGroup(name string) slog.Handler {
	return &LevelDispatcherHandler{
		defaultHandler: h.defaultHandler.WithGroup(name),
		errorHandler:   h.errorHandler.WithGroup(name),
	}
}

// Discard возвращает логгер, отбрасывающий все записи.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// ReadableHandler реализует slog.Handler с удобочитаемым форматированием логов:
// [время] УРОВЕНЬ [component] (op) <файл:строка>: сообщение | ключ=значение.
type ReadableHandler struct {
	w      io.Writer
	opts   *slog.HandlerOptions
	mu     *sync.Mutex
	attrs  []slog.Attr
	prefix string
}

// NewReadableHandler создает новый обработчик с читаемым форматированием.
// Если opts равен nil, используются настройки по умолчанию.
func NewReadableHandler(w io.Writer, opts *slog.HandlerOptions) *ReadableHandler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	return &ReadableHandler{w: w, opts: opts, mu: &sync.Mutex{}}
}

// Enabled определяет, обрабатывается ли указанный уровень логирования.
func (h *ReadableHandler) Enabled(ctx context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}
	return level >= minLevel
}

// Handle форматирует и записывает запись лога одной строкой.
// Атрибуты component и op выносятся в префикс, остальные перечисляются после сообщения.
func (h *ReadableHandler) Handle(ctx context.Context, r slog.Record) error {
	var component, operation string
	var attrs []slog.Attr
	collect := func(a slog.Attr, group string) {
		switch a.Key {
		case "component":
			component = a.Value.String()
		case "op":
			operation = a.Value.String()
		default:
			a.Key = group + a.Key
			attrs = append(attrs, a)
		}
	}
	for _, a := range h.attrs {
		collect(a, "")
	}
	r.Attrs(func(a slog.Attr) bool {
		collect(a, h.prefix)
		return true
	})

	var prefix strings.Builder
	fmt.Fprintf(&prefix, "[%s] %s", r.Time.Format("15:04:05.000"), h.formatLevel(r.Level))
	if component != "" {
		fmt.Fprintf(&prefix, " [%s]", component)
	}
	if operation != "" {
		fmt.Fprintf(&prefix, " (%s)", operation)
	}
	if h.opts.AddSource && r.PC != 0 {
		frame, _ := runtime.CallersFrames([]uintptr{r.PC}).Next()
		if frame.File != "" {
			fmt.Fprintf(&prefix, " <%s:%d>", filepath.Base(frame.File), frame.Line)
		}
	}
	message := r.Message
	if len(attrs) > 0 {
		parts := make([]string, 0, len(attrs))
		for _, attr := range attrs {
			parts = append(parts, h.formatAttr(attr))
		}
		message += " | " + strings.Join(parts, ", ")
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := fmt.Fprintf(h.w, "%s: %s\n", prefix.String(), message)
	return err
}

// formatLevel преобразует уровень логирования в строковое представление.
func (h *ReadableHandler) formatLevel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARN"
	case level >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}

// formatAttr форматирует атрибут лога в зависимости от его ключа и типа.
// Ошибки берутся в кавычки, длинные URL сокращаются, длительности округляются до миллисекунд.
func (h *ReadableHandler) formatAttr(attr slog.Attr) string {
	switch {
	case attr.Key == "error" || strings.HasSuffix(attr.Key, ".error"):
		return fmt.Sprintf("%s=%q", attr.Key, attr.Value.String())
	case attr.Key == "url":
		return fmt.Sprintf("url=%s", h.shortenURL(attr.Value.String()))
	case attr.Value.Kind() == slog.KindDuration:
		return fmt.Sprintf("%s=%s", attr.Key, attr.Value.Duration().Round(time.Millisecond))
	default:
		return fmt.Sprintf("%s=%s", attr.Key, attr.Value.String())
	}
}

// shortenURL сокращает длинные URL до схемы и домена.
func (h *ReadableHandler) shortenURL(url string) string {
	if len(url) > 50 {
		parts := strings.Split(url, "/")
		if len(parts) >= 3 {
			return fmt.Sprintf("%s//%s/...", parts[0], parts[2])
		}
	}
	return url
}

// WithAttrs возвращает обработчик, добавляющий attrs к каждой записи.
func (h *ReadableHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	clone := *h
	clone.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	clone.attrs = append(clone.attrs, h.attrs...)
	for _, a := range attrs {
		if a.Key != "component" && a.Key != "op" {
			a.Key = h.prefix + a.Key
		}
		clone.attrs = append(clone.attrs, a)
	}
	return &clone
}

// WithGroup возвращает обработчик, добавляющий к ключам последующих атрибутов префикс группы.
func (h *ReadableHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.prefix = h.prefix + name + "."
	return &clone
}
