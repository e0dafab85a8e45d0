package log

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Format selects how log records are rendered.
type Format string

const (
	FormatText   Format = "text"
	FormatColour Format = "colour"
	FormatJSON   Format = "json"
)

// ParseFormat accepts "text", "colour" (or "color") and "json", ignoring case.
func ParseFormat(value string) (Format, error) {
	switch format := Format(strings.ToLower(strings.TrimSpace(value))); format {
	case FormatText, FormatColour, FormatJSON:
		return format, nil
	case "color":
		return FormatColour, nil
	default:
		return "", fmt.Errorf("unsupported log format: %q", value)
	}
}

// HandlerFunc builds the slog.Handler used by New.
type HandlerFunc func(w io.Writer, opts *slog.HandlerOptions) slog.Handler

type params struct {
	verbose bool
	handler HandlerFunc
	attrs   []slog.Attr
	writer  io.Writer
}

type Option func(params *params)

// WithVerbose enables debug records, including one per API request.
func WithVerbose(verbose bool) Option {
	return func(params *params) {
		params.verbose = verbose
	}
}

// WithHandler sets a custom handler constructor.
func WithHandler(fn HandlerFunc) Option {
	return func(params *params) {
		params.handler = fn
	}
}

// WithFormat picks one of the built in handlers.
func WithFormat(format Format) Option {
	switch format {
	case FormatJSON:
		return WithHandler(func(w io.Writer, opts *slog.HandlerOptions) slog.Handler {
			return slog.NewJSONHandler(w, opts)
		})
	case FormatColour:
		return WithHandler(func(w io.Writer, opts *slog.HandlerOptions) slog.Handler {
			return tint.NewHandler(w, &tint.Options{
				Level:       opts.Level,
				AddSource:   opts.AddSource,
				ReplaceAttr: opts.ReplaceAttr,
				TimeFormat:  time.TimeOnly,
			})
		})
	default:
		return WithHandler(textHandler)
	}
}

// WithAttrs adds attributes to every record, e.g. the build version.
func WithAttrs(attrs ...slog.Attr) Option {
	return func(params *params) {
		params.attrs = append(params.attrs, attrs...)
	}
}

// WithWriter sets the output writer for logs.
// If w is nil, records are discarded.
func WithWriter(w io.Writer) Option {
	return func(params *params) {
		params.writer = w
	}
}

// New creates a new slog.Logger.
// By default records are text at Info level and are discarded.
//
// Example:
//
//	logger := log.New(
//	    log.WithWriter(os.Stderr),
//	    log.WithFormat(log.FormatJSON),
//	    log.WithVerbose(true),
//	)
func New(opts ...Option) *slog.Logger {
	var params params
	for _, opt := range opts {
		if opt == nil {
			continue
		}

		opt(&params)
	}

	if params.writer == nil {
		return slog.New(slog.DiscardHandler)
	}

	level := slog.LevelInfo
	if params.verbose {
		level = slog.LevelDebug
	}

	handlerOpts := &slog.HandlerOptions{
		Level:       level,
		AddSource:   true,
		ReplaceAttr: ReplaceSourceAttr,
	}

	newHandler := params.handler
	if newHandler == nil {
		newHandler = textHandler
	}

	handler := newHandler(params.writer, handlerOpts)
	if len(params.attrs) > 0 {
		handler = handler.WithAttrs(params.attrs)
	}

	return slog.New(handler)
}

func textHandler(w io.Writer, opts *slog.HandlerOptions) slog.Handler {
	return slog.NewTextHandler(w, opts)
}

// ReplaceSourceAttr shortens the source attribute to "file.go:line".
func ReplaceSourceAttr(_ []string, a slog.Attr) slog.Attr {
	if a.Key != slog.SourceKey {
		return a
	}

	source, ok := a.Value.Any().(*slog.Source)
	if !ok {
		return a
	}

	return slog.String(slog.SourceKey, fmt.Sprintf("%s:%d", filepath.Base(source.File), source.Line))
}
