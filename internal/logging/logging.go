// Package logging builds the structured logger used by the passbuilder CLI.
package logging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"go.opentelemetry.io/otel/trace"
)

// Service is the value of the service attribute on every record.
const Service = "passbuilder"

var (
	// ErrInvalidFormat is returned by [Setup] for a format other than json or text.
	ErrInvalidFormat = errors.New("logging: format must be json or text")

	// ErrInvalidLevel is returned by [Setup] and [ParseLevel] for an unknown level.
	ErrInvalidLevel = errors.New("logging: level must be debug, info, warn or error")
)

// serviceHandler wraps a slog.Handler to add the service name and the trace
// context of the record.  The span comes from the context passed to the
// logging call, or from ctx when that carries none.
type serviceHandler struct {
	handler slog.Handler
	service string
	ctx     context.Context
}

// Handle adds the service and trace attributes to the record.
func (h *serviceHandler) Handle(ctx context.Context, r slog.Record) error {
	r.AddAttrs(slog.String("service", h.service))

	spanCtx := trace.SpanContextFromContext(ctx)
	if !spanCtx.IsValid() && h.ctx != nil {
		spanCtx = trace.SpanContextFromContext(h.ctx)
	}
	if spanCtx.HasTraceID() {
		r.AddAttrs(slog.String("trace_id", spanCtx.TraceID().String()))
	}
	if spanCtx.HasSpanID() {
		r.AddAttrs(slog.String("span_id", spanCtx.SpanID().String()))
	}

	//nolint:wrapcheck // Handler interface requires unwrapped error passthrough
	return h.handler.Handle(ctx, r)
}

// Enabled returns true if the level is enabled.
func (h *serviceHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// WithAttrs returns a new handler with the given attributes.
func (h *serviceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &serviceHandler{handler: h.handler.WithAttrs(attrs), service: h.service, ctx: h.ctx}
}

// WithGroup returns a new handler with the given group.
func (h *serviceHandler) WithGroup(name string) slog.Handler {
	return &serviceHandler{handler: h.handler.WithGroup(name), service: h.service, ctx: h.ctx}
}

// WithContext returns a logger whose records carry the span of ctx even when
// they are logged without a context, as the hashing library does.  Loggers
// not created by [Setup] are returned unchanged.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	h, ok := logger.Handler().(*serviceHandler)
	if !ok {
		return logger
	}
	return slog.New(&serviceHandler{handler: h.handler, service: h.service, ctx: ctx})
}

// ParseLevel maps debug, info, warn or error (case-insensitive) to a
// slog.Level.  An empty string is info.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("%w: got %q", ErrInvalidLevel, level)
	}
}

// Setup creates a configured slog.Logger.
// format: "json" or "text" (defaults to "text" if empty).
// level: see [ParseLevel].
// If w is nil, writes to os.Stderr.
func Setup(format, level string, w io.Writer) (*slog.Logger, error) {
	if w == nil {
		w = os.Stderr
	}

	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: lvl}

	var base slog.Handler
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "text":
		base = slog.NewTextHandler(w, opts)
	case "json":
		base = slog.NewJSONHandler(w, opts)
	default:
		return nil, fmt.Errorf("%w: got %q", ErrInvalidFormat, format)
	}

	return slog.New(&serviceHandler{handler: base, service: Service}), nil
}
