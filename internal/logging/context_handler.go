package logging

import (
	"context"
	"log/slog"
)

// contextHandler stamps run, branch, and device fields carried by the
// record's context onto every record before delegating.
type contextHandler struct {
	base slog.Handler
}

func newContextHandler(base slog.Handler) slog.Handler {
	if base == nil {
		return NoopHandler{}
	}
	return &contextHandler{base: base}
}

func (h *contextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.base.Enabled(ctx, level)
}

func (h *contextHandler) Handle(ctx context.Context, record slog.Record) error {
	if fields := ContextFields(ctx); len(fields) > 0 {
		record.AddAttrs(fields...)
	}
	return h.base.Handle(ctx, record)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{base: h.base.WithAttrs(attrs)}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{base: h.base.WithGroup(name)}
}
