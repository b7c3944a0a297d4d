package logging

import (
	"context"
	"log/slog"
)

// FieldInvocationID tags every persisted record with the CLI run that wrote it.
const FieldInvocationID = "invocation_id"

type invocationHandler struct {
	base slog.Handler
	id   string
}

func newInvocationHandler(base slog.Handler, id string) slog.Handler {
	if base == nil {
		return NoopHandler{}
	}
	return &invocationHandler{base: base, id: id}
}

func (h *invocationHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.base.Enabled(ctx, level)
}

func (h *invocationHandler) Handle(ctx context.Context, record slog.Record) error {
	record.AddAttrs(slog.String(FieldInvocationID, h.id))
	return h.base.Handle(ctx, record)
}

func (h *invocationHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &invocationHandler{base: h.base.WithAttrs(attrs), id: h.id}
}

func (h *invocationHandler) WithGroup(name string) slog.Handler {
	return &invocationHandler{base: h.base.WithGroup(name), id: h.id}
}
