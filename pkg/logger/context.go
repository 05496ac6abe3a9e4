package logger

import (
	"context"
	"log/slog"
)

type attrsKey struct{}

// With returns a context carrying extra log attributes. Every *Context call
// on a logger built by Init (or wrapped with ContextHandler) adds them.
func With(ctx context.Context, args ...any) context.Context {
	var r slog.Record
	r.Add(args...)

	attrs := append([]slog.Attr(nil), Attrs(ctx)...)
	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, a)
		return true
	})
	return context.WithValue(ctx, attrsKey{}, attrs)
}

// Attrs returns the attributes attached with With, oldest first.
func Attrs(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	attrs, _ := ctx.Value(attrsKey{}).([]slog.Attr)
	return attrs
}

type contextHandler struct {
	slog.Handler
}

// ContextHandler decorates h so records pick up the attributes stored in
// their context.
func ContextHandler(h slog.Handler) slog.Handler {
	if _, ok := h.(contextHandler); ok {
		return h
	}
	return contextHandler{Handler: h}
}

func (h contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if attrs := Attrs(ctx); len(attrs) > 0 {
		r = r.Clone()
		r.AddAttrs(attrs...)
	}
	return h.Handler.Handle(ctx, r)
}

func (h contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return contextHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h contextHandler) WithGroup(name string) slog.Handler {
	return contextHandler{Handler: h.Handler.WithGroup(name)}
}
