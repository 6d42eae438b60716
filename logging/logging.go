package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"gitlab.com/greyxor/slogor"
)

type ctxKey string

const (
	slogFields  ctxKey = "slog_fields"
	PackageName string = "package"
)

type ContextHandler struct {
	slog.Handler
}

// Handle adds contextual attributes to the Record before calling the underlying handler.
func (h ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if attrs, ok := ctx.Value(slogFields).([]slog.Attr); ok {
		for _, v := range attrs {
			r.AddAttrs(v)
		}
	}

	err := h.Handler.Handle(ctx, r)
	if err != nil {
		return fmt.Errorf("error handling record for a log: %+v: %w", r, err)
	}

	return nil
}

// WithAttrs and WithGroup keep the wrapper, otherwise derived loggers lose context attributes.
func (h ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return ContextHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h ContextHandler) WithGroup(name string) slog.Handler {
	return ContextHandler{Handler: h.Handler.WithGroup(name)}
}

// AppendCtx adds an slog attribute to the provided context so that it will be included in any Record created with such context.
func AppendCtx(parent context.Context, attr slog.Attr) context.Context {
	if v, ok := parent.Value(slogFields).([]slog.Attr); ok {
		// copy so sibling contexts do not share the backing array
		v = append(v[:len(v):len(v)], attr)

		return context.WithValue(parent, slogFields, v)
	}

	v := []slog.Attr{attr}

	return context.WithValue(parent, slogFields, v)
}

func PackageCtx(packageName string) context.Context {
	return AppendCtx(context.Background(), slog.String(PackageName, packageName))
}

// NewHandler builds the colored handler used by the CLI. Wrapping
// slog.Default().Handler() instead deadlocks once SetDefault is called, so the
// ContextHandler always wraps a fresh slogor handler.
func NewHandler(w io.Writer, level slog.Level) slog.Handler {
	return ContextHandler{Handler: slogor.NewHandler(w,
		slogor.SetLevel(level),
		slogor.SetTimeFormat(time.DateTime),
		slogor.ShowSource())}
}

// ParseLevel maps a flag value to a slog level. Unknown values fall back to info.
func ParseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}

	return level
}
