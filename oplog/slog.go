package oplog

import (
	"context"
	"log/slog"
	"sort"
)

type SlogSink struct {
	logger *slog.Logger
	Level  slog.Level
}

// NewSlogSink returns a sink that writes to logger with the attributes in
// key order. A nil logger discards everything.
func NewSlogSink(logger *slog.Logger) *SlogSink {
	if logger == nil {
		logger = slog.New(discardHandler{})
	}
	return &SlogSink{logger: logger.With("component", "oplog"), Level: slog.LevelDebug}
}

func (s *SlogSink) Log(ctx context.Context, e Event) {
	op := e.Operation()
	keys := make([]string, 0, len(e))
	for k := range e {
		if k != op {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	attrs := make([]slog.Attr, 0, len(keys)+1)
	attrs = append(attrs, slog.String("op", op))
	for _, k := range keys {
		attrs = append(attrs, slog.Any(k, e[k]))
	}
	s.logger.LogAttrs(ctx, s.Level, "mongo "+op, attrs...)
}

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (d discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d discardHandler) WithGroup(string) slog.Handler           { return d }
