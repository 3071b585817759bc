package logging

import (
	"context"
	"log/slog"
)

// runIDHandler stamps run_id onto every record.
type runIDHandler struct {
	base  slog.Handler
	runID string
}

func newRunIDHandler(base slog.Handler, runID string) slog.Handler {
	if base == nil {
		return NoopHandler{}
	}
	if runID == "" {
		return base
	}
	return &runIDHandler{base: base, runID: runID}
}

func (h *runIDHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.base.Enabled(ctx, level)
}

func (h *runIDHandler) Handle(ctx context.Context, record slog.Record) error {
	record.AddAttrs(slog.String(FieldRunID, h.runID))
	return h.base.Handle(ctx, record)
}

// WithAttrs stops stamping once a logger carries its own run_id, so a record
// never holds the key twice.
func (h *runIDHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	for _, attr := range attrs {
		if attr.Key == FieldRunID {
			return h.base.WithAttrs(attrs)
		}
	}
	return &runIDHandler{base: h.base.WithAttrs(attrs), runID: h.runID}
}

func (h *runIDHandler) WithGroup(name string) slog.Handler {
	return &runIDHandler{base: h.base.WithGroup(name), runID: h.runID}
}

// splitHandler writes each record to the console and, for runs with a log
// directory, to the run log file. Each destination applies its own level.
type splitHandler struct {
	console slog.Handler
	file    slog.Handler
}

func newSplitHandler(console, file slog.Handler) slog.Handler {
	switch {
	case console == nil && file == nil:
		return NoopHandler{}
	case file == nil:
		return console
	case console == nil:
		return file
	}
	return &splitHandler{console: console, file: file}
}

func (h *splitHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.console.Enabled(ctx, level) || h.file.Enabled(ctx, level)
}

// Handle clones the record for the console so the file handler sees the
// attributes unchanged.
func (h *splitHandler) Handle(ctx context.Context, record slog.Record) error {
	var consoleErr error
	if h.console.Enabled(ctx, record.Level) {
		consoleErr = h.console.Handle(ctx, record.Clone())
	}
	if !h.file.Enabled(ctx, record.Level) {
		return consoleErr
	}
	if err := h.file.Handle(ctx, record); err != nil {
		return err
	}
	return consoleErr
}

func (h *splitHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &splitHandler{console: h.console.WithAttrs(attrs), file: h.file.WithAttrs(attrs)}
}

func (h *splitHandler) WithGroup(name string) slog.Handler {
	return &splitHandler{console: h.console.WithGroup(name), file: h.file.WithGroup(name)}
}
