package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestNewSplitHandlerCollapses(t *testing.T) {
	if _, ok := newSplitHandler(nil, nil).(NoopHandler); !ok {
		t.Fatal("expected NoopHandler without destinations")
	}
	console := slog.NewJSONHandler(&bytes.Buffer{}, nil)
	if h := newSplitHandler(console, nil); h != console {
		t.Fatal("expected console handler alone when no run log is open")
	}
	file := slog.NewJSONHandler(&bytes.Buffer{}, nil)
	if h := newSplitHandler(nil, file); h != file {
		t.Fatal("expected file handler alone without a console")
	}
}

func TestSplitHandlerRespectsPerDestinationLevel(t *testing.T) {
	var console, file bytes.Buffer
	h := newSplitHandler(
		slog.NewJSONHandler(&console, &slog.HandlerOptions{Level: slog.LevelWarn}),
		slog.NewJSONHandler(&file, &slog.HandlerOptions{Level: slog.LevelDebug}),
	)
	if !h.Enabled(context.Background(), slog.LevelDebug) {
		t.Fatal("expected debug enabled while the run log accepts it")
	}

	logger := slog.New(h).With("component", "organizer")
	logger.Debug("debug only")
	logger.Warn("both", slog.String("attr", "value"))

	if strings.Contains(console.String(), "debug only") {
		t.Fatal("console received a debug record")
	}
	if !strings.Contains(file.String(), "debug only") {
		t.Fatalf("run log missing debug record: %q", file.String())
	}
	for name, buf := range map[string]*bytes.Buffer{"console": &console, "file": &file} {
		if !strings.Contains(buf.String(), `"attr":"value"`) || !strings.Contains(buf.String(), `"component":"organizer"`) {
			t.Fatalf("%s missing attributes: %q", name, buf.String())
		}
	}
}

func TestSplitHandlerGroupsBothDestinations(t *testing.T) {
	var console, file bytes.Buffer
	h := newSplitHandler(slog.NewJSONHandler(&console, nil), slog.NewJSONHandler(&file, nil))
	slog.New(h).WithGroup("move").Info("placed", slog.String("target", "a.jpg"))

	for name, buf := range map[string]*bytes.Buffer{"console": &console, "file": &file} {
		if !strings.Contains(buf.String(), `"move":{"target":"a.jpg"}`) {
			t.Fatalf("%s missing grouped attribute: %q", name, buf.String())
		}
	}
}

func TestRunIDHandlerStampsEveryRecord(t *testing.T) {
	var buf bytes.Buffer
	h := newRunIDHandler(slog.NewJSONHandler(&buf, nil), "run-42")
	logger := slog.New(h).With("component", "placer")
	logger.Info("first", slog.String("name", "a.jpg"))

	if !strings.Contains(buf.String(), `"run_id":"run-42"`) {
		t.Fatalf("missing run_id: %q", buf.String())
	}
}

func TestRunIDHandlerEmptyIDPassesThrough(t *testing.T) {
	inner := slog.NewJSONHandler(&bytes.Buffer{}, nil)
	if h := newRunIDHandler(inner, ""); h != inner {
		t.Fatal("expected base handler when run id is empty")
	}
}

func TestRunIDHandlerDefersToLoggerRunID(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newRunIDHandler(slog.NewJSONHandler(&buf, nil), "run-42")).With(FieldRunID, "run-42")
	logger.Info("once")

	if got := strings.Count(buf.String(), `"run_id"`); got != 1 {
		t.Fatalf("expected run_id once, got %d in %q", got, buf.String())
	}
}
