package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingHandler struct{ slog.Handler }

func (failingHandler) Handle(context.Context, slog.Record) error { return errors.New("boom") }

func TestMultiHandler(t *testing.T) {
	t.Run("Fans out by level", func(t *testing.T) {
		var debugBuf, warnBuf bytes.Buffer
		debugHandler := slog.NewTextHandler(&debugBuf, &slog.HandlerOptions{Level: slog.LevelDebug})
		warnHandler := slog.NewTextHandler(&warnBuf, &slog.HandlerOptions{Level: slog.LevelWarn})
		l := slog.New(NewMultiHandler(debugHandler, warnHandler))

		l.Debug("thinking", "bot.mark", "O")
		l.Warn("stale click", "move.row", 0)

		assert.Contains(t, debugBuf.String(), "thinking")
		assert.Contains(t, debugBuf.String(), "stale click")
		assert.NotContains(t, warnBuf.String(), "thinking")
		assert.Contains(t, warnBuf.String(), "stale click")
	})

	t.Run("Enabled if any handler is", func(t *testing.T) {
		h := NewMultiHandler(
			slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelError}),
			slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
		assert.True(t, h.Enabled(context.Background(), slog.LevelInfo))
		assert.False(t, h.Enabled(context.Background(), slog.LevelDebug))
	})

	t.Run("Attributes and groups reach every handler", func(t *testing.T) {
		var a, b bytes.Buffer
		l := slog.New(NewMultiHandler(slog.NewTextHandler(&a, nil), slog.NewTextHandler(&b, nil))).
			With("session.id", "s1").
			WithGroup("move")
		l.Info("placed", "row", 2)

		for _, out := range []string{a.String(), b.String()} {
			assert.Contains(t, out, "session.id=s1")
			assert.Contains(t, out, "move.row=2")
		}
	})

	t.Run("One failing handler does not silence the rest", func(t *testing.T) {
		var buf bytes.Buffer
		ok := slog.NewTextHandler(&buf, nil)
		h := NewMultiHandler(failingHandler{ok}, ok)

		r := slog.NewRecord(time.Time{}, slog.LevelInfo, "hello", 0)
		err := h.Handle(context.Background(), r)

		require.Error(t, err)
		assert.Contains(t, buf.String(), "hello")
	})
}

func TestNew(t *testing.T) {
	t.Run("JSON format", func(t *testing.T) {
		var buf bytes.Buffer
		l, err := New(&buf, slog.LevelInfo, "json")
		require.NoError(t, err)

		l.Info("game over", "game.winner", "X")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "game over", entry["msg"])
		assert.Equal(t, "X", entry["game.winner"])
	})

	t.Run("Unknown format", func(t *testing.T) {
		_, err := New(&bytes.Buffer{}, slog.LevelInfo, "xml")
		require.Error(t, err)
	})
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{in: "debug", want: slog.LevelDebug},
		{in: "INFO", want: slog.LevelInfo},
		{in: " warn ", want: slog.LevelWarn},
		{in: "error", want: slog.LevelError},
		{in: "loud", want: slog.LevelInfo, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInit(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	l, err := Init(&buf, "debug", "text")
	require.NoError(t, err)
	assert.Same(t, l, slog.Default())

	slog.Debug("default logger replaced")
	assert.Contains(t, buf.String(), "default logger replaced")

	_, err = Init(&buf, "nope", "text")
	require.Error(t, err)
}
