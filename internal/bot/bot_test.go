package bot

import (
	"context"
	"ctchen222/tictactoe/internal/game"
	"ctchen222/tictactoe/internal/logger"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

type instrumentedEngine struct {
	*Engine
	spans  *tracetest.SpanRecorder
	reader *sdkmetric.ManualReader
}

func newInstrumentedEngine(t *testing.T) instrumentedEngine {
	t.Helper()

	spans := tracetest.NewSpanRecorder()
	reader := sdkmetric.NewManualReader()
	e, err := NewEngine(
		WithLogger(logger.NewNop()),
		WithTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))),
		WithMeterProvider(sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))),
	)
	require.NoError(t, err)
	return instrumentedEngine{Engine: e, spans: spans, reader: reader}
}

func attrValue(attrs []attribute.KeyValue, key attribute.Key) (attribute.Value, bool) {
	for _, kv := range attrs {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestEngine_ChooseMove(t *testing.T) {
	ctx := context.Background()
	e := newInstrumentedEngine(t)
	board := game.MustParseBoard("XX.", "OO.", "...")

	move, err := e.ChooseMove(ctx, board, game.PlayerO, game.PlayerX)

	require.NoError(t, err)
	assert.Equal(t, game.Move{Row: 1, Col: 2}, move)

	ended := e.spans.Ended()
	require.Len(t, ended, 1)
	span := ended[0]
	assert.Equal(t, "bot.ChooseMove", span.Name())
	assert.Equal(t, codes.Unset, span.Status().Code)

	row, ok := attrValue(span.Attributes(), "move.row")
	require.True(t, ok)
	assert.Equal(t, int64(1), row.AsInt64())
	col, ok := attrValue(span.Attributes(), "move.col")
	require.True(t, ok)
	assert.Equal(t, int64(2), col.AsInt64())
	score, ok := attrValue(span.Attributes(), "search.score")
	require.True(t, ok)
	assert.Equal(t, int64(winScore-1), score.AsInt64())
	mark, ok := attrValue(span.Attributes(), "bot.mark")
	require.True(t, ok)
	assert.Equal(t, "O", mark.AsString())

	var rm metricdata.ResourceMetrics
	require.NoError(t, e.reader.Collect(ctx, &rm))
	require.Len(t, rm.ScopeMetrics, 1)

	found := map[string]bool{}
	for _, m := range rm.ScopeMetrics[0].Metrics {
		found[m.Name] = true
		switch data := m.Data.(type) {
		case metricdata.Sum[int64]:
			assert.Equal(t, "bot.search.nodes", m.Name)
			require.Len(t, data.DataPoints, 1)
			assert.Greater(t, data.DataPoints[0].Value, int64(1))
		case metricdata.Histogram[float64]:
			assert.Equal(t, "bot.search.duration", m.Name)
			require.Len(t, data.DataPoints, 1)
			assert.Equal(t, uint64(1), data.DataPoints[0].Count)
		}
	}
	assert.True(t, found["bot.search.nodes"])
	assert.True(t, found["bot.search.duration"])
}

func TestEngine_ChooseMove_Error(t *testing.T) {
	e := newInstrumentedEngine(t)
	full := game.MustParseBoard("XOX", "XOO", "OXX")

	_, err := e.ChooseMove(context.Background(), full, game.PlayerX, game.PlayerO)

	require.ErrorIs(t, err, ErrNoMovesAvailable)
	ended := e.spans.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, codes.Error, ended[0].Status().Code)
	require.NotEmpty(t, ended[0].Events(), "error must be recorded on the span")
}

func TestEngine_Score(t *testing.T) {
	e := newInstrumentedEngine(t)

	score, err := e.Score(context.Background(), game.MustParseBoard("XX.", "O..", "..."), game.PlayerO, game.PlayerX)

	require.NoError(t, err)
	assert.Equal(t, 4-winScore, score)
}

// Two engines seeded with opposite marks play each other to a draw.
func TestEngine_PerfectOpponentsDraw(t *testing.T) {
	ctx := context.Background()
	engines := map[game.PlayerMark]*Engine{
		game.PlayerX: newInstrumentedEngine(t).Engine,
		game.PlayerO: newInstrumentedEngine(t).Engine,
	}

	var board game.Board
	mark := game.PlayerX
	for !board.Outcome().Terminal() {
		move, err := engines[mark].ChooseMove(ctx, board, mark, mark.Opponent())
		require.NoError(t, err)
		require.NoError(t, board.Place(move, mark))
		mark = mark.Opponent()
	}

	assert.Equal(t, game.Outcome{Status: game.Draw}, board.Outcome())
}

func TestEngine_ConcurrentUse(t *testing.T) {
	e := newInstrumentedEngine(t)
	board := game.MustParseBoard("X..", ".O.", "..X")

	var wg sync.WaitGroup
	moves := make([]game.Move, 8)
	for i := range moves {
		wg.Add(1)
		go func() {
			defer wg.Done()
			move, err := e.ChooseMove(context.Background(), board, game.PlayerO, game.PlayerX)
			assert.NoError(t, err)
			moves[i] = move
		}()
	}
	wg.Wait()

	for _, m := range moves {
		assert.Equal(t, game.Move{Row: 0, Col: 1}, m)
	}
}
