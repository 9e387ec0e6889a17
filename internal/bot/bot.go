package bot

import (
	"context"
	"ctchen222/tictactoe/internal/game"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "ctchen222/tictactoe/internal/bot"

// Engine is the computer opponent. It wraps the minimax search with tracing,
// metrics and logging and is safe for concurrent use.
type Engine struct {
	logger   *slog.Logger
	tracer   trace.Tracer
	nodes    metric.Int64Counter
	duration metric.Float64Histogram
}

type options struct {
	logger         *slog.Logger
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
}

// Option configures an Engine.
type Option func(*options)

// WithLogger sets the logger used for decision logs.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithTracerProvider overrides the global tracer provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) { o.tracerProvider = tp }
}

// WithMeterProvider overrides the global meter provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *options) { o.meterProvider = mp }
}

// NewEngine creates an Engine. Unset providers fall back to the otel globals.
func NewEngine(opts ...Option) (*Engine, error) {
	o := options{
		logger:         slog.Default(),
		tracerProvider: otel.GetTracerProvider(),
		meterProvider:  otel.GetMeterProvider(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	meter := o.meterProvider.Meter(instrumentationName)
	nodes, err := meter.Int64Counter("bot.search.nodes",
		metric.WithDescription("Board positions visited by the minimax search."),
		metric.WithUnit("{node}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create nodes counter: %w", err)
	}
	duration, err := meter.Float64Histogram("bot.search.duration",
		metric.WithDescription("Wall time of one top-level move decision."),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}

	return &Engine{
		logger:   o.logger,
		tracer:   o.tracerProvider.Tracer(instrumentationName),
		nodes:    nodes,
		duration: duration,
	}, nil
}

// ChooseMove picks the computer's move for board. The board is taken by value,
// so the caller's game state is never touched.
func (e *Engine) ChooseMove(ctx context.Context, board game.Board, computer, human game.PlayerMark) (game.Move, error) {
	ctx, span := e.tracer.Start(ctx, "bot.ChooseMove", trace.WithAttributes(
		attribute.String("bot.mark", string(computer)),
		attribute.String("game.board", board.String()),
	))
	defer span.End()

	start := time.Now()
	d, err := decide(board, computer, human)
	if err != nil {
		e.logger.WarnContext(ctx, "bot cannot choose a move", "board", board.String(), "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "No move chosen")
		return game.Move{}, err
	}
	elapsed := time.Since(start)

	markAttr := metric.WithAttributes(attribute.String("bot.mark", string(computer)))
	e.nodes.Add(ctx, d.nodes, markAttr)
	e.duration.Record(ctx, float64(elapsed.Microseconds())/1000, markAttr)

	span.SetAttributes(
		attribute.Int("move.row", d.move.Row),
		attribute.Int("move.col", d.move.Col),
		attribute.Int("search.score", d.score),
		attribute.Int64("search.nodes", d.nodes),
	)
	e.logger.DebugContext(ctx, "bot chose move",
		"bot.mark", computer,
		"move.row", d.move.Row,
		"move.col", d.move.Col,
		"search.score", d.score,
		"search.nodes", d.nodes,
		"search.elapsed", elapsed,
	)
	return d.move, nil
}

// Score reports the minimax value of board with computer to move.
func (e *Engine) Score(ctx context.Context, board game.Board, computer, human game.PlayerMark) (int, error) {
	_, span := e.tracer.Start(ctx, "bot.Score")
	defer span.End()

	score, err := Score(board, computer, human)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "No score")
		return 0, err
	}
	span.SetAttributes(attribute.Int("search.score", score))
	return score, nil
}
