package session

import (
	"context"
	"ctchen222/tictactoe/internal/game"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// SearchResult is the answer of a background search. Generation ties it to the
// game it was started for.
type SearchResult struct {
	Generation uint64
	Move       game.Move
	Err        error
}

// RequestComputerMove starts the computer's search on a background goroutine
// so an interactive caller is not blocked. The search sees a snapshot of the
// board taken now; pass the result to Commit. Only one search may be in
// flight at a time.
func (s *Session) RequestComputerMove(ctx context.Context) (<-chan SearchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.state.checkTurn(false); err != nil {
		return nil, err
	}
	if s.inFlight {
		return nil, ErrSearchInFlight
	}
	s.inFlight = true

	snapshot := s.board.Clone()
	generation := s.generation
	computer, human := s.computer, s.human
	delay := s.thinkDelay

	results := make(chan SearchResult, 1)
	go func() {
		defer close(results)

		ctx, span := s.tracer.Start(ctx, "session.backgroundSearch", trace.WithAttributes(
			attribute.String("session.id", s.id),
			attribute.Int64("session.generation", int64(generation)),
		))
		defer span.End()

		if delay > 0 {
			timer := time.NewTimer(delay)
			defer timer.Stop()
			select {
			case <-timer.C:
			case <-ctx.Done():
				span.RecordError(ctx.Err())
				span.SetStatus(codes.Error, "Search cancelled")
				results <- SearchResult{Generation: generation, Err: ctx.Err()}
				return
			}
		}

		move, err := s.calculator.ChooseMove(ctx, snapshot, computer, human)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "Search failed")
		}
		results <- SearchResult{Generation: generation, Move: move, Err: err}
	}()

	s.logger.DebugContext(ctx, "background search started", "session.generation", generation)
	return results, nil
}

// Commit applies a background search result. Results from before the last
// Reset are discarded with ErrStaleResult.
func (s *Session) Commit(ctx context.Context, res SearchResult) (game.Outcome, error) {
	ctx, span := s.tracer.Start(ctx, "session.Commit", trace.WithAttributes(
		attribute.String("session.id", s.id),
		attribute.Int64("session.generation", int64(res.Generation)),
	))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if res.Generation != s.generation {
		s.logger.InfoContext(ctx, "discarding stale search result",
			"result.generation", res.Generation,
			"session.generation", s.generation,
		)
		span.SetStatus(codes.Error, "Stale result")
		return s.board.Outcome(), ErrStaleResult
	}
	s.inFlight = false

	if res.Err != nil {
		span.RecordError(res.Err)
		span.SetStatus(codes.Error, "Search failed")
		return s.board.Outcome(), res.Err
	}
	if err := s.state.checkTurn(false); err != nil {
		span.SetStatus(codes.Error, "Not computer's turn")
		return s.board.Outcome(), err
	}

	outcome, err := s.applyLocked(ctx, res.Move, s.computer)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid computer move")
		return outcome, err
	}
	span.SetAttributes(
		attribute.Int("move.row", res.Move.Row),
		attribute.Int("move.col", res.Move.Col),
		attribute.String("game.outcome", outcome.String()),
	)
	return outcome, nil
}
