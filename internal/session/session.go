package session

import (
	"context"
	"ctchen222/tictactoe/internal/game"
	"ctchen222/tictactoe/internal/validator"
	"ctchen222/tictactoe/pkg/proto"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "ctchen222/tictactoe/internal/session"

var (
	ErrSymbolNotChosen     = errors.New("symbol has not been chosen")
	ErrSymbolAlreadyChosen = errors.New("symbol already chosen")
	ErrNotYourTurn         = errors.New("it's not your turn")
	ErrGameOver            = errors.New("game is already finished")
	ErrSearchInFlight      = errors.New("a computer move is already being searched")
	ErrStaleResult         = errors.New("search result belongs to a reset game")
	ErrInvalidRequest      = errors.New("invalid request")
)

// Tally counts finished games within one session.
type Tally = proto.Tally

// Session is one human-versus-computer game. It owns the board, the turn
// state and the mark assignment; callers drive it one move at a time.
type Session struct {
	id          string
	calculator  MoveCalculator
	logger      *slog.Logger
	tracer      trace.Tracer
	thinkDelay  time.Duration
	openingMark game.PlayerMark
	onTransit   func(from, to State)

	mu         sync.Mutex
	board      game.Board
	state      State
	human      game.PlayerMark
	computer   game.PlayerMark
	generation uint64
	inFlight   bool
	lastMove   *game.Move
	tally      Tally
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the session logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithTracerProvider overrides the global tracer provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *Session) { s.tracer = tp.Tracer(instrumentationName) }
}

// WithThinkDelay makes background searches wait d before calculating.
func WithThinkDelay(d time.Duration) Option {
	return func(s *Session) { s.thinkDelay = d }
}

// WithOpeningMark sets the mark that moves first at game start. Default X.
func WithOpeningMark(m game.PlayerMark) Option {
	return func(s *Session) { s.openingMark = m }
}

// WithTransitionHook registers fn to observe every state change. fn runs with
// the session locked and must not call back into it.
func WithTransitionHook(fn func(from, to State)) Option {
	return func(s *Session) { s.onTransit = fn }
}

// New creates a session waiting for the human to choose a symbol.
func New(calculator MoveCalculator, opts ...Option) *Session {
	s := &Session{
		id:          uuid.New().String(),
		calculator:  calculator,
		logger:      slog.Default(),
		tracer:      otel.Tracer(instrumentationName),
		openingMark: game.PlayerX,
		state:       ChoosingSymbol,
	}
	for _, opt := range opts {
		opt(s)
	}
	if !s.openingMark.Valid() {
		s.openingMark = game.PlayerX
	}
	s.logger = s.logger.With("session.id", s.id)
	return s
}

// ID returns the session's unique identifier.
func (s *Session) ID() string {
	return s.id
}

// ChooseSymbol assigns the human's mark. If the computer holds the opening
// mark, it plays its first move before ChooseSymbol returns.
func (s *Session) ChooseSymbol(ctx context.Context, choice proto.SymbolChoice) error {
	ctx, span := s.tracer.Start(ctx, "session.ChooseSymbol", trace.WithAttributes(
		attribute.String("session.id", s.id),
		attribute.String("human.mark", string(choice.Mark)),
	))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != ChoosingSymbol {
		span.SetStatus(codes.Error, "Symbol already chosen")
		return ErrSymbolAlreadyChosen
	}
	if err := validator.Struct(choice); err != nil {
		s.logger.WarnContext(ctx, "rejected symbol choice", "human.mark", string(choice.Mark), "fields", validator.FailedFields(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid symbol choice")
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	s.human = choice.Mark
	s.computer = choice.Mark.Opponent()
	s.logger.InfoContext(ctx, "symbol chosen", "human.mark", s.human, "computer.mark", s.computer)

	if s.computer != s.openingMark {
		s.transition(ctx, PlayerTurn)
		return nil
	}

	s.transition(ctx, ComputerFirst)
	if _, _, err := s.computerMoveLocked(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Opening move failed")
		s.human, s.computer = game.None, game.None
		s.board.Reset()
		s.transition(ctx, ChoosingSymbol)
		return fmt.Errorf("opening move: %w", err)
	}
	return nil
}

// PlayHuman applies a human move. game.ErrCellOccupied is returned unchanged
// so callers can drop stale clicks.
func (s *Session) PlayHuman(ctx context.Context, req proto.MoveRequest) (game.Outcome, error) {
	ctx, span := s.tracer.Start(ctx, "session.PlayHuman", trace.WithAttributes(
		attribute.String("session.id", s.id),
		attribute.Int("move.row", req.Row),
		attribute.Int("move.col", req.Col),
	))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.state.checkTurn(true); err != nil {
		span.SetStatus(codes.Error, "Not player's turn")
		return s.board.Outcome(), err
	}
	if err := validator.Struct(req); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Move out of range")
		s.logger.ErrorContext(ctx, "rejected move outside the board", "move.row", req.Row, "move.col", req.Col, "fields", validator.FailedFields(err))
		return s.board.Outcome(), fmt.Errorf("%w: %w", game.ErrOutOfRange, err)
	}

	outcome, err := s.applyLocked(ctx, req.Move(), s.human)
	if err != nil {
		if errors.Is(err, game.ErrCellOccupied) {
			s.logger.DebugContext(ctx, "ignoring move on occupied cell", "move.row", req.Row, "move.col", req.Col)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid move")
		return outcome, err
	}
	span.SetAttributes(attribute.String("game.outcome", outcome.String()))
	return outcome, nil
}

// PlayComputer runs the calculator synchronously and applies its move.
func (s *Session) PlayComputer(ctx context.Context) (game.Move, game.Outcome, error) {
	ctx, span := s.tracer.Start(ctx, "session.PlayComputer", trace.WithAttributes(
		attribute.String("session.id", s.id),
	))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.state.checkTurn(false); err != nil {
		span.SetStatus(codes.Error, "Not computer's turn")
		return game.Move{}, s.board.Outcome(), err
	}
	if s.inFlight {
		span.SetStatus(codes.Error, "Search in flight")
		return game.Move{}, s.board.Outcome(), ErrSearchInFlight
	}

	move, outcome, err := s.computerMoveLocked(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Computer move failed")
		return move, outcome, err
	}
	span.SetAttributes(
		attribute.Int("move.row", move.Row),
		attribute.Int("move.col", move.Col),
		attribute.String("game.outcome", outcome.String()),
	)
	return move, outcome, nil
}

// Play applies a human move and, unless it ended the game, the computer's
// reply.
func (s *Session) Play(ctx context.Context, req proto.MoveRequest) (game.Outcome, error) {
	outcome, err := s.PlayHuman(ctx, req)
	if err != nil || outcome.Terminal() {
		return outcome, err
	}
	_, outcome, err = s.PlayComputer(ctx)
	return outcome, err
}

// Reset clears the board after (or during) a game. The human moves first in
// the new game and any search still running is orphaned.
func (s *Session) Reset(ctx context.Context) error {
	ctx, span := s.tracer.Start(ctx, "session.Reset", trace.WithAttributes(
		attribute.String("session.id", s.id),
	))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == ChoosingSymbol {
		span.SetStatus(codes.Error, "Symbol not chosen")
		return ErrSymbolNotChosen
	}

	s.board.Reset()
	s.generation++
	s.inFlight = false
	s.lastMove = nil
	s.logger.InfoContext(ctx, "board reset", "session.generation", s.generation)
	s.transition(ctx, PlayerTurn)
	return nil
}

// computerMoveLocked asks the calculator for a move on a copy of the board
// and applies it. s.mu must be held.
func (s *Session) computerMoveLocked(ctx context.Context) (game.Move, game.Outcome, error) {
	move, err := s.calculator.ChooseMove(ctx, s.board.Clone(), s.computer, s.human)
	if err != nil {
		s.logger.ErrorContext(ctx, "computer could not choose a move", "error", err)
		return game.Move{}, s.board.Outcome(), fmt.Errorf("computer move: %w", err)
	}

	outcome, err := s.applyLocked(ctx, move, s.computer)
	if err != nil {
		s.logger.ErrorContext(ctx, "computer chose an illegal move", "move.row", move.Row, "move.col", move.Col, "error", err)
		return move, outcome, fmt.Errorf("computer move: %w", err)
	}
	return move, outcome, nil
}

// applyLocked places mark, then moves the state machine on. s.mu must be held.
func (s *Session) applyLocked(ctx context.Context, move game.Move, mark game.PlayerMark) (game.Outcome, error) {
	if err := s.board.Place(move, mark); err != nil {
		return s.board.Outcome(), err
	}
	s.lastMove = &move

	outcome := s.board.Outcome()
	s.logger.DebugContext(ctx, "move placed", "mark", mark, "move.row", move.Row, "move.col", move.Col, "game.board", s.board.String())

	if outcome.Terminal() {
		switch {
		case outcome.Status == game.Draw:
			s.tally.Draws++
		case outcome.Winner == s.human:
			s.tally.HumanWins++
		default:
			s.tally.ComputerWins++
		}
		s.logger.InfoContext(ctx, "game over", "game.outcome", outcome.String(), "game.board", s.board.String())
		s.transition(ctx, Terminal)
		return outcome, nil
	}

	if mark == s.human {
		s.transition(ctx, ComputerTurn)
	} else {
		s.transition(ctx, PlayerTurn)
	}
	return outcome, nil
}

func (s *Session) transition(ctx context.Context, to State) {
	from := s.state
	s.state = to
	s.logger.DebugContext(ctx, "state transition", "from", from.String(), "to", to.String())
	if s.onTransit != nil {
		s.onTransit(from, to)
	}
}

// State returns the current phase.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Board returns a copy of the board.
func (s *Session) Board() game.Board {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.Clone()
}

// Outcome derives the current result from the board.
func (s *Session) Outcome() game.Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.Outcome()
}

// HumanMark returns the human's mark, or game.None before ChooseSymbol.
func (s *Session) HumanMark() game.PlayerMark {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.human
}

// ComputerMark returns the computer's mark, or game.None before ChooseSymbol.
func (s *Session) ComputerMark() game.PlayerMark {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.computer
}

// Tally returns the results of games finished in this session.
func (s *Session) Tally() Tally {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tally
}

// Snapshot returns a presentation view of the session.
func (s *Session) Snapshot() proto.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	outcome := s.board.Outcome()
	snap := proto.Snapshot{
		SessionID:    s.id,
		State:        s.state.String(),
		Board:        s.board.Rows(),
		HumanMark:    s.human,
		ComputerMark: s.computer,
		Status:       outcome.Status.String(),
		Winner:       outcome.Winner,
		Tally:        s.tally,
	}
	switch s.state {
	case PlayerTurn:
		snap.Next = s.human
	case ComputerTurn, ComputerFirst:
		snap.Next = s.computer
	}
	if line, ok := s.board.WinningLine(); ok {
		snap.WinningLine = line[:]
	}
	if s.lastMove != nil {
		last := *s.lastMove
		snap.LastMove = &last
	}
	return snap
}
