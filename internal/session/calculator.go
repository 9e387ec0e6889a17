package session

//go:generate mockgen -source=calculator.go -destination=mocks/mock_calculator.go -package=mocks

import (
	"context"
	"ctchen222/tictactoe/internal/game"
)

// MoveCalculator defines an interface for an agent that can calculate a game move.
type MoveCalculator interface {
	ChooseMove(ctx context.Context, board game.Board, computer, human game.PlayerMark) (game.Move, error)
}
