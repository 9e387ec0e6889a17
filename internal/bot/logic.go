package bot

import (
	"ctchen222/tictactoe/internal/game"
	"errors"
	"fmt"
)

// winScore is the value of an immediate win; depth is subtracted from it so
// that faster wins and slower losses score better.
const winScore = 10

var (
	ErrNoMovesAvailable = errors.New("no moves available")
	ErrGameOver         = errors.New("game already has a winner")
	ErrInvalidMarks     = errors.New("computer and human must play X and O")
)

// ChooseMove returns the optimal move for computer, assuming human answers
// optimally. Ties go to the first move in row-major order.
func ChooseMove(board game.Board, computer, human game.PlayerMark) (game.Move, error) {
	d, err := decide(board, computer, human)
	if err != nil {
		return game.Move{}, err
	}
	return d.move, nil
}

// Score returns the minimax value of board for computer with computer to move.
func Score(board game.Board, computer, human game.PlayerMark) (int, error) {
	d, err := decide(board, computer, human)
	if err != nil {
		return 0, err
	}
	return d.score, nil
}

// decision is the result of one top-level search.
type decision struct {
	move  game.Move
	score int
	nodes int64
}

func decide(board game.Board, computer, human game.PlayerMark) (decision, error) {
	if !computer.Valid() || !human.Valid() || computer == human {
		return decision{}, fmt.Errorf("%w: computer=%q human=%q", ErrInvalidMarks, computer, human)
	}
	if board.IsFull() {
		return decision{}, ErrNoMovesAvailable
	}
	if winner, ok := board.Winner(); ok {
		return decision{}, fmt.Errorf("%w: %s", ErrGameOver, winner)
	}

	s := &searcher{computer: computer, human: human}
	score, move := s.search(board, 0, true)
	return decision{move: move, score: score, nodes: s.nodes}, nil
}

// searcher holds the fixed parameters of one decision. It is never shared.
type searcher struct {
	computer game.PlayerMark
	human    game.PlayerMark
	nodes    int64
}

// evaluate scores a terminal outcome reached at depth.
func (s *searcher) evaluate(outcome game.Outcome, depth int) int {
	switch {
	case outcome.Status == game.Win && outcome.Winner == s.computer:
		return winScore - depth
	case outcome.Status == game.Win && outcome.Winner == s.human:
		return depth - winScore
	default:
		return 0
	}
}

// search returns the minimax score of b and the move that reaches it. The move
// is meaningless when b is terminal.
func (s *searcher) search(b game.Board, depth int, maximizing bool) (int, game.Move) {
	s.nodes++

	if outcome := b.Outcome(); outcome.Terminal() {
		return s.evaluate(outcome, depth), game.Move{}
	}

	mark := s.human
	if maximizing {
		mark = s.computer
	}

	var (
		bestMove  game.Move
		bestScore int
	)
	for i, move := range b.AvailableMoves() {
		next := b.Clone()
		// move comes from AvailableMoves, so the cell is empty
		next[move.Row][move.Col] = mark

		score, _ := s.search(next, depth+1, !maximizing)
		if i == 0 || (maximizing && score > bestScore) || (!maximizing && score < bestScore) {
			bestScore, bestMove = score, move
		}
	}
	return bestScore, bestMove
}
