package session

import (
	"context"
	"ctchen222/tictactoe/internal/game"
	"fmt"
)

// Autoplay lets two calculators play a full game from an empty board, x
// moving first. It returns the final board and the moves in order.
func Autoplay(ctx context.Context, x, o MoveCalculator) (game.Board, []game.Move, error) {
	players := map[game.PlayerMark]MoveCalculator{
		game.PlayerX: x,
		game.PlayerO: o,
	}

	var board game.Board
	moves := make([]game.Move, 0, game.Size*game.Size)
	mark := game.PlayerX

	for !board.Outcome().Terminal() {
		if err := ctx.Err(); err != nil {
			return board, moves, err
		}
		move, err := players[mark].ChooseMove(ctx, board, mark, mark.Opponent())
		if err != nil {
			return board, moves, fmt.Errorf("%s to move: %w", mark, err)
		}
		if err := board.Place(move, mark); err != nil {
			return board, moves, fmt.Errorf("%s played %s: %w", mark, move, err)
		}
		moves = append(moves, move)
		mark = mark.Opponent()
	}
	return board, moves, nil
}
