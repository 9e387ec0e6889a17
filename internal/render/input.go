package render

import (
	"ctchen222/tictactoe/internal/game"
	"ctchen222/tictactoe/pkg/proto"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrBadInput = errors.New("enter a cell 1-9 or a row and column 0-2")

// CellNumber maps a move to its keypad number, 1 top left to 9 bottom right.
func CellNumber(m game.Move) int {
	return m.Row*game.Size + m.Col + 1
}

// ParseMove reads "5", "1 2" or "1,2". Range checks on row/col are left to
// the session's validator; a single digit must be 1-9.
func ParseMove(s string) (proto.MoveRequest, error) {
	fields := strings.FieldsFunc(strings.TrimSpace(s), func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t'
	})

	switch len(fields) {
	case 1:
		n, err := strconv.Atoi(fields[0])
		if err != nil || n < 1 || n > game.Size*game.Size {
			return proto.MoveRequest{}, fmt.Errorf("%w: %q", ErrBadInput, s)
		}
		return proto.MoveRequest{Row: (n - 1) / game.Size, Col: (n - 1) % game.Size}, nil
	case 2:
		row, err := strconv.Atoi(fields[0])
		if err != nil {
			return proto.MoveRequest{}, fmt.Errorf("%w: %q", ErrBadInput, s)
		}
		col, err := strconv.Atoi(fields[1])
		if err != nil {
			return proto.MoveRequest{}, fmt.Errorf("%w: %q", ErrBadInput, s)
		}
		return proto.MoveRequest{Row: row, Col: col}, nil
	default:
		return proto.MoveRequest{}, fmt.Errorf("%w: %q", ErrBadInput, s)
	}
}
