package game

import "fmt"

// Status is the coarse state of a game derived from the board.
type Status int

const (
	InProgress Status = iota
	Win
	Draw
)

func (s Status) String() string {
	switch s {
	case InProgress:
		return "in_progress"
	case Win:
		return "win"
	case Draw:
		return "draw"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Outcome is the result of a board. Winner is set only when Status is Win.
type Outcome struct {
	Status Status
	Winner PlayerMark
}

// Terminal reports whether the game is over.
func (o Outcome) Terminal() bool {
	return o.Status != InProgress
}

func (o Outcome) String() string {
	if o.Status == Win {
		return fmt.Sprintf("win(%s)", o.Winner)
	}
	return o.Status.String()
}

// Line is three cells that win when held by one mark.
type Line [3]Move

// Lines holds the eight winning lines in scan order.
var Lines = [8]Line{
	// Rows
	{{0, 0}, {0, 1}, {0, 2}},
	{{1, 0}, {1, 1}, {1, 2}},
	{{2, 0}, {2, 1}, {2, 2}},
	// Columns
	{{0, 0}, {1, 0}, {2, 0}},
	{{0, 1}, {1, 1}, {2, 1}},
	{{0, 2}, {1, 2}, {2, 2}},
	// Diagonals
	{{0, 0}, {1, 1}, {2, 2}},
	{{0, 2}, {1, 1}, {2, 0}},
}

// Contains reports whether move is one of the line's cells.
func (l Line) Contains(move Move) bool {
	for _, m := range l {
		if m == move {
			return true
		}
	}
	return false
}

// ParseBoard builds a board from three row strings using 'X', 'O' and '.'
// (or ' ' / '_') for empty cells. It is meant for fixtures and tooling.
func ParseBoard(rows ...string) (Board, error) {
	var b Board
	if len(rows) != Size {
		return b, fmt.Errorf("expected %d rows, got %d", Size, len(rows))
	}
	for r, row := range rows {
		if len(row) != Size {
			return b, fmt.Errorf("row %d: expected %d cells, got %q", r, Size, row)
		}
		for c, ch := range row {
			switch ch {
			case 'X', 'x':
				b[r][c] = PlayerX
			case 'O', 'o':
				b[r][c] = PlayerO
			case '.', ' ', '_':
				b[r][c] = None
			default:
				return b, fmt.Errorf("row %d: unexpected cell %q", r, ch)
			}
		}
	}
	return b, nil
}

// MustParseBoard is like ParseBoard but panics on malformed input.
func MustParseBoard(rows ...string) Board {
	b, err := ParseBoard(rows...)
	if err != nil {
		panic(err)
	}
	return b
}
