package game

import (
	"errors"
	"fmt"
	"strings"
)

// PlayerMark represents the mark of a player (X, O) or an empty cell.
type PlayerMark string

const (
	// Player marks
	None    PlayerMark = ""
	PlayerX PlayerMark = "X"
	PlayerO PlayerMark = "O"

	// Board boundaries
	BorderMin = 0
	BorderMax = 2

	Size = BorderMax + 1
)

var (
	ErrOutOfRange   = errors.New("move is outside the board")
	ErrCellOccupied = errors.New("cell already occupied")
	ErrInvalidMark  = errors.New("invalid player mark")
)

// Valid reports whether m is one of the two player marks.
func (m PlayerMark) Valid() bool {
	return m == PlayerX || m == PlayerO
}

// Opponent returns the other player's mark. None has no opponent.
func (m PlayerMark) Opponent() PlayerMark {
	switch m {
	case PlayerX:
		return PlayerO
	case PlayerO:
		return PlayerX
	default:
		return None
	}
}

// Move addresses a single cell.
type Move struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// InBounds reports whether the move lies on the 3x3 grid.
func (m Move) InBounds() bool {
	return m.Row >= BorderMin && m.Row <= BorderMax && m.Col >= BorderMin && m.Col <= BorderMax
}

func (m Move) String() string {
	return fmt.Sprintf("(%d,%d)", m.Row, m.Col)
}

// Board is the 3x3 grid. It is a value type, so assignment copies it.
type Board [Size][Size]PlayerMark

// Place puts mark on the cell addressed by move.
func (b *Board) Place(move Move, mark PlayerMark) error {
	if !move.InBounds() {
		return fmt.Errorf("%w: %s", ErrOutOfRange, move)
	}
	if !mark.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidMark, mark)
	}
	if b[move.Row][move.Col] != None {
		return fmt.Errorf("%w: %s holds %s", ErrCellOccupied, move, b[move.Row][move.Col])
	}

	b[move.Row][move.Col] = mark
	return nil
}

// At returns the mark at move, or None when move is off the board.
func (b Board) At(move Move) PlayerMark {
	if !move.InBounds() {
		return None
	}
	return b[move.Row][move.Col]
}

// AvailableMoves lists the empty cells in row-major order.
func (b Board) AvailableMoves() []Move {
	moves := make([]Move, 0, Size*Size)
	for r := range Size {
		for c := range Size {
			if b[r][c] == None {
				moves = append(moves, Move{Row: r, Col: c})
			}
		}
	}
	return moves
}

// IsFull checks if no empty cell is left.
func (b Board) IsFull() bool {
	for r := range Size {
		for c := range Size {
			if b[r][c] == None {
				return false
			}
		}
	}
	return true
}

// Count returns how many cells hold mark.
func (b Board) Count(mark PlayerMark) int {
	n := 0
	for r := range Size {
		for c := range Size {
			if b[r][c] == mark {
				n++
			}
		}
	}
	return n
}

// Winner returns the mark occupying the first complete line in scan order.
func (b Board) Winner() (PlayerMark, bool) {
	line, ok := b.WinningLine()
	if !ok {
		return None, false
	}
	return b.At(line[0]), true
}

// WinningLine returns the first complete line in scan order: rows top to
// bottom, columns left to right, then the main and anti diagonals.
func (b Board) WinningLine() (Line, bool) {
	for _, line := range Lines {
		a := b.At(line[0])
		if a != None && a == b.At(line[1]) && a == b.At(line[2]) {
			return line, true
		}
	}
	return Line{}, false
}

// Outcome derives the game result from the board contents.
func (b Board) Outcome() Outcome {
	if winner, ok := b.Winner(); ok {
		return Outcome{Status: Win, Winner: winner}
	}
	if b.IsFull() {
		return Outcome{Status: Draw}
	}
	return Outcome{Status: InProgress}
}

// Clone returns an independent copy of the board.
func (b Board) Clone() Board {
	return b
}

// Reset empties every cell.
func (b *Board) Reset() {
	*b = Board{}
}

// Rows converts the game board to a dynamic slice of slices.
func (b Board) Rows() [][]PlayerMark {
	rows := make([][]PlayerMark, Size)
	for i := range Size {
		rows[i] = make([]PlayerMark, Size)
		copy(rows[i], b[i][:])
	}
	return rows
}

// String renders the board as three rows separated by '/', empty cells as '.'.
func (b Board) String() string {
	var sb strings.Builder
	for r := range Size {
		if r > 0 {
			sb.WriteByte('/')
		}
		for c := range Size {
			if b[r][c] == None {
				sb.WriteByte('.')
				continue
			}
			sb.WriteString(string(b[r][c]))
		}
	}
	return sb.String()
}
