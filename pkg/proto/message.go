package proto

import "ctchen222/tictactoe/internal/game"

// SymbolChoice is the human's one-time pick of a mark at game start.
type SymbolChoice struct {
	Mark game.PlayerMark `json:"mark" validate:"required,mark"`
}

// MoveRequest is a human move. Coordinates are zero-based.
type MoveRequest struct {
	Row int `json:"row" validate:"gte=0,lte=2"`
	Col int `json:"col" validate:"gte=0,lte=2"`
}

// Move converts the request to a board move.
func (m MoveRequest) Move() game.Move {
	return game.Move{Row: m.Row, Col: m.Col}
}

// Tally counts finished games within one session.
type Tally struct {
	HumanWins    int `json:"human_wins"`
	ComputerWins int `json:"computer_wins"`
	Draws        int `json:"draws"`
}

// Snapshot is a read-only view of a session for the presentation layer.
type Snapshot struct {
	SessionID    string              `json:"session_id"`
	State        string              `json:"state"`
	Board        [][]game.PlayerMark `json:"board"`
	HumanMark    game.PlayerMark     `json:"human_mark,omitempty"`
	ComputerMark game.PlayerMark     `json:"computer_mark,omitempty"`
	Next         game.PlayerMark     `json:"next,omitempty"`
	Status       string              `json:"status"`
	Winner       game.PlayerMark     `json:"winner,omitempty"`
	WinningLine  []game.Move         `json:"winning_line,omitempty"`
	LastMove     *game.Move          `json:"last_move,omitempty"`
	Tally        Tally               `json:"tally"`
}
