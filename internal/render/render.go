package render

import (
	"ctchen222/tictactoe/internal/game"
	"ctchen222/tictactoe/pkg/proto"
	"fmt"
	"strconv"
	"strings"

	"github.com/muesli/termenv"
)

const separator = "---+---+---"

// Renderer draws boards and status lines for a terminal.
type Renderer struct {
	profile termenv.Profile
	colorX  termenv.Color
	colorO  termenv.Color
	accent  termenv.Color
}

// New returns a renderer for the given color profile. termenv.Ascii yields
// plain text.
func New(profile termenv.Profile) *Renderer {
	return &Renderer{
		profile: profile,
		colorX:  profile.Color("#818cf8"),
		colorO:  profile.Color("#f472b6"),
		accent:  profile.Color("#fbbf24"),
	}
}

// Board draws b. Empty cells show their 1-9 key; a winning line is drawn
// reversed.
func (r *Renderer) Board(b game.Board) string {
	line, won := b.WinningLine()

	var sb strings.Builder
	for row := range game.Size {
		for col := range game.Size {
			if col > 0 {
				sb.WriteByte('|')
			}
			move := game.Move{Row: row, Col: col}
			sb.WriteByte(' ')
			sb.WriteString(r.cell(b.At(move), move, won && line.Contains(move)))
			sb.WriteByte(' ')
		}
		sb.WriteByte('\n')
		if row < game.Size-1 {
			sb.WriteString(separator)
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func (r *Renderer) cell(mark game.PlayerMark, move game.Move, highlighted bool) string {
	switch mark {
	case game.PlayerX, game.PlayerO:
		color := r.colorX
		if mark == game.PlayerO {
			color = r.colorO
		}
		s := r.profile.String(string(mark)).Foreground(color).Bold()
		if highlighted {
			s = s.Reverse()
		}
		return s.String()
	default:
		return r.profile.String(strconv.Itoa(CellNumber(move))).Faint().String()
	}
}

// Snapshot draws the board of snap followed by a status line.
func (r *Renderer) Snapshot(snap proto.Snapshot) string {
	var b game.Board
	for row := range snap.Board {
		for col := range snap.Board[row] {
			if row < game.Size && col < game.Size {
				b[row][col] = snap.Board[row][col]
			}
		}
	}
	return r.Board(b) + "\n" + r.Status(snap) + "\n"
}

// Status describes whose turn it is or how the game ended.
func (r *Renderer) Status(snap proto.Snapshot) string {
	switch {
	case snap.Status == game.Win.String() && snap.Winner == snap.HumanMark:
		return r.highlight(fmt.Sprintf("%s wins. Well played!", snap.Winner))
	case snap.Status == game.Win.String():
		return r.highlight(fmt.Sprintf("%s wins. The computer takes this one.", snap.Winner))
	case snap.Status == game.Draw.String():
		return r.highlight("Draw.")
	case snap.Next != game.None && snap.Next == snap.HumanMark:
		return fmt.Sprintf("Your move (%s).", snap.Next)
	case snap.Next != game.None:
		return fmt.Sprintf("Computer (%s) is thinking...", snap.Next)
	default:
		return "Choose X or O."
	}
}

// Tally prints the session score.
func (r *Renderer) Tally(t proto.Tally) string {
	return fmt.Sprintf("You %d | Computer %d | Draws %d", t.HumanWins, t.ComputerWins, t.Draws)
}

func (r *Renderer) highlight(s string) string {
	return r.profile.String(s).Foreground(r.accent).Bold().String()
}
