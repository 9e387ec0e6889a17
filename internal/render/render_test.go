package render

import (
	"ctchen222/tictactoe/internal/game"
	"ctchen222/tictactoe/pkg/proto"
	"strconv"
	"strings"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderer_Board_Ascii(t *testing.T) {
	r := New(termenv.Ascii)
	b := game.MustParseBoard("X.O", ".X.", "O..")

	want := "" +
		" X | 2 | O \n" +
		"---+---+---\n" +
		" 4 | X | 6 \n" +
		"---+---+---\n" +
		" O | 8 | 9 \n"
	assert.Equal(t, want, r.Board(b))
}

func TestRenderer_Board_HighlightsWinningLine(t *testing.T) {
	r := New(termenv.ANSI256)

	won := r.Board(game.MustParseBoard("XXX", "OO.", "..."))
	open := r.Board(game.MustParseBoard("XX.", "OO.", "..."))

	// Reverse video is SGR 7, appended after the color and bold codes.
	assert.Equal(t, 3, strings.Count(won, ";7m"))
	assert.Zero(t, strings.Count(open, ";7m"))
}

func TestRenderer_Snapshot(t *testing.T) {
	r := New(termenv.Ascii)
	snap := proto.Snapshot{
		Board: [][]game.PlayerMark{
			{game.PlayerO, game.PlayerO, game.PlayerO},
			{game.PlayerX, game.PlayerX, game.None},
			{game.PlayerX, game.None, game.None},
		},
		HumanMark:    game.PlayerX,
		ComputerMark: game.PlayerO,
		Status:       game.Win.String(),
		Winner:       game.PlayerO,
		WinningLine:  game.Lines[0][:],
	}

	out := r.Snapshot(snap)
	assert.True(t, strings.HasPrefix(out, " O | O | O \n"))
	assert.Contains(t, out, "O wins. The computer takes this one.")
}

func TestRenderer_Status(t *testing.T) {
	r := New(termenv.Ascii)

	tests := []struct {
		name string
		snap proto.Snapshot
		want string
	}{
		{
			name: "choosing",
			snap: proto.Snapshot{Status: "in_progress"},
			want: "Choose X or O.",
		},
		{
			name: "human to move",
			snap: proto.Snapshot{Status: "in_progress", HumanMark: game.PlayerO, Next: game.PlayerO},
			want: "Your move (O).",
		},
		{
			name: "computer to move",
			snap: proto.Snapshot{Status: "in_progress", HumanMark: game.PlayerO, Next: game.PlayerX},
			want: "Computer (X) is thinking...",
		},
		{
			name: "human won",
			snap: proto.Snapshot{Status: "win", HumanMark: game.PlayerX, Winner: game.PlayerX},
			want: "X wins. Well played!",
		},
		{
			name: "draw",
			snap: proto.Snapshot{Status: "draw", HumanMark: game.PlayerX},
			want: "Draw.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Status(tt.snap))
		})
	}
}

func TestRenderer_Tally(t *testing.T) {
	r := New(termenv.Ascii)
	assert.Equal(t, "You 1 | Computer 2 | Draws 3", r.Tally(proto.Tally{HumanWins: 1, ComputerWins: 2, Draws: 3}))
}

func TestParseMove(t *testing.T) {
	tests := []struct {
		in      string
		want    proto.MoveRequest
		wantErr bool
	}{
		{in: "1", want: proto.MoveRequest{Row: 0, Col: 0}},
		{in: "5", want: proto.MoveRequest{Row: 1, Col: 1}},
		{in: " 9\n", want: proto.MoveRequest{Row: 2, Col: 2}},
		{in: "0 2", want: proto.MoveRequest{Row: 0, Col: 2}},
		{in: "2,1", want: proto.MoveRequest{Row: 2, Col: 1}},
		{in: "1, 0", want: proto.MoveRequest{Row: 1, Col: 0}},
		{in: "3 3", want: proto.MoveRequest{Row: 3, Col: 3}},
		{in: "0", wantErr: true},
		{in: "10", wantErr: true},
		{in: "a b", wantErr: true},
		{in: "1 b", wantErr: true},
		{in: "1 2 3", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMove(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrBadInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCellNumber(t *testing.T) {
	for n := 1; n <= 9; n++ {
		req, err := ParseMove(strconv.Itoa(n))
		require.NoError(t, err)
		assert.Equal(t, n, CellNumber(req.Move()))
	}
}
