package main

import (
	"ctchen222/tictactoe/internal/bot"
	"ctchen222/tictactoe/internal/game"
	"ctchen222/tictactoe/internal/render"
	"ctchen222/tictactoe/internal/session"
	"ctchen222/tictactoe/pkg/proto"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// replay is the --json output of selfplay.
type replay struct {
	Moves []game.Move    `json:"moves"`
	Final proto.Snapshot `json:"final"`
}

var selfplayCmd = &cobra.Command{
	Use:   "selfplay",
	Short: "Let the engine play itself from an empty board",
	Long:  `Plays one game engine against engine. Perfect play on both sides always ends in a draw.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonMode, _ := cmd.Flags().GetBool("json")
		noColor, _ := cmd.Flags().GetBool("no-color")
		out := cmd.OutOrStdout()

		engine, err := bot.NewEngine(bot.WithLogger(slog.Default()))
		if err != nil {
			return fmt.Errorf("failed to create engine: %w", err)
		}

		board, moves, err := session.Autoplay(cmd.Context(), engine, engine)
		if err != nil {
			return err
		}
		outcome := board.Outcome()

		if jsonMode {
			final := proto.Snapshot{
				SessionID: uuid.NewString(),
				State:     session.Terminal.String(),
				Board:     board.Rows(),
				Status:    outcome.Status.String(),
				Winner:    outcome.Winner,
			}
			if line, ok := board.WinningLine(); ok {
				final.WinningLine = line[:]
			}
			if len(moves) > 0 {
				last := moves[len(moves)-1]
				final.LastMove = &last
			}
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(replay{Moves: moves, Final: final})
		}

		r := render.New(colorProfile(out, noColor || conf.Game.NoColor))
		mark := game.PlayerX
		for i, m := range moves {
			fmt.Fprintf(out, "%d. %s %s\n", i+1, mark, m)
			mark = mark.Opponent()
		}
		fmt.Fprint(out, "\n"+r.Board(board))
		fmt.Fprintf(out, "\nResult: %s\n", outcome)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(selfplayCmd)

	selfplayCmd.Flags().Bool("json", false, "Print the game as JSON")
	selfplayCmd.Flags().Bool("no-color", false, "Disable colored output")
}
