package main

import (
	"bufio"
	"context"
	"ctchen222/tictactoe/internal/bot"
	"ctchen222/tictactoe/internal/events"
	"ctchen222/tictactoe/internal/game"
	"ctchen222/tictactoe/internal/render"
	"ctchen222/tictactoe/internal/session"
	"ctchen222/tictactoe/pkg/proto"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play an interactive game against the computer",
	Long: `Starts a game on stdin/stdout. Enter a move as a cell number 1-9
(top left to bottom right) or as "row col" with 0-based coordinates.
Type h for a hint or q to quit. Finished boards reset automatically and the score is kept.`,
	RunE: runPlay,
}

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().StringP("mark", "m", "", "Play as X or O (prompted when empty)")
	playCmd.Flags().Bool("no-color", false, "Disable colored output")
	playCmd.Flags().Bool("events", false, "Write session events to stderr as JSON lines")

	rootCmd.RunE = runPlay
	rootCmd.Flags().AddFlagSet(playCmd.Flags())
}

func runPlay(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	in := bufio.NewScanner(cmd.InOrStdin())

	noColor, _ := cmd.Flags().GetBool("no-color")
	r := render.New(colorProfile(out, noColor || conf.Game.NoColor))

	engine, err := bot.NewEngine(bot.WithLogger(slog.Default()))
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}
	opts := []session.Option{
		session.WithLogger(slog.Default()),
		session.WithThinkDelay(conf.Game.ThinkDelay),
		session.WithOpeningMark(game.PlayerMark(conf.Game.OpeningMark)),
	}

	var pub *events.Writer
	var s *session.Session
	if withEvents, _ := cmd.Flags().GetBool("events"); withEvents {
		pub = events.NewWriter(cmd.ErrOrStderr())
		opts = append(opts, session.WithTransitionHook(func(from, to session.State) {
			publish(pub, events.StateChanged, events.StateChangedPayload{SessionID: s.ID(), From: from.String(), To: to.String()})
		}))
	}
	s = session.New(engine, opts...)

	mark, _ := cmd.Flags().GetString("mark")
	if err := chooseSymbol(ctx, s, in, out, mark); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}

	for {
		snap := s.Snapshot()
		fmt.Fprint(out, "\n"+r.Snapshot(snap))

		switch s.State() {
		case session.Terminal:
			publish(pub, events.GameOver, events.GameOverPayload{SessionID: snap.SessionID, Status: snap.Status, Winner: snap.Winner})
			fmt.Fprintln(out, r.Tally(s.Tally()))
			if err := sleep(ctx, conf.Game.ResetDelay); err != nil {
				return nil
			}
			if err := s.Reset(ctx); err != nil {
				return err
			}
			continue
		case session.ComputerTurn:
			if err := computerTurn(ctx, s, pub); err != nil {
				if errors.Is(err, context.Canceled) {
					return nil
				}
				return err
			}
			continue
		}

		fmt.Fprint(out, "> ")
		if !in.Scan() {
			return in.Err()
		}
		line := strings.TrimSpace(in.Text())
		if line == "q" || line == "quit" {
			fmt.Fprintln(out, "Bye!")
			return nil
		}
		if line == "h" || line == "hint" {
			fmt.Fprintln(out, hint(ctx, engine, s))
			continue
		}

		req, err := render.ParseMove(line)
		if err != nil {
			fmt.Fprintln(out, err)
			continue
		}
		if _, err := s.PlayHuman(ctx, req); err != nil {
			switch {
			case errors.Is(err, game.ErrCellOccupied):
				fmt.Fprintln(out, "That cell is already taken.")
			case errors.Is(err, game.ErrOutOfRange):
				fmt.Fprintln(out, "Row and column must be between 0 and 2.")
			default:
				return err
			}
			continue
		}
		publish(pub, events.MovePlayed, events.MovePlayedPayload{SessionID: s.ID(), Mark: s.HumanMark(), Move: req.Move()})
	}
}

// chooseSymbol uses mark when given, otherwise prompts until the human picks
// a valid one.
func chooseSymbol(ctx context.Context, s *session.Session, in *bufio.Scanner, out io.Writer, mark string) error {
	if mark != "" {
		return s.ChooseSymbol(ctx, proto.SymbolChoice{Mark: game.PlayerMark(strings.ToUpper(mark))})
	}

	for {
		fmt.Fprint(out, "Play as X or O? ")
		if !in.Scan() {
			if err := in.Err(); err != nil {
				return err
			}
			return io.EOF
		}
		choice := proto.SymbolChoice{Mark: game.PlayerMark(strings.ToUpper(strings.TrimSpace(in.Text())))}
		err := s.ChooseSymbol(ctx, choice)
		if errors.Is(err, session.ErrInvalidRequest) {
			fmt.Fprintln(out, "Please type X or O.")
			continue
		}
		return err
	}
}

// computerTurn runs the search in the background and commits its move.
func computerTurn(ctx context.Context, s *session.Session, pub *events.Writer) error {
	results, err := s.RequestComputerMove(ctx)
	if err != nil {
		return err
	}
	select {
	case res := <-results:
		_, err := s.Commit(ctx, res)
		switch {
		case errors.Is(err, session.ErrStaleResult):
			return nil
		case err != nil:
			return err
		}
		publish(pub, events.MovePlayed, events.MovePlayedPayload{SessionID: s.ID(), Mark: s.ComputerMark(), Move: res.Move})
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// hint asks the engine what it would play in the human's place.
func hint(ctx context.Context, engine *bot.Engine, s *session.Session) string {
	board, human, computer := s.Board(), s.HumanMark(), s.ComputerMark()
	move, err := engine.ChooseMove(ctx, board, human, computer)
	if err != nil {
		return fmt.Sprintf("No hint: %v", err)
	}
	score, err := engine.Score(ctx, board, human, computer)
	if err != nil {
		return fmt.Sprintf("No hint: %v", err)
	}
	verdict := "a draw with best play"
	switch {
	case score > 0:
		verdict = "a forced win"
	case score < 0:
		verdict = "a loss against best play"
	}
	return fmt.Sprintf("Try cell %d %s. This position is %s.", render.CellNumber(move), move, verdict)
}

// publish is a no-op without --events. Failures are logged, not fatal.
func publish(pub *events.Writer, typ string, payload any) {
	if pub == nil {
		return
	}
	if err := pub.Publish(typ, payload); err != nil {
		slog.Warn("failed to publish event", "event", typ, "error", err)
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// colorProfile picks termenv's detected profile for terminals and plain text
// for pipes or when color is disabled.
func colorProfile(w io.Writer, noColor bool) termenv.Profile {
	if noColor {
		return termenv.Ascii
	}
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return termenv.ColorProfile()
	}
	return termenv.Ascii
}
