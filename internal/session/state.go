package session

import "fmt"

// State is the phase of a game session.
type State int

const (
	// ChoosingSymbol waits for the human to pick X or O.
	ChoosingSymbol State = iota
	// ComputerFirst is passed through while the computer makes the opening move.
	ComputerFirst
	PlayerTurn
	ComputerTurn
	// Terminal holds a won or drawn board until Reset.
	Terminal
)

func (s State) String() string {
	switch s {
	case ChoosingSymbol:
		return "choosing_symbol"
	case ComputerFirst:
		return "computer_first"
	case PlayerTurn:
		return "player_turn"
	case ComputerTurn:
		return "computer_turn"
	case Terminal:
		return "terminal"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// checkTurn returns the error for acting as the human (human == true) or the
// computer in state s, or nil if that side may move.
func (s State) checkTurn(human bool) error {
	switch s {
	case ChoosingSymbol:
		return ErrSymbolNotChosen
	case Terminal:
		return ErrGameOver
	case PlayerTurn:
		if human {
			return nil
		}
	case ComputerTurn, ComputerFirst:
		if !human {
			return nil
		}
	}
	return fmt.Errorf("%w: session is in %s", ErrNotYourTurn, s)
}
