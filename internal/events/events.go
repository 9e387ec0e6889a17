package events

import (
	"ctchen222/tictactoe/internal/game"
	"encoding/json"
	"fmt"
	"io"
	"sync"
)

// Event type constants
const (
	StateChanged = "state_changed"
	MovePlayed   = "move_played"
	GameOver     = "game_over"
)

// Event is one session notification, written as a JSON line.
type Event struct {
	Type    string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// StateChangedPayload is the payload for the "state_changed" event.
type StateChangedPayload struct {
	SessionID string `json:"session_id"`
	From      string `json:"from"`
	To        string `json:"to"`
}

// MovePlayedPayload is the payload for the "move_played" event.
type MovePlayedPayload struct {
	SessionID string          `json:"session_id"`
	Mark      game.PlayerMark `json:"mark"`
	Move      game.Move       `json:"move"`
}

// GameOverPayload is the payload for the "game_over" event.
type GameOverPayload struct {
	SessionID string          `json:"session_id"`
	Status    string          `json:"status"`
	Winner    game.PlayerMark `json:"winner,omitempty"`
}

// New wraps payload in an Event of the given type.
func New(typ string, payload any) (Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("failed to marshal %s payload: %w", typ, err)
	}
	return Event{Type: typ, Payload: raw}, nil
}

// Writer publishes events as newline-delimited JSON. It is safe for
// concurrent use.
type Writer struct {
	mu  sync.Mutex
	enc *json.Encoder
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{enc: json.NewEncoder(w)}
}

// Publish builds an event and writes it.
func (w *Writer) Publish(typ string, payload any) error {
	e, err := New(typ, payload)
	if err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.enc.Encode(e)
}
