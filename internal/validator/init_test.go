package validator

import (
	"ctchen222/tictactoe/internal/game"
	"ctchen222/tictactoe/pkg/proto"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSymbolChoice(t *testing.T) {
	tests := []struct {
		mark    game.PlayerMark
		wantErr bool
	}{
		{mark: game.PlayerX},
		{mark: game.PlayerO},
		{mark: game.None, wantErr: true},
		{mark: "x", wantErr: true},
		{mark: "XO", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("mark %q", tt.mark), func(t *testing.T) {
			err := Struct(proto.SymbolChoice{Mark: tt.mark})
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, []string{"Mark"}, FailedFields(err))
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestMoveRequest(t *testing.T) {
	require.NoError(t, Struct(proto.MoveRequest{Row: 0, Col: 2}))
	require.NoError(t, Struct(proto.MoveRequest{Row: 2, Col: 0}))

	err := Struct(proto.MoveRequest{Row: 3, Col: -1})
	require.Error(t, err)
	assert.ElementsMatch(t, []string{"Row", "Col"}, FailedFields(err))
}

func TestFailedFields_NotValidationError(t *testing.T) {
	assert.Nil(t, FailedFields(nil))
	assert.Nil(t, FailedFields(fmt.Errorf("plain")))
}
