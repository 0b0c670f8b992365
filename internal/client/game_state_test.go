package client

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/palemoky/reversi/internal/game/board"
)

func TestNewSessionState(t *testing.T) {
	t.Parallel()

	s := NewSessionState()
	assert.Equal(t, PhaseConnecting, s.Phase)
	assert.Zero(t, s.LobbyID)
	assert.False(t, s.MyTurn())
	assert.Equal(t, board.Board{}, s.Board)
}

func TestSessionState_ResetAndLeave(t *testing.T) {
	t.Parallel()

	s := NewSessionState()
	s.LobbyID = 2
	s.PlayerNumber = 2
	s.Usernames = [2]string{"alice", "bob"}
	s.Winner = 1

	s.ResetGame()
	assert.Equal(t, board.New(), s.Board)
	assert.Equal(t, [2]int{2, 2}, s.Scores)
	assert.Equal(t, int(board.Black), s.Active)
	assert.Zero(t, s.Winner)
	assert.Equal(t, 2, s.LobbyID)

	s.LeaveLobby()
	assert.Zero(t, s.LobbyID)
	assert.Zero(t, s.PlayerNumber)
	assert.Empty(t, s.OpponentName())
	assert.Equal(t, board.Board{}, s.Board)
}

func TestSessionState_Seats(t *testing.T) {
	t.Parallel()

	tests := []struct {
		seat     int
		color    board.Color
		opponent string
	}{
		{1, board.Black, "bob"},
		{2, board.White, "alice"},
		{0, board.Color(0), ""},
	}
	for _, tt := range tests {
		s := NewSessionState()
		s.PlayerNumber = tt.seat
		s.Usernames = [2]string{"alice", "bob"}
		assert.Equal(t, tt.color, s.MyColor())
		assert.Equal(t, tt.opponent, s.OpponentName())
	}
}

func TestSessionState_SnapshotHints(t *testing.T) {
	t.Parallel()

	s := NewSessionState()
	s.Phase = PhaseInGame
	s.PlayerNumber = 1
	s.ResetGame()

	snap := s.snapshot()
	assert.True(t, snap.MyTurn)
	assert.Equal(t, 4, snap.Board.Count(board.Hint))
	assert.Zero(t, s.Board.Count(board.Hint), "hints never leak into the mirror")

	s.Active = 2
	snap = s.snapshot()
	assert.False(t, snap.MyTurn)
	assert.Zero(t, snap.Board.Count(board.Hint))
}
