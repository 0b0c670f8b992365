package protocol

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/reversi/internal/apperrors"
	"github.com/palemoky/reversi/internal/game/board"
)

func TestMessage_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "REV MOVE 2 3 1", Move(2, 3, 1).String())
	assert.Equal(t, "REV HEARTBEAT", Heartbeat().String())
	assert.Equal(t, "REV START 1 alice bob 7", Start(1, "alice", "bob", 7).String())
	assert.Equal(t, "", Pass().Arg(0))
	assert.True(t, ServerDisconnect().IsLocal())
	assert.True(t, ReconnectFailed().IsLocal())
	assert.False(t, Reconnect().IsLocal())
}

func TestValidUsername(t *testing.T) {
	t.Parallel()

	assert.True(t, ValidUsername("alice"))
	assert.False(t, ValidUsername(""))
	assert.False(t, ValidUsername("al ice"))
	assert.False(t, ValidUsername(strings.Repeat("a", MaxUsernameLen+1)))
}

func TestParseState(t *testing.T) {
	t.Parallel()

	b := board.New()
	p, err := ParseState(State(b, 2, 2, 1))
	require.NoError(t, err)
	assert.Equal(t, b, p.Board)
	assert.Equal(t, [2]int{2, 2}, p.Scores)
	assert.Equal(t, 1, p.Active)

	bad := []*Message{
		New(CmdState, "123", "2", "2", "1"),
		New(CmdState, b.Encode(), "x", "2", "1"),
		New(CmdState, b.Encode(), "2", "2", "5"),
		New(CmdState, b.Encode()),
	}
	for _, m := range bad {
		_, err := ParseState(m)
		assert.ErrorIs(t, err, apperrors.ErrProtocolViolation, m.String())
	}
}

func TestParseStart(t *testing.T) {
	t.Parallel()

	p, err := ParseStart(Start(2, "alice", "bob", 3))
	require.NoError(t, err)
	assert.Equal(t, StartPayload{Active: 2, Names: [2]string{"alice", "bob"}, LobbyID: 3}, p)

	_, err = ParseStart(New(CmdStart, "1", "alice"))
	assert.ErrorIs(t, err, apperrors.ErrProtocolViolation)
}

func TestParseSeats(t *testing.T) {
	t.Parallel()

	seat, err := ParseConnect(Connect(SeatFull))
	require.NoError(t, err)
	assert.Equal(t, SeatFull, seat)

	winner, err := ParseEnd(End(WinnerDraw))
	require.NoError(t, err)
	assert.Equal(t, WinnerDraw, winner)

	_, err = ParseDisconnect(Disconnect(3))
	assert.ErrorIs(t, err, apperrors.ErrProtocolViolation)

	n, err := ParseLobby(Lobby(5))
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	_, err = ParseLobby(New(CmdLobby, "-1"))
	assert.ErrorIs(t, err, apperrors.ErrProtocolViolation)
}

func TestParseClientMessages(t *testing.T) {
	t.Parallel()

	name, err := ParseCreate(Create("alice"))
	require.NoError(t, err)
	assert.Equal(t, "alice", name)

	_, err = ParseCreate(New(CmdCreate))
	assert.ErrorIs(t, err, apperrors.ErrProtocolViolation)

	id, err := ParseLobbyID(Join(4))
	require.NoError(t, err)
	assert.Equal(t, 4, id)

	_, err = ParseLobbyID(Join(0))
	assert.ErrorIs(t, err, apperrors.ErrProtocolViolation)

	mv, err := ParseMove(Move(7, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, MovePayload{Col: 7, Row: 0, LobbyID: 1}, mv)

	_, err = ParseMove(Move(8, 0, 1))
	assert.ErrorIs(t, err, apperrors.ErrProtocolViolation)
}
