package model

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/reversi/internal/client"
	"github.com/palemoky/reversi/internal/game/board"
	"github.com/palemoky/reversi/internal/protocol"
	"github.com/palemoky/reversi/internal/testutil"
)

type recordingPlayer struct {
	cues []client.Cue
}

func (p *recordingPlayer) PlayCue(c client.Cue) { p.cues = append(p.cues, c) }

func newTestModel(t *testing.T) (*OnlineModel, *testutil.RecordingTransport, *recordingPlayer) {
	t.Helper()
	tr := &testutil.RecordingTransport{}
	player := &recordingPlayer{}
	ctrl := client.New(tr, "127.0.0.1:1")
	m := NewOnlineModel(context.Background(), ctrl, make(chan *protocol.Message), WithSound(player))
	return m, tr, player
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeText(m *OnlineModel, s string) {
	for _, r := range s {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func deliver(m *OnlineModel, msgs ...*protocol.Message) tea.Cmd {
	var cmd tea.Cmd
	for _, msg := range msgs {
		_, cmd = m.Update(serverMsg{msg: msg})
	}
	return cmd
}

// inGame 以 alice 身份登录并在 2 号大厅执黑开局
func inGame(t *testing.T) (*OnlineModel, *testutil.RecordingTransport, *recordingPlayer) {
	t.Helper()
	m, tr, player := newTestModel(t)
	typeText(m, "alice")
	m.Update(key("enter"))
	deliver(m, protocol.Lobby(3))
	m.Update(key("2"))
	require.Equal(t, protocol.Join(2), tr.Last())
	deliver(m,
		protocol.Connect(1),
		protocol.Start(1, "alice", "bob", 2),
		protocol.State(board.New(), 2, 2, 1),
	)
	require.Equal(t, client.PhaseInGame, m.Snapshot().Phase)
	return m, tr, player
}

func TestOnlineModel_Login(t *testing.T) {
	t.Parallel()

	m, tr, _ := newTestModel(t)
	assert.Contains(t, m.View(), "Username")

	typeText(m, "alice")
	m.Update(key("enter"))
	assert.True(t, tr.Connected)
	assert.Equal(t, protocol.Create("alice"), tr.Last())
	assert.Contains(t, m.View(), "Connecting as alice")

	deliver(m, protocol.Lobby(4))
	assert.Equal(t, client.PhaseLobby, m.Snapshot().Phase)
	assert.Contains(t, m.View(), "Lobby 4")
}

func TestOnlineModel_LoginInvalidName(t *testing.T) {
	t.Parallel()

	m, tr, _ := newTestModel(t)
	m.Update(key("enter"))
	assert.False(t, tr.Connected)
	assert.Contains(t, m.View(), "username must be")
}

func TestOnlineModel_LoginUnreachable(t *testing.T) {
	t.Parallel()

	m, tr, _ := newTestModel(t)
	tr.ConnectErr = errors.New("connection refused")
	typeText(m, "alice")
	m.Update(key("enter"))
	assert.Equal(t, "server unreachable", m.Snapshot().Fatal)
	assert.Contains(t, m.View(), "server unreachable")

	m.Update(key("enter"))
	assert.Empty(t, m.Snapshot().Fatal)
	assert.Equal(t, client.PhaseConnecting, m.Snapshot().Phase)
	assert.Contains(t, m.View(), "Username")
}

func TestOnlineModel_LobbyCursor(t *testing.T) {
	t.Parallel()

	m, tr, _ := newTestModel(t)
	typeText(m, "alice")
	m.Update(key("enter"))
	deliver(m, protocol.Lobby(2))

	m.Update(key("up"))
	m.Update(key("down"))
	m.Update(key("down"))
	m.Update(key("enter"))
	assert.Equal(t, protocol.Join(2), tr.Last())

	deliver(m, protocol.Connect(protocol.SeatFull))
	assert.Equal(t, client.PhaseLobby, m.Snapshot().Phase)
	assert.Contains(t, m.View(), "lobby is full")
}

func TestOnlineModel_MoveWithCursor(t *testing.T) {
	t.Parallel()

	m, tr, player := inGame(t)
	assert.Equal(t, board.Pos{Col: 3, Row: 3}, m.Cursor())
	assert.Empty(t, player.cues)

	// (3,3) 已有棋子
	sent := len(tr.Sent)
	m.Update(key("enter"))
	assert.Len(t, tr.Sent, sent)
	assert.Equal(t, "illegal move", m.Snapshot().Notice)

	m.Update(key("up"))
	m.Update(key(" "))
	assert.Equal(t, protocol.Move(3, 2, 2), tr.Last())
}

func TestOnlineModel_CursorStaysOnBoard(t *testing.T) {
	t.Parallel()

	m, _, _ := inGame(t)
	for range board.Size {
		m.Update(key("h"))
		m.Update(key("k"))
	}
	assert.Equal(t, board.Pos{Col: 0, Row: 0}, m.Cursor())
	for range board.Size {
		m.Update(key("l"))
		m.Update(key("j"))
	}
	assert.Equal(t, board.Pos{Col: board.Size - 1, Row: board.Size - 1}, m.Cursor())
}

func TestOnlineModel_GameOverAndRematch(t *testing.T) {
	t.Parallel()

	m, tr, player := inGame(t)
	deliver(m, protocol.End(1))
	assert.Equal(t, client.PhaseGameOver, m.Snapshot().Phase)
	assert.Equal(t, client.CueWin, player.cues[len(player.cues)-1])
	assert.Contains(t, m.View(), "You win")

	m.Update(key("r"))
	assert.Equal(t, protocol.Rematch(2), tr.Last())
	assert.Equal(t, client.PhaseRematching, m.Snapshot().Phase)
}

func TestOnlineModel_Quit(t *testing.T) {
	t.Parallel()

	m, tr, _ := inGame(t)
	_, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Equal(t, protocol.Exit(2), tr.Last())
	assert.True(t, tr.Closed)
	assert.Equal(t, client.PhaseExited, m.Snapshot().Phase)
	assert.Empty(t, m.View())
}

func TestOnlineModel_CtrlCDuringLogin(t *testing.T) {
	t.Parallel()

	m, tr, _ := newTestModel(t)
	typeText(m, "q")
	assert.Equal(t, client.PhaseConnecting, m.Snapshot().Phase)

	_, cmd := m.Update(key("ctrl+c"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, tr.Sent)
	assert.True(t, tr.Closed)
}

func TestOnlineModel_ListenReturnsServerMessages(t *testing.T) {
	t.Parallel()

	events := make(chan *protocol.Message, 1)
	ctx, cancel := context.WithCancel(context.Background())
	m := NewOnlineModel(ctx, client.New(&testutil.RecordingTransport{}, "x"), events)

	events <- protocol.Lobby(2)
	assert.Equal(t, serverMsg{msg: protocol.Lobby(2)}, m.listen()())

	cancel()
	assert.IsType(t, tea.QuitMsg{}, m.listen()())
}
