// Package model contains the bubbletea model driving an online session.
package model

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/palemoky/reversi/internal/apperrors"
	"github.com/palemoky/reversi/internal/client"
	"github.com/palemoky/reversi/internal/game/board"
	"github.com/palemoky/reversi/internal/protocol"
	"github.com/palemoky/reversi/internal/ui/common"
	"github.com/palemoky/reversi/internal/ui/view"
)

const loginTimeout = 10 * time.Second

// CuePlayer 播放提示音
type CuePlayer interface {
	PlayCue(client.Cue)
}

type nopPlayer struct{}

func (nopPlayer) PlayCue(client.Cue) {}

// serverMsg 从连接管理器收到的一条消息
type serverMsg struct {
	msg *protocol.Message
}

// Option 配置 OnlineModel
type Option func(*OnlineModel)

// WithSound 设置提示音播放器
func WithSound(p CuePlayer) Option {
	return func(m *OnlineModel) {
		if p != nil {
			m.sound = p
		}
	}
}

// WithLogger 设置日志
func WithLogger(l *zap.Logger) Option {
	return func(m *OnlineModel) {
		if l != nil {
			m.log = l
		}
	}
}

// WithUsername 预填用户名
func WithUsername(name string) Option {
	return func(m *OnlineModel) {
		m.input.SetValue(name)
	}
}

// OnlineModel 把按键翻译为意图，把服务器消息交给控制器。
// 控制器的所有调用都发生在 Update 中，即 bubbletea 的事件循环 goroutine。
type OnlineModel struct {
	ctx    context.Context
	ctrl   *client.Controller
	events <-chan *protocol.Message
	sound  CuePlayer
	log    *zap.Logger

	input       textinput.Model
	cursor      board.Pos
	lobbyCursor int
	snap        client.Snapshot
	loginErr    string
	width       int
	height      int
	quitting    bool
}

// NewOnlineModel creates the model. events is the connection manager's inbound queue.
func NewOnlineModel(ctx context.Context, ctrl *client.Controller, events <-chan *protocol.Message, opts ...Option) *OnlineModel {
	ti := textinput.New()
	ti.Placeholder = "username"
	ti.Prompt = "> "
	ti.CharLimit = protocol.MaxUsernameLen
	ti.Width = 30
	ti.Focus()

	m := &OnlineModel{
		ctx:    ctx,
		ctrl:   ctrl,
		events: events,
		sound:  nopPlayer{},
		log:    zap.NewNop(),
		input:  ti,
		cursor: board.Pos{Col: board.Size/2 - 1, Row: board.Size/2 - 1},
	}
	for _, opt := range opts {
		opt(m)
	}
	m.snap = ctrl.Snapshot()
	return m
}

func (m *OnlineModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.listen())
}

// listen 等待下一条服务器消息
func (m *OnlineModel) listen() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-m.events:
			return serverMsg{msg: msg}
		case <-m.ctx.Done():
			return tea.Quit()
		}
	}
}

// Snapshot 最近一次渲染使用的状态
func (m *OnlineModel) Snapshot() client.Snapshot { return m.snap }

// Cursor 棋盘光标
func (m *OnlineModel) Cursor() board.Pos { return m.cursor }

func (m *OnlineModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case serverMsg:
		if err := m.ctrl.Dispatch(msg.msg); err != nil {
			m.log.Warn("dispatch failed", zap.String("command", string(msg.msg.Command)), zap.Error(err))
		}
		m.refresh()
		if m.snap.Cue != client.CueNone {
			m.sound.PlayCue(m.snap.Cue)
		}
		if m.snap.Phase == client.PhaseExited {
			m.quitting = true
			return m, tea.Quit
		}
		return m, m.listen()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.snap.Phase == client.PhaseConnecting && m.snap.Username == "" {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *OnlineModel) refresh() {
	m.snap = m.ctrl.Snapshot()
	if m.snap.LobbyCount > 0 && m.lobbyCursor >= m.snap.LobbyCount {
		m.lobbyCursor = m.snap.LobbyCount - 1
	}
}

func (m *OnlineModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m.exit()
	}

	if m.snap.Fatal != "" {
		switch msg.String() {
		case "enter":
			m.intent(client.DismissIntent())
			m.loginErr = ""
			m.input.Focus()
		case "q", "esc":
			return m.exit()
		}
		return m, nil
	}

	switch m.snap.Phase {
	case client.PhaseConnecting:
		if m.snap.Username == "" {
			return m.handleLoginKey(msg)
		}
	case client.PhaseLobby:
		m.handleLobbyKey(msg)
	case client.PhaseInGame:
		m.handleBoardKey(msg)
	case client.PhaseGameOver:
		if msg.String() == "r" {
			m.intent(client.RematchIntent())
		}
	}

	switch msg.String() {
	case "q", "esc":
		return m.exit()
	}
	return m, nil
}

func (m *OnlineModel) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		return m.exit()
	case tea.KeyEnter:
		m.login()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *OnlineModel) login() {
	ctx, cancel := context.WithTimeout(m.ctx, loginTimeout)
	defer cancel()

	name := m.input.Value()
	if err := m.ctrl.Login(ctx, name); err != nil {
		m.log.Warn("login failed", zap.String("username", name), zap.Error(err))
		if errors.Is(err, apperrors.ErrInvalidIntent) {
			m.loginErr = "username must be 1-" + strconv.Itoa(protocol.MaxUsernameLen) + " characters without spaces"
		}
	} else {
		m.loginErr = ""
		m.input.Blur()
	}
	m.refresh()
}

func (m *OnlineModel) handleLobbyKey(msg tea.KeyMsg) {
	switch key := msg.String(); key {
	case "up", "k":
		if m.lobbyCursor > 0 {
			m.lobbyCursor--
		}
	case "down", "j":
		if m.lobbyCursor < m.snap.LobbyCount-1 {
			m.lobbyCursor++
		}
	case "enter":
		m.intent(client.JoinIntent(m.lobbyCursor + 1))
	default:
		if n, err := strconv.Atoi(key); err == nil && n > 0 {
			m.intent(client.JoinIntent(n))
		}
	}
}

func (m *OnlineModel) handleBoardKey(msg tea.KeyMsg) {
	switch msg.String() {
	case "up", "k":
		m.moveCursor(0, -1)
	case "down", "j":
		m.moveCursor(0, 1)
	case "left", "h":
		m.moveCursor(-1, 0)
	case "right", "l":
		m.moveCursor(1, 0)
	case "enter", " ":
		m.intent(client.MoveIntent(m.cursor.Col, m.cursor.Row))
	}
}

func (m *OnlineModel) moveCursor(dc, dr int) {
	next := board.Pos{Col: m.cursor.Col + dc, Row: m.cursor.Row + dr}
	if next.InBounds() {
		m.cursor = next
	}
}

// intent 提交意图；拒绝的意图只记录，提示文字由控制器写入快照
func (m *OnlineModel) intent(in client.Intent) {
	if err := m.ctrl.HandleIntent(in); err != nil {
		m.log.Debug("intent rejected", zap.Stringer("intent", in.Kind), zap.Error(err))
	}
	m.refresh()
}

func (m *OnlineModel) exit() (tea.Model, tea.Cmd) {
	if m.snap.Phase != client.PhaseExited {
		m.intent(client.ExitIntent())
	}
	m.quitting = true
	return m, tea.Quit
}

func (m *OnlineModel) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch {
	case m.snap.Fatal != "":
		content = view.FatalView(m.snap.Fatal)
	case m.snap.Phase == client.PhaseConnecting && m.snap.Username == "":
		content = view.LoginView(m.input.View(), m.loginErr)
	case m.snap.Phase == client.PhaseConnecting:
		content = "Connecting as " + m.snap.Username + "..."
	case m.snap.Phase == client.PhaseLobby:
		content = view.LobbyView(m.snap, m.lobbyCursor)
	default:
		content = view.GameView(m.snap, m.cursor)
	}
	return common.DocStyle.Render(content)
}
