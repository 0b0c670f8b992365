// Package client implements the session controller: a single-threaded state
// machine fed by inbound protocol messages and local user intents.
package client

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/palemoky/reversi/internal/apperrors"
	"github.com/palemoky/reversi/internal/game/board"
	"github.com/palemoky/reversi/internal/game/rule"
	"github.com/palemoky/reversi/internal/protocol"
)

// 展示给用户的提示
const (
	noticeServerUnreachable = "server unreachable"
	noticeReconnecting      = "connection lost, reconnecting..."
	noticeLobbyFull         = "lobby is full"
	noticeIllegalMove       = "illegal move"
	noticeNotYourTurn       = "not your turn"
	noticeOpponentLeft      = "opponent disconnected, waiting for them to return"
	noticeOpponentGone      = "opponent left the lobby, waiting for a new opponent"
	noticeOpponentBack      = "opponent reconnected"
	noticeOpponentPassed    = "opponent has no legal move, your turn again"
	noticeYouPassed         = "you have no legal move, turn passes"
)

// Transport 控制器需要的连接能力
type Transport interface {
	Connect(ctx context.Context, addr string) error
	Send(msg *protocol.Message) error
	Reconnect(login *protocol.Message) bool
	Close()
}

// Option 配置 Controller
type Option func(*Controller)

// WithLogger 设置日志
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// Controller 会话控制器，非并发安全：Dispatch 与 HandleIntent 必须在同一个 goroutine 中调用
type Controller struct {
	tr    Transport
	addr  string
	state *SessionState
	log   *zap.Logger
}

// New creates a controller for the server at addr
func New(tr Transport, addr string, opts ...Option) *Controller {
	c := &Controller{
		tr:    tr,
		addr:  addr,
		state: NewSessionState(),
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Snapshot 当前状态的只读副本
func (c *Controller) Snapshot() Snapshot {
	return c.state.snapshot()
}

// Phase 当前阶段
func (c *Controller) Phase() Phase {
	return c.state.Phase
}

// Login 连接服务器并以 username 注册
func (c *Controller) Login(ctx context.Context, username string) error {
	if c.state.Phase != PhaseConnecting || c.state.Username != "" {
		return fmt.Errorf("login in phase %s: %w", c.state.Phase, apperrors.ErrInvalidIntent)
	}
	if !protocol.ValidUsername(username) {
		return fmt.Errorf("invalid username %q: %w", username, apperrors.ErrInvalidIntent)
	}
	if err := c.tr.Connect(ctx, c.addr); err != nil {
		c.state.Fatal = noticeServerUnreachable
		return fmt.Errorf("connect %s: %w", c.addr, err)
	}
	if err := c.tr.Send(protocol.Create(username)); err != nil {
		c.state.Fatal = noticeServerUnreachable
		return err
	}
	c.state.Username = username
	c.state.Fatal = ""
	c.log.Info("logged in", zap.String("username", username), zap.String("addr", c.addr))
	return nil
}

// Dispatch 处理一条入站消息
func (c *Controller) Dispatch(msg *protocol.Message) error {
	if c.state.Phase == PhaseExited {
		return nil
	}
	c.state.Notice = ""
	c.state.Cue = CueNone

	h, ok := messageHandlers[msg.Command]
	if !ok {
		return fmt.Errorf("unknown command %s: %w", msg.Command, apperrors.ErrProtocolViolation)
	}
	return h(c, msg)
}

// desync 记录与当前阶段不符的消息；消息仍会被应用
func (c *Controller) desync(msg *protocol.Message) {
	c.log.Warn("message does not match phase, applying anyway",
		zap.Stringer("phase", c.state.Phase),
		zap.String("command", string(msg.Command)),
		zap.Error(apperrors.ErrSessionDesync))
}

// HandleIntent 把用户意图翻译成出站消息
func (c *Controller) HandleIntent(in Intent) error {
	s := c.state
	if s.Phase == PhaseExited {
		return fmt.Errorf("%s after exit: %w", in.Kind, apperrors.ErrInvalidIntent)
	}

	switch in.Kind {
	case IntentJoin:
		if s.Phase != PhaseLobby {
			return c.invalid(in)
		}
		if in.Lobby < 1 || in.Lobby > s.LobbyCount {
			return fmt.Errorf("lobby %d: %w", in.Lobby, apperrors.ErrLobbyNotFound)
		}
		if err := c.tr.Send(protocol.Join(in.Lobby)); err != nil {
			return err
		}
		s.pendingJoin = in.Lobby
		return nil

	case IntentMove:
		if s.Phase != PhaseInGame {
			return c.invalid(in)
		}
		if !s.MyTurn() {
			s.Notice = noticeNotYourTurn
			return apperrors.ErrNotYourTurn
		}
		pos := board.Pos{Col: in.Col, Row: in.Row}
		if len(rule.Captures(s.Board, pos, s.MyColor())) == 0 {
			s.Notice = noticeIllegalMove
			return fmt.Errorf("move (%d,%d): %w", in.Col, in.Row, apperrors.ErrRuleViolation)
		}
		return c.tr.Send(protocol.Move(in.Col, in.Row, s.LobbyID))

	case IntentRematch:
		if s.Phase != PhaseGameOver {
			return c.invalid(in)
		}
		if s.opponentGone {
			// 服务器已把我们留在大厅等待新对手
			s.Phase = PhaseWaitingForOpponent
			s.Notice = noticeOpponentGone
			return nil
		}
		if err := c.tr.Send(protocol.Rematch(s.LobbyID)); err != nil {
			return err
		}
		s.Phase = PhaseRematching
		return nil

	case IntentDismiss:
		if s.Fatal == "" {
			return c.invalid(in)
		}
		c.state = NewSessionState()
		return nil

	case IntentExit:
		if s.LobbyID > 0 && s.Phase != PhaseReconnecting {
			if err := c.tr.Send(protocol.Exit(s.LobbyID)); err != nil {
				c.log.Debug("exit notice not sent", zap.Error(err))
			}
		}
		c.tr.Close()
		s.Phase = PhaseExited
		c.log.Info("session exited")
		return nil
	}
	return c.invalid(in)
}

func (c *Controller) invalid(in Intent) error {
	return fmt.Errorf("%s in phase %s: %w", in.Kind, c.state.Phase, apperrors.ErrInvalidIntent)
}

// run 单线程消费事件队列，每处理一条消息后回调 onChange。
// onChange 与 Dispatch 在同一个 goroutine 中执行，可以在其中调用 HandleIntent。
// 退出阶段、ctx 取消或队列关闭时返回。
func (c *Controller) run(ctx context.Context, events <-chan *protocol.Message, onChange func(Snapshot)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-events:
			if !ok {
				return nil
			}
			if err := c.Dispatch(msg); err != nil {
				c.log.Warn("dispatch failed", zap.String("command", string(msg.Command)), zap.Error(err))
			}
			if onChange != nil {
				onChange(c.Snapshot())
			}
			if c.state.Phase == PhaseExited {
				return nil
			}
		}
	}
}
