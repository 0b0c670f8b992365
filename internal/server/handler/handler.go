// Package handler dispatches client commands to the lobby and session managers.
package handler

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/palemoky/reversi/internal/apperrors"
	"github.com/palemoky/reversi/internal/game/lobby"
	"github.com/palemoky/reversi/internal/protocol"
	"github.com/palemoky/reversi/internal/server/session"
	"github.com/palemoky/reversi/internal/types"
)

// HandlerDeps 处理器依赖
type HandlerDeps struct {
	Server         types.ServerInterface
	Lobbies        *lobby.Manager
	SessionManager *session.SessionManager
	Logger         *zap.Logger
}

// Handler 消息处理器
type Handler struct {
	server         types.ServerInterface
	lobbies        *lobby.Manager
	sessionManager *session.SessionManager
	log            *zap.Logger
	handlers       map[protocol.Command]handlerFunc
}

// handlerFunc 统一的处理器函数签名
type handlerFunc func(client types.ClientInterface, msg *protocol.Message) error

// NewHandler 创建处理器
func NewHandler(deps HandlerDeps) *Handler {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	h := &Handler{
		server:         deps.Server,
		lobbies:        deps.Lobbies,
		sessionManager: deps.SessionManager,
		log:            log,
	}
	h.initHandlers()
	return h
}

// initHandlers 初始化消息处理器映射
func (h *Handler) initHandlers() {
	h.handlers = map[protocol.Command]handlerFunc{
		// 连接操作
		protocol.CmdCreate:    h.handleCreate,
		protocol.CmdHeartbeat: func(c types.ClientInterface, _ *protocol.Message) error { return h.handleHeartbeat(c) },

		// 大厅操作
		protocol.CmdJoin: h.handleJoin,
		protocol.CmdExit: h.handleExit,

		// 游戏操作
		protocol.CmdMove:    h.handleMove,
		protocol.CmdRematch: h.handleRematch,
	}
}

// Handle 处理消息。返回的错误只用于日志与协议违规计数，不会回写给客户端。
func (h *Handler) Handle(client types.ClientInterface, msg *protocol.Message) error {
	handler, ok := h.handlers[msg.Command]
	if !ok {
		return fmt.Errorf("unknown command %q: %w", msg.Command, apperrors.ErrProtocolViolation)
	}
	err := handler(client, msg)
	if err != nil && !errors.Is(err, apperrors.ErrProtocolViolation) {
		h.log.Debug("command rejected",
			zap.String("client", client.GetID()),
			zap.String("name", client.GetName()),
			zap.Stringer("msg", msg),
			zap.Error(err))
	}
	return err
}

// requireName 除 CREATE / HEARTBEAT 外的命令都要求已登记用户名
func requireName(client types.ClientInterface) error {
	if client.GetName() == "" {
		return fmt.Errorf("no username registered: %w", apperrors.ErrInvalidIntent)
	}
	return nil
}

// lobbyOf 校验消息中的大厅编号与客户端所在大厅一致
func (h *Handler) lobbyOf(client types.ClientInterface, id int) (*lobby.Lobby, error) {
	if err := requireName(client); err != nil {
		return nil, err
	}
	if cur := client.GetLobby(); cur != id {
		return nil, fmt.Errorf("lobby %d (seated in %d): %w", id, cur, apperrors.ErrNotInLobby)
	}
	return h.lobbies.Get(id)
}
