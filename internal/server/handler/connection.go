package handler

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/palemoky/reversi/internal/apperrors"
	"github.com/palemoky/reversi/internal/protocol"
	"github.com/palemoky/reversi/internal/types"
)

// handleHeartbeat 立即回复 HEARTPOP
func (h *Handler) handleHeartbeat(client types.ClientInterface) error {
	client.SendMessage(protocol.Heartpop())
	return nil
}

// handleCreate 登记用户名。若该名字有保留座位则直接恢复对局，否则下发大厅数量。
func (h *Handler) handleCreate(client types.ClientInterface, msg *protocol.Message) error {
	name, err := protocol.ParseCreate(msg)
	if err != nil {
		return err
	}
	if cur := client.GetName(); cur != "" {
		return fmt.Errorf("already registered as %q: %w", cur, apperrors.ErrInvalidIntent)
	}

	client.SetName(name)
	prev, existed := h.sessionManager.Bind(name, client.GetID())

	if ok, replaced := h.lobbies.Resume(client); ok {
		h.sessionManager.SetLobby(name, client.GetLobby())
		if replaced != nil {
			replaced.Close()
		}
		h.log.Info("player resumed game",
			zap.String("name", name),
			zap.String("client", client.GetID()),
			zap.Int("lobby", client.GetLobby()))
		return nil
	}

	// 同名的旧连接仍在线且不在对局中：新连接顶替旧连接
	if existed && prev.Online && prev.ClientID != client.GetID() && h.server != nil {
		if old := h.server.GetClientByID(prev.ClientID); old != nil {
			h.log.Info("replacing stale connection", zap.String("name", name), zap.String("old", prev.ClientID))
			old.Close()
		}
	}

	client.SendMessage(protocol.Lobby(h.lobbies.Count()))
	h.log.Info("player registered", zap.String("name", name), zap.String("client", client.GetID()))
	return nil
}

// OnDisconnect 连接断开：对局中保留座位，否则释放座位并删除会话
func (h *Handler) OnDisconnect(client types.ClientInterface) {
	reserved := h.lobbies.Disconnect(client)
	name := client.GetName()
	if name == "" {
		return
	}
	h.sessionManager.SetOffline(name, client.GetID(), reserved)
	if reserved {
		h.log.Info("seat reserved for reconnect", zap.String("name", name), zap.Int("lobby", client.GetLobby()))
	}
}

// OnExpire 保留座位过期，判对手胜并释放座位
func (h *Handler) OnExpire(name string, lobbyID int) {
	h.log.Info("reconnect window expired", zap.String("name", name), zap.Int("lobby", lobbyID))
	h.lobbies.Expire(name, lobbyID)
}
