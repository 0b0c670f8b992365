package handler

import (
	"github.com/palemoky/reversi/internal/protocol"
	"github.com/palemoky/reversi/internal/types"
)

// handleMove 落子。非法落子、不是自己的回合都静默忽略。
func (h *Handler) handleMove(client types.ClientInterface, msg *protocol.Message) error {
	p, err := protocol.ParseMove(msg)
	if err != nil {
		return err
	}
	l, err := h.lobbyOf(client, p.LobbyID)
	if err != nil {
		return err
	}
	return l.Move(client, p.Col, p.Row)
}

// handleRematch 再来一局
func (h *Handler) handleRematch(client types.ClientInterface, msg *protocol.Message) error {
	id, err := protocol.ParseLobbyID(msg)
	if err != nil {
		return err
	}
	l, err := h.lobbyOf(client, id)
	if err != nil {
		return err
	}
	return l.Rematch(client)
}
