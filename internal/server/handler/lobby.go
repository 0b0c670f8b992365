package handler

import (
	"errors"

	"github.com/palemoky/reversi/internal/apperrors"
	"github.com/palemoky/reversi/internal/protocol"
	"github.com/palemoky/reversi/internal/types"
)

// handleJoin 加入大厅，满员时回复 CONNECT 3
func (h *Handler) handleJoin(client types.ClientInterface, msg *protocol.Message) error {
	id, err := protocol.ParseLobbyID(msg)
	if err != nil {
		return err
	}
	if err := requireName(client); err != nil {
		return err
	}

	if _, err := h.lobbies.Join(client, id); err != nil {
		if errors.Is(err, apperrors.ErrLobbyFull) {
			client.SendMessage(protocol.Connect(protocol.SeatFull))
		}
		return err
	}
	h.sessionManager.SetLobby(client.GetName(), id)
	return nil
}

// handleExit 离开大厅，对局中离开判负
func (h *Handler) handleExit(client types.ClientInterface, msg *protocol.Message) error {
	id, err := protocol.ParseLobbyID(msg)
	if err != nil {
		return err
	}
	l, err := h.lobbyOf(client, id)
	if err != nil {
		return err
	}
	if err := l.Leave(client); err != nil {
		return err
	}
	h.sessionManager.SetLobby(client.GetName(), 0)
	return nil
}
