package handler

import "github.com/palemoky/reversi/internal/game/lobby"

// Stats 服务端运行统计
type Stats struct {
	Online  int
	Lobbies lobby.Stats
}

// GetStats 汇总在线人数与各状态大厅数量
func (h *Handler) GetStats() Stats {
	st := Stats{Lobbies: h.lobbies.Stats()}
	if h.server != nil {
		st.Online = h.server.GetOnlineCount()
	}
	return st
}
