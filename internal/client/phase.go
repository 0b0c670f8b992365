package client

// Phase 会话所处阶段
type Phase int

const (
	PhaseConnecting         Phase = iota // 已发送 CREATE，等待大厅列表
	PhaseLobby                           // 浏览大厅
	PhaseWaitingForOpponent              // 已入座，等待对手
	PhaseInGame                          // 对局中
	PhasePaused                          // 对手掉线，等待其重连
	PhaseGameOver                        // 对局结束
	PhaseRematching                      // 已请求再来一局
	PhaseReconnecting                    // 与服务器断开，正在重连
	PhaseExited                          // 用户主动退出，控制器不再使用
)

func (p Phase) String() string {
	switch p {
	case PhaseConnecting:
		return "Connecting"
	case PhaseLobby:
		return "Lobby"
	case PhaseWaitingForOpponent:
		return "WaitingForOpponent"
	case PhaseInGame:
		return "InGame"
	case PhasePaused:
		return "Paused"
	case PhaseGameOver:
		return "GameOver"
	case PhaseRematching:
		return "Rematching"
	case PhaseReconnecting:
		return "Reconnecting"
	case PhaseExited:
		return "Exited"
	default:
		return "Unknown"
	}
}

// inGameContext 是否处于某个对局之中（含暂停与结算）
func (p Phase) inGameContext() bool {
	switch p {
	case PhaseInGame, PhasePaused, PhaseGameOver, PhaseRematching:
		return true
	}
	return false
}

// Cue 最近一次消息触发的提示音
type Cue int

const (
	CueNone Cue = iota
	CueStone
	CuePass
	CueWin
	CueLose
	CueDraw
	CueAlert
)
