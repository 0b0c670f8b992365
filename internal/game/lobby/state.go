package lobby

// Status 大厅状态
type Status int

const (
	StatusWaiting Status = iota // 等待玩家入座
	StatusPlaying               // 对局中
	StatusPaused                // 有玩家掉线，保留其座位
	StatusEnded                 // 对局结束，等待再来一局或离开
)

func (s Status) String() string {
	switch s {
	case StatusWaiting:
		return "waiting"
	case StatusPlaying:
		return "playing"
	case StatusPaused:
		return "paused"
	case StatusEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// inProgress 对局是否尚未结束
func (s Status) inProgress() bool {
	return s == StatusPlaying || s == StatusPaused
}
