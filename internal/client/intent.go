package client

// IntentKind 用户意图类型
type IntentKind int

const (
	IntentJoin    IntentKind = iota + 1 // 加入大厅 N
	IntentMove                          // 在 (col,row) 落子
	IntentExit                          // 退出
	IntentRematch                       // 再来一局
	IntentDismiss                       // 确认“服务器不可达”错误，回到初始状态
)

func (k IntentKind) String() string {
	switch k {
	case IntentJoin:
		return "Join"
	case IntentMove:
		return "Move"
	case IntentExit:
		return "Exit"
	case IntentRematch:
		return "Rematch"
	case IntentDismiss:
		return "Dismiss"
	default:
		return "Unknown"
	}
}

// Intent 展示层产生的离散操作
type Intent struct {
	Kind  IntentKind
	Lobby int // IntentJoin，从 1 开始
	Col   int // IntentMove
	Row   int // IntentMove
}

func JoinIntent(lobby int) Intent { return Intent{Kind: IntentJoin, Lobby: lobby} }

func MoveIntent(col, row int) Intent { return Intent{Kind: IntentMove, Col: col, Row: row} }

func ExitIntent() Intent { return Intent{Kind: IntentExit} }

func RematchIntent() Intent { return Intent{Kind: IntentRematch} }

func DismissIntent() Intent { return Intent{Kind: IntentDismiss} }
