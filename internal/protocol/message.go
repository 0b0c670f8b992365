package protocol

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/palemoky/reversi/internal/game/board"
)

// Prefix 每条消息的首个 token
const Prefix = "REV"

// Command 消息命令
type Command string

// 客户端 → 服务端
const (
	CmdCreate    Command = "CREATE"    // 注册用户名（断线后同名即恢复座位）
	CmdJoin      Command = "JOIN"      // 加入大厅
	CmdMove      Command = "MOVE"      // 落子
	CmdExit      Command = "EXIT"      // 离开大厅/对局
	CmdRematch   Command = "REMATCH"   // 请求再来一局
	CmdHeartbeat Command = "HEARTBEAT" // 心跳
)

// 服务端 → 客户端
const (
	CmdLobby      Command = "LOBBY"      // 大厅数量
	CmdConnect    Command = "CONNECT"    // 座位分配
	CmdStart      Command = "START"      // 对局开始/恢复
	CmdState      Command = "STATE"      // 权威棋盘快照
	CmdPass       Command = "PASS"       // 对手无子可下，轮空
	CmdEnd        Command = "END"        // 对局结束
	CmdDisconnect Command = "DISCONNECT" // 某位玩家掉线
	CmdReconnect  Command = "RECONNECT"  // 掉线的对手回来了
	CmdHeartpop   Command = "HEARTPOP"   // 心跳应答，不进入事件队列
)

// 仅在本地合成，从不上线
const (
	CmdServerDisconnect Command = "SERVER_DISCONNECT"
	CmdReconnectFailed  Command = "RECONNECT_FAILED"
)

// 协议常量
const (
	SeatFull        = 3  // CONNECT 3 表示大厅已满
	WinnerDraw      = 3  // END 3 表示平局
	MaxUsernameLen  = 16 // 用户名最大长度
	BoardEncodedLen = board.Cells
)

// Message 一条已分词的协议消息（不含 REV 前缀）
type Message struct {
	Command Command
	Args    []string
}

// New 构造消息
func New(cmd Command, args ...string) *Message {
	if len(args) == 0 {
		args = nil
	}
	return &Message{Command: cmd, Args: args}
}

// Arg 取第 i 个参数，越界返回空串
func (m *Message) Arg(i int) string {
	if i < 0 || i >= len(m.Args) {
		return ""
	}
	return m.Args[i]
}

// IsLocal 是否为本地合成的消息
func (m *Message) IsLocal() bool {
	return m.Command == CmdServerDisconnect || m.Command == CmdReconnectFailed
}

// String 返回不含换行的线上形式
func (m *Message) String() string {
	var sb strings.Builder
	sb.WriteString(Prefix)
	sb.WriteByte(' ')
	sb.WriteString(string(m.Command))
	for _, a := range m.Args {
		sb.WriteByte(' ')
		sb.WriteString(a)
	}
	return sb.String()
}

// ValidUsername 用户名非空、不含空白且不超过 MaxUsernameLen
func ValidUsername(name string) bool {
	if name == "" || len(name) > MaxUsernameLen {
		return false
	}
	return strings.IndexFunc(name, unicode.IsSpace) < 0
}

func itoa(n int) string { return strconv.Itoa(n) }

// --- 客户端消息 ---

func Create(username string) *Message { return New(CmdCreate, username) }

func Join(lobbyID int) *Message { return New(CmdJoin, itoa(lobbyID)) }

func Move(col, row, lobbyID int) *Message {
	return New(CmdMove, itoa(col), itoa(row), itoa(lobbyID))
}

func Exit(lobbyID int) *Message { return New(CmdExit, itoa(lobbyID)) }

func Rematch(lobbyID int) *Message { return New(CmdRematch, itoa(lobbyID)) }

func Heartbeat() *Message { return New(CmdHeartbeat) }

// --- 服务端消息 ---

func Lobby(count int) *Message { return New(CmdLobby, itoa(count)) }

func Connect(seat int) *Message { return New(CmdConnect, itoa(seat)) }

func Start(active int, name1, name2 string, lobbyID int) *Message {
	return New(CmdStart, itoa(active), name1, name2, itoa(lobbyID))
}

func State(b board.Board, score1, score2, active int) *Message {
	return New(CmdState, b.Encode(), itoa(score1), itoa(score2), itoa(active))
}

func Pass() *Message { return New(CmdPass) }

func End(winner int) *Message { return New(CmdEnd, itoa(winner)) }

func Disconnect(seat int) *Message { return New(CmdDisconnect, itoa(seat)) }

func Reconnect() *Message { return New(CmdReconnect) }

func Heartpop() *Message { return New(CmdHeartpop) }

// ServerDisconnect 传输断开时由接收循环合成
func ServerDisconnect() *Message { return New(CmdServerDisconnect) }

// ReconnectFailed 重连次数用尽时合成
func ReconnectFailed() *Message { return New(CmdReconnectFailed) }
