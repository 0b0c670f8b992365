package protocol

import (
	"fmt"
	"strconv"

	"github.com/palemoky/reversi/internal/apperrors"
	"github.com/palemoky/reversi/internal/game/board"
)

// --- 客户端请求 Payloads ---

// MovePayload MOVE <col> <row> <lobbyId>
type MovePayload struct {
	Col     int
	Row     int
	LobbyID int
}

// --- 服务端响应 Payloads ---

// StartPayload START <active> <name1> <name2> <lobbyId>
type StartPayload struct {
	Active  int
	Names   [2]string
	LobbyID int
}

// StatePayload STATE <board64> <score1> <score2> <active>
type StatePayload struct {
	Board  board.Board
	Scores [2]int
	Active int
}

func violation(m *Message, format string, args ...any) error {
	return fmt.Errorf("%s: %s: %w", m.Command, fmt.Sprintf(format, args...), apperrors.ErrProtocolViolation)
}

func expectArgs(m *Message, n int) error {
	if len(m.Args) < n {
		return violation(m, "want %d args, got %d", n, len(m.Args))
	}
	return nil
}

func intArg(m *Message, i int, name string) (int, error) {
	n, err := strconv.Atoi(m.Arg(i))
	if err != nil {
		return 0, violation(m, "%s %q is not a number", name, m.Arg(i))
	}
	return n, nil
}

func seatArg(m *Message, i int, name string, allowDraw bool) (int, error) {
	n, err := intArg(m, i, name)
	if err != nil {
		return 0, err
	}
	if n == 1 || n == 2 || (allowDraw && n == 3) {
		return n, nil
	}
	return 0, violation(m, "%s %d out of range", name, n)
}

// ParseCreate 解析用户名
func ParseCreate(m *Message) (string, error) {
	if err := expectArgs(m, 1); err != nil {
		return "", err
	}
	name := m.Arg(0)
	if !ValidUsername(name) {
		return "", violation(m, "invalid username %q", name)
	}
	return name, nil
}

// ParseLobbyID 解析 JOIN/EXIT/REMATCH 的大厅编号（从 1 开始）
func ParseLobbyID(m *Message) (int, error) {
	if err := expectArgs(m, 1); err != nil {
		return 0, err
	}
	id, err := intArg(m, 0, "lobby id")
	if err != nil {
		return 0, err
	}
	if id < 1 {
		return 0, violation(m, "lobby id %d out of range", id)
	}
	return id, nil
}

// ParseMove 解析落子
func ParseMove(m *Message) (MovePayload, error) {
	var p MovePayload
	if err := expectArgs(m, 3); err != nil {
		return p, err
	}
	var err error
	if p.Col, err = intArg(m, 0, "col"); err != nil {
		return p, err
	}
	if p.Row, err = intArg(m, 1, "row"); err != nil {
		return p, err
	}
	if p.LobbyID, err = intArg(m, 2, "lobby id"); err != nil {
		return p, err
	}
	if !(board.Pos{Col: p.Col, Row: p.Row}).InBounds() {
		return p, violation(m, "cell (%d,%d) out of board", p.Col, p.Row)
	}
	return p, nil
}

// ParseLobby 解析大厅数量
func ParseLobby(m *Message) (int, error) {
	if err := expectArgs(m, 1); err != nil {
		return 0, err
	}
	n, err := intArg(m, 0, "count")
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, violation(m, "negative count %d", n)
	}
	return n, nil
}

// ParseConnect 解析座位号，SeatFull 表示大厅已满
func ParseConnect(m *Message) (int, error) {
	if err := expectArgs(m, 1); err != nil {
		return 0, err
	}
	return seatArg(m, 0, "seat", true)
}

// ParseStart 解析开局消息
func ParseStart(m *Message) (StartPayload, error) {
	var p StartPayload
	if err := expectArgs(m, 4); err != nil {
		return p, err
	}
	var err error
	if p.Active, err = seatArg(m, 0, "active", false); err != nil {
		return p, err
	}
	p.Names = [2]string{m.Arg(1), m.Arg(2)}
	if p.LobbyID, err = intArg(m, 3, "lobby id"); err != nil {
		return p, err
	}
	return p, nil
}

// ParseState 解析棋盘快照
func ParseState(m *Message) (StatePayload, error) {
	var p StatePayload
	if err := expectArgs(m, 4); err != nil {
		return p, err
	}
	b, err := board.Decode(m.Arg(0))
	if err != nil {
		return p, violation(m, "%v", err)
	}
	p.Board = b
	if p.Scores[0], err = intArg(m, 1, "score1"); err != nil {
		return p, err
	}
	if p.Scores[1], err = intArg(m, 2, "score2"); err != nil {
		return p, err
	}
	if p.Active, err = seatArg(m, 3, "active", false); err != nil {
		return p, err
	}
	return p, nil
}

// ParseEnd 解析胜者，WinnerDraw 表示平局
func ParseEnd(m *Message) (int, error) {
	if err := expectArgs(m, 1); err != nil {
		return 0, err
	}
	return seatArg(m, 0, "winner", true)
}

// ParseDisconnect 解析掉线玩家
func ParseDisconnect(m *Message) (int, error) {
	if err := expectArgs(m, 1); err != nil {
		return 0, err
	}
	return seatArg(m, 0, "seat", false)
}
