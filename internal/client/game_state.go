package client

import (
	"github.com/palemoky/reversi/internal/game/board"
	"github.com/palemoky/reversi/internal/game/rule"
)

// SessionState 客户端本地镜像，只由控制器修改
type SessionState struct {
	Phase    Phase
	Username string

	// Lobby
	LobbyCount  int
	LobbyID     int // 从 1 开始，0 表示未入座
	pendingJoin int

	// Game
	PlayerNumber int // 1 黑 2 白，0 未知
	Usernames    [2]string
	Scores       [2]int
	Active       int
	Winner       int
	Board        board.Board
	opponentGone bool // 对局结束后对手离开了大厅

	// Feedback
	Notice string // 一次性提示，下一条消息到达时清除
	Fatal  string // 需要用户确认的错误
	Cue    Cue
}

// NewSessionState creates the state of a fresh session
func NewSessionState() *SessionState {
	return &SessionState{Phase: PhaseConnecting}
}

// ResetGame clears everything tied to the current game; board back to the opening
func (s *SessionState) ResetGame() {
	s.Board = board.New()
	s.Scores = [2]int{2, 2}
	s.Active = int(board.Black)
	s.Winner = 0
	s.opponentGone = false
}

// LeaveLobby forgets the seat and the game
func (s *SessionState) LeaveLobby() {
	s.LobbyID = 0
	s.pendingJoin = 0
	s.PlayerNumber = 0
	s.Usernames = [2]string{}
	s.Scores = [2]int{}
	s.Active = 0
	s.Winner = 0
	s.Board = board.Board{}
	s.opponentGone = false
}

// MyColor returns the local player's color, 0 when unseated
func (s *SessionState) MyColor() board.Color {
	return board.Color(s.PlayerNumber)
}

// MyTurn reports whether the local player may move now
func (s *SessionState) MyTurn() bool {
	return s.Phase == PhaseInGame && s.PlayerNumber != 0 && s.Active == s.PlayerNumber
}

// OpponentName returns the other seat's username
func (s *SessionState) OpponentName() string {
	switch s.PlayerNumber {
	case 1:
		return s.Usernames[1]
	case 2:
		return s.Usernames[0]
	}
	return ""
}

// Snapshot 只读快照，供展示层渲染
type Snapshot struct {
	Phase        Phase
	Username     string
	LobbyCount   int
	LobbyID      int
	PlayerNumber int
	Usernames    [2]string
	Scores       [2]int
	Active       int
	Winner       int
	MyTurn       bool
	Board        board.Board // 轮到自己时带可落子提示
	Notice       string
	Fatal        string
	Cue          Cue
}

func (s *SessionState) snapshot() Snapshot {
	b := rule.StripHints(s.Board)
	if s.MyTurn() {
		b = rule.MarkHints(b, s.MyColor())
	}
	return Snapshot{
		Phase:        s.Phase,
		Username:     s.Username,
		LobbyCount:   s.LobbyCount,
		LobbyID:      s.LobbyID,
		PlayerNumber: s.PlayerNumber,
		Usernames:    s.Usernames,
		Scores:       s.Scores,
		Active:       s.Active,
		Winner:       s.Winner,
		MyTurn:       s.MyTurn(),
		Board:        b,
		Notice:       s.Notice,
		Fatal:        s.Fatal,
		Cue:          s.Cue,
	}
}
