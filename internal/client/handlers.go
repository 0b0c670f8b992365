package client

import (
	"go.uber.org/zap"

	"github.com/palemoky/reversi/internal/protocol"
)

// messageHandler 消息处理函数类型
type messageHandler func(c *Controller, msg *protocol.Message) error

// messageHandlers 消息处理器映射表
var messageHandlers = map[protocol.Command]messageHandler{
	// Lobby
	protocol.CmdLobby:   handleLobby,
	protocol.CmdConnect: handleConnect,

	// Game
	protocol.CmdStart: handleStart,
	protocol.CmdState: handleState,
	protocol.CmdPass:  handlePass,
	protocol.CmdEnd:   handleEnd,

	// Opponent presence
	protocol.CmdDisconnect: handleDisconnect,
	protocol.CmdReconnect:  handleReconnect,

	// Local
	protocol.CmdServerDisconnect: handleServerDisconnect,
	protocol.CmdReconnectFailed:  handleReconnectFailed,
	protocol.CmdHeartpop:         func(*Controller, *protocol.Message) error { return nil },
}

func handleLobby(c *Controller, msg *protocol.Message) error {
	count, err := protocol.ParseLobby(msg)
	if err != nil {
		return err
	}
	s := c.state
	if s.Phase != PhaseLobby {
		if s.Phase != PhaseConnecting {
			// 重连后没有可恢复的对局，或服务器把我们送回了大厅
			c.log.Info("returned to lobby", zap.Stringer("from", s.Phase))
		}
		s.LeaveLobby()
	}
	s.LobbyCount = count
	s.Phase = PhaseLobby
	return nil
}

func handleConnect(c *Controller, msg *protocol.Message) error {
	seat, err := protocol.ParseConnect(msg)
	if err != nil {
		return err
	}
	s := c.state
	if seat == protocol.SeatFull {
		s.pendingJoin = 0
		s.Notice = noticeLobbyFull
		s.Cue = CueAlert
		return nil
	}
	if s.Phase != PhaseLobby {
		c.desync(msg)
	}
	s.PlayerNumber = seat
	s.LobbyID = s.pendingJoin
	s.pendingJoin = 0
	s.Phase = PhaseWaitingForOpponent
	return nil
}

func handleStart(c *Controller, msg *protocol.Message) error {
	p, err := protocol.ParseStart(msg)
	if err != nil {
		return err
	}
	s := c.state
	switch s.Phase {
	case PhaseWaitingForOpponent, PhaseRematching, PhaseReconnecting, PhasePaused, PhaseGameOver:
	default:
		c.desync(msg)
	}

	s.Usernames = p.Names
	s.LobbyID = p.LobbyID
	// 恢复会话时没有 CONNECT，按用户名确定座位
	switch s.Username {
	case p.Names[0]:
		s.PlayerNumber = 1
	case p.Names[1]:
		s.PlayerNumber = 2
	}
	s.ResetGame()
	s.Active = p.Active
	s.Phase = PhaseInGame
	c.log.Info("game started",
		zap.Int("lobby", p.LobbyID),
		zap.Int("seat", s.PlayerNumber),
		zap.String("opponent", s.OpponentName()))
	return nil
}

func handleState(c *Controller, msg *protocol.Message) error {
	p, err := protocol.ParseState(msg)
	if err != nil {
		return err
	}
	s := c.state
	switch s.Phase {
	case PhaseInGame, PhasePaused:
	default:
		c.desync(msg)
		s.Phase = PhaseInGame
	}
	if p.Board != s.Board {
		s.Cue = CueStone
	}
	s.Board = p.Board
	s.Scores = p.Scores
	s.Active = p.Active
	return nil
}

func handlePass(c *Controller, msg *protocol.Message) error {
	s := c.state
	if s.Phase != PhaseInGame {
		c.desync(msg)
	}
	// PASS 紧跟在 STATE 之后，Active 已是继续行动的一方
	if s.Active == s.PlayerNumber {
		s.Notice = noticeOpponentPassed
	} else {
		s.Notice = noticeYouPassed
	}
	s.Cue = CuePass
	return nil
}

func handleEnd(c *Controller, msg *protocol.Message) error {
	winner, err := protocol.ParseEnd(msg)
	if err != nil {
		return err
	}
	s := c.state
	switch s.Phase {
	case PhaseInGame, PhasePaused:
	default:
		c.desync(msg)
	}
	s.Winner = winner
	s.Phase = PhaseGameOver
	switch winner {
	case protocol.WinnerDraw:
		s.Cue = CueDraw
	case s.PlayerNumber:
		s.Cue = CueWin
	default:
		s.Cue = CueLose
	}
	c.log.Info("game over", zap.Int("winner", winner), zap.Int("seat", s.PlayerNumber))
	return nil
}

func handleDisconnect(c *Controller, msg *protocol.Message) error {
	seat, err := protocol.ParseDisconnect(msg)
	if err != nil {
		return err
	}
	s := c.state
	if seat == s.PlayerNumber {
		return nil
	}
	s.Cue = CueAlert
	switch s.Phase {
	case PhaseGameOver:
		// 保留结算画面，再来一局改为等待新对手
		s.opponentGone = true
		s.Notice = noticeOpponentGone
	case PhaseRematching:
		s.opponentGone = true
		s.Phase = PhaseWaitingForOpponent
		s.Notice = noticeOpponentGone
	case PhaseInGame:
		s.Phase = PhasePaused
		s.Notice = noticeOpponentLeft
	default:
		s.Notice = noticeOpponentLeft
	}
	return nil
}

func handleReconnect(c *Controller, _ *protocol.Message) error {
	s := c.state
	if s.Phase == PhasePaused {
		s.Phase = PhaseInGame
	}
	s.Notice = noticeOpponentBack
	return nil
}

func handleServerDisconnect(c *Controller, _ *protocol.Message) error {
	s := c.state
	if s.Username == "" {
		// 从未注册成功，没有可恢复的身份
		s.Fatal = noticeServerUnreachable
		s.Cue = CueAlert
		return nil
	}
	s.Phase = PhaseReconnecting
	s.Notice = noticeReconnecting
	if !c.tr.Reconnect(protocol.Create(s.Username)) {
		c.log.Debug("reconnect loop already running")
	}
	c.log.Warn("server connection lost", zap.String("username", s.Username))
	return nil
}

func handleReconnectFailed(c *Controller, _ *protocol.Message) error {
	c.state.Fatal = noticeServerUnreachable
	c.state.Cue = CueAlert
	return nil
}
