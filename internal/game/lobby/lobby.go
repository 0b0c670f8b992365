// Package lobby manages the fixed set of numbered two-seat lobbies on the server.
package lobby

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/palemoky/reversi/internal/apperrors"
	"github.com/palemoky/reversi/internal/game/board"
	"github.com/palemoky/reversi/internal/game/rule"
	"github.com/palemoky/reversi/internal/protocol"
	"github.com/palemoky/reversi/internal/types"
)

// persistTimeout 单次快照写入的超时
const persistTimeout = time.Second

// Seat 一个座位。Client 为 nil 且 Name 非空表示该玩家掉线、座位保留中。
type Seat struct {
	Client types.ClientInterface
	Name   string
}

func (s *Seat) empty() bool   { return s.Client == nil && s.Name == "" }
func (s *Seat) online() bool  { return s.Client != nil }
func (s *Seat) offline() bool { return s.Client == nil && s.Name != "" }

func (s *Seat) send(msg *protocol.Message) {
	if s.Client != nil {
		s.Client.SendMessage(msg)
	}
}

// Lobby 一个两人大厅
type Lobby struct {
	ID      int // 从 1 开始
	Status  Status
	Seats   [2]Seat // 0 号座位执黑
	Board   board.Board
	Active  int
	Winner  int
	rematch [2]bool

	store Store
	log   *zap.Logger
	mu    sync.Mutex
}

func newLobby(id int, store Store, log *zap.Logger) *Lobby {
	return &Lobby{ID: id, store: store, log: log.With(zap.Int("lobby", id))}
}

func (l *Lobby) seatOf(clientID string) int {
	for i := range l.Seats {
		if c := l.Seats[i].Client; c != nil && c.GetID() == clientID {
			return i
		}
	}
	return -1
}

func (l *Lobby) seatByName(name string) int {
	for i := range l.Seats {
		if l.Seats[i].Name == name {
			return i
		}
	}
	return -1
}

func (l *Lobby) broadcast(msg *protocol.Message) {
	for i := range l.Seats {
		l.Seats[i].send(msg)
	}
}

func (l *Lobby) names() (string, string) {
	return l.Seats[0].Name, l.Seats[1].Name
}

func (l *Lobby) startMessage() *protocol.Message {
	n1, n2 := l.names()
	return protocol.Start(l.Active, n1, n2, l.ID)
}

// stateMessage 带当前行动方提示的棋盘快照
func (l *Lobby) stateMessage() *protocol.Message {
	black, white := rule.Score(l.Board)
	hinted := rule.MarkHints(l.Board, board.Color(l.Active))
	return protocol.State(hinted, black, white, l.Active)
}

// start 开新局，先落盘再通知双方
func (l *Lobby) start() {
	l.Board = board.New()
	l.Active = int(board.Black)
	l.Winner = 0
	l.rematch = [2]bool{}
	l.Status = StatusPlaying
	l.persist()

	l.broadcast(l.startMessage())
	l.broadcast(l.stateMessage())
	n1, n2 := l.names()
	l.log.Info("game started", zap.String("black", n1), zap.String("white", n2))
}

// reset 清空大厅
func (l *Lobby) reset() {
	for i := range l.Seats {
		if c := l.Seats[i].Client; c != nil {
			c.SetLobby(0)
		}
	}
	l.Seats = [2]Seat{}
	l.Board = board.Board{}
	l.Active = 0
	l.Winner = 0
	l.rematch = [2]bool{}
	l.Status = StatusWaiting
}

// finish 结束对局，winner 为 1/2/3
func (l *Lobby) finish(winner int) {
	l.Winner = winner
	l.Status = StatusEnded
	l.rematch = [2]bool{}
	l.log.Info("game over", zap.Int("winner", winner))
}

// vacate 释放座位；剩下的玩家留在大厅等待新对手
func (l *Lobby) vacate(seat int) {
	if c := l.Seats[seat].Client; c != nil {
		c.SetLobby(0)
	}
	l.Seats[seat] = Seat{}
	other := &l.Seats[1-seat]
	switch {
	case other.offline():
		*other = Seat{}
	case other.online():
		// 对手留在大厅等待新玩家，不能再请求再来一局
		other.send(protocol.Disconnect(seat + 1))
	}
	if l.Seats[0].empty() && l.Seats[1].empty() {
		l.reset()
		return
	}
	l.Status = StatusWaiting
	l.rematch = [2]bool{}
}

// Join 入座。第二个玩家入座时自动开局。
func (l *Lobby) Join(c types.ClientInterface) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.seatOf(c.GetID()) >= 0 {
		return 0, fmt.Errorf("already seated in lobby %d: %w", l.ID, apperrors.ErrInvalidIntent)
	}
	if l.Status != StatusWaiting {
		return 0, fmt.Errorf("lobby %d is %s: %w", l.ID, l.Status, apperrors.ErrLobbyFull)
	}
	seat := -1
	for i := range l.Seats {
		if l.Seats[i].empty() {
			seat = i
			break
		}
	}
	if seat < 0 {
		return 0, fmt.Errorf("lobby %d: %w", l.ID, apperrors.ErrLobbyFull)
	}

	l.Seats[seat] = Seat{Client: c, Name: c.GetName()}
	c.SetLobby(l.ID)
	c.SendMessage(protocol.Connect(seat + 1))
	l.log.Info("player joined", zap.String("name", c.GetName()), zap.Int("seat", seat+1))

	if l.Seats[0].online() && l.Seats[1].online() {
		l.start()
	} else {
		l.persist()
	}
	return seat + 1, nil
}

// Move 校验并执行落子，广播 STATE，随后视情况广播 PASS 或 END
func (l *Lobby) Move(c types.ClientInterface, col, row int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	seat := l.seatOf(c.GetID())
	if seat < 0 {
		return fmt.Errorf("lobby %d: %w", l.ID, apperrors.ErrNotInLobby)
	}
	if l.Status != StatusPlaying {
		return fmt.Errorf("lobby %d is %s: %w", l.ID, l.Status, apperrors.ErrInvalidIntent)
	}
	if l.Active != seat+1 {
		return apperrors.ErrNotYourTurn
	}

	color := board.Color(seat + 1)
	next, _, err := rule.Play(l.Board, rule.Move{Pos: board.Pos{Col: col, Row: row}, Color: color})
	if err != nil {
		return err
	}
	l.Board = next
	turn := rule.NextTurn(next, color)
	l.Active = int(turn.Next)
	l.broadcast(l.stateMessage())

	switch {
	case turn.Terminal:
		l.finish(rule.Winner(next))
		l.broadcast(protocol.End(l.Winner))
	case turn.Passed:
		l.broadcast(protocol.Pass())
	}
	l.persist()
	return nil
}

// Leave 主动离开。对局中离开判负，对手收到 END。
func (l *Lobby) Leave(c types.ClientInterface) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	seat := l.seatOf(c.GetID())
	if seat < 0 {
		return fmt.Errorf("lobby %d: %w", l.ID, apperrors.ErrNotInLobby)
	}
	if l.Status.inProgress() {
		l.finish(2 - seat)
		l.Seats[1-seat].send(protocol.End(l.Winner))
	}
	l.log.Info("player left", zap.String("name", l.Seats[seat].Name))
	l.vacate(seat)
	l.persist()
	return nil
}

// Rematch 记录再来一局请求，双方都请求后开新局
func (l *Lobby) Rematch(c types.ClientInterface) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	seat := l.seatOf(c.GetID())
	if seat < 0 {
		return fmt.Errorf("lobby %d: %w", l.ID, apperrors.ErrNotInLobby)
	}
	if l.Status != StatusEnded {
		return fmt.Errorf("lobby %d is %s: %w", l.ID, l.Status, apperrors.ErrInvalidIntent)
	}
	l.rematch[seat] = true
	if l.rematch[0] && l.rematch[1] && l.Seats[0].online() && l.Seats[1].online() {
		l.start()
	}
	return nil
}

// Disconnect 连接断开。对局中保留座位并暂停，返回 true；否则释放座位。
func (l *Lobby) Disconnect(c types.ClientInterface) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	seat := l.seatOf(c.GetID())
	if seat < 0 {
		return false
	}
	if !l.Status.inProgress() {
		l.vacate(seat)
		l.persist()
		return false
	}

	l.Seats[seat].Client = nil
	if l.Status == StatusPlaying {
		l.Status = StatusPaused
	}
	l.Seats[1-seat].send(protocol.Disconnect(seat + 1))
	l.log.Info("player disconnected, seat reserved", zap.String("name", l.Seats[seat].Name))
	l.persist()
	return true
}

// Resume 让同名玩家回到保留的座位：发送 START 与 STATE，通知对手 RECONNECT。
// 若该名字已在线（旧连接尚未超时），新连接接管座位，返回被替换的旧连接。
func (l *Lobby) Resume(c types.ClientInterface) (resumed bool, replaced types.ClientInterface) {
	l.mu.Lock()
	defer l.mu.Unlock()

	seat := l.seatByName(c.GetName())
	if seat < 0 || !l.Status.inProgress() {
		return false, nil
	}
	old := l.Seats[seat].Client
	if old != nil && old.GetID() == c.GetID() {
		return false, nil
	}
	l.Seats[seat].Client = c
	c.SetLobby(l.ID)
	if old != nil {
		old.SetLobby(0)
	}

	c.SendMessage(l.startMessage())
	c.SendMessage(l.stateMessage())

	opp := &l.Seats[1-seat]
	switch {
	case opp.online():
		if old == nil {
			opp.send(protocol.Reconnect())
		}
		l.Status = StatusPlaying
	default:
		c.SendMessage(protocol.Disconnect(2 - seat))
	}
	l.log.Info("player resumed", zap.String("name", c.GetName()), zap.Int("seat", seat+1))
	l.persist()
	return true, old
}

// Expire 保留时间已到：对手在线则判对手胜，否则清空大厅
func (l *Lobby) Expire(name string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	seat := l.seatByName(name)
	if seat < 0 || !l.Seats[seat].offline() {
		return false
	}
	opp := &l.Seats[1-seat]
	if l.Status.inProgress() && opp.online() {
		l.finish(2 - seat)
		opp.send(protocol.End(l.Winner))
	}
	l.log.Info("reservation expired", zap.String("name", name))
	l.vacate(seat)
	l.persist()
	return true
}

// Snapshot 当前状态的可持久化副本
func (l *Lobby) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshot()
}

func (l *Lobby) snapshot() Snapshot {
	n1, n2 := l.names()
	return Snapshot{
		ID:        l.ID,
		Status:    l.Status,
		Names:     [2]string{n1, n2},
		Board:     l.Board,
		Active:    l.Active,
		Winner:    l.Winner,
		UpdatedAt: time.Now().Unix(),
	}
}

// persist 写入快照；空闲大厅删除快照。调用方持有锁。
func (l *Lobby) persist() {
	if l.store == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	var err error
	if l.Status.inProgress() {
		err = l.store.SaveLobby(ctx, l.snapshot())
	} else {
		err = l.store.DeleteLobby(ctx, l.ID)
	}
	if err != nil {
		l.log.Warn("persist lobby failed", zap.Error(err))
	}
}

// restore 从快照恢复为暂停的对局，双方座位均为保留状态
func (l *Lobby) restore(s Snapshot) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.Status = StatusPaused
	l.Seats = [2]Seat{{Name: s.Names[0]}, {Name: s.Names[1]}}
	l.Board = rule.StripHints(s.Board)
	l.Active = s.Active
	l.Winner = 0
	l.rematch = [2]bool{}
}
