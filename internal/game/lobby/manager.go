package lobby

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/palemoky/reversi/internal/apperrors"
	"github.com/palemoky/reversi/internal/types"
)

// Reservation 恢复出来的保留座位
type Reservation struct {
	Name    string
	LobbyID int
}

// Stats 各状态大厅数量
type Stats struct {
	Waiting int
	Playing int
	Paused  int
	Ended   int
}

// Manager 固定数量的大厅，编号从 1 开始
type Manager struct {
	lobbies []*Lobby
	store   Store
	log     *zap.Logger
}

// NewManager 创建 count 个大厅；store 可为 nil
func NewManager(count int, store Store, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	m := &Manager{
		lobbies: make([]*Lobby, count),
		store:   store,
		log:     log,
	}
	for i := range m.lobbies {
		m.lobbies[i] = newLobby(i+1, store, log)
	}
	return m
}

// Count 大厅数量
func (m *Manager) Count() int {
	return len(m.lobbies)
}

// Get 按编号取大厅
func (m *Manager) Get(id int) (*Lobby, error) {
	if id < 1 || id > len(m.lobbies) {
		return nil, fmt.Errorf("lobby %d: %w", id, apperrors.ErrLobbyNotFound)
	}
	return m.lobbies[id-1], nil
}

// Join 让 c 加入大厅 id
func (m *Manager) Join(c types.ClientInterface, id int) (int, error) {
	if cur := c.GetLobby(); cur != 0 {
		return 0, fmt.Errorf("already in lobby %d: %w", cur, apperrors.ErrInvalidIntent)
	}
	l, err := m.Get(id)
	if err != nil {
		return 0, err
	}
	return l.Join(c)
}

// Resume 在所有大厅中寻找 c 的保留座位
func (m *Manager) Resume(c types.ClientInterface) (bool, types.ClientInterface) {
	for _, l := range m.lobbies {
		if ok, old := l.Resume(c); ok {
			return true, old
		}
	}
	return false, nil
}

// Disconnect 连接断开时释放或保留 c 的座位，返回座位是否被保留
func (m *Manager) Disconnect(c types.ClientInterface) bool {
	id := c.GetLobby()
	if id == 0 {
		return false
	}
	l, err := m.Get(id)
	if err != nil {
		return false
	}
	return l.Disconnect(c)
}

// Expire 保留时间到期
func (m *Manager) Expire(name string, id int) {
	if l, err := m.Get(id); err == nil {
		l.Expire(name)
	}
}

// Restore 从存储加载对局中的大厅，全部以暂停状态恢复，返回需要保留的座位
func (m *Manager) Restore(ctx context.Context) ([]Reservation, error) {
	if m.store == nil {
		return nil, nil
	}
	snaps, err := m.store.LoadLobbies(ctx)
	if err != nil {
		return nil, fmt.Errorf("load lobbies: %w", err)
	}

	var out []Reservation
	for _, s := range snaps {
		l, err := m.Get(s.ID)
		if err != nil || !s.Status.inProgress() {
			m.log.Warn("skipping stale lobby snapshot", zap.Int("lobby", s.ID), zap.Stringer("status", s.Status))
			continue
		}
		l.restore(s)
		for _, name := range s.Names {
			if name != "" {
				out = append(out, Reservation{Name: name, LobbyID: s.ID})
			}
		}
		m.log.Info("lobby restored", zap.Int("lobby", s.ID), zap.Strings("players", s.Names[:]))
	}
	return out, nil
}

// Stats 统计各状态大厅数量
func (m *Manager) Stats() Stats {
	var st Stats
	for _, l := range m.lobbies {
		l.mu.Lock()
		switch l.Status {
		case StatusWaiting:
			st.Waiting++
		case StatusPlaying:
			st.Playing++
		case StatusPaused:
			st.Paused++
		case StatusEnded:
			st.Ended++
		}
		l.mu.Unlock()
	}
	return st
}
