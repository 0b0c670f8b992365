// Package session tracks which usernames are connected and holds seat
// reservations for players who dropped mid-game.
package session

import (
	"context"
	"sync"
	"time"
)

// DefaultReconnectWindow 掉线玩家座位保留时间
const DefaultReconnectWindow = 2 * time.Minute

// PlayerSession 玩家会话（用于断线重连）
type PlayerSession struct {
	Name     string
	ClientID string
	LobbyID  int

	DisconnectedAt time.Time // 断线时间
	Online         bool      // 是否在线
}

// ExpireFunc 保留座位过期回调
type ExpireFunc func(name string, lobbyID int)

// SessionManager 会话管理器，按用户名索引
type SessionManager struct {
	sessions map[string]*PlayerSession
	window   time.Duration
	onExpire ExpireFunc
	mu       sync.Mutex
}

// NewSessionManager 创建会话管理器；onExpire 可为 nil
func NewSessionManager(window time.Duration, onExpire ExpireFunc) *SessionManager {
	if window <= 0 {
		window = DefaultReconnectWindow
	}
	return &SessionManager{
		sessions: make(map[string]*PlayerSession),
		window:   window,
		onExpire: onExpire,
	}
}

// Start 启动会话清理协程，ctx 结束时退出
func (sm *SessionManager) Start(ctx context.Context, interval time.Duration) {
	go sm.cleanupLoop(ctx, interval)
}

// Bind 将用户名绑定到新连接，返回之前的会话（若存在）
func (sm *SessionManager) Bind(name, clientID string) (PlayerSession, bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	s, ok := sm.sessions[name]
	if !ok {
		sm.sessions[name] = &PlayerSession{Name: name, ClientID: clientID, Online: true}
		return PlayerSession{}, false
	}
	prev := *s
	s.ClientID = clientID
	s.Online = true
	s.DisconnectedAt = time.Time{}
	return prev, true
}

// SetLobby 记录玩家所在大厅
func (sm *SessionManager) SetLobby(name string, lobbyID int) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if s, ok := sm.sessions[name]; ok {
		s.LobbyID = lobbyID
	}
}

// SetOffline 连接断开。只处理仍属于 clientID 的会话，避免被顶替的旧连接误伤新连接。
// reserved 为 true 时保留会话等待重连，否则直接删除。
func (sm *SessionManager) SetOffline(name, clientID string, reserved bool) bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	s, ok := sm.sessions[name]
	if !ok || s.ClientID != clientID {
		return false
	}
	if !reserved {
		delete(sm.sessions, name)
		return true
	}
	s.Online = false
	s.ClientID = ""
	s.DisconnectedAt = time.Now()
	return true
}

// Reserve 为服务重启后恢复的座位创建离线会话
func (sm *SessionManager) Reserve(name string, lobbyID int) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if _, ok := sm.sessions[name]; ok {
		return
	}
	sm.sessions[name] = &PlayerSession{
		Name:           name,
		LobbyID:        lobbyID,
		DisconnectedAt: time.Now(),
	}
}

// Get 获取会话副本
func (sm *SessionManager) Get(name string) (PlayerSession, bool) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	s, ok := sm.sessions[name]
	if !ok {
		return PlayerSession{}, false
	}
	return *s, true
}

func (sm *SessionManager) isOnline(name string) bool {
	s, ok := sm.Get(name)
	return ok && s.Online
}

// OnlineCount 在线会话数
func (sm *SessionManager) OnlineCount() int {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	n := 0
	for _, s := range sm.sessions {
		if s.Online {
			n++
		}
	}
	return n
}

// cleanupLoop 定期清理过期会话
func (sm *SessionManager) cleanupLoop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			sm.cleanup(now)
		}
	}
}

// cleanup 删除离线超过保留时间的会话，并在锁外回调 onExpire
func (sm *SessionManager) cleanup(now time.Time) []PlayerSession {
	sm.mu.Lock()
	var expired []PlayerSession
	for name, s := range sm.sessions {
		if !s.Online && now.Sub(s.DisconnectedAt) > sm.window {
			expired = append(expired, *s)
			delete(sm.sessions, name)
		}
	}
	sm.mu.Unlock()

	if sm.onExpire != nil {
		for _, s := range expired {
			sm.onExpire(s.Name, s.LobbyID)
		}
	}
	return expired
}
