package transport

import (
	"time"

	"go.uber.org/zap"

	"github.com/palemoky/reversi/internal/logger"
	"github.com/palemoky/reversi/internal/protocol"
)

// Reconnect 启动后台重连：每隔 ReconnectInterval 拨号一次，成功后先发送 login。
// 同一时间至多一个重连循环，已在重连或已关闭时返回 false。
// 次数用尽后入队 RECONNECT_FAILED。
func (m *Manager) Reconnect(login *protocol.Message) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed || !m.reconnecting.CompareAndSwap(false, true) {
		return false
	}
	m.wg.Add(1)
	go m.reconnectLoop(m.addr, login)
	return true
}

func (m *Manager) isReconnecting() bool {
	return m.reconnecting.Load()
}

// reconnectLoop 成功时由 open 在启动新循环之前清除 reconnecting，
// 其余退出路径在这里清除。
func (m *Manager) reconnectLoop(addr string, login *protocol.Message) {
	defer m.wg.Done()
	connected := false
	defer func() {
		if !connected {
			m.reconnecting.Store(false)
		}
	}()
	defer func() {
		if r := recover(); r != nil {
			logger.LogPanic(r)
		}
	}()

	ticker := time.NewTicker(m.cfg.ReconnectInterval)
	defer ticker.Stop()

	limit := m.cfg.MaxReconnectAttempts
	for attempt := 1; limit == 0 || attempt <= limit; attempt++ {
		select {
		case <-m.ctx.Done():
			return
		case <-ticker.C:
		}

		m.log.Info("reconnecting", zap.String("addr", addr), zap.Int("attempt", attempt), zap.Int("max", limit))
		err := m.open(m.ctx, addr, login)
		if err == nil {
			connected = true
			return
		}
		if m.isClosed() {
			return
		}
		m.log.Debug("reconnect attempt failed", zap.Int("attempt", attempt), zap.Error(err))
	}

	m.log.Warn("giving up reconnect", zap.Int("attempts", limit))
	m.reconnecting.Store(false)
	m.push(protocol.ReconnectFailed())
}
