package server

import (
	"context"
	"runtime"
	"time"

	"go.uber.org/zap"
)

// monitorStats 定期输出服务器状态
func (s *Server) monitorStats(ctx context.Context) {
	interval := s.config.Server.StatsIntervalDuration()
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			var m runtime.MemStats
			runtime.ReadMemStats(&m)
			st := s.handler.GetStats()

			s.log.Info("stats",
				zap.Int("online", st.Online),
				zap.Int("sessions", s.sessionManager.OnlineCount()),
				zap.Int("goroutines", runtime.NumGoroutine()),
				zap.Int("active_conns", len(s.semaphore)),
				zap.Int("max_conns", s.maxConnections),
				zap.Int("lobbies_playing", st.Lobbies.Playing),
				zap.Int("lobbies_paused", st.Lobbies.Paused),
				zap.Int("lobbies_waiting", st.Lobbies.Waiting),
				zap.Float64("mem_mb", float64(m.Alloc)/1024/1024))
		}
	}
}

// Shutdown 停止监听并断开所有连接。对局中的大厅以暂停状态留在 Redis 中，重启后可继续。
func (s *Server) Shutdown(ctx context.Context) {
	s.cancel()

	if s.tcpListener != nil {
		_ = s.tcpListener.Close()
	}
	if s.httpServer != nil {
		_ = s.httpServer.Shutdown(ctx)
	}

	s.clientsMu.Lock()
	s.closing = true
	for _, client := range s.clients {
		client.Close()
	}
	s.clientsMu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		s.log.Warn("shutdown timed out waiting for connections")
	}

	if s.redis != nil {
		_ = s.redis.Close()
	}
	s.log.Info("server stopped")
}
