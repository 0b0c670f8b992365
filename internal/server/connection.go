package server

import (
	"errors"
	"net"
	"net/http"

	"go.uber.org/zap"

	"github.com/palemoky/reversi/internal/transport"
	"github.com/palemoky/reversi/internal/types"
)

// acceptLoop 接受 TCP 连接，监听器关闭后退出
func (s *Server) acceptLoop(ln net.Listener) {
	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return
			}
			s.log.Warn("accept failed", zap.Error(err))
			continue
		}

		ip := remoteIP(conn.RemoteAddr())
		release, reason := s.admit(ip)
		if release == nil {
			s.log.Info("connection rejected", zap.String("ip", ip), zap.String("reason", reason))
			_ = conn.Close()
			continue
		}
		go func() {
			defer release()
			s.serve(conn, ip)
		}()
	}
}

// handleWebSocket 处理 WebSocket 连接
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	ip := GetClientIP(r)

	release, reason := s.admit(ip)
	if release == nil {
		s.log.Info("websocket rejected", zap.String("ip", ip), zap.String("reason", reason))
		status := http.StatusServiceUnavailable
		if reason == "rate limited" {
			status = http.StatusTooManyRequests
		}
		http.Error(w, reason, status)
		return
	}
	defer release()

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	s.serve(transport.NewWSConn(ws), ip)
}

// handleHealth 健康检查接口
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// admit 连接数与建连频率检查，通过时返回释放函数
func (s *Server) admit(ip string) (release func(), reason string) {
	if !s.rateLimiter.Allow(ip) {
		return nil, "rate limited"
	}
	select {
	case s.semaphore <- struct{}{}:
		return func() { <-s.semaphore }, ""
	default:
		return nil, "server full"
	}
}

// serve 注册连接并运行读写协程，连接关闭后返回
func (s *Server) serve(conn Conn, ip string) {
	client := NewClient(s, conn, ip)
	if !s.registerClient(client) {
		_ = conn.Close()
		return
	}
	defer s.wg.Done()

	client.log.Info("client connected")
	go client.WritePump()
	client.ReadPump()
}

// registerClient 注册客户端；服务器关闭中返回 false
func (s *Server) registerClient(client *Client) bool {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()

	if s.closing {
		return false
	}
	s.clients[client.ID] = client
	s.wg.Add(1)
	return true
}

// unregisterClient 注销客户端
func (s *Server) unregisterClient(client *Client) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()

	if _, ok := s.clients[client.ID]; ok {
		delete(s.clients, client.ID)
		client.log.Info("client disconnected", zap.String("name", client.GetName()))
	}
}

// GetOnlineCount 获取在线连接数
func (s *Server) GetOnlineCount() int {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	return len(s.clients)
}

// GetClientByID 按连接 ID 查找客户端
func (s *Server) GetClientByID(id string) types.ClientInterface {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	if c, ok := s.clients[id]; ok {
		return c
	}
	return nil
}
