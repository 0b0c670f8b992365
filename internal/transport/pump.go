package transport

import (
	"time"

	"go.uber.org/zap"

	"github.com/palemoky/reversi/internal/logger"
	"github.com/palemoky/reversi/internal/protocol"
	"github.com/palemoky/reversi/internal/protocol/codec"
)

// receiveLoop 读取、解码并入队。退出时关闭 Handle，
// 若不是主动退出则恰好合成一次 SERVER_DISCONNECT。
func (m *Manager) receiveLoop(h *Handle) {
	defer m.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			logger.LogPanic(r)
		}
		_ = h.Close()
		if !m.isClosed() {
			m.push(protocol.ServerDisconnect())
		}
	}()

	dec := codec.NewDecoder()
	guard := codec.NewGuard(m.cfg.GuardLimit)
	buf := make([]byte, readChunk)

	for {
		n, err := h.conn.Read(buf)
		if n > 0 {
			if ferr := dec.Feed(buf[:n]); ferr != nil {
				m.log.Warn("dropping connection", zap.Error(ferr))
				return
			}
			for line := range dec.Messages() {
				msg, perr := codec.Parse(line)
				if guard.Observe(perr) {
					m.log.Warn("too many malformed messages, closing", zap.Int("strikes", guard.Strikes()))
					return
				}
				if perr != nil {
					m.log.Debug("malformed message", zap.Error(perr))
					continue
				}
				h.Touch(time.Now())
				if msg.Command == protocol.CmdHeartpop {
					continue
				}
				if !m.push(msg) {
					return
				}
			}
		}
		if err != nil {
			if !h.Closed() {
				m.log.Info("connection lost", zap.Error(err))
			}
			return
		}
	}
}

// heartbeatLoop 定时发送心跳，超过 TimeoutLimit 没有任何合法消息则强制关闭
func (m *Manager) heartbeatLoop(h *Handle) {
	defer m.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			logger.LogPanic(r)
			_ = h.Close()
		}
	}()

	ticker := time.NewTicker(m.cfg.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-h.Done():
			return
		case now := <-ticker.C:
			if err := h.Send(protocol.Heartbeat()); err != nil {
				m.log.Debug("heartbeat failed", zap.Error(err))
				_ = h.Close()
				return
			}
			if silent := now.Sub(h.LastResponseAt()); silent > m.cfg.TimeoutLimit {
				m.log.Warn("server timed out", zap.Duration("silent", silent))
				_ = h.Close()
				return
			}
		}
	}
}
