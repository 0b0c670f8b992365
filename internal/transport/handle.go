// Package transport owns the client connection: receive and heartbeat loops,
// liveness timeout, and fixed-interval reconnection.
package transport

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/palemoky/reversi/internal/apperrors"
	"github.com/palemoky/reversi/internal/protocol"
	"github.com/palemoky/reversi/internal/protocol/codec"
)

type writeDeadliner interface {
	SetWriteDeadline(t time.Time) error
}

// Handle 一次连接：底层连接 + 最近一次收到合法消息的时间。
// 每次重连都会创建新的 Handle，旧的直接丢弃。
type Handle struct {
	conn         io.ReadWriteCloser
	writeTimeout time.Duration

	lastResponseAt atomic.Int64 // UnixNano

	writeMu   sync.Mutex
	closeOnce sync.Once
	closed    atomic.Bool
	done      chan struct{}
}

func newHandle(conn io.ReadWriteCloser, writeTimeout time.Duration) *Handle {
	h := &Handle{
		conn:         conn,
		writeTimeout: writeTimeout,
		done:         make(chan struct{}),
	}
	h.Touch(time.Now())
	return h
}

// Touch 记录收到合法消息的时间
func (h *Handle) Touch(t time.Time) {
	h.lastResponseAt.Store(t.UnixNano())
}

// LastResponseAt 最近一次收到合法消息的时间
func (h *Handle) LastResponseAt() time.Time {
	return time.Unix(0, h.lastResponseAt.Load())
}

// Send 编码并写出一条消息，多个 goroutine 可并发调用
func (h *Handle) Send(msg *protocol.Message) error {
	if h.closed.Load() {
		return fmt.Errorf("send %s on closed connection: %w", msg.Command, apperrors.ErrTransport)
	}
	h.writeMu.Lock()
	defer h.writeMu.Unlock()

	if d, ok := h.conn.(writeDeadliner); ok && h.writeTimeout > 0 {
		_ = d.SetWriteDeadline(time.Now().Add(h.writeTimeout))
	}
	if err := codec.Write(h.conn, msg); err != nil {
		return fmt.Errorf("send %s: %v: %w", msg.Command, err, apperrors.ErrTransport)
	}
	return nil
}

// Close 关闭连接，可从接收循环和心跳循环并发调用，只生效一次。
// 关闭底层连接会让阻塞中的 Read 立即返回。
func (h *Handle) Close() error {
	var err error
	h.closeOnce.Do(func() {
		h.closed.Store(true)
		close(h.done)
		err = h.conn.Close()
	})
	return err
}

// Closed 是否已关闭
func (h *Handle) Closed() bool {
	return h.closed.Load()
}

// Done 在 Close 后关闭
func (h *Handle) Done() <-chan struct{} {
	return h.done
}
