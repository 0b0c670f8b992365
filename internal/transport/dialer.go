package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/gorilla/websocket"
)

// Dialer 建立到服务器的字节流连接
type Dialer interface {
	Dial(ctx context.Context, addr string) (io.ReadWriteCloser, error)
}

// TCPDialer 直连 TCP，addr 形如 host:port
type TCPDialer struct {
	Timeout time.Duration
}

func (d TCPDialer) Dial(ctx context.Context, addr string) (io.ReadWriteCloser, error) {
	nd := net.Dialer{Timeout: d.Timeout}
	conn, err := nd.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial tcp %s: %w", addr, err)
	}
	return conn, nil
}

// WSDialer 通过 WebSocket 连接，addr 形如 ws://host:port/ws。
// 每个文本帧承载与 TCP 相同的换行分隔字节流。
type WSDialer struct {
	HandshakeTimeout time.Duration
}

func (d WSDialer) Dial(ctx context.Context, addr string) (io.ReadWriteCloser, error) {
	wd := websocket.Dialer{
		HandshakeTimeout:  d.HandshakeTimeout,
		EnableCompression: false,
	}
	conn, _, err := wd.DialContext(ctx, addr, nil)
	if err != nil {
		return nil, fmt.Errorf("dial websocket %s: %w", addr, err)
	}
	return NewWSConn(conn), nil
}

// WSConn adapts a websocket connection to a byte stream
type WSConn struct {
	conn *websocket.Conn
	r    io.Reader
}

// NewWSConn wraps conn; reads concatenate the payloads of successive frames
func NewWSConn(conn *websocket.Conn) *WSConn {
	return &WSConn{conn: conn}
}

func (c *WSConn) Read(p []byte) (int, error) {
	for {
		if c.r == nil {
			_, r, err := c.conn.NextReader()
			if err != nil {
				return 0, err
			}
			c.r = r
		}
		n, err := c.r.Read(p)
		if errors.Is(err, io.EOF) {
			c.r = nil
			if n > 0 {
				return n, nil
			}
			continue
		}
		return n, err
	}
}

// Write sends p as a single text frame. Callers serialize writes.
func (c *WSConn) Write(p []byte) (int, error) {
	if err := c.conn.WriteMessage(websocket.TextMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (c *WSConn) SetReadDeadline(t time.Time) error {
	return c.conn.SetReadDeadline(t)
}

func (c *WSConn) SetWriteDeadline(t time.Time) error {
	return c.conn.SetWriteDeadline(t)
}

func (c *WSConn) Close() error {
	return c.conn.Close()
}

// RemoteAddr returns the peer address
func (c *WSConn) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}
