package server

import (
	"errors"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/palemoky/reversi/internal/apperrors"
	"github.com/palemoky/reversi/internal/logger"
	"github.com/palemoky/reversi/internal/protocol"
	"github.com/palemoky/reversi/internal/protocol/codec"
)

const (
	// 写入超时
	writeWait = 5 * time.Second

	// 单次读取大小
	readChunk = 1024

	// 发送缓冲
	sendBuffer = 64
)

// Conn TCP 连接与 WebSocket 连接的共同能力
type Conn interface {
	io.ReadWriteCloser
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
}

// Client 代表一个连接的玩家
type Client struct {
	ID string // 连接唯一 ID
	IP string // 客户端 IP 地址

	server *Server
	conn   Conn
	send   chan []byte
	log    *zap.Logger

	mu      sync.RWMutex
	name    string // 用户名，CREATE 后设置
	lobbyID int    // 当前所在大厅，0 表示不在大厅

	closeOnce sync.Once
	done      chan struct{}
}

// NewClient 创建新客户端
func NewClient(s *Server, conn Conn, ip string) *Client {
	id := uuid.New().String()
	return &Client{
		ID:     id,
		IP:     ip,
		server: s,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		log:    s.log.With(zap.String("client", id), zap.String("ip", ip)),
		done:   make(chan struct{}),
	}
}

// ReadPump 读取并分发消息，返回时连接已关闭
func (c *Client) ReadPump() {
	defer func() {
		if r := recover(); r != nil {
			logger.LogPanic(r)
		}
		c.Close()
		c.server.handler.OnDisconnect(c)
		c.server.unregisterClient(c)
	}()

	decoder := codec.NewDecoder()
	guard := codec.NewGuard(codec.DefaultGuardLimit)
	readTimeout := c.server.config.Server.ReadTimeoutDuration()
	buf := make([]byte, readChunk)

	for {
		if readTimeout > 0 {
			_ = c.conn.SetReadDeadline(time.Now().Add(readTimeout))
		}
		n, err := c.conn.Read(buf)
		if n > 0 {
			if ferr := decoder.Feed(buf[:n]); ferr != nil {
				c.log.Warn("dropping client", zap.Error(ferr))
				return
			}
			for line := range decoder.Messages() {
				if !c.dispatch(line, guard) {
					c.log.Warn("too many malformed messages", zap.Int("strikes", guard.Strikes()))
					return
				}
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				c.log.Debug("read failed", zap.Error(err))
			}
			return
		}
	}
}

// dispatch 解析并处理一行，返回 false 表示应断开连接
func (c *Client) dispatch(line string, guard *codec.Guard) bool {
	msg, err := codec.Parse(line)
	if err == nil {
		err = c.server.handler.Handle(c, msg)
	}
	if !errors.Is(err, apperrors.ErrProtocolViolation) {
		err = nil
	} else {
		c.log.Debug("protocol violation", zap.String("line", line), zap.Error(err))
	}
	return !guard.Observe(err)
}

// WritePump 向连接写入消息
func (c *Client) WritePump() {
	defer func() {
		if r := recover(); r != nil {
			logger.LogPanic(r)
		}
	}()

	for {
		select {
		case data := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if _, err := c.conn.Write(data); err != nil {
				c.log.Debug("write failed", zap.Error(err))
				c.Close()
				return
			}
		case <-c.done:
			return
		}
	}
}

// SendMessage 发送消息给客户端
func (c *Client) SendMessage(msg *protocol.Message) {
	data := codec.Encode(msg)
	select {
	case <-c.done:
		return
	default:
	}

	select {
	case c.send <- data:
	case <-c.done:
	default:
		// 发送缓冲区已满，关闭连接
		c.log.Warn("send buffer full")
		c.Close()
	}
}

// Close 关闭客户端连接，可重复调用
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
}

// Done 连接关闭后关闭的 channel
func (c *Client) Done() <-chan struct{} {
	return c.done
}

func (c *Client) GetID() string { return c.ID }

func (c *Client) GetName() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.name
}

func (c *Client) SetName(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.name = name
}

// GetLobby 获取客户端所在大厅
func (c *Client) GetLobby() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lobbyID
}

// SetLobby 设置客户端所在大厅
func (c *Client) SetLobby(id int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lobbyID = id
}
