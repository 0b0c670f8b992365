package transport

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/palemoky/reversi/internal/apperrors"
	"github.com/palemoky/reversi/internal/protocol"
)

// readChunk 单次读取的字节数
const readChunk = 1024

// Config 连接管理参数
type Config struct {
	HeartbeatInterval    time.Duration
	TimeoutLimit         time.Duration
	ReconnectInterval    time.Duration
	MaxReconnectAttempts int // 0 表示无限重试
	DialTimeout          time.Duration
	WriteTimeout         time.Duration
	EventBuffer          int
	GuardLimit           int
}

// DefaultConfig 默认参数
func DefaultConfig() Config {
	return Config{
		HeartbeatInterval:    2 * time.Second,
		TimeoutLimit:         6 * time.Second,
		ReconnectInterval:    5 * time.Second,
		MaxReconnectAttempts: 12,
		DialTimeout:          5 * time.Second,
		WriteTimeout:         5 * time.Second,
		EventBuffer:          256,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.HeartbeatInterval <= 0 {
		c.HeartbeatInterval = def.HeartbeatInterval
	}
	if c.TimeoutLimit <= 0 {
		c.TimeoutLimit = def.TimeoutLimit
	}
	if c.ReconnectInterval <= 0 {
		c.ReconnectInterval = def.ReconnectInterval
	}
	if c.MaxReconnectAttempts < 0 {
		c.MaxReconnectAttempts = 0
	}
	if c.DialTimeout <= 0 {
		c.DialTimeout = def.DialTimeout
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = def.WriteTimeout
	}
	if c.EventBuffer <= 0 {
		c.EventBuffer = def.EventBuffer
	}
	return c
}

// ErrClosed Close 之后的操作
var ErrClosed = errors.New("connection manager closed")

// Option 配置 Manager
type Option func(*Manager)

// WithLogger 设置日志
func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

// Manager 持有当前连接，驱动接收、心跳与重连三个循环。
// 所有入站消息经 Events() 按序交给会话控制器。
type Manager struct {
	cfg    Config
	dialer Dialer
	log    *zap.Logger
	events chan *protocol.Message

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	handle *Handle
	addr   string
	closed bool
	wg     sync.WaitGroup

	reconnecting atomic.Bool
}

// NewManager 创建连接管理器，此时尚未连接
func NewManager(dialer Dialer, cfg Config, opts ...Option) *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	cfg = cfg.withDefaults()
	m := &Manager{
		cfg:    cfg,
		dialer: dialer,
		log:    zap.NewNop(),
		events: make(chan *protocol.Message, cfg.EventBuffer),
		ctx:    ctx,
		cancel: cancel,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Events 入站消息队列（FIFO），HEARTPOP 已过滤
func (m *Manager) Events() <-chan *protocol.Message {
	return m.events
}

// Addr 最近一次连接的地址
func (m *Manager) Addr() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.addr
}

// Connect 连接服务器并启动接收与心跳循环
func (m *Manager) Connect(ctx context.Context, addr string) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	if m.handle != nil && !m.handle.Closed() {
		m.mu.Unlock()
		return fmt.Errorf("already connected to %s", m.addr)
	}
	m.addr = addr
	m.mu.Unlock()

	return m.open(ctx, addr, nil)
}

// open 拨号，先发送 first（如有），再安装新 Handle
func (m *Manager) open(ctx context.Context, addr string, first *protocol.Message) error {
	ctx, cancel := context.WithTimeout(ctx, m.cfg.DialTimeout)
	defer cancel()

	conn, err := m.dialer.Dial(ctx, addr)
	if err != nil {
		return fmt.Errorf("%v: %w", err, apperrors.ErrTransport)
	}
	h := newHandle(conn, m.cfg.WriteTimeout)
	if first != nil {
		if err := h.Send(first); err != nil {
			_ = h.Close()
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		_ = h.Close()
		return ErrClosed
	}
	m.handle = h
	// 新连接的 SERVER_DISCONNECT 必须能再次触发重连
	m.reconnecting.Store(false)
	m.wg.Add(2)
	go m.receiveLoop(h)
	go m.heartbeatLoop(h)

	m.log.Info("connected", zap.String("addr", addr))
	return nil
}

func (m *Manager) current() *Handle {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.handle
}

// Handle 当前连接，可能为 nil
func (m *Manager) Handle() *Handle {
	return m.current()
}

// Connected 当前是否持有未关闭的连接
func (m *Manager) Connected() bool {
	h := m.current()
	return h != nil && !h.Closed()
}

// Send 通过当前连接发送消息
func (m *Manager) Send(msg *protocol.Message) error {
	h := m.current()
	if h == nil {
		return fmt.Errorf("send %s: not connected: %w", msg.Command, apperrors.ErrTransport)
	}
	return h.Send(msg)
}

func (m *Manager) isClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// push 入队；Manager 关闭后放弃
func (m *Manager) push(msg *protocol.Message) bool {
	select {
	case m.events <- msg:
		return true
	case <-m.ctx.Done():
		return false
	}
}

// Close 主动退出：停止重连并关闭当前连接，不合成 SERVER_DISCONNECT
func (m *Manager) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	h := m.handle
	m.mu.Unlock()

	m.cancel()
	if h != nil {
		_ = h.Close()
	}
	m.wg.Wait()
	m.log.Info("connection manager closed")
}
