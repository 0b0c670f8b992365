// Package server is the authoritative Reversi server: it accepts TCP and
// WebSocket connections and routes their commands into the lobbies.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/palemoky/reversi/internal/config"
	"github.com/palemoky/reversi/internal/game/lobby"
	"github.com/palemoky/reversi/internal/server/handler"
	"github.com/palemoky/reversi/internal/server/session"
	"github.com/palemoky/reversi/internal/server/storage"
)

// 会话与限流记录的清理间隔
const cleanupInterval = time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // 终端客户端不带 Origin
	},
}

// Option 服务器选项
type Option func(*Server)

// WithLogger 设置日志
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// Server 游戏服务器
type Server struct {
	config         *config.Config
	log            *zap.Logger
	redis          *redis.Client
	redisStore     *storage.RedisStore
	lobbies        *lobby.Manager
	sessionManager *session.SessionManager
	handler        *handler.Handler
	rateLimiter    *RateLimiter

	clients   map[string]*Client
	clientsMu sync.RWMutex
	closing   bool
	wg        sync.WaitGroup // 每个已注册连接一个计数

	// 连接控制
	maxConnections int
	semaphore      chan struct{} // 信号量控制并发连接数

	tcpListener net.Listener
	wsListener  net.Listener
	httpServer  *http.Server

	ctx    context.Context
	cancel context.CancelFunc
}

// NewServer 创建服务器实例。启用 Redis 时连接失败直接返回错误。
func NewServer(cfg *config.Config, opts ...Option) (*Server, error) {
	s := &Server{
		config:         cfg,
		log:            zap.NewNop(),
		clients:        make(map[string]*Client),
		maxConnections: cfg.Server.MaxConnections,
		semaphore:      make(chan struct{}, max(cfg.Server.MaxConnections, 1)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())

	var store lobby.Store
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, fmt.Errorf("redis 连接失败: %w", err)
		}
		s.redis = rdb
		s.redisStore = storage.NewRedisStore(rdb, cfg.Redis.KeyPrefix, cfg.Redis.TTLDuration())
		store = s.redisStore
	}

	s.lobbies = lobby.NewManager(cfg.Server.Lobbies, store, s.log.Named("lobby"))
	s.sessionManager = session.NewSessionManager(cfg.Server.ReconnectWindowDuration(), func(name string, lobbyID int) {
		s.handler.OnExpire(name, lobbyID)
	})
	s.handler = handler.NewHandler(handler.HandlerDeps{
		Server:         s,
		Lobbies:        s.lobbies,
		SessionManager: s.sessionManager,
		Logger:         s.log.Named("handler"),
	})
	s.rateLimiter = NewRateLimiter(
		cfg.Server.ConnPerSecond,
		cfg.Server.ConnPerMinute,
		cfg.Server.BanDurationTime(),
		s.log.Named("ratelimit"),
	)

	s.log.Info("server configured",
		zap.Int("lobbies", cfg.Server.Lobbies),
		zap.Int("max_connections", cfg.Server.MaxConnections),
		zap.Duration("reconnect_window", cfg.Server.ReconnectWindowDuration()),
		zap.Bool("redis", cfg.Redis.Enabled))
	return s, nil
}

// Start 恢复持久化的对局并开始监听，不阻塞
func (s *Server) Start() error {
	if err := s.restore(); err != nil {
		s.log.Warn("restore lobbies failed", zap.Error(err))
	}

	addr := net.JoinHostPort(s.config.Server.Host, strconv.Itoa(s.config.Server.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	s.tcpListener = ln
	go s.acceptLoop(ln)
	s.log.Info("tcp listening", zap.Stringer("addr", ln.Addr()))

	if s.config.Server.WSPort > 0 {
		wsAddr := net.JoinHostPort(s.config.Server.Host, strconv.Itoa(s.config.Server.WSPort))
		wsLn, err := net.Listen("tcp", wsAddr)
		if err != nil {
			_ = ln.Close()
			return fmt.Errorf("listen %s: %w", wsAddr, err)
		}
		s.wsListener = wsLn
		s.httpServer = &http.Server{
			Handler:           s.HTTPHandler(),
			ReadHeaderTimeout: 10 * time.Second, // 防止 Slowloris 攻击
		}
		go func() {
			if err := s.httpServer.Serve(wsLn); err != nil && !errors.Is(err, http.ErrServerClosed) {
				s.log.Error("websocket server stopped", zap.Error(err))
			}
		}()
		s.log.Info("websocket listening", zap.String("url", "ws://"+wsLn.Addr().String()+s.config.Server.WSPath))
	}

	s.sessionManager.Start(s.ctx, cleanupInterval)
	go s.rateLimiter.cleanupLoop(s.ctx, time.Minute)
	go s.monitorStats(s.ctx)
	return nil
}

// restore 从 Redis 恢复暂停的对局，为其中的玩家保留座位
func (s *Server) restore() error {
	ctx, cancel := context.WithTimeout(s.ctx, 5*time.Second)
	defer cancel()

	reservations, err := s.lobbies.Restore(ctx)
	if err != nil {
		return err
	}
	for _, r := range reservations {
		s.sessionManager.Reserve(r.Name, r.LobbyID)
	}
	if len(reservations) > 0 {
		s.log.Info("seats reserved from snapshots", zap.Int("count", len(reservations)))
	}
	return nil
}

// Addr TCP 监听地址，未启动时为 nil
func (s *Server) Addr() net.Addr {
	if s.tcpListener == nil {
		return nil
	}
	return s.tcpListener.Addr()
}

// HTTPHandler WebSocket 与健康检查路由
func (s *Server) HTTPHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(s.config.Server.WSPath, s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	return mux
}
