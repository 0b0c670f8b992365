package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// 默认值
const (
	defaultHost            = "0.0.0.0"
	defaultPort            = 9999
	defaultWSPath          = "/ws"
	defaultLobbies         = 10
	defaultMaxConnections  = 1000
	defaultReadTimeout     = 10  // 秒
	defaultReconnectWindow = 120 // 秒
	defaultStatsInterval   = 60  // 秒
	defaultShutdownTimeout = 5   // 秒
	defaultConnPerSecond   = 10
	defaultConnPerMinute   = 60
	defaultBanDuration     = 60 // 秒

	defaultRedisAddr      = "localhost:6379"
	defaultRedisKeyPrefix = "reversi:"
	defaultRedisTTL       = 24 * 60 * 60 // 秒

	defaultServerAddr           = "127.0.0.1:9999"
	defaultTransport            = "tcp"
	defaultHeartbeatInterval    = 2 // 秒
	defaultTimeoutLimit         = 6 // 秒
	defaultReconnectInterval    = 5 // 秒
	defaultMaxReconnectAttempts = 12

	defaultLogLevel  = "info"
	defaultLogFormat = "console"
)

// Config 客户端与服务端共用的配置
type Config struct {
	Server ServerConfig `yaml:"server"`
	Redis  RedisConfig  `yaml:"redis"`
	Client ClientConfig `yaml:"client"`
	Log    LogConfig    `yaml:"log"`
}

// ServerConfig 服务端配置
type ServerConfig struct {
	Host            string `yaml:"host"`
	Port            int    `yaml:"port"`
	WSPort          int    `yaml:"ws_port"` // 0 表示不开启 WebSocket
	WSPath          string `yaml:"ws_path"`
	Lobbies         int    `yaml:"lobbies"`
	MaxConnections  int    `yaml:"max_connections"`
	ReadTimeout     int    `yaml:"read_timeout"`     // 秒，超过即断开静默客户端
	ReconnectWindow int    `yaml:"reconnect_window"` // 秒，掉线玩家保留座位的时长
	StatsInterval   int    `yaml:"stats_interval"`   // 秒
	ShutdownTimeout int    `yaml:"shutdown_timeout"` // 秒
	ConnPerSecond   int    `yaml:"conn_per_second"`  // 单 IP 每秒最大建连数
	ConnPerMinute   int    `yaml:"conn_per_minute"`  // 单 IP 每分钟最大建连数
	BanDuration     int    `yaml:"ban_duration"`     // 秒，超限后的封禁时长
}

// ReadTimeoutDuration 返回读超时
func (c *ServerConfig) ReadTimeoutDuration() time.Duration {
	return time.Duration(c.ReadTimeout) * time.Second
}

// ReconnectWindowDuration 返回座位保留时长
func (c *ServerConfig) ReconnectWindowDuration() time.Duration {
	return time.Duration(c.ReconnectWindow) * time.Second
}

// StatsIntervalDuration 返回统计日志间隔
func (c *ServerConfig) StatsIntervalDuration() time.Duration {
	return time.Duration(c.StatsInterval) * time.Second
}

// ShutdownTimeoutDuration 返回优雅关闭的等待时长
func (c *ServerConfig) ShutdownTimeoutDuration() time.Duration {
	return time.Duration(c.ShutdownTimeout) * time.Second
}

// BanDurationTime 返回封禁时长
func (c *ServerConfig) BanDurationTime() time.Duration {
	return time.Duration(c.BanDuration) * time.Second
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Addr      string `yaml:"addr"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	KeyPrefix string `yaml:"key_prefix"`
	TTL       int    `yaml:"ttl"` // 秒，大厅快照的过期时间
}

// TTLDuration 返回快照过期时间
func (c *RedisConfig) TTLDuration() time.Duration {
	return time.Duration(c.TTL) * time.Second
}

// ClientConfig 客户端配置
type ClientConfig struct {
	ServerAddr           string `yaml:"server_addr"` // tcp: host:port; ws: ws://host:port/ws
	Transport            string `yaml:"transport"`   // tcp 或 ws
	HeartbeatInterval    int    `yaml:"heartbeat_interval"`
	TimeoutLimit         int    `yaml:"timeout_limit"`
	ReconnectInterval    int    `yaml:"reconnect_interval"`
	MaxReconnectAttempts int    `yaml:"max_reconnect_attempts"` // -1 表示无限重试
	Mute                 bool   `yaml:"mute"`
}

// HeartbeatIntervalDuration 返回心跳间隔
func (c *ClientConfig) HeartbeatIntervalDuration() time.Duration {
	return time.Duration(c.HeartbeatInterval) * time.Second
}

// TimeoutLimitDuration 返回无响应超时
func (c *ClientConfig) TimeoutLimitDuration() time.Duration {
	return time.Duration(c.TimeoutLimit) * time.Second
}

// ReconnectIntervalDuration 返回重连间隔
func (c *ClientConfig) ReconnectIntervalDuration() time.Duration {
	return time.Duration(c.ReconnectInterval) * time.Second
}

// ReconnectAttempts 返回重连次数上限，0 表示无限
func (c *ClientConfig) ReconnectAttempts() int {
	if c.MaxReconnectAttempts < 0 {
		return 0
	}
	return c.MaxReconnectAttempts
}

// LogConfig 日志配置
type LogConfig struct {
	Level   string `yaml:"level"`
	Format  string `yaml:"format"`  // console 或 json
	File    string `yaml:"file"`    // 为空时客户端写 ~/.reversi/debug.log，服务端不写文件
	Console bool   `yaml:"console"` // 服务端默认输出到终端
}

// Load 加载配置文件，缺省字段使用默认值，环境变量优先
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	cfg.loadFromEnv()
	return &cfg, nil
}

// Default 返回默认配置（含环境变量覆盖）
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	cfg.loadFromEnv()
	return &cfg
}

func (c *Config) applyDefaults() {
	setDefault(&c.Server.Host, defaultHost)
	setDefault(&c.Server.Port, defaultPort)
	setDefault(&c.Server.WSPath, defaultWSPath)
	setDefault(&c.Server.Lobbies, defaultLobbies)
	setDefault(&c.Server.MaxConnections, defaultMaxConnections)
	setDefault(&c.Server.ReadTimeout, defaultReadTimeout)
	setDefault(&c.Server.ReconnectWindow, defaultReconnectWindow)
	setDefault(&c.Server.StatsInterval, defaultStatsInterval)
	setDefault(&c.Server.ShutdownTimeout, defaultShutdownTimeout)
	setDefault(&c.Server.ConnPerSecond, defaultConnPerSecond)
	setDefault(&c.Server.ConnPerMinute, defaultConnPerMinute)
	setDefault(&c.Server.BanDuration, defaultBanDuration)

	setDefault(&c.Redis.Addr, defaultRedisAddr)
	setDefault(&c.Redis.KeyPrefix, defaultRedisKeyPrefix)
	setDefault(&c.Redis.TTL, defaultRedisTTL)

	setDefault(&c.Client.ServerAddr, defaultServerAddr)
	setDefault(&c.Client.Transport, defaultTransport)
	setDefault(&c.Client.HeartbeatInterval, defaultHeartbeatInterval)
	setDefault(&c.Client.TimeoutLimit, defaultTimeoutLimit)
	setDefault(&c.Client.ReconnectInterval, defaultReconnectInterval)
	setDefault(&c.Client.MaxReconnectAttempts, defaultMaxReconnectAttempts)

	setDefault(&c.Log.Level, defaultLogLevel)
	setDefault(&c.Log.Format, defaultLogFormat)
}

func setDefault[T comparable](field *T, def T) {
	var zero T
	if *field == zero {
		*field = def
	}
}

// loadFromEnv 环境变量覆盖配置文件
func (c *Config) loadFromEnv() {
	envString("SERVER_HOST", &c.Server.Host)
	envInt("SERVER_PORT", &c.Server.Port)
	envInt("SERVER_WS_PORT", &c.Server.WSPort)
	envInt("SERVER_LOBBIES", &c.Server.Lobbies)
	envInt("SERVER_MAX_CONNECTIONS", &c.Server.MaxConnections)
	envInt("SERVER_RECONNECT_WINDOW", &c.Server.ReconnectWindow)

	envBool("REDIS_ENABLED", &c.Redis.Enabled)
	envString("REDIS_ADDR", &c.Redis.Addr)
	envString("REDIS_PASSWORD", &c.Redis.Password)
	envInt("REDIS_DB", &c.Redis.DB)

	envString("CLIENT_SERVER_ADDR", &c.Client.ServerAddr)
	envString("CLIENT_TRANSPORT", &c.Client.Transport)
	envInt("CLIENT_MAX_RECONNECT_ATTEMPTS", &c.Client.MaxReconnectAttempts)
	envBool("CLIENT_MUTE", &c.Client.Mute)

	envString("LOG_LEVEL", &c.Log.Level)
	envString("LOG_FORMAT", &c.Log.Format)
	envString("LOG_FILE", &c.Log.File)
}

func envString(key string, dst *string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

func envInt(key string, dst *int) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func envBool(key string, dst *bool) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}
