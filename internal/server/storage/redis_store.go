package storage

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/palemoky/reversi/internal/game/lobby"
)

const (
	// 默认 Redis key 前缀
	defaultKeyPrefix = "reversi:"
	lobbyKeySegment  = "lobby:"

	// 大厅快照默认过期时间
	defaultLobbyExpiration = 24 * time.Hour
)

// RedisStore Redis 存储，实现 lobby.Store
type RedisStore struct {
	client     *redis.Client
	prefix     string
	expiration time.Duration
}

var _ lobby.Store = (*RedisStore)(nil)

// NewRedisStore 创建 Redis 存储；prefix 为空、ttl 非正时使用默认值
func NewRedisStore(client *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	if ttl <= 0 {
		ttl = defaultLobbyExpiration
	}
	return &RedisStore{client: client, prefix: prefix, expiration: ttl}
}

// Ping 检查连接
func (rs *RedisStore) Ping(ctx context.Context) error {
	return rs.client.Ping(ctx).Err()
}

// Close 关闭客户端
func (rs *RedisStore) Close() error {
	return rs.client.Close()
}

func (rs *RedisStore) lobbyKey(id int) string {
	return rs.prefix + lobbyKeySegment + strconv.Itoa(id)
}

// --- 大厅快照 ---

// SaveLobby 保存大厅快照
func (rs *RedisStore) SaveLobby(ctx context.Context, s lobby.Snapshot) error {
	return rs.client.Set(ctx, rs.lobbyKey(s.ID), encodeSnapshot(s), rs.expiration).Err()
}

// LoadLobby 加载单个大厅快照，不存在时返回 false
func (rs *RedisStore) LoadLobby(ctx context.Context, id int) (lobby.Snapshot, bool, error) {
	data, err := rs.client.Get(ctx, rs.lobbyKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return lobby.Snapshot{}, false, nil
		}
		return lobby.Snapshot{}, false, err
	}
	s, err := decodeSnapshot(data)
	if err != nil {
		return lobby.Snapshot{}, false, fmt.Errorf("lobby %d: %w", id, err)
	}
	return s, true, nil
}

// DeleteLobby 删除大厅快照
func (rs *RedisStore) DeleteLobby(ctx context.Context, id int) error {
	return rs.client.Del(ctx, rs.lobbyKey(id)).Err()
}

// LoadLobbies 加载所有大厅快照，无法解码的条目跳过
func (rs *RedisStore) LoadLobbies(ctx context.Context) ([]lobby.Snapshot, error) {
	ids, err := rs.lobbyIDs(ctx)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	pipe := rs.client.Pipeline()
	results := make([]*redis.StringCmd, len(ids))
	for i, id := range ids {
		results[i] = pipe.Get(ctx, rs.lobbyKey(id))
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, err
	}

	snaps := make([]lobby.Snapshot, 0, len(ids))
	for _, result := range results {
		data, err := result.Bytes()
		if err != nil {
			continue
		}
		s, err := decodeSnapshot(data)
		if err != nil {
			continue
		}
		snaps = append(snaps, s)
	}
	return snaps, nil
}

// lobbyIDs 用 SCAN 列出所有快照的大厅编号
func (rs *RedisStore) lobbyIDs(ctx context.Context) ([]int, error) {
	prefix := rs.prefix + lobbyKeySegment
	var ids []int
	iter := rs.client.Scan(ctx, 0, prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		id, err := strconv.Atoi(strings.TrimPrefix(iter.Val(), prefix))
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}
