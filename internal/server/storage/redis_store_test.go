package storage

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/palemoky/reversi/internal/game/board"
	"github.com/palemoky/reversi/internal/game/lobby"
)

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	store := NewRedisStore(client, "test:", time.Hour)
	return store, mr
}

func sampleSnapshot(id int) lobby.Snapshot {
	b := board.New()
	b.Set(board.Pos{Col: 2, Row: 3}, board.BlackStone)
	b.Set(board.Pos{Col: 3, Row: 3}, board.BlackStone)
	return lobby.Snapshot{
		ID:        id,
		Status:    lobby.StatusPaused,
		Names:     [2]string{"alice", "bob"},
		Board:     b,
		Active:    2,
		UpdatedAt: 1700000000,
	}
}

func TestRedisStore_SaveLoadDeleteLobby(t *testing.T) {
	t.Parallel()

	store, mr := newTestRedisStore(t)
	ctx := context.Background()
	want := sampleSnapshot(3)

	require.NoError(t, store.SaveLobby(ctx, want))
	assert.True(t, mr.Exists("test:lobby:3"))
	assert.Equal(t, time.Hour, mr.TTL("test:lobby:3"))

	got, ok, err := store.LoadLobby(ctx, 3)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, got)

	require.NoError(t, store.DeleteLobby(ctx, 3))
	_, ok, err = store.LoadLobby(ctx, 3)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStore_LoadLobbies(t *testing.T) {
	t.Parallel()

	store, mr := newTestRedisStore(t)
	ctx := context.Background()

	snaps, err := store.LoadLobbies(ctx)
	require.NoError(t, err)
	assert.Empty(t, snaps)

	require.NoError(t, store.SaveLobby(ctx, sampleSnapshot(1)))
	require.NoError(t, store.SaveLobby(ctx, sampleSnapshot(4)))
	require.NoError(t, mr.Set("test:lobby:9", "\xff\xff"))
	require.NoError(t, mr.Set("test:lobby:x", "junk"))
	require.NoError(t, mr.Set("other:lobby:2", "junk"))

	snaps, err = store.LoadLobbies(ctx)
	require.NoError(t, err)
	ids := make([]int, 0, len(snaps))
	for _, s := range snaps {
		ids = append(ids, s.ID)
	}
	assert.ElementsMatch(t, []int{1, 4}, ids)
}

func TestRedisStore_Unavailable(t *testing.T) {
	t.Parallel()

	store, mr := newTestRedisStore(t)
	ctx := context.Background()
	require.NoError(t, store.Ping(ctx))

	mr.Close()
	assert.Error(t, store.SaveLobby(ctx, sampleSnapshot(1)))
	_, err := store.LoadLobbies(ctx)
	assert.Error(t, err)
}

func TestRedisStore_Defaults(t *testing.T) {
	t.Parallel()

	store := NewRedisStore(redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"}), "", 0)
	defer store.Close()
	assert.Equal(t, "reversi:lobby:7", store.lobbyKey(7))
	assert.Equal(t, defaultLobbyExpiration, store.expiration)
}

func TestDecodeSnapshot(t *testing.T) {
	t.Parallel()

	t.Run("skips unknown fields", func(t *testing.T) {
		t.Parallel()
		data := encodeSnapshot(sampleSnapshot(2))
		data = protowire.AppendTag(data, 99, protowire.Fixed32Type)
		data = protowire.AppendFixed32(data, 7)

		got, err := decodeSnapshot(data)
		require.NoError(t, err)
		assert.Equal(t, sampleSnapshot(2), got)
	})

	t.Run("truncated", func(t *testing.T) {
		t.Parallel()
		data := encodeSnapshot(sampleSnapshot(2))
		_, err := decodeSnapshot(data[:len(data)-1])
		assert.Error(t, err)
	})

	t.Run("bad board", func(t *testing.T) {
		t.Parallel()
		data := protowire.AppendTag(nil, fieldBoard, protowire.BytesType)
		data = protowire.AppendString(data, "123")
		_, err := decodeSnapshot(data)
		assert.Error(t, err)
	})
}
