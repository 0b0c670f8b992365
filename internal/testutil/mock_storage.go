//go:build !production

package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/palemoky/reversi/internal/game/lobby"
)

// MockLobbyStore 实现 lobby.Store 的 mock
type MockLobbyStore struct {
	mock.Mock
}

func (m *MockLobbyStore) SaveLobby(ctx context.Context, s lobby.Snapshot) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockLobbyStore) DeleteLobby(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockLobbyStore) LoadLobbies(ctx context.Context) ([]lobby.Snapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]lobby.Snapshot), args.Error(1)
}
