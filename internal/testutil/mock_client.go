//go:build !production

package testutil

import (
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/palemoky/reversi/internal/protocol"
)

// MockClient 实现 types.ClientInterface 的 mock
type MockClient struct {
	mock.Mock
}

func (m *MockClient) GetID() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockClient) GetName() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockClient) SetName(name string) {
	m.Called(name)
}

func (m *MockClient) GetLobby() int {
	args := m.Called()
	return args.Int(0)
}

func (m *MockClient) SetLobby(id int) {
	m.Called(id)
}

func (m *MockClient) SendMessage(msg *protocol.Message) {
	m.Called(msg)
}

func (m *MockClient) Close() {
	m.Called()
}

// SimpleClient 简单的 mock 客户端，不使用 testify（用于不需要断言的测试）
type SimpleClient struct {
	ID      string
	Name    string
	LobbyID int
	Closed  bool

	mu       sync.Mutex
	Messages []*protocol.Message
}

func (m *SimpleClient) GetID() string       { return m.ID }
func (m *SimpleClient) GetName() string     { return m.Name }
func (m *SimpleClient) SetName(name string) { m.Name = name }
func (m *SimpleClient) GetLobby() int       { return m.LobbyID }
func (m *SimpleClient) SetLobby(id int)     { m.LobbyID = id }
func (m *SimpleClient) Close()              { m.Closed = true }

func (m *SimpleClient) SendMessage(msg *protocol.Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Messages = append(m.Messages, msg)
}

// Commands returns the commands received so far, in order
func (m *SimpleClient) Commands() []protocol.Command {
	m.mu.Lock()
	defer m.mu.Unlock()
	cmds := make([]protocol.Command, len(m.Messages))
	for i, msg := range m.Messages {
		cmds[i] = msg.Command
	}
	return cmds
}

// Last returns the most recent message, nil when none
func (m *SimpleClient) Last() *protocol.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Messages) == 0 {
		return nil
	}
	return m.Messages[len(m.Messages)-1]
}

// Reset drops recorded messages
func (m *SimpleClient) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Messages = nil
}
