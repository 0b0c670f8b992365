//go:build !production

package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/palemoky/reversi/internal/protocol"
)

// MockTransport 实现 client.Transport 的 mock
type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) Connect(ctx context.Context, addr string) error {
	args := m.Called(ctx, addr)
	return args.Error(0)
}

func (m *MockTransport) Send(msg *protocol.Message) error {
	args := m.Called(msg)
	return args.Error(0)
}

func (m *MockTransport) Reconnect(login *protocol.Message) bool {
	args := m.Called(login)
	return args.Bool(0)
}

func (m *MockTransport) Close() {
	m.Called()
}

// RecordingTransport 记录发送的消息，不做断言（用于只关心出站消息的测试）
type RecordingTransport struct {
	Sent       []*protocol.Message
	Logins     []*protocol.Message
	Connected  bool
	Closed     bool
	ConnectErr error
	SendErr    error
}

func (t *RecordingTransport) Connect(_ context.Context, _ string) error {
	if t.ConnectErr != nil {
		return t.ConnectErr
	}
	t.Connected = true
	return nil
}

func (t *RecordingTransport) Send(msg *protocol.Message) error {
	if t.SendErr != nil {
		return t.SendErr
	}
	t.Sent = append(t.Sent, msg)
	return nil
}

func (t *RecordingTransport) Reconnect(login *protocol.Message) bool {
	t.Logins = append(t.Logins, login)
	return true
}

func (t *RecordingTransport) Close() {
	t.Closed = true
}

// Last returns the most recently sent message, nil when none
func (t *RecordingTransport) Last() *protocol.Message {
	if len(t.Sent) == 0 {
		return nil
	}
	return t.Sent[len(t.Sent)-1]
}
