package transport

import (
	"bufio"
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/reversi/internal/apperrors"
	"github.com/palemoky/reversi/internal/protocol"
)

func fastConfig() Config {
	return Config{
		HeartbeatInterval:    20 * time.Millisecond,
		TimeoutLimit:         80 * time.Millisecond,
		ReconnectInterval:    20 * time.Millisecond,
		MaxReconnectAttempts: 3,
		DialTimeout:          time.Second,
		WriteTimeout:         time.Second,
	}
}

// fakeServer accepts TCP connections and hands them to the test
func fakeServer(t *testing.T) (net.Listener, <-chan net.Conn) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	conns := make(chan net.Conn, 8)
	go func() {
		for {
			c, err := ln.Accept()
			if err != nil {
				return
			}
			conns <- c
		}
	}()
	t.Cleanup(func() { _ = ln.Close() })
	return ln, conns
}

func accept(t *testing.T, conns <-chan net.Conn) net.Conn {
	t.Helper()
	select {
	case c := <-conns:
		t.Cleanup(func() { _ = c.Close() })
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("no connection accepted")
		return nil
	}
}

func next(t *testing.T, m *Manager) *protocol.Message {
	t.Helper()
	select {
	case msg := <-m.Events():
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
		return nil
	}
}

func assertNoEvent(t *testing.T, m *Manager, wait time.Duration) {
	t.Helper()
	select {
	case msg := <-m.Events():
		t.Fatalf("unexpected event %s", msg)
	case <-time.After(wait):
	}
}

func connect(t *testing.T, cfg Config) (*Manager, net.Conn, net.Listener, <-chan net.Conn) {
	t.Helper()
	ln, conns := fakeServer(t)
	m := NewManager(TCPDialer{}, cfg)
	t.Cleanup(m.Close)
	require.NoError(t, m.Connect(context.Background(), ln.Addr().String()))
	return m, accept(t, conns), ln, conns
}

// keepAlive answers every heartbeat with HEARTPOP until the connection closes
func keepAlive(c net.Conn) {
	go func() {
		sc := bufio.NewScanner(c)
		for sc.Scan() {
			if strings.TrimSpace(sc.Text()) == "REV HEARTBEAT" {
				if _, err := c.Write([]byte("REV HEARTPOP\n")); err != nil {
					return
				}
			}
		}
	}()
}

func TestManager_DeliversMessagesInOrder(t *testing.T) {
	t.Parallel()

	m, srv, _, _ := connect(t, fastConfig())
	keepAlive(srv)

	_, err := srv.Write([]byte("REV LOBBY 2\nREV HEART"))
	require.NoError(t, err)
	_, err = srv.Write([]byte("POP\nREV CONNECT 1\n"))
	require.NoError(t, err)

	assert.Equal(t, protocol.Lobby(2), next(t, m))
	assert.Equal(t, protocol.Connect(1), next(t, m))
}

func TestManager_SendWritesLine(t *testing.T) {
	t.Parallel()

	m, srv, _, _ := connect(t, fastConfig())

	require.NoError(t, m.Send(protocol.Join(3)))
	r := bufio.NewReader(srv)
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		if line == "REV HEARTBEAT\n" {
			continue
		}
		assert.Equal(t, "REV JOIN 3\n", line)
		break
	}
}

func TestManager_TimeoutYieldsOneDisconnect(t *testing.T) {
	t.Parallel()

	m, srv, _, _ := connect(t, fastConfig())
	h := m.Handle()
	require.NotNil(t, h)

	// the server reads heartbeats but never answers
	go func() {
		buf := make([]byte, 256)
		for {
			if _, err := srv.Read(buf); err != nil {
				return
			}
		}
	}()

	msg := next(t, m)
	assert.Equal(t, protocol.CmdServerDisconnect, msg.Command)
	assert.True(t, h.Closed())
	assert.False(t, m.Connected())
	assertNoEvent(t, m, 200*time.Millisecond)
}

func TestManager_HeartpopKeepsConnectionAlive(t *testing.T) {
	t.Parallel()

	m, srv, _, _ := connect(t, fastConfig())
	keepAlive(srv)

	assertNoEvent(t, m, 300*time.Millisecond)
	assert.True(t, m.Connected())
}

func TestManager_RemoteCloseYieldsDisconnect(t *testing.T) {
	t.Parallel()

	m, srv, _, _ := connect(t, fastConfig())
	require.NoError(t, srv.Close())

	assert.Equal(t, protocol.CmdServerDisconnect, next(t, m).Command)
	assertNoEvent(t, m, 100*time.Millisecond)
}

func TestManager_MalformedGuard(t *testing.T) {
	t.Parallel()

	t.Run("four malformed lines are tolerated", func(t *testing.T) {
		t.Parallel()
		m, srv, _, _ := connect(t, fastConfig())
		keepAlive(srv)
		_, err := srv.Write([]byte("a\nb\nc\nd\nREV PASS\n"))
		require.NoError(t, err)
		assert.Equal(t, protocol.Pass(), next(t, m))
		assert.True(t, m.Connected())
	})

	t.Run("five malformed lines close the connection", func(t *testing.T) {
		t.Parallel()
		m, srv, _, _ := connect(t, fastConfig())
		keepAlive(srv)
		_, err := srv.Write([]byte("a\nb\nc\nd\ne\nREV PASS\n"))
		require.NoError(t, err)
		assert.Equal(t, protocol.CmdServerDisconnect, next(t, m).Command)
	})
}

func TestManager_ReconnectSendsLoginFirst(t *testing.T) {
	t.Parallel()

	m, srv, _, conns := connect(t, fastConfig())
	require.NoError(t, srv.Close())
	require.Equal(t, protocol.CmdServerDisconnect, next(t, m).Command)

	require.True(t, m.Reconnect(protocol.Create("alice")))
	assert.False(t, m.Reconnect(protocol.Create("alice")), "only one reconnect loop at a time")

	srv2 := accept(t, conns)
	line, err := bufio.NewReader(srv2).ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "REV CREATE alice\n", line)

	_, err = srv2.Write([]byte("REV LOBBY 4\n"))
	require.NoError(t, err)
	assert.Equal(t, protocol.Lobby(4), next(t, m))
	assert.Eventually(t, func() bool { return !m.isReconnecting() }, time.Second, 10*time.Millisecond)
}

func TestManager_ReconnectAgainAfterNewHandleDrops(t *testing.T) {
	t.Parallel()

	m, srv, _, conns := connect(t, fastConfig())
	require.NoError(t, srv.Close())
	require.Equal(t, protocol.CmdServerDisconnect, next(t, m).Command)
	require.True(t, m.Reconnect(protocol.Create("alice")))

	// 新连接读到登录消息后立即断开
	srv2 := accept(t, conns)
	_, err := bufio.NewReader(srv2).ReadString('\n')
	require.NoError(t, err)
	require.NoError(t, srv2.Close())
	require.Equal(t, protocol.CmdServerDisconnect, next(t, m).Command)

	require.True(t, m.Reconnect(protocol.Create("alice")))
	srv3 := accept(t, conns)
	line, err := bufio.NewReader(srv3).ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "REV CREATE alice\n", line)
}

func TestManager_ReconnectGivesUp(t *testing.T) {
	t.Parallel()

	m, srv, ln, _ := connect(t, fastConfig())
	require.NoError(t, ln.Close())
	require.NoError(t, srv.Close())
	require.Equal(t, protocol.CmdServerDisconnect, next(t, m).Command)

	require.True(t, m.Reconnect(protocol.Create("alice")))
	assert.Equal(t, protocol.CmdReconnectFailed, next(t, m).Command)
	assert.Eventually(t, func() bool { return !m.isReconnecting() }, time.Second, 10*time.Millisecond)
}

func TestManager_CloseIsSilent(t *testing.T) {
	t.Parallel()

	m, _, _, _ := connect(t, fastConfig())
	m.Close()
	m.Close()

	assertNoEvent(t, m, 100*time.Millisecond)
	assert.False(t, m.Reconnect(protocol.Create("alice")))
	err := m.Send(protocol.Heartbeat())
	assert.ErrorIs(t, err, apperrors.ErrTransport)
	assert.ErrorIs(t, m.Connect(context.Background(), "127.0.0.1:1"), ErrClosed)
}

func TestManager_SendWithoutConnection(t *testing.T) {
	t.Parallel()

	m := NewManager(TCPDialer{}, fastConfig())
	t.Cleanup(m.Close)
	assert.ErrorIs(t, m.Send(protocol.Heartbeat()), apperrors.ErrTransport)
}

func TestHandle_ConcurrentClose(t *testing.T) {
	t.Parallel()

	a, b := net.Pipe()
	t.Cleanup(func() { _ = b.Close() })
	h := newHandle(a, time.Second)

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = h.Close()
		}()
	}
	wg.Wait()

	assert.True(t, h.Closed())
	select {
	case <-h.Done():
	default:
		t.Fatal("done channel not closed")
	}
	assert.ErrorIs(t, h.Send(protocol.Heartbeat()), apperrors.ErrTransport)
}

func TestManager_WebSocket(t *testing.T) {
	t.Parallel()

	upgrader := websocket.Upgrader{}
	received := make(chan string, 16)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer func() { _ = conn.Close() }()
		// one frame carrying two lines, the second split across frames
		_ = conn.WriteMessage(websocket.TextMessage, []byte("REV LOBBY 1\nREV CON"))
		_ = conn.WriteMessage(websocket.TextMessage, []byte("NECT 2\n"))
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			received <- string(data)
			if string(data) == "REV HEARTBEAT\n" {
				_ = conn.WriteMessage(websocket.TextMessage, []byte("REV HEARTPOP\n"))
			}
		}
	}))
	t.Cleanup(srv.Close)

	m := NewManager(WSDialer{HandshakeTimeout: time.Second}, fastConfig())
	t.Cleanup(m.Close)
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	require.NoError(t, m.Connect(context.Background(), url))

	assert.Equal(t, protocol.Lobby(1), next(t, m))
	assert.Equal(t, protocol.Connect(2), next(t, m))

	require.NoError(t, m.Send(protocol.Join(1)))
	assert.Eventually(t, func() bool {
		for {
			select {
			case s := <-received:
				if s == "REV JOIN 1\n" {
					return true
				}
			default:
				return false
			}
		}
	}, time.Second, 10*time.Millisecond)
}
