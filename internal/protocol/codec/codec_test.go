package codec

import (
	"bytes"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/reversi/internal/apperrors"
	"github.com/palemoky/reversi/internal/protocol"
)

var emptyBoard = strings.Repeat("0", 64)

func collect(d *Decoder) []string {
	return slices.Collect(d.Messages())
}

func TestDecoder_SplitChunkEqualsWholeLine(t *testing.T) {
	t.Parallel()

	split := NewDecoder()
	require.NoError(t, split.Feed([]byte("REV STA")))
	assert.Empty(t, collect(split))
	require.NoError(t, split.Feed([]byte("TE "+emptyBoard+"\n")))
	got := collect(split)

	whole := NewDecoder()
	require.NoError(t, whole.Feed([]byte("REV STATE "+emptyBoard+"\n")))
	want := collect(whole)

	require.Len(t, got, 1)
	assert.Equal(t, want, got)
	assert.Equal(t, "REV STATE "+emptyBoard, got[0])
}

func TestDecoder_MultipleMessagesPerChunk(t *testing.T) {
	t.Parallel()

	d := NewDecoder()
	require.NoError(t, d.Feed([]byte("REV LOBBY 3\n\n  REV CONNECT 1  \r\nREV PA")))
	assert.Equal(t, []string{"REV LOBBY 3", "REV CONNECT 1"}, collect(d))
	assert.Equal(t, len("REV PA"), d.Pending())

	require.NoError(t, d.Feed([]byte("SS\n")))
	assert.Equal(t, []string{"REV PASS"}, collect(d))
	// nothing is yielded twice
	assert.Empty(t, collect(d))
}

func TestDecoder_StopEarlyResumes(t *testing.T) {
	t.Parallel()

	d := NewDecoder()
	require.NoError(t, d.Feed([]byte("REV PASS\nREV END 1\n")))
	for line := range d.Messages() {
		assert.Equal(t, "REV PASS", line)
		break
	}
	assert.Equal(t, []string{"REV END 1"}, collect(d))
}

func TestDecoder_ByteAtATime(t *testing.T) {
	t.Parallel()

	input := "REV START 1 alice bob 2\nREV HEARTPOP\n"
	d := NewDecoder()
	var got []string
	for i := range len(input) {
		require.NoError(t, d.Feed([]byte{input[i]}))
		got = append(got, collect(d)...)
	}
	assert.Equal(t, []string{"REV START 1 alice bob 2", "REV HEARTPOP"}, got)
}

func TestDecoder_LineTooLong(t *testing.T) {
	t.Parallel()

	d := NewDecoder()
	err := d.Feed(bytes.Repeat([]byte("x"), MaxPending+1))
	assert.ErrorIs(t, err, apperrors.ErrProtocolViolation)
	assert.Equal(t, 0, d.Pending())
}

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		line    string
		wantCmd protocol.Command
		args    []string
		wantErr bool
	}{
		{"no args", "REV PASS", protocol.CmdPass, nil, false},
		{"with args", "REV MOVE 2 3 1", protocol.CmdMove, []string{"2", "3", "1"}, false},
		{"extra whitespace", "REV   END\t3", protocol.CmdEnd, []string{"3"}, false},
		{"wrong prefix", "XYZ PASS", "", nil, true},
		{"lowercase prefix", "rev PASS", "", nil, true},
		{"prefix only", "REV", "", nil, true},
		{"empty", "", "", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			msg, err := Parse(tt.line)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrProtocolViolation)
				assert.Nil(t, msg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCmd, msg.Command)
			assert.Equal(t, tt.args, msg.Args)
		})
	}
}

func TestParse_MatchesBuilders(t *testing.T) {
	t.Parallel()

	for _, want := range []*protocol.Message{
		protocol.Pass(),
		protocol.Heartpop(),
		protocol.Reconnect(),
		protocol.Move(2, 3, 1),
		protocol.End(protocol.WinnerDraw),
	} {
		got, err := Parse(string(Encode(want)))
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestEncode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "REV MOVE 2 3 1\n", string(Encode(protocol.Move(2, 3, 1))))
	assert.Equal(t, "REV HEARTBEAT\n", string(Encode(protocol.Heartbeat())))

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, protocol.Create("alice")))
	assert.Equal(t, "REV CREATE alice\n", buf.String())

	// encoded lines decode back to the same message
	d := NewDecoder()
	require.NoError(t, d.Feed(Encode(protocol.Start(2, "alice", "bob", 4))))
	lines := collect(d)
	require.Len(t, lines, 1)
	msg, err := Parse(lines[0])
	require.NoError(t, err)
	assert.Equal(t, protocol.Start(2, "alice", "bob", 4), msg)
}

func TestGuard(t *testing.T) {
	t.Parallel()

	feed := func(g *Guard, lines ...string) bool {
		tripped := false
		for _, l := range lines {
			_, err := Parse(l)
			tripped = g.Observe(err)
		}
		return tripped
	}

	t.Run("four malformed do not trip", func(t *testing.T) {
		t.Parallel()
		g := NewGuard(0)
		assert.False(t, feed(g, "a", "b", "c", "d"))
		assert.Equal(t, 4, g.Strikes())
	})

	t.Run("five malformed trip", func(t *testing.T) {
		t.Parallel()
		g := NewGuard(0)
		assert.True(t, feed(g, "a", "b", "c", "d", "e"))
	})

	t.Run("well formed resets", func(t *testing.T) {
		t.Parallel()
		g := NewGuard(0)
		assert.False(t, feed(g, "a", "b", "c", "d", "REV PASS", "e", "f", "g", "h"))
		assert.Equal(t, 4, g.Strikes())
	})
}
