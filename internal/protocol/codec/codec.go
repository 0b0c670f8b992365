package codec

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/palemoky/reversi/internal/apperrors"
	"github.com/palemoky/reversi/internal/protocol"
)

// Parse tokenizes a line on whitespace. The first token must be the REV prefix
// and a command must follow it.
func Parse(line string) (*protocol.Message, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 || fields[0] != protocol.Prefix {
		return nil, fmt.Errorf("missing %s prefix in %q: %w", protocol.Prefix, truncate(line), apperrors.ErrProtocolViolation)
	}
	if len(fields) == 1 {
		return nil, fmt.Errorf("missing command: %w", apperrors.ErrProtocolViolation)
	}
	return protocol.New(protocol.Command(fields[1]), fields[2:]...), nil
}

// Encode renders msg as a newline-terminated line
func Encode(msg *protocol.Message) []byte {
	buf := GetBuffer()
	defer PutBuffer(buf)
	writeLine(buf, msg)
	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	return out
}

// Write encodes msg directly into w
func Write(w io.Writer, msg *protocol.Message) error {
	buf := GetBuffer()
	defer PutBuffer(buf)
	writeLine(buf, msg)
	_, err := w.Write(buf.Bytes())
	return err
}

func writeLine(buf *bytes.Buffer, msg *protocol.Message) {
	buf.WriteString(msg.String())
	buf.WriteByte('\n')
}

func truncate(s string) string {
	const limit = 32
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}

// DefaultGuardLimit consecutive malformed lines that force a close
const DefaultGuardLimit = 5

// Guard counts consecutive malformed messages
type Guard struct {
	limit   int
	strikes int
}

// NewGuard creates a guard; limit <= 0 uses DefaultGuardLimit
func NewGuard(limit int) *Guard {
	if limit <= 0 {
		limit = DefaultGuardLimit
	}
	return &Guard{limit: limit}
}

// Observe records a parse result and reports whether the connection must close.
// A nil error resets the counter.
func (g *Guard) Observe(err error) bool {
	if err == nil {
		g.strikes = 0
		return false
	}
	g.strikes++
	return g.strikes >= g.limit
}

// Strikes returns the current consecutive count
func (g *Guard) Strikes() int {
	return g.strikes
}
