// Package codec turns a fragmented byte stream into REV protocol messages and back.
package codec

import (
	"bytes"
	"fmt"
	"iter"

	"github.com/palemoky/reversi/internal/apperrors"
)

// MaxPending caps the bytes buffered without a newline
const MaxPending = 16 << 10

// Decoder reassembles newline-delimited lines from arbitrary chunks.
// One Decoder per connection; not safe for concurrent use.
type Decoder struct {
	buf []byte
}

// NewDecoder creates an empty decoder
func NewDecoder() *Decoder {
	return &Decoder{buf: make([]byte, 0, 1024)}
}

// Feed appends a chunk to the buffer. It fails when the pending
// unterminated data exceeds MaxPending.
func (d *Decoder) Feed(chunk []byte) error {
	d.buf = append(d.buf, chunk...)
	if len(d.buf) > MaxPending && bytes.IndexByte(d.buf, '\n') < 0 {
		d.buf = d.buf[:0]
		return fmt.Errorf("line exceeds %d bytes: %w", MaxPending, apperrors.ErrProtocolViolation)
	}
	return nil
}

// Pending returns the number of buffered bytes not yet yielded
func (d *Decoder) Pending() int {
	return len(d.buf)
}

// Messages yields each complete, trimmed, non-empty line in order.
// Lines are consumed as they are yielded, so a later Feed followed by
// another Messages call continues where this one stopped.
func (d *Decoder) Messages() iter.Seq[string] {
	return func(yield func(string) bool) {
		for {
			i := bytes.IndexByte(d.buf, '\n')
			if i < 0 {
				return
			}
			line := string(bytes.TrimSpace(d.buf[:i]))
			d.buf = d.buf[i+1:]
			if line == "" {
				continue
			}
			if !yield(line) {
				return
			}
		}
	}
}
