package ipc

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"golang.org/x/sys/unix"

	"github.com/example/mpvmenu/internal/logging"
)

// MaxLineLength bounds a single received line.
const MaxLineLength = 1 << 20

// ErrEndOfStream reports that the peer closed the connection in an orderly way.
var ErrEndOfStream = errors.New("ipc: end of stream")

// Conn is a line-oriented view over one socket connection. It is not safe for
// concurrent use; the session loop owns it exclusively.
type Conn struct {
	rwc     io.ReadWriteCloser
	scanner *bufio.Scanner
	writer  *bufio.Writer
}

// NewConn wraps an established connection.
func NewConn(rwc io.ReadWriteCloser) *Conn {
	scanner := bufio.NewScanner(rwc)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineLength)
	return &Conn{
		rwc:     rwc,
		scanner: scanner,
		writer:  bufio.NewWriter(rwc),
	}
}

// SendLine writes line followed by a newline and flushes immediately, since the
// peer blocks on read until the terminator arrives.
func (c *Conn) SendLine(line []byte) error {
	logging.LogSend(line)
	if _, err := c.writer.Write(line); err != nil {
		return fmt.Errorf("write ipc line: %w", err)
	}
	if err := c.writer.WriteByte('\n'); err != nil {
		return fmt.Errorf("write ipc line: %w", err)
	}
	if err := c.writer.Flush(); err != nil {
		return fmt.Errorf("flush ipc line: %w", err)
	}
	return nil
}

// RecvLine blocks for the next line, without its terminator. It returns
// ErrEndOfStream once the peer has closed the stream.
func (c *Conn) RecvLine() ([]byte, error) {
	if !c.scanner.Scan() {
		if err := c.scanner.Err(); err != nil {
			return nil, fmt.Errorf("read ipc line: %w", err)
		}
		return nil, ErrEndOfStream
	}
	raw := c.scanner.Bytes()
	line := make([]byte, len(raw))
	copy(line, raw)
	logging.LogRecv(line)
	return line, nil
}

// Close releases the underlying connection.
func (c *Conn) Close() error {
	return c.rwc.Close()
}

// IsPeerGone reports whether err means the player went away mid-session
// (broken pipe or connection reset). Such failures restart the session.
func IsPeerGone(err error) bool {
	return errors.Is(err, unix.EPIPE) || errors.Is(err, unix.ECONNRESET)
}
