package mpvipc

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"sync"
	"sync/atomic"
)

// Transport moves complete newline-delimited messages over the IPC channel.
//
// WriteLine may be called from many goroutines; ReadLine is only called by
// the client's read loop. Any error is fatal to the session.
type Transport interface {
	ReadLine() ([]byte, error)
	WriteLine(line []byte) error
	Close() error
}

// LineTransport frames messages on top of a byte stream such as a net.Conn.
type LineTransport struct {
	rwc    io.ReadWriteCloser
	reader *bufio.Reader

	mu     sync.Mutex // serializes writers
	closed atomic.Bool
}

// NewLineTransport wraps rwc. The transport owns rwc from now on.
func NewLineTransport(rwc io.ReadWriteCloser) *LineTransport {
	return &LineTransport{rwc: rwc, reader: bufio.NewReader(rwc)}
}

// ReadLine blocks until a full line arrives and returns it without the line
// terminator. A final unterminated fragment counts as a broken channel.
func (t *LineTransport) ReadLine() ([]byte, error) {
	line, err := t.reader.ReadBytes('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	line = bytes.TrimSuffix(line, []byte{'\n'})
	return bytes.TrimSuffix(line, []byte{'\r'}), nil
}

// WriteLine writes line and its terminator in a single write while holding
// the write lock, so concurrent messages never interleave.
func (t *LineTransport) WriteLine(line []byte) error {
	if bytes.IndexByte(line, '\n') >= 0 {
		return errors.New("message contains a line break")
	}

	buf := make([]byte, 0, len(line)+1)
	buf = append(buf, line...)
	buf = append(buf, '\n')

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed.Load() {
		return io.ErrClosedPipe
	}
	_, err := t.rwc.Write(buf)
	return err
}

// Close closes the underlying stream, unblocking a pending ReadLine or
// WriteLine. It is safe to call more than once.
func (t *LineTransport) Close() error {
	if t.closed.Swap(true) {
		return nil
	}
	return t.rwc.Close()
}
