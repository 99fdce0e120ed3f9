package mpvipc

import (
	"errors"
	"fmt"
)

var (
	// ErrClosed is the cause carried by the ConnectionError every call
	// observes after Client.Close.
	ErrClosed = errors.New("mpv ipc connection closed")

	// ErrShutdown is the cause carried by the ConnectionError every call
	// observes after the player announced shutdown or quit.
	ErrShutdown = errors.New("mpv is shutting down")

	// ErrObserverClosed is returned by Observer.Next after the observer itself
	// was closed.
	ErrObserverClosed = errors.New("mpv property observer closed")

	// Sentinels for errors.Is. Any *ConnectionError matches ErrConnection and
	// so on for the other kinds.
	ErrConnection = &ConnectionError{}
	ErrProtocol   = &ProtocolError{}
	ErrRequest    = &RequestError{}
	ErrDecode     = &DecodeError{}
)

// ConnectionError reports a transport open, read or write failure or an
// unexpected closure. It is fatal to the whole session.
type ConnectionError struct {
	Op  string // "dial", "read", "write" or "close"
	Err error
}

func (e *ConnectionError) Error() string {
	if e.Err == nil {
		return "mpv ipc connection error"
	}
	return fmt.Sprintf("mpv ipc %s: %v", e.Op, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

func (e *ConnectionError) Is(target error) bool {
	_, ok := target.(*ConnectionError)
	return ok
}

// ProtocolError reports a line that is neither a response nor an event.
// Framing is presumed corrupted, so it is fatal to the session.
type ProtocolError struct {
	Line []byte
	Err  error
}

func (e *ProtocolError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("mpv ipc malformed message: %q", e.Line)
	}
	return fmt.Sprintf("mpv ipc malformed message %q: %v", e.Line, e.Err)
}

func (e *ProtocolError) Unwrap() error { return e.Err }

func (e *ProtocolError) Is(target error) bool {
	_, ok := target.(*ProtocolError)
	return ok
}

// RequestError is a non-success status returned by the player for one
// request. Only the issuing call sees it.
type RequestError struct {
	Command   string
	RequestID int64
	Message   string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("mpv error response to %s (request %d): %s", e.Command, e.RequestID, e.Message)
}

func (e *RequestError) Is(target error) bool {
	_, ok := target.(*RequestError)
	return ok
}

// DecodeError reports a payload that does not fit the requested Go type.
type DecodeError struct {
	Type string // requested Go type
	Data []byte // raw JSON payload
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("expected %s, but got: %s", e.Type, e.Data)
	}
	return fmt.Sprintf("expected %s, but got: %s: %v", e.Type, e.Data, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func (e *DecodeError) Is(target error) bool {
	_, ok := target.(*DecodeError)
	return ok
}
