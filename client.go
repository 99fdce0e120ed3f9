// Package mpvipc is a client for the JSON IPC protocol of the mpv media
// player.
//
// docs: https://mpv.io/manual/stable/#json-ipc
//
// One background read loop drains the channel and routes each message:
// responses go to the call that issued the matching request_id, property
// changes go to the Observer owning the subscription id. Any number of
// goroutines may use a Client concurrently. A broken channel or a malformed
// line ends the session; there is no reconnect.
package mpvipc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/tr1v3r/pkg/log"

	"github.com/tr1v3r/mpvipc/internal/monitoring"
	"github.com/tr1v3r/mpvipc/internal/transport"
)

// Stats is a snapshot of the protocol counters of a Client.
type Stats = monitoring.Snapshot

// Option configures a Client.
type Option func(*Client)

// WithEventHandler registers h for every event, property changes included.
// h runs on the read loop in wire order; it must not block or call Close.
func WithEventHandler(h func(*Event)) Option {
	return func(c *Client) { c.handlers = append(c.handlers, h) }
}

// WithSessionID overrides the random id used in log lines.
func WithSessionID(id string) Option {
	return func(c *Client) { c.id = id }
}

// Client is one session on an mpv IPC channel.
type Client struct {
	id        string
	transport Transport
	handlers  []func(*Event)
	metrics   *monitoring.Metrics

	writeMu sync.Mutex // held from id allocation until the line is written

	mu         sync.Mutex // guards err, tracker and dispatcher
	err        error
	tracker    tracker
	dispatcher dispatcher

	done     chan struct{} // closed when the session ends
	loopDone chan struct{}
}

// Connect opens the channel at path, a unix socket path or a windows named
// pipe such as \\.\pipe\mpvsocket, and starts a session on it.
func Connect(ctx context.Context, path string, opts ...Option) (*Client, error) {
	log.CtxInfo(ctx, "connecting to mpv ipc: %s", path)
	conn, err := transport.Dial(ctx, path)
	if err != nil {
		return nil, &ConnectionError{Op: "dial", Err: fmt.Errorf("failed to open mpv socket %s: %w", path, err)}
	}
	return NewClient(NewLineTransport(conn), opts...), nil
}

// NewClient starts a session on an already open transport. The client owns
// t from now on.
func NewClient(t Transport, opts ...Option) *Client {
	c := &Client{
		id:         uuid.NewString(),
		transport:  t,
		metrics:    monitoring.New(),
		tracker:    newTracker(),
		dispatcher: newDispatcher(),
		done:       make(chan struct{}),
		loopDone:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	go c.readLoop()
	return c
}

func (c *Client) readLoop() {
	defer close(c.loopDone)

	for {
		line, err := c.transport.ReadLine()
		if err != nil {
			c.fail(&ConnectionError{Op: "read", Err: err})
			return
		}
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		log.Debug("mpv ipc %s recv: %s", c.id, line)

		resp, ev, err := decodeMessage(line)
		if err != nil {
			c.fail(err)
			return
		}
		if resp != nil {
			c.resolve(resp)
		} else {
			c.dispatch(ev)
		}
	}
}

// fail ends the session with err: every pending call and every observer
// is released with it and the transport is closed. Only the first call has
// an effect.
func (c *Client) fail(err error) bool {
	c.mu.Lock()
	if c.err != nil {
		c.mu.Unlock()
		return false
	}
	c.err = err
	pending := c.tracker.drain()
	watches := c.dispatcher.drain()
	c.mu.Unlock()

	for _, call := range pending {
		call.done <- result{err: err}
	}
	for _, w := range watches {
		w.queue.terminate(err)
	}
	// every call and observer has seen err once done is closed
	close(c.done)

	if !errors.Is(err, ErrClosed) && !errors.Is(err, ErrShutdown) {
		log.Error("mpv ipc %s: session failed: %v", c.id, err)
	}
	_ = c.transport.Close()
	return true
}

// Close ends the session. Pending calls and observers fail with a
// ConnectionError wrapping ErrClosed.
func (c *Client) Close() error {
	if c.fail(&ConnectionError{Op: "close", Err: ErrClosed}) {
		log.Info("mpv ipc %s: closed", c.id)
	}
	<-c.loopDone
	return nil
}

// Done is closed when the session ends, by Close or by a fatal error.
func (c *Client) Done() <-chan struct{} { return c.done }

// Err returns the error that ended the session, or nil while it is alive.
func (c *Client) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// ID returns the session id used in log lines.
func (c *Client) ID() string { return c.id }

// Stats returns a snapshot of the protocol counters.
func (c *Client) Stats() Stats { return c.metrics.Snapshot() }

// LogStats writes the protocol counters to the log.
func (c *Client) LogStats() { c.metrics.LogMetrics(c.id) }
