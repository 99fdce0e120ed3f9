package mpvipc

import (
	"context"
	"encoding/json"
	"time"

	"github.com/tr1v3r/pkg/log"
)

type result struct {
	resp *response
	err  error
}

// pendingCall is the one-shot completion slot of an in-flight request.
type pendingCall struct {
	command string
	sent    time.Time
	done    chan result // buffered, receives exactly once
}

// tracker is the table of in-flight requests. It is guarded by Client.mu.
type tracker struct {
	lastID  int64
	pending map[int64]*pendingCall
}

func newTracker() tracker {
	return tracker{pending: make(map[int64]*pendingCall)}
}

// add allocates the next request id. Ids start at 1 and are never reused.
func (t *tracker) add(command string) (int64, *pendingCall) {
	t.lastID++
	call := &pendingCall{command: command, sent: time.Now(), done: make(chan result, 1)}
	t.pending[t.lastID] = call
	return t.lastID, call
}

func (t *tracker) take(id int64) *pendingCall {
	call, ok := t.pending[id]
	if !ok {
		return nil
	}
	delete(t.pending, id)
	return call
}

func (t *tracker) drain() map[int64]*pendingCall {
	pending := t.pending
	t.pending = make(map[int64]*pendingCall)
	return pending
}

// send registers and writes one request and returns its slot without
// waiting for the response.
func (c *Client) send(ctx context.Context, command string, args ...any) (int64, *pendingCall, error) {
	if err := ctx.Err(); err != nil {
		return 0, nil, err
	}

	// allocation and write happen under one lock, so ids hit the wire in
	// increasing order
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.mu.Lock()
	if c.err != nil {
		err := c.err
		c.mu.Unlock()
		return 0, nil, err
	}
	id, call := c.tracker.add(command)
	c.mu.Unlock()

	line, err := encodeRequest(id, command, args...)
	if err != nil {
		c.withdraw(id)
		return 0, nil, err
	}

	log.CtxDebug(ctx, "mpv ipc %s send: %s", c.id, line)
	if err := c.transport.WriteLine(line); err != nil {
		c.fail(&ConnectionError{Op: "write", Err: err})
		// the slot holds either the failure or a response to an id that
		// never made it out; the call failed either way
		<-call.done
		return 0, nil, c.Err()
	}
	return id, call, nil
}

// submit sends a request and blocks until its response arrives, the
// connection fails or ctx is done.
func (c *Client) submit(ctx context.Context, command string, args ...any) (*response, error) {
	id, call, err := c.send(ctx, command, args...)
	if err != nil {
		return nil, err
	}

	select {
	case r := <-call.done:
		if r.err == nil {
			c.metrics.RecordRequest(command, time.Since(call.sent))
		}
		return r.resp, r.err
	case <-ctx.Done():
		c.withdraw(id)
		return nil, ctx.Err()
	}
}

// call is submit plus the success check of the response status.
func (c *Client) call(ctx context.Context, command string, args ...any) (json.RawMessage, error) {
	resp, err := c.submit(ctx, command, args...)
	if err != nil {
		return nil, err
	}
	if !resp.success() {
		c.metrics.RecordRequestError()
		return nil, &RequestError{Command: command, RequestID: resp.RequestID, Message: resp.Error}
	}
	return resp.Data, nil
}

func (c *Client) withdraw(id int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tracker.take(id)
}

// resolve hands resp to the caller waiting on its id. Responses nobody
// waits for are logged and counted, never fatal.
func (c *Client) resolve(resp *response) {
	c.mu.Lock()
	call := c.tracker.take(resp.RequestID)
	c.mu.Unlock()

	if call == nil {
		c.metrics.RecordUnmatchedResponse()
		log.Debug("mpv ipc %s: discard response with unknown request_id %d", c.id, resp.RequestID)
		return
	}
	call.done <- result{resp: resp}
}
