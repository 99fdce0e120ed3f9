package mpvipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testTimeout = 2 * time.Second

// fakeRequest is a request line as the player sees it.
type fakeRequest struct {
	Command   []any `json:"command"`
	RequestID int64 `json:"request_id"`
}

func (r fakeRequest) name() string {
	if len(r.Command) == 0 {
		return ""
	}
	s, _ := r.Command[0].(string)
	return s
}

// fakePeer plays mpv on the far side of a net.Pipe. Requests are drained
// in the background so client writes never block on the test.
type fakePeer struct {
	t        *testing.T
	conn     net.Conn
	requests chan fakeRequest
}

func newTestClient(t *testing.T, opts ...Option) (*Client, *fakePeer) {
	t.Helper()

	clientConn, peerConn := net.Pipe()
	p := &fakePeer{t: t, conn: peerConn, requests: make(chan fakeRequest, 256)}
	go p.drain()

	c := NewClient(NewLineTransport(clientConn), opts...)
	t.Cleanup(func() {
		_ = c.Close()
		_ = peerConn.Close()
	})
	return c, p
}

func (p *fakePeer) drain() {
	defer close(p.requests)
	r := bufio.NewReader(p.conn)
	for {
		line, err := r.ReadBytes('\n')
		if err != nil {
			return
		}
		var req fakeRequest
		if err := json.Unmarshal(line, &req); err != nil {
			p.t.Errorf("peer got malformed request %q: %v", line, err)
			return
		}
		p.requests <- req
	}
}

// next returns the next request the client wrote.
func (p *fakePeer) next() fakeRequest {
	p.t.Helper()
	select {
	case req, ok := <-p.requests:
		require.True(p.t, ok, "client channel closed while waiting for a request")
		return req
	case <-time.After(testTimeout):
		p.t.Fatal("timed out waiting for a request")
		return fakeRequest{}
	}
}

// expect returns the next request and checks its command name.
func (p *fakePeer) expect(command string) fakeRequest {
	p.t.Helper()
	req := p.next()
	require.Equal(p.t, command, req.name(), "unexpected request %v", req.Command)
	return req
}

func (p *fakePeer) send(line string) {
	p.t.Helper()
	_, err := p.conn.Write([]byte(line + "\n"))
	require.NoError(p.t, err)
}

func (p *fakePeer) reply(id int64, status string, data string) {
	p.t.Helper()
	if data == "" {
		p.send(fmt.Sprintf(`{"request_id":%d,"error":%q}`, id, status))
		return
	}
	p.send(fmt.Sprintf(`{"request_id":%d,"error":%q,"data":%s}`, id, status, data))
}

func (p *fakePeer) success(id int64, data string) {
	p.t.Helper()
	p.reply(id, statusSuccess, data)
}

func (p *fakePeer) propertyChange(subID int64, name, data string) {
	p.t.Helper()
	p.send(fmt.Sprintf(`{"event":"property-change","id":%d,"name":%q,"data":%s}`, subID, name, data))
}

type outcome[T any] struct {
	v   T
	err error
}

// async runs fn on its own goroutine; the test goroutine then plays the
// peer side of the exchange.
func async[T any](fn func() (T, error)) <-chan outcome[T] {
	ch := make(chan outcome[T], 1)
	go func() {
		v, err := fn()
		ch <- outcome[T]{v: v, err: err}
	}()
	return ch
}

func await[T any](t *testing.T, ch <-chan outcome[T]) (T, error) {
	t.Helper()
	select {
	case o := <-ch:
		return o.v, o.err
	case <-time.After(testTimeout):
		t.Fatal("timed out waiting for the call to return")
		var zero T
		return zero, nil
	}
}

// subID extracts the subscription id from an observe_property or
// unobserve_property request.
func subID(t *testing.T, req fakeRequest) int64 {
	t.Helper()
	require.GreaterOrEqual(t, len(req.Command), 2)
	id, ok := req.Command[1].(float64)
	require.True(t, ok, "subscription id is %T", req.Command[1])
	return int64(id)
}
