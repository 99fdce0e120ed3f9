package mpvipc

import (
	"context"
	"errors"
	"iter"
	"sync"
	"sync/atomic"

	"github.com/tr1v3r/pkg/log"
)

// ObserverState is the lifecycle position of an Observer.
type ObserverState int32

const (
	// ObserverPending: observe_property was sent, no confirmation yet.
	ObserverPending ObserverState = iota
	// ObserverActive: confirmed, values are queued for Next.
	ObserverActive
	// ObserverClosed is terminal.
	ObserverClosed
)

func (s ObserverState) String() string {
	switch s {
	case ObserverPending:
		return "PENDING"
	case ObserverActive:
		return "ACTIVE"
	case ObserverClosed:
		return "CLOSED"
	default:
		return "UNKNOWN"
	}
}

// queue is the unbounded FIFO between the read loop and one observer. The
// read loop never blocks on it.
type queue struct {
	mu     sync.Mutex
	items  []PropertyChange
	err    error // terminal, set once
	notify chan struct{}
}

func newQueue() *queue {
	return &queue{notify: make(chan struct{}, 1)}
}

// push reports false when the queue is already terminated.
func (q *queue) push(pc PropertyChange) bool {
	q.mu.Lock()
	if q.err != nil {
		q.mu.Unlock()
		return false
	}
	q.items = append(q.items, pc)
	q.mu.Unlock()
	q.wake()
	return true
}

// terminate discards buffered values; every later pop returns err.
func (q *queue) terminate(err error) {
	q.mu.Lock()
	if q.err == nil {
		q.err = err
		q.items = nil
	}
	q.mu.Unlock()
	q.wake()
}

func (q *queue) terminated() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.err != nil
}

func (q *queue) wake() {
	select {
	case q.notify <- struct{}{}:
	default:
	}
}

func (q *queue) pop(ctx context.Context) (PropertyChange, error) {
	for {
		q.mu.Lock()
		if q.err != nil {
			err := q.err
			q.mu.Unlock()
			return PropertyChange{}, err
		}
		if len(q.items) > 0 {
			pc := q.items[0]
			q.items[0] = PropertyChange{}
			q.items = q.items[1:]
			q.mu.Unlock()
			return pc, nil
		}
		q.mu.Unlock()

		select {
		case <-q.notify:
		case <-ctx.Done():
			return PropertyChange{}, ctx.Err()
		}
	}
}

// Observer is a pull-based subscription to one or more properties. Values
// come out of Next in the order their events arrived on the wire.
//
// Close releases the subscription; Take and All close it when the consuming
// loop ends.
type Observer[T any] struct {
	client *Client
	props  []Property
	ids    []int64
	queue  *queue
	decode func(PropertyChange) (T, error)

	state     atomic.Int32
	closeOnce sync.Once
}

// ObserveProperty subscribes to p and decodes every change into T.
func ObserveProperty[T any](ctx context.Context, c *Client, p Property) (*Observer[T], error) {
	return openObserver(ctx, c, []Property{p}, func(pc PropertyChange) (T, error) {
		return decodeValue[T](pc.Data)
	})
}

// ObserveProperties subscribes to every property in props and yields their
// changes interleaved in wire order.
func (c *Client) ObserveProperties(ctx context.Context, props ...Property) (*Observer[PropertyChange], error) {
	if len(props) == 0 {
		return nil, errors.New("no property to observe")
	}
	return openObserver(ctx, c, props, func(pc PropertyChange) (PropertyChange, error) {
		return pc, nil
	})
}

func openObserver[T any](ctx context.Context, c *Client, props []Property, decode func(PropertyChange) (T, error)) (*Observer[T], error) {
	o := &Observer[T]{client: c, props: props, queue: newQueue(), decode: decode}
	o.state.Store(int32(ObserverPending))

	// registered before the request goes out, so a change that follows the
	// confirmation immediately is not dropped
	c.mu.Lock()
	if c.err != nil {
		err := c.err
		c.mu.Unlock()
		return nil, err
	}
	o.ids = c.dispatcher.add(o.queue, props)
	c.mu.Unlock()

	for i, p := range props {
		if _, err := c.call(ctx, "observe_property", o.ids[i], string(p)); err != nil {
			log.CtxDebug(ctx, "mpv ipc %s: observe %s failed: %v", c.id, p, err)
			// only a rejection proves the player holds no subscription for
			// ids[i]; after a timeout it may still confirm it
			confirmed := i + 1
			var rerr *RequestError
			if errors.As(err, &rerr) {
				confirmed = i
			}
			o.queue.terminate(ErrObserverClosed)
			o.state.Store(int32(ObserverClosed))
			o.release(o.ids[:confirmed])
			c.mu.Lock()
			c.dispatcher.remove(o.ids[confirmed:])
			c.mu.Unlock()
			return nil, err
		}
	}

	o.state.Store(int32(ObserverActive))
	c.metrics.RecordObserverOpened()
	return o, nil
}

// State reports the lifecycle position of the observer. An observer whose
// session ended is Closed even before Next reports the failure.
func (o *Observer[T]) State() ObserverState {
	if o.queue.terminated() {
		return ObserverClosed
	}
	return ObserverState(o.state.Load())
}

// Properties returns the observed properties.
func (o *Observer[T]) Properties() []Property { return o.props }

// Next blocks until the next value arrives. A value that does not decode
// into T yields a *DecodeError, a change the player flagged with an error
// yields a *RequestError; the observer stays usable in both cases. After Close
// it returns ErrObserverClosed; after a connection failure, that failure.
func (o *Observer[T]) Next(ctx context.Context) (T, error) {
	var zero T
	pc, err := o.queue.pop(ctx)
	if err != nil {
		if !errors.Is(err, ErrObserverClosed) && ctx.Err() == nil {
			o.state.Store(int32(ObserverClosed))
		}
		return zero, err
	}
	if pc.status != "" && pc.status != statusSuccess {
		return zero, &RequestError{Command: "observe_property " + string(pc.Name), Message: pc.status}
	}
	return o.decode(pc)
}

// Take iterates over at most n values and closes the observer afterwards,
// also when the loop body breaks early. Per-value errors are yielded and
// count towards n; a connection error is yielded once and ends the sequence.
func (o *Observer[T]) Take(ctx context.Context, n int) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		defer o.Close()
		for i := 0; n < 0 || i < n; i++ {
			v, err := o.Next(ctx)
			if err != nil {
				if perValue(err) {
					if !yield(v, err) {
						return
					}
					continue
				}
				if !errors.Is(err, ErrObserverClosed) {
					yield(v, err)
				}
				return
			}
			if !yield(v, nil) {
				return
			}
		}
	}
}

// perValue reports whether err concerns one value only.
func perValue(err error) bool {
	var decodeErr *DecodeError
	var requestErr *RequestError
	return errors.As(err, &decodeErr) || errors.As(err, &requestErr)
}

// All is Take without a bound.
func (o *Observer[T]) All(ctx context.Context) iter.Seq2[T, error] {
	return o.Take(ctx, -1)
}

// Close stops delivery, sends unobserve_property for every subscription id
// and removes them from the dispatch table. Failing to send is ignored
// because the connection may already be gone. Close is idempotent.
func (o *Observer[T]) Close() error {
	o.closeOnce.Do(func() {
		o.queue.terminate(ErrObserverClosed)
		o.state.Store(int32(ObserverClosed))
		o.release(o.ids)
		o.client.metrics.RecordObserverClosed()
	})
	return nil
}

// release unobserves ids and then drops them from the table.
func (o *Observer[T]) release(ids []int64) {
	c := o.client
	for _, id := range ids {
		if _, _, err := c.send(context.Background(), "unobserve_property", id); err != nil {
			log.Debug("mpv ipc %s: unobserve subscription %d: %v", c.id, id, err)
		}
	}
	c.mu.Lock()
	c.dispatcher.remove(ids)
	c.mu.Unlock()
}
