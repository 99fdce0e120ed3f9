package mpvipc

import (
	"github.com/tr1v3r/pkg/log"
)

// watch routes one subscription id to the queue of its observer.
type watch struct {
	property Property
	queue    *queue
}

// dispatcher is the table of active subscriptions. It is guarded by
// Client.mu.
type dispatcher struct {
	lastSubID int64
	watches   map[int64]*watch
}

func newDispatcher() dispatcher {
	return dispatcher{watches: make(map[int64]*watch)}
}

// add registers one fresh subscription id per property, all feeding q.
func (d *dispatcher) add(q *queue, props []Property) []int64 {
	ids := make([]int64, len(props))
	for i, p := range props {
		d.lastSubID++
		ids[i] = d.lastSubID
		d.watches[d.lastSubID] = &watch{property: p, queue: q}
	}
	return ids
}

func (d *dispatcher) remove(ids []int64) {
	for _, id := range ids {
		delete(d.watches, id)
	}
}

func (d *dispatcher) drain() map[int64]*watch {
	watches := d.watches
	d.watches = make(map[int64]*watch)
	return watches
}

// dispatch runs on the read loop for every event, in wire order. A shutdown
// or a quit ends the session: the player will not answer anymore.
func (c *Client) dispatch(ev *Event) {
	for _, h := range c.handlers {
		h(ev)
	}

	switch ev.Kind {
	case EventPropertyChange:
		if !ev.hasID {
			c.metrics.RecordEvent(string(ev.Kind), true)
			return
		}
		c.mu.Lock()
		w := c.dispatcher.watches[ev.ID]
		c.mu.Unlock()

		if w == nil || !w.queue.push(PropertyChange{Name: w.property, Data: ev.Data, status: ev.Error}) {
			c.metrics.RecordEvent(string(ev.Kind), true)
			log.Debug("mpv ipc %s: drop %s for inactive subscription %d", c.id, ev.Kind, ev.ID)
			return
		}
		c.metrics.RecordEvent(string(ev.Kind), false)
	case EventShutdown:
		log.Info("mpv ipc %s: player is shutting down", c.id)
		c.metrics.RecordEvent(string(ev.Kind), len(c.handlers) == 0)
		c.fail(&ConnectionError{Op: "shutdown", Err: ErrShutdown})
	case EventEndFile:
		c.metrics.RecordEvent(string(ev.Kind), len(c.handlers) == 0)
		var end EndFile
		if err := ev.Decode(&end); err == nil && end.Reason == EndFileQuit {
			log.Info("mpv ipc %s: player quit", c.id)
			c.fail(&ConnectionError{Op: "shutdown", Err: ErrShutdown})
		}
	default:
		c.metrics.RecordEvent(string(ev.Kind), len(c.handlers) == 0)
	}
}
