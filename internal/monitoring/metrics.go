package monitoring

import (
	"sync"
	"time"

	"github.com/tr1v3r/pkg/log"
)

// Metrics tracks protocol counters of one IPC session
type Metrics struct {
	mu sync.RWMutex

	// Request metrics
	RequestsTotal       int64
	RequestsByCommand   map[string]int64
	RequestErrorsTotal  int64
	UnmatchedResponses  int64
	RequestWaitDuration time.Duration

	// Event metrics
	EventsTotal   int64
	EventsByKind  map[string]int64
	EventsDropped int64

	// Observer metrics
	ObserversOpened int64
	ObserversClosed int64

	startTime time.Time
}

// Snapshot is a copy of the counters safe to hand to callers
type Snapshot struct {
	RequestsTotal       int64
	RequestsByCommand   map[string]int64
	RequestErrorsTotal  int64
	UnmatchedResponses  int64
	RequestWaitDuration time.Duration
	EventsTotal         int64
	EventsByKind        map[string]int64
	EventsDropped       int64
	ObserversOpened     int64
	ObserversClosed     int64
	Uptime              time.Duration
}

// New returns a zeroed Metrics whose uptime starts now
func New() *Metrics {
	return &Metrics{
		RequestsByCommand: make(map[string]int64),
		EventsByKind:      make(map[string]int64),
		startTime:         time.Now(),
	}
}

// RecordRequest records a completed request round trip
func (m *Metrics) RecordRequest(command string, wait time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.RequestsTotal++
	m.RequestsByCommand[command]++
	m.RequestWaitDuration += wait
}

// RecordRequestError records a non-success response
func (m *Metrics) RecordRequestError() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.RequestErrorsTotal++
}

// RecordUnmatchedResponse records a response nobody was waiting for
func (m *Metrics) RecordUnmatchedResponse() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.UnmatchedResponses++
}

// RecordEvent records an incoming event, dropped when nobody consumed it
func (m *Metrics) RecordEvent(kind string, dropped bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.EventsTotal++
	m.EventsByKind[kind]++
	if dropped {
		m.EventsDropped++
	}
}

// RecordObserverOpened records a confirmed subscription
func (m *Metrics) RecordObserverOpened() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ObserversOpened++
}

// RecordObserverClosed records a subscription leaving the dispatch table
func (m *Metrics) RecordObserverClosed() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ObserversClosed++
}

// GetUptime returns the session uptime
func (m *Metrics) GetUptime() time.Duration {
	return time.Since(m.startTime)
}

// Snapshot copies the current counters
func (m *Metrics) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := Snapshot{
		RequestsTotal:       m.RequestsTotal,
		RequestsByCommand:   make(map[string]int64, len(m.RequestsByCommand)),
		RequestErrorsTotal:  m.RequestErrorsTotal,
		UnmatchedResponses:  m.UnmatchedResponses,
		RequestWaitDuration: m.RequestWaitDuration,
		EventsTotal:         m.EventsTotal,
		EventsByKind:        make(map[string]int64, len(m.EventsByKind)),
		EventsDropped:       m.EventsDropped,
		ObserversOpened:     m.ObserversOpened,
		ObserversClosed:     m.ObserversClosed,
		Uptime:              m.GetUptime(),
	}
	for k, v := range m.RequestsByCommand {
		s.RequestsByCommand[k] = v
	}
	for k, v := range m.EventsByKind {
		s.EventsByKind[k] = v
	}
	return s
}

// LogMetrics logs current metrics
func (m *Metrics) LogMetrics(session string) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	log.Info("IPC metrics session=%s uptime=%s requests_total=%d request_errors_total=%d unmatched_responses=%d events_total=%d events_dropped=%d observers_opened=%d observers_closed=%d",
		session,
		m.GetUptime().String(),
		m.RequestsTotal,
		m.RequestErrorsTotal,
		m.UnmatchedResponses,
		m.EventsTotal,
		m.EventsDropped,
		m.ObserversOpened,
		m.ObserversClosed)
}
