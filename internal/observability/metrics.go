package observability

import (
	"strconv"
	"sync"
	"time"
)

// RequestStat aggregates one path|method|status series.
type RequestStat struct {
	Count        int64
	TotalLatency time.Duration
}

// Metrics keeps in-process request and error counters. There is no scrape
// endpoint; the counters exist for tests and for dumping on demand.
type Metrics struct {
	mu       sync.Mutex
	requests map[string]RequestStat
	errors   map[string]int64
}

// NewMetrics builds empty counters.
func NewMetrics() *Metrics {
	return &Metrics{
		requests: make(map[string]RequestStat),
		errors:   make(map[string]int64),
	}
}

// RecordRequest accounts one completed request.
func (m *Metrics) RecordRequest(path, method string, status int, latency time.Duration) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + strconv.Itoa(status)
	m.mu.Lock()
	defer m.mu.Unlock()
	stat := m.requests[key]
	stat.Count++
	stat.TotalLatency += latency
	m.requests[key] = stat
}

// RecordError accounts one failed request by error code.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	key := path + "|" + method + "|" + code
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[key]++
}

// RequestTotals returns a copy of request series keyed path|method|status.
func (m *Metrics) RequestTotals() map[string]RequestStat {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]RequestStat, len(m.requests))
	for k, v := range m.requests {
		out[k] = v
	}
	return out
}

// ErrorTotals returns a copy of error counters keyed path|method|code.
func (m *Metrics) ErrorTotals() map[string]int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]int64, len(m.errors))
	for k, v := range m.errors {
		out[k] = v
	}
	return out
}
