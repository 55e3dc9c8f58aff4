package service

import "sync"

// fetchGuards hands out monotonically increasing sequence numbers per
// resource key and keeps only the result of the most recently issued
// fetch. A completing fetch whose sequence is older than the newest
// applied one is discarded, which is the whole guard against a slow
// response clobbering a fresh one.
type fetchGuards struct {
	mu     sync.Mutex
	issued map[string]uint64
	seen   map[string]uint64
	result map[string]interface{}
}

func newFetchGuards() *fetchGuards {
	return &fetchGuards{
		issued: make(map[string]uint64),
		seen:   make(map[string]uint64),
		result: make(map[string]interface{}),
	}
}

// begin registers a new fetch for key and returns its sequence number.
func (g *fetchGuards) begin(key string) uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.issued[key]++
	return g.issued[key]
}

// apply stores the result for seq unless a result from a newer sequence
// has already been applied. Returns false when the result was discarded.
func (g *fetchGuards) apply(key string, seq uint64, result interface{}) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if seq < g.seen[key] {
		return false
	}
	g.seen[key] = seq
	g.result[key] = result
	return true
}

// applied returns the newest applied result for key, if any.
func (g *fetchGuards) applied(key string) (interface{}, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	r, ok := g.result[key]
	return r, ok
}
