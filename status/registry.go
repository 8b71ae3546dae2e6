// Package status holds runtime counters written by the frame loop and read
// by the spectator stats endpoint
package status

import (
	"encoding/json"
	"math"
	"net/http"
	"sort"
	"sync"
	"sync/atomic"
)

// Gauge is an atomic float64. Zero value reads 0
type Gauge struct {
	bits atomic.Uint64
}

// Set stores v
func (g *Gauge) Set(v float64) {
	g.bits.Store(math.Float64bits(v))
}

// Get loads the current value
func (g *Gauge) Get() float64 {
	return math.Float64frombits(g.bits.Load())
}

// Registry maps names to counters and gauges.
// Lookups lock; callers may cache the returned pointers and write to them lock-free
type Registry struct {
	mu       sync.RWMutex
	counters map[string]*atomic.Int64
	gauges   map[string]*Gauge
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		counters: make(map[string]*atomic.Int64),
		gauges:   make(map[string]*Gauge),
	}
}

// Counter returns the named counter, creating it on first use
func (r *Registry) Counter(name string) *atomic.Int64 {
	return lookup(&r.mu, r.counters, name)
}

// Gauge returns the named gauge, creating it on first use
func (r *Registry) Gauge(name string) *Gauge {
	return lookup(&r.mu, r.gauges, name)
}

func lookup[T any](mu *sync.RWMutex, items map[string]*T, name string) *T {
	mu.RLock()
	ptr, ok := items[name]
	mu.RUnlock()
	if ok {
		return ptr
	}

	mu.Lock()
	defer mu.Unlock()
	// Another writer may have won
	if ptr, ok := items[name]; ok {
		return ptr
	}
	ptr = new(T)
	items[name] = ptr
	return ptr
}

// Names lists every registered metric in sorted order
func (r *Registry) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.counters)+len(r.gauges))
	for k := range r.counters {
		names = append(names, k)
	}
	for k := range r.gauges {
		names = append(names, k)
	}
	r.mu.RUnlock()
	sort.Strings(names)
	return names
}

// Snapshot copies every metric. Counters are converted to float64
func (r *Registry) Snapshot() map[string]float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]float64, len(r.counters)+len(r.gauges))
	for k, c := range r.counters {
		out[k] = float64(c.Load())
	}
	for k, g := range r.gauges {
		out[k] = g.Get()
	}
	return out
}

// Handler serves the snapshot as a JSON object
func (r *Registry) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(r.Snapshot()); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}
