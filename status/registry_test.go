package status

import (
	"encoding/json"
	"net/http/httptest"
	"reflect"
	"sync"
	"testing"
)

func TestCounterAndGaugeAreCached(t *testing.T) {
	r := NewRegistry()
	c := r.Counter("frames")
	c.Add(3)
	if r.Counter("frames") != c {
		t.Error("Counter pointer not cached")
	}
	if got := r.Counter("frames").Load(); got != 3 {
		t.Errorf("frames = %d, want 3", got)
	}

	r.Gauge("render_ms").Set(1.25)
	if got := r.Gauge("render_ms").Get(); got != 1.25 {
		t.Errorf("render_ms = %v", got)
	}

	want := []string{"frames", "render_ms"}
	if got := r.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names = %v, want %v", got, want)
	}
}

func TestConcurrentCounters(t *testing.T) {
	r := NewRegistry()
	const workers, perWorker = 50, 100

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				r.Counter("actions").Add(1)
			}
		}()
	}
	wg.Wait()

	if got := r.Counter("actions").Load(); got != workers*perWorker {
		t.Errorf("actions = %d, want %d", got, workers*perWorker)
	}
}

func TestHandlerServesSnapshot(t *testing.T) {
	r := NewRegistry()
	r.Counter("reloads").Add(2)
	r.Gauge("viewers").Set(1)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/stats", nil))

	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	var got map[string]float64
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("Bad body %q: %v", rec.Body.String(), err)
	}
	if got["reloads"] != 2 || got["viewers"] != 1 {
		t.Errorf("Snapshot = %v", got)
	}
}
