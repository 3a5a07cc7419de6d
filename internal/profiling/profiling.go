package profiling

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Lightweight interval profiler for tick-level insights on the server side.
// Totals accumulate between Reset calls, typically one stats interval.

type entry struct {
	total time.Duration
	calls int64
}

var (
	mu     sync.Mutex
	totals = make(map[string]entry)
)

// Track returns a stop function that records the elapsed time under the given name.
// Usage: defer profiling.Track("meshing.MeshChunk")()
func Track(name string) func() {
	start := time.Now()
	return func() {
		d := time.Since(start)
		mu.Lock()
		e := totals[name]
		e.total += d
		e.calls++
		totals[name] = e
		mu.Unlock()
	}
}

// Reset clears accumulated totals. Call at the start of each stats interval.
func Reset() {
	mu.Lock()
	for k := range totals {
		delete(totals, k)
	}
	mu.Unlock()
}

// Snapshot returns a copy of the accumulated totals since the last Reset.
func Snapshot() map[string]time.Duration {
	mu.Lock()
	defer mu.Unlock()
	out := make(map[string]time.Duration, len(totals))
	for k, e := range totals {
		out[k] = e.total
	}
	return out
}

// TopN formats the N largest totals since the last Reset, with call counts.
// Example: "meshing.MeshChunk:41.3ms/12, stream.Tick:2.1ms/60"
func TopN(n int) string {
	mu.Lock()
	type pair struct {
		name string
		e    entry
	}
	list := make([]pair, 0, len(totals))
	for k, e := range totals {
		list = append(list, pair{name: k, e: e})
	}
	mu.Unlock()

	sort.Slice(list, func(i, j int) bool { return list[i].e.total > list[j].e.total })
	if n > len(list) {
		n = len(list)
	}
	parts := make([]string, 0, n)
	for i := 0; i < n; i++ {
		ms := float64(list[i].e.total.Microseconds()) / 1000.0
		parts = append(parts, fmt.Sprintf("%s:%.1fms/%d", list[i].name, ms, list[i].e.calls))
	}
	return strings.Join(parts, ", ")
}
