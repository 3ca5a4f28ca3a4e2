// Package observability aggregates request metrics off the hot path.
package observability

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Monitor aggregates per-route request counters. Recording costs one sync.Map
// lookup plus a handful of atomic adds, so it stays on for production traffic.
type Monitor struct {
	enabled atomic.Bool
	routes  sync.Map
	global  struct {
		requests atomic.Uint64
		errors   atomic.Uint64
		duration atomic.Uint64
	}
}

// RouteMetrics stores live counters for one route.
type RouteMetrics struct {
	Route         string
	Count         atomic.Uint64
	Errors        atomic.Uint64
	TotalDuration atomic.Uint64
	MinDuration   atomic.Uint64
	MaxDuration   atomic.Uint64

	// Bucket upper bounds in ms: 1, 5, 10, 50, 100, 500, 1000, 5000,
	// 10000, and everything above.
	latencyBuckets [10]atomic.Uint64
}

// NewMonitor creates a monitor with recording enabled.
func NewMonitor() *Monitor {
	m := &Monitor{}
	m.enabled.Store(true)
	return m
}

// SetEnabled toggles recording. When disabled, RecordRequest is a single
// atomic load.
func (mon *Monitor) SetEnabled(v bool) {
	mon.enabled.Store(v)
}

// RecordRequest folds one finished request into the route's counters.
func (mon *Monitor) RecordRequest(route string, duration time.Duration, isError bool) {
	if !mon.enabled.Load() {
		return
	}

	val, _ := mon.routes.LoadOrStore(route, &RouteMetrics{Route: route})
	rm := val.(*RouteMetrics)

	rm.Count.Add(1)
	if isError {
		rm.Errors.Add(1)
		mon.global.errors.Add(1)
	}

	d := uint64(duration.Nanoseconds())
	rm.TotalDuration.Add(d)
	updateMinMax(rm, d)
	rm.latencyBuckets[bucketFor(d)].Add(1)

	mon.global.requests.Add(1)
	mon.global.duration.Add(d)
}

func updateMinMax(m *RouteMetrics, d uint64) {
	for {
		min := m.MinDuration.Load()
		if min != 0 && d >= min {
			break
		}
		if m.MinDuration.CompareAndSwap(min, d) {
			break
		}
	}
	for {
		max := m.MaxDuration.Load()
		if d <= max {
			break
		}
		if m.MaxDuration.CompareAndSwap(max, d) {
			break
		}
	}
}

func bucketFor(durationNs uint64) int {
	ms := durationNs / 1_000_000
	switch {
	case ms < 1:
		return 0
	case ms < 5:
		return 1
	case ms < 10:
		return 2
	case ms < 50:
		return 3
	case ms < 100:
		return 4
	case ms < 500:
		return 5
	case ms < 1000:
		return 6
	case ms < 5000:
		return 7
	case ms < 10000:
		return 8
	default:
		return 9
	}
}

// RouteSnapshot is the exported view of one route's counters.
type RouteSnapshot struct {
	Route       string        `json:"route"`
	Count       uint64        `json:"count"`
	Errors      uint64        `json:"errors"`
	AvgDuration time.Duration `json:"avg_duration_ns"`
	MinDuration time.Duration `json:"min_duration_ns"`
	MaxDuration time.Duration `json:"max_duration_ns"`
	Latency     [10]uint64    `json:"latency_buckets"`
}

// Snapshot is a point-in-time view of all request metrics.
type Snapshot struct {
	TotalRequests uint64          `json:"total_requests"`
	TotalErrors   uint64          `json:"total_errors"`
	AvgDuration   time.Duration   `json:"avg_duration_ns"`
	Routes        []RouteSnapshot `json:"routes"`
}

// Snapshot copies the live counters into an exportable view, routes sorted by
// name.
func (mon *Monitor) Snapshot() Snapshot {
	snap := Snapshot{
		TotalRequests: mon.global.requests.Load(),
		TotalErrors:   mon.global.errors.Load(),
	}
	if snap.TotalRequests > 0 {
		snap.AvgDuration = time.Duration(mon.global.duration.Load() / snap.TotalRequests)
	}

	mon.routes.Range(func(_, value any) bool {
		rm := value.(*RouteMetrics)
		count := rm.Count.Load()

		rs := RouteSnapshot{
			Route:       rm.Route,
			Count:       count,
			Errors:      rm.Errors.Load(),
			MinDuration: time.Duration(rm.MinDuration.Load()),
			MaxDuration: time.Duration(rm.MaxDuration.Load()),
		}
		if count > 0 {
			rs.AvgDuration = time.Duration(rm.TotalDuration.Load() / count)
		}
		for i := range rm.latencyBuckets {
			rs.Latency[i] = rm.latencyBuckets[i].Load()
		}

		snap.Routes = append(snap.Routes, rs)
		return true
	})

	sort.Slice(snap.Routes, func(i, j int) bool {
		return snap.Routes[i].Route < snap.Routes[j].Route
	})
	return snap
}
