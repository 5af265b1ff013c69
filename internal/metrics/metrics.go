// Package metrics defines the stats seam the emitter components publish
// run counters through, mirroring the teacher's lib/metrics.Type /
// metrics.StatCounter interfaces (consumed as stats.GetCounter("count") in
// lib/processor/mongodb.go) but backed directly by
// github.com/prometheus/client_golang.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// StatCounter is a single monotonic counter.
type StatCounter interface {
	Incr(count int64)
}

// Type is a stats registry: named counters are created lazily and reused
// across calls with the same name.
type Type interface {
	GetCounter(name string) StatCounter
}

type promCounter struct {
	c prometheus.Counter
}

func (p *promCounter) Incr(count int64) {
	p.c.Add(float64(count))
}

// promRegistry implements Type over a prometheus.Registry, namespacing every
// counter under "jsemitter_" so it composes with a caller's own registry.
type promRegistry struct {
	reg      *prometheus.Registry
	counters map[string]*promCounter
}

// New returns a Type backed by a fresh, private prometheus.Registry.
func New() Type {
	return &promRegistry{
		reg:      prometheus.NewRegistry(),
		counters: map[string]*promCounter{},
	}
}

func (r *promRegistry) GetCounter(name string) StatCounter {
	if c, ok := r.counters[name]; ok {
		return c
	}
	pc := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "jsemitter_" + sanitize(name),
		Help: "jsemitter run counter: " + name,
	})
	r.reg.MustRegister(pc)
	c := &promCounter{c: pc}
	r.counters[name] = c
	return c
}

// sanitize replaces the dotted counter names the teacher's stats idiom uses
// (e.g. "classes.reused") with prometheus-legal underscored identifiers.
func sanitize(name string) string {
	out := make([]byte, len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c == '.' || c == '-' {
			out[i] = '_'
		} else {
			out[i] = c
		}
	}
	return string(out)
}

// noopCounter discards increments; used by Noop.
type noopCounter struct{}

func (noopCounter) Incr(int64) {}

type noopType struct{}

func (noopType) GetCounter(string) StatCounter { return noopCounter{} }

// Noop returns a Type whose counters discard every increment, for tests
// that don't care about stats plumbing.
func Noop() Type { return noopType{} }
