package status

import (
	"strconv"
	"strings"
	"sync/atomic"
)

// Registry is the central diagnostics facade
// Components cache pointers during construction; hot paths write directly to atomics
type Registry struct {
	Bools   *MetricMap[atomic.Bool]
	Ints    *MetricMap[atomic.Int64]
	Strings *MetricMap[AtomicString]
}

// NewRegistry creates an initialized Registry
func NewRegistry() *Registry {
	return &Registry{
		Bools:   NewMetricMap[atomic.Bool](),
		Ints:    NewMetricMap[atomic.Int64](),
		Strings: NewMetricMap[AtomicString](),
	}
}

// TotalCount returns total metrics across all types
func (r *Registry) TotalCount() int {
	return r.Bools.Count() + r.Ints.Count() + r.Strings.Count()
}

// Line renders all metrics as a single "key=value" line in sorted key order
// Strings first, then ints, then bools
func (r *Registry) Line() string {
	var b strings.Builder
	sep := func() {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
	}
	r.Strings.Range(func(key string, ptr *AtomicString) {
		sep()
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(ptr.Load())
	})
	r.Ints.Range(func(key string, ptr *atomic.Int64) {
		sep()
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(strconv.FormatInt(ptr.Load(), 10))
	})
	r.Bools.Range(func(key string, ptr *atomic.Bool) {
		sep()
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(strconv.FormatBool(ptr.Load()))
	})
	return b.String()
}

// Counter is a nil-safe handle so components may run without a registry
type Counter struct {
	v *atomic.Int64
}

// NewCounter caches the metric pointer for key; a nil registry yields a no-op counter
func NewCounter(r *Registry, key string) Counter {
	if r == nil {
		return Counter{}
	}
	return Counter{v: r.Ints.Get(key)}
}

// Inc adds one
func (c Counter) Inc() {
	if c.v != nil {
		c.v.Add(1)
	}
}

// Load returns the current value, zero for a no-op counter
func (c Counter) Load() int64 {
	if c.v == nil {
		return 0
	}
	return c.v.Load()
}

// Label is a nil-safe handle to a string metric
type Label struct {
	s *AtomicString
}

// NewLabel caches the string metric pointer for key; a nil registry yields a no-op label
func NewLabel(r *Registry, key string) Label {
	if r == nil {
		return Label{}
	}
	return Label{s: r.Strings.Get(key)}
}

// Store sets the label value
func (l Label) Store(val string) {
	if l.s != nil {
		l.s.Store(val)
	}
}

// Flag is a nil-safe handle to a bool metric
type Flag struct {
	b *atomic.Bool
}

// NewFlag caches the bool metric pointer for key; a nil registry yields a no-op flag
func NewFlag(r *Registry, key string) Flag {
	if r == nil {
		return Flag{}
	}
	return Flag{b: r.Bools.Get(key)}
}

// Store sets the flag value
func (f Flag) Store(val bool) {
	if f.b != nil {
		f.b.Store(val)
	}
}
