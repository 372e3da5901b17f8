package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryLineSortedByKind(t *testing.T) {
	reg := NewRegistry()
	reg.Ints.Get("fsm.rejected").Add(2)
	reg.Ints.Get("bus.emitted").Add(5)
	reg.Strings.Get("fsm.state").Store("WALK")
	reg.Bools.Get("render.reduced").Store(true)

	assert.Equal(t, "fsm.state=WALK bus.emitted=5 fsm.rejected=2 render.reduced=true", reg.Line())
	assert.Equal(t, 4, reg.TotalCount())
}

func TestNilSafeHandles(t *testing.T) {
	c := NewCounter(nil, "x")
	c.Inc()
	assert.Zero(t, c.Load())

	NewLabel(nil, "y").Store("ignored")
	NewFlag(nil, "z").Store(true)

	reg := NewRegistry()
	c = NewCounter(reg, "x")
	c.Inc()
	c.Inc()
	require.Equal(t, int64(2), c.Load())
	assert.Same(t, reg.Ints.Get("x"), reg.Ints.Get("x"))
}

func TestAtomicStringTruncates(t *testing.T) {
	var s AtomicString
	assert.Equal(t, "", s.Load())
	s.Store("WAITING_TO_REDIRECT_WITH_A_LONG_SUFFIX")
	assert.Len(t, s.Load(), MaxStringLen)
}

func TestMetricMapKeysSorted(t *testing.T) {
	m := NewMetricMap[int]()
	for _, k := range []string{"speech.shown", "bus.emitted", "fsm.timeouts", "bus.emitted"} {
		m.Get(k)
	}
	assert.Equal(t, []string{"bus.emitted", "fsm.timeouts", "speech.shown"}, m.Keys())
	assert.Equal(t, 3, m.Count())
	assert.True(t, m.Has("fsm.timeouts"))
	assert.False(t, m.Has("fsm.state"))

	var seen []string
	m.Range(func(key string, _ *int) { seen = append(seen, key) })
	assert.Equal(t, m.Keys(), seen)
}
