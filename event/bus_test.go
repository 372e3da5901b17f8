package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/ducky/status"
)

// resolverFunc adapts a function to Resolver
type resolverFunc func(ev Event) bool

func (f resolverFunc) Resolve(ev Event) bool { return f(ev) }

func TestBusResolverHasFirstRefusal(t *testing.T) {
	bus := NewBus(nil, nil)
	var resolved []EventType
	bus.SetResolver(resolverFunc(func(ev Event) bool {
		resolved = append(resolved, ev.Type)
		return ev.Type == EventDuckyClicked
	}))

	var heard []EventType
	bus.Subscribe(EventDuckyClicked, func(ev Event) { heard = append(heard, ev.Type) })
	bus.Subscribe(EventTimeout, func(ev Event) { heard = append(heard, ev.Type) })

	bus.Emit(EventDuckyClicked, &ClickPayload{X: 1, Y: 2})
	bus.Emit(EventTimeout, nil)

	assert.Equal(t, []EventType{EventDuckyClicked, EventTimeout}, resolved)
	assert.Equal(t, []EventType{EventTimeout}, heard, "resolved events must not reach listeners")
}

func TestBusUnknownEventIsNoop(t *testing.T) {
	reg := status.NewRegistry()
	bus := NewBus(nil, reg)

	assert.NotPanics(t, func() { bus.Emit(EventAPIEnd, nil) })
	assert.Equal(t, int64(1), reg.Ints.Get("bus.dropped").Load())
	assert.Equal(t, int64(1), reg.Ints.Get("bus.emitted").Load())
}

func TestBusQueuesNestedEmits(t *testing.T) {
	bus := NewBus(nil, nil)
	var order []string

	bus.Subscribe(EventAPIStart, func(ev Event) {
		order = append(order, "start:begin")
		bus.Emit(EventAPIEnd, &APIEndPayload{Operation: "chat"})
		order = append(order, "start:end")
	})
	bus.Subscribe(EventAPIEnd, func(ev Event) {
		order = append(order, "end")
		p, ok := ev.Payload.(*APIEndPayload)
		require.True(t, ok)
		assert.Equal(t, "chat", p.Operation)
	})

	bus.Emit(EventAPIStart, &APIStartPayload{Operation: "chat"})

	assert.Equal(t, []string{"start:begin", "start:end", "end"}, order)
	assert.Zero(t, bus.Pending())
}

func TestBusSequenceIsEmissionOrder(t *testing.T) {
	bus := NewBus(nil, nil)
	var seqs []uint64
	bus.Subscribe(EventResize, func(ev Event) { seqs = append(seqs, ev.Seq) })

	for i := 0; i < 3; i++ {
		bus.Emit(EventResize, &ResizePayload{Width: float64(i)})
	}
	assert.Equal(t, []uint64{1, 2, 3}, seqs)
}

func TestBusPayloadMismatchDropped(t *testing.T) {
	bus := NewBus(nil, nil)
	called := false
	bus.Subscribe(EventAPIStart, func(Event) { called = true })

	bus.Emit(EventAPIStart, &APIEndPayload{})
	assert.False(t, called)
}

func TestBusUnsubscribe(t *testing.T) {
	bus := NewBus(nil, nil)
	var a, b int
	subA := bus.Subscribe(EventResize, func(Event) { a++ })
	bus.Subscribe(EventResize, func(Event) { b++ })

	require.True(t, bus.Unsubscribe(EventResize, subA))
	assert.False(t, bus.Unsubscribe(EventResize, subA), "second unsubscribe is a miss")
	assert.False(t, bus.Unsubscribe(EventTimeout, subA))

	bus.Emit(EventResize, nil)
	assert.Equal(t, 0, a)
	assert.Equal(t, 1, b)
	assert.Equal(t, 1, bus.HandlerCount(EventResize))
}

func TestBusUnsubscribeDuringBroadcast(t *testing.T) {
	bus := NewBus(nil, nil)
	var second Subscription
	var secondCalls int

	bus.Subscribe(EventResize, func(Event) { bus.Unsubscribe(EventResize, second) })
	second = bus.Subscribe(EventResize, func(Event) { secondCalls++ })

	bus.Emit(EventResize, nil)
	assert.Zero(t, secondCalls)
}

func TestBusExclusiveDefersEmits(t *testing.T) {
	bus := NewBus(nil, nil)
	var order []string
	bus.Subscribe(EventResize, func(Event) { order = append(order, "event") })

	bus.Exclusive(func() {
		bus.Emit(EventResize, nil)
		order = append(order, "fn")
	})
	assert.Equal(t, []string{"fn", "event"}, order)
}

func TestBusCloseStopsDelivery(t *testing.T) {
	bus := NewBus(nil, nil)
	calls := 0
	bus.Subscribe(EventResize, func(Event) {
		calls++
		bus.Close()
		bus.Emit(EventResize, nil)
	})
	bus.Subscribe(EventResize, func(Event) { calls++ })

	bus.Emit(EventResize, nil)
	bus.Emit(EventResize, nil)

	assert.Equal(t, 1, calls)
	assert.True(t, bus.Closed())
	assert.Zero(t, bus.HandlerCount(EventResize))
}
