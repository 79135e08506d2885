package event_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/asyncflow/pkg/asyncflow/event"
)

func TestGlobalListenerReceivesName(t *testing.T) {
	e := event.New()

	var directArgs, globalArgs []any
	var globalName string
	e.On("order", func(args ...any) error {
		directArgs = args
		return nil
	})
	e.OnGlobalEvent(func(name string, args ...any) error {
		globalName = name
		globalArgs = args
		return nil
	})

	require.NoError(t, e.Emit("order", 7, "book"))

	assert.Equal(t, []any{7, "book"}, directArgs, "direct listeners never see the name")
	assert.Equal(t, "order", globalName)
	assert.Equal(t, []any{7, "book"}, globalArgs)
}

func TestGlobalRunsAfterDirect(t *testing.T) {
	e := event.New()

	var order []string
	e.OnGlobalEvent(func(string, ...any) error {
		order = append(order, "global")
		return nil
	})
	e.On("x", func(...any) error {
		order = append(order, "direct")
		return nil
	})

	require.NoError(t, e.Emit("x"))
	assert.Equal(t, []string{"direct", "global"}, order)
}

func TestGlobalSeesUnlistenedEvents(t *testing.T) {
	e := event.New()

	var names []string
	e.OnGlobalEvent(func(name string, _ ...any) error {
		names = append(names, name)
		return nil
	})

	require.NoError(t, e.Emit("nobody.listens"))
	require.NoError(t, e.Emit("__global__"))
	assert.Equal(t, []string{"nobody.listens", "__global__"}, names)
}

func TestReservedNameIsOrdinary(t *testing.T) {
	e := event.New()

	var direct, global int
	e.On("__global__", func(...any) error { direct++; return nil })
	e.OnGlobalEvent(func(string, ...any) error { global++; return nil })

	require.NoError(t, e.Emit("other"))
	assert.Equal(t, 0, direct)
	assert.Equal(t, 1, global)
}

func globalA(string, ...any) error { return nil }
func globalB(string, ...any) error { return nil }

func TestOffGlobalEvent(t *testing.T) {
	e := event.New()

	var calls int
	counter := func(string, ...any) error { calls++; return nil }
	e.OnGlobalEvent(globalA)
	e.OnGlobalEvent(counter)
	e.OnGlobalEvent(globalB)

	e.OffGlobalEvent(globalA, globalB)
	require.NoError(t, e.Emit("x"))
	assert.Equal(t, 1, calls)

	e.OffGlobalEvent()
	require.NoError(t, e.Emit("x"))
	assert.Equal(t, 1, calls)
}

func TestOffDoesNotTouchGlobal(t *testing.T) {
	e := event.New()

	var calls int
	e.OnGlobalEvent(func(string, ...any) error { calls++; return nil })
	e.On("x", onA)

	e.Off("")
	require.NoError(t, e.Emit("x"))
	assert.Equal(t, 1, calls)
}

func TestGlobalListenerError(t *testing.T) {
	e := event.New()
	audit := errors.New("audit log unavailable")

	var secondCalled bool
	e.OnGlobalEvent(func(string, ...any) error { return audit })
	e.OnGlobalEvent(func(string, ...any) error { secondCalled = true; return nil })

	err := e.Emit("x")
	require.ErrorIs(t, err, audit)

	var lerr *event.ListenerError
	require.ErrorAs(t, err, &lerr)
	assert.True(t, lerr.Global)
	assert.Contains(t, err.Error(), "global listener 0")
	assert.False(t, secondCalled)
}

func TestSubscription(t *testing.T) {
	e := event.New()

	var calls int
	sub := e.Subscribe("ping", func(...any) error { calls++; return nil })

	require.NoError(t, e.Emit("ping"))
	assert.Equal(t, 1, calls)

	sub.Pause()
	assert.True(t, sub.IsPaused())
	require.NoError(t, e.Emit("ping"))
	assert.Equal(t, 1, calls, "paused subscription must not receive")

	sub.Resume()
	assert.False(t, sub.IsPaused())
	require.NoError(t, e.Emit("ping"))
	assert.Equal(t, 2, calls)

	sub.Unsubscribe()
	sub.Unsubscribe()
	require.NoError(t, e.Emit("ping"))
	assert.Equal(t, 2, calls)
	assert.Equal(t, 0, e.ListenerCount("ping"))
}

func TestSubscriptionRemovesOnlyItsOwnClosure(t *testing.T) {
	e := event.New()

	counts := make([]int, 2)
	subs := make([]event.Subscription, 2)
	for i := range subs {
		subs[i] = e.Subscribe("x", func(...any) error {
			counts[i]++
			return nil
		})
	}

	subs[0].Unsubscribe()
	require.NoError(t, e.Emit("x"))
	assert.Equal(t, []int{0, 1}, counts)
}

func TestSubscribeMultipleNames(t *testing.T) {
	e := event.New()

	var calls int
	sub := e.Subscribe("a b", func(...any) error { calls++; return nil })

	sub.Pause()
	assert.True(t, sub.IsPaused())
	require.NoError(t, e.Emit("a"))
	require.NoError(t, e.Emit("b"))
	assert.Equal(t, 0, calls)

	sub.Resume()
	require.NoError(t, e.Emit("a"))
	require.NoError(t, e.Emit("b"))
	assert.Equal(t, 2, calls)

	sub.Unsubscribe()
	assert.Empty(t, e.EventNames())
}

func TestSubscribeAll(t *testing.T) {
	e := event.New()

	var names []string
	sub := e.SubscribeAll(func(name string, _ ...any) error {
		names = append(names, name)
		return nil
	})

	require.NoError(t, e.Emit("a"))
	sub.Unsubscribe()
	require.NoError(t, e.Emit("b"))
	assert.Equal(t, []string{"a"}, names)

	nop := e.SubscribeAll(nil)
	nop.Pause()
	assert.False(t, nop.IsPaused())
	nop.Unsubscribe()
}
