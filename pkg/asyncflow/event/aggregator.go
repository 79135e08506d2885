package event

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/randalmurphal/asyncflow/pkg/asyncflow/observability"
)

// BatchListener receives the payloads collected by After, in emission order.
type BatchListener func(data []any) error

// detacher removes a combinator's global subscription once its callback is
// due. The subscription may be bound after the listener first runs when
// another goroutine emits concurrently with registration.
type detacher struct {
	mu    sync.Mutex
	sub   Subscription
	fired bool
}

func (d *detacher) bind(sub Subscription) {
	d.mu.Lock()
	d.sub = sub
	fired := d.fired
	d.mu.Unlock()
	if fired {
		sub.Unsubscribe()
	}
}

func (d *detacher) detach() {
	d.mu.Lock()
	d.fired = true
	sub := d.sub
	d.mu.Unlock()
	if sub != nil {
		sub.Unsubscribe()
	}
}

// join is the state of one All or Tail call: the latest payload of every
// requested name and how many distinct names have fired.
type join struct {
	detacher

	mu    sync.Mutex
	names []string
	index map[string]int
	data  []any
	seen  []bool
	fired int
	done  bool
}

func newJoin(names []string) *join {
	j := &join{
		names: names,
		index: make(map[string]int, len(names)),
		data:  make([]any, len(names)),
		seen:  make([]bool, len(names)),
	}
	for i, n := range names {
		j.index[n] = i
	}
	return j
}

func (j *join) record(name string, args []any) {
	i, ok := j.index[name]
	if !ok {
		return
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	j.data[i] = payload(args)
	if !j.seen[i] {
		j.seen[i] = true
		j.fired++
	}
}

// take returns the ordered payloads when every name has fired. With once
// set it succeeds a single time.
func (j *join) take(once bool) ([]any, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.fired < len(j.names) || (once && j.done) {
		return nil, false
	}
	j.done = true
	return append([]any(nil), j.data...), true
}

func (j *join) has(name string) bool {
	_, ok := j.index[name]
	return ok
}

// All waits for every event in names to fire at least once, then calls fn
// once with their payloads ordered as in names, not as fired. Names fan out
// on whitespace and repeated names count once.
//
// A payload is nil for an emission without arguments, the argument itself
// for one argument, and a []any of the arguments otherwise. Each listed
// event is consumed once; later emissions do not update the payload.
//
// Example:
//
//	e.All([]string{"profile", "orders"}, func(data ...any) error {
//	    return render(data[0].(Profile), data[1].([]Order))
//	})
func (e *Emitter) All(names []string, fn Listener) *Emitter {
	names = unique(expandNames(names))
	if len(names) == 0 || fn == nil {
		return e
	}

	j := newJoin(names)
	for _, name := range names {
		e.Once(name, func(args ...any) error {
			j.record(name, args)
			return nil
		})
	}

	j.bind(e.SubscribeAll(func(string, ...any) error {
		data, ok := j.take(true)
		if !ok {
			return nil
		}
		j.detach()
		e.joined("all", names)
		return fn(data...)
	}))
	return e
}

// Tail is the persistent form of All. Once every event in names has fired,
// fn is called with the latest payload of each, and again on every later
// emission of any of the names.
func (e *Emitter) Tail(names []string, fn Listener) *Emitter {
	e.TailSubscription(names, fn)
	return e
}

// TailSubscription is Tail returning a handle that stops the join.
func (e *Emitter) TailSubscription(names []string, fn Listener) Subscription {
	names = unique(expandNames(names))
	if len(names) == 0 || fn == nil {
		return subscriptionSet(nil)
	}

	j := newJoin(names)
	subs := make(subscriptionSet, 0, len(names)+1)
	for _, name := range names {
		subs = append(subs, e.Subscribe(name, func(args ...any) error {
			j.record(name, args)
			return nil
		}))
	}

	subs = append(subs, e.SubscribeAll(func(name string, _ ...any) error {
		if !j.has(name) {
			return nil
		}
		data, ok := j.take(false)
		if !ok {
			return nil
		}
		e.joined("tail", names)
		return fn(data...)
	}))
	return subs
}

// After collects the payloads of the first n emissions of name and calls fn
// with them exactly at the n-th emission. Emissions are observed on the
// global channel, so they are counted in global emission order. A
// non-positive n is ignored.
func (e *Emitter) After(name string, n int, fn BatchListener) *Emitter {
	if name == "" || n <= 0 || fn == nil {
		return e
	}

	var (
		mu   sync.Mutex
		data = make([]any, 0, n)
		d    = new(detacher)
	)
	d.bind(e.SubscribeAll(func(got string, args ...any) error {
		if got != name {
			return nil
		}
		mu.Lock()
		if len(data) >= n {
			mu.Unlock()
			return nil
		}
		data = append(data, payload(args))
		if len(data) < n {
			mu.Unlock()
			return nil
		}
		result := append([]any(nil), data...)
		mu.Unlock()

		d.detach()
		e.joined("after", []string{name})
		return fn(result)
	}))
	return e
}

// Any calls fn once with the name and arguments of whichever event in names
// fires first.
func (e *Emitter) Any(names []string, fn GlobalListener) *Emitter {
	names = unique(expandNames(names))
	if len(names) == 0 || fn == nil {
		return e
	}

	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}

	var (
		fired atomic.Bool
		d     = new(detacher)
	)
	d.bind(e.SubscribeAll(func(name string, args ...any) error {
		if !wanted[name] || !fired.CompareAndSwap(false, true) {
			return nil
		}
		d.detach()
		e.joined("any", names)
		return fn(name, args...)
	}))
	return e
}

// Not calls fn for every emission whose name is not name.
func (e *Emitter) Not(name string, fn GlobalListener) *Emitter {
	if name == "" || fn == nil {
		return e
	}
	e.SubscribeAll(func(got string, args ...any) error {
		if got == name {
			return nil
		}
		return fn(got, args...)
	})
	return e
}

func (e *Emitter) joined(kind string, names []string) {
	observability.LogJoinComplete(e.cfg.logger, kind, names)
	e.metrics().RecordJoin(context.Background(), kind, len(names))
}
