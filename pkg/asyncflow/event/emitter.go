package event

import (
	"context"
	"reflect"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/randalmurphal/asyncflow/pkg/asyncflow/observability"
)

// Listener handles an event emitted under a name it was registered for.
// Returning an error stops the dispatch and is returned from Emit.
type Listener func(args ...any) error

// GlobalListener observes every emission. It receives the emitted event name
// ahead of the emitted arguments.
type GlobalListener func(name string, args ...any) error

// Emitter maps event names to ordered lists of listeners.
//
// The zero value is ready to use. An Emitter is safe for concurrent use, and
// listeners may register, remove, or emit re-entrantly from inside a dispatch.
type Emitter struct {
	cfg config

	mu     sync.Mutex
	id     string
	events map[string][]*binding
	global []*binding
	warned map[string]bool
}

// New creates an Emitter with the given options.
func New(opts ...Option) *Emitter {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	id := uuid.New().String()
	cfg.logger = observability.EnrichLogger(cfg.logger, id)
	return &Emitter{
		cfg: cfg,
		id:  id,
	}
}

// binding is one registration of a callback under one event name, or on the
// global channel when event is empty.
type binding struct {
	event  string
	fn     Listener
	global GlobalListener
	ident  uintptr
	once   bool
	owner  *Emitter

	removed atomic.Bool
	paused  atomic.Bool
}

// claim reports whether the binding should run in the current dispatch.
// A once binding can be claimed by exactly one dispatch.
func (b *binding) claim() bool {
	if b.paused.Load() {
		return false
	}
	if b.once {
		return b.removed.CompareAndSwap(false, true)
	}
	return !b.removed.Load()
}

// funcIdentity returns the code pointer used to match callbacks in Off.
// Closures created from the same function literal share an identity.
func funcIdentity(fn any) uintptr {
	return reflect.ValueOf(fn).Pointer()
}

// init lazily allocates the emitter state. Caller must hold e.mu.
func (e *Emitter) init() {
	if e.events == nil {
		e.events = make(map[string][]*binding)
	}
	if e.id == "" {
		e.id = uuid.New().String()
	}
}

// ID returns the unique identifier of this emitter.
func (e *Emitter) ID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.init()
	return e.id
}

// On registers fn for every whitespace-separated name in name.
// Empty names and nil listeners are ignored.
//
// Example:
//
//	e.On("user.created user.updated", func(args ...any) error {
//	    return index(args[0])
//	})
func (e *Emitter) On(name string, fn Listener) *Emitter {
	e.register(splitNames(name), fn, false)
	return e
}

// OnEach registers fn for every name in names.
func (e *Emitter) OnEach(names []string, fn Listener) *Emitter {
	e.register(expandNames(names), fn, false)
	return e
}

// Once registers fn like On, but each registration runs at most once.
// The registration is removed before fn runs, so fn may safely register
// the same name again.
func (e *Emitter) Once(name string, fn Listener) *Emitter {
	e.register(splitNames(name), fn, true)
	return e
}

// OnceEach registers fn like Once for every name in names.
func (e *Emitter) OnceEach(names []string, fn Listener) *Emitter {
	e.register(expandNames(names), fn, true)
	return e
}

func (e *Emitter) register(names []string, fn Listener, once bool) []*binding {
	if fn == nil || len(names) == 0 {
		return nil
	}
	ident := funcIdentity(fn)
	added := make([]*binding, 0, len(names))
	for _, name := range names {
		b := &binding{
			event: name,
			fn:    fn,
			ident: ident,
			once:  once,
			owner: e,
		}
		e.attach(b)
		added = append(added, b)
	}
	return added
}

// attach appends b to its list and warns once per name on overflow.
func (e *Emitter) attach(b *binding) {
	e.mu.Lock()
	e.init()
	var count int
	if b.event == "" {
		e.global = append(e.global, b)
		count = len(e.global)
	} else {
		e.events[b.event] = append(e.events[b.event], b)
		count = len(e.events[b.event])
	}
	leak := false
	if limit := e.cfg.maxListeners; limit > 0 && count > limit && !e.warned[b.event] {
		if e.warned == nil {
			e.warned = make(map[string]bool)
		}
		e.warned[b.event] = true
		leak = true
	}
	e.mu.Unlock()

	if leak {
		name := b.event
		if name == "" {
			name = "*"
		}
		observability.LogMaxListeners(e.cfg.logger, name, count, e.cfg.maxListeners)
	}
}

// detach removes b from its list. Lists are never modified in place so
// dispatch snapshots stay valid.
func (e *Emitter) detach(b *binding) {
	b.removed.Store(true)

	e.mu.Lock()
	defer e.mu.Unlock()

	if b.event == "" {
		e.global = without(e.global, func(x *binding) bool { return x == b })
		return
	}
	list, ok := e.events[b.event]
	if !ok {
		return
	}
	list = without(list, func(x *binding) bool { return x == b })
	if len(list) == 0 {
		delete(e.events, b.event)
		return
	}
	e.events[b.event] = list
}

// without returns a new slice holding the bindings of list that drop rejects.
// Rejected bindings are marked removed.
func without(list []*binding, drop func(*binding) bool) []*binding {
	out := make([]*binding, 0, len(list))
	for _, b := range list {
		if drop(b) {
			b.removed.Store(true)
			continue
		}
		out = append(out, b)
	}
	return out
}

// Off removes listeners.
//
// An empty name targets every registered event name; otherwise name fans
// out on whitespace like On. With no fns every listener of the targeted
// names is removed; with fns only the listeners whose callback matches one
// of fns are removed. Global listeners are not affected.
func (e *Emitter) Off(name string, fns ...Listener) *Emitter {
	if name == "" {
		e.off(nil, fns)
		return e
	}
	names := splitNames(name)
	if len(names) == 0 {
		return e
	}
	e.off(names, fns)
	return e
}

// OffEach removes listeners like Off for every name in names.
func (e *Emitter) OffEach(names []string, fns ...Listener) *Emitter {
	names = expandNames(names)
	if len(names) == 0 {
		return e
	}
	e.off(names, fns)
	return e
}

func (e *Emitter) off(names []string, fns []Listener) {
	idents := make(map[uintptr]bool, len(fns))
	for _, fn := range fns {
		if fn != nil {
			idents[funcIdentity(fn)] = true
		}
	}
	if len(fns) > 0 && len(idents) == 0 {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.events == nil {
		return
	}
	if names == nil {
		names = make([]string, 0, len(e.events))
		for n := range e.events {
			names = append(names, n)
		}
	}

	for _, n := range names {
		list, ok := e.events[n]
		if !ok {
			continue
		}
		if len(idents) == 0 {
			list = without(list, func(*binding) bool { return true })
		} else {
			list = without(list, func(b *binding) bool { return idents[b.ident] })
		}
		if len(list) == 0 {
			delete(e.events, n)
			continue
		}
		e.events[n] = list
	}
}

// Emit dispatches args to every listener registered under name, in
// registration order, then to every global listener with name prepended.
//
// The first listener error stops the dispatch; the remaining listeners,
// including global ones, do not run. The error is returned as a
// *ListenerError. Panics raised by listeners are not recovered.
func (e *Emitter) Emit(name string, args ...any) error {
	return e.EmitContext(context.Background(), name, args...)
}

// EmitContext is Emit with a context used for tracing and metrics.
// Listeners do not receive ctx; dispatch is never cancelled by it.
func (e *Emitter) EmitContext(ctx context.Context, name string, args ...any) (err error) {
	e.mu.Lock()
	if e.events == nil && e.global == nil {
		e.mu.Unlock()
		return nil
	}
	direct := e.events[name]
	global := e.global
	e.mu.Unlock()

	observability.LogEmit(e.cfg.logger, name, len(direct), len(global))

	metrics, spans := e.metrics(), e.spans()
	ctx, span := spans.StartEmitSpan(ctx, name, len(direct)+len(global))
	elapsed := observability.TimedOperation()
	defer func() {
		metrics.RecordEmit(ctx, name, len(direct)+len(global), elapsed(), err)
		spans.EndSpanWithError(span, err)
	}()

	for i, b := range direct {
		if !b.claim() {
			continue
		}
		if b.once {
			e.detach(b)
		}
		if ferr := b.fn(args...); ferr != nil {
			return e.fail(&ListenerError{Event: name, Index: i, Err: ferr})
		}
	}

	for i, b := range global {
		if !b.claim() {
			continue
		}
		if b.once {
			e.detach(b)
		}
		if ferr := b.global(name, args...); ferr != nil {
			return e.fail(&ListenerError{Event: name, Global: true, Index: i, Err: ferr})
		}
	}

	return nil
}

func (e *Emitter) fail(err *ListenerError) error {
	observability.LogListenerError(e.cfg.logger, err.Event, err.Err)
	return err
}

// ListenerCount returns the number of listeners registered under name.
func (e *Emitter) ListenerCount(name string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.events[name])
}

// EventNames returns the names that currently have listeners, sorted.
func (e *Emitter) EventNames() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	names := make([]string, 0, len(e.events))
	for n := range e.events {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (e *Emitter) metrics() observability.MetricsRecorder {
	if e.cfg.metrics == nil {
		return observability.NoopMetrics{}
	}
	return e.cfg.metrics
}

func (e *Emitter) spans() observability.SpanManager {
	if e.cfg.spans == nil {
		return observability.NoopSpanManager{}
	}
	return e.cfg.spans
}
