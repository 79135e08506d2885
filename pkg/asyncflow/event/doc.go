// Package event provides a named-event emitter and join combinators.
//
// # Overview
//
// Producers and consumers communicate through event names instead of direct
// calls. An Emitter keeps, per event name, an ordered list of listeners and
// dispatches emissions to them synchronously:
//
//	e := event.New()
//	e.On("order.created", func(args ...any) error {
//	    return notify(args[0].(Order))
//	})
//	if err := e.Emit("order.created", order); err != nil {
//	    // a listener failed; later listeners did not run
//	}
//
// Registration names fan out on whitespace, so e.On("a b", fn) registers fn
// for "a" and for "b". OnEach, OnceEach and OffEach accept a list instead.
//
// # Global Channel
//
// Every emission is also delivered to the global listeners, after the
// direct ones, with the emitted name as first argument:
//
//	e.OnGlobalEvent(func(name string, args ...any) error {
//	    log.Printf("%s %v", name, args)
//	    return nil
//	})
//
// The global channel is a separate list, not a reserved event name, so no
// user event can collide with it.
//
// # Joins
//
// The combinators are built on On, Once and SubscribeAll only:
//
//   - All waits for every listed event once and reports their payloads in
//     listed order.
//   - Tail behaves like All, then keeps reporting the latest payloads on
//     every further emission of a listed event.
//   - After collects the first n payloads of one event.
//   - Any reports whichever listed event fires first.
//   - Not reports every event except one.
//
// Example replacing nested callbacks:
//
//	e.All([]string{"user", "settings"}, func(data ...any) error {
//	    return render(data[0].(User), data[1].(Settings))
//	})
//	go loadUser(func(u User) { e.Emit("user", u) })
//	go loadSettings(func(s Settings) { e.Emit("settings", s) })
//
// # Errors
//
// Misuse such as an empty name or a nil listener is ignored. A listener
// that returns an error stops the dispatch and the error comes back from
// Emit as a *ListenerError, which matches ErrListener under errors.Is.
// Panics are not recovered.
//
// # Removal
//
// Off matches callbacks by function identity, so closures created from the
// same function literal are indistinguishable. Subscribe and SubscribeAll
// return a Subscription that removes exactly its own registrations.
package event
