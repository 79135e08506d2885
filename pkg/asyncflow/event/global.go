package event

// OnGlobalEvent registers fn on the global channel. Global listeners run
// after the direct listeners of every emission and receive the emitted name
// as their first argument.
func (e *Emitter) OnGlobalEvent(fn GlobalListener) {
	e.SubscribeAll(fn)
}

// OffGlobalEvent removes global listeners whose callback matches one of fns,
// or every global listener when fns is empty.
func (e *Emitter) OffGlobalEvent(fns ...GlobalListener) {
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

	if len(idents) == 0 {
		e.global = without(e.global, func(*binding) bool { return true })
		return
	}
	e.global = without(e.global, func(b *binding) bool { return idents[b.ident] })
}

// SubscribeAll registers fn on the global channel and returns a handle to
// the registration. A nil fn yields a Subscription that does nothing.
func (e *Emitter) SubscribeAll(fn GlobalListener) Subscription {
	if fn == nil {
		return subscriptionSet(nil)
	}
	b := &binding{
		global: fn,
		ident:  funcIdentity(fn),
		owner:  e,
	}
	e.attach(b)
	return b
}
