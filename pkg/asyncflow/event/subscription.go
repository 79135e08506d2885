package event

// Subscription represents an active registration.
type Subscription interface {
	// Unsubscribe removes the registration. Calling it again is a no-op.
	Unsubscribe()

	// Pause temporarily stops delivery.
	Pause()

	// Resume continues delivery after pause.
	Resume()

	// IsPaused returns true if the subscription is paused.
	IsPaused() bool
}

var _ Subscription = (*binding)(nil)

// Unsubscribe removes the binding from its emitter.
func (b *binding) Unsubscribe() {
	b.owner.detach(b)
}

// Pause temporarily stops delivery.
func (b *binding) Pause() {
	b.paused.Store(true)
}

// Resume continues delivery after pause.
func (b *binding) Resume() {
	b.paused.Store(false)
}

// IsPaused returns true if the subscription is paused.
func (b *binding) IsPaused() bool {
	return b.paused.Load()
}

// subscriptionSet groups the registrations made by one call.
type subscriptionSet []Subscription

func (s subscriptionSet) Unsubscribe() {
	for _, sub := range s {
		sub.Unsubscribe()
	}
}

func (s subscriptionSet) Pause() {
	for _, sub := range s {
		sub.Pause()
	}
}

func (s subscriptionSet) Resume() {
	for _, sub := range s {
		sub.Resume()
	}
}

// IsPaused reports true only when every member is paused.
func (s subscriptionSet) IsPaused() bool {
	if len(s) == 0 {
		return false
	}
	for _, sub := range s {
		if !sub.IsPaused() {
			return false
		}
	}
	return true
}

// Subscribe registers fn like On and returns a handle to the registrations.
// Unlike Off, the handle removes exactly these registrations even when the
// same closure is registered elsewhere.
//
// Example:
//
//	sub := e.Subscribe("job.done", onDone)
//	defer sub.Unsubscribe()
func (e *Emitter) Subscribe(name string, fn Listener) Subscription {
	bindings := e.register(splitNames(name), fn, false)
	if len(bindings) == 1 {
		return bindings[0]
	}
	set := make(subscriptionSet, 0, len(bindings))
	for _, b := range bindings {
		set = append(set, b)
	}
	return set
}
