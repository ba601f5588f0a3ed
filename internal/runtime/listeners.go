package runtime

// Listeners is an ordered list of callbacks with explicit removal.
// Removing a listener while Emit is running does not affect the current emission.
type Listeners[T any] struct {
	nextID  int
	entries []listenerEntry[T]
}

type listenerEntry[T any] struct {
	id int
	fn func(T)
}

// Add registers fn and returns a function that removes it. Calling the
// returned function more than once is harmless.
func (l *Listeners[T]) Add(fn func(T)) func() {
	if fn == nil {
		return func() {}
	}
	l.nextID++
	id := l.nextID
	l.entries = append(l.entries, listenerEntry[T]{id: id, fn: fn})
	return func() { l.remove(id) }
}

func (l *Listeners[T]) remove(id int) {
	kept := make([]listenerEntry[T], 0, len(l.entries))
	for _, e := range l.entries {
		if e.id != id {
			kept = append(kept, e)
		}
	}
	l.entries = kept
}

// Emit calls every registered listener in registration order.
func (l *Listeners[T]) Emit(v T) {
	for _, e := range l.entries {
		e.fn(v)
	}
}

// Len returns the number of registered listeners.
func (l *Listeners[T]) Len() int {
	return len(l.entries)
}
