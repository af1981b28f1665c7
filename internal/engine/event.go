package engine

type listener[T any] struct {
	id int
	fn func(T)
}

// EventWithArg is a multi-cast event with one argument. Listeners are
// identified by the handle returned from AddListener, since funcs cannot
// be compared in Go.
type EventWithArg[T any] struct {
	listeners []listener[T]
	nextID    int
}

// AddListener adds a callback and returns a handle for RemoveListener.
func (e *EventWithArg[T]) AddListener(callback func(T)) int {
	if callback == nil {
		return 0
	}
	e.nextID++
	e.listeners = append(e.listeners, listener[T]{id: e.nextID, fn: callback})
	return e.nextID
}

func (e *EventWithArg[T]) RemoveListener(handle int) {
	for i, l := range e.listeners {
		if l.id == handle {
			e.listeners = append(e.listeners[:i], e.listeners[i+1:]...)
			return
		}
	}
}

// Invoke calls the listeners registered at the time of the call. Listeners
// may add or remove listeners while running.
func (e *EventWithArg[T]) Invoke(arg T) {
	for _, l := range append([]listener[T](nil), e.listeners...) {
		l.fn(arg)
	}
}
