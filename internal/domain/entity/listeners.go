package entity

// Subscription is returned by event sources; Unsubscribe stops delivery.
type Subscription interface {
	Unsubscribe()
}

// SubscriptionFunc adapts a plain function to Subscription
type SubscriptionFunc func()

// Unsubscribe calls f
func (f SubscriptionFunc) Unsubscribe() { f() }

type listener[T any] struct {
	id int
	fn func(T)
}

// Listeners fans an event out to subscribers in subscription order.
// It is not safe for concurrent use; all calls come from the update loop.
type Listeners[T any] struct {
	next int
	subs []listener[T]
}

// Add registers fn and returns its subscription
func (l *Listeners[T]) Add(fn func(T)) Subscription {
	l.next++
	id := l.next
	l.subs = append(l.subs, listener[T]{id: id, fn: fn})

	return SubscriptionFunc(func() { l.remove(id) })
}

func (l *Listeners[T]) remove(id int) {
	for i, s := range l.subs {
		if s.id == id {
			l.subs = append(l.subs[:i:i], l.subs[i+1:]...)
			return
		}
	}
}

// Emit delivers ev to a snapshot of the current subscribers, so handlers
// may unsubscribe while being called.
func (l *Listeners[T]) Emit(ev T) {
	snapshot := l.subs
	for _, s := range snapshot {
		s.fn(ev)
	}
}

// Len returns the number of subscribers
func (l *Listeners[T]) Len() int {
	return len(l.subs)
}

// Clear drops every subscriber
func (l *Listeners[T]) Clear() {
	l.subs = nil
}
