// Package observable provides a mutex-guarded value with subscribe/notify
// semantics. Screen state containers and the session provider embed it so
// presentation layers can re-render on change.
package observable

import "sync"

// Value holds a T and notifies subscribers after every accepted change.
// Subscribers run on the goroutine that made the change, after the internal
// lock has been released, so they may call Get.
type Value[T any] struct {
	mu   sync.Mutex
	v    T
	subs map[int]func(T)
	next int
}

// New returns a Value holding v.
func New[T any](v T) *Value[T] {
	return &Value[T]{v: v, subs: make(map[int]func(T))}
}

// Get returns the current value.
func (o *Value[T]) Get() T {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.v
}

// Set replaces the value and notifies subscribers.
func (o *Value[T]) Set(v T) {
	o.Update(func(T) (T, bool) { return v, true })
}

// Update applies fn to the current value under the lock. If fn reports a
// change, the returned value is stored and subscribers are notified with it.
// Update returns whether a change was applied.
func (o *Value[T]) Update(fn func(cur T) (T, bool)) bool {
	o.mu.Lock()
	next, changed := fn(o.v)
	if !changed {
		o.mu.Unlock()
		return false
	}
	o.v = next
	subs := make([]func(T), 0, len(o.subs))
	for _, s := range o.subs {
		subs = append(subs, s)
	}
	o.mu.Unlock()

	for _, s := range subs {
		s(next)
	}
	return true
}

// Subscribe registers fn to be called with each new value. The returned
// function removes the subscription; calling it more than once is safe.
func (o *Value[T]) Subscribe(fn func(T)) (cancel func()) {
	o.mu.Lock()
	id := o.next
	o.next++
	o.subs[id] = fn
	o.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			o.mu.Lock()
			delete(o.subs, id)
			o.mu.Unlock()
		})
	}
}
