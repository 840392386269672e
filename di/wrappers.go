package di

import "sync"

// Inject holds a dependency resolved when the accessor was created.
//
// NewInject panics with *ResolutionPanic if T cannot be resolved, whether it
// is unregistered or its constructor fails. Inject everything before building
// values that use it.
type Inject[T any] struct {
	value T
}

// NewInject resolves T from r immediately.
func NewInject[T any](r *Registry) Inject[T] {
	return Inject[T]{value: MustResolve[T](r)}
}

// Value returns the resolved dependency.
func (i Inject[T]) Value() T { return i.value }

// LazyInject resolves a dependency on first use and keeps it afterwards.
//
// Value panics with *ResolutionPanic if T cannot be resolved. A failed
// attempt leaves the accessor unresolved.
type LazyInject[T any] struct {
	mu       sync.Mutex
	resolver func() T
	value    T
	resolved bool
}

// NewLazyInject returns an accessor that resolves T from r on first use.
func NewLazyInject[T any](r *Registry) *LazyInject[T] {
	return &LazyInject[T]{
		resolver: func() T { return MustResolve[T](r) },
	}
}

// Value returns the dependency, resolving it on the first call.
func (l *LazyInject[T]) Value() T {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.resolved {
		return l.value
	}
	l.value = l.resolver()
	l.resolved = true
	l.resolver = nil
	return l.value
}

// Resolved reports whether Value has succeeded once.
func (l *LazyInject[T]) Resolved() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.resolved
}

// OptionalInject resolves a dependency on first use, treating any failure as
// absence. The first outcome, present or absent, is kept.
type OptionalInject[T any] struct {
	mu       sync.Mutex
	resolver func() (T, bool)
	value    T
	present  bool
	resolved bool
}

// NewOptionalInject returns an accessor that resolves T from r on first use.
func NewOptionalInject[T any](r *Registry) *OptionalInject[T] {
	return &OptionalInject[T]{
		resolver: func() (T, bool) { return ResolveOptional[T](r) },
	}
}

// Value returns the dependency and whether it was available.
func (o *OptionalInject[T]) Value() (T, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.resolved {
		o.value, o.present = o.resolver()
		o.resolved = true
		o.resolver = nil
	}
	return o.value, o.present
}

// Resolved reports whether Value has been called.
func (o *OptionalInject[T]) Resolved() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.resolved
}
