// Package di provides a type-keyed dependency injection registry.
//
// Dependencies are described once, grouped into modules and injected into a
// Registry in a single call. They are resolved later by type, either directly
// or through the eager, lazy and optional accessors.
//
// # Registration
//
//	storage := di.Module(
//	    di.Singleton(NewDatabase),
//	    di.Factory(di.Func(NewRequestLog)),
//	)
//	if err := registry.Inject(di.Module(storage, di.EagerSingleton(NewConfig))...); err != nil {
//	    return err
//	}
//
// A registry accepts exactly one injection. Empty batches, a second batch and
// duplicate type keys are rejected without changing the registry.
//
// # Resolution
//
//	db, err := di.Resolve[*Database](registry)
//	cache, ok := di.ResolveOptional[Cache](registry)
//
// Factories run on every resolution. Singletons run at most once per registry,
// even when many goroutines resolve the same type for the first time.
// Constructor errors are returned to the caller unchanged.
//
// # Accessors
//
// Inject resolves when it is constructed, LazyInject on first Value call and
// OptionalInject on first Value call without ever failing. Inject and
// LazyInject panic with *ResolutionPanic when resolution fails: every
// dependency they need must be injected, and its constructor must succeed,
// before they are used. Use OptionalInject when a dependency may be absent.
package di
