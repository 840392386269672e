package di

import "sync"

var (
	defaultMu       sync.Mutex
	defaultRegistry *Registry
)

// Default returns the process-wide registry, creating it on first use.
func Default() *Registry {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultRegistry == nil {
		defaultRegistry = New()
	}
	return defaultRegistry
}

// SetDefault replaces the process-wide registry. Call it before anything
// resolves from Default.
func SetDefault(r *Registry) {
	defaultMu.Lock()
	defaultRegistry = r
	defaultMu.Unlock()
}

// ResetDefault discards the process-wide registry so the next Default call
// creates a fresh one. Meant for tests.
func ResetDefault() {
	SetDefault(nil)
}

// Register injects descriptors into the process-wide registry.
func Register(descriptors ...Descriptor) error {
	return Default().Inject(descriptors...)
}
