package di

import (
	"time"

	"github.com/kbukum/inject/logger"
)

// ResolveHook observes every resolution, successful or not.
type ResolveHook func(key Key, duration time.Duration, err error)

// ConstructHook observes every constructor call.
type ConstructHook func(key Key, duration time.Duration, err error)

// InjectHook observes every injection attempt with the batch size.
type InjectHook func(count int, err error)

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger the registry writes to.
func WithLogger(l *logger.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.log = l
		}
	}
}

// WithResolveHook adds a hook called after each resolution.
func WithResolveHook(h ResolveHook) Option {
	return func(r *Registry) { r.onResolve = append(r.onResolve, h) }
}

// WithConstructHook adds a hook called after each constructor call.
func WithConstructHook(h ConstructHook) Option {
	return func(r *Registry) { r.onConstruct = append(r.onConstruct, h) }
}

// WithInjectHook adds a hook called after each injection attempt.
func WithInjectHook(h InjectHook) Option {
	return func(r *Registry) { r.onInject = append(r.onInject, h) }
}
