// Package ditest provides helpers for tests that build or use a di.Registry.
package ditest

import (
	stderrors "errors"

	"github.com/kbukum/inject/di"
	"github.com/kbukum/inject/logger"
)

// TB is the subset of testing.TB the helpers need.
type TB interface {
	Helper()
	Fatal(args ...any)
	Fatalf(format string, args ...any)
	Cleanup(f func())
}

// New returns an isolated registry with descriptors injected. The registry
// is closed when the test ends. With no descriptors the registry is returned
// empty so the test can inject itself.
func New(tb TB, descriptors ...di.Descriptor) *di.Registry {
	tb.Helper()

	r := di.New(di.WithLogger(logger.Nop()))
	if len(descriptors) > 0 {
		if err := r.Inject(descriptors...); err != nil {
			tb.Fatalf("failed to inject %d descriptors: %v", len(descriptors), err)
		}
	}

	tb.Cleanup(func() {
		if err := r.Close(); err != nil {
			tb.Fatalf("failed to close registry: %v", err)
		}
	})
	return r
}

// UseDefault installs a fresh process-wide registry for the test and
// restores the previous one afterwards.
func UseDefault(tb TB) *di.Registry {
	tb.Helper()

	previous := di.Default()
	r := di.New(di.WithLogger(logger.Nop()))
	di.SetDefault(r)
	tb.Cleanup(func() { di.SetDefault(previous) })
	return r
}

// RequireResolve resolves T or fails the test.
func RequireResolve[T any](tb TB, r *di.Registry) T {
	tb.Helper()

	v, err := di.Resolve[T](r)
	if err != nil {
		tb.Fatalf("failed to resolve %s: %v", di.KeyOf[T](), err)
	}
	return v
}

// RequireUnresolved fails the test unless resolving T reports an
// unregistered type.
func RequireUnresolved[T any](tb TB, r *di.Registry) {
	tb.Helper()

	_, err := di.Resolve[T](r)
	if !stderrors.Is(err, di.ErrUnresolvedType) {
		tb.Fatalf("expected %s to be unresolved, got %v", di.KeyOf[T](), err)
	}
}

// ExpectPanic runs fn and returns the *di.ResolutionPanic it raised. The
// test fails if fn returns normally or panics with anything else.
func ExpectPanic(tb TB, fn func()) (p *di.ResolutionPanic) {
	tb.Helper()

	defer func() {
		r := recover()
		if r == nil {
			tb.Fatal("expected a resolution panic")
			return
		}
		rp, ok := r.(*di.ResolutionPanic)
		if !ok {
			tb.Fatalf("expected *di.ResolutionPanic, got %T: %v", r, r)
			return
		}
		p = rp
	}()
	fn()
	return nil
}
