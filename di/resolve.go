package di

import "github.com/kbukum/inject/logger"

// Resolve returns the instance registered for T. It fails with
// ErrUnresolvedType when T was never registered and returns a constructor's
// error unchanged when construction fails.
//
// Example:
//
//	counter, err := di.Resolve[*Counter](registry)
//	if err != nil {
//	    return fmt.Errorf("counter: %w", err)
//	}
func Resolve[T any](r *Registry) (T, error) {
	instance, err := r.resolve(KeyOf[T]())
	if err != nil {
		var zero T
		return zero, err
	}
	// Entries under KeyOf[T] only ever hold a T; the assertion fails only
	// for a nil interface value, which resolves to the zero T.
	result, _ := instance.(T)
	return result, nil
}

// ResolveOptional is Resolve with every failure reported as absence.
//
// Example:
//
//	if metrics, ok := di.ResolveOptional[MetricsClient](registry); ok {
//	    metrics.RecordEvent(...)
//	}
func ResolveOptional[T any](r *Registry) (T, bool) {
	result, err := Resolve[T](r)
	if err != nil {
		var zero T
		return zero, false
	}
	return result, true
}

// MustResolve is Resolve that panics with *ResolutionPanic on failure.
func MustResolve[T any](r *Registry) T {
	result, err := Resolve[T](r)
	if err != nil {
		r.fail(KeyOf[T](), err)
	}
	return result
}

func (r *Registry) fail(key Key, err error) {
	r.log.Error("required dependency could not be resolved", logger.Fields(
		logger.FieldTypeKey, key.String(),
		logger.FieldError, err.Error(),
	))
	panic(&ResolutionPanic{Key: key, Err: err})
}
