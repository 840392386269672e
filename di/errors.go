package di

import (
	"fmt"

	"github.com/kbukum/inject/errors"
)

// Sentinels for errors.Is. They match any error of the same class regardless
// of the type key it carries.
var (
	ErrEmptyRegistration = errors.New(errors.ErrCodeEmptyRegistration, "no dependencies injected")
	ErrAlreadyInjected   = errors.New(errors.ErrCodeAlreadyInjected, "dependencies already injected")
	ErrDuplicateKey      = errors.New(errors.ErrCodeDuplicateKey, "duplicate dependency")
	ErrUnresolvedType    = errors.New(errors.ErrCodeUnresolvedType, "unresolved dependency")
)

// ResolutionPanic is the value Inject, LazyInject and MustResolve panic with
// when a dependency cannot be resolved.
type ResolutionPanic struct {
	Key Key
	Err error
}

func (p *ResolutionPanic) Error() string {
	return fmt.Sprintf("di: failed to resolve %s: %v", p.Key, p.Err)
}

func (p *ResolutionPanic) Unwrap() error { return p.Err }
