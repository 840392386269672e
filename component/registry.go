package component

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"
	"time"

	"github.com/kbukum/inject/logger"
)

// StopTimeout bounds each component's Stop call.
const StopTimeout = 10 * time.Second

// Registry starts components in registration order and stops the started
// ones in reverse.
type Registry struct {
	mu         sync.RWMutex
	components []Component
	byName     map[string]Component
	started    []Component // stack; the last started is stopped first
}

// NewRegistry creates an empty component registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]Component)}
}

func (r *Registry) log() *logger.Logger { return logger.Get("component") }

// Register adds c. Names are unique; register dependencies first.
func (r *Registry) Register(c Component) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := c.Name()
	if _, exists := r.byName[name]; exists {
		return fmt.Errorf("component %s already registered", name)
	}
	r.components = append(r.components, c)
	r.byName[name] = c

	r.log().Debug("component registered", logger.Fields(logger.FieldComponent, name))
	return nil
}

// StartAll starts every component not yet started. It stops at the first
// failure; components started before it stay started until StopAll.
func (r *Registry) StartAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.components[len(r.started):] {
		name := c.Name()
		begin := time.Now()
		if err := c.Start(ctx); err != nil {
			r.log().Error("component start failed", logger.MergeWithError(
				logger.Fields(logger.FieldComponent, name), err))
			return fmt.Errorf("failed to start %s: %w", name, err)
		}
		r.started = append(r.started, c)

		fields := logger.Fields(
			logger.FieldComponent, name,
			logger.FieldDuration, time.Since(begin).Milliseconds(),
		)
		if d, ok := c.(Describable); ok {
			desc := d.Describe()
			fields["type"] = desc.Type
			fields["details"] = desc.Details
		}
		r.log().Info("component started", fields)
	}
	return nil
}

// StopAll stops the started components, most recent first, giving each
// StopTimeout. Every component is stopped even if an earlier one fails.
func (r *Registry) StopAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for len(r.started) > 0 {
		c := r.started[len(r.started)-1]
		r.started = r.started[:len(r.started)-1]

		if err := r.stop(ctx, c); err != nil {
			errs = append(errs, err)
		}
	}
	return stderrors.Join(errs...)
}

func (r *Registry) stop(ctx context.Context, c Component) error {
	ctx, cancel := context.WithTimeout(ctx, StopTimeout)
	defer cancel()

	name := c.Name()
	if err := c.Stop(ctx); err != nil {
		r.log().Error("component stop failed", logger.MergeWithError(
			logger.Fields(logger.FieldComponent, name), err))
		return fmt.Errorf("failed to stop %s: %w", name, err)
	}
	r.log().Info("component stopped", logger.Fields(logger.FieldComponent, name))
	return nil
}

// HealthAll returns the health of every registered component in
// registration order.
func (r *Registry) HealthAll(ctx context.Context) []Health {
	r.mu.RLock()
	defer r.mu.RUnlock()

	results := make([]Health, 0, len(r.components))
	for _, c := range r.components {
		results = append(results, c.Health(ctx))
	}
	return results
}

// Get returns the component registered under name, or nil.
func (r *Registry) Get(name string) Component {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byName[name]
}
