package di

import (
	stderrors "errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/inject/errors"
	"github.com/kbukum/inject/logger"
)

// RegistrationInfo describes a registered descriptor for introspection.
type RegistrationInfo struct {
	Key         string   `json:"key"`
	Lifetime    Lifetime `json:"lifetime"`
	Initialized bool     `json:"initialized"`
}

// entry holds a committed descriptor and, for singletons, its instance.
// mu is held across the cache check, the constructor call and the cache write.
type entry struct {
	desc        Descriptor
	gen         uint64
	mu          sync.Mutex
	instance    any
	initialized atomic.Bool
}

// Registry maps type keys to descriptors and caches singleton instances.
// The zero value is not usable; call New.
type Registry struct {
	id      string
	mu      sync.RWMutex
	entries map[Key]*entry
	pending map[Key]*entry // batch whose eager singletons are being built

	builtMu sync.Mutex
	built   []*entry // singletons in construction order
	gen     uint64   // bumped whenever built is discarded

	log         *logger.Logger
	onResolve   []ResolveHook
	onConstruct []ConstructHook
	onInject    []InjectHook
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		id:      uuid.NewString(),
		entries: make(map[Key]*entry),
		log:     logger.Get("di"),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.log = r.log.WithFields(logger.Fields(logger.FieldRegistryID, r.id))
	return r
}

// ID returns the identifier attached to the registry's logs and metrics.
func (r *Registry) ID() string { return r.id }

// Inject commits a batch of descriptors. It succeeds at most once per
// registry: an empty batch, a second batch or a repeated type key is rejected
// and nothing from the batch is stored.
//
// Eager singletons are built in batch order before the commit. While they
// are built their constructors may resolve anything in the batch; if one of
// them fails or panics, the singletons built so far are closed and the batch
// is discarded.
func (r *Registry) Inject(descriptors ...Descriptor) error {
	err := r.inject(descriptors)
	for _, h := range r.onInject {
		h(len(descriptors), err)
	}
	return err
}

func (r *Registry) inject(descriptors []Descriptor) error {
	batch, gen, err := r.begin(descriptors)
	if err != nil {
		return err
	}

	committed := false
	defer func() {
		if !committed {
			r.rollback(gen)
		}
	}()

	for _, d := range descriptors {
		if d.lifetime != LifetimeEagerSingleton {
			continue
		}
		if _, err := r.resolveEntry(batch[d.key]); err != nil {
			r.log.Error("eager singleton failed, injection rolled back", logger.Fields(
				logger.FieldTypeKey, d.key.String(),
				logger.FieldError, err.Error(),
			))
			return err
		}
	}

	if !r.commit(batch, gen) {
		return errors.New(errors.ErrCodeInternal, "registry was reset during injection")
	}
	committed = true
	r.log.Info("dependencies injected", logger.Fields(logger.FieldCount, len(descriptors)))
	return nil
}

// begin validates a batch and publishes it as pending.
func (r *Registry) begin(descriptors []Descriptor) (map[Key]*entry, uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(descriptors) == 0 {
		return nil, 0, errors.EmptyRegistration()
	}
	if len(r.entries) > 0 || r.pending != nil {
		return nil, 0, errors.AlreadyInjected()
	}

	gen := r.generation()
	batch := make(map[Key]*entry, len(descriptors))
	for _, d := range descriptors {
		if d.build == nil || d.key.IsZero() {
			return nil, 0, errors.New(errors.ErrCodeInternal, "descriptor was not built by Factory, Singleton or EagerSingleton")
		}
		if _, exists := batch[d.key]; exists {
			return nil, 0, errors.DuplicateKey(d.key.String())
		}
		batch[d.key] = &entry{desc: d, gen: gen}
	}
	r.pending = batch
	return batch, gen, nil
}

// commit moves the pending batch into place unless the registry was reset or
// closed meanwhile.
func (r *Registry) commit(batch map[Key]*entry, gen uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.generation() != gen {
		return false
	}
	r.entries = batch
	r.pending = nil
	return true
}

// rollback closes whatever the pending batch built and discards it.
func (r *Registry) rollback(gen uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.generation() != gen {
		return
	}
	r.pending = nil
	if err := r.closeBuilt(); err != nil {
		r.log.Warn("closing discarded singletons failed", logger.ErrorFields("inject", err))
	}
}

// resolve returns the instance for key, building it if the lifetime requires.
func (r *Registry) resolve(key Key) (any, error) {
	start := time.Now()

	r.mu.RLock()
	e, exists := r.entries[key]
	if !exists && r.pending != nil {
		e, exists = r.pending[key]
	}
	r.mu.RUnlock()

	var (
		v   any
		err error
	)
	if !exists {
		err = errors.UnresolvedType(key.String())
		r.log.Debug("dependency not registered", logger.Fields(logger.FieldTypeKey, key.String()))
	} else {
		v, err = r.resolveEntry(e)
	}

	for _, h := range r.onResolve {
		h(key, time.Since(start), err)
	}
	return v, err
}

func (r *Registry) resolveEntry(e *entry) (any, error) {
	if !e.desc.IsSingleton() {
		return r.construct(e.desc)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.initialized.Load() {
		return e.instance, nil
	}

	v, err := r.construct(e.desc)
	if err != nil {
		return nil, err
	}
	r.store(e, v)
	return v, nil
}

// construct runs a descriptor's constructor. Errors are returned unchanged.
func (r *Registry) construct(d Descriptor) (any, error) {
	start := time.Now()
	v, err := d.build()
	elapsed := time.Since(start)

	fields := logger.Fields(
		logger.FieldTypeKey, d.key.String(),
		logger.FieldLifetime, d.lifetime.String(),
		logger.FieldDuration, elapsed.Milliseconds(),
	)
	if err != nil {
		r.log.Debug("dependency construction failed", logger.MergeWithError(fields, err))
	} else {
		r.log.Debug("dependency constructed", fields)
	}

	for _, h := range r.onConstruct {
		h(d.key, elapsed, err)
	}
	return v, err
}

// store caches v on e. Instances from a discarded generation are cached on
// their stale entry but are not tracked for Close.
func (r *Registry) store(e *entry, v any) {
	e.instance = v
	e.initialized.Store(true)

	r.builtMu.Lock()
	defer r.builtMu.Unlock()
	if e.gen != r.gen {
		return
	}
	r.built = append(r.built, e)
}

func (r *Registry) generation() uint64 {
	r.builtMu.Lock()
	defer r.builtMu.Unlock()
	return r.gen
}

// discardBuilt forgets the tracked singletons and starts a new generation.
func (r *Registry) discardBuilt() []*entry {
	r.builtMu.Lock()
	defer r.builtMu.Unlock()
	built := r.built
	r.built = nil
	r.gen++
	return built
}

// Injected reports whether a batch has been committed.
func (r *Registry) Injected() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries) > 0
}

// Has reports whether a descriptor is registered for key.
func (r *Registry) Has(key Key) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.entries[key]
	return exists
}

// Len returns the number of registered descriptors.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Registrations returns every registered descriptor sorted by key.
func (r *Registry) Registrations() []RegistrationInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]RegistrationInfo, 0, len(r.entries))
	for key, e := range r.entries {
		result = append(result, RegistrationInfo{
			Key:         key.String(),
			Lifetime:    e.desc.lifetime,
			Initialized: e.initialized.Load(),
		})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Key < result[j].Key })
	return result
}

// Reset forgets every descriptor and cached instance without closing them,
// leaving the registry ready for a new injection.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = make(map[Key]*entry)
	r.pending = nil
	r.discardBuilt()
}

// Close closes cached singletons implementing io.Closer in reverse
// construction order, then resets the registry.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	err := r.closeBuilt()
	r.entries = make(map[Key]*entry)
	r.pending = nil
	if err != nil {
		r.log.Warn("registry closed with errors", logger.ErrorFields("close", err))
		return err
	}
	r.log.Debug("registry closed")
	return nil
}

// closeBuilt closes and forgets built singletons. Callers hold r.mu.
func (r *Registry) closeBuilt() error {
	built := r.discardBuilt()

	var errs []error
	for i := len(built) - 1; i >= 0; i-- {
		closer, ok := built[i].instance.(io.Closer)
		if !ok {
			continue
		}
		if err := closer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", built[i].desc.key, err))
		}
	}
	return stderrors.Join(errs...)
}
