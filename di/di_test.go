package di

import (
	stderrors "errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kbukum/inject/errors"
	"github.com/kbukum/inject/logger"
)

type Counter struct{ n int }

type Widget struct{ id int }

type Greeter interface{ Greet() string }

type english struct{}

func (english) Greet() string { return "hello" }

var errBoom = fmt.Errorf("boom")

func newTestRegistry(opts ...Option) *Registry {
	return New(append([]Option{WithLogger(logger.Nop())}, opts...)...)
}

func mustInject(t *testing.T, r *Registry, descriptors ...Descriptor) {
	t.Helper()
	if err := r.Inject(descriptors...); err != nil {
		t.Fatalf("Inject failed: %v", err)
	}
}

func TestKeyOf(t *testing.T) {
	if KeyOf[*Counter]() != KeyOf[*Counter]() {
		t.Error("expected keys for the same type to be equal")
	}
	if KeyOf[*Counter]() == KeyOf[Counter]() {
		t.Error("expected pointer and value keys to differ")
	}
	if got := KeyOf[*Counter]().String(); got != "*di.Counter" {
		t.Errorf("expected '*di.Counter', got %q", got)
	}
	if got := KeyOf[Greeter]().String(); got != "di.Greeter" {
		t.Errorf("expected interface key 'di.Greeter', got %q", got)
	}
	if !(Key{}).IsZero() || (Key{}).String() != "<nil>" {
		t.Error("expected zero key to report IsZero and '<nil>'")
	}
}

func TestDescriptorConstructors(t *testing.T) {
	tests := []struct {
		name      string
		got       []Descriptor
		lifetime  Lifetime
		singleton bool
	}{
		{"factory", Factory(Func(func() *Widget { return &Widget{} })), LifetimeFactory, false},
		{"singleton", Singleton(Func(func() *Widget { return &Widget{} })), LifetimeSingleton, true},
		{"eager singleton", EagerSingleton(Func(func() *Widget { return &Widget{} })), LifetimeEagerSingleton, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if len(tc.got) != 1 {
				t.Fatalf("expected one descriptor, got %d", len(tc.got))
			}
			d := tc.got[0]
			if d.Key() != KeyOf[*Widget]() {
				t.Errorf("expected key *di.Widget, got %s", d.Key())
			}
			if d.Lifetime() != tc.lifetime {
				t.Errorf("expected lifetime %s, got %s", tc.lifetime, d.Lifetime())
			}
			if d.IsSingleton() != tc.singleton {
				t.Errorf("expected IsSingleton %v", tc.singleton)
			}
		})
	}
}

func TestModuleFlattensInOrder(t *testing.T) {
	inner := Module(
		Singleton(Func(func() *Counter { return &Counter{} })),
		Factory(Func(func() *Widget { return &Widget{} })),
	)
	all := Module(inner, Module(), Singleton(Value("text")))

	want := []string{"*di.Counter", "*di.Widget", "string"}
	if len(all) != len(want) {
		t.Fatalf("expected %d descriptors, got %d", len(want), len(all))
	}
	for i, d := range all {
		if d.Key().String() != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], d.Key())
		}
	}
	if len(Module()) != 0 {
		t.Error("expected empty module to be empty")
	}
}

func TestInjectEmpty(t *testing.T) {
	r := newTestRegistry()

	err := r.Inject()
	if !stderrors.Is(err, ErrEmptyRegistration) {
		t.Fatalf("expected EMPTY_REGISTRATION, got %v", err)
	}
	if r.Injected() {
		t.Error("expected registry to stay empty")
	}

	if err := r.Inject(Singleton(Func(func() *Counter { return &Counter{} }))...); err != nil {
		t.Fatalf("expected second injection to succeed, got %v", err)
	}
}

func TestInjectTwice(t *testing.T) {
	r := newTestRegistry()
	if err := r.Inject(Singleton(Func(func() *Counter { return &Counter{} }))...); err != nil {
		t.Fatalf("Inject failed: %v", err)
	}

	err := r.Inject(Factory(Func(func() *Widget { return &Widget{} }))...)
	if !stderrors.Is(err, ErrAlreadyInjected) {
		t.Fatalf("expected ALREADY_INJECTED, got %v", err)
	}
	if !r.Has(KeyOf[*Counter]()) {
		t.Error("expected first registration to remain")
	}
	if r.Has(KeyOf[*Widget]()) {
		t.Error("expected second batch to be rejected entirely")
	}
}

func TestInjectDuplicateCommitsNothing(t *testing.T) {
	r := newTestRegistry()
	err := r.Inject(Module(
		Factory(Func(func() *Widget { return &Widget{} })),
		Singleton(Func(func() *Counter { return &Counter{} })),
		Factory(Func(func() *Counter { return &Counter{} })),
	)...)

	if !stderrors.Is(err, ErrDuplicateKey) {
		t.Fatalf("expected DUPLICATE_KEY, got %v", err)
	}
	appErr, ok := errors.AsAppError(err)
	if !ok || appErr.Details["key"] != "*di.Counter" {
		t.Errorf("expected key detail *di.Counter, got %v", err)
	}
	if r.Len() != 0 {
		t.Errorf("expected nothing committed, got %d", r.Len())
	}
	if _, err := Resolve[*Widget](r); !stderrors.Is(err, ErrUnresolvedType) {
		t.Errorf("expected UNRESOLVED_TYPE after failed batch, got %v", err)
	}
}

func TestInjectRejectsZeroDescriptor(t *testing.T) {
	r := newTestRegistry()
	err := r.Inject(Descriptor{})
	if !errors.IsCode(err, errors.ErrCodeInternal) {
		t.Errorf("expected INTERNAL_ERROR, got %v", err)
	}
}

func TestResolveLifetimes(t *testing.T) {
	r := newTestRegistry()
	next := 0
	err := r.Inject(Module(
		Singleton(Func(func() *Counter { return &Counter{} })),
		Factory(Func(func() *Widget { next++; return &Widget{id: next} })),
	)...)
	if err != nil {
		t.Fatalf("Inject failed: %v", err)
	}

	c1, err := Resolve[*Counter](r)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	c2, _ := Resolve[*Counter](r)
	if c1 != c2 {
		t.Error("expected singleton to return the same instance")
	}

	w1, err := Resolve[*Widget](r)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	w2, _ := Resolve[*Widget](r)
	if w1 == w2 {
		t.Error("expected factory to return distinct instances")
	}
	if w1.id != 1 || w2.id != 2 {
		t.Errorf("expected ids 1 and 2, got %d and %d", w1.id, w2.id)
	}
}

func TestResolveUnregistered(t *testing.T) {
	r := newTestRegistry()
	mustInject(t, r, Singleton(Func(func() *Counter { return &Counter{} }))...)

	_, err := Resolve[*Widget](r)
	if !stderrors.Is(err, ErrUnresolvedType) {
		t.Fatalf("expected UNRESOLVED_TYPE, got %v", err)
	}
	if !strings.Contains(err.Error(), "*di.Widget") {
		t.Errorf("expected type name in error, got %q", err.Error())
	}

	w, ok := ResolveOptional[*Widget](r)
	if ok || w != nil {
		t.Errorf("expected absent result, got %v, %v", w, ok)
	}
}

func TestResolveInterfaceKey(t *testing.T) {
	r := newTestRegistry()
	mustInject(t, r, Module(
		Singleton(func() (Greeter, error) { return english{}, nil }),
		Factory(func() (fmt.Stringer, error) { return nil, nil }),
	)...)

	g, err := Resolve[Greeter](r)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if g.Greet() != "hello" {
		t.Errorf("expected 'hello', got %q", g.Greet())
	}

	s, err := Resolve[fmt.Stringer](r)
	if err != nil || s != nil {
		t.Errorf("expected nil interface without error, got %v, %v", s, err)
	}
}

func TestConstructorErrorPropagatesUnchanged(t *testing.T) {
	r := newTestRegistry()
	mustInject(t, r, Module(
		Factory(func() (*Widget, error) { return nil, errBoom }),
		Singleton(func() (*Counter, error) { return nil, errBoom }),
	)...)

	if _, err := Resolve[*Widget](r); err != errBoom {
		t.Errorf("expected factory error unchanged, got %v", err)
	}
	if _, err := Resolve[*Counter](r); err != errBoom {
		t.Errorf("expected singleton error unchanged, got %v", err)
	}
	if _, ok := ResolveOptional[*Counter](r); ok {
		t.Error("expected optional resolve to report absence")
	}
}

func TestSingletonFailureIsRetried(t *testing.T) {
	r := newTestRegistry()
	calls := 0
	mustInject(t, r, Singleton(func() (*Counter, error) {
		calls++
		if calls == 1 {
			return nil, errBoom
		}
		return &Counter{n: calls}, nil
	})...)

	if _, err := Resolve[*Counter](r); err != errBoom {
		t.Fatalf("expected first attempt to fail, got %v", err)
	}
	c, err := Resolve[*Counter](r)
	if err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	again, _ := Resolve[*Counter](r)
	if c != again || calls != 2 {
		t.Errorf("expected cached instance after success, calls=%d", calls)
	}
}

func TestSingletonConcurrentFirstResolve(t *testing.T) {
	r := newTestRegistry()
	var calls atomic.Int32
	err := r.Inject(Singleton(Func(func() *Counter {
		calls.Add(1)
		time.Sleep(10 * time.Millisecond)
		return &Counter{}
	}))...)
	if err != nil {
		t.Fatalf("Inject failed: %v", err)
	}

	const n = 64
	results := make([]*Counter, n)
	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			c, err := Resolve[*Counter](r)
			if err != nil {
				t.Errorf("Resolve failed: %v", err)
			}
			results[i] = c
		}(i)
	}
	close(start)
	wg.Wait()

	if got := calls.Load(); got != 1 {
		t.Errorf("expected constructor to run once, ran %d times", got)
	}
	for i := 1; i < n; i++ {
		if results[i] != results[0] {
			t.Fatalf("goroutine %d observed a different instance", i)
		}
	}
}

func TestConstructorMayResolveOtherTypes(t *testing.T) {
	r := newTestRegistry()
	err := r.Inject(Module(
		Singleton(func() (*Widget, error) {
			c, err := Resolve[*Counter](r)
			if err != nil {
				return nil, err
			}
			return &Widget{id: c.n}, nil
		}),
		Singleton(Func(func() *Counter { return &Counter{n: 7} })),
	)...)
	if err != nil {
		t.Fatalf("Inject failed: %v", err)
	}

	w, err := Resolve[*Widget](r)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if w.id != 7 {
		t.Errorf("expected nested resolution to supply 7, got %d", w.id)
	}
}

func TestEagerSingletonBuiltDuringInject(t *testing.T) {
	r := newTestRegistry()
	calls := 0
	err := r.Inject(EagerSingleton(Func(func() *Counter { calls++; return &Counter{} }))...)
	if err != nil {
		t.Fatalf("Inject failed: %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected constructor to run during Inject, ran %d times", calls)
	}

	c1, _ := Resolve[*Counter](r)
	c2, _ := Resolve[*Counter](r)
	if c1 != c2 || calls != 1 {
		t.Errorf("expected cached eager instance, calls=%d", calls)
	}
}

type closeable struct {
	name   string
	closed *[]string
	err    error
}

func (c *closeable) Close() error {
	*c.closed = append(*c.closed, c.name)
	return c.err
}

type otherCloser struct{ closeable }

func TestEagerSingletonFailureRollsBack(t *testing.T) {
	r := newTestRegistry()
	var closed []string
	err := r.Inject(Module(
		EagerSingleton(Func(func() *closeable { return &closeable{name: "first", closed: &closed} })),
		EagerSingleton(func() (*Counter, error) { return nil, errBoom }),
	)...)

	if err != errBoom {
		t.Fatalf("expected constructor error unchanged, got %v", err)
	}
	if r.Injected() {
		t.Error("expected nothing committed")
	}
	if strings.Join(closed, ",") != "first" {
		t.Errorf("expected already built eager singleton to be closed, got %v", closed)
	}
	if err := r.Inject(Singleton(Func(func() *Counter { return &Counter{} }))...); err != nil {
		t.Errorf("expected registry to accept a new batch, got %v", err)
	}
}

func TestEagerSingletonMayResolveBatch(t *testing.T) {
	r := newTestRegistry()
	var nestedInject error
	done := make(chan error, 1)
	go func() {
		done <- r.Inject(Module(
			Singleton(Func(func() *Counter { return &Counter{n: 3} })),
			EagerSingleton(func() (*Widget, error) {
				nestedInject = r.Inject(Factory(Func(func() string { return "late" }))...)
				c, err := Resolve[*Counter](r)
				if err != nil {
					return nil, err
				}
				return &Widget{id: c.n}, nil
			}),
		)...)
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Inject failed: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Inject did not return while an eager singleton resolved another type")
	}

	if !stderrors.Is(nestedInject, ErrAlreadyInjected) {
		t.Errorf("expected ALREADY_INJECTED while the batch is being built, got %v", nestedInject)
	}
	w := MustResolve[*Widget](r)
	if w.id != 3 {
		t.Errorf("expected eager singleton to see the batch, got %d", w.id)
	}
	if c := MustResolve[*Counter](r); c.n != 3 {
		t.Errorf("expected lazy singleton built during Inject to be cached, got %d", c.n)
	}
}

func TestEagerSingletonFailureClosesResolvedLazySingletons(t *testing.T) {
	r := newTestRegistry()
	var closed []string
	err := r.Inject(Module(
		Singleton(Func(func() *closeable { return &closeable{name: "lazy", closed: &closed} })),
		EagerSingleton(func() (*Widget, error) {
			if _, err := Resolve[*closeable](r); err != nil {
				return nil, err
			}
			return &Widget{}, nil
		}),
		EagerSingleton(func() (*Counter, error) { return nil, errBoom }),
	)...)

	if err != errBoom {
		t.Fatalf("expected constructor error unchanged, got %v", err)
	}
	if strings.Join(closed, ",") != "lazy" {
		t.Errorf("expected lazy singleton built by the batch to be closed, got %v", closed)
	}
	if len(r.built) != 0 {
		t.Errorf("expected no tracked singletons after rollback, got %d", len(r.built))
	}
	if _, err := Resolve[*closeable](r); !stderrors.Is(err, ErrUnresolvedType) {
		t.Errorf("expected discarded batch to be unresolvable, got %v", err)
	}
}

func TestEagerSingletonPanicRollsBack(t *testing.T) {
	r := newTestRegistry()
	var closed []string
	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("expected the constructor panic to propagate")
			}
		}()
		_ = r.Inject(Module(
			EagerSingleton(Func(func() *closeable { return &closeable{name: "first", closed: &closed} })),
			EagerSingleton(Func(func() *Counter { panic("constructor exploded") })),
		)...)
	}()

	if r.Injected() {
		t.Error("expected nothing committed")
	}
	if strings.Join(closed, ",") != "first" {
		t.Errorf("expected already built eager singleton to be closed, got %v", closed)
	}
	if len(r.built) != 0 {
		t.Errorf("expected no tracked singletons after rollback, got %d", len(r.built))
	}
	mustInject(t, r, Singleton(Func(func() *Counter { return &Counter{} }))...)
}

func TestResetDuringConstructionDropsStaleInstance(t *testing.T) {
	r := newTestRegistry()
	var closed []string
	started := make(chan struct{})
	release := make(chan struct{})
	mustInject(t, r, Singleton(Func(func() *closeable {
		close(started)
		<-release
		return &closeable{name: "stale", closed: &closed}
	}))...)

	done := make(chan struct{})
	go func() {
		defer close(done)
		if _, err := Resolve[*closeable](r); err != nil {
			t.Errorf("Resolve failed: %v", err)
		}
	}()
	<-started
	r.Reset()
	close(release)
	<-done

	if len(r.built) != 0 {
		t.Fatalf("expected instance from before Reset to be untracked, got %d", len(r.built))
	}

	mustInject(t, r, Singleton(Func(func() *closeable { return &closeable{name: "fresh", closed: &closed} }))...)
	MustResolve[*closeable](r)
	if err := r.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if strings.Join(closed, ",") != "fresh" {
		t.Errorf("expected only the current generation to be closed, got %v", closed)
	}
}

func TestCloseReverseOrder(t *testing.T) {
	r := newTestRegistry()
	var closed []string
	err := r.Inject(Module(
		Singleton(Func(func() *closeable { return &closeable{name: "a", closed: &closed} })),
		Singleton(Func(func() *otherCloser {
			return &otherCloser{closeable{name: "b", closed: &closed, err: errBoom}}
		})),
		Factory(Func(func() *Widget { return &Widget{} })),
	)...)
	if err != nil {
		t.Fatalf("Inject failed: %v", err)
	}

	MustResolve[*closeable](r)
	MustResolve[*otherCloser](r)

	err = r.Close()
	if !stderrors.Is(err, errBoom) {
		t.Errorf("expected joined close error, got %v", err)
	}
	if strings.Join(closed, ",") != "b,a" {
		t.Errorf("expected reverse construction order, got %v", closed)
	}
	if r.Injected() {
		t.Error("expected Close to reset the registry")
	}
}

func TestReset(t *testing.T) {
	r := newTestRegistry()
	mustInject(t, r, Singleton(Func(func() *Counter { return &Counter{} }))...)
	before := MustResolve[*Counter](r)

	r.Reset()
	if r.Injected() || r.Len() != 0 {
		t.Fatal("expected Reset to empty the registry")
	}
	mustInject(t, r, Singleton(Func(func() *Counter { return &Counter{} }))...)
	if after := MustResolve[*Counter](r); after == before {
		t.Error("expected a fresh singleton after Reset")
	}
}

func TestRegistrations(t *testing.T) {
	r := newTestRegistry()
	mustInject(t, r, Module(
		Singleton(Func(func() *Widget { return &Widget{} })),
		Factory(Func(func() *Counter { return &Counter{} })),
	)...)
	MustResolve[*Widget](r)

	infos := r.Registrations()
	if len(infos) != 2 {
		t.Fatalf("expected 2 registrations, got %d", len(infos))
	}
	if infos[0].Key != "*di.Counter" || infos[1].Key != "*di.Widget" {
		t.Errorf("expected sorted keys, got %s, %s", infos[0].Key, infos[1].Key)
	}
	if infos[0].Initialized {
		t.Error("factories are never initialized")
	}
	if !infos[1].Initialized || infos[1].Lifetime != LifetimeSingleton {
		t.Errorf("expected built singleton, got %+v", infos[1])
	}

	out := r.SprintRegistrations()
	if !strings.Contains(out, "● *di.Widget [singleton]") || !strings.Contains(out, "○ *di.Counter [factory]") {
		t.Errorf("unexpected listing:\n%s", out)
	}
	if got := newTestRegistry().SprintRegistrations(); got != "(empty registry)\n" {
		t.Errorf("unexpected empty listing %q", got)
	}
}

func TestHooks(t *testing.T) {
	var resolves, constructs, injects []string
	r := newTestRegistry(
		WithResolveHook(func(key Key, _ time.Duration, err error) {
			resolves = append(resolves, fmt.Sprintf("%s:%v", key, err == nil))
		}),
		WithConstructHook(func(key Key, _ time.Duration, err error) {
			constructs = append(constructs, key.String())
		}),
		WithInjectHook(func(count int, err error) {
			injects = append(injects, fmt.Sprintf("%d:%v", count, err == nil))
		}),
	)

	r.Inject()
	mustInject(t, r, Singleton(Func(func() *Counter { return &Counter{} }))...)
	Resolve[*Counter](r)
	Resolve[*Counter](r)
	Resolve[*Widget](r)

	if strings.Join(injects, ",") != "0:false,1:true" {
		t.Errorf("unexpected inject hooks %v", injects)
	}
	if strings.Join(constructs, ",") != "*di.Counter" {
		t.Errorf("expected one construction, got %v", constructs)
	}
	if strings.Join(resolves, ",") != "*di.Counter:true,*di.Counter:true,*di.Widget:false" {
		t.Errorf("unexpected resolve hooks %v", resolves)
	}
}

func TestRegistryID(t *testing.T) {
	a, b := newTestRegistry(), newTestRegistry()
	if a.ID() == "" || a.ID() == b.ID() {
		t.Errorf("expected distinct non-empty ids, got %q and %q", a.ID(), b.ID())
	}
}

func TestLifetimeString(t *testing.T) {
	if LifetimeEagerSingleton.String() != "eager_singleton" {
		t.Errorf("unexpected %q", LifetimeEagerSingleton.String())
	}
	if Lifetime(9).String() != "lifetime(9)" {
		t.Errorf("unexpected %q", Lifetime(9).String())
	}
	text, _ := LifetimeFactory.MarshalText()
	if string(text) != "factory" {
		t.Errorf("unexpected %q", text)
	}
}
