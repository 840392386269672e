package di

import (
	stderrors "errors"
	"testing"
)

// expectPanic runs fn and returns the *ResolutionPanic it raised.
func expectPanic(t *testing.T, fn func()) (p *ResolutionPanic) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected a panic")
		}
		var ok bool
		if p, ok = r.(*ResolutionPanic); !ok {
			t.Fatalf("expected *ResolutionPanic, got %T: %v", r, r)
		}
	}()
	fn()
	return nil
}

type eagerHolder struct {
	counter Inject[*Counter]
	widget  Inject[*Widget]
}

func TestInjectResolvesAtConstruction(t *testing.T) {
	r := newTestRegistry()
	widgets, counters := 0, 0
	mustInject(t, r, Module(
		Factory(Func(func() *Widget { widgets++; return &Widget{id: widgets} })),
		Singleton(Func(func() *Counter { counters++; return &Counter{} })),
	)...)

	h1 := eagerHolder{counter: NewInject[*Counter](r), widget: NewInject[*Widget](r)}
	if widgets != 1 || counters != 1 {
		t.Fatalf("expected both resolved at construction, widgets=%d counters=%d", widgets, counters)
	}
	_ = h1.widget.Value()
	_ = h1.counter.Value()
	if widgets != 1 || counters != 1 {
		t.Error("expected Value not to resolve again")
	}

	h2 := eagerHolder{counter: NewInject[*Counter](r), widget: NewInject[*Widget](r)}
	if h1.widget.Value() == h2.widget.Value() {
		t.Error("expected distinct factory instances across holders")
	}
	if h1.counter.Value() != h2.counter.Value() {
		t.Error("expected shared singleton across holders")
	}
	if counters != 1 {
		t.Errorf("expected singleton built once, got %d", counters)
	}
}

func TestInjectPanicsWhenUnregistered(t *testing.T) {
	r := newTestRegistry()
	p := expectPanic(t, func() { NewInject[*Widget](r) })
	if p.Key != KeyOf[*Widget]() {
		t.Errorf("expected key *di.Widget, got %s", p.Key)
	}
	if !stderrors.Is(p, ErrUnresolvedType) {
		t.Errorf("expected UNRESOLVED_TYPE cause, got %v", p.Err)
	}
}

func TestInjectPanicsOnConstructorFailure(t *testing.T) {
	r := newTestRegistry()
	mustInject(t, r, Factory(func() (*Widget, error) { return nil, errBoom })...)

	p := expectPanic(t, func() { NewInject[*Widget](r) })
	if p.Err != errBoom {
		t.Errorf("expected constructor error as cause, got %v", p.Err)
	}
}

func TestMustResolvePanics(t *testing.T) {
	r := newTestRegistry()
	expectPanic(t, func() { MustResolve[*Counter](r) })
}

func TestLazyInjectDefersResolution(t *testing.T) {
	r := newTestRegistry()
	widgets, counters := 0, 0
	mustInject(t, r, Module(
		Factory(Func(func() *Widget { widgets++; return &Widget{id: widgets} })),
		Singleton(Func(func() *Counter { counters++; return &Counter{} })),
	)...)

	w1, c1 := NewLazyInject[*Widget](r), NewLazyInject[*Counter](r)
	w2, c2 := NewLazyInject[*Widget](r), NewLazyInject[*Counter](r)
	if widgets != 0 || counters != 0 || w1.Resolved() {
		t.Fatal("expected nothing resolved before first Value")
	}

	first := w1.Value()
	if widgets != 1 || !w1.Resolved() {
		t.Fatalf("expected first Value to resolve, widgets=%d", widgets)
	}
	if w1.Value() != first || widgets != 1 {
		t.Error("expected cached value on later calls")
	}

	if c1.Value() != c2.Value() || counters != 1 {
		t.Errorf("expected one shared singleton, counters=%d", counters)
	}
	if w2.Value() == first || widgets != 2 {
		t.Errorf("expected second accessor to get a new factory instance, widgets=%d", widgets)
	}
}

func TestLazyInjectKeepsValueAfterReset(t *testing.T) {
	r := newTestRegistry()
	mustInject(t, r, Singleton(Func(func() *Counter { return &Counter{n: 1} }))...)

	lazy := NewLazyInject[*Counter](r)
	got := lazy.Value()
	r.Reset()

	if lazy.Value() != got {
		t.Error("expected resolved accessor to ignore registry changes")
	}
}

func TestLazyInjectPanicsAndStaysUnresolved(t *testing.T) {
	r := newTestRegistry()
	lazy := NewLazyInject[*Counter](r)

	p := expectPanic(t, func() { lazy.Value() })
	if !stderrors.Is(p, ErrUnresolvedType) {
		t.Errorf("expected UNRESOLVED_TYPE cause, got %v", p.Err)
	}
	if lazy.Resolved() {
		t.Fatal("expected accessor to stay unresolved after failure")
	}

	mustInject(t, r, Singleton(Func(func() *Counter { return &Counter{} }))...)
	if lazy.Value() == nil {
		t.Error("expected later Value to resolve once registered")
	}
}

func TestOptionalInject(t *testing.T) {
	r := newTestRegistry()
	widgets := 0
	mustInject(t, r, Factory(Func(func() *Widget { widgets++; return &Widget{id: widgets} }))...)

	present := NewOptionalInject[*Widget](r)
	if widgets != 0 {
		t.Fatal("expected no resolution before Value")
	}
	w, ok := present.Value()
	if !ok || w == nil || widgets != 1 {
		t.Fatalf("expected widget, got %v, %v", w, ok)
	}
	again, _ := present.Value()
	if again != w || widgets != 1 {
		t.Error("expected cached widget")
	}

	absent := NewOptionalInject[*Counter](r)
	if c, ok := absent.Value(); ok || c != nil {
		t.Errorf("expected absence, got %v, %v", c, ok)
	}
	if !absent.Resolved() {
		t.Error("expected absence to be cached as resolved")
	}
}

func TestOptionalInjectCachesAbsence(t *testing.T) {
	r := newTestRegistry()
	opt := NewOptionalInject[*Counter](r)
	if _, ok := opt.Value(); ok {
		t.Fatal("expected absence before injection")
	}

	mustInject(t, r, Singleton(Func(func() *Counter { return &Counter{} }))...)
	if _, ok := opt.Value(); ok {
		t.Error("expected cached absence to survive a later injection")
	}
}

func TestOptionalInjectSwallowsConstructorFailure(t *testing.T) {
	r := newTestRegistry()
	mustInject(t, r, Singleton(func() (*Counter, error) { return nil, errBoom })...)

	if _, ok := NewOptionalInject[*Counter](r).Value(); ok {
		t.Error("expected constructor failure to read as absence")
	}
}
