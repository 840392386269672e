package main

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kbukum/inject/di"
)

// Clock is built once at startup.
type Clock interface {
	Now() time.Time
}

type systemClock struct{ loc *time.Location }

func (c systemClock) Now() time.Time { return time.Now().In(c.loc) }

// Store remembers how often each name was greeted.
type Store struct {
	mu     sync.Mutex
	counts map[string]int
}

func (s *Store) Visit(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[name]++
	return s.counts[name]
}

// Close runs when the registry is closed during shutdown.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts = nil
	return nil
}

// RequestID is a fresh value on every resolution.
type RequestID string

var requestSeq atomic.Int64

// Mailer is optional and not registered by this demo.
type Mailer interface {
	Send(to, body string) error
}

// Module registers the demo's dependencies.
func Module() []di.Descriptor {
	return di.Module(
		di.EagerSingleton(func() (Clock, error) {
			loc, err := time.LoadLocation("UTC")
			if err != nil {
				return nil, fmt.Errorf("load location: %w", err)
			}
			return systemClock{loc: loc}, nil
		}),
		di.Singleton(di.Func(func() *Store {
			return &Store{counts: make(map[string]int)}
		})),
		di.Factory(di.Func(func() RequestID {
			return RequestID(fmt.Sprintf("req-%04d", requestSeq.Add(1)))
		})),
	)
}

// Greeter shows the three ways of declaring a dependency.
type Greeter struct {
	clock  di.Inject[Clock]
	store  *di.LazyInject[*Store]
	mailer *di.OptionalInject[Mailer]
}

// NewGreeter resolves its clock immediately and the rest on first use.
func NewGreeter() *Greeter {
	r := di.Default()
	return &Greeter{
		clock:  di.NewInject[Clock](r),
		store:  di.NewLazyInject[*Store](r),
		mailer: di.NewOptionalInject[Mailer](r),
	}
}

// Greet returns a greeting for name.
func (g *Greeter) Greet(name string) string {
	id := di.MustResolve[RequestID](di.Default())
	visits := g.store.Value().Visit(name)

	var b strings.Builder
	fmt.Fprintf(&b, "[%s] hello %s", id, name)
	if visits > 1 {
		fmt.Fprintf(&b, " (visit %d)", visits)
	}
	fmt.Fprintf(&b, " at %s", g.clock.Value().Now().Format(time.Kitchen))

	if m, ok := g.mailer.Value(); ok {
		_ = m.Send(name, b.String())
	}
	return b.String()
}

// HasMailer reports whether a mailer was registered.
func (g *Greeter) HasMailer() bool {
	_, ok := g.mailer.Value()
	return ok
}
