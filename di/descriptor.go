package di

import "fmt"

// Lifetime determines how often a descriptor's constructor runs.
type Lifetime int

const (
	LifetimeFactory        Lifetime = iota // new instance on every resolve
	LifetimeSingleton                      // built on first resolve, then cached
	LifetimeEagerSingleton                 // built during Inject, then cached
)

func (l Lifetime) String() string {
	switch l {
	case LifetimeFactory:
		return "factory"
	case LifetimeSingleton:
		return "singleton"
	case LifetimeEagerSingleton:
		return "eager_singleton"
	default:
		return fmt.Sprintf("lifetime(%d)", int(l))
	}
}

// MarshalText renders the lifetime by name in JSON and logs.
func (l Lifetime) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// Descriptor pairs a type key with a lifetime and a constructor. Descriptors
// are immutable; build them with Factory, Singleton or EagerSingleton.
type Descriptor struct {
	key      Key
	lifetime Lifetime
	build    func() (any, error)
}

// Key returns the type key the descriptor registers.
func (d Descriptor) Key() Key { return d.key }

// Lifetime returns the descriptor's lifetime.
func (d Descriptor) Lifetime() Lifetime { return d.lifetime }

// IsSingleton reports whether at most one instance is ever built.
func (d Descriptor) IsSingleton() bool { return d.lifetime != LifetimeFactory }

func (d Descriptor) String() string {
	return d.key.String() + " (" + d.lifetime.String() + ")"
}

func newDescriptor[T any](lifetime Lifetime, constructor func() (T, error)) Descriptor {
	return Descriptor{
		key:      KeyOf[T](),
		lifetime: lifetime,
		build: func() (any, error) {
			v, err := constructor()
			if err != nil {
				return nil, err
			}
			return v, nil
		},
	}
}

// Func adapts a constructor that cannot fail.
func Func[T any](fn func() T) func() (T, error) {
	return func() (T, error) { return fn(), nil }
}

// Value adapts an existing instance. Registered as a singleton it behaves like
// a pre-built value; registered as a factory every resolve returns the same
// value, which only differs for types with value semantics.
func Value[T any](v T) func() (T, error) {
	return func() (T, error) { return v, nil }
}

// Factory describes T built anew on every resolution.
func Factory[T any](constructor func() (T, error)) []Descriptor {
	return []Descriptor{newDescriptor(LifetimeFactory, constructor)}
}

// Singleton describes T built on first resolution and shared afterwards.
func Singleton[T any](constructor func() (T, error)) []Descriptor {
	return []Descriptor{newDescriptor(LifetimeSingleton, constructor)}
}

// EagerSingleton describes T built while the batch is injected. A failing
// constructor fails the whole injection.
func EagerSingleton[T any](constructor func() (T, error)) []Descriptor {
	return []Descriptor{newDescriptor(LifetimeEagerSingleton, constructor)}
}

// Module flattens groups of descriptors, preserving their order.
func Module(children ...[]Descriptor) []Descriptor {
	n := 0
	for _, c := range children {
		n += len(c)
	}
	out := make([]Descriptor, 0, n)
	for _, c := range children {
		out = append(out, c...)
	}
	return out
}
