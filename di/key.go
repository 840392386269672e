package di

import "reflect"

// Key identifies a registered type. It is derived from a type parameter, so
// interface types are valid keys and two distinct types never share one.
type Key struct {
	typ reflect.Type
}

// KeyOf returns the key for T.
func KeyOf[T any]() Key {
	return Key{typ: reflect.TypeFor[T]()}
}

// IsZero reports whether the key names no type.
func (k Key) IsZero() bool { return k.typ == nil }

// String returns the Go spelling of the type, e.g. "*app.Counter".
func (k Key) String() string {
	if k.typ == nil {
		return "<nil>"
	}
	return k.typ.String()
}
