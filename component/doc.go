// Package component defines lifecycle-managed parts of an application.
//
// A Registry starts components in registration order, stops them in reverse
// order and aggregates their health. The di package adapts a dependency
// registry to this interface so it can be started and stopped next to the
// servers that use it.
package component
