// Package diag exposes a dependency registry over HTTP.
//
// Register mounts read-only introspection endpoints on any gin router:
//
//	GET /di/registrations   registered type keys, lifetimes and build state
//	GET /di/health          registry health plus any extra component checks
//	GET /version            build version information
//
// Server runs those routes on their own listener as a component.Component.
package diag
