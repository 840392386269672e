// Package version reports the build identity of a binary.
//
// Version, git commit, branch, and build time are set at compile time
// via -ldflags:
//
//	go build -ldflags "-X github.com/kbukum/inject/version.Version=1.0.0"
//
// Unset values fall back to the module and VCS data embedded by the Go
// toolchain.
package version
