// Package errors provides the coded error type shared by the registry and its
// supporting packages.
//
// Every failure the registry reports is an *AppError carrying a machine-readable
// ErrorCode. Two AppErrors match under errors.Is when their codes match, so the
// exported sentinels can be used to test an error's class regardless of its
// details:
//
//	if errors.Is(err, di.ErrUnresolvedType) {
//	    ...
//	}
package errors
