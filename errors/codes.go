package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Registration errors
const (
	// ErrCodeEmptyRegistration indicates an injection attempt with no descriptors.
	ErrCodeEmptyRegistration ErrorCode = "EMPTY_REGISTRATION"
	// ErrCodeAlreadyInjected indicates a second injection into a populated registry.
	ErrCodeAlreadyInjected ErrorCode = "ALREADY_INJECTED"
	// ErrCodeDuplicateKey indicates two descriptors sharing a type key.
	ErrCodeDuplicateKey ErrorCode = "DUPLICATE_KEY"
)

// Resolution errors
const (
	// ErrCodeUnresolvedType indicates no descriptor is registered for a type key.
	ErrCodeUnresolvedType ErrorCode = "UNRESOLVED_TYPE"
)

// Configuration errors
const (
	// ErrCodeInvalidConfig indicates configuration failed validation.
	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIG"
	// ErrCodeMissingField indicates a required configuration field is missing.
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
)

// Internal errors
const (
	// ErrCodeInternal indicates an unexpected failure.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var registrationCodes = map[ErrorCode]bool{
	ErrCodeEmptyRegistration: true,
	ErrCodeAlreadyInjected:   true,
	ErrCodeDuplicateKey:      true,
}

// IsRegistrationCode reports whether the code belongs to a failed injection.
func IsRegistrationCode(code ErrorCode) bool {
	return registrationCodes[code]
}
