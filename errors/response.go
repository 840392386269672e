package errors

import (
	stderrors "errors"
	"net/http"
)

// ErrorResponse is the JSON structure returned by the diagnostics endpoints.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody contains the error details sent to clients.
type ErrorBody struct {
	Code    ErrorCode      `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// ToResponse converts an AppError to an ErrorResponse for JSON serialization.
func (e *AppError) ToResponse() ErrorResponse {
	return ErrorResponse{
		Error: ErrorBody{
			Code:    e.Code,
			Message: e.Message,
			Details: e.Details,
		},
	}
}

// HTTPStatus maps an error code to the status the diagnostics endpoints use.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeUnresolvedType:
		return http.StatusNotFound
	case ErrCodeEmptyRegistration, ErrCodeInvalidConfig, ErrCodeMissingField:
		return http.StatusBadRequest
	case ErrCodeAlreadyInjected, ErrCodeDuplicateKey:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Wrap converts any error into an AppError. AppErrors anywhere in the chain
// are returned as is; anything else becomes an internal error.
func Wrap(err error) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := AsAppError(err); ok {
		return appErr
	}
	return Internal(err)
}
