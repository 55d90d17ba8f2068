package dto

import (
	"net/http"

	"github.com/storefront/backend/internal/domain/shared"
)

// Transport-level error codes. Domain codes live in the shared package.
const (
	// ErrCodeInternal is used for unexpected server errors
	ErrCodeInternal = "INTERNAL_ERROR"
	// ErrCodeBadRequest is used when the request body cannot be decoded
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeRequestTooLarge is used when the body exceeds the configured limit
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
)

// Generic messages returned in place of server-side error details
const (
	MsgInternalError = "An internal error occurred"
	MsgBadRequest    = "Malformed request body"
	MsgTooLarge      = "Request body exceeds maximum allowed size"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	shared.CodeValidation:         http.StatusBadRequest,
	shared.CodeInvalidCredentials: http.StatusUnauthorized,
	shared.CodeAlreadyExists:      http.StatusBadRequest,
	shared.CodeNotFound:           http.StatusNotFound,
	shared.CodeStore:              http.StatusInternalServerError,
	shared.CodeStoreNotReady:      http.StatusInternalServerError,
	shared.CodeUploadFailed:       http.StatusBadGateway,

	ErrCodeInternal:        http.StatusInternalServerError,
	ErrCodeBadRequest:      http.StatusBadRequest,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
}

// GetHTTPStatus returns the HTTP status for an error code.
// Unknown codes are treated as internal errors.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// IsServerError reports whether code maps to a 5xx status
func IsServerError(code string) bool {
	return GetHTTPStatus(code) >= http.StatusInternalServerError
}
