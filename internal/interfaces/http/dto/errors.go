package dto

import "net/http"

// Error codes surfaced by the API. Domain errors carry these codes
// verbatim; the handler layer only translates them to HTTP statuses.
const (
	// ErrCodeInternal is used for unexpected server errors
	ErrCodeInternal = "INTERNAL_ERROR"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeUnauthorized is used when authentication is required but missing
	ErrCodeUnauthorized = "UNAUTHORIZED"
	// ErrCodeForbidden is used when the actor is not a party to the resource
	ErrCodeForbidden = "FORBIDDEN"
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "NOT_FOUND"
)

// errorCodeHTTPStatus maps domain error codes to HTTP status codes
var errorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:     http.StatusInternalServerError,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeNotFound:     http.StatusNotFound,

	// Input and validation failures
	"VALIDATION_ERROR": http.StatusBadRequest,
	"INVALID_INPUT":    http.StatusBadRequest,
	"INVALID_STATUS":   http.StatusBadRequest,

	// Transitions attempted by the wrong party or role
	"UNAUTHORIZED_TRANSITION": http.StatusForbidden,

	// State conflicts
	"INVALID_STATE":        http.StatusConflict,
	"ALREADY_EXISTS":       http.StatusConflict,
	"DUPLICATE_SUBMISSION": http.StatusConflict,
	"ALREADY_CONNECTED":    http.StatusConflict,
	"REQUEST_PENDING":      http.StatusConflict,

	// Upstream extraction produced nothing usable
	"EXTRACTION_FAILED": http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes map to 500.
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
