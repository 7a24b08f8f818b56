package institutions

import (
	"errors"
	"net/http"
)

// Domain errors for institution operations.
var (
	ErrNotFound        = errors.New("institution not found")
	ErrDuplicate       = errors.New("institution already exists")
	ErrInvalidIdentity = errors.New("institution name and location required")
)

// MapHTTPStatus maps institution domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidIdentity) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
