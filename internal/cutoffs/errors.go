package cutoffs

import (
	"errors"
	"net/http"
)

// Domain errors for cutoff operations.
var (
	ErrNotFound     = errors.New("cutoff not found")
	ErrDuplicate    = errors.New("cutoff already exists")
	ErrInvalidRanks = errors.New("ranks must be positive with opening rank not exceeding closing rank")
)

// MapHTTPStatus maps cutoff domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrDuplicate) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrInvalidRanks) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
