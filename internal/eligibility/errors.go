package eligibility

import (
	"errors"
	"net/http"
)

// Domain errors for eligibility operations.
var (
	ErrInvalidQuery = errors.New("invalid eligibility query")
)

// MapHTTPStatus maps eligibility domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrInvalidQuery) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
