package ingestion

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Domain errors for ingestion operations.
var (
	ErrNotFound       = errors.New("ingestion run not found")
	ErrDuplicate      = errors.New("ingestion run already exists")
	ErrEmptyFile      = errors.New("file contains no data rows")
	ErrUnreadableFile = errors.New("file could not be parsed")
	ErrMissingColumns = errors.New("missing required columns")
	ErrFileTooLarge   = errors.New("file exceeds maximum upload size")
	ErrInvalidUpload  = errors.New("invalid upload")
	ErrNoSource       = errors.New("ingestion run has no archived source file")
)

// MissingColumnsError lists the required headers absent from an upload.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingColumns, strings.Join(e.Columns, ", "))
}

func (e *MissingColumnsError) Unwrap() error {
	return ErrMissingColumns
}

// MapHTTPStatus maps ingestion domain errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrNoSource):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrEmptyFile),
		errors.Is(err, ErrUnreadableFile),
		errors.Is(err, ErrMissingColumns),
		errors.Is(err, ErrInvalidUpload):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
