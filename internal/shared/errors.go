// Package shared holds the error classes surfaced by the upload and
// conversion pipeline. Every stage wraps its failures into one of these
// so handlers can map them to an HTTP status without inspecting strings.
package shared

import (
	"errors"
	"net/http"
)

var (
	// ErrValidation covers bad or missing form fields, MIME mismatches
	// and cross-tenant key use.
	ErrValidation = errors.New("validation error")

	// ErrConversion covers external converter failures, timeouts and
	// empty converter output.
	ErrConversion = errors.New("conversion error")

	// ErrPersistence covers catalog write failures.
	ErrPersistence = errors.New("persistence error")

	// ErrStorage covers filesystem failures outside of "already exists".
	ErrStorage = errors.New("storage error")

	// ErrNotFound covers a missing catalog row or a missing file on disk.
	ErrNotFound = errors.New("not found")
)

// StatusFor maps a pipeline error to its HTTP status code. Unclassified
// errors are treated as internal failures.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrConversion):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
