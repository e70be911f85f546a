package datasource

import (
	"errors"
	"fmt"

	apperrors "github.com/ddihora1604/IITK-ESG/internal/errors"
)

// Thin wrappers around the shared error taxonomy so call sites stay
// readable.

func fetchError(message string, cause error) error {
	return apperrors.NewFetchError(message, cause)
}

func parseError(message string, cause error) error {
	return apperrors.NewParseError(message, cause)
}

func notFoundError(url string) error {
	return apperrors.NewNotFoundError(fmt.Sprintf("resource not found: %s", url), nil)
}

func rateLimitError(url string) error {
	return apperrors.NewRateLimitError(fmt.Sprintf("rate limited by provider: %s", url), nil)
}

func statusError(url string, status int) error {
	return apperrors.NewFetchError(fmt.Sprintf("unexpected status %d from %s", status, url), nil).
		WithContext("status", status)
}

// statusCode returns the HTTP status recorded on a fetch error, or 0
// when the error carries none.
func statusCode(err error) int {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if code, ok := appErr.Context["status"].(int); ok {
			return code
		}
	}
	return 0
}
