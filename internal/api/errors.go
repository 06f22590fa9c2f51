package api

import (
	"errors"
	"fmt"
)

// APIError is returned when the backend answered with a non-2xx status.
// The response body, if present, is carried so the UI can surface the
// backend's own explanation.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("backend returned %d", e.Status)
	}
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.Body)
}

// IsApplicationError reports whether err represents a backend-side failure
// (non-2xx with a body) as opposed to a connectivity failure where the
// request never completed.
func IsApplicationError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}
