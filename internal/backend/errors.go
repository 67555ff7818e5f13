package backend

import (
	"errors"
	"fmt"
	"net/http"

	"storefront/internal/domain"
)

// Error is a non-2xx answer from the commerce API, carrying whatever
// message text the server supplied.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend: %d %s", e.Status, e.Message)
	}
	return fmt.Sprintf("backend: %d", e.Status)
}

// Unwrap maps well-known statuses onto domain sentinels so callers can use
// errors.Is without depending on this package's Error type.
func (e *Error) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized:
		return domain.ErrUnauthorized
	case http.StatusNotFound:
		return domain.ErrNotFound
	case http.StatusConflict:
		return domain.ErrAlreadyExists
	default:
		return nil
	}
}

// UserMessage returns the server-supplied text when present, otherwise the
// given fallback. Remote failures surface to shoppers as a single message.
func UserMessage(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
