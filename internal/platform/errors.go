package platform

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidProfileURL indicates a profile URL without scheme or host
	ErrInvalidProfileURL = errors.New("invalid profile URL")
)

// maxErrorBody caps how much of an error response is kept
const maxErrorBody = 512

// StatusError is returned when the platform answers with a non-2xx status
type StatusError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s failed with status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s failed with status %d: %s", e.Op, e.StatusCode, e.Body)
}
