package application

import (
	"errors"
	"fmt"
)

// ForwardError describes one failed delivery attempt.
type ForwardError struct {
	URL        string
	Attempt    int
	StatusCode int
	Body       string
	Err        error
}

func (e *ForwardError) Error() string {
	if e.StatusCode != 0 && e.Err != nil {
		return fmt.Sprintf("attempt %d to %s: HTTP %d: %v", e.Attempt, e.URL, e.StatusCode, e.Err)
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("attempt %d to %s: HTTP %d", e.Attempt, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("attempt %d to %s: %v", e.Attempt, e.URL, e.Err)
}

func (e *ForwardError) Unwrap() error {
	return e.Err
}

func IsForwardError(err error) (*ForwardError, bool) {
	var fwdErr *ForwardError
	ok := errors.As(err, &fwdErr)
	return fwdErr, ok
}
