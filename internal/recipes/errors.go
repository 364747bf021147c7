package recipes

import (
	"errors"
	"fmt"
	"net/http"
)

// StatusError captures non-2xx HTTP responses from the recipe API.
type StatusError struct {
	Operation  string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Body == "" {
		return fmt.Sprintf("%s request failed: status %d", e.Operation, e.StatusCode)
	}
	return fmt.Sprintf("%s request failed: status %d: %s", e.Operation, e.StatusCode, e.Body)
}

// Status is the short reason phrase for the response, e.g. "Not Found".
func (e *StatusError) Status() string {
	if text := http.StatusText(e.StatusCode); text != "" {
		return text
	}
	return fmt.Sprintf("status %d", e.StatusCode)
}

// Message returns the text shown to users for err: the reason phrase for API
// status failures and the error text for everything else.
func Message(err error) string {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Status()
	}
	return err.Error()
}
