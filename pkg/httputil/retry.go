package httputil

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// RetryableError marks a failure worth another attempt.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// StatusError is a non-2xx response.
type StatusError struct {
	URL    string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: %d %s", e.URL, e.Status, http.StatusText(e.Status))
}

// checkStatus returns nil for 2xx, a retryable StatusError for 429 and
// 5xx, and a plain StatusError otherwise.
func checkStatus(url string, status int) error {
	if status >= 200 && status < 300 {
		return nil
	}
	err := &StatusError{URL: url, Status: status}
	if status == http.StatusTooManyRequests || status >= 500 {
		return &RetryableError{Err: err}
	}
	return err
}

// Retry calls fn up to attempts times, doubling delay after each
// retryable failure. Errors not wrapped in RetryableError end the loop
// at once. Cancelling ctx stops waiting and returns ctx.Err().
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var err error
	for i := range attempts {
		if err = fn(); err == nil || !errors.As(err, new(*RetryableError)) {
			return err
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
			delay *= 2
		}
	}
	return err
}
