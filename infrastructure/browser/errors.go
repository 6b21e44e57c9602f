package browser

import (
	"errors"
	"fmt"
	"time"
)

// Fail-fast argument errors. None of these are retried.
var (
	// ErrInvalidEngine is returned when the requested browser engine is not
	// one of the supported values.
	ErrInvalidEngine = errors.New("browser must be chrome or firefox")

	// ErrInvalidState is returned when a wait is requested for a state
	// outside {present, visible, clickable, invisible}.
	ErrInvalidState = errors.New("state must be present, visible, clickable or invisible")

	// ErrInvalidLocator is returned for an unsupported locator strategy.
	ErrInvalidLocator = errors.New("unsupported locator strategy")

	// ErrNotRunning is returned when an operation requires a started browser.
	ErrNotRunning = errors.New("browser not running")
)

// ElementNotFoundError reports that an element did not reach the requested
// state within the wait timeout. It carries the full locator so the failure
// can be diagnosed without re-running.
type ElementNotFoundError struct {
	By       By
	Selector string
	State    State
	Timeout  time.Duration
	Cause    error
}

func (e *ElementNotFoundError) Error() string {
	return fmt.Sprintf("element %s=%q did not become %s within %s",
		e.By, e.Selector, e.State, e.Timeout)
}

func (e *ElementNotFoundError) Unwrap() error {
	return e.Cause
}

// ClickFailedError reports that a click kept failing after the bounded
// retry loop was exhausted.
type ClickFailedError struct {
	Attempts int
	LastErr  error
}

func (e *ClickFailedError) Error() string {
	return fmt.Sprintf("couldn't click element after %d attempts, last error: %v",
		e.Attempts, e.LastErr)
}

func (e *ClickFailedError) Unwrap() error {
	return e.LastErr
}
