package schemas

import (
	"errors"
	"fmt"
	"time"
)

// ErrSessionActive is returned when a case is asked to set up a session while
// it still holds one.
var ErrSessionActive = errors.New("session already active for this case")

// EnvironmentError reports that the browser or its driver could not be made
// available. It is fatal to the test case and never retried.
type EnvironmentError struct {
	Op  string
	Err error
}

func (e *EnvironmentError) Error() string {
	return fmt.Sprintf("environment error during %s: %v", e.Op, e.Err)
}

func (e *EnvironmentError) Unwrap() error { return e.Err }

// TimeoutError reports a wait condition that was never satisfied within its bound.
type TimeoutError struct {
	Condition string
	Timeout   time.Duration
	Err       error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timed out after %s waiting for %s", e.Timeout, e.Condition)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// AssertionError reports a content mismatch with expected-vs-actual detail.
type AssertionError struct {
	Message  string
	Expected string
	Actual   string
}

func (e *AssertionError) Error() string {
	return fmt.Sprintf("%s: expected %q, got %q", e.Message, e.Expected, e.Actual)
}
