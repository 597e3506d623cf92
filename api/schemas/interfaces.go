package schemas

import (
	"context"
	"time"
)

// -- Browser Engine Interfaces --

// SessionContext defines the interface for controlling a single browser
// session owned by exactly one test case. It covers what the scenarios need
// from the automation engine: navigation, bounded element waits, interaction
// and attribute reads.
//
// Implementations are not required to be safe for concurrent use; a session is
// driven sequentially by the case that owns it.
type SessionContext interface {
	ID() string                                                                      // Returns the unique ID of the session.
	Navigate(ctx context.Context, url string) error                                  // Navigates the session to a new URL.
	Title(ctx context.Context) (string, error)                                        // Returns the current document title.
	WaitClickable(ctx context.Context, loc Locator, policy WaitPolicy) (Element, error) // Polls until loc is visible and enabled.
	Click(ctx context.Context, el Element) error                                     // Clicks a previously located element.
	Attribute(ctx context.Context, el Element, name string) (string, error)          // Reads an attribute of a located element.
	Sleep(ctx context.Context, d time.Duration) error                                // Pauses execution for a duration.
	Close(ctx context.Context) error                                                 // Closes the browser session.
}

// Screenshotter is the optional capability of a session to serialize the
// current viewport. Sessions that cannot capture simply do not implement it.
type Screenshotter interface {
	// Screenshot returns the rendered viewport encoded as PNG.
	Screenshot(ctx context.Context) ([]byte, error)
}

// SessionFactory creates fresh, isolated browser sessions. Every call must
// yield a session that shares no state with any previously returned one.
type SessionFactory interface {
	NewSession(ctx context.Context) (SessionContext, error)
}

// Element is an opaque handle to a node located by a SessionContext. It is only
// valid for the session that produced it and until the next navigation.
type Element interface {
	// Locator returns the locator the element was found with.
	Locator() Locator
}
