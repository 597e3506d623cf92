package schemas

import (
	"fmt"
	"strings"
	"time"
)

// LocatorKind defines how a Locator matches an anchor on the page.
type LocatorKind string

const (
	// LinkText matches an anchor whose text content contains the value.
	LinkText LocatorKind = "LINK_TEXT"
	// HrefContains matches an anchor whose href attribute contains the value.
	HrefContains LocatorKind = "HREF_CONTAINS"
)

// Locator identifies an element on the page under test.
type Locator struct {
	Kind  LocatorKind `json:"kind" yaml:"kind"`
	Value string      `json:"value" yaml:"value"`
}

// ByLinkText returns a locator for an anchor whose text contains text.
func ByLinkText(text string) Locator { return Locator{Kind: LinkText, Value: text} }

// ByHrefContains returns a locator for an anchor whose href contains fragment.
func ByHrefContains(fragment string) Locator { return Locator{Kind: HrefContains, Value: fragment} }

// XPath renders the locator as an XPath expression.
func (l Locator) XPath() string {
	v := xpathLiteral(l.Value)
	switch l.Kind {
	case HrefContains:
		return fmt.Sprintf("//a[contains(@href,%s)]", v)
	default:
		return fmt.Sprintf("//a[contains(text(),%s)]", v)
	}
}

// String names the condition for diagnostics.
func (l Locator) String() string {
	switch l.Kind {
	case HrefContains:
		return fmt.Sprintf("link with href containing %q", l.Value)
	default:
		return fmt.Sprintf("link with text containing %q", l.Value)
	}
}

// xpathLiteral quotes s for use in an XPath 1.0 expression, which has no escape
// sequences; values containing both quote kinds are built with concat().
func xpathLiteral(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	parts := strings.Split(s, "'")
	quoted := make([]string, 0, len(parts)*2)
	for i, p := range parts {
		if i > 0 {
			quoted = append(quoted, `"'"`)
		}
		if p != "" {
			quoted = append(quoted, "'"+p+"'")
		}
	}
	return "concat(" + strings.Join(quoted, ",") + ")"
}

// WaitPolicy bounds the polling performed while waiting for page elements.
type WaitPolicy struct {
	// Timeout is the maximum time a single wait may poll before failing.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`
	// Settle is the implicit pause applied after navigations and clicks.
	Settle time.Duration `json:"settle" yaml:"settle"`
	// PollInterval is how often the condition is re-evaluated.
	PollInterval time.Duration `json:"poll_interval" yaml:"poll_interval"`
}

// DefaultWaitPolicy mirrors the suite's standard bounds: 10s explicit waits and
// a 2s settle after navigation.
func DefaultWaitPolicy() WaitPolicy {
	return WaitPolicy{
		Timeout:      10 * time.Second,
		Settle:       2 * time.Second,
		PollInterval: 100 * time.Millisecond,
	}
}

// State is a step in a scenario's lifecycle.
type State string

const (
	StateStart     State = "START"
	StateNavigated State = "NAVIGATED"
	StateWaiting   State = "WAITING"
	StateFound     State = "FOUND"
	StateActed     State = "ACTED"
	StateCompleted State = "COMPLETED"
	StateFailed    State = "FAILED"
)

// Terminal reports whether no further transitions are allowed from s.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateFailed
}

// CaseStatus is the outcome of a single test case.
type CaseStatus string

const (
	StatusPassed CaseStatus = "PASSED"
	StatusFailed CaseStatus = "FAILED"
)

// CaseResult is the record of one scenario executed in its own session.
type CaseResult struct {
	Scenario    string        `json:"scenario"`
	SessionID   string        `json:"session_id,omitempty"`
	Status      CaseStatus    `json:"status"`
	Path        []State       `json:"path"`
	Checkpoints []string      `json:"checkpoints,omitempty"`
	Err         error         `json:"-"`
	Duration    time.Duration `json:"duration"`
}

// Passed reports whether the case completed without error.
func (r CaseResult) Passed() bool { return r.Status == StatusPassed }
