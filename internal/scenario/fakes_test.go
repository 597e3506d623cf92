// internal/scenario/fakes_test.go
package scenario

import (
	"context"
	"fmt"
	"time"

	"github.com/xkilldash9x/folio/api/schemas"
)

type fakeElement struct{ loc schemas.Locator }

func (e *fakeElement) Locator() schemas.Locator { return e.loc }

// fakeSession is a scripted page. Locators present in links resolve to an
// element carrying the mapped href; anything else times out.
type fakeSession struct {
	title    string
	links    map[schemas.Locator]string
	navErr   error
	clickErr map[string]error

	calls  []string
	slept  time.Duration
	closed bool
}

func newPortfolio() *fakeSession {
	return &fakeSession{
		title: "Arijit Singha Roy | Portfolio",
		links: map[schemas.Locator]string{
			schemas.ByLinkText("Home"):             "https://example.test/#home",
			schemas.ByLinkText("Portfolio"):        "https://example.test/#portfolio",
			schemas.ByLinkText("Contact"):          "https://example.test/#contact",
			schemas.ByHrefContains("linkedin.com"): "https://linkedin.com/in/x",
			schemas.ByHrefContains("github.com"):   "https://github.com/x",
		},
	}
}

func (s *fakeSession) ID() string { return "fake" }

func (s *fakeSession) Navigate(_ context.Context, url string) error {
	s.calls = append(s.calls, "navigate "+url)
	return s.navErr
}

func (s *fakeSession) Title(context.Context) (string, error) {
	s.calls = append(s.calls, "title")
	return s.title, nil
}

func (s *fakeSession) WaitClickable(_ context.Context, loc schemas.Locator, policy schemas.WaitPolicy) (schemas.Element, error) {
	s.calls = append(s.calls, "wait "+loc.Value)
	if _, ok := s.links[loc]; !ok {
		return nil, &schemas.TimeoutError{Condition: loc.String() + " to be clickable", Timeout: policy.Timeout}
	}
	return &fakeElement{loc: loc}, nil
}

func (s *fakeSession) Click(_ context.Context, el schemas.Element) error {
	name := el.Locator().Value
	s.calls = append(s.calls, "click "+name)
	return s.clickErr[name]
}

func (s *fakeSession) Attribute(_ context.Context, el schemas.Element, name string) (string, error) {
	if name != "href" {
		return "", fmt.Errorf("unexpected attribute %q", name)
	}
	s.calls = append(s.calls, "href "+el.Locator().Value)
	return s.links[el.Locator()], nil
}

func (s *fakeSession) Sleep(_ context.Context, d time.Duration) error {
	s.calls = append(s.calls, "settle")
	s.slept += d
	return nil
}

func (s *fakeSession) Close(context.Context) error {
	s.closed = true
	return nil
}

// recordingCapturer pretends every capture succeeds.
type recordingCapturer struct {
	labels []string
	fail   bool
}

func (c *recordingCapturer) Capture(_ context.Context, _ schemas.SessionContext, label string) string {
	c.labels = append(c.labels, label)
	if c.fail {
		return ""
	}
	return "/shots/" + label + ".png"
}
