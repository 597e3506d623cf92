// internal/browser/session.go
package browser

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/xkilldash9x/folio/api/schemas"
)

// Session is one browser process with a single tab, owned by one test case.
// It implements schemas.SessionContext and schemas.Screenshotter.
type Session struct {
	id     string
	ctx    context.Context // tab context; carries the chromedp target
	cancel context.CancelFunc
	// allocCancel terminates the browser process.
	allocCancel context.CancelFunc
	logger      *zap.Logger

	onClose func()

	mu       sync.Mutex
	isClosed bool
}

var (
	_ schemas.SessionContext = (*Session)(nil)
	_ schemas.Screenshotter  = (*Session)(nil)
)

// element is a node located by WaitClickable.
type element struct {
	loc  schemas.Locator
	node *cdp.Node
}

func (e *element) Locator() schemas.Locator { return e.loc }

// ID returns the unique identifier for the session.
func (s *Session) ID() string {
	return s.id
}

// Navigate loads url and waits for the load event.
func (s *Session) Navigate(ctx context.Context, url string) error {
	s.logger.Debug("Navigating.", zap.String("url", url))
	if err := s.runActions(ctx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	return nil
}

// Title returns the current document title.
func (s *Session) Title(ctx context.Context) (string, error) {
	var title string
	if err := s.runActions(ctx, chromedp.Title(&title)); err != nil {
		return "", fmt.Errorf("failed to read page title: %w", err)
	}
	return title, nil
}

// WaitClickable polls until the first element matching loc is visible and
// enabled, bounded by policy.Timeout.
func (s *Session) WaitClickable(ctx context.Context, loc schemas.Locator, policy schemas.WaitPolicy) (schemas.Element, error) {
	waitCtx, cancel := context.WithTimeout(ctx, policy.Timeout)
	defer cancel()

	// The first match only, the way a single-element lookup behaves.
	sel := "(" + loc.XPath() + ")[1]"
	queryOpts := []chromedp.QueryOption{chromedp.BySearch}
	if policy.PollInterval > 0 {
		queryOpts = append(queryOpts, chromedp.RetryInterval(policy.PollInterval))
	}

	var nodes []*cdp.Node
	err := s.runActions(waitCtx,
		chromedp.WaitVisible(sel, queryOpts...),
		chromedp.WaitEnabled(sel, queryOpts...),
		chromedp.Nodes(sel, &nodes, queryOpts...),
	)
	if err != nil {
		if ctx.Err() == nil && errors.Is(waitCtx.Err(), context.DeadlineExceeded) {
			return nil, &schemas.TimeoutError{Condition: loc.String() + " to be clickable", Timeout: policy.Timeout, Err: err}
		}
		return nil, fmt.Errorf("waiting for %s: %w", loc, err)
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("waiting for %s: no node returned", loc)
	}

	s.logger.Debug("Element is clickable.", zap.Stringer("locator", loc))
	return &element{loc: loc, node: nodes[0]}, nil
}

// Click dispatches a left click at the center of el.
func (s *Session) Click(ctx context.Context, el schemas.Element) error {
	e, err := s.own(el)
	if err != nil {
		return err
	}
	if err := s.runActions(ctx, chromedp.MouseClickNode(e.node)); err != nil {
		return fmt.Errorf("failed to click %s: %w", e.loc, err)
	}
	return nil
}

// Attribute reads the named attribute of el. href and src are resolved against
// the current document URL, matching what the DOM property would report.
func (s *Session) Attribute(ctx context.Context, el schemas.Element, name string) (string, error) {
	e, err := s.own(el)
	if err != nil {
		return "", err
	}

	var (
		value    string
		ok       bool
		location string
	)
	ids := []cdp.NodeID{e.node.NodeID}
	if err := s.runActions(ctx,
		chromedp.AttributeValue(ids, name, &value, &ok, chromedp.ByNodeID),
		chromedp.Location(&location),
	); err != nil {
		return "", fmt.Errorf("failed to read %s of %s: %w", name, e.loc, err)
	}
	if !ok {
		return "", nil
	}

	if name == "href" || name == "src" {
		if resolved, err := resolveReference(location, value); err == nil {
			return resolved, nil
		}
	}
	return value, nil
}

func resolveReference(base, ref string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	r, err := url.Parse(ref)
	if err != nil {
		return "", err
	}
	return b.ResolveReference(r).String(), nil
}

// Sleep pauses for d, returning early if ctx or the session ends.
func (s *Session) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	return s.runActions(ctx, chromedp.Sleep(d))
}

// Screenshot captures the current viewport as PNG.
func (s *Session) Screenshot(ctx context.Context) ([]byte, error) {
	var buf []byte
	if err := s.runActions(ctx, chromedp.CaptureScreenshot(&buf)); err != nil {
		return nil, fmt.Errorf("failed to capture screenshot: %w", err)
	}
	return buf, nil
}

// Close terminates the tab and then the browser process. Only the first call
// has any effect.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.isClosed {
		s.mu.Unlock()
		return nil
	}
	s.isClosed = true
	s.mu.Unlock()

	s.logger.Debug("Closing browser session.")

	// Cancel contexts in reverse order of creation.
	if s.cancel != nil {
		s.cancel()
	}
	if s.allocCancel != nil {
		s.allocCancel()
	}

	if s.onClose != nil {
		s.onClose()
	}
	return nil
}

// own checks that el was produced by this package.
func (s *Session) own(el schemas.Element) (*element, error) {
	e, ok := el.(*element)
	if !ok || e == nil || e.node == nil {
		return nil, fmt.Errorf("element %T was not located by this session", el)
	}
	return e, nil
}

// runActions executes actions under both the session lifetime and ctx.
func (s *Session) runActions(ctx context.Context, actions ...chromedp.Action) error {
	s.mu.Lock()
	closed := s.isClosed
	s.mu.Unlock()
	if closed {
		return fmt.Errorf("session %s is closed", s.id)
	}

	runCtx, cancel := CombineContext(s.ctx, ctx)
	defer cancel()

	return chromedp.Run(runCtx, actions...)
}
