// internal/scenario/scenario.go
package scenario

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/xkilldash9x/folio/api/schemas"
	"github.com/xkilldash9x/folio/internal/config"
)

// Scenario is one complete test case against the site under test. Run drives
// env.Session sequentially and returns the first failure; it never retries
// beyond the wait policy's polling.
type Scenario interface {
	Name() string
	Description() string
	Run(ctx context.Context, env *Env) error
}

// Checkpointer captures the session's current view under a label.
type Checkpointer interface {
	Capture(ctx context.Context, session schemas.SessionContext, label string) string
}

// Env is the per-case state handed to a scenario. Each case builds its own, so
// scenarios running concurrently share nothing.
type Env struct {
	Session schemas.SessionContext
	Policy  schemas.WaitPolicy
	BaseURL string
	// Capturer may be nil, which disables checkpoints.
	Capturer Checkpointer
	Tracker  *Tracker
	Logger   *zap.Logger

	checkpoints []string
}

// NewEnv prepares the state for one scenario run on session.
func NewEnv(session schemas.SessionContext, cfg *config.Config, capturer Checkpointer, logger *zap.Logger) *Env {
	return &Env{
		Session:  session,
		Policy:   cfg.Wait.Policy(),
		BaseURL:  cfg.Target.BaseURL,
		Capturer: capturer,
		Tracker:  NewTracker(),
		Logger:   logger,
	}
}

// Checkpoints returns the labels captured so far.
func (e *Env) Checkpoints() []string {
	out := make([]string, len(e.checkpoints))
	copy(out, e.checkpoints)
	return out
}

// Open navigates to the base URL and waits for the page to settle.
func (e *Env) Open(ctx context.Context) error {
	if err := e.Session.Navigate(ctx, e.BaseURL); err != nil {
		return err
	}
	if err := e.Tracker.To(schemas.StateNavigated); err != nil {
		return err
	}
	return e.settle(ctx)
}

// Checkpoint captures a screenshot. Failures are logged by the capturer and
// never returned.
func (e *Env) Checkpoint(ctx context.Context, label string) {
	if e.Capturer == nil {
		return
	}
	if path := e.Capturer.Capture(ctx, e.Session, label); path != "" {
		e.checkpoints = append(e.checkpoints, label)
	}
}

// Await polls until loc is clickable within the wait policy.
func (e *Env) Await(ctx context.Context, loc schemas.Locator) (schemas.Element, error) {
	if err := e.Tracker.To(schemas.StateWaiting); err != nil {
		return nil, err
	}
	e.Logger.Debug("Waiting for element.", zap.Stringer("locator", loc))
	el, err := e.Session.WaitClickable(ctx, loc, e.Policy)
	if err != nil {
		return nil, err
	}
	if err := e.Tracker.To(schemas.StateFound); err != nil {
		return nil, err
	}
	return el, nil
}

// Click clicks el and lets the page settle.
func (e *Env) Click(ctx context.Context, el schemas.Element) error {
	if err := e.Session.Click(ctx, el); err != nil {
		return err
	}
	if err := e.Tracker.To(schemas.StateActed); err != nil {
		return err
	}
	return e.settle(ctx)
}

// Acted records a non-click interaction such as an attribute read.
func (e *Env) Acted() error {
	return e.Tracker.To(schemas.StateActed)
}

func (e *Env) settle(ctx context.Context) error {
	return e.Session.Sleep(ctx, e.Policy.Settle)
}

// Execute runs sc and drives env.Tracker to Completed or Failed.
func Execute(ctx context.Context, sc Scenario, env *Env) error {
	if err := sc.Run(ctx, env); err != nil {
		env.Tracker.Fail(err)
		return err
	}
	if err := env.Tracker.To(schemas.StateCompleted); err != nil {
		env.Tracker.Fail(err)
		return err
	}
	return nil
}

// Catalog returns the standard scenarios configured from cfg, in run order.
func Catalog(cfg *config.Config) []Scenario {
	return []Scenario{
		&HomePageLoad{ExpectedTitle: cfg.Target.ExpectedTitle},
		&NavigationFlow{Links: cfg.Target.NavLinks},
		&SocialLinks{Domains: cfg.Target.SocialDomains},
	}
}

// Select filters all down to the named scenarios, keeping catalog order. No
// names selects everything.
func Select(all []Scenario, names []string) ([]Scenario, error) {
	if len(names) == 0 {
		return all, nil
	}

	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[strings.TrimSpace(n)] = true
	}

	var selected []Scenario
	for _, sc := range all {
		if want[sc.Name()] {
			selected = append(selected, sc)
			delete(want, sc.Name())
		}
	}

	if len(want) > 0 {
		unknown := make([]string, 0, len(want))
		for n := range want {
			unknown = append(unknown, n)
		}
		sort.Strings(unknown)
		return nil, fmt.Errorf("unknown scenario(s): %s", strings.Join(unknown, ", "))
	}
	return selected, nil
}
