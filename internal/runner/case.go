// internal/runner/case.go
package runner

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/xkilldash9x/folio/api/schemas"
)

// Case owns the browser session of a single test case. It replaces ambient
// per-thread storage: every concurrently running case holds its own Case.
type Case struct {
	factory schemas.SessionFactory
	logger  *zap.Logger

	mu      sync.Mutex
	session schemas.SessionContext
}

// NewCase creates a case that will obtain its session from factory.
func NewCase(factory schemas.SessionFactory, logger *zap.Logger) *Case {
	return &Case{factory: factory, logger: logger}
}

// SetUp creates the case's session. It fails with schemas.ErrSessionActive if
// a session from an earlier SetUp has not been torn down. Creation failures are
// returned as *schemas.EnvironmentError and not retried.
func (c *Case) SetUp(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session != nil {
		return schemas.ErrSessionActive
	}

	session, err := c.factory.NewSession(ctx)
	if err != nil {
		var envErr *schemas.EnvironmentError
		if errors.As(err, &envErr) {
			return err
		}
		return &schemas.EnvironmentError{Op: "session setup", Err: err}
	}
	if session == nil {
		return &schemas.EnvironmentError{Op: "session setup", Err: errors.New("factory returned no session")}
	}

	c.session = session
	c.logger.Debug("Session acquired.", zap.String("session_id", session.ID()))
	return nil
}

// Session returns the session held by the case, or nil.
func (c *Case) Session() schemas.SessionContext {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// TearDown closes the session if one is held and forgets it. Calling it again,
// or without a prior SetUp, does nothing.
func (c *Case) TearDown(ctx context.Context) error {
	c.mu.Lock()
	session := c.session
	c.session = nil
	c.mu.Unlock()

	if session == nil {
		return nil
	}
	if err := session.Close(ctx); err != nil {
		return fmt.Errorf("failed to close session %s: %w", session.ID(), err)
	}
	c.logger.Debug("Session released.", zap.String("session_id", session.ID()))
	return nil
}
