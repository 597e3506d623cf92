// internal/browser/manager.go
package browser

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/xkilldash9x/folio/api/schemas"
	"github.com/xkilldash9x/folio/internal/config"
	"github.com/xkilldash9x/folio/internal/observability"
)

const defaultLaunchTimeout = 30 * time.Second

// ErrManagerClosed is returned by NewSession once Shutdown has begun.
var ErrManagerClosed = errors.New("browser manager is shut down")

// Manager launches a dedicated browser process for every session it hands out
// and tracks them so Shutdown can wait for stragglers.
type Manager struct {
	logger *zap.Logger
	cfg    config.BrowserConfig

	mu       sync.Mutex
	sessions map[string]*Session
	closing  bool
	// wg counts sessions from the start of their launch until Close. It is
	// only incremented under mu while closing is false.
	wg sync.WaitGroup
}

var _ schemas.SessionFactory = (*Manager)(nil)

// NewManager creates a browser manager. No browser is started until NewSession.
func NewManager(logger *zap.Logger, cfg config.BrowserConfig) *Manager {
	return &Manager{
		logger:   logger.Named("browser_manager"),
		cfg:      cfg,
		sessions: make(map[string]*Session),
	}
}

// NewSession launches a browser, opens a tab and verifies it responds. The
// headless setting is read here, at creation time. Launch failures are
// reported as *schemas.EnvironmentError and are not retried. After Shutdown
// has begun it fails with ErrManagerClosed.
func (m *Manager) NewSession(ctx context.Context) (schemas.SessionContext, error) {
	m.mu.Lock()
	if m.closing {
		m.mu.Unlock()
		return nil, ErrManagerClosed
	}
	m.wg.Add(1)
	m.mu.Unlock()

	id := uuid.New().String()
	log := m.logger.With(zap.String("session_id", id))

	// The session must outlive ctx, which typically only bounds setup.
	allocCtx, allocCancel := chromedp.NewExecAllocator(Detach(ctx), DefaultAllocatorOptions(m.cfg)...)

	ctxOpts := []chromedp.ContextOption{
		chromedp.WithLogf(observability.Logf(log, zapcore.InfoLevel)),
		chromedp.WithErrorf(observability.Logf(log, zapcore.WarnLevel)),
	}
	if m.cfg.Debug {
		ctxOpts = append(ctxOpts, chromedp.WithDebugf(observability.Logf(log, zapcore.DebugLevel)))
	}
	tabCtx, tabCancel := chromedp.NewContext(allocCtx, ctxOpts...)

	abort := func() {
		tabCancel()
		allocCancel()
	}
	if err := m.launch(ctx, tabCtx, abort); err != nil {
		abort()
		m.wg.Done()
		return nil, &schemas.EnvironmentError{Op: "browser launch", Err: err}
	}

	s := &Session{
		id:          id,
		ctx:         tabCtx,
		cancel:      tabCancel,
		allocCancel: allocCancel,
		logger:      log,
	}

	s.onClose = func() {
		m.mu.Lock()
		delete(m.sessions, id)
		m.mu.Unlock()
		m.wg.Done()
		log.Debug("Session removed from manager.")
	}

	m.mu.Lock()
	closing := m.closing
	if !closing {
		m.sessions[id] = s
	}
	m.mu.Unlock()

	// Shutdown began while this browser was launching.
	if closing {
		_ = s.Close(ctx)
		return nil, ErrManagerClosed
	}

	log.Info("Browser session started.", zap.Bool("headless", m.cfg.Headless))
	return s, nil
}

// launch allocates the browser on tabCtx and loads about:blank. The first Run
// on a chromedp context owns the browser, so it must not carry a deadline of
// its own; the launch timeout is enforced around it instead, calling abort
// to tear the half-started browser down.
func (m *Manager) launch(ctx context.Context, tabCtx context.Context, abort func()) error {
	timeout := m.cfg.LaunchTimeout
	if timeout <= 0 {
		timeout = defaultLaunchTimeout
	}
	launchCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- chromedp.Run(tabCtx)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start browser: %w", err)
		}
	case <-launchCtx.Done():
		abort()
		<-errCh
		return fmt.Errorf("browser did not start within %s: %w", timeout, launchCtx.Err())
	}

	runCtx, stop := CombineContext(tabCtx, launchCtx)
	defer stop()
	if err := chromedp.Run(runCtx, chromedp.Navigate("about:blank")); err != nil {
		return fmt.Errorf("browser failed to respond: %w", err)
	}
	return nil
}

// ActiveSessions returns the number of sessions not yet closed.
func (m *Manager) ActiveSessions() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Shutdown stops new sessions, closes any still open and waits for them,
// including ones mid-launch, respecting ctx.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	m.closing = true
	open := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		open = append(open, s)
	}
	m.mu.Unlock()

	if len(open) > 0 {
		m.logger.Warn("Closing sessions left open at shutdown.", zap.Int("count", len(open)))
	}
	for _, s := range open {
		_ = s.Close(ctx)
	}

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("timed out waiting for browser sessions to close: %w", ctx.Err())
	}
}
