// internal/browser/browser_helper_test.go
package browser

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/xkilldash9x/folio/internal/config"
)

const (
	testTimeout     = 90 * time.Second
	shutdownTimeout = 15 * time.Second
)

// portfolioPage is a minimal stand-in for the site under test. Clicking a nav
// link rewrites the title so tests can observe that the click landed.
const portfolioPage = `<!DOCTYPE html>
<html>
<head><title>Arijit Singha Roy | Portfolio</title></head>
<body>
  <nav>
    <a href="#home" onclick="document.title='clicked Home'">Home</a>
    <a href="#portfolio" onclick="document.title='clicked Portfolio'">Portfolio</a>
    <a href="#contact" onclick="document.title='clicked Contact'">Contact</a>
  </nav>
  <footer>
    <a href="https://www.linkedin.com/in/someone">LinkedIn</a>
    <a href="https://github.com/someone">GitHub</a>
    <a href="/cv.pdf">CV</a>
    <a href="#hidden" style="display:none">Hidden</a>
  </footer>
</body>
</html>`

type testFixture struct {
	Manager *Manager
	Logger  *zap.Logger
	Server  *httptest.Server
	Ctx     context.Context
}

// newTestFixture starts the fake portfolio site and a headless manager. It
// skips the test when no browser is installed.
func newTestFixture(t *testing.T) *testFixture {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping browser integration test in short mode")
	}
	chrome := FindExecPath()
	if chrome == "" {
		t.Skip("no Chrome or Chromium binary found; set CHROME_PATH to run browser tests")
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, portfolioPage)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	logger := zaptest.NewLogger(t, zaptest.Level(zap.InfoLevel))
	cfg := config.BrowserConfig{
		Headless:      true,
		ExecPath:      chrome,
		LaunchTimeout: 60 * time.Second,
	}
	m := NewManager(logger, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	t.Cleanup(func() {
		sctx, scancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer scancel()
		require.NoError(t, m.Shutdown(sctx))
		cancel()
	})

	return &testFixture{Manager: m, Logger: logger, Server: server, Ctx: ctx}
}

// newSession opens a session that is closed at the end of the test.
func (f *testFixture) newSession(t *testing.T) *Session {
	t.Helper()
	s, err := f.Manager.NewSession(f.Ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s.(*Session)
}
