// internal/scenario/scenario_test.go
package scenario

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/xkilldash9x/folio/api/schemas"
	"github.com/xkilldash9x/folio/internal/config"
)

const baseURL = "https://example.test/"

func newTestEnv(t *testing.T, session *fakeSession) (*Env, *recordingCapturer) {
	t.Helper()
	cfg := config.NewDefaultConfig()
	cfg.Target.BaseURL = baseURL
	cfg.Wait.Settle = 2 * time.Second

	capturer := &recordingCapturer{}
	return NewEnv(session, cfg, capturer, zaptest.NewLogger(t)), capturer
}

func catalogByName(t *testing.T, name string) Scenario {
	t.Helper()
	selected, err := Select(Catalog(config.NewDefaultConfig()), []string{name})
	require.NoError(t, err)
	require.Len(t, selected, 1)
	return selected[0]
}

func assertPath(t *testing.T, want []schemas.State, env *Env) {
	t.Helper()
	if diff := cmp.Diff(want, env.Tracker.Path()); diff != "" {
		t.Errorf("state path mismatch (-want +got):\n%s", diff)
	}
}

func TestHomePageLoad(t *testing.T) {
	t.Run("title containing the name passes", func(t *testing.T) {
		session := newPortfolio()
		env, capturer := newTestEnv(t, session)

		require.NoError(t, Execute(context.Background(), catalogByName(t, "home_page_load"), env))

		assert.Equal(t, []string{"homepage"}, capturer.labels)
		assert.Equal(t, []string{"homepage"}, env.Checkpoints())
		assert.Equal(t, []string{"navigate " + baseURL, "settle", "title"}, session.calls)
		assert.Equal(t, 2*time.Second, session.slept)
		assertPath(t, []schemas.State{schemas.StateStart, schemas.StateNavigated, schemas.StateCompleted}, env)
	})

	t.Run("404 page fails with expected and actual", func(t *testing.T) {
		session := newPortfolio()
		session.title = "404 Not Found"
		env, capturer := newTestEnv(t, session)

		err := Execute(context.Background(), catalogByName(t, "home_page_load"), env)

		var assertErr *schemas.AssertionError
		require.ErrorAs(t, err, &assertErr)
		assert.Equal(t, "Arijit Singha Roy", assertErr.Expected)
		assert.Equal(t, "404 Not Found", assertErr.Actual)
		assert.Equal(t, []string{"homepage"}, capturer.labels, "the checkpoint precedes the assertion")
		assertPath(t, []schemas.State{schemas.StateStart, schemas.StateNavigated, schemas.StateFailed}, env)
		assert.Same(t, err, env.Tracker.Reason())
	})

	t.Run("navigation failure halts before capture", func(t *testing.T) {
		session := newPortfolio()
		session.navErr = errors.New("net::ERR_NAME_NOT_RESOLVED")
		env, capturer := newTestEnv(t, session)

		err := Execute(context.Background(), catalogByName(t, "home_page_load"), env)
		assert.ErrorIs(t, err, session.navErr)
		assert.Empty(t, capturer.labels)
		assertPath(t, []schemas.State{schemas.StateStart, schemas.StateFailed}, env)
	})
}

func TestNavigationFlow(t *testing.T) {
	t.Run("clicks home, portfolio, contact with a capture after each", func(t *testing.T) {
		session := newPortfolio()
		env, capturer := newTestEnv(t, session)

		require.NoError(t, Execute(context.Background(), catalogByName(t, "navigation_flow"), env))

		want := []string{
			"navigation_start",
			"navigation_home_clicked",
			"navigation_portfolio_clicked",
			"navigation_contact_clicked",
		}
		assert.Equal(t, want, capturer.labels)
		assert.Equal(t, want, env.Checkpoints())

		wantCalls := []string{
			"navigate " + baseURL, "settle",
			"wait Home", "click Home", "settle",
			"wait Portfolio", "click Portfolio", "settle",
			"wait Contact", "click Contact", "settle",
		}
		if diff := cmp.Diff(wantCalls, session.calls); diff != "" {
			t.Errorf("call sequence mismatch (-want +got):\n%s", diff)
		}

		step := []schemas.State{schemas.StateWaiting, schemas.StateFound, schemas.StateActed}
		wantPath := []schemas.State{schemas.StateStart, schemas.StateNavigated}
		for range 3 {
			wantPath = append(wantPath, step...)
		}
		wantPath = append(wantPath, schemas.StateCompleted)
		assertPath(t, wantPath, env)
	})

	t.Run("missing link times out and halts", func(t *testing.T) {
		session := newPortfolio()
		delete(session.links, schemas.ByLinkText("Portfolio"))
		env, capturer := newTestEnv(t, session)

		err := Execute(context.Background(), catalogByName(t, "navigation_flow"), env)

		var timeoutErr *schemas.TimeoutError
		require.ErrorAs(t, err, &timeoutErr)
		assert.Contains(t, timeoutErr.Condition, `"Portfolio"`)
		assert.Equal(t, 10*time.Second, timeoutErr.Timeout)
		assert.NotContains(t, session.calls, "wait Contact", "no step runs after a failure")
		assert.Equal(t, []string{"navigation_start", "navigation_home_clicked"}, capturer.labels)
		assertPath(t, []schemas.State{
			schemas.StateStart, schemas.StateNavigated,
			schemas.StateWaiting, schemas.StateFound, schemas.StateActed,
			schemas.StateWaiting, schemas.StateFailed,
		}, env)
	})

	t.Run("click error names the link", func(t *testing.T) {
		session := newPortfolio()
		session.clickErr = map[string]error{"Home": errors.New("node is detached")}
		env, _ := newTestEnv(t, session)

		err := Execute(context.Background(), catalogByName(t, "navigation_flow"), env)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `clicking "Home"`)
		assert.Equal(t, schemas.StateFailed, env.Tracker.Current())
	})

	t.Run("capture failures do not fail the flow", func(t *testing.T) {
		session := newPortfolio()
		env, capturer := newTestEnv(t, session)
		capturer.fail = true

		require.NoError(t, Execute(context.Background(), catalogByName(t, "navigation_flow"), env))
		assert.Len(t, capturer.labels, 4)
		assert.Empty(t, env.Checkpoints())
	})
}

func TestSocialLinks(t *testing.T) {
	t.Run("linkedin and github hrefs pass", func(t *testing.T) {
		session := newPortfolio()
		env, capturer := newTestEnv(t, session)

		require.NoError(t, Execute(context.Background(), catalogByName(t, "social_media_links"), env))

		assert.Empty(t, capturer.labels)
		assert.Equal(t, []string{
			"navigate " + baseURL, "settle",
			"wait linkedin.com", "href linkedin.com",
			"wait github.com", "href github.com",
		}, session.calls)
	})

	t.Run("href pointing elsewhere fails the assertion", func(t *testing.T) {
		session := newPortfolio()
		session.links[schemas.ByHrefContains("linkedin.com")] = "https://twitter.com/x"
		env, _ := newTestEnv(t, session)

		err := Execute(context.Background(), catalogByName(t, "social_media_links"), env)

		var assertErr *schemas.AssertionError
		require.ErrorAs(t, err, &assertErr)
		assert.Equal(t, "linkedin.com", assertErr.Expected)
		assert.Equal(t, "https://twitter.com/x", assertErr.Actual)
		assert.NotContains(t, session.calls, "wait github.com")
	})

	t.Run("absent link fails within the wait bound", func(t *testing.T) {
		session := newPortfolio()
		delete(session.links, schemas.ByHrefContains("github.com"))
		env, _ := newTestEnv(t, session)

		err := Execute(context.Background(), catalogByName(t, "social_media_links"), env)

		var timeoutErr *schemas.TimeoutError
		require.ErrorAs(t, err, &timeoutErr)
		assert.Contains(t, timeoutErr.Condition, "github.com")
	})
}

func TestEnv_NoCapturer(t *testing.T) {
	session := newPortfolio()
	env, _ := newTestEnv(t, session)
	env.Capturer = nil

	require.NoError(t, Execute(context.Background(), catalogByName(t, "home_page_load"), env))
	assert.Empty(t, env.Checkpoints())
}

func TestClickedLabel(t *testing.T) {
	assert.Equal(t, "navigation_home_clicked", ClickedLabel("Home"))
	assert.Equal(t, "navigation_about_me_clicked", ClickedLabel("About  Me"))
}

func TestCatalogAndSelect(t *testing.T) {
	all := Catalog(config.NewDefaultConfig())
	names := make([]string, 0, len(all))
	for _, sc := range all {
		names = append(names, sc.Name())
		assert.NotEmpty(t, sc.Description())
	}
	assert.Equal(t, []string{"home_page_load", "navigation_flow", "social_media_links"}, names)

	t.Run("no names selects all", func(t *testing.T) {
		got, err := Select(all, nil)
		require.NoError(t, err)
		assert.Len(t, got, 3)
	})

	t.Run("keeps catalog order", func(t *testing.T) {
		got, err := Select(all, []string{"social_media_links", " home_page_load "})
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "home_page_load", got[0].Name())
		assert.Equal(t, "social_media_links", got[1].Name())
	})

	t.Run("unknown names are rejected", func(t *testing.T) {
		_, err := Select(all, []string{"home_page_load", "login", "checkout"})
		assert.EqualError(t, err, "unknown scenario(s): checkout, login")
	})
}
