// internal/scenario/home.go
package scenario

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/xkilldash9x/folio/api/schemas"
)

// HomePageLoad checks that the landing page carries the owner's name in its title.
type HomePageLoad struct {
	ExpectedTitle string
}

func (s *HomePageLoad) Name() string { return "home_page_load" }

func (s *HomePageLoad) Description() string {
	return fmt.Sprintf("page title contains %q", s.ExpectedTitle)
}

func (s *HomePageLoad) Run(ctx context.Context, env *Env) error {
	if err := env.Open(ctx); err != nil {
		return err
	}
	env.Checkpoint(ctx, "homepage")

	title, err := env.Session.Title(ctx)
	if err != nil {
		return err
	}
	env.Logger.Info("Page loaded.", zap.String("title", title))

	if !strings.Contains(title, s.ExpectedTitle) {
		return &schemas.AssertionError{
			Message:  "title should contain the name",
			Expected: s.ExpectedTitle,
			Actual:   title,
		}
	}
	return nil
}
