// internal/scenario/navigation.go
package scenario

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/xkilldash9x/folio/api/schemas"
)

// NavigationFlow clicks each navigation link in turn. It is a smoke test of
// interactivity; the content behind each link is not inspected.
type NavigationFlow struct {
	Links []string
}

func (s *NavigationFlow) Name() string { return "navigation_flow" }

func (s *NavigationFlow) Description() string {
	return "navigation links are clickable: " + strings.Join(s.Links, ", ")
}

func (s *NavigationFlow) Run(ctx context.Context, env *Env) error {
	if err := env.Open(ctx); err != nil {
		return err
	}
	env.Checkpoint(ctx, "navigation_start")

	for _, name := range s.Links {
		el, err := env.Await(ctx, schemas.ByLinkText(name))
		if err != nil {
			return err
		}
		if err := env.Click(ctx, el); err != nil {
			return fmt.Errorf("clicking %q: %w", name, err)
		}
		env.Logger.Info("Clicked navigation link.", zap.String("link", name))
		env.Checkpoint(ctx, ClickedLabel(name))
	}
	return nil
}

// ClickedLabel is the checkpoint taken after clicking the named link.
func ClickedLabel(name string) string {
	return "navigation_" + strings.ToLower(strings.Join(strings.Fields(name), "_")) + "_clicked"
}
