// internal/scenario/social.go
package scenario

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/xkilldash9x/folio/api/schemas"
)

// SocialLinks checks that a link to each social domain is present and points there.
type SocialLinks struct {
	Domains []string
}

func (s *SocialLinks) Name() string { return "social_media_links" }

func (s *SocialLinks) Description() string {
	return "social links present: " + strings.Join(s.Domains, ", ")
}

func (s *SocialLinks) Run(ctx context.Context, env *Env) error {
	if err := env.Open(ctx); err != nil {
		return err
	}

	for _, domain := range s.Domains {
		el, err := env.Await(ctx, schemas.ByHrefContains(domain))
		if err != nil {
			return err
		}
		href, err := env.Session.Attribute(ctx, el, "href")
		if err != nil {
			return err
		}
		if err := env.Acted(); err != nil {
			return err
		}
		if !strings.Contains(href, domain) {
			return &schemas.AssertionError{
				Message:  "link href should contain the domain",
				Expected: domain,
				Actual:   href,
			}
		}
		env.Logger.Info("Social link found.", zap.String("domain", domain), zap.String("href", href))
	}
	return nil
}
