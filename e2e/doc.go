// Package e2e runs the portfolio scenarios against the live site. The tests
// are skipped unless FOLIO_E2E is set and a Chrome binary is available.
//
//	FOLIO_E2E=1 HEADLESS=true go test ./e2e/ -v
package e2e
