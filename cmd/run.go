// File: cmd/run.go
package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xkilldash9x/folio/api/schemas"
	"github.com/xkilldash9x/folio/internal/browser"
	"github.com/xkilldash9x/folio/internal/capture"
	"github.com/xkilldash9x/folio/internal/config"
	"github.com/xkilldash9x/folio/internal/observability"
	"github.com/xkilldash9x/folio/internal/runner"
	"github.com/xkilldash9x/folio/internal/scenario"
)

const shutdownTimeout = 30 * time.Second

// flagBindings maps run flags onto their configuration keys.
var flagBindings = map[string]string{
	"headless":       "browser.headless",
	"url":            "target.base_url",
	"scenario":       "runner.scenarios",
	"concurrency":    "runner.concurrency",
	"screenshot-dir": "screenshots.dir",
	"screenshots":    "screenshots.enabled",
	"timeout":        "wait.timeout",
	"settle":         "wait.settle",
}

func newRunCmd(st *cliState) *cobra.Command {
	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the end-to-end scenarios against the target site",
		Long: `Launches a fresh browser for every scenario, drives it through the
checks and writes a screenshot at each checkpoint. The command exits non-zero
if any scenario fails.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenarios(cmd.Context(), st.cfg, observability.GetLogger(), cmd.OutOrStdout())
		},
	}

	defaults := config.NewDefaultConfig()
	flags := runCmd.Flags()
	flags.Bool("headless", defaults.Browser.Headless, "run the browser without a window (also HEADLESS=true)")
	flags.String("url", defaults.Target.BaseURL, "base URL of the site under test")
	flags.StringSlice("scenario", nil, "scenario to run, repeatable (default all)")
	flags.Int("concurrency", defaults.Runner.Concurrency, "number of cases to run at once")
	flags.String("screenshot-dir", defaults.Screenshots.Dir, "directory for checkpoint screenshots")
	flags.Bool("screenshots", defaults.Screenshots.Enabled, "capture screenshots at checkpoints")
	flags.Duration("timeout", defaults.Wait.Timeout, "maximum wait for an element to become clickable")
	flags.Duration("settle", defaults.Wait.Settle, "pause after navigations and clicks")

	bindFlags(st.v, runCmd)
	return runCmd
}

// bindFlags makes changed flags override the config file and environment.
func bindFlags(v *viper.Viper, cmd *cobra.Command) {
	for name, key := range flagBindings {
		if f := cmd.Flags().Lookup(name); f != nil {
			// Lookup guarantees a non-nil flag, which is BindPFlag's only error.
			_ = v.BindPFlag(key, f)
		}
	}
}

// runScenarios executes the configured scenarios and prints one line per case.
func runScenarios(ctx context.Context, cfg *config.Config, logger *zap.Logger, out io.Writer) error {
	selected, err := scenario.Select(scenario.Catalog(cfg), cfg.Runner.Scenarios)
	if err != nil {
		return err
	}

	var checkpointer scenario.Checkpointer
	if cfg.Screenshots.Enabled {
		c, err := capture.New(cfg.Screenshots.Dir, logger)
		if err != nil {
			return err
		}
		checkpointer = c
		logger.Info("Screenshots enabled.", zap.String("dir", c.Dir()))
	}

	manager := browser.NewManager(logger, cfg.Browser)
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := manager.Shutdown(sctx); err != nil {
			logger.Warn("Browser manager did not shut down cleanly.", zap.Error(err))
		}
	}()

	logger.Info("Starting run.",
		zap.String("url", cfg.Target.BaseURL),
		zap.Bool("headless", cfg.Browser.Headless),
		zap.Int("scenarios", len(selected)),
	)

	results := runner.New(cfg, manager, checkpointer, logger).Run(ctx, selected)
	printResults(out, results)

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("run aborted: %w", err)
	}
	if sum := runner.Summarize(results); !sum.OK() {
		return fmt.Errorf("%d of %d scenarios failed", sum.Failed, sum.Total)
	}
	return nil
}

func printResults(out io.Writer, results []schemas.CaseResult) {
	for _, res := range results {
		if res.Passed() {
			fmt.Fprintf(out, "PASS  %-20s %s\n", res.Scenario, res.Duration.Round(time.Millisecond))
			continue
		}
		fmt.Fprintf(out, "FAIL  %-20s %s\n      %v\n", res.Scenario, res.Duration.Round(time.Millisecond), res.Err)
	}
	sum := runner.Summarize(results)
	fmt.Fprintf(out, "%d passed, %d failed\n", sum.Passed, sum.Failed)
}
