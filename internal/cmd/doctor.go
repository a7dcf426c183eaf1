package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Dallionking/talenthub/internal/health"
)

var (
	doctorCategory string
	doctorJSON     bool
)

var doctorCmd = &cobra.Command{
	Use:     "doctor",
	Aliases: []string{"health"},
	Short:   "Check configuration, draft storage and the outbox",
	Long: `Run diagnostic checks against the local installation.

Checks are grouped into categories:
  config   - config file, validation, upload policy
  storage  - data directory, saved draft, draft quota, log file
  outbox   - outbox directory and submission records

Use --category to run only one group. The command exits non-zero when
any check fails.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		checker := health.NewChecker(cfg)
		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		var report *health.Report
		if doctorCategory != "" {
			report = checker.RunCategory(ctx, doctorCategory)
			if report.Total == 0 {
				return fmt.Errorf("unknown category %q (want config, storage or outbox)", doctorCategory)
			}
		} else {
			report = checker.RunAll(ctx)
		}
		logger.Info("doctor finished", "passed", report.Passed, "warned", report.Warned, "failed", report.Failed)

		out := cmd.OutOrStdout()
		if doctorJSON {
			if err := encode(out, report, true); err != nil {
				return err
			}
		} else {
			fmt.Fprint(out, health.FormatReport(report))
		}
		if !report.Healthy {
			return errReported
		}
		return nil
	},
}

func init() {
	doctorCmd.Flags().StringVar(&doctorCategory, "category", "", "run checks in one category: config, storage or outbox")
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false, "print the report as JSON")
	rootCmd.AddCommand(doctorCmd)
}
