package cmd

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/Dallionking/talenthub/internal/outbox"
	"github.com/Dallionking/talenthub/internal/tui/styles"
)

var (
	submissionsJSON bool
	withdrawYes     bool
)

var submissionsCmd = &cobra.Command{
	Use:     "submissions",
	Aliases: []string{"subs"},
	Short:   "List and manage submitted applications",
	Long: `Every submitted application is recorded in the outbox. IDs may be
abbreviated to any unique prefix.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return submissionsListCmd.RunE(cmd, args)
	},
}

var submissionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List submitted applications, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		box, err := openOutbox()
		if err != nil {
			return err
		}
		subs, err := box.List()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(subs) == 0 {
			fmt.Fprintln(out, styles.Dim("No submissions yet. Run 'talenthub apply' to start one."))
			return nil
		}

		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tSUBMITTED\tCANDIDATE\tPOSITION\tSTATUS")
		for _, s := range subs {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
				shortID(s.ID),
				s.SubmittedAt.Local().Format(time.DateTime),
				orDash(s.Candidate()),
				styles.TruncateWithEllipsis(orDash(s.Position()), 32),
				s.Status,
			)
		}
		if err := tw.Flush(); err != nil {
			return err
		}

		depth, err := box.Count()
		if err != nil {
			return err
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, styles.Dim(fmt.Sprintf("%d total, %d submitted, %d withdrawn", depth.Total(), depth.Submitted, depth.Withdrawn)))
		return nil
	},
}

var submissionsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print one submission as YAML or JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		box, err := openOutbox()
		if err != nil {
			return err
		}
		sub, err := box.Get(args[0])
		if err != nil {
			return notFound(args[0], err)
		}
		return encode(cmd.OutOrStdout(), sub, submissionsJSON)
	},
}

var submissionsWithdrawCmd = &cobra.Command{
	Use:   "withdraw <id>",
	Short: "Withdraw a submitted application",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		box, err := openOutbox()
		if err != nil {
			return err
		}
		sub, err := box.Get(args[0])
		if err != nil {
			return notFound(args[0], err)
		}
		out := cmd.OutOrStdout()
		if sub.Status == outbox.StatusWithdrawn {
			fmt.Fprintln(out, styles.Dim("Already withdrawn."))
			return nil
		}

		msg := fmt.Sprintf("Withdraw the application for %s?", orDash(sub.Position()))
		ok, err := confirm(msg, withdrawYes)
		if err != nil || !ok {
			return err
		}
		sub, err = box.Withdraw(sub.ID)
		if err != nil {
			return err
		}
		logger.Info("submission withdrawn", "id", sub.ID)
		fmt.Fprintf(out, "%s Withdrew %s\n", styles.Green("✓"), shortID(sub.ID))
		return nil
	},
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func notFound(id string, err error) error {
	if errors.Is(err, outbox.ErrNotFound) {
		return fmt.Errorf("no submission matches %q", id)
	}
	return err
}

func init() {
	submissionsShowCmd.Flags().BoolVar(&submissionsJSON, "json", false, "print JSON instead of YAML")
	submissionsWithdrawCmd.Flags().BoolVarP(&withdrawYes, "yes", "y", false, "do not ask for confirmation")

	submissionsCmd.AddCommand(submissionsListCmd, submissionsShowCmd, submissionsWithdrawCmd)
	rootCmd.AddCommand(submissionsCmd)
}
