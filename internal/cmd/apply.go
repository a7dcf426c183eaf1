package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Dallionking/talenthub/internal/tui/models"
	"github.com/Dallionking/talenthub/internal/tui/views"
)

var (
	applyFresh     bool
	applyExplain   bool
	applyEphemeral bool
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Fill in and submit a job application",
	Long: `Launch the interactive application wizard.

The six steps are Personal, Summary, Experience, Projects & Education,
Documents and Review. Every change is autosaved; when a saved draft exists
you are offered to restore it. Submitted applications are kept in the
outbox (see 'talenthub submissions').`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireValidConfig(); err != nil {
			return err
		}
		ctrl, err := newController(applyEphemeral)
		if err != nil {
			return err
		}
		if applyFresh {
			ctrl.DiscardDraft()
			ctrl.Notices()
		}
		logger.Info("wizard started", "fresh", applyFresh, "ephemeral", applyEphemeral)
		return views.RunApply(ctrl, models.ApplyOptions{
			Explain:    applyExplain,
			ResetDelay: cfg.Submission.ResetDelay,
			Logger:     logger,
		})
	},
}

func init() {
	applyCmd.Flags().BoolVar(&applyFresh, "fresh", false, "discard any saved draft and start over")
	applyCmd.Flags().BoolVar(&applyExplain, "explain", false, "show the rules of each step")
	applyCmd.Flags().BoolVar(&applyEphemeral, "ephemeral", false, "keep the draft in memory only")
	rootCmd.AddCommand(applyCmd)
}
