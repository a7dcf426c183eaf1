package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Dallionking/talenthub/internal/application"
	"github.com/Dallionking/talenthub/internal/draft"
	"github.com/Dallionking/talenthub/internal/tui/styles"
)

var (
	draftJSON bool
	draftYes  bool
	draftStep int
)

var draftCmd = &cobra.Command{
	Use:   "draft",
	Short: "Inspect and manage the saved draft",
	Long: `The wizard autosaves the application you are working on. These
commands read, export, replace or clear that draft.`,
}

var draftShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the saved draft",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openDraftStore(false)
		if err != nil {
			return err
		}
		snap, ok := store.Load()
		out := cmd.OutOrStdout()
		if !ok {
			fmt.Fprintln(out, styles.Dim("No saved draft."))
			return nil
		}
		if cmd.Flags().Changed("json") || cmd.Flags().Changed("yaml") {
			return encode(out, snap, draftJSON)
		}

		d := snap.Data
		name := d.FirstName + " " + d.LastName
		fmt.Fprintln(out, styles.Title.Render("Saved draft"))
		fmt.Fprintln(out)
		fmt.Fprintln(out, styles.Label.Render("CANDIDATE")+" "+styles.Value.Render(orDash(name)))
		fmt.Fprintln(out, styles.Label.Render("POSITION")+"  "+styles.Value.Render(orDash(d.DesiredPosition)))
		fmt.Fprintln(out, styles.Label.Render("STEP")+"      "+styles.Value.Render(fmt.Sprintf("%d. %s", int(snap.Step)+1, snap.Step)))
		if !snap.SavedAt.IsZero() {
			fmt.Fprintln(out, styles.Label.Render("SAVED")+"     "+styles.Value.Render(snap.SavedAt.Local().Format(time.DateTime)))
		}
		fmt.Fprintln(out)

		v := newValidator()
		for s := application.StepPersonal; s <= application.StepReview; s++ {
			errs := v.ValidateStep(s, d)
			mark := styles.Green("✓")
			note := ""
			if !errs.Empty() {
				mark = styles.Gold("•")
				note = styles.Dim(fmt.Sprintf("  %d to fix", len(errs)))
			}
			fmt.Fprintf(out, "  %s %s%s\n", mark, s.Title(), note)
		}
		return nil
	},
}

var draftClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the saved draft",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openDraftStore(false)
		if err != nil {
			return err
		}
		if _, ok := store.Load(); !ok {
			fmt.Fprintln(cmd.OutOrStdout(), styles.Dim("No saved draft."))
			return nil
		}
		ok, err := confirm("Delete the saved draft?", draftYes)
		if err != nil || !ok {
			return err
		}
		if err := store.Clear(); err != nil {
			return err
		}
		logger.Info("draft cleared from cli")
		fmt.Fprintln(cmd.OutOrStdout(), styles.Green("✓")+" Draft cleared")
		return nil
	},
}

var draftExportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Write the saved draft to a JSON or YAML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openDraftStore(false)
		if err != nil {
			return err
		}
		snap, ok := store.Load()
		if !ok {
			return fmt.Errorf("no saved draft to export")
		}
		if err := writeFile(args[0], snap.Data); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), styles.Green("✓")+" Draft written to "+args[0])
		return nil
	},
}

var draftImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the saved draft with an application file",
	Long: `Load a JSON or YAML application record as the current draft. The
wizard offers to restore it the next time it starts. Use --step to pick
the step it reopens on (1-6).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		step := application.Step(draftStep - 1)
		if !step.Valid() {
			return fmt.Errorf("--step must be between 1 and %d", application.StepCount)
		}
		data, err := readApplication(args[0])
		if err != nil {
			return err
		}
		store, err := openDraftStore(false)
		if err != nil {
			return err
		}
		if err := store.Save(data, step); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s Draft imported, resumes on %s\n", styles.Green("✓"), step)
		return nil
	},
}

var draftWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print draft changes as they happen",
	RunE: func(cmd *cobra.Command, args []string) error {
		fs, err := draft.NewFileStorage(paths.Draft, cfg.Draft.QuotaBytes)
		if err != nil {
			return err
		}
		w, err := draft.NewWatcher(fs.Dir(), logger)
		if err != nil {
			return err
		}
		defer w.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, styles.Dim("Watching "+fs.Dir()+" (ctrl+c to stop)"))
		for ev := range w.Watch(ctx) {
			mark := styles.Cyan("↻")
			if ev.Type == draft.EventRemoved {
				mark = styles.Red("✗")
			}
			fmt.Fprintf(out, "%s %s %-8s %s\n", styles.Dim(ev.Time.Format(time.TimeOnly)), mark, ev.Type, ev.Key)
		}
		return nil
	},
}

func orDash(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return "-"
	}
	return s
}

func init() {
	draftShowCmd.Flags().BoolVar(&draftJSON, "json", false, "print the draft as JSON")
	draftShowCmd.Flags().Bool("yaml", false, "print the draft as YAML")
	draftClearCmd.Flags().BoolVarP(&draftYes, "yes", "y", false, "do not ask for confirmation")
	draftImportCmd.Flags().IntVar(&draftStep, "step", 1, "step to resume on (1-6)")

	draftCmd.AddCommand(draftShowCmd, draftClearCmd, draftExportCmd, draftImportCmd, draftWatchCmd)
	rootCmd.AddCommand(draftCmd)
}
