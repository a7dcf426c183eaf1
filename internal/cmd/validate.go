package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Dallionking/talenthub/internal/application"
	"github.com/Dallionking/talenthub/internal/tui/styles"
)

var validateJSON bool

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Check an application file against every step's rules",
	Long: `Validate a JSON or YAML application record without opening the wizard.

Errors are grouped by wizard step. With --json the error map is printed
using the composite field keys (e.g. "experiences_0_endDate"). The command
exits non-zero when anything is invalid.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := readApplication(args[0])
		if err != nil {
			return err
		}
		errs := newValidator().ValidateAll(data)
		out := cmd.OutOrStdout()

		if validateJSON {
			if err := encode(out, errs, true); err != nil {
				return err
			}
		} else {
			printErrors(cmd, errs)
		}
		if !errs.Empty() {
			return errReported
		}
		return nil
	},
}

func printErrors(cmd *cobra.Command, errs application.ErrorMap) {
	out := cmd.OutOrStdout()
	if errs.Empty() {
		fmt.Fprintln(out, styles.Green("✓")+" "+styles.Bold("Application is valid"))
		return
	}
	for s := application.StepPersonal; s <= application.StepReview; s++ {
		var lines []string
		for _, key := range errs.Keys() {
			if application.StepOf(key) == s {
				lines = append(lines, fmt.Sprintf("  %s %-32s %s", styles.Red("✗"), key, styles.Dim(errs[key])))
			}
		}
		if len(lines) == 0 {
			continue
		}
		fmt.Fprintln(out, styles.Subtitle.Render(fmt.Sprintf("%d. %s", int(s)+1, s.Title())))
		for _, l := range lines {
			fmt.Fprintln(out, l)
		}
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, styles.Red(fmt.Sprintf("%d problem(s) found", len(errs))))
}

func init() {
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "print the error map as JSON")
	rootCmd.AddCommand(validateCmd)
}
