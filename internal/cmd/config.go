package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Dallionking/talenthub/internal/application"
	"github.com/Dallionking/talenthub/internal/config"
	"github.com/Dallionking/talenthub/internal/tui/styles"
)

var (
	configForce bool
	configJSON  bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show and create configuration",
	Long: `Display the effective configuration: the file it came from, the
resolved data paths and the upload policy. Values can be overridden with
TALENTHUB_* environment variables (e.g. TALENTHUB_LOG_LEVEL=debug).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if configJSON {
			return encode(out, cfg, true)
		}

		source := cfg.Source
		if source == "" {
			source = styles.Dim("(defaults)")
		}
		fmt.Fprintln(out, styles.Title.Render("Configuration"))
		fmt.Fprintln(out)
		fmt.Fprintln(out, styles.Label.Render("SOURCE")+"    "+styles.Value.Render(source))
		fmt.Fprintln(out, styles.Label.Render("DATA")+"      "+styles.Value.Render(paths.Data))
		fmt.Fprintln(out, styles.Label.Render("DRAFT")+"     "+styles.Value.Render(paths.Draft))
		fmt.Fprintln(out, styles.Label.Render("OUTBOX")+"    "+styles.Value.Render(paths.Outbox))
		fmt.Fprintln(out, styles.Label.Render("LOG")+"       "+styles.Value.Render(paths.LogFile+" ("+cfg.Log.Level+")"))
		fmt.Fprintln(out)
		fmt.Fprintln(out, styles.Divider(50))
		fmt.Fprintln(out)

		fmt.Fprintln(out, styles.Subtitle.Render("Uploads"))
		fmt.Fprintln(out, styles.Label.Render("  MAX SIZE")+"  "+styles.Value.Render(application.HumanBytes(cfg.Uploads.MaxBytes)))
		fmt.Fprintln(out, styles.Label.Render("  TYPES")+"     "+styles.Value.Render(strings.Join(cfg.Uploads.AllowedTypes, ", ")))
		fmt.Fprintln(out, styles.Label.Render("  EXTS")+"      "+styles.Value.Render(strings.Join(cfg.Uploads.AllowedExtensions, ", ")))
		fmt.Fprintln(out)

		fmt.Fprintln(out, styles.Subtitle.Render("Submission"))
		fmt.Fprintln(out, styles.Label.Render("  DELAY")+"     "+styles.Value.Render(cfg.Submission.Delay.String()))
		fmt.Fprintln(out, styles.Label.Render("  RESET")+"     "+styles.Value.Render(cfg.Submission.ResetDelay.String()))
		fmt.Fprintln(out, styles.Label.Render("  QUOTA")+"     "+styles.Value.Render(application.HumanBytes(cfg.Draft.QuotaBytes)))

		if errs := config.Validate(cfg); len(errs) > 0 {
			fmt.Fprintln(out)
			for _, e := range errs {
				fmt.Fprintln(out, "  "+styles.Red("✗")+" "+e.Error())
			}
		}
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the default configuration to a file",
	Long: `Write the default configuration as YAML. Without a path the file is
created as talenthub.yaml in the default data directory. Existing files
are left alone unless --force is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := filepath.Join(config.DefaultDataDir(), "talenthub.yaml")
		if len(args) == 1 {
			path = args[0]
		}
		if _, err := os.Stat(path); err == nil && !configForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		if err := config.Save(config.Default(), path); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), styles.Green("✓")+" Wrote "+path)
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file in use",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Source == "" {
			return errors.New("no config file found, running on defaults")
		}
		fmt.Fprintln(cmd.OutOrStdout(), cfg.Source)
		return nil
	},
}

func init() {
	configCmd.Flags().BoolVar(&configJSON, "json", false, "print the configuration as JSON")
	configInitCmd.Flags().BoolVarP(&configForce, "force", "f", false, "overwrite an existing file")
	configCmd.AddCommand(configInitCmd, configPathCmd)
	rootCmd.AddCommand(configCmd)
}
