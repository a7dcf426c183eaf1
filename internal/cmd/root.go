package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/Dallionking/talenthub/internal/config"
	"github.com/Dallionking/talenthub/internal/logging"
)

var (
	cfgFile string
	verbose bool
	noColor bool
)

// Loaded by the root command before any subcommand runs.
var (
	cfg       *config.Config
	paths     *config.Paths
	logger    = logging.Discard()
	logCloser io.Closer
)

// errReported is returned after a command has already printed why it
// failed; Execute only turns it into a non-zero exit.
var errReported = errors.New("command failed")

var rootCmd = &cobra.Command{
	Use:   "talenthub",
	Short: "Apply for a job from your terminal",
	Long: `TalentHub: the hiring application wizard

Walks you through a six-step job application, autosaves your progress
as a local draft and keeps a record of everything you submit.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadEnvironment()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCloser != nil {
			_ = logCloser.Close()
			logCloser = nil
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil && !errors.Is(err, errReported) {
		fmt.Fprintln(rootCmd.ErrOrStderr(), "Error:", err)
	}
	return err
}

func init() {
	cobra.OnInitialize(initColor)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./talenthub.yaml or ~/.talenthub/talenthub.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable color output")
}

func initColor() {
	if noColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// requireValidConfig fails when the loaded configuration has problems.
// `doctor` and `config` run without it so they can report them.
func requireValidConfig() error {
	errs := config.Validate(cfg)
	if len(errs) == 0 {
		return nil
	}
	joined := make([]error, len(errs))
	for i, e := range errs {
		joined[i] = e
	}
	return fmt.Errorf("invalid configuration (run talenthub doctor): %w", errors.Join(joined...))
}

// loadEnvironment reads the configuration, resolves paths and opens the log
// file. The TUI owns the terminal, so logs only ever go to the file.
func loadEnvironment() error {
	c, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	cfg = c
	paths = config.NewPaths(c)

	level, _ := logging.ParseLevel(c.Log.Level)
	if verbose {
		level = slog.LevelDebug
	}
	l, closer, err := logging.OpenFile(paths.LogFile, logging.WithLevel(level), logging.WithJSON(c.Log.JSON))
	if err != nil {
		// Logging is best effort; carry on without it.
		logger = logging.Discard()
		return nil
	}
	logger, logCloser = l, closer
	logger.Debug("configuration loaded", "source", c.Source, "dataDir", paths.Data)
	return nil
}
