package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"launchpad/internal/config"
	"launchpad/internal/errs"
	"launchpad/internal/logging"
)

// Exit codes for the launchpad CLI.
const (
	ExitCodeSuccess    = 0
	ExitCodeError      = 1
	ExitCodeNetwork    = 2
	ExitCodeFilesystem = 3
	ExitCodeTimeout    = 4
)

var (
	verboseFlag bool
	quietFlag   bool
)

// rootCmd is the entry point when launchpad is invoked without a
// subcommand.
var rootCmd = &cobra.Command{
	Use:   "launchpad",
	Short: "A developer-workstation package manager and service supervisor",
	Long: `launchpad installs language runtimes, libraries, and databases into a
shared prefix, wires shims onto PATH, and supervises the services a
project declares (Postgres, MySQL, Redis) as local processes.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(os.Stderr, verboseFlag || config.Load().Verbose)
	},
}

// SetVersion sets the version reported by --version, injected from main at
// build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the version currently set on the root command.
func GetVersion() string {
	return rootCmd.Version
}

// Execute runs the CLI and exits the process with a code derived from the
// returned error's kind, if any.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "launchpad version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		logging.Error("cli", err, "%v", err)
		os.Exit(getExitCode(err))
	}
}

func getExitCode(err error) int {
	var e *errs.Error
	if errors.As(err, &e) {
		switch e.Kind {
		case errs.KindNetwork:
			return ExitCodeNetwork
		case errs.KindFilesystem:
			return ExitCodeFilesystem
		case errs.KindTimeout:
			return ExitCodeTimeout
		}
	}
	return ExitCodeError
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Verbose logging (env: LAUNCHPAD_VERBOSE)")
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false, "Suppress progress output")
}
