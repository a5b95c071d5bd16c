package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"launchpad/internal/install"
	"launchpad/internal/logging"
	"launchpad/internal/manifest"
	"launchpad/internal/progress"
)

var (
	installConcurrency  int
	installNoDeps       bool
	installNoCompanions bool
	installForce        bool
)

var installCmd = &cobra.Command{
	Use:     "install [package...]",
	Aliases: []string{"i"},
	Short:   "Install one or more packages",
	Args:    cobra.MinimumNArgs(1),
	RunE:    runInstall,
}

func init() {
	rootCmd.AddCommand(installCmd)
	installCmd.Flags().IntVar(&installConcurrency, "concurrency", 3, "Maximum concurrent package installs")
	installCmd.Flags().BoolVar(&installNoDeps, "no-deps", false, "Skip transitive dependency installation")
	installCmd.Flags().BoolVar(&installNoCompanions, "no-companions", false, "Skip companion package installation")
	installCmd.Flags().BoolVar(&installForce, "force", false, "Bypass the ready-marker fast path")
}

func runInstall(cmd *cobra.Command, args []string) error {
	s := settings()
	prefix := resolvedPrefix(s)
	svc := newServiceManager(s)
	o := newOrchestrator(svc)

	opts := installOptions(s, prefix, installConcurrency, !installNoDeps, !installNoCompanions, installForce)

	bar := progress.New("installing")
	bar.Start(quietFlag)
	stop := progress.WatchSignals(bar)
	defer stop()

	results, err := o.Install(cmd.Context(), args, opts)
	bar.Stop()
	if err != nil {
		return err
	}

	var failed int
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Printf("✗ %s@%s: %v\n", r.Domain, r.Version, r.Err)
			continue
		}
		fmt.Printf("✓ %s@%s -> %s\n", r.Domain, r.Version, r.PkgDir)
	}

	recordInstalledVersions(results)

	if failed > 0 {
		return fmt.Errorf("%d of %d packages failed to install", failed, len(results))
	}
	return nil
}

// recordInstalledVersions stamps each successfully installed package's
// version into the project's package.json, when present. `outdated` does
// not read these entries; it inspects the install prefix instead.
func recordInstalledVersions(results []install.Result) {
	cwd, err := os.Getwd()
	if err != nil {
		return
	}
	path, ok := manifest.Detect(cwd)
	if !ok || !strings.HasSuffix(path, "package.json") {
		return
	}
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		if err := manifest.RecordLaunchpadVersion(path, r.Domain, r.Version); err != nil {
			logging.Debug("install", "could not record installed version for %s: %v", r.Domain, err)
		}
	}
}
