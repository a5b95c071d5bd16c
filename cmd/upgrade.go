package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"launchpad/internal/install"
	"launchpad/internal/pantry"
	"launchpad/internal/progress"
)

var upgradeCmd = &cobra.Command{
	Use:     "upgrade [package...]",
	Aliases: []string{"update", "up"},
	Short:   "Upgrade installed packages to their latest available version",
	Args:    cobra.ArbitraryArgs,
	RunE:    runUpgrade,
}

func init() {
	rootCmd.AddCommand(upgradeCmd)
}

func runUpgrade(cmd *cobra.Command, args []string) error {
	s := settings()
	prefix := resolvedPrefix(s)
	adapter := pantry.New(pantry.DefaultCatalog())

	targets := args
	if len(targets) == 0 {
		installed, err := install.List(prefix)
		if err != nil {
			return err
		}
		for _, pkg := range installed {
			targets = append(targets, pkg.Domain)
		}
	}

	svc := newServiceManager(s)
	o := newOrchestrator(svc)
	opts := installOptions(s, prefix, 3, true, true, true)

	var requests []string
	for _, domain := range targets {
		versions := adapter.Versions(adapter.ResolveAlias(domain))
		if len(versions) == 0 {
			continue
		}
		requests = append(requests, fmt.Sprintf("%s@%s", domain, versions[0]))
	}
	if len(requests) == 0 {
		fmt.Println("nothing to upgrade")
		return nil
	}

	bar := progress.New("upgrading")
	bar.Start(quietFlag)
	stop := progress.WatchSignals(bar)
	defer stop()

	results, err := o.Install(cmd.Context(), requests, opts)
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
		fmt.Printf("✓ %s@%s\n", r.Domain, r.Version)
	}
	if failed > 0 {
		return fmt.Errorf("%d package(s) failed to upgrade", failed)
	}
	return nil
}
