package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"launchpad/internal/install"
	"launchpad/internal/shim"
)

var stubCmd = &cobra.Command{
	Use:     "stub [package...]",
	Aliases: []string{"shim"},
	Short:   "Regenerate shims for already-installed packages",
	Args:    cobra.MinimumNArgs(1),
	RunE:    runStub,
}

func init() {
	rootCmd.AddCommand(stubCmd)
}

func runStub(cmd *cobra.Command, args []string) error {
	s := settings()
	prefix := resolvedPrefix(s)

	var failed int
	for _, name := range args {
		pkg, ok := install.Find(prefix, name)
		if !ok {
			fmt.Printf("✗ %s: not installed\n", name)
			failed++
			continue
		}

		written, err := shim.Generate(pkg.Dir, prefix, shim.RuntimeEnv(pkg.Dir, nil))
		if err != nil {
			fmt.Printf("✗ %s: %v\n", name, err)
			failed++
			continue
		}
		fmt.Printf("✓ %s@%s: %d shim(s)\n", pkg.Domain, pkg.Version, len(written))
	}

	if failed > 0 {
		return fmt.Errorf("%d package(s) failed to re-shim", failed)
	}
	return nil
}
