package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"launchpad/internal/install"
)

var uninstallCmd = &cobra.Command{
	Use:     "uninstall [package...]",
	Aliases: []string{"rm"},
	Short:   "Remove installed packages and their shims",
	Args:    cobra.MinimumNArgs(1),
	RunE:    runUninstall,
}

func init() {
	rootCmd.AddCommand(uninstallCmd)
}

func runUninstall(cmd *cobra.Command, args []string) error {
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

		removeShims(prefix, pkg.Dir)

		if err := install.Remove(prefix, pkg.Domain); err != nil {
			fmt.Printf("✗ %s: %v\n", name, err)
			failed++
			continue
		}
		fmt.Printf("✓ removed %s@%s\n", pkg.Domain, pkg.Version)
	}

	if failed > 0 {
		return fmt.Errorf("%d package(s) failed to uninstall", failed)
	}
	return nil
}

// removeShims deletes any bin/sbin shims in prefix that point at a binary
// under pkgDir, so an uninstall doesn't leave a dangling launcher script.
func removeShims(prefix, pkgDir string) {
	for _, sub := range []string{"bin", "sbin"} {
		shimDir := filepath.Join(prefix, sub)
		entries, err := os.ReadDir(shimDir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			path := filepath.Join(shimDir, e.Name())
			data, err := os.ReadFile(path)
			if err != nil {
				continue
			}
			if strings.Contains(string(data), pkgDir) {
				os.Remove(path)
			}
		}
	}
}
