package cmd

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"launchpad/internal/install"
	"launchpad/internal/pantry"
)

var outdatedCmd = &cobra.Command{
	Use:   "outdated",
	Short: "List installed packages with a newer version available",
	Args:  cobra.NoArgs,
	RunE:  runOutdated,
}

func init() {
	rootCmd.AddCommand(outdatedCmd)
}

func runOutdated(cmd *cobra.Command, args []string) error {
	prefix := resolvedPrefix(settings())
	adapter := pantry.New(pantry.DefaultCatalog())

	installed, err := install.List(prefix)
	if err != nil {
		return err
	}

	type row struct{ domain, current, latest string }
	var outdated []row
	for _, pkg := range installed {
		versions := adapter.Versions(pkg.Domain)
		if len(versions) == 0 || versions[0] == pkg.Version {
			continue
		}
		outdated = append(outdated, row{pkg.Domain, pkg.Version, versions[0]})
	}

	if len(outdated) == 0 {
		fmt.Println("all packages up to date")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{
		text.Colors{text.FgHiBlue, text.Bold}.Sprint("DOMAIN"),
		text.Colors{text.FgHiBlue, text.Bold}.Sprint("CURRENT"),
		text.Colors{text.FgHiYellow, text.Bold}.Sprint("LATEST"),
	})
	for _, r := range outdated {
		t.AppendRow(table.Row{r.domain, r.current, r.latest})
	}
	t.Render()
	return nil
}
