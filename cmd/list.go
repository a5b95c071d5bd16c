package cmd

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"launchpad/internal/install"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List installed packages",
	Args:    cobra.NoArgs,
	RunE:    runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	prefix := resolvedPrefix(settings())

	installed, err := install.List(prefix)
	if err != nil {
		return err
	}
	if len(installed) == 0 {
		fmt.Println("no packages installed")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{
		text.Colors{text.FgHiBlue, text.Bold}.Sprint("DOMAIN"),
		text.Colors{text.FgHiBlue, text.Bold}.Sprint("VERSION"),
		text.Colors{text.FgHiBlue, text.Bold}.Sprint("PATH"),
	})
	for _, p := range installed {
		t.AppendRow(table.Row{p.Domain, p.Version, p.Dir})
	}
	t.Render()
	return nil
}
