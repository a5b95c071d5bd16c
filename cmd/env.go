package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"launchpad/internal/config"
	"launchpad/internal/environment"
)

var (
	envCleanOlderThan string
	envCleanDryRun    bool
	envInspectShims   bool
	envRemoveForce    bool
)

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Manage per-project environments",
}

var envListCmd = &cobra.Command{
	Use:   "list",
	Short: "List per-project environments",
	Args:  cobra.NoArgs,
	RunE:  runEnvList,
}

var envInspectCmd = &cobra.Command{
	Use:   "inspect <name>",
	Short: "Show details for one environment",
	Args:  cobra.ExactArgs(1),
	RunE:  runEnvInspect,
}

var envCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove empty or stale environments",
	Args:  cobra.NoArgs,
	RunE:  runEnvClean,
}

var envRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove one environment",
	Args:  cobra.ExactArgs(1),
	RunE:  runEnvRemove,
}

func init() {
	rootCmd.AddCommand(envCmd)
	envCmd.AddCommand(envListCmd, envInspectCmd, envCleanCmd, envRemoveCmd)

	envInspectCmd.Flags().BoolVar(&envInspectShims, "shims", false, "Include each listed binary's shim contents in the output")
	envCleanCmd.Flags().StringVar(&envCleanOlderThan, "older-than", "", "Also remove environments untouched for longer than this (e.g. 720h); empty or bin-less environments are always removed")
	envCleanCmd.Flags().BoolVar(&envCleanDryRun, "dry-run", false, "Print what would be removed without removing it")
	envRemoveCmd.Flags().BoolVar(&envRemoveForce, "force", false, "Confirm removal (required; without it nothing is removed)")
}

func runEnvList(cmd *cobra.Command, args []string) error {
	infos, err := environment.List(config.EnvsDir())
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		fmt.Println("no environments found")
		return nil
	}
	environment.RenderList(cmd.OutOrStdout(), infos)
	return nil
}

func runEnvInspect(cmd *cobra.Command, args []string) error {
	out, err := environment.Inspect(config.EnvsDir(), args[0], envInspectShims)
	if err != nil {
		return err
	}
	fmt.Println(out)
	return nil
}

func runEnvClean(cmd *cobra.Command, args []string) error {
	var olderThan time.Duration
	if envCleanOlderThan != "" {
		d, err := time.ParseDuration(envCleanOlderThan)
		if err != nil {
			return fmt.Errorf("invalid --older-than duration: %w", err)
		}
		olderThan = d
	}

	removed, err := environment.Clean(config.EnvsDir(), environment.CleanCriteria{OlderThan: olderThan}, envCleanDryRun)
	if err != nil {
		return err
	}
	if len(removed) == 0 {
		fmt.Println("nothing to clean")
		return nil
	}
	verb := "removed"
	if envCleanDryRun {
		verb = "would remove"
	}
	for _, name := range removed {
		fmt.Printf("%s %s\n", verb, name)
	}
	return nil
}

func runEnvRemove(cmd *cobra.Command, args []string) error {
	if err := environment.Remove(config.EnvsDir(), args[0], envRemoveForce); err != nil {
		return err
	}
	fmt.Printf("removed %s\n", args[0])
	return nil
}
