package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"launchpad/internal/config"
	"launchpad/internal/manifest"
	"launchpad/internal/pantry"
	"launchpad/internal/service"
)

// defaultPorts gives each built-in supervisable domain a sensible default
// port, overridden by a project's deps.yaml services.<name>.port.
var defaultPorts = map[string]int{
	"postgresql.org": 5432,
	"mysql.com":      3306,
	"redis.io":       6379,
}

var serviceCmd = &cobra.Command{
	Use:   "service",
	Short: "Manage supervised project services",
}

var serviceStartCmd = &cobra.Command{Use: "start <name>", Args: cobra.ExactArgs(1), RunE: runServiceStart}
var serviceStopCmd = &cobra.Command{Use: "stop <name>", Args: cobra.ExactArgs(1), RunE: runServiceStop}
var serviceRestartCmd = &cobra.Command{Use: "restart <name>", Args: cobra.ExactArgs(1), RunE: runServiceRestart}
var serviceEnableCmd = &cobra.Command{Use: "enable <name>", Args: cobra.ExactArgs(1), RunE: runServiceEnable}
var serviceDisableCmd = &cobra.Command{Use: "disable <name>", Args: cobra.ExactArgs(1), RunE: runServiceDisable}
var serviceStatusCmd = &cobra.Command{Use: "status <name>", Args: cobra.ExactArgs(1), RunE: runServiceStatus}

func init() {
	rootCmd.AddCommand(serviceCmd)
	serviceCmd.AddCommand(serviceStartCmd, serviceStopCmd, serviceRestartCmd, serviceEnableCmd, serviceDisableCmd, serviceStatusCmd)
}

// buildInstance resolves name to a supervisable domain and constructs an
// Instance using the project's deps.yaml services.<name> configuration as
// template vars, falling back to defaults.
func buildInstance(name string) (*service.Instance, error) {
	adapter := pantry.New(pantry.DefaultCatalog())
	domain := adapter.ResolveAlias(name)
	if _, ok := service.Lookup(domain); !ok {
		return nil, fmt.Errorf("%s is not a supervisable service", name)
	}

	inst := service.NewInstance(name, domain)
	inst.Port = defaultPorts[domain]
	inst.DBUsername = "postgres"
	inst.AuthMethod = "trust"
	inst.ProjectDatabase = name

	dataRoot := filepath.Join(config.DataDir(), "services", name)
	inst.DataDir = filepath.Join(dataRoot, "data")
	inst.ConfigFile = filepath.Join(dataRoot, "config")
	inst.LogFile = filepath.Join(dataRoot, "log")
	inst.PidFile = filepath.Join(dataRoot, "pid")

	if cwd, err := os.Getwd(); err == nil {
		if m, _, err := manifest.Load(cwd); err == nil {
			if sc, ok := m.Services[name]; ok {
				if sc.Port != 0 {
					inst.Port = sc.Port
				}
				if sc.ProjectDatabase != "" {
					inst.ProjectDatabase = sc.ProjectDatabase
				}
				if sc.DBUsername != "" {
					inst.DBUsername = sc.DBUsername
				}
				if sc.AuthMethod != "" {
					inst.AuthMethod = sc.AuthMethod
				}
				inst.Config = toInterfaceMap(sc.Config)
			}
		}
	}

	return inst, nil
}

func toInterfaceMap(in map[string]string) map[string]interface{} {
	if in == nil {
		return nil
	}
	out := make(map[string]interface{}, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func runServiceStart(cmd *cobra.Command, args []string) error {
	inst, err := buildInstance(args[0])
	if err != nil {
		return err
	}
	svc := newServiceManager(settings())
	svc.Register(inst)
	if err := svc.Start(cmd.Context(), inst); err != nil {
		return err
	}
	fmt.Printf("%s: %s\n", inst.Name, inst.State())
	return nil
}

func runServiceStop(cmd *cobra.Command, args []string) error {
	inst, err := buildInstance(args[0])
	if err != nil {
		return err
	}
	svc := newServiceManager(settings())
	svc.Register(inst)
	if err := svc.Stop(cmd.Context(), inst); err != nil {
		return err
	}
	fmt.Printf("%s: %s\n", inst.Name, inst.State())
	return nil
}

func runServiceRestart(cmd *cobra.Command, args []string) error {
	inst, err := buildInstance(args[0])
	if err != nil {
		return err
	}
	svc := newServiceManager(settings())
	svc.Register(inst)
	if err := svc.Restart(cmd.Context(), inst); err != nil {
		return err
	}
	fmt.Printf("%s: %s\n", inst.Name, inst.State())
	return nil
}

func runServiceEnable(cmd *cobra.Command, args []string) error {
	inst, err := buildInstance(args[0])
	if err != nil {
		return err
	}
	svc := newServiceManager(settings())
	svc.Register(inst)
	if err := svc.EnableService(cmd.Context(), inst); err != nil {
		return err
	}
	fmt.Printf("%s: enabled, %s\n", inst.Name, inst.State())
	return nil
}

func runServiceDisable(cmd *cobra.Command, args []string) error {
	inst, err := buildInstance(args[0])
	if err != nil {
		return err
	}
	svc := newServiceManager(settings())
	if err := svc.DisableService(inst); err != nil {
		return err
	}
	fmt.Printf("%s: disabled\n", inst.Name)
	return nil
}

func runServiceStatus(cmd *cobra.Command, args []string) error {
	inst, err := buildInstance(args[0])
	if err != nil {
		return err
	}
	enabled := service.IsEnabled(inst.Name)
	fmt.Printf("%s: %s (enabled=%v)\n", inst.Name, inst.State(), enabled)
	return nil
}
