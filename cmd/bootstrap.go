package cmd

import (
	"context"
	"path/filepath"
	"time"

	"launchpad/internal/config"
	"launchpad/internal/dependency"
	"launchpad/internal/download"
	"launchpad/internal/extract"
	"launchpad/internal/install"
	"launchpad/internal/pantry"
	"launchpad/internal/service"
)

// defaultBaseURL is the pantry archive host, baked into the download.Client
// built by newOrchestrator.
const defaultBaseURL = "https://dist.launchpad.dev"

// fixupDomains lists the small set of domains that need the
// cross-package-library and install_name fixups, matching the seed
// catalog's cross-dependency shapes.
var fixupDomains = []string{"postgresql.org", "mysql.com", "curl.se"}

// settings loads process-wide configuration, resolving InstallPath to its
// platform default when unset.
func settings() config.Settings {
	s := config.Load()
	if s.InstallPath == "" {
		s.InstallPath = config.DefaultInstallPath()
	}
	return s
}

// newOrchestrator wires a pantry adapter, download client, and service
// hook into an install.Orchestrator.
func newOrchestrator(svc *service.Manager) *install.Orchestrator {
	catalog := pantry.DefaultCatalog()
	adapter := pantry.New(catalog)

	cache := download.NewCache(config.BinariesCacheDir(), config.CacheMetadataFile())
	client := download.NewClient(defaultBaseURL, cache)

	o := install.New(adapter, client)
	if svc != nil {
		o.Service = svc
	}
	return o
}

// installOptions builds the per-run install.Options from s and the
// resolved CLI flags shared by install/upgrade.
func installOptions(s config.Settings, prefix string, concurrency int, withDeps, withCompanions, force bool) install.Options {
	perPackage := time.Duration(s.PerPackageTimeout()) * time.Minute
	return install.Options{
		Prefix:      prefix,
		Concurrency: concurrency,
		PerPackage:  perPackage,
		Global:      perPackage * 6,
		Dependency: dependency.Options{
			InstallDependencies: withDeps,
			InstallCompanions:   withCompanions,
		},
		FixupOpts: extract.FixupOptions{
			CrossPackageLibDomains: fixupDomains,
			InstallNameDomains:     fixupDomains,
		},
		ForceInstall: force,
	}
}

// newServiceManager wires a service.Manager whose EnsureInstalled hook
// installs a service's package on demand before first start.
func newServiceManager(s config.Settings) *service.Manager {
	m := service.NewManager(s)
	o := newOrchestrator(nil)
	prefix := resolvedPrefix(s)
	m.EnsureInstalled = func(ctx context.Context, domain string) error {
		if _, ok := install.Find(prefix, domain); ok {
			return nil
		}
		_, err := o.Install(ctx, []string{domain}, installOptions(s, prefix, 1, true, false, false))
		return err
	}
	return m
}

func resolvedPrefix(s config.Settings) string {
	if s.InstallPath != "" {
		return s.InstallPath
	}
	return config.DefaultInstallPath()
}

func shimPrefix(s config.Settings) string {
	if s.ShimPath != "" {
		return s.ShimPath
	}
	return filepath.Join(resolvedPrefix(s), "bin")
}
