// Package install implements the installation orchestrator: plan
// construction over the pantry and dependency expander, bounded
// concurrency, per-package and global timeouts, a latest-version fallback
// retry, and the ready-marker fast path.
package install

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"launchpad/internal/config"
	"launchpad/internal/dependency"
	"launchpad/internal/download"
	"launchpad/internal/errs"
	"launchpad/internal/extract"
	"launchpad/internal/logging"
	"launchpad/internal/pantry"
	"launchpad/internal/shim"
)

// ServiceHook lets the install orchestrator kick off service auto-start
// without importing the service package directly, avoiding an import
// cycle (service installs packages too, via the same orchestrator).
type ServiceHook interface {
	AutoStart(ctx context.Context, domains []string) error
}

// Result records the outcome of installing one resolved package.
type Result struct {
	Domain  string
	Version string
	PkgDir  string
	Shims   []string
	Err     error
}

// Options configures one orchestrator run.
type Options struct {
	Prefix      string
	Concurrency int // 0 means sequential, used by the shell integration
	PerPackage  time.Duration
	Global      time.Duration
	Dependency  dependency.Options
	FixupOpts   extract.FixupOptions
	ForceInstall bool // bypass the ready-marker fast path
}

// Orchestrator drives package resolution, download, extraction and shim
// generation for a requested set of specs.
type Orchestrator struct {
	Pantry  *pantry.Adapter
	Client  *download.Client
	Service ServiceHook
}

// New builds an Orchestrator wired to pantryAdapter and an already
// constructed download client.
func New(pantryAdapter *pantry.Adapter, client *download.Client) *Orchestrator {
	return &Orchestrator{Pantry: pantryAdapter, Client: client}
}

// Install resolves requested specs, installs each with bounded concurrency,
// and returns per-package results. It never returns an error for an
// individual package failure; those are reported in Result.Err so
// the caller can warn-and-continue per package while still aggregating a
// top-level error on global timeout.
func (o *Orchestrator) Install(ctx context.Context, requested []string, opts Options) ([]Result, error) {
	if !opts.ForceInstall && readyMarkerFresh(opts.Prefix) {
		logging.Debug("install", "ready marker present, skipping resolution")
		return nil, nil
	}

	resolved := dependency.Expand(o.Pantry, requested, opts.Dependency)
	if len(resolved) == 0 {
		return nil, errs.Resolution("expand dependencies", fmt.Errorf("no installable packages resolved from %v", requested))
	}

	ctx, cancel := context.WithTimeout(ctx, opts.Global)
	defer cancel()

	results := make([]Result, len(resolved))

	if opts.Concurrency <= 1 {
		for i, r := range resolved {
			results[i] = o.installOne(ctx, r, opts)
			if ctx.Err() != nil {
				return results, errs.Timeout("install", ctx.Err())
			}
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(opts.Concurrency)
		var mu sync.Mutex
		for i, r := range resolved {
			i, r := i, r
			g.Go(func() error {
				res := o.installOne(gctx, r, opts)
				mu.Lock()
				results[i] = res
				mu.Unlock()
				return nil // individual failures are non-fatal, recorded in Result
			})
		}
		if err := g.Wait(); err != nil {
			return results, errs.Timeout("install", err)
		}
		if ctx.Err() != nil {
			return results, errs.Timeout("install", ctx.Err())
		}
	}

	if err := writeReadyMarker(opts.Prefix); err != nil {
		logging.Warn("install", "could not write ready marker: %v", err)
	}

	if o.Service != nil {
		domains := installedDomains(results)
		if err := o.Service.AutoStart(ctx, domains); err != nil {
			logging.Warn("install", "service auto-start had errors: %v", err)
		}
	}

	return results, nil
}

// installOne installs a single resolved package under a per-package
// timeout. If fetching the resolved version fails, it retries once against
// the domain's latest available version, since a pinned archive can go
// missing from the distribution host after the catalog has moved on.
func (o *Orchestrator) installOne(ctx context.Context, r dependency.Resolved, opts Options) Result {
	pctx, cancel := context.WithTimeout(ctx, opts.PerPackage)
	defer cancel()

	res := o.fetchAndExtract(pctx, r.Domain, r.Version, opts)
	if res.Err != nil {
		if latest, ok := latestVersion(o.Pantry, r.Domain); ok && latest != r.Version {
			logging.Warn("install", "retrying %s without version constraint, falling back to latest %s", r.Domain, latest)
			res = o.fetchAndExtract(pctx, r.Domain, latest, opts)
		}
	}
	return res
}

// latestVersion returns domain's newest catalog version, if any.
func latestVersion(p *pantry.Adapter, domain string) (string, bool) {
	versions := p.Versions(domain)
	if len(versions) == 0 {
		return "", false
	}
	return versions[0], true
}

func (o *Orchestrator) fetchAndExtract(ctx context.Context, domain, version string, opts Options) Result {
	res := Result{Domain: domain, Version: version}

	archivePath, format, err := o.Client.Fetch(ctx, domain, runtime.GOOS, download.NormalizeArch(runtime.GOARCH), version, nil)
	if err != nil {
		res.Err = err
		return res
	}

	if err := download.Sniff(archivePath); err != nil {
		res.Err = errs.Integrity("verify "+archivePath, err)
		return res
	}

	pkgDir, err := extract.Extract(archivePath, string(format), opts.Prefix, domain, version, opts.FixupOpts)
	if err != nil {
		res.Err = err
		return res
	}
	res.PkgDir = pkgDir

	written, err := shim.Generate(pkgDir, filepath.Join(opts.Prefix), shim.RuntimeEnv(pkgDir, nil))
	if err != nil {
		logging.Warn("install", "shim generation for %s failed: %v", domain, err)
	}
	res.Shims = written

	logging.Info("install", "installed %s@%s", domain, version)
	return res
}

func installedDomains(results []Result) []string {
	var domains []string
	for _, r := range results {
		if r.Err == nil {
			domains = append(domains, r.Domain)
		}
	}
	return domains
}

// readyMarkerFresh reports whether the global ready marker exists under
// prefix or the user cache. This is the hot path on every shell prompt.
func readyMarkerFresh(prefix string) bool {
	candidates := []string{
		filepath.Join(prefix, ".ready"),
		config.GlobalReadyMarker(),
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return true
		}
	}
	return false
}

func writeReadyMarker(prefix string) error {
	stamp := []byte(time.Now().UTC().Format(time.RFC3339))

	marker := config.GlobalReadyMarker()
	if err := os.MkdirAll(filepath.Dir(marker), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(marker, stamp, 0o644); err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(prefix, ".ready"), stamp, 0o644)
}
