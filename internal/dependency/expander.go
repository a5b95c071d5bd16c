// Package dependency implements the transitive dependency expander:
// closure over dependencies with platform filtering, conflict-free
// version selection with fallback strategies, and companion addition.
package dependency

import (
	"fmt"

	"launchpad/internal/logging"
	"launchpad/internal/pantry"
	"launchpad/internal/pkgspec"
	"launchpad/internal/version"
)

// Resolved is one pinned entry in the expanded install list.
type Resolved struct {
	Domain  string
	Version string
	// Role records why this entry is present, for stable-order emission
	// and for CLI summaries.
	Role Role
}

type Role int

const (
	RoleRequested Role = iota
	RoleDependency
	RoleCompanion
)

// Options controls expansion behavior.
type Options struct {
	InstallDependencies bool
	InstallCompanions   bool
}

// knownProblematic is the "known-problematic" dependency skip list:
// advisory policy, not protocol. Entries here are dependencies that
// repeatedly fail to resolve or aren't actually needed at runtime for
// launchpad's own use cases, so the closure drops them rather than
// failing the whole install over them.
var knownProblematic = map[string]bool{
	"man-pages.org": true,
}

// compatMap is the small hard-coded compatibility table used by the
// second fallback strategy, e.g. a caller pinned to OpenSSL 1.1 but only
// 3.x is available.
var compatMap = map[string]string{
	"openssl.org ^1.1": "3",
}

// Expand computes the deduplicated, platform-filtered, pinned install list
// for the given user-requested specs.
func Expand(p *pantry.Adapter, requested []string, opts Options) []Resolved {
	var out []Resolved
	visited := map[string]bool{} // keyed by "{domain}@{version}"
	companionsSeen := map[string]bool{}

	type queued struct {
		spec  pkgspec.Spec
		role  Role
	}

	var queue []queued
	for _, raw := range requested {
		queue = append(queue, queued{spec: pkgspec.Parse(raw), role: RoleRequested})
	}

	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]

		domain := p.ResolveAlias(item.spec.Name)
		resolvedVersion, ok := resolveVersion(p, domain, item.spec.Constraint, item.role != RoleRequested)
		if !ok {
			if item.role == RoleRequested {
				logging.Error("dependency", fmt.Errorf("no versions satisfy %q", item.spec.Constraint),
					"failed to resolve %s", item.spec.Name)
			} else {
				logging.Warn("dependency", "dropping unresolved dependency %s (%s)", item.spec.Name, item.spec.Constraint)
			}
			continue
		}

		key := domain + "@" + resolvedVersion
		if visited[key] {
			continue
		}
		visited[key] = true
		out = append(out, Resolved{Domain: domain, Version: resolvedVersion, Role: item.role})

		if !opts.InstallDependencies {
			continue
		}

		info, ok := p.Info(domain)
		if !ok {
			continue
		}

		for _, dep := range pkgspec.FilterPlatform(info.Dependencies) {
			if knownProblematic[dep] {
				continue
			}
			depSpec := pkgspec.Parse(dep)
			queue = append(queue, queued{spec: depSpec, role: RoleDependency})
		}

		if item.role == RoleRequested && opts.InstallCompanions {
			for _, comp := range info.Companions {
				compSpec := pkgspec.Parse(comp)
				compDomain := p.ResolveAlias(compSpec.Name)
				if companionsSeen[compSpec.Name] || companionsSeen[compDomain] || alreadyPresent(out, compDomain) {
					continue
				}
				companionsSeen[compSpec.Name] = true
				companionsSeen[compDomain] = true
				queue = append(queue, queued{spec: compSpec, role: RoleCompanion})
			}
		}
	}

	return stableOrder(out)
}

func alreadyPresent(list []Resolved, domain string) bool {
	for _, r := range list {
		if r.Domain == domain {
			return true
		}
	}
	return false
}

// stableOrder re-emits requested first, then dependencies, then companions,
// each group preserving discovery order.
func stableOrder(in []Resolved) []Resolved {
	var requested, deps, companions []Resolved
	for _, r := range in {
		switch r.Role {
		case RoleRequested:
			requested = append(requested, r)
		case RoleDependency:
			deps = append(deps, r)
		case RoleCompanion:
			companions = append(companions, r)
		}
	}
	out := make([]Resolved, 0, len(in))
	out = append(out, requested...)
	out = append(out, deps...)
	out = append(out, companions...)
	return out
}

// resolveVersion applies the exact resolver first, then the fallback
// strategies in order. The latest-available strategy (c) is tried only when
// allowLatest is set (dependencies and companions), so a requested package
// that (a) and (b) cannot satisfy fails.
func resolveVersion(p *pantry.Adapter, domain, constraint string, allowLatest bool) (string, bool) {
	versions := p.Versions(domain)
	if len(versions) == 0 {
		return "", false
	}

	if v, ok := version.Resolve(versions, constraint); ok {
		return v, true
	}

	// (a) caret/tilde relaxation to the highest matching major/minor: try
	// stripping down to just the major component.
	if constraint != "" {
		majorOnly := majorComponent(constraint)
		if majorOnly != "" {
			if v, ok := version.Resolve(versions, "^"+majorOnly); ok {
				logging.Warn("dependency", "compatible version %s used for %s", v, constraint)
				return v, true
			}
		}
	}

	// (b) hard-coded compatibility map.
	if compat, ok := compatMap[domain+" "+constraint]; ok {
		if v, ok := version.Resolve(versions, compat); ok {
			logging.Warn("dependency", "compatible version %s used for %s", v, constraint)
			return v, true
		}
	}

	// (c) latest available.
	if allowLatest {
		if v, ok := version.Resolve(versions, "*"); ok {
			logging.Warn("dependency", "falling back to latest version %s for %s@%s", v, domain, constraint)
			return v, true
		}
	}

	// No alternate domain is tried; resolution fails here.
	return "", false
}

// majorComponent extracts the leading numeric component from a constraint
// like "^1.2" or "~3.4.5", for fallback strategy (a).
func majorComponent(constraint string) string {
	s := constraint
	for len(s) > 0 && (s[0] == '^' || s[0] == '~' || s[0] == '>' || s[0] == '=' || s[0] == '<') {
		s = s[1:]
	}
	for i, c := range s {
		if c == '.' {
			return s[:i]
		}
	}
	return s
}
